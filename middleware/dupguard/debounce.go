package dupguard

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"net/http"
	"text/template"
)

//go:embed debounce.js.tmpl
var debounceSource string

var debounceTmpl = template.Must(template.New("debounce").Funcs(template.FuncMap{
	"jsString": jsString,
}).Parse(debounceSource))

// DebounceOptions configura o script de cliente.
type DebounceOptions struct {
	FormSelector   string
	SubmitSelector string
	LoadingClass   string
}

const (
	DefaultFormSelector   = "form"
	DefaultSubmitSelector = `input[type="submit"], button[type="submit"]`
	DefaultLoadingClass   = "formguard-loading"
)

func (o *DebounceOptions) defaults() {
	if o.FormSelector == "" {
		o.FormSelector = DefaultFormSelector
	}
	if o.SubmitSelector == "" {
		o.SubmitSelector = DefaultSubmitSelector
	}
	if o.LoadingClass == "" {
		o.LoadingClass = DefaultLoadingClass
	}
}

// jsString gera um literal de string JS seguro (JSON já escapa <, > e &).
func jsString(s string) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

// DebounceScript renderiza o script que, no submit de um form que casa com
// FormSelector, desabilita os controles de submit e aplica LoadingClass.
func DebounceScript(opts DebounceOptions) ([]byte, error) {
	opts.defaults()
	var buf bytes.Buffer
	if err := debounceTmpl.Execute(&buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DebounceHandler serve o script renderizado. O template é fixo, então a
// renderização acontece uma vez só.
func DebounceHandler(opts DebounceOptions) (http.Handler, error) {
	body, err := DebounceScript(opts)
	if err != nil {
		return nil, err
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body)
	}), nil
}
