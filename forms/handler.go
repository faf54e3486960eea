package forms

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
)

type HandlerOptions struct {
	// ScriptURL, se não vazio, é incluído como <script> na página do formulário
	// (o debouncer de submit).
	ScriptURL string
	// MaxBodyBytes limita o corpo do POST. 0 usa 1 MiB.
	MaxBodyBytes int64
	Log          *slog.Logger
}

var pageTmpl = template.Must(template.New("form").Funcs(template.FuncMap{"inputType": inputType}).Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Form.Title}}</title></head>
<body>
<h1>{{.Form.Title}}</h1>
{{if .Thanks}}<p class="formguard-thanks">Thank you, your submission was received.</p>{{else}}
<form method="post" action="/forms/{{.Form.ID}}">
{{range .Form.Fields}}<p>
<label for="{{.InputName}}">{{.Label}}</label>
<input id="{{.InputName}}" name="{{.InputName}}" type="{{inputType .Type}}"{{if .Required}} required{{end}} value="{{index $.Values .InputName}}">
{{with index $.Errors .InputName}}<span class="error">{{.}}</span>{{end}}
</p>{{end}}
{{if .Form.EnableHoneypot}}<p style="display:none"><input name="{{.Honeypot}}" tabindex="-1" autocomplete="off"></p>{{end}}
<button type="submit">Send</button>
</form>{{end}}
{{if .ScriptURL}}<script src="{{.ScriptURL}}"></script>{{end}}
</body></html>
`))

func inputType(t string) string {
	switch t {
	case "email", "password", "tel", "number", "date", "url":
		return t
	default:
		return "text"
	}
}

type pageData struct {
	Form      Form
	Values    map[string]string
	Errors    map[string]string
	Honeypot  string
	Thanks    bool
	ScriptURL string
}

// Handler expõe o pipeline em net/http:
//
//	GET  /forms/{id}          página do formulário
//	POST /forms/{id}          submissão (url-encoded)
//	GET  /forms/{id}/entries  entradas gravadas (JSON)
func Handler(p *Pipeline, opts HandlerOptions) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.Log == nil {
		opts.Log = p.Log
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	h := &formHandler{p: p, opts: opts}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /forms/{id}", h.show)
	mux.HandleFunc("POST /forms/{id}", h.submit)
	mux.HandleFunc("GET /forms/{id}/entries", h.entries)
	return mux
}

type formHandler struct {
	p    *Pipeline
	opts HandlerOptions
}

func formIDFromPath(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *formHandler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := formIDFromPath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	form, err := h.p.Registry.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, http.StatusOK, pageData{Form: form})
}

func (h *formHandler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := formIDFromPath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := h.p.Submit(r.Context(), id, r.PostForm)
	if errors.Is(err, ErrFormNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.opts.Log.Error("submit failed", "form_id", id, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	switch res.Status {
	case StatusInvalid:
		vals := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			// senha e cartão não voltam no HTML
			if res.Outcome.Form.SecretInput(k) {
				continue
			}
			vals[k] = r.PostForm.Get(k)
		}
		h.render(w, http.StatusUnprocessableEntity, pageData{
			Form:   res.Outcome.Form,
			Values: vals,
			Errors: res.Outcome.Errors,
		})
	default:
		// saved e discarded têm a mesma resposta
		h.render(w, http.StatusOK, pageData{Form: res.Outcome.Form, Thanks: true})
	}
}

func (h *formHandler) entries(w http.ResponseWriter, r *http.Request) {
	id, ok := formIDFromPath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := h.p.Registry.Get(id); err != nil {
		http.NotFound(w, r)
		return
	}
	if h.p.Entries == nil {
		writeJSON(w, []Entry{})
		return
	}
	list, err := h.p.Entries.List(r.Context(), id)
	if err != nil {
		h.opts.Log.Error("list entries failed", "form_id", id, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Entry{}
	}
	writeJSON(w, list)
}

func (h *formHandler) render(w http.ResponseWriter, status int, data pageData) {
	data.ScriptURL = h.opts.ScriptURL
	if data.Form.EnableHoneypot {
		data.Honeypot = HoneypotInput(data.Form)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		h.opts.Log.Error("render form failed", "form_id", data.Form.ID, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
