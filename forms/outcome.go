package forms

import (
	"context"
	"net/url"
)

// ValidationOutcome é o resultado transitório (por requisição) da validação.
// Hooks podem alterá-lo antes do pipeline decidir se grava a entrada.
type ValidationOutcome struct {
	Valid  bool              `json:"valid"`
	Form   Form              `json:"form"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (o ValidationOutcome) Clone() ValidationOutcome {
	out := ValidationOutcome{Valid: o.Valid, Form: o.Form.Clone()}
	if o.Errors != nil {
		out.Errors = make(map[string]string, len(o.Errors))
		for k, v := range o.Errors {
			out.Errors[k] = v
		}
	}
	return out
}

// ValidationHook é o ponto de extensão "pre-save".
//
// Recebe e devolve o outcome; pode alterar values no lugar (o mapa é o mesmo
// que o pipeline usa na checagem do honeypot).
type ValidationHook func(ctx context.Context, values url.Values, outcome ValidationOutcome) ValidationOutcome
