package dupguard

import (
	"context"
	"net/url"

	"middleware-formguard/forms"
	"middleware-formguard/middleware/dupguard/application"
)

// Hook adapta o Guard ao ponto de extensão do pipeline de forms.
// Sem sessão no contexto a submissão segue inalterada.
func Hook(g application.Guard) forms.ValidationHook {
	return func(ctx context.Context, values url.Values, outcome forms.ValidationOutcome) forms.ValidationOutcome {
		sess, ok := SessionFromContext(ctx)
		if !ok {
			return outcome
		}
		out, _ := g.Check(ctx, sess, values, outcome)
		return out
	}
}
