package forms

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Status string

const (
	StatusSaved     Status = "saved"
	StatusDiscarded Status = "discarded"
	StatusInvalid   Status = "invalid"
)

// Result é o que o pipeline decidiu sobre a submissão.
//
// StatusDiscarded (honeypot acionado) deve ser apresentado ao usuário como
// sucesso; a entrada só não é gravada.
type Result struct {
	Status  Status
	EntryID string
	Outcome ValidationOutcome
}

type Pipeline struct {
	Registry *Registry
	Entries  EntryStore
	Log      *slog.Logger
	Now      func() time.Time

	mu    sync.RWMutex
	hooks []ValidationHook
}

func NewPipeline(reg *Registry, entries EntryStore, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Registry: reg, Entries: entries, Log: log, Now: time.Now}
}

// Use registra um hook. Hooks rodam na ordem de registro.
func (p *Pipeline) Use(h ValidationHook) {
	if h == nil {
		return
	}
	p.mu.Lock()
	p.hooks = append(p.hooks, h)
	p.mu.Unlock()
}

// Submit processa uma submissão. values pode ser alterado pelos hooks.
func (p *Pipeline) Submit(ctx context.Context, formID int, values url.Values) (Result, error) {
	form, err := p.Registry.Get(formID)
	if err != nil {
		return Result{}, err
	}
	if values == nil {
		values = url.Values{}
	}

	outcome := Validate(form, values)

	p.mu.RLock()
	hooks := append([]ValidationHook(nil), p.hooks...)
	p.mu.RUnlock()
	for _, h := range hooks {
		outcome = h(ctx, values, outcome)
	}

	// honeypot só vale para submissões válidas; inválida volta com os erros
	if !outcome.Valid {
		return Result{Status: StatusInvalid, Outcome: outcome}, nil
	}
	if outcome.Form.EnableHoneypot && strings.TrimSpace(values.Get(HoneypotInput(outcome.Form))) != "" {
		p.Log.Debug("honeypot triggered, discarding submission", "form_id", formID)
		return Result{Status: StatusDiscarded, Outcome: outcome}, nil
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	entry := Entry{
		ID:        ulid.Make().String(),
		FormID:    formID,
		Values:    values,
		CreatedAt: now().UTC(),
	}
	if p.Entries != nil {
		if err := p.Entries.Save(ctx, entry); err != nil {
			return Result{}, fmt.Errorf("save entry for form %d: %w", formID, err)
		}
	}
	return Result{Status: StatusSaved, EntryID: entry.ID, Outcome: outcome}, nil
}

// Validate checa os campos obrigatórios.
func Validate(form Form, values url.Values) ValidationOutcome {
	out := ValidationOutcome{Valid: true, Form: form}
	for _, f := range form.Fields {
		if !f.Required {
			continue
		}
		if strings.TrimSpace(values.Get(f.InputName())) != "" {
			continue
		}
		if out.Errors == nil {
			out.Errors = make(map[string]string)
		}
		label := f.Label
		if label == "" {
			label = f.InputName()
		}
		out.Errors[f.InputName()] = label + " is required"
		out.Valid = false
	}
	return out
}
