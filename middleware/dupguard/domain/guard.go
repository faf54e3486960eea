package domain

import (
	"context"
	"net/url"
	"time"

	"middleware-formguard/forms"
)

// Fingerprint resume o conteúdo de uma submissão.
type Fingerprint string

type Decision struct {
	Duplicate   bool
	Fingerprint Fingerprint
	// HoneypotInput é o input sintético injetado (só quando Duplicate).
	HoneypotInput string
}

// DuplicateEvent é emitido quando uma submissão é bloqueada.
//
// Outcome é a cópia anterior à mutação; Values já vem sanitizado.
type DuplicateEvent struct {
	SessionID string
	FormID    int
	Outcome   forms.ValidationOutcome
	Values    url.Values
	At        time.Time
}

// Notifier recebe avisos de duplicidade. Fire-and-forget: não devolve erro e
// não pode alterar a decisão.
type Notifier interface {
	DuplicateBlocked(ctx context.Context, ev DuplicateEvent)
}

type NotifierFunc func(ctx context.Context, ev DuplicateEvent)

func (f NotifierFunc) DuplicateBlocked(ctx context.Context, ev DuplicateEvent) { f(ctx, ev) }

// Notifiers repassa o mesmo evento para todos.
type Notifiers []Notifier

func (ns Notifiers) DuplicateBlocked(ctx context.Context, ev DuplicateEvent) {
	for _, n := range ns {
		if n != nil {
			n.DuplicateBlocked(ctx, ev)
		}
	}
}
