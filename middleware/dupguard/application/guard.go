package application

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"middleware-formguard/forms"
	"middleware-formguard/middleware/dupguard/domain"
)

const (
	// DefaultSessionKey é o slot único de fingerprint por sessão.
	DefaultSessionKey = "formguard_fingerprint"
	// DuplicateMarker é o valor injetado no input sintético do honeypot.
	DuplicateMarker = "duplicate"
)

// Guard decide se uma submissão repete a anterior da mesma sessão.
//
// Ele nunca bloqueia a requisição: em caso de duplicidade apenas liga o
// honeypot do formulário e preenche o input sintético, e o pipeline descarta
// a entrada em silêncio.
type Guard struct {
	Fingerprinter Fingerprinter
	Sanitizer     Sanitizer
	SessionKey    string
	Notifier      domain.Notifier
	Stats         domain.StatsStore
	Log           *slog.Logger
	Now           func() time.Time
}

// Check roda o guard. values precisa ser não-nil para a injeção do input
// sintético surtir efeito; o pipeline garante isso.
//
// Sessão nil, slot ausente/vazio ou erro de leitura contam como "sem
// submissão anterior".
func (g Guard) Check(ctx context.Context, sess domain.Session, values url.Values, outcome forms.ValidationOutcome) (forms.ValidationOutcome, domain.Decision) {
	key := g.SessionKey
	if key == "" {
		key = DefaultSessionKey
	}
	log := g.Log
	if log == nil {
		log = slog.Default()
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	formID := outcome.Form.ID
	candidate := g.Fingerprinter.Fingerprint(formID, values)
	dec := domain.Decision{Fingerprint: candidate}

	if sess == nil {
		log.Debug("no session, skipping duplicate check", "form_id", formID)
		return outcome, dec
	}

	if l, isLocker := sess.(domain.Locker); isLocker {
		unlock, err := l.Lock(ctx)
		if err != nil {
			log.Warn("session lock failed, checking without it", "form_id", formID, "err", err)
		} else {
			defer unlock()
		}
	}

	stored, ok, err := sess.Get(ctx, key)
	if err != nil {
		log.Warn("session read failed, treating as first submission", "form_id", formID, "err", err)
		ok = false
	}

	if ok && stored != "" && domain.Fingerprint(stored) == candidate {
		before := outcome.Clone()

		dec.Duplicate = true
		dec.HoneypotInput = forms.HoneypotInput(outcome.Form)
		outcome.Form.EnableHoneypot = true
		if values != nil {
			values.Set(dec.HoneypotInput, DuplicateMarker)
		}

		fields := g.Sanitizer.Sanitize(outcome.Form, values, dec.HoneypotInput)
		log.Warn("blocking duplicate submission",
			"form_id", formID,
			"session", sess.ID(),
			"fields", fields.Encode(),
		)

		if g.Notifier != nil {
			g.Notifier.DuplicateBlocked(ctx, domain.DuplicateEvent{
				SessionID: sess.ID(),
				FormID:    formID,
				Outcome:   before,
				Values:    fields,
				At:        now(),
			})
		}
	} else {
		if err := sess.Set(ctx, key, string(candidate)); err != nil {
			log.Warn("session write failed", "form_id", formID, "err", err)
		} else {
			log.Debug("stored submission fingerprint", "form_id", formID, "session", sess.ID())
		}
	}

	if g.Stats != nil {
		if err := g.Stats.Record(ctx, domain.StatsEvent{
			SessionID: sess.ID(),
			FormID:    formID,
			Duplicate: dec.Duplicate,
			At:        now(),
		}); err != nil {
			log.Debug("stats record failed", "err", err)
		}
	}

	return outcome, dec
}
