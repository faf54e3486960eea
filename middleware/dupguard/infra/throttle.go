package infra

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// ThrottledHandler limita registros a partir de MinLevel com token bucket.
// Um cliente repetindo a mesma submissão não consegue inundar o log; os
// registros descartados são contados e anexados ao próximo que passar
// (atributo "suppressed").
type ThrottledHandler struct {
	next     slog.Handler
	lim      *rate.Limiter
	minLevel slog.Level
	dropped  *atomic.Int64
}

// NewThrottledHandler: perSecond <= 0 desliga o limite.
func NewThrottledHandler(next slog.Handler, perSecond float64, burst int, minLevel slog.Level) *ThrottledHandler {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &ThrottledHandler{
		next:     next,
		lim:      rate.NewLimiter(limit, burst),
		minLevel: minLevel,
		dropped:  new(atomic.Int64),
	}
}

func (h *ThrottledHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *ThrottledHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel {
		if !h.lim.Allow() {
			h.dropped.Add(1)
			return nil
		}
		if n := h.dropped.Swap(0); n > 0 {
			r = r.Clone()
			r.AddAttrs(slog.Int64("suppressed", n))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ThrottledHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ThrottledHandler{next: h.next.WithAttrs(attrs), lim: h.lim, minLevel: h.minLevel, dropped: h.dropped}
}

func (h *ThrottledHandler) WithGroup(name string) slog.Handler {
	return &ThrottledHandler{next: h.next.WithGroup(name), lim: h.lim, minLevel: h.minLevel, dropped: h.dropped}
}

func (h *ThrottledHandler) Suppressed() int64 { return h.dropped.Load() }
