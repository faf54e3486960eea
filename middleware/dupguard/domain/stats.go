package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão do guard.
//
// Observação: SessionID tem cardinalidade alta; implementações devem evitar
// criar uma série por sessão.
type StatsEvent struct {
	SessionID string
	FormID    int
	Duplicate bool

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do guard.
// O guard trata erro como best-effort (não derruba a submissão).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
