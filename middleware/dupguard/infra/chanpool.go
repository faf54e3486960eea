package infra

import (
	"context"

	"github.com/cespare/xxhash/v2"
)

// stripedLocks distribui sessões em N semáforos de capacidade 1.
// Sessões diferentes podem cair no mesmo stripe; isso só serializa mais do que
// o necessário, nunca menos.
type stripedLocks struct {
	sems []chan struct{}
}

func newStripedLocks(n int) *stripedLocks {
	if n <= 0 {
		n = 64
	}
	l := &stripedLocks{sems: make([]chan struct{}, n)}
	for i := range l.sems {
		l.sems[i] = make(chan struct{}, 1)
	}
	return l
}

func (l *stripedLocks) Acquire(ctx context.Context, id string) (func(), error) {
	sem := l.sems[xxhash.Sum64String(id)%uint64(len(l.sems))]
	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
