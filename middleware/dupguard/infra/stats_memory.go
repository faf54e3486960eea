package infra

import (
	"context"
	"sync"

	"middleware-formguard/middleware/dupguard/domain"
)

type Counters struct {
	Allowed    int64
	Duplicates int64
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu     sync.Mutex
	total  Counters
	byForm map[int]Counters
}

func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{byForm: make(map[int]Counters)}
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.byForm[ev.FormID]
	if ev.Duplicate {
		s.total.Duplicates++
		c.Duplicates++
	} else {
		s.total.Allowed++
		c.Allowed++
	}
	s.byForm[ev.FormID] = c
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByForm() map[int]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]Counters, len(s.byForm))
	for k, v := range s.byForm {
		out[k] = v
	}
	return out
}
