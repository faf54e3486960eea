package forms

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// Entry é uma submissão aceita e gravada.
type Entry struct {
	ID        string     `json:"id"`
	FormID    int        `json:"formId"`
	Values    url.Values `json:"values"`
	CreatedAt time.Time  `json:"createdAt"`
}

// EntryStore é a persistência das entradas aceitas.
type EntryStore interface {
	Save(ctx context.Context, e Entry) error
	List(ctx context.Context, formID int) ([]Entry, error)
	Count(ctx context.Context, formID int) (int, error)
}

// MemoryEntryStore é útil para testes e para o example-server.
type MemoryEntryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryEntryStore() *MemoryEntryStore {
	return &MemoryEntryStore{}
}

func (s *MemoryEntryStore) Save(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Values = cloneValues(e.Values)
	s.entries = append(s.entries, e)
	return nil
}

func (s *MemoryEntryStore) List(_ context.Context, formID int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Entry
	for _, e := range s.entries {
		if e.FormID == formID {
			e.Values = cloneValues(e.Values)
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryEntryStore) Count(_ context.Context, formID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.FormID == formID {
			n++
		}
	}
	return n, nil
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return nil
	}
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
