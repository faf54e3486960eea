package infra

import (
	"context"
	"sync"
	"time"

	"middleware-formguard/middleware/dupguard/domain"
)

// MemorySessionStore guarda os slots de sessão em memória, com expiração por
// inatividade e limpeza periódica.
type MemorySessionStore struct {
	mu           sync.Mutex
	entries      map[string]*sessionEntry
	idleTTL      time.Duration
	cleanupEvery time.Duration
	locks        *stripedLocks
	now          func() time.Time
}

type sessionEntry struct {
	slots    map[string]string
	lastSeen time.Time
}

type MemorySessionOption func(*MemorySessionStore)

func WithSessionIdleTTL(d time.Duration) MemorySessionOption {
	return func(s *MemorySessionStore) { s.idleTTL = d }
}

func WithSessionCleanupEvery(d time.Duration) MemorySessionOption {
	return func(s *MemorySessionStore) { s.cleanupEvery = d }
}

func withSessionClock(now func() time.Time) MemorySessionOption {
	return func(s *MemorySessionStore) { s.now = now }
}

func NewMemorySessionStore(opts ...MemorySessionOption) *MemorySessionStore {
	s := &MemorySessionStore{
		entries:      make(map[string]*sessionEntry),
		idleTTL:      30 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		locks:        newStripedLocks(64),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session implementa domain.SessionStore. Não cria nada até o primeiro Set.
func (s *MemorySessionStore) Session(id string) domain.Session {
	return &memorySession{store: s, id: id}
}

func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemorySessionStore) get(id, key string) (string, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[id]
	if !ok {
		return "", false
	}
	if s.idleTTL > 0 && ent.lastSeen.Before(now.Add(-s.idleTTL)) {
		delete(s.entries, id)
		return "", false
	}
	ent.lastSeen = now
	v, ok := ent.slots[key]
	return v, ok
}

func (s *MemorySessionStore) set(id, key, value string) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[id]
	if !ok {
		ent = &sessionEntry{slots: make(map[string]string, 1)}
		s.entries[id] = ent
	}
	ent.slots[key] = value
	ent.lastSeen = now
}

func (s *MemorySessionStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que remove sessões inativas periodicamente.
// Pare cancelando o contexto.
func (s *MemorySessionStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 || s.idleTTL <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

type memorySession struct {
	store *MemorySessionStore
	id    string
}

func (m *memorySession) ID() string { return m.id }

func (m *memorySession) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.store.get(m.id, key)
	return v, ok, nil
}

func (m *memorySession) Set(_ context.Context, key, value string) error {
	m.store.set(m.id, key, value)
	return nil
}

func (m *memorySession) Lock(ctx context.Context) (func(), error) {
	return m.store.locks.Acquire(ctx, m.id)
}
