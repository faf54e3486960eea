package infra

import (
	"context"
	"testing"
	"time"
)

func TestMemorySession_GetAbsentThenSet(t *testing.T) {
	s := NewMemorySessionStore()
	sess := s.Session("a")
	ctx := context.Background()

	if _, ok, err := sess.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected absent without error, got ok=%v err=%v", ok, err)
	}
	if s.Len() != 0 {
		t.Fatalf("Get must not create sessions, got %d", s.Len())
	}

	if err := sess.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := sess.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, _ := s.Session("a").Get(ctx, "k")
	if !ok || v != "v2" {
		t.Fatalf("expected v2, got %q ok=%v", v, ok)
	}
	if sess.ID() != "a" {
		t.Fatalf("expected id a, got %q", sess.ID())
	}
}

func TestMemorySession_SessionsAreIsolated(t *testing.T) {
	s := NewMemorySessionStore()
	ctx := context.Background()

	_ = s.Session("a").Set(ctx, "k", "va")
	if _, ok, _ := s.Session("b").Get(ctx, "k"); ok {
		t.Fatalf("session b must not see session a's slot")
	}
}

func TestMemorySession_IdleExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	s := NewMemorySessionStore(WithSessionIdleTTL(time.Minute), WithSessionCleanupEvery(0), withSessionClock(clock))
	ctx := context.Background()

	_ = s.Session("a").Set(ctx, "k", "v")
	now = now.Add(30 * time.Second)
	if _, ok, _ := s.Session("a").Get(ctx, "k"); !ok {
		t.Fatalf("expected slot within ttl")
	}

	// Get renova o lastSeen; 61s depois do último acesso expira
	now = now.Add(61 * time.Second)
	if _, ok, _ := s.Session("a").Get(ctx, "k"); ok {
		t.Fatalf("expected slot to expire after idle ttl")
	}
	if s.Len() != 0 {
		t.Fatalf("expected expired session to be removed, got %d", s.Len())
	}
}

func TestMemorySession_CleanupRemovesIdleEntries(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewMemorySessionStore(WithSessionIdleTTL(time.Minute), withSessionClock(func() time.Time { return now }))
	ctx := context.Background()

	_ = s.Session("old").Set(ctx, "k", "v")
	now = now.Add(2 * time.Minute)
	_ = s.Session("new").Set(ctx, "k", "v")

	s.Cleanup()

	if s.Len() != 1 {
		t.Fatalf("expected only the recent session to survive, got %d", s.Len())
	}
}

func TestMemorySession_LockSerializesSameSession(t *testing.T) {
	s := NewMemorySessionStore()
	sess := s.Session("a").(*memorySession)

	unlock, err := sess.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Session("a").(*memorySession).Lock(ctx); err == nil {
		t.Fatalf("expected second Lock on same session to time out")
	}

	unlock()
	again, err := sess.Lock(context.Background())
	if err != nil {
		t.Fatalf("expected Lock after unlock, got %v", err)
	}
	again()
}
