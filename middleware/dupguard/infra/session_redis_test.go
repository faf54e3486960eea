package infra

import (
	"context"
	"net/url"
	"testing"
	"time"

	"middleware-formguard/forms"
	"middleware-formguard/middleware/dupguard/application"

	"github.com/redis/go-redis/v9"
)

// Sem Redis disponível nos testes: só validamos que falhas de conexão
// aparecem como erro e que o guard segue em frente (fail-open).
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisSession_ErrorsWhenUnreachable(t *testing.T) {
	s := NewRedisSessionStore(unreachableRedis(t), WithSessionPrefix("test:"))
	sess := s.Session("abc")

	if sess.ID() != "abc" {
		t.Fatalf("expected id abc, got %q", sess.ID())
	}
	if _, _, err := sess.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected Get error")
	}
	if err := sess.Set(context.Background(), "k", "v"); err == nil {
		t.Fatalf("expected Set error")
	}
	if got := s.key("abc"); got != "test:abc" {
		t.Fatalf("expected trimmed prefix key, got %q", got)
	}
}

func TestRedisSession_GuardFailsOpen(t *testing.T) {
	s := NewRedisSessionStore(unreachableRedis(t))
	g := application.Guard{}
	outcome := forms.ValidationOutcome{Valid: true, Form: forms.Form{ID: 1, Fields: []forms.Field{{ID: "1"}}}}

	for i := 0; i < 2; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		v := url.Values{"input_1": {"x"}}
		out, dec := g.Check(ctx, s.Session("abc"), v, outcome)
		cancel()
		if dec.Duplicate || out.Form.EnableHoneypot {
			t.Fatalf("expected fail-open (not duplicate) on attempt %d", i+1)
		}
	}
}

func TestRedisStatsStore_NilIsNoop(t *testing.T) {
	var s *RedisStatsStore
	if err := s.Record(context.Background(), statsEvent()); err != nil {
		t.Fatalf("expected nil store to be a no-op, got %v", err)
	}
}
