package infra

import (
	"context"
	"errors"
	"strings"
	"time"

	"middleware-formguard/middleware/dupguard/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore guarda cada sessão como um hash em <prefix>:<id>.
// Cada escrita renova o TTL (expiração deslizante).
type RedisSessionStore struct {
	rdb redis.UniversalClient

	prefix      string
	ttl         time.Duration
	lockTTL     time.Duration
	lockBackoff time.Duration
}

type RedisSessionOption func(*RedisSessionStore)

func WithSessionPrefix(prefix string) RedisSessionOption {
	return func(s *RedisSessionStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithSessionTTL(d time.Duration) RedisSessionOption {
	return func(s *RedisSessionStore) { s.ttl = d }
}

// WithSessionLockTTL define a validade do lock; protege contra processo que
// morre segurando o lock.
func WithSessionLockTTL(d time.Duration) RedisSessionOption {
	return func(s *RedisSessionStore) { s.lockTTL = d }
}

func NewRedisSessionStore(rdb redis.UniversalClient, opts ...RedisSessionOption) *RedisSessionStore {
	s := &RedisSessionStore{
		rdb:         rdb,
		prefix:      "formguard:session",
		ttl:         30 * time.Minute,
		lockTTL:     5 * time.Second,
		lockBackoff: 10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisSessionStore) Session(id string) domain.Session {
	return &redisSession{store: s, id: id}
}

func (s *RedisSessionStore) key(id string) string     { return s.prefix + ":" + id }
func (s *RedisSessionStore) lockKey(id string) string { return s.prefix + ":lock:" + id }

// só apaga o lock se ainda for nosso
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisSession struct {
	store *RedisSessionStore
	id    string
}

func (r *redisSession) ID() string { return r.id }

func (r *redisSession) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.store.rdb.HGet(ctx, r.store.key(r.id), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *redisSession) Set(ctx context.Context, key, value string) error {
	k := r.store.key(r.id)
	pipe := r.store.rdb.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	if r.store.ttl > 0 {
		pipe.Expire(ctx, k, r.store.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisSession) Lock(ctx context.Context) (func(), error) {
	lk := r.store.lockKey(r.id)
	token := uuid.NewString()

	for {
		ok, err := r.store.rdb.SetNX(ctx, lk, token, r.store.lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// ctx da requisição pode já ter encerrado
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = unlockScript.Run(ctx, r.store.rdb, []string{lk}, token).Err()
			}, nil
		}

		t := time.NewTimer(r.store.lockBackoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}
