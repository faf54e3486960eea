package dupguard

import (
	"context"
	"net/http"
	"strings"
	"time"

	"middleware-formguard/middleware/dupguard/domain"

	"github.com/google/uuid"
)

type SessionOptions struct {
	Store domain.SessionStore
	// CookieName padrão: formguard_session.
	CookieName string
	// Header, se definido, é consultado quando não há cookie (clientes sem cookie).
	Header       string
	CookiePath   string
	CookieMaxAge time.Duration
	Secure       bool
	NewID        func() string
}

const DefaultCookieName = "formguard_session"

type ctxKey int

const (
	sessionKey ctxKey = iota
	sessionIDKey
)

func (o *SessionOptions) defaults() {
	if o.CookieName == "" {
		o.CookieName = DefaultCookieName
	}
	if o.CookiePath == "" {
		o.CookiePath = "/"
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
}

// SessionID extrai o id da sessão: cookie, depois header. fresh=true quando
// nenhum dos dois trouxe um id válido e um novo foi gerado.
func (o SessionOptions) SessionID(r *http.Request) (id string, fresh bool) {
	if c, err := r.Cookie(o.CookieName); err == nil && validSessionID(c.Value) {
		return c.Value, false
	}
	if o.Header != "" {
		if v := strings.TrimSpace(r.Header.Get(o.Header)); validSessionID(v) {
			return v, false
		}
	}
	return o.NewID(), true
}

func validSessionID(v string) bool {
	if v == "" || len(v) > 128 {
		return false
	}
	for _, c := range v {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// attach resolve a sessão, emite o cookie se for nova e devolve a requisição
// com a sessão no contexto.
func (o SessionOptions) attach(w http.ResponseWriter, r *http.Request) *http.Request {
	id, fresh := o.SessionID(r)
	if fresh {
		c := &http.Cookie{
			Name:     o.CookieName,
			Value:    id,
			Path:     o.CookiePath,
			HttpOnly: true,
			Secure:   o.Secure,
			SameSite: http.SameSiteLaxMode,
		}
		if o.CookieMaxAge > 0 {
			c.MaxAge = int(o.CookieMaxAge.Seconds())
		}
		http.SetCookie(w, c)
	}

	ctx := context.WithValue(r.Context(), sessionIDKey, id)
	if o.Store != nil {
		ctx = context.WithValue(ctx, sessionKey, o.Store.Session(id))
	}
	return r.WithContext(ctx)
}

func SessionMiddleware(opts SessionOptions) func(next http.Handler) http.Handler {
	opts.defaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, opts.attach(w, r))
		})
	}
}

func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(domain.Session)
	return s, ok && s != nil
}

func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// WithSession coloca a sessão no contexto (para quem não usa o middleware).
func WithSession(ctx context.Context, s domain.Session) context.Context {
	if s == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, sessionIDKey, s.ID())
	return context.WithValue(ctx, sessionKey, s)
}
