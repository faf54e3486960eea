package domain

import "context"

// Session é o contexto de sessão explícito passado ao guard.
//
// Get devolve ok=false quando a chave não existe. Implementações não devem
// tratar "ausente" como erro.
type Session interface {
	ID() string
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// SessionStore resolve a sessão de um usuário pelo id.
type SessionStore interface {
	Session(id string) Session
}
