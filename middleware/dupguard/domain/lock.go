package domain

import "context"

// Locker é opcional: sessões que o implementam serializam o ciclo
// ler-comparar-gravar do guard. Lock bloqueia até conseguir ou até o ctx
// encerrar; unlock deve ser chamado exatamente uma vez.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}
