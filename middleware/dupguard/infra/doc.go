// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - MemorySessionStore: sessões em memória com TTL de inatividade e janitor
//   - RedisSessionStore: um hash por sessão no Redis, TTL deslizante e lock SET NX
//   - MemoryStatsStore / RedisStatsStore: contadores de submissões e duplicadas
//   - ThrottledHandler: slog.Handler que limita rajadas de logs (x/time/rate)
//   - WebhookNotifier: POST assíncrono a cada duplicada bloqueada
package infra
