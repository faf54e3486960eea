// Package dupguard fornece adapters HTTP (net/http e gin) para o guard de
// submissões duplicadas.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: o caso de uso Guard.Check (fingerprint, comparação, honeypot)
//   - infra: implementações concretas (sessão em memória/Redis, stats, webhook)
//   - dupguard (este pacote): middleware de sessão, hook do pipeline e o
//     script de debounce do botão de submit
//
// Fluxo de uma submissão:
//
//   1) SessionMiddleware resolve (ou cria) a sessão pelo cookie e coloca no ctx
//   2) O pipeline de forms valida e chama o Hook
//   3) O Hook roda Guard.Check com a sessão do ctx
//   4) Se duplicada, o honeypot é ligado e o pipeline descarta em silêncio
//
// O debounce no cliente é só mitigação de UX; quem decide é o guard.
package dupguard
