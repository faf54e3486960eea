// Package domain define contratos e tipos de domínio do guard de submissões duplicadas.
//
// Este pacote não depende de net/http nem de implementações concretas
// (sessão em memória, Redis, etc.).
package domain
