// Package forms é o pipeline mínimo de processamento de formulários onde o guard
// de duplicidade se pendura.
//
// Fluxo de uma submissão:
//
//   1) Localiza a definição do formulário no Registry
//   2) Valida campos obrigatórios e monta o ValidationOutcome
//   3) Executa os ValidationHooks registrados (ponto de extensão "pre-save")
//   4) Se o honeypot estiver habilitado e preenchido, descarta em silêncio
//   5) Se inválido, devolve os erros; senão grava a Entry no EntryStore
package forms
