// Package application contém o caso de uso do guard de duplicidade.
//
// Ele depende apenas de domain e forms e não conhece net/http.
// Ex.: Guard.Check(ctx, sess, values, outcome) devolve o outcome (talvez
// alterado) e a Decision.
package application
