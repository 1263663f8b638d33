// Package settlement binds the ledger and a coin's aggregates into one
// atomic unit of work, so a mint or redemption commits its balance moves
// and its aggregate deltas together or not at all.
package settlement

import (
	"context"

	coinstore "sovmint/internal/coin/store"
	"sovmint/internal/ledger"
)

// Unit is everything one settlement transition may mutate: ledger balances
// and the owning coin's running aggregates.
type Unit interface {
	ledger.Ledger
	coinstore.Aggregates
}

// Runner runs fn against a unit whose mutations commit together; fn
// returning an error discards every mutation it made.
type Runner interface {
	InUnit(ctx context.Context, fn func(ctx context.Context, u Unit) error) error
}
