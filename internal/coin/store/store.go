// Package store persists the factory record and sovereign coins.
package store

import (
	"context"

	"sovmint/internal/coin/models"
	id "sovmint/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested record does not exist
// - Return sentinel.ErrConflict when a create collides with an existing record
// - Return sentinel.ErrInsufficientFunds when a redeem delta would drive an
//   aggregate negative
// - Return wrapped errors with context for infrastructure failures

// Store is the persistence port for factory and coin records.
type Store interface {
	SaveFactory(ctx context.Context, factory *models.Factory) error
	FindFactory(ctx context.Context) (*models.Factory, error)

	CreateCoin(ctx context.Context, coin *models.SovereignCoin) error
	FindCoin(ctx context.Context, symbol id.CoinSymbol) (*models.SovereignCoin, error)
	ListCoins(ctx context.Context) ([]*models.SovereignCoin, error)

	Aggregates
}

// Aggregates is the slice of the store a settlement unit mutates: a coin's
// supply, liquid-reserve, and bond-collateral totals, adjusted atomically.
type Aggregates interface {
	ApplyMint(ctx context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error
	ApplyRedeem(ctx context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error
}
