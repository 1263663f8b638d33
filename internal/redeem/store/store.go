// Package store persists pending redeem plans.
package store

import (
	"context"
	"time"

	"sovmint/internal/redeem/models"
	id "sovmint/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when no plan exists for (requester, symbol)
// - Return sentinel.ErrConflict when Create would shadow a live plan
// - Return sentinel.ErrExpired when Consume finds a plan past its window
// - Return wrapped errors with context for infrastructure failures

// Store is the persistence port for pending redeem plans. A plan is
// exactly-once consumable: Consume removes it atomically; the service puts
// it back through Create when the settlement it was consumed for fails.
type Store interface {
	Create(ctx context.Context, plan *models.RedeemPlan) error
	Find(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol) (*models.RedeemPlan, error)
	Consume(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol, now time.Time) (*models.RedeemPlan, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
