// Package bonds fronts the external bond desk: the venue that sells bond
// collateral to the protocol, liquidates it on demand, and issues deferred
// claims when it cannot. Amounts cross this boundary; custody of the
// resulting units stays on the ledger.
package bonds

import (
	"context"
	"time"

	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
)

var (
	// ErrDeskUnavailable is the desk's hard-down signal. Redemption falls
	// back to a deferred claim when it sees this.
	ErrDeskUnavailable = dErrors.New(dErrors.CodeUnavailable, "bond desk unavailable")

	// ErrLiquidationRejected is a desk-side refusal for one specific order.
	ErrLiquidationRejected = dErrors.New(dErrors.CodeConflict, "bond desk rejected the liquidation")
)

// DeferredClaim is an IOU for bond units the desk will settle off-line.
type DeferredClaim struct {
	ID        id.PlanID      `json:"id"`
	Claimant  id.RequesterID `json:"claimant"`
	Symbol    id.CoinSymbol  `json:"symbol"`
	Bond      id.BondID      `json:"bond"`
	BondUnits uint64         `json:"bond_units"`
	CreatedAt time.Time      `json:"created_at"`
}

// Desk is the external bond venue port.
type Desk interface {
	// Purchase spends a settlement-asset amount on bonds and returns the
	// bond units acquired.
	Purchase(ctx context.Context, bond id.BondID, settlementAmount uint64) (uint64, error)

	// InstantLiquidate sells bond units immediately and returns the
	// settlement-asset proceeds.
	InstantLiquidate(ctx context.Context, bond id.BondID, bondUnits uint64) (uint64, error)

	// IssueDeferredClaim registers a claim for later settlement.
	IssueDeferredClaim(ctx context.Context, claim DeferredClaim) error
}
