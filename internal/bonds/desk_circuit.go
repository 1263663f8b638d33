package bonds

import (
	"context"
	"errors"
	"log/slog"

	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/circuit"
)

// CircuitDesk wraps a Desk with a breaker around instant liquidation. When
// the desk keeps failing hard, the breaker opens and instant orders are
// refused up front, sending redemptions straight to the deferred-claim path.
// Successful calls on the other desk operations count toward closing it
// again.
type CircuitDesk struct {
	inner   Desk
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewCircuitDesk wraps the given desk.
func NewCircuitDesk(inner Desk, breaker *circuit.Breaker, logger *slog.Logger) *CircuitDesk {
	return &CircuitDesk{inner: inner, breaker: breaker, logger: logger}
}

func (d *CircuitDesk) record(ctx context.Context, err error) {
	if err == nil || !errors.Is(err, ErrDeskUnavailable) {
		_, change := d.breaker.RecordSuccess()
		if change.Closed {
			d.logger.InfoContext(ctx, "bond desk breaker closed", "breaker", d.breaker.Name())
		}
		return
	}
	_, change := d.breaker.RecordFailure()
	if change.Opened {
		d.logger.WarnContext(ctx, "bond desk breaker opened", "breaker", d.breaker.Name())
	}
}

func (d *CircuitDesk) Purchase(ctx context.Context, bond id.BondID, settlementAmount uint64) (uint64, error) {
	units, err := d.inner.Purchase(ctx, bond, settlementAmount)
	d.record(ctx, err)
	return units, err
}

func (d *CircuitDesk) InstantLiquidate(ctx context.Context, bond id.BondID, bondUnits uint64) (uint64, error) {
	if d.breaker.IsOpen() {
		return 0, ErrDeskUnavailable
	}
	proceeds, err := d.inner.InstantLiquidate(ctx, bond, bondUnits)
	d.record(ctx, err)
	return proceeds, err
}

func (d *CircuitDesk) IssueDeferredClaim(ctx context.Context, claim DeferredClaim) error {
	err := d.inner.IssueDeferredClaim(ctx, claim)
	d.record(ctx, err)
	return err
}
