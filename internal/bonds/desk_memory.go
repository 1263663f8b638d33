package bonds

import (
	"context"
	"sync"

	id "sovmint/pkg/domain"
	"sovmint/pkg/safemath"
)

// MemoryDesk simulates the bond venue for tests/dev. Purchases convert 1:1
// at each bond's configured price; liquidations apply an optional haircut.
type MemoryDesk struct {
	mu          sync.Mutex
	prices      map[id.BondID]uint64 // settlement units per bond unit, scaled by priceScale
	haircutBps  uint64
	instantDown bool
	claims      []DeferredClaim
}

const priceScale = 10_000

// NewMemoryDesk constructs a desk where every bond trades at par.
func NewMemoryDesk() *MemoryDesk {
	return &MemoryDesk{prices: make(map[id.BondID]uint64)}
}

// SetPrice overrides a bond's price in ten-thousandths of a settlement unit
// per bond unit; 10000 is par.
func (d *MemoryDesk) SetPrice(bond id.BondID, price uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prices[bond] = price
}

// SetHaircutBps applies a liquidation haircut to every instant sale.
func (d *MemoryDesk) SetHaircutBps(bps uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.haircutBps = bps
}

// SetInstantDown makes InstantLiquidate fail until cleared.
func (d *MemoryDesk) SetInstantDown(down bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.instantDown = down
}

// Claims returns the deferred claims issued so far.
func (d *MemoryDesk) Claims() []DeferredClaim {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DeferredClaim(nil), d.claims...)
}

func (d *MemoryDesk) price(bond id.BondID) uint64 {
	if p, ok := d.prices[bond]; ok && p > 0 {
		return p
	}
	return priceScale
}

func (d *MemoryDesk) Purchase(_ context.Context, bond id.BondID, settlementAmount uint64) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return safemath.MulDiv(settlementAmount, priceScale, d.price(bond))
}

func (d *MemoryDesk) InstantLiquidate(_ context.Context, bond id.BondID, bondUnits uint64) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.instantDown {
		return 0, ErrDeskUnavailable
	}
	gross, err := safemath.MulDiv(bondUnits, d.price(bond), priceScale)
	if err != nil {
		return 0, err
	}
	if d.haircutBps == 0 {
		return gross, nil
	}
	haircut, err := safemath.MulDiv(gross, d.haircutBps, priceScale)
	if err != nil {
		return 0, err
	}
	return gross - haircut, nil
}

func (d *MemoryDesk) IssueDeferredClaim(_ context.Context, claim DeferredClaim) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.claims = append(d.claims, claim)
	return nil
}
