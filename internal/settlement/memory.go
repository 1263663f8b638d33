package settlement

import (
	"context"

	coinstore "sovmint/internal/coin/store"
	"sovmint/internal/ledger"
	id "sovmint/pkg/domain"
)

// MemoryRunner runs settlement units against the in-memory stores for
// tests/dev. Ledger moves roll back through the memory ledger's own unit;
// aggregate deltas are journaled here and compensated on failure.
type MemoryRunner struct {
	ledger *ledger.Memory
	coins  *coinstore.InMemoryStore
}

// NewMemory constructs an in-memory unit runner.
func NewMemory(lg *ledger.Memory, coins *coinstore.InMemoryStore) *MemoryRunner {
	return &MemoryRunner{ledger: lg, coins: coins}
}

type memoryUnit struct {
	ledger.Ledger
	coins   *coinstore.InMemoryStore
	journal []func(ctx context.Context)
}

func (u *memoryUnit) ApplyMint(ctx context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error {
	if err := u.coins.ApplyMint(ctx, symbol, supply, reserve, bond); err != nil {
		return err
	}
	// Subtracting what was just added cannot underflow.
	u.journal = append(u.journal, func(ctx context.Context) {
		_ = u.coins.ApplyRedeem(ctx, symbol, supply, reserve, bond)
	})
	return nil
}

func (u *memoryUnit) ApplyRedeem(ctx context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error {
	if err := u.coins.ApplyRedeem(ctx, symbol, supply, reserve, bond); err != nil {
		return err
	}
	u.journal = append(u.journal, func(ctx context.Context) {
		_ = u.coins.ApplyMint(ctx, symbol, supply, reserve, bond)
	})
	return nil
}

func (u *memoryUnit) rollback(ctx context.Context) {
	for i := len(u.journal) - 1; i >= 0; i-- {
		u.journal[i](ctx)
	}
}

func (r *MemoryRunner) InUnit(ctx context.Context, fn func(ctx context.Context, u Unit) error) error {
	return r.ledger.InUnit(ctx, func(ctx context.Context, l ledger.Ledger) error {
		unit := &memoryUnit{Ledger: l, coins: r.coins}
		if err := fn(ctx, unit); err != nil {
			unit.rollback(ctx)
			return err
		}
		return nil
	})
}
