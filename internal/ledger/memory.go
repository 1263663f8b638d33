package ledger

import (
	"context"
	"fmt"
	"sync"

	"sovmint/pkg/platform/sentinel"
	"sovmint/pkg/safemath"
)

// Memory keeps balances in process memory for tests/dev.
type Memory struct {
	mu       sync.Mutex
	balances map[Account]map[Asset]uint64
}

// NewMemory constructs an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{balances: make(map[Account]map[Asset]uint64)}
}

func (m *Memory) balance(account Account, asset Asset) uint64 {
	return m.balances[account][asset]
}

func (m *Memory) set(account Account, asset Asset, amount uint64) {
	assets, ok := m.balances[account]
	if !ok {
		assets = make(map[Asset]uint64)
		m.balances[account] = assets
	}
	assets[asset] = amount
}

func (m *Memory) credit(account Account, asset Asset, amount uint64) error {
	next, err := safemath.Add(m.balance(account, asset), amount)
	if err != nil {
		return fmt.Errorf("credit %s %s: %w", account, asset, err)
	}
	m.set(account, asset, next)
	return nil
}

func (m *Memory) debit(account Account, asset Asset, amount uint64) error {
	current := m.balance(account, asset)
	if current < amount {
		return fmt.Errorf("account %s holds %d %s, need %d: %w",
			account, current, asset, amount, sentinel.ErrInsufficientFunds)
	}
	m.set(account, asset, current-amount)
	return nil
}

func (m *Memory) move(from, to Account, asset Asset, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := m.debit(from, asset, amount); err != nil {
		return err
	}
	if err := m.credit(to, asset, amount); err != nil {
		// Undo the debit so the failed move leaves both sides untouched.
		// Restoring the prior balance cannot overflow.
		m.set(from, asset, m.balance(from, asset)+amount)
		return err
	}
	return nil
}

func (m *Memory) Balance(_ context.Context, account Account, asset Asset) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance(account, asset), nil
}

func (m *Memory) Move(_ context.Context, from, to Account, asset Asset, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.move(from, to, asset, amount)
}

func (m *Memory) MintTo(_ context.Context, to Account, asset Asset, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credit(to, asset, amount)
}

func (m *Memory) BurnFrom(_ context.Context, from Account, asset Asset, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.debit(from, asset, amount)
}

// memoryUnit journals applied moves so a failed unit can be undone. It runs
// under the parent's lock, so its methods touch the maps directly.
type memoryUnit struct {
	parent  *Memory
	journal []func()
}

func (u *memoryUnit) Balance(_ context.Context, account Account, asset Asset) (uint64, error) {
	return u.parent.balance(account, asset), nil
}

func (u *memoryUnit) Move(_ context.Context, from, to Account, asset Asset, amount uint64) error {
	if err := u.parent.move(from, to, asset, amount); err != nil {
		return err
	}
	if amount > 0 {
		u.journal = append(u.journal, func() { _ = u.parent.move(to, from, asset, amount) })
	}
	return nil
}

func (u *memoryUnit) MintTo(_ context.Context, to Account, asset Asset, amount uint64) error {
	if err := u.parent.credit(to, asset, amount); err != nil {
		return err
	}
	u.journal = append(u.journal, func() { _ = u.parent.debit(to, asset, amount) })
	return nil
}

func (u *memoryUnit) BurnFrom(_ context.Context, from Account, asset Asset, amount uint64) error {
	if err := u.parent.debit(from, asset, amount); err != nil {
		return err
	}
	u.journal = append(u.journal, func() { _ = u.parent.credit(from, asset, amount) })
	return nil
}

func (u *memoryUnit) rollback() {
	for i := len(u.journal) - 1; i >= 0; i-- {
		u.journal[i]()
	}
}

// InUnit holds the ledger lock for the whole unit, applying fn's moves
// directly and undoing them in reverse if fn fails.
func (m *Memory) InUnit(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	unit := &memoryUnit{parent: m}
	if err := fn(ctx, unit); err != nil {
		unit.rollback()
		return err
	}
	return nil
}
