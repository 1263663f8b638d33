package oracle

import (
	"context"
	"fmt"
	"sync"

	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/sentinel"
)

// StaticSource holds admin-set prices in memory. It backs development
// deployments and every unit test; production wraps an upstream feed with
// the Redis cache instead.
type StaticSource struct {
	mu         sync.RWMutex
	currencies map[id.CurrencyCode]Price
	bonds      map[id.BondID]Price
}

// NewStaticSource constructs an empty source.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		currencies: make(map[id.CurrencyCode]Price),
		bonds:      make(map[id.BondID]Price),
	}
}

// SetCurrencyPrice publishes a currency price.
func (s *StaticSource) SetCurrencyPrice(currency id.CurrencyCode, price Price) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currencies[currency] = price
}

// SetBondPrice publishes a bond price.
func (s *StaticSource) SetBondPrice(bond id.BondID, price Price) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bonds[bond] = price
}

func (s *StaticSource) CurrencyPrice(_ context.Context, currency id.CurrencyCode) (Price, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.currencies[currency]
	if !ok {
		return Price{}, fmt.Errorf("no feed for currency %s: %w", currency, sentinel.ErrNotFound)
	}
	return price, nil
}

func (s *StaticSource) BondPrice(_ context.Context, bond id.BondID) (Price, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.bonds[bond]
	if !ok {
		return Price{}, fmt.Errorf("no feed for bond %s: %w", bond, sentinel.ErrNotFound)
	}
	return price, nil
}
