package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sovmint/internal/coin/models"
	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/sentinel"
)

// InMemoryStore keeps factory and coin records in memory for tests/dev.
type InMemoryStore struct {
	mu      sync.RWMutex
	factory *models.Factory
	coins   map[id.CoinSymbol]*models.SovereignCoin
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{coins: make(map[id.CoinSymbol]*models.SovereignCoin)}
}

func copyFactory(f *models.Factory) *models.Factory {
	out := *f
	out.BondMappings = append([]models.BondMapping(nil), f.BondMappings...)
	return &out
}

func copyCoin(c *models.SovereignCoin) *models.SovereignCoin {
	out := *c
	return &out
}

func (s *InMemoryStore) SaveFactory(_ context.Context, factory *models.Factory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factory = copyFactory(factory)
	return nil
}

func (s *InMemoryStore) FindFactory(_ context.Context) (*models.Factory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.factory == nil {
		return nil, fmt.Errorf("factory not initialized: %w", sentinel.ErrNotFound)
	}
	return copyFactory(s.factory), nil
}

func (s *InMemoryStore) CreateCoin(_ context.Context, coin *models.SovereignCoin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.coins[coin.Symbol]; exists {
		return fmt.Errorf("coin %s already exists: %w", coin.Symbol, sentinel.ErrConflict)
	}
	s.coins[coin.Symbol] = copyCoin(coin)
	if s.factory != nil {
		s.factory.CoinCount++
	}
	return nil
}

func (s *InMemoryStore) FindCoin(_ context.Context, symbol id.CoinSymbol) (*models.SovereignCoin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coin, ok := s.coins[symbol]
	if !ok {
		return nil, fmt.Errorf("coin %s not found: %w", symbol, sentinel.ErrNotFound)
	}
	return copyCoin(coin), nil
}

func (s *InMemoryStore) ListCoins(_ context.Context) ([]*models.SovereignCoin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.SovereignCoin, 0, len(s.coins))
	for _, coin := range s.coins {
		out = append(out, copyCoin(coin))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (s *InMemoryStore) ApplyMint(_ context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coin, ok := s.coins[symbol]
	if !ok {
		return fmt.Errorf("coin %s not found: %w", symbol, sentinel.ErrNotFound)
	}
	return coin.ApplyMint(supply, reserve, bond)
}

func (s *InMemoryStore) ApplyRedeem(_ context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coin, ok := s.coins[symbol]
	if !ok {
		return fmt.Errorf("coin %s not found: %w", symbol, sentinel.ErrNotFound)
	}
	if coin.TotalSupply < supply || coin.LiquidReserve < reserve || coin.BondCollateral < bond {
		return fmt.Errorf("redeem deltas exceed coin %s aggregates: %w",
			symbol, sentinel.ErrInsufficientFunds)
	}
	return coin.ApplyRedeem(supply, reserve, bond)
}
