package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sovmint/internal/mint/models"
	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/sentinel"
)

// InMemoryPlanStore keeps pending mint plans in memory for tests/dev.
type InMemoryPlanStore struct {
	mu    sync.Mutex
	plans map[string]*models.MintPlan
}

// NewMemory constructs an empty in-memory plan store.
func NewMemory() *InMemoryPlanStore {
	return &InMemoryPlanStore{plans: make(map[string]*models.MintPlan)}
}

func planKey(requester id.RequesterID, symbol id.CoinSymbol) string {
	return requester.String() + "/" + symbol.String()
}

func (s *InMemoryPlanStore) Create(_ context.Context, plan *models.MintPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := planKey(plan.Requester, plan.Symbol)
	if existing, ok := s.plans[key]; ok && !existing.Expired(plan.CreatedAt) {
		return fmt.Errorf("mint plan already pending for %s: %w", key, sentinel.ErrConflict)
	}
	copied := *plan
	s.plans[key] = &copied
	return nil
}

func (s *InMemoryPlanStore) Find(_ context.Context, requester id.RequesterID, symbol id.CoinSymbol) (*models.MintPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans[planKey(requester, symbol)]
	if !ok {
		return nil, fmt.Errorf("mint plan not found: %w", sentinel.ErrNotFound)
	}
	copied := *plan
	return &copied, nil
}

func (s *InMemoryPlanStore) Consume(_ context.Context, requester id.RequesterID, symbol id.CoinSymbol, now time.Time) (*models.MintPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := planKey(requester, symbol)
	plan, ok := s.plans[key]
	if !ok {
		return nil, fmt.Errorf("mint plan not found: %w", sentinel.ErrNotFound)
	}
	delete(s.plans, key)
	if plan.Expired(now) {
		return nil, fmt.Errorf("mint plan expired at %s: %w", plan.ExpiresAt, sentinel.ErrExpired)
	}
	copied := *plan
	return &copied, nil
}

func (s *InMemoryPlanStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, plan := range s.plans {
		if plan.Expired(now) {
			delete(s.plans, key)
			removed++
		}
	}
	return removed, nil
}
