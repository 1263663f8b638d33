package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sovmint/internal/mint/models"
	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/sentinel"
)

type MemoryPlanStoreSuite struct {
	suite.Suite
	store     *InMemoryPlanStore
	requester id.RequesterID
	now       time.Time
	ctx       context.Context
}

func TestMemoryPlanStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryPlanStoreSuite))
}

func (s *MemoryPlanStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.requester = id.NewRequesterID()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()
}

func (s *MemoryPlanStoreSuite) plan(symbol id.CoinSymbol) *models.MintPlan {
	return &models.MintPlan{
		ID:              id.NewPlanID(),
		Requester:       s.requester,
		Symbol:          symbol,
		Amount:          1_000,
		ProtocolFee:     5,
		ReserveAmount:   300,
		BondAmount:      695,
		SovereignAmount: 995,
		CreatedAt:       s.now,
		ExpiresAt:       s.now.Add(5 * time.Minute),
	}
}

func (s *MemoryPlanStoreSuite) TestCreateAndConsume() {
	created := s.plan("USDS")
	s.Require().NoError(s.store.Create(s.ctx, created))

	consumed, err := s.store.Consume(s.ctx, s.requester, "USDS", s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(created.ID, consumed.ID)

	_, err = s.store.Consume(s.ctx, s.requester, "USDS", s.now.Add(time.Minute))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryPlanStoreSuite) TestCreateConflictsWithLivePlan() {
	s.Require().NoError(s.store.Create(s.ctx, s.plan("USDS")))
	err := s.store.Create(s.ctx, s.plan("USDS"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *MemoryPlanStoreSuite) TestExpiredPlanIsReplaceable() {
	first := s.plan("USDS")
	s.Require().NoError(s.store.Create(s.ctx, first))

	second := s.plan("USDS")
	second.CreatedAt = first.ExpiresAt.Add(time.Second)
	second.ExpiresAt = second.CreatedAt.Add(5 * time.Minute)
	s.Require().NoError(s.store.Create(s.ctx, second))
}

func (s *MemoryPlanStoreSuite) TestConsumeExpired() {
	s.Require().NoError(s.store.Create(s.ctx, s.plan("USDS")))

	_, err := s.store.Consume(s.ctx, s.requester, "USDS", s.now.Add(6*time.Minute))
	s.Require().ErrorIs(err, sentinel.ErrExpired)

	// The expired plan was removed on consume.
	_, err = s.store.Find(s.ctx, s.requester, "USDS")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryPlanStoreSuite) TestPlansAreScopedPerCoin() {
	s.Require().NoError(s.store.Create(s.ctx, s.plan("USDS")))
	s.Require().NoError(s.store.Create(s.ctx, s.plan("MXNS")))

	_, err := s.store.Consume(s.ctx, s.requester, "USDS", s.now)
	s.Require().NoError(err)
	_, err = s.store.Find(s.ctx, s.requester, "MXNS")
	s.Require().NoError(err)
}

func (s *MemoryPlanStoreSuite) TestDeleteExpired() {
	s.Require().NoError(s.store.Create(s.ctx, s.plan("USDS")))
	s.Require().NoError(s.store.Create(s.ctx, s.plan("MXNS")))

	removed, err := s.store.DeleteExpired(s.ctx, s.now.Add(10*time.Minute))
	s.Require().NoError(err)
	s.Equal(2, removed)
}
