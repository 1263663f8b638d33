package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	platformredis "sovmint/internal/platform/redis"
	"sovmint/internal/redeem/models"
	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/sentinel"
)

// RedisPlanStore keeps pending redeem plans in Redis. The key TTL mirrors
// the plan's execution window, so expiry needs no sweeper; GETDEL gives
// atomic consume-once semantics across instances.
type RedisPlanStore struct {
	client *platformredis.Client
}

// NewRedis constructs a Redis-backed plan store.
func NewRedis(client *platformredis.Client) *RedisPlanStore {
	return &RedisPlanStore{client: client}
}

func redisPlanKey(requester id.RequesterID, symbol id.CoinSymbol) string {
	return "sovmint:redeemplan:" + requester.String() + ":" + symbol.String()
}

func (s *RedisPlanStore) Create(ctx context.Context, plan *models.RedeemPlan) error {
	ttl := plan.ExpiresAt.Sub(plan.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("redeem plan already expired at creation: %w", sentinel.ErrExpired)
	}
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal redeem plan: %w", err)
	}
	ok, err := s.client.SetNX(ctx, redisPlanKey(plan.Requester, plan.Symbol), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("store redeem plan: %w", err)
	}
	if !ok {
		return fmt.Errorf("redeem plan already pending: %w", sentinel.ErrConflict)
	}
	return nil
}

func (s *RedisPlanStore) Find(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol) (*models.RedeemPlan, error) {
	payload, err := s.client.Get(ctx, redisPlanKey(requester, symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("redeem plan not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("load redeem plan: %w", err)
	}
	var plan models.RedeemPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal redeem plan: %w", err)
	}
	return &plan, nil
}

func (s *RedisPlanStore) Consume(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol, now time.Time) (*models.RedeemPlan, error) {
	payload, err := s.client.GetDel(ctx, redisPlanKey(requester, symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("redeem plan not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("consume redeem plan: %w", err)
	}
	var plan models.RedeemPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal redeem plan: %w", err)
	}
	// The key TTL normally enforces this; the check covers clock drift
	// between instances.
	if plan.Expired(now) {
		return nil, fmt.Errorf("redeem plan expired at %s: %w", plan.ExpiresAt, sentinel.ErrExpired)
	}
	return &plan, nil
}

// DeleteExpired is a no-op; Redis key TTLs already remove expired plans.
func (s *RedisPlanStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
