package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	id "sovmint/pkg/domain"
)

const (
	currencyPriceKeyPrefix = "px:ccy:"
	bondPriceKeyPrefix     = "px:bond:"
)

// CachedSource caches an upstream feed in Redis with a TTL, so repeated
// quote/plan calls within the freshness window don't re-hit the feed. Cache
// failures degrade to the upstream, never to an error.
type CachedSource struct {
	inner  Source
	client *redis.Client
	ttl    time.Duration
}

// NewCachedSource wraps an upstream source with a Redis price cache.
func NewCachedSource(inner Source, client *redis.Client, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, client: client, ttl: ttl}
}

func (c *CachedSource) lookup(ctx context.Context, key string, fetch func() (Price, error)) (Price, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var price Price
		if jsonErr := json.Unmarshal([]byte(raw), &price); jsonErr == nil {
			return price, nil
		}
		// Corrupt entry: fall through and overwrite.
	} else if !errors.Is(err, redis.Nil) {
		// Cache unavailable: serve straight from the upstream.
		return fetch()
	}

	price, err := fetch()
	if err != nil {
		return Price{}, err
	}
	if encoded, jsonErr := json.Marshal(price); jsonErr == nil {
		_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
	}
	return price, nil
}

func (c *CachedSource) CurrencyPrice(ctx context.Context, currency id.CurrencyCode) (Price, error) {
	return c.lookup(ctx, currencyPriceKeyPrefix+currency.String(), func() (Price, error) {
		return c.inner.CurrencyPrice(ctx, currency)
	})
}

func (c *CachedSource) BondPrice(ctx context.Context, bond id.BondID) (Price, error) {
	return c.lookup(ctx, bondPriceKeyPrefix+bond.String(), func() (Price, error) {
		return c.inner.BondPrice(ctx, bond)
	})
}
