// Package oracle converts between the settlement asset and sovereign-coin or
// bond units through a price feed. The feed itself is an external
// collaborator; this package owns only the conversion math and a cache.
package oracle

import (
	"context"

	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/safemath"
)

// ErrInvalidPriceFeed is returned when a feed is missing, stale, or carries
// a zero price. Callers treat it as a hard stop; there is no fallback price.
var ErrInvalidPriceFeed = dErrors.New(dErrors.CodeUnavailable, "invalid price feed")

// Price is a mantissa/scale pair: one settlement unit buys
// Mantissa * 10^-Scale target units.
type Price struct {
	Mantissa uint64 `json:"mantissa"`
	Scale    uint32 `json:"scale"`
}

// IsZero reports an unusable price.
func (p Price) IsZero() bool { return p.Mantissa == 0 }

// Source supplies prices for fiat currencies and bond instruments.
type Source interface {
	CurrencyPrice(ctx context.Context, currency id.CurrencyCode) (Price, error)
	BondPrice(ctx context.Context, bond id.BondID) (Price, error)
}

// Converter is the currency-conversion collaborator interface consumed by
// the settlement engine.
type Converter interface {
	// ToTarget converts a settlement-asset amount into target-currency units.
	ToTarget(ctx context.Context, settlementAmount uint64, currency id.CurrencyCode, decimals uint8) (uint64, error)
	// ToSettlement is the inverse of ToTarget.
	ToSettlement(ctx context.Context, targetAmount uint64, currency id.CurrencyCode, decimals uint8) (uint64, error)
	// BondEquivalent converts a settlement-asset amount into bond units.
	BondEquivalent(ctx context.Context, settlementAmount uint64, bond id.BondID, decimals uint8) (uint64, error)
}

// FeedConverter implements Converter on top of a price Source.
type FeedConverter struct {
	source Source
}

// NewFeedConverter constructs a converter over the given source.
func NewFeedConverter(source Source) *FeedConverter {
	return &FeedConverter{source: source}
}

func pow10(n uint32) (uint64, error) {
	out := uint64(1)
	for i := uint32(0); i < n; i++ {
		var err error
		out, err = safemath.Mul(out, 10)
		if err != nil {
			return 0, err
		}
	}
	return out, nil
}

// apply computes floor(amount * mantissa / 10^scale). The sovereign coin and
// the settlement asset share decimal precision, so the exponents cancel and
// only the price scale survives.
func apply(amount uint64, price Price) (uint64, error) {
	divisor, err := pow10(price.Scale)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "price scale", err)
	}
	out, err := safemath.MulDiv(amount, price.Mantissa, divisor)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "price conversion", err)
	}
	return out, nil
}

// invert computes floor(amount * 10^scale / mantissa).
func invert(amount uint64, price Price) (uint64, error) {
	factor, err := pow10(price.Scale)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "price scale", err)
	}
	out, err := safemath.MulDiv(amount, factor, price.Mantissa)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInvariantViolation, "price conversion", err)
	}
	return out, nil
}

func (c *FeedConverter) currencyPrice(ctx context.Context, currency id.CurrencyCode) (Price, error) {
	price, err := c.source.CurrencyPrice(ctx, currency)
	if err != nil {
		return Price{}, ErrInvalidPriceFeed
	}
	if price.IsZero() {
		return Price{}, ErrInvalidPriceFeed
	}
	return price, nil
}

func (c *FeedConverter) ToTarget(ctx context.Context, settlementAmount uint64, currency id.CurrencyCode, decimals uint8) (uint64, error) {
	if currency == id.USD {
		// USD coins settle 1:1 against the settlement asset.
		return settlementAmount, nil
	}
	price, err := c.currencyPrice(ctx, currency)
	if err != nil {
		return 0, err
	}
	return apply(settlementAmount, price)
}

func (c *FeedConverter) ToSettlement(ctx context.Context, targetAmount uint64, currency id.CurrencyCode, decimals uint8) (uint64, error) {
	if currency == id.USD {
		return targetAmount, nil
	}
	price, err := c.currencyPrice(ctx, currency)
	if err != nil {
		return 0, err
	}
	return invert(targetAmount, price)
}

func (c *FeedConverter) BondEquivalent(ctx context.Context, settlementAmount uint64, bond id.BondID, decimals uint8) (uint64, error) {
	price, err := c.source.BondPrice(ctx, bond)
	if err != nil || price.IsZero() {
		return 0, ErrInvalidPriceFeed
	}
	return apply(settlementAmount, price)
}
