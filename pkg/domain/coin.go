package domain

import (
	"fmt"
	"strings"
)

// Length caps mirror the on-ledger record layout; oversized strings are
// rejected before any state is touched.
const (
	MaxSymbolLen   = 8
	MaxCurrencyLen = 8
	MaxNameLen     = 32
	MaxURILen      = 200
)

// CoinSymbol is the ticker a sovereign coin is keyed by (e.g. "MXNS").
type CoinSymbol string

// ParseCoinSymbol validates and normalizes a coin symbol.
func ParseCoinSymbol(s string) (CoinSymbol, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("coin symbol is required")
	}
	if len(s) > MaxSymbolLen {
		return "", fmt.Errorf("coin symbol exceeds %d characters", MaxSymbolLen)
	}
	return CoinSymbol(strings.ToUpper(s)), nil
}

func (c CoinSymbol) String() string { return string(c) }

// IsNil reports whether the symbol is empty.
func (c CoinSymbol) IsNil() bool { return c == "" }

// CurrencyCode is the ISO-style fiat currency a coin is pegged to.
type CurrencyCode string

// USD is the settlement asset's own currency; conversion to it is identity.
const USD CurrencyCode = "USD"

// ParseCurrencyCode validates and normalizes a currency code.
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("currency code is required")
	}
	if len(s) > MaxCurrencyLen {
		return "", fmt.Errorf("currency code exceeds %d characters", MaxCurrencyLen)
	}
	return CurrencyCode(strings.ToUpper(s)), nil
}

func (c CurrencyCode) String() string { return string(c) }

// BondID identifies a fixed-income bond instrument a coin is collateralized
// with. Opaque to this service; the bond desk resolves it.
type BondID string

func (b BondID) String() string { return string(b) }

// IsNil reports whether the bond ID is empty.
func (b BondID) IsNil() bool { return b == "" }

// BondRating is a credit-rating ordinal in [1,10]; 1 is the strongest.
// Lower-rated bonds require proportionally larger liquid reserves.
type BondRating uint8

const (
	MinBondRating BondRating = 1
	MaxBondRating BondRating = 10
)

// ParseBondRating validates a rating ordinal.
func ParseBondRating(v uint8) (BondRating, error) {
	r := BondRating(v)
	if r < MinBondRating || r > MaxBondRating {
		return 0, fmt.Errorf("bond rating %d outside [%d,%d]", v, MinBondRating, MaxBondRating)
	}
	return r, nil
}

// Ordinal returns the rating as an integer for ratio math.
func (r BondRating) Ordinal() uint64 { return uint64(r) }
