// Package models holds the factory and sovereign-coin records the
// settlement engine operates on.
package models

import (
	"fmt"
	"time"

	id "sovmint/pkg/domain"
	"sovmint/pkg/safemath"
)

// MaxBondMappings caps how many currency-to-bond mappings the factory holds.
const MaxBondMappings = 6

// MaxCoinDecimals caps coin precision; the settlement asset uses 6.
const MaxCoinDecimals = 9

// BondMapping binds a fiat currency to the bond instrument that
// collateralizes coins pegged to it.
type BondMapping struct {
	Currency id.CurrencyCode `json:"currency"`
	Bond     id.BondID       `json:"bond"`
	Rating   id.BondRating   `json:"rating"`
}

// Factory is the singleton policy record: protocol fee, reserve-ratio
// parameters, and the bond mappings new coins are built from.
type Factory struct {
	FeeBps             id.Bips
	BaseReserveBps     id.Bips
	ReserveNumerator   uint8
	ReserveDenominator uint8
	BondMappings       []BondMapping
	CoinCount          uint64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MappingFor returns the bond mapping for a currency, if registered.
func (f *Factory) MappingFor(currency id.CurrencyCode) (BondMapping, bool) {
	for _, m := range f.BondMappings {
		if m.Currency == currency {
			return m, true
		}
	}
	return BondMapping{}, false
}

// AddMapping appends a mapping, enforcing the capacity cap and rejecting a
// duplicate currency.
func (f *Factory) AddMapping(m BondMapping) error {
	if len(f.BondMappings) >= MaxBondMappings {
		return fmt.Errorf("bond mapping capacity of %d reached", MaxBondMappings)
	}
	if _, exists := f.MappingFor(m.Currency); exists {
		return fmt.Errorf("currency %s already mapped", m.Currency)
	}
	f.BondMappings = append(f.BondMappings, m)
	return nil
}

// SovereignCoin is one fiat-pegged coin and its running aggregates. The
// aggregates mirror ledger balances; redemption verification cross-checks
// the two.
type SovereignCoin struct {
	Symbol             id.CoinSymbol
	Name               string
	URI                string
	Currency           id.CurrencyCode
	Bond               id.BondID
	Rating             id.BondRating
	Decimals           uint8
	RequiredReserveBps id.Bips

	TotalSupply    uint64
	LiquidReserve  uint64
	BondCollateral uint64

	CreatedAt time.Time
}

// ApplyMint adds a mint's contributions to the aggregates.
func (c *SovereignCoin) ApplyMint(supply, reserve, bond uint64) error {
	newSupply, err := safemath.Add(c.TotalSupply, supply)
	if err != nil {
		return fmt.Errorf("total supply: %w", err)
	}
	newReserve, err := safemath.Add(c.LiquidReserve, reserve)
	if err != nil {
		return fmt.Errorf("liquid reserve: %w", err)
	}
	newBond, err := safemath.Add(c.BondCollateral, bond)
	if err != nil {
		return fmt.Errorf("bond collateral: %w", err)
	}
	c.TotalSupply, c.LiquidReserve, c.BondCollateral = newSupply, newReserve, newBond
	return nil
}

// ApplyRedeem subtracts a redemption's contributions. A bond of zero is the
// protocol-vault path, where collateral ownership transfers without leaving
// the holding.
func (c *SovereignCoin) ApplyRedeem(supply, reserve, bond uint64) error {
	newSupply, err := safemath.Sub(c.TotalSupply, supply)
	if err != nil {
		return fmt.Errorf("total supply: %w", err)
	}
	newReserve, err := safemath.Sub(c.LiquidReserve, reserve)
	if err != nil {
		return fmt.Errorf("liquid reserve: %w", err)
	}
	newBond, err := safemath.Sub(c.BondCollateral, bond)
	if err != nil {
		return fmt.Errorf("bond collateral: %w", err)
	}
	c.TotalSupply, c.LiquidReserve, c.BondCollateral = newSupply, newReserve, newBond
	return nil
}
