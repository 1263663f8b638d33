// Package models holds the ephemeral redeem plan record and the redemption
// path classification.
package models

import (
	"fmt"
	"time"

	id "sovmint/pkg/domain"
	"sovmint/pkg/safemath"
)

// Path classifies how a redemption is sourced. The planner assigns one of
// the first three; a pending-bond plan resolves to instant or deferred at
// execution time, once the liquidation outcome is known.
type Path string

const (
	// PathReserveOnly pays the full amount from the liquid reserve.
	PathReserveOnly Path = "reserve_only"

	// PathReserveAndProtocol tops the reserve up from the protocol vault.
	PathReserveAndProtocol Path = "reserve_and_protocol"

	// PathPendingBondLiquidation needs a bond liquidation whose instant or
	// deferred outcome is decided at execution time.
	PathPendingBondLiquidation Path = "pending_bond_liquidation"

	// PathInstantBondRedemption is a bond plan settled by an instant sale.
	PathInstantBondRedemption Path = "instant_bond_redemption"

	// PathDeferredClaim is a bond plan settled with a claim receipt after
	// the instant sale failed or was skipped.
	PathDeferredClaim Path = "deferred_claim"
)

// Terminal reports whether the path is an execution outcome rather than a
// plan-time classification.
func (p Path) Terminal() bool {
	return p != PathPendingBondLiquidation
}

// RedeemPlan is a planned, not-yet-executed redemption. A requester holds
// at most one live plan per coin; executing consumes it, and an expired
// plan can only be re-planned.
type RedeemPlan struct {
	ID        id.PlanID      `json:"id"`
	Requester id.RequesterID `json:"requester"`
	Symbol    id.CoinSymbol  `json:"symbol"`

	// SovereignAmount is the coin units the execution will burn.
	SovereignAmount uint64 `json:"sovereign_amount"`

	// SettlementAmount is the net settlement-asset amount owed to the
	// requester after the protocol fee.
	SettlementAmount uint64 `json:"settlement_amount"`
	ProtocolFee      uint64 `json:"protocol_fee"`

	// Waterfall tiers, in payout priority order. The three sum to
	// SettlementAmount exactly.
	FromLiquidReserve   uint64 `json:"from_liquid_reserve"`
	FromProtocolVault   uint64 `json:"from_protocol_vault"`
	FromBondLiquidation uint64 `json:"from_bond_liquidation"`

	// BondUnits is the bond holding to liquidate for the bond tier, priced
	// at plan time.
	BondUnits uint64 `json:"bond_units"`

	Path Path `json:"path"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the plan's execution window has passed.
func (p *RedeemPlan) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Validate checks the plan's internal accounting: the three waterfall tiers
// must reproduce the net settlement amount exactly, and the classification
// must match the tiers.
func (p *RedeemPlan) Validate() error {
	if p.SovereignAmount == 0 {
		return fmt.Errorf("plan burns zero coin units")
	}
	reserveAndVault, err := safemath.Add(p.FromLiquidReserve, p.FromProtocolVault)
	if err != nil {
		return err
	}
	total, err := safemath.Add(reserveAndVault, p.FromBondLiquidation)
	if err != nil {
		return err
	}
	if total != p.SettlementAmount {
		return fmt.Errorf("waterfall tiers %d do not reproduce settlement amount %d", total, p.SettlementAmount)
	}
	switch {
	case p.FromBondLiquidation > 0:
		if p.Path != PathPendingBondLiquidation {
			return fmt.Errorf("bond tier %d requires a pending-bond path, got %q", p.FromBondLiquidation, p.Path)
		}
		if p.BondUnits == 0 {
			return fmt.Errorf("bond tier %d prices to zero bond units", p.FromBondLiquidation)
		}
	case p.FromProtocolVault > 0:
		if p.Path != PathReserveAndProtocol {
			return fmt.Errorf("vault tier %d requires the reserve-and-protocol path, got %q", p.FromProtocolVault, p.Path)
		}
	default:
		if p.Path != PathReserveOnly {
			return fmt.Errorf("reserve-only tiers require the reserve-only path, got %q", p.Path)
		}
	}
	return nil
}
