// Package models holds the ephemeral mint plan record.
package models

import (
	"fmt"
	"time"

	id "sovmint/pkg/domain"
	"sovmint/pkg/safemath"
)

// MintPlan is a quoted, not-yet-committed mint. A requester holds at most
// one live plan per coin; committing consumes it, and an expired plan can
// only be re-quoted.
type MintPlan struct {
	ID        id.PlanID      `json:"id"`
	Requester id.RequesterID `json:"requester"`
	Symbol    id.CoinSymbol  `json:"symbol"`

	// Amount is the gross settlement-asset amount the requester pays.
	Amount        uint64 `json:"amount"`
	ProtocolFee   uint64 `json:"protocol_fee"`
	ReserveAmount uint64 `json:"reserve_amount"`
	BondAmount    uint64 `json:"bond_amount"`

	// SovereignAmount is the coin units the commit will mint.
	SovereignAmount uint64 `json:"sovereign_amount"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the plan's commit window has passed.
func (p *MintPlan) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Validate checks the plan's internal accounting: fee plus the two reserve
// tiers must reproduce the gross amount exactly.
func (p *MintPlan) Validate() error {
	tiers, err := safemath.Add(p.ReserveAmount, p.BondAmount)
	if err != nil {
		return err
	}
	total, err := safemath.Add(tiers, p.ProtocolFee)
	if err != nil {
		return err
	}
	if total != p.Amount {
		return fmt.Errorf("plan components %d do not reproduce amount %d", total, p.Amount)
	}
	if p.SovereignAmount == 0 {
		return fmt.Errorf("plan mints zero coin units")
	}
	return nil
}
