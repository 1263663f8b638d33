package handler

import (
	"time"

	"sovmint/internal/mint/models"
)

// PlanResponse is the HTTP representation of a mint plan.
type PlanResponse struct {
	ID              string    `json:"id"`
	Symbol          string    `json:"symbol"`
	Amount          uint64    `json:"amount"`
	ProtocolFee     uint64    `json:"protocol_fee"`
	ReserveAmount   uint64    `json:"reserve_amount"`
	BondAmount      uint64    `json:"bond_amount"`
	SovereignAmount uint64    `json:"sovereign_amount"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// FromPlan converts a mint plan to its HTTP response.
func FromPlan(plan *models.MintPlan) *PlanResponse {
	return &PlanResponse{
		ID:              plan.ID.String(),
		Symbol:          plan.Symbol.String(),
		Amount:          plan.Amount,
		ProtocolFee:     plan.ProtocolFee,
		ReserveAmount:   plan.ReserveAmount,
		BondAmount:      plan.BondAmount,
		SovereignAmount: plan.SovereignAmount,
		ExpiresAt:       plan.ExpiresAt,
	}
}
