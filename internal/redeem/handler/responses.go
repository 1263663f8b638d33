package handler

import (
	"time"

	"sovmint/internal/redeem"
	"sovmint/internal/redeem/models"
)

// PlanResponse is the HTTP representation of a redeem plan.
type PlanResponse struct {
	ID                  string    `json:"id"`
	Symbol              string    `json:"symbol"`
	SovereignAmount     uint64    `json:"sovereign_amount"`
	SettlementAmount    uint64    `json:"settlement_amount"`
	ProtocolFee         uint64    `json:"protocol_fee"`
	FromLiquidReserve   uint64    `json:"from_liquid_reserve"`
	FromProtocolVault   uint64    `json:"from_protocol_vault"`
	FromBondLiquidation uint64    `json:"from_bond_liquidation"`
	Path                string    `json:"path"`
	ExpiresAt           time.Time `json:"expires_at"`
}

// FromPlan converts a redeem plan to its HTTP response.
func FromPlan(plan *models.RedeemPlan) *PlanResponse {
	return &PlanResponse{
		ID:                  plan.ID.String(),
		Symbol:              plan.Symbol.String(),
		SovereignAmount:     plan.SovereignAmount,
		SettlementAmount:    plan.SettlementAmount,
		ProtocolFee:         plan.ProtocolFee,
		FromLiquidReserve:   plan.FromLiquidReserve,
		FromProtocolVault:   plan.FromProtocolVault,
		FromBondLiquidation: plan.FromBondLiquidation,
		Path:                string(plan.Path),
		ExpiresAt:           plan.ExpiresAt,
	}
}

// ReceiptResponse is the HTTP representation of a settled redemption.
type ReceiptResponse struct {
	PlanID          string `json:"plan_id"`
	Symbol          string `json:"symbol"`
	SovereignAmount uint64 `json:"sovereign_amount"`
	Path            string `json:"path"`
	Paid            uint64 `json:"paid"`
	DeferredClaim   uint64 `json:"deferred_claim,omitempty"`
}

// FromReceipt converts a redemption receipt to its HTTP response.
func FromReceipt(receipt *redeem.Receipt) *ReceiptResponse {
	resp := &ReceiptResponse{
		PlanID:          receipt.Plan.ID.String(),
		Symbol:          receipt.Plan.Symbol.String(),
		SovereignAmount: receipt.Plan.SovereignAmount,
		Path:            string(receipt.Path),
		Paid:            receipt.Paid,
	}
	if receipt.Path == models.PathDeferredClaim {
		resp.DeferredClaim = receipt.Plan.FromBondLiquidation
	}
	return resp
}
