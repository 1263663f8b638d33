package handler

import (
	"time"

	"sovmint/internal/coin/models"
)

// CoinResponse is the HTTP representation of a sovereign coin.
type CoinResponse struct {
	Symbol             string    `json:"symbol"`
	Name               string    `json:"name"`
	URI                string    `json:"uri,omitempty"`
	Currency           string    `json:"currency"`
	Bond               string    `json:"bond"`
	Rating             uint8     `json:"rating"`
	Decimals           uint8     `json:"decimals"`
	RequiredReserveBps uint16    `json:"required_reserve_bps"`
	TotalSupply        uint64    `json:"total_supply"`
	LiquidReserve      uint64    `json:"liquid_reserve"`
	BondCollateral     uint64    `json:"bond_collateral"`
	CreatedAt          time.Time `json:"created_at"`
}

// FromCoin converts a coin record to its HTTP response.
func FromCoin(coin *models.SovereignCoin) *CoinResponse {
	return &CoinResponse{
		Symbol:             coin.Symbol.String(),
		Name:               coin.Name,
		URI:                coin.URI,
		Currency:           coin.Currency.String(),
		Bond:               coin.Bond.String(),
		Rating:             uint8(coin.Rating),
		Decimals:           coin.Decimals,
		RequiredReserveBps: uint16(coin.RequiredReserveBps),
		TotalSupply:        coin.TotalSupply,
		LiquidReserve:      coin.LiquidReserve,
		BondCollateral:     coin.BondCollateral,
		CreatedAt:          coin.CreatedAt,
	}
}

// BondMappingResponse is one currency-to-bond mapping.
type BondMappingResponse struct {
	Currency string `json:"currency"`
	Bond     string `json:"bond"`
	Rating   uint8  `json:"rating"`
}

// FactoryResponse is the HTTP representation of the factory record.
type FactoryResponse struct {
	FeeBps             uint16                `json:"fee_bps"`
	BaseReserveBps     uint16                `json:"base_reserve_bps"`
	ReserveNumerator   uint8                 `json:"reserve_numerator"`
	ReserveDenominator uint8                 `json:"reserve_denominator"`
	BondMappings       []BondMappingResponse `json:"bond_mappings"`
	CoinCount          uint64                `json:"coin_count"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// FromFactory converts the factory record to its HTTP response.
func FromFactory(factory *models.Factory) *FactoryResponse {
	mappings := make([]BondMappingResponse, 0, len(factory.BondMappings))
	for _, m := range factory.BondMappings {
		mappings = append(mappings, BondMappingResponse{
			Currency: m.Currency.String(),
			Bond:     m.Bond.String(),
			Rating:   uint8(m.Rating),
		})
	}
	return &FactoryResponse{
		FeeBps:             uint16(factory.FeeBps),
		BaseReserveBps:     uint16(factory.BaseReserveBps),
		ReserveNumerator:   factory.ReserveNumerator,
		ReserveDenominator: factory.ReserveDenominator,
		BondMappings:       mappings,
		CoinCount:          factory.CoinCount,
		UpdatedAt:          factory.UpdatedAt,
	}
}
