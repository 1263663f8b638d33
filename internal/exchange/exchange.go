// Package exchange implements read-only exchange previews: the quote a
// mint or redemption would settle at right now, with no plan persisted and
// no funds moved.
package exchange

import (
	"context"
	"errors"

	coinmodels "sovmint/internal/coin/models"
	coinstore "sovmint/internal/coin/store"
	"sovmint/internal/fees"
	"sovmint/internal/oracle"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/platform/sentinel"
)

var (
	ErrCoinNotFound = dErrors.New(dErrors.CodeNotFound, "sovereign coin not found")

	// ErrAmbiguousPreview rejects a preview that fixes both sides of the
	// exchange.
	ErrAmbiguousPreview = dErrors.New(dErrors.CodeInvalidInput, "provide either a settlement amount or a sovereign amount, not both")
)

// Preview is a point-in-time exchange quote. Exactly one side was supplied
// by the caller; the other side, the protocol fee, and the fee-adjusted net
// are computed from the current factory fee and price feeds.
type Preview struct {
	Symbol           id.CoinSymbol `json:"symbol"`
	SettlementAmount uint64        `json:"settlement_amount"`
	SovereignAmount  uint64        `json:"sovereign_amount"`
	ProtocolFee      uint64        `json:"protocol_fee"`
	NetAmount        uint64        `json:"net_amount"`
}

// Service computes exchange previews.
type Service struct {
	coins     coinstore.Store
	converter oracle.Converter
}

// NewService constructs the exchange service.
func NewService(coins coinstore.Store, converter oracle.Converter) *Service {
	return &Service{coins: coins, converter: converter}
}

func (s *Service) load(ctx context.Context, symbol id.CoinSymbol) (*coinmodels.SovereignCoin, id.Bips, error) {
	coin, err := s.coins.FindCoin(ctx, symbol)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, 0, ErrCoinNotFound
		}
		return nil, 0, dErrors.Wrap(dErrors.CodeInternal, "load coin", err)
	}
	factory, err := s.coins.FindFactory(ctx)
	if err != nil {
		return nil, 0, dErrors.Wrap(dErrors.CodeInternal, "load factory", err)
	}
	return coin, factory.FeeBps, nil
}

// Preview quotes one side of an exchange from the other. A settlement input
// previews a mint: the gross amount converts into coin units and the fee
// comes out of the backing. A sovereign input previews a redemption: the
// gross settlement value converts first and the fee comes off that.
// Supplying neither side returns a zero preview, matching an empty exchange
// form.
func (s *Service) Preview(ctx context.Context, symbol id.CoinSymbol, settlementAmount, sovereignAmount *uint64) (*Preview, error) {
	switch {
	case settlementAmount != nil && sovereignAmount != nil:
		return nil, ErrAmbiguousPreview
	case settlementAmount != nil:
		return s.previewMint(ctx, symbol, *settlementAmount)
	case sovereignAmount != nil:
		return s.previewRedeem(ctx, symbol, *sovereignAmount)
	}
	return &Preview{Symbol: symbol}, nil
}

func (s *Service) previewMint(ctx context.Context, symbol id.CoinSymbol, amount uint64) (*Preview, error) {
	coin, feeBps, err := s.load(ctx, symbol)
	if err != nil {
		return nil, err
	}
	net, fee, err := fees.ExtractFee(amount, feeBps)
	if err != nil {
		return nil, err
	}
	sovereign, err := s.converter.ToTarget(ctx, amount, coin.Currency, coin.Decimals)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Symbol:           symbol,
		SettlementAmount: amount,
		SovereignAmount:  sovereign,
		ProtocolFee:      fee,
		NetAmount:        net,
	}, nil
}

func (s *Service) previewRedeem(ctx context.Context, symbol id.CoinSymbol, amount uint64) (*Preview, error) {
	coin, feeBps, err := s.load(ctx, symbol)
	if err != nil {
		return nil, err
	}
	gross, err := s.converter.ToSettlement(ctx, amount, coin.Currency, coin.Decimals)
	if err != nil {
		return nil, err
	}
	net, fee, err := fees.ExtractFee(gross, feeBps)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Symbol:           symbol,
		SettlementAmount: gross,
		SovereignAmount:  amount,
		ProtocolFee:      fee,
		NetAmount:        net,
	}, nil
}
