package exchange

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	coinmodels "sovmint/internal/coin/models"
	coinstore "sovmint/internal/coin/store"
	"sovmint/internal/oracle"
	id "sovmint/pkg/domain"
)

type ExchangeServiceSuite struct {
	suite.Suite
	service *Service
	source  *oracle.StaticSource
	ctx     context.Context
}

func TestExchangeServiceSuite(t *testing.T) {
	suite.Run(t, new(ExchangeServiceSuite))
}

func (s *ExchangeServiceSuite) SetupTest() {
	coins := coinstore.NewMemory()
	s.source = oracle.NewStaticSource()
	s.ctx = context.Background()

	s.Require().NoError(coins.SaveFactory(s.ctx, &coinmodels.Factory{
		FeeBps:             50,
		BaseReserveBps:     2800,
		ReserveNumerator:   100,
		ReserveDenominator: 1,
		BondMappings: []coinmodels.BondMapping{
			{Currency: id.USD, Bond: "USTRY-3", Rating: 3},
		},
	}))
	s.Require().NoError(coins.CreateCoin(s.ctx, &coinmodels.SovereignCoin{
		Symbol:             "USDS",
		Name:               "Dollar Sovereign",
		Currency:           id.USD,
		Bond:               "USTRY-3",
		Rating:             3,
		Decimals:           6,
		RequiredReserveBps: 3000,
	}))

	s.service = NewService(coins, oracle.NewFeedConverter(s.source))
}

func ptr(v uint64) *uint64 { return &v }

func (s *ExchangeServiceSuite) TestPreviewMintSide() {
	preview, err := s.service.Preview(s.ctx, "USDS", ptr(1_000_000), nil)
	s.Require().NoError(err)

	s.Equal(uint64(1_000_000), preview.SettlementAmount)
	s.Equal(uint64(5_000), preview.ProtocolFee)
	s.Equal(uint64(995_000), preview.NetAmount)
	// The gross side converts; the fee reduces the backing, not the units.
	s.Equal(uint64(1_000_000), preview.SovereignAmount)
}

func (s *ExchangeServiceSuite) TestPreviewRedeemSide() {
	preview, err := s.service.Preview(s.ctx, "USDS", nil, ptr(1_000_000))
	s.Require().NoError(err)

	s.Equal(uint64(1_000_000), preview.SovereignAmount)
	s.Equal(uint64(1_000_000), preview.SettlementAmount)
	s.Equal(uint64(5_000), preview.ProtocolFee)
	s.Equal(uint64(995_000), preview.NetAmount)
}

func (s *ExchangeServiceSuite) TestPreviewBothSidesRejected() {
	_, err := s.service.Preview(s.ctx, "USDS", ptr(1), ptr(1))
	s.Require().ErrorIs(err, ErrAmbiguousPreview)
}

func (s *ExchangeServiceSuite) TestPreviewNeitherSideIsZero() {
	preview, err := s.service.Preview(s.ctx, "USDS", nil, nil)
	s.Require().NoError(err)
	s.Equal(uint64(0), preview.SettlementAmount)
	s.Equal(uint64(0), preview.SovereignAmount)
}

func (s *ExchangeServiceSuite) TestPreviewUnknownCoin() {
	_, err := s.service.Preview(s.ctx, "GHOST", ptr(1_000), nil)
	s.Require().ErrorIs(err, ErrCoinNotFound)
}
