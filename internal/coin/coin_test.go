package coin

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sovmint/internal/coin/models"
	"sovmint/internal/coin/store"
	"sovmint/internal/ledger"
	id "sovmint/pkg/domain"
	"sovmint/pkg/requestcontext"
)

var seed = SeedPolicy{
	FeeBps:             50,
	BaseReserveBps:     2000,
	ReserveNumerator:   50,
	ReserveDenominator: 1,
}

type CoinServiceSuite struct {
	suite.Suite
	service *Service
	ledger  *ledger.Memory
	ctx     context.Context
}

func TestCoinServiceSuite(t *testing.T) {
	suite.Run(t, new(CoinServiceSuite))
}

func (s *CoinServiceSuite) SetupTest() {
	s.ledger = ledger.NewMemory()
	s.service = NewService(store.NewMemory(), s.ledger, nil)
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	_, err := s.service.EnsureFactory(s.ctx, seed)
	s.Require().NoError(err)
}

func (s *CoinServiceSuite) addMapping(currency id.CurrencyCode, bond id.BondID, rating id.BondRating) {
	_, err := s.service.AddBondMapping(s.ctx, models.BondMapping{
		Currency: currency, Bond: bond, Rating: rating,
	})
	s.Require().NoError(err)
}

func (s *CoinServiceSuite) TestEnsureFactoryIsIdempotent() {
	_, err := s.service.SetProtocolFee(s.ctx, 75)
	s.Require().NoError(err)

	factory, err := s.service.EnsureFactory(s.ctx, seed)
	s.Require().NoError(err)
	s.Equal(id.Bips(75), factory.FeeBps, "existing factory must win over the seed")
}

func (s *CoinServiceSuite) TestCreateCoin() {
	s.addMapping("MXN", "USTRY-3", 3)

	coin, err := s.service.CreateCoin(s.ctx, CreateCoinParams{
		Symbol:   "MXNS",
		Name:     "Mexican Peso Sovereign",
		Currency: "MXN",
		Decimals: 6,
	})
	s.Require().NoError(err)

	s.Equal(id.CoinSymbol("MXNS"), coin.Symbol)
	s.Equal(id.BondID("USTRY-3"), coin.Bond)
	// base 2000 + (3-1) * 50/1
	s.Equal(id.Bips(2100), coin.RequiredReserveBps)
	s.Zero(coin.TotalSupply)
	s.Zero(coin.LiquidReserve)
	s.Zero(coin.BondCollateral)
}

func (s *CoinServiceSuite) TestCreateCoinUnmappedCurrency() {
	_, err := s.service.CreateCoin(s.ctx, CreateCoinParams{
		Symbol:   "BRLS",
		Name:     "Brazilian Real Sovereign",
		Currency: "BRL",
		Decimals: 6,
	})
	s.Require().ErrorIs(err, ErrNoBondMappingForCurrency)
}

func (s *CoinServiceSuite) TestCreateCoinDuplicateSymbol() {
	s.addMapping("MXN", "USTRY-3", 3)

	params := CreateCoinParams{Symbol: "MXNS", Name: "Mexican Peso Sovereign", Currency: "MXN", Decimals: 6}
	_, err := s.service.CreateCoin(s.ctx, params)
	s.Require().NoError(err)

	_, err = s.service.CreateCoin(s.ctx, params)
	s.Require().ErrorIs(err, ErrCoinExists)
}

func (s *CoinServiceSuite) TestBondMappingCapacity() {
	for i := 0; i < models.MaxBondMappings; i++ {
		s.addMapping(id.CurrencyCode(fmt.Sprintf("CUR%d", i)), "USTRY-1", 1)
	}

	_, err := s.service.AddBondMapping(s.ctx, models.BondMapping{
		Currency: "EXTRA", Bond: "USTRY-1", Rating: 1,
	})
	s.Require().ErrorIs(err, ErrMaxBondMappingsReached)
}

func (s *CoinServiceSuite) TestDuplicateCurrencyMapping() {
	s.addMapping("MXN", "USTRY-3", 3)
	_, err := s.service.AddBondMapping(s.ctx, models.BondMapping{
		Currency: "MXN", Bond: "USTRY-5", Rating: 5,
	})
	s.Require().ErrorIs(err, ErrCurrencyAlreadyMapped)
}

func (s *CoinServiceSuite) TestWithdrawProtocolFees() {
	to := id.NewRequesterID()

	s.Run("empty vault", func() {
		err := s.service.WithdrawProtocolFees(s.ctx, to, 1)
		s.Require().ErrorIs(err, ErrInsufficientProtocolFees)
	})

	s.Run("moves fees to the destination", func() {
		s.Require().NoError(s.ledger.MintTo(s.ctx, ledger.VaultAccount(), ledger.Settlement, 10_000))
		s.Require().NoError(s.service.WithdrawProtocolFees(s.ctx, to, 4_000))

		balance, err := s.ledger.Balance(s.ctx, ledger.UserAccount(to), ledger.Settlement)
		s.Require().NoError(err)
		s.Equal(uint64(4_000), balance)
	})
}
