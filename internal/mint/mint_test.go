package mint

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sovmint/internal/bonds"
	coinmodels "sovmint/internal/coin/models"
	coinstore "sovmint/internal/coin/store"
	"sovmint/internal/ledger"
	"sovmint/internal/mint/store"
	"sovmint/internal/oracle"
	"sovmint/internal/settlement"
	id "sovmint/pkg/domain"
	"sovmint/pkg/requestcontext"
)

const (
	testSymbol id.CoinSymbol = "USDS"
	testBond   id.BondID     = "USTRY-3"
	planTTL                  = 5 * time.Minute
)

type MintServiceSuite struct {
	suite.Suite
	service   *Service
	coins     *coinstore.InMemoryStore
	plans     *store.InMemoryPlanStore
	ledger    *ledger.Memory
	desk      *bonds.MemoryDesk
	source    *oracle.StaticSource
	requester id.RequesterID
	ctx       context.Context
	now       time.Time
}

func TestMintServiceSuite(t *testing.T) {
	suite.Run(t, new(MintServiceSuite))
}

func (s *MintServiceSuite) SetupTest() {
	s.coins = coinstore.NewMemory()
	s.plans = store.NewMemory()
	s.ledger = ledger.NewMemory()
	s.desk = bonds.NewMemoryDesk()
	s.source = oracle.NewStaticSource()
	s.requester = id.NewRequesterID()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.Require().NoError(s.coins.SaveFactory(s.ctx, &coinmodels.Factory{
		FeeBps:             50,
		BaseReserveBps:     2800,
		ReserveNumerator:   100,
		ReserveDenominator: 1,
		BondMappings: []coinmodels.BondMapping{
			{Currency: id.USD, Bond: testBond, Rating: 3},
		},
	}))
	// base 2800 + (3-1) * 100/1 = 3000
	s.Require().NoError(s.coins.CreateCoin(s.ctx, &coinmodels.SovereignCoin{
		Symbol:             testSymbol,
		Name:               "Dollar Sovereign",
		Currency:           id.USD,
		Bond:               testBond,
		Rating:             3,
		Decimals:           6,
		RequiredReserveBps: 3000,
	}))

	s.service = NewService(
		s.coins, s.plans, settlement.NewMemory(s.ledger, s.coins), s.desk,
		oracle.NewFeedConverter(s.source), planTTL,
	)

	s.Require().NoError(s.ledger.MintTo(s.ctx, ledger.UserAccount(s.requester), ledger.Settlement, 2_000_000))
}

func (s *MintServiceSuite) at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *MintServiceSuite) balance(account ledger.Account, asset ledger.Asset) uint64 {
	got, err := s.ledger.Balance(s.ctx, account, asset)
	s.Require().NoError(err)
	return got
}

func (s *MintServiceSuite) TestQuote() {
	plan, err := s.service.Quote(s.ctx, s.requester, testSymbol, 1_000_000)
	s.Require().NoError(err)

	s.Equal(uint64(5_000), plan.ProtocolFee)
	s.Equal(uint64(298_500), plan.ReserveAmount)
	s.Equal(uint64(696_500), plan.BondAmount)
	// The gross amount converts to coin units; the fee comes out of the
	// backing, not the minted units.
	s.Equal(uint64(1_000_000), plan.SovereignAmount)
	s.Equal(s.now.Add(planTTL), plan.ExpiresAt)
	s.False(plan.ID.IsNil())
}

func (s *MintServiceSuite) TestQuoteWhilePending() {
	_, err := s.service.Quote(s.ctx, s.requester, testSymbol, 1_000_000)
	s.Require().NoError(err)

	_, err = s.service.Quote(s.ctx, s.requester, testSymbol, 500_000)
	s.Require().ErrorIs(err, ErrPlanPending)
}

func (s *MintServiceSuite) TestQuoteUnknownCoin() {
	_, err := s.service.Quote(s.ctx, s.requester, "GHOST", 1_000)
	s.Require().ErrorIs(err, ErrCoinNotFound)
}

func (s *MintServiceSuite) TestCommitSettlesPlan() {
	quoted, err := s.service.Quote(s.ctx, s.requester, testSymbol, 1_000_000)
	s.Require().NoError(err)

	committed, err := s.service.Commit(s.ctx, s.requester, testSymbol)
	s.Require().NoError(err)
	s.Equal(quoted.ID, committed.ID)

	user := ledger.UserAccount(s.requester)
	s.Equal(uint64(1_000_000), s.balance(user, ledger.Settlement))
	s.Equal(uint64(1_000_000), s.balance(user, ledger.CoinAsset(testSymbol)))
	s.Equal(uint64(298_500), s.balance(ledger.ReserveAccount(testSymbol), ledger.Settlement))
	s.Equal(uint64(5_000), s.balance(ledger.VaultAccount(), ledger.Settlement))
	s.Equal(uint64(696_500), s.balance(ledger.BondHoldingAccount(testSymbol), ledger.BondAsset(testBond)))

	coin, err := s.coins.FindCoin(s.ctx, testSymbol)
	s.Require().NoError(err)
	s.Equal(uint64(1_000_000), coin.TotalSupply)
	s.Equal(uint64(298_500), coin.LiquidReserve)
	s.Equal(uint64(696_500), coin.BondCollateral)
}

func (s *MintServiceSuite) TestCommitConsumesPlan() {
	_, err := s.service.Quote(s.ctx, s.requester, testSymbol, 1_000_000)
	s.Require().NoError(err)
	_, err = s.service.Commit(s.ctx, s.requester, testSymbol)
	s.Require().NoError(err)

	_, err = s.service.Commit(s.ctx, s.requester, testSymbol)
	s.Require().ErrorIs(err, ErrNoPlan)
}

func (s *MintServiceSuite) TestCommitExpiredPlan() {
	_, err := s.service.Quote(s.ctx, s.requester, testSymbol, 1_000_000)
	s.Require().NoError(err)

	late := s.at(s.now.Add(planTTL + time.Minute))
	_, err = s.service.Commit(late, s.requester, testSymbol)
	s.Require().ErrorIs(err, ErrMintStateExpired)

	// Nothing settled.
	s.Equal(uint64(2_000_000), s.balance(ledger.UserAccount(s.requester), ledger.Settlement))

	// The window reopens with a fresh quote.
	_, err = s.service.Quote(late, s.requester, testSymbol, 1_000_000)
	s.Require().NoError(err)
	_, err = s.service.Commit(late, s.requester, testSymbol)
	s.Require().NoError(err)
}

func (s *MintServiceSuite) TestCommitInsufficientBalance() {
	poor := id.NewRequesterID()
	s.Require().NoError(s.ledger.MintTo(s.ctx, ledger.UserAccount(poor), ledger.Settlement, 999_999))

	quoted, err := s.service.Quote(s.ctx, poor, testSymbol, 1_000_000)
	s.Require().NoError(err)

	_, err = s.service.Commit(s.ctx, poor, testSymbol)
	s.Require().ErrorIs(err, ErrInsufficientBalance)

	// The failed settlement left no partial moves behind.
	s.Equal(uint64(999_999), s.balance(ledger.UserAccount(poor), ledger.Settlement))
	s.Equal(uint64(0), s.balance(ledger.ReserveAccount(testSymbol), ledger.Settlement))

	// The plan survives the failed settlement; funding the account and
	// retrying commits the same plan within its window.
	s.Require().NoError(s.ledger.MintTo(s.ctx, ledger.UserAccount(poor), ledger.Settlement, 1))
	committed, err := s.service.Commit(s.ctx, poor, testSymbol)
	s.Require().NoError(err)
	s.Equal(quoted.ID, committed.ID)
}

func (s *MintServiceSuite) TestCommitStaleAggregatesRollBackSettlement() {
	// Another settlement pushed the supply to the brink after the quote; the
	// aggregate update inside the unit fails and every balance move is
	// discarded with it.
	s.Require().NoError(s.coins.ApplyMint(s.ctx, testSymbol, math.MaxUint64-1, 0, 0))

	_, err := s.service.Quote(s.ctx, s.requester, testSymbol, 1_000_000)
	s.Require().NoError(err)

	_, err = s.service.Commit(s.ctx, s.requester, testSymbol)
	s.Require().Error(err)

	user := ledger.UserAccount(s.requester)
	s.Equal(uint64(2_000_000), s.balance(user, ledger.Settlement))
	s.Equal(uint64(0), s.balance(user, ledger.CoinAsset(testSymbol)))
	s.Equal(uint64(0), s.balance(ledger.ReserveAccount(testSymbol), ledger.Settlement))
	s.Equal(uint64(0), s.balance(ledger.VaultAccount(), ledger.Settlement))

	coin, err := s.coins.FindCoin(s.ctx, testSymbol)
	s.Require().NoError(err)
	s.Equal(uint64(math.MaxUint64-1), coin.TotalSupply)

	// The plan is back in the store for a retry.
	_, err = s.plans.Find(s.ctx, s.requester, testSymbol)
	s.Require().NoError(err)
}

func (s *MintServiceSuite) TestQuoteCurrencyConversion() {
	s.Require().NoError(s.coins.CreateCoin(s.ctx, &coinmodels.SovereignCoin{
		Symbol:             "MXNS",
		Name:               "Peso Sovereign",
		Currency:           "MXN",
		Bond:               testBond,
		Rating:             3,
		Decimals:           6,
		RequiredReserveBps: 3000,
	}))
	// 17.25 MXN per settlement unit.
	s.source.SetCurrencyPrice("MXN", oracle.Price{Mantissa: 1725, Scale: 2})

	plan, err := s.service.Quote(s.ctx, s.requester, "MXNS", 1_000_000)
	s.Require().NoError(err)
	s.Equal(uint64(995_000), plan.ReserveAmount+plan.BondAmount)
	s.Equal(uint64(17_250_000), plan.SovereignAmount)
}

func (s *MintServiceSuite) TestSweepExpired() {
	_, err := s.service.Quote(s.ctx, s.requester, testSymbol, 1_000_000)
	s.Require().NoError(err)

	removed, err := s.service.SweepExpired(s.at(s.now.Add(planTTL + time.Second)))
	s.Require().NoError(err)
	s.Equal(1, removed)
}
