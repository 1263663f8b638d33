//go:build integration

package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"sovmint/internal/ledger"
	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/sentinel"
	"sovmint/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *ledger.PostgresStore

	user  ledger.Account
	asset ledger.Asset
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = ledger.NewPostgres(s.postgres.DB)

	s.user = ledger.UserAccount(id.NewRequesterID())
	s.asset = ledger.Settlement
}

func (s *PostgresLedgerSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "ledger_balances")
	s.Require().NoError(err)
}

func (s *PostgresLedgerSuite) TestBalanceMissingRowIsZero() {
	ctx := context.Background()

	balance, err := s.store.Balance(ctx, s.user, s.asset)
	s.Require().NoError(err)
	s.Zero(balance)
}

func (s *PostgresLedgerSuite) TestMintMoveBurn() {
	ctx := context.Background()
	vault := ledger.VaultAccount()

	s.Require().NoError(s.store.MintTo(ctx, s.user, s.asset, 1_000_000))

	s.Require().NoError(s.store.Move(ctx, s.user, vault, s.asset, 400_000))

	userBalance, err := s.store.Balance(ctx, s.user, s.asset)
	s.Require().NoError(err)
	s.Equal(uint64(600_000), userBalance)

	vaultBalance, err := s.store.Balance(ctx, vault, s.asset)
	s.Require().NoError(err)
	s.Equal(uint64(400_000), vaultBalance)

	s.Require().NoError(s.store.BurnFrom(ctx, s.user, s.asset, 600_000))

	userBalance, err = s.store.Balance(ctx, s.user, s.asset)
	s.Require().NoError(err)
	s.Zero(userBalance)
}

func (s *PostgresLedgerSuite) TestBurnBeyondBalanceFails() {
	ctx := context.Background()

	s.Require().NoError(s.store.MintTo(ctx, s.user, s.asset, 100))

	err := s.store.BurnFrom(ctx, s.user, s.asset, 101)
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrInsufficientFunds))

	balance, err := s.store.Balance(ctx, s.user, s.asset)
	s.Require().NoError(err)
	s.Equal(uint64(100), balance)
}

func (s *PostgresLedgerSuite) TestMoveShortSourceLeavesBothSidesUntouched() {
	ctx := context.Background()
	vault := ledger.VaultAccount()

	s.Require().NoError(s.store.MintTo(ctx, s.user, s.asset, 50))

	err := s.store.Move(ctx, s.user, vault, s.asset, 80)
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrInsufficientFunds))

	userBalance, err := s.store.Balance(ctx, s.user, s.asset)
	s.Require().NoError(err)
	s.Equal(uint64(50), userBalance)

	vaultBalance, err := s.store.Balance(ctx, vault, s.asset)
	s.Require().NoError(err)
	s.Zero(vaultBalance)
}

func (s *PostgresLedgerSuite) TestUnitCommitsAllMoves() {
	ctx := context.Background()
	vault := ledger.VaultAccount()

	s.Require().NoError(s.store.MintTo(ctx, s.user, s.asset, 1_000))

	err := s.store.InUnit(ctx, func(ctx context.Context, l ledger.Ledger) error {
		if err := l.BurnFrom(ctx, s.user, s.asset, 300); err != nil {
			return err
		}
		return l.MintTo(ctx, vault, s.asset, 300)
	})
	s.Require().NoError(err)

	userBalance, err := s.store.Balance(ctx, s.user, s.asset)
	s.Require().NoError(err)
	s.Equal(uint64(700), userBalance)

	vaultBalance, err := s.store.Balance(ctx, vault, s.asset)
	s.Require().NoError(err)
	s.Equal(uint64(300), vaultBalance)
}

func (s *PostgresLedgerSuite) TestUnitRollsBackOnError() {
	ctx := context.Background()
	vault := ledger.VaultAccount()

	s.Require().NoError(s.store.MintTo(ctx, s.user, s.asset, 1_000))

	err := s.store.InUnit(ctx, func(ctx context.Context, l ledger.Ledger) error {
		if err := l.BurnFrom(ctx, s.user, s.asset, 1_000); err != nil {
			return err
		}
		if err := l.MintTo(ctx, vault, s.asset, 1_000); err != nil {
			return err
		}
		// Overdraw after earlier moves already applied inside the unit.
		return l.BurnFrom(ctx, vault, s.asset, 2_000)
	})
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrInsufficientFunds))

	userBalance, err := s.store.Balance(ctx, s.user, s.asset)
	s.Require().NoError(err)
	s.Equal(uint64(1_000), userBalance)

	vaultBalance, err := s.store.Balance(ctx, vault, s.asset)
	s.Require().NoError(err)
	s.Zero(vaultBalance)
}

func (s *PostgresLedgerSuite) TestAssetsAreIndependent() {
	ctx := context.Background()
	symbol, err := id.ParseCoinSymbol("USDS")
	s.Require().NoError(err)
	coin := ledger.CoinAsset(symbol)

	s.Require().NoError(s.store.MintTo(ctx, s.user, s.asset, 500))
	s.Require().NoError(s.store.MintTo(ctx, s.user, coin, 42))

	settlement, err := s.store.Balance(ctx, s.user, s.asset)
	s.Require().NoError(err)
	s.Equal(uint64(500), settlement)

	coins, err := s.store.Balance(ctx, s.user, coin)
	s.Require().NoError(err)
	s.Equal(uint64(42), coins)
}
