package ledger

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/sentinel"
)

type MemoryLedgerSuite struct {
	suite.Suite
	ledger *Memory
	ctx    context.Context
}

func TestMemoryLedgerSuite(t *testing.T) {
	suite.Run(t, new(MemoryLedgerSuite))
}

func (s *MemoryLedgerSuite) SetupTest() {
	s.ledger = NewMemory()
	s.ctx = context.Background()
}

func (s *MemoryLedgerSuite) balance(account Account, asset Asset) uint64 {
	got, err := s.ledger.Balance(s.ctx, account, asset)
	s.Require().NoError(err)
	return got
}

func (s *MemoryLedgerSuite) TestBalancesStartAtZero() {
	s.Equal(uint64(0), s.balance(VaultAccount(), Settlement))
}

func (s *MemoryLedgerSuite) TestMintMoveBurn() {
	user := UserAccount(id.NewRequesterID())
	reserve := ReserveAccount("MXNS")

	s.Require().NoError(s.ledger.MintTo(s.ctx, user, Settlement, 1_000))
	s.Require().NoError(s.ledger.Move(s.ctx, user, reserve, Settlement, 400))
	s.Require().NoError(s.ledger.BurnFrom(s.ctx, user, Settlement, 100))

	s.Equal(uint64(500), s.balance(user, Settlement))
	s.Equal(uint64(400), s.balance(reserve, Settlement))
}

func (s *MemoryLedgerSuite) TestMoveInsufficientFunds() {
	user := UserAccount(id.NewRequesterID())
	s.Require().NoError(s.ledger.MintTo(s.ctx, user, Settlement, 50))

	err := s.ledger.Move(s.ctx, user, VaultAccount(), Settlement, 51)
	s.Require().ErrorIs(err, sentinel.ErrInsufficientFunds)
	s.Equal(uint64(50), s.balance(user, Settlement))
}

func (s *MemoryLedgerSuite) TestBurnInsufficientFunds() {
	user := UserAccount(id.NewRequesterID())
	err := s.ledger.BurnFrom(s.ctx, user, CoinAsset("MXNS"), 1)
	s.Require().ErrorIs(err, sentinel.ErrInsufficientFunds)
}

func (s *MemoryLedgerSuite) TestAssetsAreIndependent() {
	user := UserAccount(id.NewRequesterID())
	s.Require().NoError(s.ledger.MintTo(s.ctx, user, Settlement, 10))
	s.Require().NoError(s.ledger.MintTo(s.ctx, user, CoinAsset("MXNS"), 7))

	s.Equal(uint64(10), s.balance(user, Settlement))
	s.Equal(uint64(7), s.balance(user, CoinAsset("MXNS")))
	s.Equal(uint64(0), s.balance(user, CoinAsset("BRLS")))
}

func (s *MemoryLedgerSuite) TestUnitCommits() {
	user := UserAccount(id.NewRequesterID())
	s.Require().NoError(s.ledger.MintTo(s.ctx, user, Settlement, 1_000))

	err := s.ledger.InUnit(s.ctx, func(ctx context.Context, l Ledger) error {
		if err := l.Move(ctx, user, ReserveAccount("MXNS"), Settlement, 300); err != nil {
			return err
		}
		return l.MintTo(ctx, user, CoinAsset("MXNS"), 300)
	})
	s.Require().NoError(err)

	s.Equal(uint64(700), s.balance(user, Settlement))
	s.Equal(uint64(300), s.balance(ReserveAccount("MXNS"), Settlement))
	s.Equal(uint64(300), s.balance(user, CoinAsset("MXNS")))
}

func (s *MemoryLedgerSuite) TestUnitRollsBackEveryMove() {
	user := UserAccount(id.NewRequesterID())
	s.Require().NoError(s.ledger.MintTo(s.ctx, user, Settlement, 1_000))

	failure := errors.New("downstream failure")
	err := s.ledger.InUnit(s.ctx, func(ctx context.Context, l Ledger) error {
		if err := l.Move(ctx, user, VaultAccount(), Settlement, 600); err != nil {
			return err
		}
		if err := l.MintTo(ctx, user, CoinAsset("MXNS"), 600); err != nil {
			return err
		}
		if err := l.BurnFrom(ctx, user, Settlement, 100); err != nil {
			return err
		}
		return failure
	})
	s.Require().ErrorIs(err, failure)

	s.Equal(uint64(1_000), s.balance(user, Settlement))
	s.Equal(uint64(0), s.balance(VaultAccount(), Settlement))
	s.Equal(uint64(0), s.balance(user, CoinAsset("MXNS")))
}

func (s *MemoryLedgerSuite) TestMoveCreditOverflowUndoesDebit() {
	user := UserAccount(id.NewRequesterID())
	full := UserAccount(id.NewRequesterID())
	s.Require().NoError(s.ledger.MintTo(s.ctx, user, Settlement, 100))
	s.Require().NoError(s.ledger.MintTo(s.ctx, full, Settlement, math.MaxUint64))

	err := s.ledger.Move(s.ctx, user, full, Settlement, 1)
	s.Require().Error(err)

	s.Equal(uint64(100), s.balance(user, Settlement))
	s.Equal(uint64(math.MaxUint64), s.balance(full, Settlement))
}

func (s *MemoryLedgerSuite) TestUnitRollsBackAroundOverflowingMove() {
	user := UserAccount(id.NewRequesterID())
	full := UserAccount(id.NewRequesterID())
	s.Require().NoError(s.ledger.MintTo(s.ctx, user, Settlement, 1_000))
	s.Require().NoError(s.ledger.MintTo(s.ctx, full, Settlement, math.MaxUint64))

	err := s.ledger.InUnit(s.ctx, func(ctx context.Context, l Ledger) error {
		if err := l.Move(ctx, user, VaultAccount(), Settlement, 600); err != nil {
			return err
		}
		return l.Move(ctx, user, full, Settlement, 1)
	})
	s.Require().Error(err)

	s.Equal(uint64(1_000), s.balance(user, Settlement))
	s.Equal(uint64(0), s.balance(VaultAccount(), Settlement))
	s.Equal(uint64(math.MaxUint64), s.balance(full, Settlement))
}

func (s *MemoryLedgerSuite) TestUnitRollsBackOnInsufficientFunds() {
	user := UserAccount(id.NewRequesterID())
	s.Require().NoError(s.ledger.MintTo(s.ctx, user, Settlement, 100))

	err := s.ledger.InUnit(s.ctx, func(ctx context.Context, l Ledger) error {
		if err := l.Move(ctx, user, VaultAccount(), Settlement, 100); err != nil {
			return err
		}
		return l.Move(ctx, user, VaultAccount(), Settlement, 1)
	})
	s.Require().ErrorIs(err, sentinel.ErrInsufficientFunds)
	s.Equal(uint64(100), s.balance(user, Settlement))
}
