package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	ledgersqlc "sovmint/internal/ledger/sqlc"
	"sovmint/pkg/platform/sentinel"
)

// PostgresStore persists balances in PostgreSQL. Units map to transactions;
// the amount >= debit guard in the update keeps balances non-negative
// without read-modify-write races.
type PostgresStore struct {
	db      *sql.DB
	queries *ledgersqlc.Queries
}

// NewPostgres constructs a PostgreSQL-backed ledger.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		queries: ledgersqlc.New(db),
	}
}

func toBigint(amount uint64) (int64, error) {
	if amount > math.MaxInt64 {
		return 0, fmt.Errorf("amount %d exceeds ledger capacity", amount)
	}
	return int64(amount), nil
}

type pgLedger struct {
	queries *ledgersqlc.Queries
}

func (l pgLedger) Balance(ctx context.Context, account Account, asset Asset) (uint64, error) {
	amount, err := l.queries.GetBalance(ctx, ledgersqlc.GetBalanceParams{
		Account: string(account),
		Asset:   string(asset),
	})
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return uint64(amount), nil
}

func (l pgLedger) MintTo(ctx context.Context, to Account, asset Asset, amount uint64) error {
	v, err := toBigint(amount)
	if err != nil {
		return err
	}
	err = l.queries.AddBalance(ctx, ledgersqlc.AddBalanceParams{
		Account: string(to),
		Asset:   string(asset),
		Amount:  v,
	})
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	return nil
}

func (l pgLedger) BurnFrom(ctx context.Context, from Account, asset Asset, amount uint64) error {
	v, err := toBigint(amount)
	if err != nil {
		return err
	}
	rows, err := l.queries.SubtractBalance(ctx, ledgersqlc.SubtractBalanceParams{
		Account: string(from),
		Asset:   string(asset),
		Amount:  v,
	})
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %s short of %d %s: %w",
			from, amount, asset, sentinel.ErrInsufficientFunds)
	}
	return nil
}

func (l pgLedger) Move(ctx context.Context, from, to Account, asset Asset, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := l.BurnFrom(ctx, from, asset, amount); err != nil {
		return err
	}
	return l.MintTo(ctx, to, asset, amount)
}

// WithTx binds the ledger operations to an open transaction so callers can
// compose them with other writes that must commit together.
func (s *PostgresStore) WithTx(tx *sql.Tx) Ledger {
	return pgLedger{queries: s.queries.WithTx(tx)}
}

func (s *PostgresStore) Balance(ctx context.Context, account Account, asset Asset) (uint64, error) {
	return pgLedger{queries: s.queries}.Balance(ctx, account, asset)
}

func (s *PostgresStore) MintTo(ctx context.Context, to Account, asset Asset, amount uint64) error {
	return pgLedger{queries: s.queries}.MintTo(ctx, to, asset, amount)
}

func (s *PostgresStore) BurnFrom(ctx context.Context, from Account, asset Asset, amount uint64) error {
	return pgLedger{queries: s.queries}.BurnFrom(ctx, from, asset, amount)
}

// Move runs its two legs in a transaction so a standalone move cannot leave
// a half-applied transfer.
func (s *PostgresStore) Move(ctx context.Context, from, to Account, asset Asset, amount uint64) error {
	return s.InUnit(ctx, func(ctx context.Context, l Ledger) error {
		return l.Move(ctx, from, to, asset, amount)
	})
}

func (s *PostgresStore) InUnit(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, pgLedger{queries: s.queries.WithTx(tx)}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}
