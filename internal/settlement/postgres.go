package settlement

import (
	"context"
	"database/sql"
	"fmt"

	coinstore "sovmint/internal/coin/store"
	"sovmint/internal/ledger"
)

// PostgresRunner runs settlement units as single database transactions. The
// ledger and coin stores share one database, so their tx-bound views commit
// under the same transaction.
type PostgresRunner struct {
	db     *sql.DB
	ledger *ledger.PostgresStore
	coins  *coinstore.PostgresStore
}

// NewPostgres constructs a PostgreSQL-backed unit runner over the two
// stores' shared database handle.
func NewPostgres(db *sql.DB, lg *ledger.PostgresStore, coins *coinstore.PostgresStore) *PostgresRunner {
	return &PostgresRunner{db: db, ledger: lg, coins: coins}
}

type pgUnit struct {
	ledger.Ledger
	coinstore.Aggregates
}

func (r *PostgresRunner) InUnit(ctx context.Context, fn func(ctx context.Context, u Unit) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settlement tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	u := pgUnit{
		Ledger:     r.ledger.WithTx(tx),
		Aggregates: r.coins.AggregatesWithTx(tx),
	}
	if err := fn(ctx, u); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settlement tx: %w", err)
	}
	return nil
}
