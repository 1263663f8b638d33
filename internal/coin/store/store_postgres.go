package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"sovmint/internal/coin/models"
	coinsqlc "sovmint/internal/coin/store/sqlc"
	id "sovmint/pkg/domain"
	"sovmint/pkg/platform/sentinel"
	"sovmint/pkg/requestcontext"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// PostgresStore persists factory and coin records in PostgreSQL.
type PostgresStore struct {
	db      *sql.DB
	queries *coinsqlc.Queries
}

// NewPostgres constructs a PostgreSQL-backed coin store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		queries: coinsqlc.New(db),
	}
}

func (s *PostgresStore) SaveFactory(ctx context.Context, factory *models.Factory) error {
	mappings, err := json.Marshal(factory.BondMappings)
	if err != nil {
		return fmt.Errorf("marshal bond mappings: %w", err)
	}
	err = s.queries.UpsertFactory(ctx, coinsqlc.UpsertFactoryParams{
		FeeBps:             int32(factory.FeeBps),
		BaseReserveBps:     int32(factory.BaseReserveBps),
		ReserveNumerator:   int16(factory.ReserveNumerator),
		ReserveDenominator: int16(factory.ReserveDenominator),
		BondMappings:       mappings,
		CoinCount:          int64(factory.CoinCount),
		CreatedAt:          factory.CreatedAt,
		UpdatedAt:          factory.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("save factory: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindFactory(ctx context.Context) (*models.Factory, error) {
	row, err := s.queries.GetFactory(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("factory not initialized: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find factory: %w", err)
	}
	var mappings []models.BondMapping
	if len(row.BondMappings) > 0 {
		if err := json.Unmarshal(row.BondMappings, &mappings); err != nil {
			return nil, fmt.Errorf("unmarshal bond mappings: %w", err)
		}
	}
	return &models.Factory{
		FeeBps:             id.Bips(row.FeeBps),
		BaseReserveBps:     id.Bips(row.BaseReserveBps),
		ReserveNumerator:   uint8(row.ReserveNumerator),
		ReserveDenominator: uint8(row.ReserveDenominator),
		BondMappings:       mappings,
		CoinCount:          uint64(row.CoinCount),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}, nil
}

func (s *PostgresStore) CreateCoin(ctx context.Context, coin *models.SovereignCoin) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create coin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	qtx := s.queries.WithTx(tx)
	err = qtx.InsertSovereignCoin(ctx, coinsqlc.InsertSovereignCoinParams{
		Symbol:             coin.Symbol.String(),
		Name:               coin.Name,
		Uri:                coin.URI,
		Currency:           coin.Currency.String(),
		BondID:             coin.Bond.String(),
		Rating:             int16(coin.Rating),
		Decimals:           int16(coin.Decimals),
		RequiredReserveBps: int32(coin.RequiredReserveBps),
		TotalSupply:        int64(coin.TotalSupply),
		LiquidReserve:      int64(coin.LiquidReserve),
		BondCollateral:     int64(coin.BondCollateral),
		CreatedAt:          coin.CreatedAt,
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("coin %s already exists: %w", coin.Symbol, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert coin: %w", err)
	}
	if err := qtx.BumpCoinCount(ctx, requestcontext.Now(ctx)); err != nil {
		return fmt.Errorf("bump coin count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create coin tx: %w", err)
	}
	return nil
}

func toCoin(row coinsqlc.SovereignCoin) *models.SovereignCoin {
	return &models.SovereignCoin{
		Symbol:             id.CoinSymbol(row.Symbol),
		Name:               row.Name,
		URI:                row.Uri,
		Currency:           id.CurrencyCode(row.Currency),
		Bond:               id.BondID(row.BondID),
		Rating:             id.BondRating(row.Rating),
		Decimals:           uint8(row.Decimals),
		RequiredReserveBps: id.Bips(row.RequiredReserveBps),
		TotalSupply:        uint64(row.TotalSupply),
		LiquidReserve:      uint64(row.LiquidReserve),
		BondCollateral:     uint64(row.BondCollateral),
		CreatedAt:          row.CreatedAt,
	}
}

func (s *PostgresStore) FindCoin(ctx context.Context, symbol id.CoinSymbol) (*models.SovereignCoin, error) {
	row, err := s.queries.GetSovereignCoin(ctx, symbol.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("coin %s not found: %w", symbol, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find coin: %w", err)
	}
	return toCoin(row), nil
}

func (s *PostgresStore) ListCoins(ctx context.Context) ([]*models.SovereignCoin, error) {
	rows, err := s.queries.ListSovereignCoins(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coins: %w", err)
	}
	coins := make([]*models.SovereignCoin, 0, len(rows))
	for _, row := range rows {
		coins = append(coins, toCoin(row))
	}
	return coins, nil
}

type pgAggregates struct {
	queries *coinsqlc.Queries
}

func (a pgAggregates) ApplyMint(ctx context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error {
	err := a.queries.ApplyMintDeltas(ctx, coinsqlc.ApplyMintDeltasParams{
		Symbol:         symbol.String(),
		TotalSupply:    int64(supply),
		LiquidReserve:  int64(reserve),
		BondCollateral: int64(bond),
	})
	if err != nil {
		return fmt.Errorf("apply mint deltas: %w", err)
	}
	return nil
}

func (a pgAggregates) ApplyRedeem(ctx context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error {
	rows, err := a.queries.ApplyRedeemDeltas(ctx, coinsqlc.ApplyRedeemDeltasParams{
		Symbol:         symbol.String(),
		TotalSupply:    int64(supply),
		LiquidReserve:  int64(reserve),
		BondCollateral: int64(bond),
	})
	if err != nil {
		return fmt.Errorf("apply redeem deltas: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("redeem deltas exceed coin %s aggregates: %w",
			symbol, sentinel.ErrInsufficientFunds)
	}
	return nil
}

// AggregatesWithTx binds the aggregate mutations to an open transaction so a
// settlement can commit them together with its ledger moves.
func (s *PostgresStore) AggregatesWithTx(tx *sql.Tx) Aggregates {
	return pgAggregates{queries: s.queries.WithTx(tx)}
}

func (s *PostgresStore) ApplyMint(ctx context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error {
	return pgAggregates{queries: s.queries}.ApplyMint(ctx, symbol, supply, reserve, bond)
}

func (s *PostgresStore) ApplyRedeem(ctx context.Context, symbol id.CoinSymbol, supply, reserve, bond uint64) error {
	return pgAggregates{queries: s.queries}.ApplyRedeem(ctx, symbol, supply, reserve, bond)
}
