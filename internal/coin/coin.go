// Package coin manages the factory record and the sovereign coins it issues.
// Settlement flows (mint, redeem) live in their own modules; this one owns
// coin lifecycle and admin policy.
package coin

import (
	"context"
	"errors"
	"strings"

	coinmetrics "sovmint/internal/coin/metrics"
	"sovmint/internal/coin/models"
	"sovmint/internal/coin/store"
	"sovmint/internal/ledger"
	"sovmint/internal/reserve"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/platform/audit"
	"sovmint/pkg/platform/sentinel"
	"sovmint/pkg/requestcontext"
)

var (
	ErrCoinNotFound             = dErrors.New(dErrors.CodeNotFound, "sovereign coin not found")
	ErrCoinExists               = dErrors.New(dErrors.CodeConflict, "coin symbol already registered")
	ErrNoBondMappingForCurrency = dErrors.New(dErrors.CodeInvalidInput, "no bond mapping for currency")
	ErrMaxBondMappingsReached   = dErrors.New(dErrors.CodeConflict, "bond mapping capacity reached")
	ErrCurrencyAlreadyMapped    = dErrors.New(dErrors.CodeConflict, "currency already mapped to a bond")
	ErrInsufficientProtocolFees = dErrors.New(dErrors.CodeInsufficientBalance, "protocol vault balance too low")
)

// SeedPolicy holds the factory values used the first time the service runs
// against an empty store. An existing factory wins over the seed.
type SeedPolicy struct {
	FeeBps             id.Bips
	BaseReserveBps     id.Bips
	ReserveNumerator   uint8
	ReserveDenominator uint8
}

// Service coordinates coin lifecycle and factory policy.
type Service struct {
	store     store.Store
	ledger    ledger.Store
	metrics   *coinmetrics.Metrics
	publisher audit.Publisher
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithAuditPublisher wires lifecycle and policy audit events.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// NewService constructs the coin service. metrics may be nil.
func NewService(st store.Store, lg ledger.Store, metrics *coinmetrics.Metrics, opts ...Option) *Service {
	s := &Service{store: st, ledger: lg, metrics: metrics, publisher: audit.NopPublisher{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureFactory returns the factory record, creating it from seed on first
// run.
func (s *Service) EnsureFactory(ctx context.Context, seed SeedPolicy) (*models.Factory, error) {
	factory, err := s.store.FindFactory(ctx)
	if err == nil {
		return factory, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load factory", err)
	}

	now := requestcontext.Now(ctx)
	factory = &models.Factory{
		FeeBps:             seed.FeeBps,
		BaseReserveBps:     seed.BaseReserveBps,
		ReserveNumerator:   seed.ReserveNumerator,
		ReserveDenominator: seed.ReserveDenominator,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.SaveFactory(ctx, factory); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "seed factory", err)
	}
	return factory, nil
}

// Factory returns the current factory record.
func (s *Service) Factory(ctx context.Context) (*models.Factory, error) {
	factory, err := s.store.FindFactory(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load factory", err)
	}
	return factory, nil
}

// CreateCoinParams carries the validated inputs for coin initialization.
type CreateCoinParams struct {
	Symbol   id.CoinSymbol
	Name     string
	URI      string
	Currency id.CurrencyCode
	Decimals uint8
}

// CreateCoin initializes a sovereign coin for a mapped currency. The
// required reserve ratio is fixed at creation from the factory policy and
// the mapped bond's rating.
func (s *Service) CreateCoin(ctx context.Context, params CreateCoinParams) (*models.SovereignCoin, error) {
	if params.Symbol.IsNil() || strings.TrimSpace(params.Name) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "symbol and name are required")
	}
	if params.Decimals > models.MaxCoinDecimals {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "decimals exceed %d", models.MaxCoinDecimals)
	}

	factory, err := s.store.FindFactory(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load factory", err)
	}
	mapping, ok := factory.MappingFor(params.Currency)
	if !ok {
		return nil, ErrNoBondMappingForCurrency
	}

	requiredBps, err := reserve.RequiredBps(
		factory.BaseReserveBps, mapping.Rating,
		factory.ReserveNumerator, factory.ReserveDenominator,
	)
	if err != nil {
		return nil, err
	}

	coin := &models.SovereignCoin{
		Symbol:             params.Symbol,
		Name:               strings.TrimSpace(params.Name),
		URI:                strings.TrimSpace(params.URI),
		Currency:           params.Currency,
		Bond:               mapping.Bond,
		Rating:             mapping.Rating,
		Decimals:           params.Decimals,
		RequiredReserveBps: requiredBps,
		CreatedAt:          requestcontext.Now(ctx),
	}
	if err := s.store.CreateCoin(ctx, coin); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, ErrCoinExists
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "create coin", err)
	}

	s.metrics.IncrementCoinsCreated()
	_ = s.publisher.Publish(ctx, audit.Event{
		Timestamp: coin.CreatedAt,
		Symbol:    coin.Symbol,
		Action:    string(audit.EventCoinCreated),
		RequestID: requestcontext.RequestID(ctx),
	})
	return coin, nil
}

// GetCoin returns one coin by symbol.
func (s *Service) GetCoin(ctx context.Context, symbol id.CoinSymbol) (*models.SovereignCoin, error) {
	coin, err := s.store.FindCoin(ctx, symbol)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrCoinNotFound
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load coin", err)
	}
	return coin, nil
}

// ListCoins returns every registered coin.
func (s *Service) ListCoins(ctx context.Context) ([]*models.SovereignCoin, error) {
	coins, err := s.store.ListCoins(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list coins", err)
	}
	return coins, nil
}

// SetProtocolFee updates the factory's mint fee. Coins already issued keep
// their reserve ratio; the fee applies to new quotes immediately.
func (s *Service) SetProtocolFee(ctx context.Context, feeBps id.Bips) (*models.Factory, error) {
	factory, err := s.store.FindFactory(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load factory", err)
	}
	factory.FeeBps = feeBps
	factory.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.SaveFactory(ctx, factory); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save factory", err)
	}
	s.metrics.IncrementPolicyChange("set_fee")
	_ = s.publisher.Publish(ctx, audit.Event{
		Timestamp: factory.UpdatedAt,
		Action:    string(audit.EventPolicyChanged),
		Reason:    "set_fee",
		Amount:    feeBps.Uint64(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return factory, nil
}

// AddBondMapping registers a currency-to-bond mapping on the factory.
func (s *Service) AddBondMapping(ctx context.Context, mapping models.BondMapping) (*models.Factory, error) {
	factory, err := s.store.FindFactory(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load factory", err)
	}
	if len(factory.BondMappings) >= models.MaxBondMappings {
		return nil, ErrMaxBondMappingsReached
	}
	if err := factory.AddMapping(mapping); err != nil {
		return nil, ErrCurrencyAlreadyMapped
	}
	factory.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.SaveFactory(ctx, factory); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "save factory", err)
	}
	s.metrics.IncrementPolicyChange("add_bond_mapping")
	_ = s.publisher.Publish(ctx, audit.Event{
		Timestamp: factory.UpdatedAt,
		Action:    string(audit.EventPolicyChanged),
		Reason:    "add_bond_mapping",
		RequestID: requestcontext.RequestID(ctx),
	})
	return factory, nil
}

// WithdrawProtocolFees moves accumulated settlement-asset fees from the
// protocol vault to the given account.
func (s *Service) WithdrawProtocolFees(ctx context.Context, to id.RequesterID, amount uint64) error {
	if to.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "destination requester is required")
	}
	if amount == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}
	err := s.ledger.Move(ctx, ledger.VaultAccount(), ledger.UserAccount(to), ledger.Settlement, amount)
	if err != nil {
		if errors.Is(err, sentinel.ErrInsufficientFunds) {
			return ErrInsufficientProtocolFees
		}
		return dErrors.Wrap(dErrors.CodeInternal, "withdraw fees", err)
	}
	s.metrics.IncrementPolicyChange("withdraw_fees")
	_ = s.publisher.Publish(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Requester: to,
		Action:    string(audit.EventFeesWithdrawn),
		Amount:    amount,
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}
