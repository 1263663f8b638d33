// Package mint implements the two-phase mint settlement: a quote locks in
// fee and reserve-split terms for a bounded window, and a commit settles
// those exact terms or nothing.
package mint

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sovmint/internal/bonds"
	coinmodels "sovmint/internal/coin/models"
	coinstore "sovmint/internal/coin/store"
	"sovmint/internal/fees"
	"sovmint/internal/ledger"
	mintmetrics "sovmint/internal/mint/metrics"
	"sovmint/internal/mint/models"
	"sovmint/internal/mint/store"
	"sovmint/internal/oracle"
	"sovmint/internal/reserve"
	"sovmint/internal/settlement"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/platform/audit"
	"sovmint/pkg/platform/sentinel"
	"sovmint/pkg/requestcontext"
)

var tracer = otel.Tracer("sovmint/internal/mint")

var (
	ErrCoinNotFound = dErrors.New(dErrors.CodeNotFound, "sovereign coin not found")

	// ErrPlanPending rejects a second quote while one is still live.
	ErrPlanPending = dErrors.New(dErrors.CodeConflict, "a quoted mint plan is already pending")

	// ErrNoPlan rejects a commit with nothing quoted.
	ErrNoPlan = dErrors.New(dErrors.CodeNotFound, "no pending mint plan to commit")

	// ErrMintStateExpired rejects a commit whose quote window has closed.
	ErrMintStateExpired = dErrors.New(dErrors.CodeExpired, "mint plan expired")

	// ErrMintVerificationFailed means the minted balance did not match the
	// plan; the whole settlement is rolled back.
	ErrMintVerificationFailed = dErrors.New(dErrors.CodeVerificationFailed, "post-mint balance verification failed")

	ErrInsufficientBalance = dErrors.New(dErrors.CodeInsufficientBalance, "settlement balance too low for mint")
)

// Service coordinates mint quotes and commits.
type Service struct {
	coins     coinstore.Store
	plans     store.Store
	units     settlement.Runner
	desk      bonds.Desk
	converter oracle.Converter
	ttl       time.Duration

	publisher audit.Publisher
	metrics   *mintmetrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithAuditPublisher wires settlement audit events.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithMetrics wires mint metrics.
func WithMetrics(m *mintmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the mint service. ttl bounds the quote-to-commit
// window.
func NewService(coins coinstore.Store, plans store.Store, units settlement.Runner, desk bonds.Desk, converter oracle.Converter, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		coins:     coins,
		plans:     plans,
		units:     units,
		desk:      desk,
		converter: converter,
		ttl:       ttl,
		publisher: audit.NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) loadCoin(ctx context.Context, symbol id.CoinSymbol) (*coinmodels.SovereignCoin, error) {
	coin, err := s.coins.FindCoin(ctx, symbol)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrCoinNotFound
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load coin", err)
	}
	return coin, nil
}

// Quote prices a mint: it extracts the protocol fee, splits the remainder
// across the liquid reserve and bond tiers, converts the gross amount into
// coin units, and stores the resulting plan for the commit window. The fee
// comes out of the backing, not the minted units.
func (s *Service) Quote(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol, amount uint64) (*models.MintPlan, error) {
	ctx, span := tracer.Start(ctx, "mint.quote", trace.WithAttributes(
		attribute.String("coin.symbol", symbol.String()),
	))
	defer span.End()

	if amount == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}

	coin, err := s.loadCoin(ctx, symbol)
	if err != nil {
		return nil, err
	}
	factory, err := s.coins.FindFactory(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load factory", err)
	}

	net, fee, err := fees.ExtractFee(amount, factory.FeeBps)
	if err != nil {
		return nil, err
	}
	reserveAmount, bondAmount, err := reserve.Split(net, coin.RequiredReserveBps)
	if err != nil {
		return nil, err
	}
	sovereignAmount, err := s.converter.ToTarget(ctx, amount, coin.Currency, coin.Decimals)
	if err != nil {
		return nil, err
	}
	if sovereignAmount == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "amount too small to mint any coin units")
	}

	now := requestcontext.Now(ctx)
	plan := &models.MintPlan{
		ID:              id.NewPlanID(),
		Requester:       requester,
		Symbol:          symbol,
		Amount:          amount,
		ProtocolFee:     fee,
		ReserveAmount:   reserveAmount,
		BondAmount:      bondAmount,
		SovereignAmount: sovereignAmount,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.ttl),
	}
	if err := plan.Validate(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInvariantViolation, "mint plan accounting", err)
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, ErrPlanPending
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store mint plan", err)
	}

	s.metrics.IncrementQuotes()
	_ = s.publisher.Publish(ctx, audit.Event{
		Timestamp: now,
		Requester: requester,
		Symbol:    symbol,
		Plan:      plan.ID,
		Action:    string(audit.EventMintQuoted),
		Amount:    amount,
		Fee:       fee,
		RequestID: requestcontext.RequestID(ctx),
	})
	return plan, nil
}

// putBack restores a consumed plan after a failed settlement so the commit
// can be retried within the original window. Restore is best effort; if it
// fails, the requester re-quotes.
func (s *Service) putBack(ctx context.Context, plan *models.MintPlan) {
	if plan.Expired(requestcontext.Now(ctx)) {
		return
	}
	_ = s.plans.Create(ctx, plan)
}

// Commit consumes the pending plan and settles it atomically: reserve and
// fee move to their accounts, the bond tier is spent on bonds, the coin
// units are minted to the requester, and the coin's aggregates grow by the
// plan's tiers, all in one unit. A failed settlement puts the plan back so
// the commit can be retried within its window.
func (s *Service) Commit(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol) (*models.MintPlan, error) {
	ctx, span := tracer.Start(ctx, "mint.commit", trace.WithAttributes(
		attribute.String("coin.symbol", symbol.String()),
	))
	defer span.End()

	start := time.Now()
	now := requestcontext.Now(ctx)

	plan, err := s.plans.Consume(ctx, requester, symbol, now)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.IncrementCommit("failed")
			return nil, ErrNoPlan
		case errors.Is(err, sentinel.ErrExpired):
			s.metrics.IncrementCommit("expired")
			return nil, ErrMintStateExpired
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "consume mint plan", err)
	}

	coin, err := s.loadCoin(ctx, symbol)
	if err != nil {
		s.putBack(ctx, plan)
		return nil, err
	}

	user := ledger.UserAccount(requester)
	coinAsset := ledger.CoinAsset(symbol)

	err = s.units.InUnit(ctx, func(ctx context.Context, u settlement.Unit) error {
		before, err := u.Balance(ctx, user, coinAsset)
		if err != nil {
			return err
		}

		if err := u.Move(ctx, user, ledger.ReserveAccount(symbol), ledger.Settlement, plan.ReserveAmount); err != nil {
			return err
		}
		// The bond tier is paid out to the desk; the acquired units land in
		// the coin's holding account.
		if err := u.BurnFrom(ctx, user, ledger.Settlement, plan.BondAmount); err != nil {
			return err
		}
		bondUnits, err := s.desk.Purchase(ctx, coin.Bond, plan.BondAmount)
		if err != nil {
			return err
		}
		if err := u.MintTo(ctx, ledger.BondHoldingAccount(symbol), ledger.BondAsset(coin.Bond), bondUnits); err != nil {
			return err
		}
		if err := u.Move(ctx, user, ledger.VaultAccount(), ledger.Settlement, plan.ProtocolFee); err != nil {
			return err
		}
		if err := u.MintTo(ctx, user, coinAsset, plan.SovereignAmount); err != nil {
			return err
		}
		if err := u.ApplyMint(ctx, symbol, plan.SovereignAmount, plan.ReserveAmount, plan.BondAmount); err != nil {
			return err
		}

		after, err := u.Balance(ctx, user, coinAsset)
		if err != nil {
			return err
		}
		if after-before != plan.SovereignAmount {
			return ErrMintVerificationFailed
		}
		return nil
	})
	if err != nil {
		s.putBack(ctx, plan)
		switch {
		case errors.Is(err, sentinel.ErrInsufficientFunds):
			s.metrics.IncrementCommit("failed")
			return nil, ErrInsufficientBalance
		case errors.Is(err, ErrMintVerificationFailed):
			s.metrics.IncrementCommit("verification_failed")
			return nil, err
		}
		s.metrics.IncrementCommit("failed")
		return nil, dErrors.Wrap(dErrors.CodeInternal, "settle mint", err)
	}

	s.metrics.IncrementCommit("committed")
	s.metrics.ObserveCommitLatency(time.Since(start))
	_ = s.publisher.Publish(ctx, audit.Event{
		Timestamp: now,
		Requester: requester,
		Symbol:    symbol,
		Plan:      plan.ID,
		Action:    string(audit.EventMintCommitted),
		Amount:    plan.Amount,
		Fee:       plan.ProtocolFee,
		RequestID: requestcontext.RequestID(ctx),
	})
	return plan, nil
}

// SweepExpired removes expired plans; the server runs this periodically for
// stores without native expiry.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	return s.plans.DeleteExpired(ctx, requestcontext.Now(ctx))
}
