// Package redeem implements the two-phase redemption settlement: a plan
// locks in the multi-tier sourcing waterfall for a bounded window, and an
// execution settles those exact terms or nothing. A bond-backed plan
// escalates from an instant liquidation to a deferred claim receipt when
// the requester accepts one.
package redeem

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
	"sovmint/internal/oracle"
	redeemmetrics "sovmint/internal/redeem/metrics"
	"sovmint/internal/redeem/models"
	"sovmint/internal/redeem/store"
	"sovmint/internal/settlement"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/platform/audit"
	"sovmint/pkg/platform/sentinel"
	"sovmint/pkg/requestcontext"
	"sovmint/pkg/safemath"
)

var tracer = otel.Tracer("sovmint/internal/redeem")

var (
	ErrCoinNotFound = dErrors.New(dErrors.CodeNotFound, "sovereign coin not found")

	// ErrPlanPending rejects a second plan while one is still live.
	ErrPlanPending = dErrors.New(dErrors.CodeConflict, "a planned redemption is already pending")

	// ErrNoPlan rejects an execution with nothing planned.
	ErrNoPlan = dErrors.New(dErrors.CodeNotFound, "no pending redeem plan to execute")

	// ErrRedeemStateExpired rejects an execution whose plan window has
	// closed.
	ErrRedeemStateExpired = dErrors.New(dErrors.CodeExpired, "redeem plan expired")

	ErrInsufficientBalance = dErrors.New(dErrors.CodeInsufficientBalance, "coin balance too low for redemption")

	// ErrInstantRedemptionFailed means the instant liquidation failed and
	// the requester did not accept a deferred claim; nothing settled, the
	// plan survives, and the requester retries via the deferred path.
	ErrInstantRedemptionFailed = dErrors.New(dErrors.CodeUnavailable, "instant bond liquidation failed; retry accepting a deferred claim")

	// ErrPlanPathMismatch rejects the deferred entry point for a plan whose
	// declared path carries no pending bond tier.
	ErrPlanPathMismatch = dErrors.New(dErrors.CodeConflict, "plan path has no pending bond tier to defer")

	// ErrRedemptionVerificationFailed means the burned balance did not
	// match the plan; the whole settlement is rolled back.
	ErrRedemptionVerificationFailed = dErrors.New(dErrors.CodeVerificationFailed, "post-redemption balance verification failed")

	// ErrInsufficientRedemptionPayout means the requester's settlement
	// balance would have decreased; the whole settlement is rolled back.
	ErrInsufficientRedemptionPayout = dErrors.New(dErrors.CodeVerificationFailed, "redemption payout fell short of the plan")
)

// Receipt reports a settled redemption: the consumed plan, the path it
// resolved to, and the settlement-asset amount actually delivered. Paid can
// differ from the plan's settlement amount on the instant path, where the
// liquidation proceeds follow external pricing, and excludes the bond tier
// entirely on the deferred path.
type Receipt struct {
	Plan *models.RedeemPlan
	Path models.Path
	Paid uint64
}

// Service coordinates redemption plans and executions.
type Service struct {
	coins     coinstore.Store
	plans     store.Store
	ledger    ledger.Store
	units     settlement.Runner
	desk      bonds.Desk
	converter oracle.Converter
	ttl       time.Duration

	publisher audit.Publisher
	metrics   *redeemmetrics.Metrics
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

// WithMetrics wires redeem metrics.
func WithMetrics(m *redeemmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the redeem service. ttl bounds the plan-to-execute
// window.
func NewService(coins coinstore.Store, plans store.Store, lg ledger.Store, units settlement.Runner, desk bonds.Desk, converter oracle.Converter, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		coins:     coins,
		plans:     plans,
		ledger:    lg,
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

// Plan prices a redemption and runs the sourcing waterfall. The requester's
// pro-rata share of the liquid reserve is drawn first, then the protocol
// vault, and any remainder is assigned to a bond liquidation whose instant
// or deferred outcome is decided at execution time. The resulting plan is
// stored for the execution window; no funds move.
func (s *Service) Plan(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol, sovereignAmount uint64) (*models.RedeemPlan, error) {
	ctx, span := tracer.Start(ctx, "redeem.plan", trace.WithAttributes(
		attribute.String("coin.symbol", symbol.String()),
	))
	defer span.End()

	if sovereignAmount == 0 {
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

	balance, err := s.ledger.Balance(ctx, ledger.UserAccount(requester), ledger.CoinAsset(symbol))
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load coin balance", err)
	}
	if sovereignAmount > balance {
		return nil, ErrInsufficientBalance
	}

	gross, err := s.converter.ToSettlement(ctx, sovereignAmount, coin.Currency, coin.Decimals)
	if err != nil {
		return nil, err
	}
	if gross == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "amount too small to redeem any settlement units")
	}
	net, fee, err := fees.ExtractFee(gross, factory.FeeBps)
	if err != nil {
		return nil, err
	}

	// The reserve tier is capped at the requester's pro-rata share of the
	// liquid reserve, so one large redemption cannot drain the backing of
	// every other holder.
	userShare, err := safemath.MulDiv(balance, coin.LiquidReserve, coin.TotalSupply)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInvariantViolation, "reserve share computation", err)
	}
	fromReserve := safemath.Min(net, userShare)
	remainder := net - fromReserve

	vaultBalance, err := s.ledger.Balance(ctx, ledger.VaultAccount(), ledger.Settlement)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load vault balance", err)
	}
	fromVault := safemath.Min(remainder, vaultBalance)
	fromBond := remainder - fromVault

	path := models.PathReserveOnly
	var bondUnits uint64
	switch {
	case fromBond > 0:
		path = models.PathPendingBondLiquidation
		bondUnits, err = s.converter.BondEquivalent(ctx, fromBond, coin.Bond, coin.Decimals)
		if err != nil {
			return nil, err
		}
		if bondUnits == 0 {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "bond tier too small to liquidate any bond units")
		}
	case fromVault > 0:
		path = models.PathReserveAndProtocol
	}

	now := requestcontext.Now(ctx)
	plan := &models.RedeemPlan{
		ID:                  id.NewPlanID(),
		Requester:           requester,
		Symbol:              symbol,
		SovereignAmount:     sovereignAmount,
		SettlementAmount:    net,
		ProtocolFee:         fee,
		FromLiquidReserve:   fromReserve,
		FromProtocolVault:   fromVault,
		FromBondLiquidation: fromBond,
		BondUnits:           bondUnits,
		Path:                path,
		CreatedAt:           now,
		ExpiresAt:           now.Add(s.ttl),
	}
	if err := plan.Validate(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInvariantViolation, "redeem plan accounting", err)
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, ErrPlanPending
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store redeem plan", err)
	}

	s.metrics.IncrementPlans(string(path))
	_ = s.publisher.Publish(ctx, audit.Event{
		Timestamp: now,
		Requester: requester,
		Symbol:    symbol,
		Plan:      plan.ID,
		Action:    string(audit.EventRedemptionPlanned),
		Path:      string(path),
		Amount:    net,
		Fee:       fee,
		RequestID: requestcontext.RequestID(ctx),
	})
	return plan, nil
}

// Execute consumes the pending plan and settles it atomically. The coin
// units burn first; the reserve and vault tiers pay out next; a bond tier
// attempts an instant liquidation and, when that fails, falls back to a
// deferred claim if acceptDeferred is set. A failed settlement puts the
// plan back so the execution can be retried within its window.
func (s *Service) Execute(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol, acceptDeferred bool) (*Receipt, error) {
	return s.execute(ctx, requester, symbol, true, acceptDeferred)
}

// ExecuteDeferred settles a bond-backed plan straight to a deferred claim,
// skipping the instant attempt. It exists for requesters who already know
// the instant path is down, typically after Execute failed with
// ErrInstantRedemptionFailed.
func (s *Service) ExecuteDeferred(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol) (*Receipt, error) {
	return s.execute(ctx, requester, symbol, false, true)
}

// putBack restores a consumed plan after a failed settlement so the
// execution can be retried within the original window. Restore is best
// effort; if it fails, the requester re-plans.
func (s *Service) putBack(ctx context.Context, plan *models.RedeemPlan) {
	if plan.Expired(requestcontext.Now(ctx)) {
		return
	}
	_ = s.plans.Create(ctx, plan)
}

func (s *Service) execute(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol, attemptInstant, acceptDeferred bool) (*Receipt, error) {
	ctx, span := tracer.Start(ctx, "redeem.execute", trace.WithAttributes(
		attribute.String("coin.symbol", symbol.String()),
		attribute.Bool("redeem.accept_deferred", acceptDeferred),
	))
	defer span.End()

	start := time.Now()
	now := requestcontext.Now(ctx)

	plan, err := s.plans.Consume(ctx, requester, symbol, now)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.IncrementExecution("none", "failed")
			return nil, ErrNoPlan
		case errors.Is(err, sentinel.ErrExpired):
			s.metrics.IncrementExecution("none", "expired")
			return nil, ErrRedeemStateExpired
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "consume redeem plan", err)
	}

	// The plan's declared path gates which entry point may consume it: the
	// deferred entry point only fits a pending bond tier.
	if !attemptInstant && plan.Path != models.PathPendingBondLiquidation {
		s.putBack(ctx, plan)
		s.metrics.IncrementExecution(string(plan.Path), "failed")
		return nil, ErrPlanPathMismatch
	}

	coin, err := s.loadCoin(ctx, symbol)
	if err != nil {
		s.putBack(ctx, plan)
		return nil, err
	}

	user := ledger.UserAccount(requester)
	coinAsset := ledger.CoinAsset(symbol)
	path := plan.Path
	var paid uint64

	err = s.units.InUnit(ctx, func(ctx context.Context, u settlement.Unit) error {
		coinBefore, err := u.Balance(ctx, user, coinAsset)
		if err != nil {
			return err
		}
		settleBefore, err := u.Balance(ctx, user, ledger.Settlement)
		if err != nil {
			return err
		}

		// Burn first. A later failure discards the whole unit, so the burn
		// only sticks when the payout settles.
		if err := u.BurnFrom(ctx, user, coinAsset, plan.SovereignAmount); err != nil {
			return err
		}

		if plan.FromLiquidReserve > 0 {
			if err := u.Move(ctx, ledger.ReserveAccount(symbol), user, ledger.Settlement, plan.FromLiquidReserve); err != nil {
				return err
			}
		}
		if plan.FromProtocolVault > 0 {
			if err := u.Move(ctx, ledger.VaultAccount(), user, ledger.Settlement, plan.FromProtocolVault); err != nil {
				return err
			}
			// The vault draw-down is matched by handing its bond equivalent
			// to the protocol's own book; the coin's collateral aggregate is
			// untouched because ownership moves, not value.
			vaultBondUnits, err := s.converter.BondEquivalent(ctx, plan.FromProtocolVault, coin.Bond, coin.Decimals)
			if err != nil {
				return err
			}
			if vaultBondUnits > 0 {
				if err := u.Move(ctx, ledger.BondHoldingAccount(symbol), ledger.ProtocolBondAccount(), ledger.BondAsset(coin.Bond), vaultBondUnits); err != nil {
					return err
				}
			}
		}

		if plan.FromBondLiquidation > 0 {
			resolved, err := s.settleBondTier(ctx, u, plan, coin, user, attemptInstant, acceptDeferred)
			if err != nil {
				return err
			}
			path = resolved
		}

		// The collateral aggregate only shrinks when the bond tier was
		// liquidated or claimed; reserve-backed paths leave it alone, and
		// the vault-matching transfer above moved ownership without
		// consuming it. An aggregate underflow means the plan went stale
		// against a racing settlement, and discards the whole unit.
		var bondDelta uint64
		if path == models.PathInstantBondRedemption || path == models.PathDeferredClaim {
			bondDelta = plan.FromBondLiquidation
		}
		if err := u.ApplyRedeem(ctx, symbol, plan.SovereignAmount, plan.FromLiquidReserve, bondDelta); err != nil {
			return err
		}

		coinAfter, err := u.Balance(ctx, user, coinAsset)
		if err != nil {
			return err
		}
		if coinBefore-coinAfter != plan.SovereignAmount {
			return ErrRedemptionVerificationFailed
		}
		settleAfter, err := u.Balance(ctx, user, ledger.Settlement)
		if err != nil {
			return err
		}
		if settleAfter < settleBefore {
			return ErrInsufficientRedemptionPayout
		}
		paid = settleAfter - settleBefore
		return nil
	})
	if err != nil {
		s.putBack(ctx, plan)
		switch {
		case errors.Is(err, sentinel.ErrInsufficientFunds):
			s.metrics.IncrementExecution(string(plan.Path), "failed")
			return nil, ErrInsufficientBalance
		case errors.Is(err, ErrInstantRedemptionFailed):
			s.metrics.IncrementExecution(string(plan.Path), "instant_failed")
			return nil, err
		case errors.Is(err, ErrRedemptionVerificationFailed), errors.Is(err, ErrInsufficientRedemptionPayout):
			s.metrics.IncrementExecution(string(plan.Path), "verification_failed")
			return nil, err
		case errors.Is(err, bonds.ErrDeskUnavailable):
			s.metrics.IncrementExecution(string(plan.Path), "failed")
			return nil, err
		}
		s.metrics.IncrementExecution(string(plan.Path), "failed")
		return nil, dErrors.Wrap(dErrors.CodeInternal, "settle redemption", err)
	}

	action := audit.EventRedemptionExecuted
	if path == models.PathDeferredClaim {
		action = audit.EventRedemptionDeferred
	}
	s.metrics.IncrementExecution(string(path), "executed")
	s.metrics.ObserveExecutionLatency(time.Since(start))
	_ = s.publisher.Publish(ctx, audit.Event{
		Timestamp: now,
		Requester: requester,
		Symbol:    symbol,
		Plan:      plan.ID,
		Action:    string(action),
		Path:      string(path),
		Amount:    paid,
		Fee:       plan.ProtocolFee,
		RequestID: requestcontext.RequestID(ctx),
	})
	return &Receipt{Plan: plan, Path: path, Paid: paid}, nil
}

// settleBondTier resolves the pending bond tier to an instant liquidation
// or a deferred claim and returns the path taken.
func (s *Service) settleBondTier(ctx context.Context, l ledger.Ledger, plan *models.RedeemPlan, coin *coinmodels.SovereignCoin, user ledger.Account, attemptInstant, acceptDeferred bool) (models.Path, error) {
	holding := ledger.BondHoldingAccount(plan.Symbol)
	bondAsset := ledger.BondAsset(coin.Bond)

	if attemptInstant {
		proceeds, err := s.desk.InstantLiquidate(ctx, coin.Bond, plan.BondUnits)
		if err == nil && proceeds > 0 {
			if err := l.BurnFrom(ctx, holding, bondAsset, plan.BondUnits); err != nil {
				return "", err
			}
			// The proceeds land in a staging account and the observed delta
			// is what moves on; external pricing decides the amount, not
			// the plan.
			staging := ledger.StagingAccount(plan.Symbol)
			stagedBefore, err := l.Balance(ctx, staging, ledger.Settlement)
			if err != nil {
				return "", err
			}
			if err := l.MintTo(ctx, staging, ledger.Settlement, proceeds); err != nil {
				return "", err
			}
			stagedAfter, err := l.Balance(ctx, staging, ledger.Settlement)
			if err != nil {
				return "", err
			}
			if err := l.Move(ctx, staging, user, ledger.Settlement, stagedAfter-stagedBefore); err != nil {
				return "", err
			}
			return models.PathInstantBondRedemption, nil
		}
		if !acceptDeferred {
			return "", ErrInstantRedemptionFailed
		}
	}

	if err := l.BurnFrom(ctx, holding, bondAsset, plan.BondUnits); err != nil {
		return "", err
	}
	if err := s.desk.IssueDeferredClaim(ctx, bonds.DeferredClaim{
		ID:        plan.ID,
		Claimant:  plan.Requester,
		Symbol:    plan.Symbol,
		Bond:      coin.Bond,
		BondUnits: plan.BondUnits,
		CreatedAt: requestcontext.Now(ctx),
	}); err != nil {
		return "", err
	}
	// The claim receipt carries the unpaid bond tier at face value; the
	// requester settles it with the desk out of band.
	if err := l.MintTo(ctx, user, ledger.ClaimAsset(plan.Symbol), plan.FromBondLiquidation); err != nil {
		return "", err
	}
	return models.PathDeferredClaim, nil
}

// SweepExpired removes expired plans; the server runs this periodically for
// stores without native expiry.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	return s.plans.DeleteExpired(ctx, requestcontext.Now(ctx))
}
