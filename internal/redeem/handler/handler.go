package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sovmint/internal/redeem"
	"sovmint/internal/redeem/models"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/platform/httputil"
	"sovmint/pkg/requestcontext"
)

// Service defines the interface for redeem operations.
type Service interface {
	Plan(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol, sovereignAmount uint64) (*models.RedeemPlan, error)
	Execute(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol, acceptDeferred bool) (*redeem.Receipt, error)
	ExecuteDeferred(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol) (*redeem.Receipt, error)
}

// Handler wires redeem endpoints to the redeem service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a redeem handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts redeem endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/redeem/plan", h.HandlePlan)
	r.Post("/redeem/commit", h.HandleCommit)
	r.Post("/redeem/commit/deferred", h.HandleCommitDeferred)
}

func requireRequester(w http.ResponseWriter, ctx context.Context) (id.RequesterID, bool) {
	requester := requestcontext.RequesterID(ctx)
	if requester.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.RequesterID{}, false
	}
	return requester, true
}

// HandlePlan handles POST /redeem/plan requests.
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	requester, ok := requireRequester(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PlanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan, err := h.service.Plan(ctx, requester, req.ParsedSymbol(), req.Amount)
	if err != nil {
		h.logger.ErrorContext(ctx, "redeem plan failed",
			"request_id", requestID,
			"requester", requester,
			"symbol", req.Symbol,
			"amount", req.Amount,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "redemption planned",
		"request_id", requestID,
		"requester", requester,
		"symbol", plan.Symbol,
		"sovereign_amount", plan.SovereignAmount,
		"path", plan.Path,
		"expires_at", plan.ExpiresAt,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromPlan(plan))
}

// HandleCommit handles POST /redeem/commit requests.
func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	h.commit(w, r, false)
}

// HandleCommitDeferred handles POST /redeem/commit/deferred requests. It
// skips the instant liquidation attempt and settles the bond tier straight
// to a claim receipt.
func (h *Handler) HandleCommitDeferred(w http.ResponseWriter, r *http.Request) {
	h.commit(w, r, true)
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request, deferred bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	requester, ok := requireRequester(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CommitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var receipt *redeem.Receipt
	var err error
	if deferred {
		receipt, err = h.service.ExecuteDeferred(ctx, requester, req.ParsedSymbol())
	} else {
		receipt, err = h.service.Execute(ctx, requester, req.ParsedSymbol(), req.AcceptDeferred)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "redeem commit failed",
			"request_id", requestID,
			"requester", requester,
			"symbol", req.Symbol,
			"deferred", deferred,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "redemption executed",
		"request_id", requestID,
		"requester", requester,
		"symbol", receipt.Plan.Symbol,
		"sovereign_amount", receipt.Plan.SovereignAmount,
		"path", receipt.Path,
		"paid", receipt.Paid,
	)
	httputil.WriteJSON(w, http.StatusOK, FromReceipt(receipt))
}
