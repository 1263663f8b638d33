package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sovmint/internal/mint/models"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/platform/httputil"
	"sovmint/pkg/requestcontext"
)

// Service defines the interface for mint operations.
type Service interface {
	Quote(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol, amount uint64) (*models.MintPlan, error)
	Commit(ctx context.Context, requester id.RequesterID, symbol id.CoinSymbol) (*models.MintPlan, error)
}

// Handler wires mint endpoints to the mint service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a mint handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts mint endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/mint/quote", h.HandleQuote)
	r.Post("/mint/commit", h.HandleCommit)
}

func requireRequester(w http.ResponseWriter, ctx context.Context) (id.RequesterID, bool) {
	requester := requestcontext.RequesterID(ctx)
	if requester.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.RequesterID{}, false
	}
	return requester, true
}

// HandleQuote handles POST /mint/quote requests.
func (h *Handler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	requester, ok := requireRequester(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[QuoteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan, err := h.service.Quote(ctx, requester, req.ParsedSymbol(), req.Amount)
	if err != nil {
		h.logger.ErrorContext(ctx, "mint quote failed",
			"request_id", requestID,
			"requester", requester,
			"symbol", req.Symbol,
			"amount", req.Amount,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "mint quoted",
		"request_id", requestID,
		"requester", requester,
		"symbol", plan.Symbol,
		"amount", plan.Amount,
		"sovereign_amount", plan.SovereignAmount,
		"expires_at", plan.ExpiresAt,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromPlan(plan))
}

// HandleCommit handles POST /mint/commit requests.
func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
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

	plan, err := h.service.Commit(ctx, requester, req.ParsedSymbol())
	if err != nil {
		h.logger.ErrorContext(ctx, "mint commit failed",
			"request_id", requestID,
			"requester", requester,
			"symbol", req.Symbol,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "mint committed",
		"request_id", requestID,
		"requester", requester,
		"symbol", plan.Symbol,
		"amount", plan.Amount,
		"sovereign_amount", plan.SovereignAmount,
	)
	httputil.WriteJSON(w, http.StatusOK, FromPlan(plan))
}
