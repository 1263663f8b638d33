package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sovmint/internal/exchange"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/platform/httputil"
	"sovmint/pkg/requestcontext"
)

// Service defines the interface for exchange previews.
type Service interface {
	Preview(ctx context.Context, symbol id.CoinSymbol, settlementAmount, sovereignAmount *uint64) (*exchange.Preview, error)
}

// Handler wires the exchange preview endpoint to the exchange service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an exchange handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts exchange endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/exchange/preview", h.HandlePreview)
}

func amountParam(r *http.Request, name string) (*uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be an unsigned integer", name)
	}
	return &value, nil
}

// HandlePreview handles GET /exchange/preview requests.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	symbol, err := id.ParseCoinSymbol(r.URL.Query().Get("symbol"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInvalidInput, "symbol", err))
		return
	}
	settlementAmount, err := amountParam(r, "settlement_amount")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sovereignAmount, err := amountParam(r, "sovereign_amount")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	preview, err := h.service.Preview(ctx, symbol, settlementAmount, sovereignAmount)
	if err != nil {
		h.logger.ErrorContext(ctx, "exchange preview failed",
			"request_id", requestID,
			"symbol", symbol,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, preview)
}
