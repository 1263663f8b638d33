package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sovmint/internal/coin"
	"sovmint/internal/coin/models"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
	"sovmint/pkg/platform/httputil"
	"sovmint/pkg/requestcontext"
)

// Service defines the interface for coin operations.
type Service interface {
	CreateCoin(ctx context.Context, params coin.CreateCoinParams) (*models.SovereignCoin, error)
	GetCoin(ctx context.Context, symbol id.CoinSymbol) (*models.SovereignCoin, error)
	ListCoins(ctx context.Context) ([]*models.SovereignCoin, error)
	Factory(ctx context.Context) (*models.Factory, error)
	SetProtocolFee(ctx context.Context, feeBps id.Bips) (*models.Factory, error)
	AddBondMapping(ctx context.Context, mapping models.BondMapping) (*models.Factory, error)
	WithdrawProtocolFees(ctx context.Context, to id.RequesterID, amount uint64) error
}

// Handler wires coin and factory endpoints to the coin service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a coin handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public coin endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/coins", h.HandleListCoins)
	r.Get("/coins/{symbol}", h.HandleGetCoin)
}

// RegisterAdmin mounts the admin endpoints; the router guards them with the
// admin-token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/coins", h.HandleCreateCoin)
	r.Get("/factory", h.HandleGetFactory)
	r.Post("/factory/fee", h.HandleSetFee)
	r.Post("/factory/bond-mappings", h.HandleAddBondMapping)
	r.Post("/factory/withdraw", h.HandleWithdrawFees)
}

// HandleCreateCoin handles POST /admin/coins requests.
func (h *Handler) HandleCreateCoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateCoinRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.CreateCoin(ctx, coin.CreateCoinParams{
		Symbol:   req.ParsedSymbol(),
		Name:     req.Name,
		URI:      req.URI,
		Currency: req.ParsedCurrency(),
		Decimals: req.Decimals,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "coin creation failed",
			"request_id", requestID,
			"symbol", req.Symbol,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "coin created",
		"request_id", requestID,
		"symbol", created.Symbol,
		"currency", created.Currency,
		"required_reserve_bps", created.RequiredReserveBps,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromCoin(created))
}

// HandleGetCoin handles GET /coins/{symbol} requests.
func (h *Handler) HandleGetCoin(w http.ResponseWriter, r *http.Request) {
	symbol, err := id.ParseCoinSymbol(chi.URLParam(r, "symbol"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInvalidInput, "symbol", err))
		return
	}
	found, err := h.service.GetCoin(r.Context(), symbol)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCoin(found))
}

// HandleListCoins handles GET /coins requests.
func (h *Handler) HandleListCoins(w http.ResponseWriter, r *http.Request) {
	coins, err := h.service.ListCoins(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]*CoinResponse, 0, len(coins))
	for _, c := range coins {
		out = append(out, FromCoin(c))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleGetFactory handles GET /admin/factory requests.
func (h *Handler) HandleGetFactory(w http.ResponseWriter, r *http.Request) {
	factory, err := h.service.Factory(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromFactory(factory))
}

// HandleSetFee handles POST /admin/factory/fee requests.
func (h *Handler) HandleSetFee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SetFeeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	factory, err := h.service.SetProtocolFee(ctx, req.ParsedFee())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "protocol fee updated",
		"request_id", requestID,
		"fee_bps", req.FeeBps,
	)
	httputil.WriteJSON(w, http.StatusOK, FromFactory(factory))
}

// HandleAddBondMapping handles POST /admin/factory/bond-mappings requests.
func (h *Handler) HandleAddBondMapping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddBondMappingRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	factory, err := h.service.AddBondMapping(ctx, req.ParsedMapping())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "bond mapping added",
		"request_id", requestID,
		"currency", req.Currency,
		"bond", req.Bond,
		"rating", req.Rating,
	)
	httputil.WriteJSON(w, http.StatusOK, FromFactory(factory))
}

// HandleWithdrawFees handles POST /admin/factory/withdraw requests.
func (h *Handler) HandleWithdrawFees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[WithdrawFeesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.WithdrawProtocolFees(ctx, req.ParsedTo(), req.Amount); err != nil {
		h.logger.ErrorContext(ctx, "fee withdrawal failed",
			"request_id", requestID,
			"amount", req.Amount,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "protocol fees withdrawn",
		"request_id", requestID,
		"to", req.To,
		"amount", req.Amount,
	)
	w.WriteHeader(http.StatusNoContent)
}
