// Package httptransport composes the HTTP surface: public settlement
// routes behind requester auth, admin routes behind the admin token, and
// the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coinhandler "sovmint/internal/coin/handler"
	exchangehandler "sovmint/internal/exchange/handler"
	minthandler "sovmint/internal/mint/handler"
	redeemhandler "sovmint/internal/redeem/handler"
	"sovmint/pkg/platform/middleware/admin"
	"sovmint/pkg/platform/middleware/auth"
	"sovmint/pkg/platform/middleware/request"
)

// Handlers collects the per-module HTTP handlers the router mounts.
type Handlers struct {
	Coins    *coinhandler.Handler
	Mint     *minthandler.Handler
	Redeem   *redeemhandler.Handler
	Exchange *exchangehandler.Handler
}

// Options carries the router's cross-cutting configuration.
type Options struct {
	JWTSigningKey []byte
	AdminToken    string
	Logger        *slog.Logger
}

// NewRouter wires all endpoints. Coin listings and exchange previews are
// public reads; settlement routes require a requester token; factory
// mutations require the admin token on top.
func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(request.WithRequestID)
	r.Use(request.WithRequestTime)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		h.Coins.Register(r)
		h.Exchange.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRequester(opts.JWTSigningKey, opts.Logger))
		h.Mint.Register(r)
		h.Redeem.Register(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(admin.RequireAdminToken(opts.AdminToken, opts.Logger))
		h.Coins.RegisterAdmin(r)
	})

	return r
}
