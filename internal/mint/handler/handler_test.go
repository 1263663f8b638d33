package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"sovmint/internal/mint"
	"sovmint/internal/mint/handler"
	"sovmint/internal/mint/models"
	id "sovmint/pkg/domain"
	"sovmint/pkg/requestcontext"
)

type stubService struct {
	plan *models.MintPlan
	err  error

	gotRequester id.RequesterID
	gotSymbol    id.CoinSymbol
	gotAmount    uint64
}

func (s *stubService) Quote(_ context.Context, requester id.RequesterID, symbol id.CoinSymbol, amount uint64) (*models.MintPlan, error) {
	s.gotRequester, s.gotSymbol, s.gotAmount = requester, symbol, amount
	return s.plan, s.err
}

func (s *stubService) Commit(_ context.Context, requester id.RequesterID, symbol id.CoinSymbol) (*models.MintPlan, error) {
	s.gotRequester, s.gotSymbol = requester, symbol
	return s.plan, s.err
}

type MintHandlerSuite struct {
	suite.Suite
	service   *stubService
	router    chi.Router
	requester id.RequesterID
	plan      *models.MintPlan
}

func TestMintHandlerSuite(t *testing.T) {
	suite.Run(t, new(MintHandlerSuite))
}

func (s *MintHandlerSuite) SetupTest() {
	s.requester = id.NewRequesterID()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.plan = &models.MintPlan{
		ID:              id.NewPlanID(),
		Requester:       s.requester,
		Symbol:          "USDS",
		Amount:          1_000_000,
		ProtocolFee:     5_000,
		ReserveAmount:   298_500,
		BondAmount:      696_500,
		SovereignAmount: 1_000_000,
		CreatedAt:       now,
		ExpiresAt:       now.Add(5 * time.Minute),
	}
	s.service = &stubService{plan: s.plan}

	h := handler.New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *MintHandlerSuite) do(path string, body any, authenticated bool) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req = req.WithContext(requestcontext.WithRequesterID(req.Context(), s.requester))
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *MintHandlerSuite) TestQuote() {
	rec := s.do("/mint/quote", map[string]any{"symbol": "USDS", "amount": 1_000_000}, true)

	s.Equal(http.StatusCreated, rec.Code)
	s.Equal(s.requester, s.service.gotRequester)
	s.Equal(id.CoinSymbol("USDS"), s.service.gotSymbol)
	s.Equal(uint64(1_000_000), s.service.gotAmount)

	var resp handler.PlanResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(s.plan.ID.String(), resp.ID)
	s.Equal(uint64(5_000), resp.ProtocolFee)
	s.Equal(uint64(1_000_000), resp.SovereignAmount)
}

func (s *MintHandlerSuite) TestQuoteRequiresAuthentication() {
	rec := s.do("/mint/quote", map[string]any{"symbol": "USDS", "amount": 100}, false)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *MintHandlerSuite) TestQuoteRejectsZeroAmount() {
	rec := s.do("/mint/quote", map[string]any{"symbol": "USDS", "amount": 0}, true)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *MintHandlerSuite) TestQuoteRejectsBadSymbol() {
	rec := s.do("/mint/quote", map[string]any{"symbol": "toolongsymbol", "amount": 100}, true)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *MintHandlerSuite) TestQuoteConflictWhilePending() {
	s.service.plan, s.service.err = nil, mint.ErrPlanPending

	rec := s.do("/mint/quote", map[string]any{"symbol": "USDS", "amount": 100}, true)

	s.Equal(http.StatusConflict, rec.Code)
}

func (s *MintHandlerSuite) TestCommit() {
	rec := s.do("/mint/commit", map[string]any{"symbol": "USDS"}, true)

	s.Equal(http.StatusOK, rec.Code)

	var resp handler.PlanResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(uint64(1_000_000), resp.Amount)
}

func (s *MintHandlerSuite) TestCommitWithoutPlan() {
	s.service.plan, s.service.err = nil, mint.ErrNoPlan

	rec := s.do("/mint/commit", map[string]any{"symbol": "USDS"}, true)

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *MintHandlerSuite) TestCommitExpiredPlan() {
	s.service.plan, s.service.err = nil, mint.ErrMintStateExpired

	rec := s.do("/mint/commit", map[string]any{"symbol": "USDS"}, true)

	s.Equal(http.StatusGone, rec.Code)
}
