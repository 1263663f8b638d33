package handler

import (
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
)

// PlanRequest is the HTTP request body for POST /redeem/plan.
type PlanRequest struct {
	Symbol string `json:"symbol"`
	Amount uint64 `json:"amount"`

	parsedSymbol id.CoinSymbol
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *PlanRequest) Validate() error {
	symbol, err := id.ParseCoinSymbol(r.Symbol)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "symbol", err)
	}
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}
	r.parsedSymbol = symbol
	return nil
}

// ParsedSymbol returns the validated symbol.
func (r *PlanRequest) ParsedSymbol() id.CoinSymbol { return r.parsedSymbol }

// CommitRequest is the HTTP request body for POST /redeem/commit and
// POST /redeem/commit/deferred. AcceptDeferred lets a commit fall back to a
// claim receipt when the instant liquidation fails; the deferred endpoint
// ignores it and always issues a claim.
type CommitRequest struct {
	Symbol         string `json:"symbol"`
	AcceptDeferred bool   `json:"accept_deferred"`

	parsedSymbol id.CoinSymbol
}

// Validate validates and parses the request.
func (r *CommitRequest) Validate() error {
	symbol, err := id.ParseCoinSymbol(r.Symbol)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "symbol", err)
	}
	r.parsedSymbol = symbol
	return nil
}

// ParsedSymbol returns the validated symbol.
func (r *CommitRequest) ParsedSymbol() id.CoinSymbol { return r.parsedSymbol }
