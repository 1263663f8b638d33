package handler

import (
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
)

// QuoteRequest is the HTTP request body for POST /mint/quote.
type QuoteRequest struct {
	Symbol string `json:"symbol"`
	Amount uint64 `json:"amount"`

	parsedSymbol id.CoinSymbol
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *QuoteRequest) Validate() error {
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
func (r *QuoteRequest) ParsedSymbol() id.CoinSymbol { return r.parsedSymbol }

// CommitRequest is the HTTP request body for POST /mint/commit.
type CommitRequest struct {
	Symbol string `json:"symbol"`

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
