package handler

import (
	"strings"

	"sovmint/internal/coin/models"
	id "sovmint/pkg/domain"
	dErrors "sovmint/pkg/domain-errors"
)

// CreateCoinRequest is the HTTP request body for POST /coins.
type CreateCoinRequest struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	URI      string `json:"uri"`
	Currency string `json:"currency"`
	Decimals uint8  `json:"decimals"`

	parsedSymbol   id.CoinSymbol
	parsedCurrency id.CurrencyCode
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateCoinRequest) Validate() error {
	symbol, err := id.ParseCoinSymbol(r.Symbol)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "symbol", err)
	}
	r.parsedSymbol = symbol

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if len(r.Name) > id.MaxNameLen {
		return dErrors.Newf(dErrors.CodeInvalidInput, "name must be at most %d characters", id.MaxNameLen)
	}
	if len(r.URI) > id.MaxURILen {
		return dErrors.Newf(dErrors.CodeInvalidInput, "uri must be at most %d characters", id.MaxURILen)
	}

	currency, err := id.ParseCurrencyCode(r.Currency)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "currency", err)
	}
	r.parsedCurrency = currency

	if r.Decimals > models.MaxCoinDecimals {
		return dErrors.Newf(dErrors.CodeInvalidInput, "decimals must be at most %d", models.MaxCoinDecimals)
	}
	return nil
}

// ParsedSymbol returns the validated symbol.
func (r *CreateCoinRequest) ParsedSymbol() id.CoinSymbol { return r.parsedSymbol }

// ParsedCurrency returns the validated currency.
func (r *CreateCoinRequest) ParsedCurrency() id.CurrencyCode { return r.parsedCurrency }

// SetFeeRequest is the HTTP request body for POST /admin/factory/fee.
type SetFeeRequest struct {
	FeeBps uint16 `json:"fee_bps"`

	parsedFee id.Bips
}

// Validate validates and parses the request.
func (r *SetFeeRequest) Validate() error {
	fee, err := id.ParseBips(r.FeeBps)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "fee_bps", err)
	}
	if fee >= id.MaxBips {
		return dErrors.New(dErrors.CodeInvalidInput, "fee_bps must be below 100%")
	}
	r.parsedFee = fee
	return nil
}

// ParsedFee returns the validated fee.
func (r *SetFeeRequest) ParsedFee() id.Bips { return r.parsedFee }

// AddBondMappingRequest is the HTTP request body for
// POST /admin/factory/bond-mappings.
type AddBondMappingRequest struct {
	Currency string `json:"currency"`
	Bond     string `json:"bond"`
	Rating   uint8  `json:"rating"`

	parsed models.BondMapping
}

// Validate validates and parses the request.
func (r *AddBondMappingRequest) Validate() error {
	currency, err := id.ParseCurrencyCode(r.Currency)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "currency", err)
	}
	r.Bond = strings.TrimSpace(r.Bond)
	if r.Bond == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "bond is required")
	}
	rating, err := id.ParseBondRating(r.Rating)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "rating", err)
	}
	r.parsed = models.BondMapping{Currency: currency, Bond: id.BondID(r.Bond), Rating: rating}
	return nil
}

// ParsedMapping returns the validated mapping.
func (r *AddBondMappingRequest) ParsedMapping() models.BondMapping { return r.parsed }

// WithdrawFeesRequest is the HTTP request body for
// POST /admin/factory/withdraw.
type WithdrawFeesRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`

	parsedTo id.RequesterID
}

// Validate validates and parses the request.
func (r *WithdrawFeesRequest) Validate() error {
	to, err := id.ParseRequesterID(r.To)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "to", err)
	}
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}
	r.parsedTo = to
	return nil
}

// ParsedTo returns the validated destination requester.
func (r *WithdrawFeesRequest) ParsedTo() id.RequesterID { return r.parsedTo }
