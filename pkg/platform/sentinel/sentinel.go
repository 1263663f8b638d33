package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the ledger return
// these (optionally wrapped) so services can translate them into coded
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrExpired: plan has outlived its TTL
// - ErrAlreadyUsed: plan already consumed by a prior commit
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrInsufficientFunds: a transfer primitive rejected the move
// - ErrUnavailable: downstream collaborator temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrExpired           = errors.New("expired")
	ErrAlreadyUsed       = errors.New("already used")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnavailable       = errors.New("unavailable")
)
