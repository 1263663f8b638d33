// Package domainerrors defines the coded error type services return to the
// transport layer. Codes are stable wire identifiers; messages are free-form
// human context. Infrastructure layers return pkg/platform/sentinel errors
// instead, and services translate them into these.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, snake_case error identifier rendered on the wire.
type Code string

const (
	CodeBadRequest          Code = "bad_request"
	CodeInvalidInput        Code = "invalid_input"
	CodeUnauthorized        Code = "unauthorized"
	CodeForbidden           Code = "forbidden"
	CodeNotFound            Code = "not_found"
	CodeConflict            Code = "conflict"
	CodeExpired             Code = "expired"
	CodeInsufficientBalance Code = "insufficient_balance"
	CodeInvariantViolation  Code = "invariant_violation"
	CodeVerificationFailed  Code = "verification_failed"
	CodeUnavailable         Code = "unavailable"
	CodeInternal            Code = "internal_error"
)

// Error carries a code, a message, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New constructs a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs a coded error around an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// Is matches two coded errors by code, so sentinel-style comparisons of
// module-level error values work through wrapping.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code && (other.Message == "" || other.Message == e.Message)
}

// HasCode reports whether the error chain carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// for anything uncoded.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
