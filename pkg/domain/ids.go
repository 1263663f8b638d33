// Package domain holds the shared domain primitives for the settlement
// service. Each type enforces validity at parse time so the rest of the
// codebase can treat a held value as proven-good.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// RequesterID identifies the party that owns a settlement plan and the
// balances it moves. Plans are keyed by (requester, coin) and only the
// creating requester may consume them.
type RequesterID uuid.UUID

// ParseRequesterID validates and returns a RequesterID.
func ParseRequesterID(s string) (RequesterID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return RequesterID{}, fmt.Errorf("invalid requester id: %w", err)
	}
	return RequesterID(u), nil
}

// NewRequesterID returns a fresh random requester ID.
func NewRequesterID() RequesterID {
	return RequesterID(uuid.New())
}

// String returns the canonical UUID form.
func (r RequesterID) String() string {
	return uuid.UUID(r).String()
}

// IsNil reports whether the ID is the zero value.
func (r RequesterID) IsNil() bool {
	return r == RequesterID{}
}

// MarshalText renders the canonical UUID form for JSON and map keys.
func (r RequesterID) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the canonical UUID form.
func (r *RequesterID) UnmarshalText(b []byte) error {
	parsed, err := ParseRequesterID(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// PlanID identifies a single ephemeral settlement plan.
type PlanID uuid.UUID

// NewPlanID returns a fresh random plan ID.
func NewPlanID() PlanID {
	return PlanID(uuid.New())
}

// ParsePlanID validates and returns a PlanID.
func ParsePlanID(s string) (PlanID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return PlanID{}, fmt.Errorf("invalid plan id: %w", err)
	}
	return PlanID(u), nil
}

// String returns the canonical UUID form.
func (p PlanID) String() string {
	return uuid.UUID(p).String()
}

// IsNil reports whether the ID is the zero value.
func (p PlanID) IsNil() bool {
	return p == PlanID{}
}

// MarshalText renders the canonical UUID form for JSON and map keys.
func (p PlanID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses the canonical UUID form.
func (p *PlanID) UnmarshalText(b []byte) error {
	parsed, err := ParsePlanID(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
