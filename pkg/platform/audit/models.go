// Package audit captures settlement actions for compliance and operational
// visibility. Events are emitted from domain logic, carried over a channel,
// and fanned out to stores and sinks.
package audit

import (
	"time"

	id "sovmint/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events that move value: mints, redemptions,
	// fee withdrawals. These require durable storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers quotes, plans, and policy changes. These can
	// be sampled or aggregated with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key settlement actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	Requester id.RequesterID
	Symbol    id.CoinSymbol
	Plan      id.PlanID
	Action    string
	// Path is the redemption path taken, when relevant.
	Path string
	// Amount is the settlement-asset amount the action moved or quoted.
	Amount uint64
	Fee    uint64
	Reason string
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string
}

type AuditEvent string

const (
	// Coin lifecycle events
	EventCoinCreated AuditEvent = "coin_created"

	// Mint events
	EventMintQuoted    AuditEvent = "mint_quoted"
	EventMintCommitted AuditEvent = "mint_committed"

	// Redemption events
	EventRedemptionPlanned  AuditEvent = "redemption_planned"
	EventRedemptionExecuted AuditEvent = "redemption_executed"
	EventRedemptionDeferred AuditEvent = "redemption_deferred"

	// Factory policy events
	EventPolicyChanged AuditEvent = "policy_changed"
	EventFeesWithdrawn AuditEvent = "fees_withdrawn"
)

// eventCategories maps each audit event to its category. Events that move
// value are compliance; the rest are operational.
var eventCategories = map[AuditEvent]EventCategory{
	EventMintCommitted:      CategoryCompliance,
	EventRedemptionExecuted: CategoryCompliance,
	EventRedemptionDeferred: CategoryCompliance,
	EventFeesWithdrawn:      CategoryCompliance,

	EventCoinCreated:       CategoryOperations,
	EventMintQuoted:        CategoryOperations,
	EventRedemptionPlanned: CategoryOperations,
	EventPolicyChanged:     CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
