// Package postgres persists audit events in PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	audit "sovmint/pkg/platform/audit"
)

// Store appends audit events to the settlement_audit_events table. The
// table is append-only; retention is handled out of band per category.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL audit store over a pgx pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const insertEvent = `
INSERT INTO settlement_audit_events (
    id, category, occurred_at, requester_id, symbol, plan_id,
    action, path, amount, fee, reason, request_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}
	occurredAt := event.Timestamp
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	var requester any
	if !event.Requester.IsNil() {
		requester = event.Requester.String()
	}
	var plan any
	if !event.Plan.IsNil() {
		plan = event.Plan.String()
	}

	_, err := s.pool.Exec(ctx, insertEvent,
		uuid.New().String(),
		string(category),
		occurredAt,
		requester,
		event.Symbol.String(),
		plan,
		event.Action,
		event.Path,
		int64(event.Amount),
		int64(event.Fee),
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
