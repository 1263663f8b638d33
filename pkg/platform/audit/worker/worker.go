// Package worker drains the audit channel into a store.
package worker

import (
	"context"

	audit "sovmint/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. It keeps
// background processing testable without wiring queue implementations into
// services.
type Worker struct {
	store audit.Store
	inbox <-chan audit.Event
}

func NewWorker(store audit.Store, inbox <-chan audit.Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			// A store failure stops the worker; compliance events must not
			// be dropped silently.
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
