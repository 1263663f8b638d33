package audit

import (
	"context"
	"log/slog"
)

// Publisher delivers audit events to the pipeline. Emission never blocks a
// settlement; a full pipeline drops the event and logs it.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// ChannelPublisher hands events to a buffered channel drained by a Worker.
type ChannelPublisher struct {
	events chan Event
	logger *slog.Logger
}

// NewChannelPublisher creates a publisher with the given buffer size.
func NewChannelPublisher(buffer int, logger *slog.Logger) *ChannelPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &ChannelPublisher{
		events: make(chan Event, buffer),
		logger: logger,
	}
}

// Events exposes the channel for the draining worker.
func (p *ChannelPublisher) Events() <-chan Event {
	return p.events
}

func (p *ChannelPublisher) Publish(ctx context.Context, event Event) error {
	select {
	case p.events <- event:
	default:
		p.logger.WarnContext(ctx, "audit pipeline full, dropping event",
			"action", event.Action,
			"symbol", event.Symbol,
		)
	}
	return nil
}

// NopPublisher discards events; used when no audit sink is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Fanout publishes every event to each sink in order. Sinks follow the
// Publisher contract of never blocking a settlement, so errors are theirs
// to log and Fanout ignores them.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	for _, p := range f {
		_ = p.Publish(ctx, event)
	}
	return nil
}
