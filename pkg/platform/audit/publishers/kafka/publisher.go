// Package kafka publishes audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "sovmint/pkg/platform/audit"
)

// Publisher produces audit events to a Kafka topic, keyed by coin symbol so
// one coin's settlement history stays ordered within a partition.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// New creates a Kafka publisher. The caller owns the client's lifecycle.
func New(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProduceRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Publisher{client: client, topic: topic, logger: logger}, nil
}

// wirePayload is the JSON structure written to the topic.
type wirePayload struct {
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	Requester string `json:"requester,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Plan      string `json:"plan,omitempty"`
	Action    string `json:"action"`
	Path      string `json:"path,omitempty"`
	Amount    uint64 `json:"amount"`
	Fee       uint64 `json:"fee,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (p *Publisher) Publish(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}
	payload := wirePayload{
		Category:  string(category),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		Symbol:    event.Symbol.String(),
		Action:    event.Action,
		Path:      event.Path,
		Amount:    event.Amount,
		Fee:       event.Fee,
		Reason:    event.Reason,
		RequestID: event.RequestID,
	}
	if !event.Requester.IsNil() {
		payload.Requester = event.Requester.String()
	}
	if !event.Plan.IsNil() {
		payload.Plan = event.Plan.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Symbol.String()),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("audit event publish failed",
				"action", event.Action,
				"symbol", event.Symbol,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes pending records and releases the client.
func (p *Publisher) Close(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	p.client.Close()
	return nil
}
