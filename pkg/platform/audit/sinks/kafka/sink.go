// Package kafka adapts the platform Kafka producer to the audit.Sink
// contract.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	platformkafka "reggate/internal/platform/kafka"
	"reggate/pkg/platform/audit"
)

// Sink publishes audit events to the audit topic, keyed by action so
// consumers can partition by event kind.
type Sink struct {
	producer *platformkafka.Producer
}

// New wraps a producer. Returns nil if the producer is nil (Kafka disabled).
func New(producer *platformkafka.Producer) *Sink {
	if producer == nil {
		return nil
	}
	return &Sink{producer: producer}
}

func (s *Sink) Publish(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.producer.Publish(ctx, event.Action, payload)
}
