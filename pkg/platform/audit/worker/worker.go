// Package worker drains the audit publisher's queue into an out-of-process
// sink. It keeps background delivery testable without wiring a broker.
package worker

import (
	"context"
	"log/slog"

	"reggate/pkg/platform/audit"
)

// Worker consumes audit events from a channel and delivers them to a sink.
type Worker struct {
	sink   audit.Sink
	inbox  <-chan audit.Event
	logger *slog.Logger
}

// New constructs a worker. Delivery failures are logged, not retried; the
// store copy written by the publisher remains the durable record.
func New(sink audit.Sink, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run delivers events until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit sink delivery failed",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
