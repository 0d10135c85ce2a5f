package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher appends events to the local store and hands them to the sink
// worker queue when a sink is configured. Emitting never blocks the caller:
// a full queue drops the sink delivery (the store copy is already durable)
// and logs a warning.
type Publisher struct {
	store  Store
	queue  chan Event
	logger *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithQueueSize overrides the sink queue capacity.
func WithQueueSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n > 0 {
			p.queue = make(chan Event, n)
		}
	}
}

// NewPublisher constructs a publisher over the given store.
func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		queue:  make(chan Event, 256),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records the event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}

	select {
	case p.queue <- event:
	default:
		p.logger.WarnContext(ctx, "audit sink queue full, dropping sink delivery",
			"action", event.Action,
		)
	}
	return nil
}

// Queue exposes the sink delivery channel for the worker.
func (p *Publisher) Queue() <-chan Event {
	return p.queue
}

// List returns recent events from the store.
func (p *Publisher) List(ctx context.Context, limit int) ([]Event, error) {
	return p.store.List(ctx, limit)
}
