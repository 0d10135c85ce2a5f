package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"reggate/pkg/platform/audit"
	"reggate/pkg/platform/audit/store/memory"
	"reggate/pkg/platform/audit/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmitStoresAndQueues(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	publisher := audit.NewPublisher(store, audit.WithLogger(discardLogger()))

	err := publisher.Emit(ctx, audit.Event{Action: audit.ActionDecision, Decision: "deny"})
	require.NoError(t, err)

	events, err := publisher.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, audit.ActionDecision, events[0].Action)
	require.False(t, events[0].Timestamp.IsZero())

	select {
	case queued := <-publisher.Queue():
		require.Equal(t, "deny", queued.Decision)
	default:
		t.Fatal("event was not queued for the sink")
	}
}

func TestEmitDropsSinkDeliveryWhenQueueFull(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	publisher := audit.NewPublisher(store,
		audit.WithLogger(discardLogger()), audit.WithQueueSize(1))

	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: audit.ActionInstanceAdded}))
	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: audit.ActionInstanceDeleted}))

	// Both land in the store even though only one fit the queue.
	events, err := publisher.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	publisher := audit.NewPublisher(store, audit.WithLogger(discardLogger()))

	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: "first"}))
	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: "second"}))

	events, err := publisher.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "second", events[0].Action)
}

type captureSink struct {
	events chan audit.Event
	err    error
}

func (s *captureSink) Publish(_ context.Context, event audit.Event) error {
	s.events <- event
	return s.err
}

func TestWorkerDeliversQueuedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.New()
	publisher := audit.NewPublisher(store, audit.WithLogger(discardLogger()))
	sink := &captureSink{events: make(chan audit.Event, 1)}

	w := worker.New(sink, publisher.Queue(), discardLogger())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: audit.ActionSettingsChanged}))

	delivered := <-sink.events
	require.Equal(t, audit.ActionSettingsChanged, delivered.Action)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWorkerSurvivesSinkFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.New()
	publisher := audit.NewPublisher(store, audit.WithLogger(discardLogger()))
	sink := &captureSink{events: make(chan audit.Event, 2), err: errors.New("broker down")}

	w := worker.New(sink, publisher.Queue(), discardLogger())
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: "first"}))
	require.NoError(t, publisher.Emit(ctx, audit.Event{Action: "second"}))

	// Delivery keeps going after a failed publish.
	<-sink.events
	second := <-sink.events
	require.Equal(t, "second", second.Action)
}
