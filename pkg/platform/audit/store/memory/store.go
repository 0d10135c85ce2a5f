package memory

import (
	"context"
	"sync"

	"reggate/pkg/platform/audit"
)

// Store keeps audit events in memory, newest last. For tests and
// deployments without PostgreSQL.
type Store struct {
	mu     sync.RWMutex
	events []audit.Event
}

// New returns an empty in-memory audit store.
func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Store) List(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	// Newest first.
	out := make([]audit.Event, 0, n)
	for i := len(s.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
