package store

import (
	"context"
	"sort"
	"sync"

	"reggate/internal/gatekeeper/models"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
)

// InMemoryStore keeps records in a map. It backs tests and single-node
// deployments without PostgreSQL.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.InstanceID]models.Record
}

// NewMemory returns an empty in-memory record store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.InstanceID]models.Record)}
}

func (s *InMemoryStore) ListSorted(_ context.Context) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (s *InMemoryStore) Apply(_ context.Context, changes ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole set before touching anything; the map update below
	// must be all-or-nothing like the SQL transaction it stands in for.
	for _, rec := range changes.Inserts {
		if rec.ID.IsNil() {
			return dErrors.New(dErrors.CodeContract, "insert of record without id")
		}
		if _, exists := s.records[rec.ID]; exists {
			return dErrors.Newf(dErrors.CodeContract, "insert of existing record %s", rec.ID)
		}
	}
	for _, rec := range changes.Updates {
		if _, exists := s.records[rec.ID]; !exists {
			return dErrors.Newf(dErrors.CodeNotFound, "update of unknown record %s", rec.ID)
		}
	}
	for _, recID := range changes.Deletes {
		if _, exists := s.records[recID]; !exists {
			return dErrors.Newf(dErrors.CodeNotFound, "delete of unknown record %s", recID)
		}
	}

	for _, rec := range changes.Inserts {
		s.records[rec.ID] = rec.Clone()
	}
	for _, rec := range changes.Updates {
		s.records[rec.ID] = rec.Clone()
	}
	for _, recID := range changes.Deletes {
		delete(s.records, recID)
	}
	return nil
}
