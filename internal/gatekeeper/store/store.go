// Package store persists rule-instance records. The instance store stages
// changes and hands them over as one ChangeSet; implementations must apply a
// ChangeSet atomically so concurrent readers see either the pre-commit or the
// post-commit ordering, never an interleaving.
package store

import (
	"context"

	"reggate/internal/gatekeeper/models"
	id "reggate/pkg/domain"
)

// ChangeSet is one staged commit: records to insert, records to update, and
// IDs to delete.
type ChangeSet struct {
	Inserts []models.Record
	Updates []models.Record
	Deletes []id.InstanceID
}

// Empty reports whether the change set carries no work.
func (c ChangeSet) Empty() bool {
	return len(c.Inserts) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}

// Store is the persistence contract for rule-instance records.
type Store interface {
	// ListSorted returns all records in ascending sort order.
	ListSorted(ctx context.Context) ([]models.Record, error)
	// Apply commits the change set in a single atomic transaction.
	Apply(ctx context.Context, changes ChangeSet) error
}
