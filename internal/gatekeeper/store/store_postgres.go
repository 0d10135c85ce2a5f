package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"reggate/internal/gatekeeper/models"
	id "reggate/pkg/domain"
	txcontext "reggate/pkg/platform/tx"
)

// PostgresStore persists rule-instance records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const listQuery = `
SELECT id, rule_type, enabled, name, description, points, fallback_points, sort_order, config
FROM gatekeeper_rule_instances
ORDER BY sort_order ASC`

func (s *PostgresStore) ListSorted(ctx context.Context) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("list rule instances: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var (
			rec    models.Record
			rawID  uuid.UUID
			rtType string
		)
		if err := rows.Scan(&rawID, &rtType, &rec.Enabled, &rec.Name, &rec.Description,
			&rec.Points, &rec.FallbackPoints, &rec.SortOrder, &rec.Config); err != nil {
			return nil, fmt.Errorf("scan rule instance: %w", err)
		}
		rec.ID = id.InstanceID(rawID)
		rec.Type = id.RuleType(rtType)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rule instances: %w", err)
	}
	return out, nil
}

// Apply commits the change set in one transaction. When a transaction is
// already carried in the context it is reused and left uncommitted for the
// caller.
func (s *PostgresStore) Apply(ctx context.Context, changes ChangeSet) error {
	if changes.Empty() {
		return nil
	}

	if outer, ok := txcontext.From(ctx); ok {
		return s.applyTx(ctx, outer, changes)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit transaction: %w", err)
	}

	if err := s.applyTx(ctx, tx, changes); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rule instance changes: %w", err)
	}
	return nil
}

func (s *PostgresStore) applyTx(ctx context.Context, tx *sql.Tx, changes ChangeSet) error {
	const insertQuery = `
INSERT INTO gatekeeper_rule_instances
	(id, rule_type, enabled, name, description, points, fallback_points, sort_order, config)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	const updateQuery = `
UPDATE gatekeeper_rule_instances
SET enabled = $2, name = $3, description = $4, points = $5, fallback_points = $6,
	sort_order = $7, config = $8
WHERE id = $1`

	const deleteQuery = `DELETE FROM gatekeeper_rule_instances WHERE id = $1`

	for _, rec := range changes.Inserts {
		if _, err := tx.ExecContext(ctx, insertQuery,
			uuid.UUID(rec.ID), rec.Type.String(), rec.Enabled, rec.Name, rec.Description,
			rec.Points, rec.FallbackPoints, rec.SortOrder, rec.Config); err != nil {
			return fmt.Errorf("insert rule instance %s: %w", rec.ID, err)
		}
	}

	for _, rec := range changes.Updates {
		res, err := tx.ExecContext(ctx, updateQuery,
			uuid.UUID(rec.ID), rec.Enabled, rec.Name, rec.Description,
			rec.Points, rec.FallbackPoints, rec.SortOrder, rec.Config)
		if err != nil {
			return fmt.Errorf("update rule instance %s: %w", rec.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update rule instance %s: no such record", rec.ID)
		}
	}

	for _, recID := range changes.Deletes {
		if _, err := tx.ExecContext(ctx, deleteQuery, uuid.UUID(recID)); err != nil {
			return fmt.Errorf("delete rule instance %s: %w", recID, err)
		}
	}

	return nil
}
