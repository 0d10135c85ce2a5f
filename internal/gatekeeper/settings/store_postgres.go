package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	id "reggate/pkg/domain"
)

// siteScope is the reserved scope under which site-wide keys live; plugin
// settings use the rule type as their scope.
const siteScope = "_site"

const (
	keyEnabled     = "enable"
	keyMaxPoints   = "maxpoints"
	keyDenyMessage = "generalmessage"
)

// PostgresStore persists settings as (scope, key, value) rows.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed settings store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) SiteSettings(ctx context.Context) (Site, error) {
	site := DefaultSite()

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM gatekeeper_settings WHERE scope = $1`, siteScope)
	if err != nil {
		return site, fmt.Errorf("load site settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return site, fmt.Errorf("scan site setting: %w", err)
		}
		switch key {
		case keyEnabled:
			site.Enabled = value == "1"
		case keyMaxPoints:
			if n, err := strconv.Atoi(value); err == nil {
				site.MaxPoints = n
			}
		case keyDenyMessage:
			site.DenyMessage = value
		}
	}
	if err := rows.Err(); err != nil {
		return site, fmt.Errorf("load site settings: %w", err)
	}
	return site, nil
}

func (s *PostgresStore) SaveSiteSettings(ctx context.Context, site Site) error {
	enabled := "0"
	if site.Enabled {
		enabled = "1"
	}
	pairs := map[string]string{
		keyEnabled:     enabled,
		keyMaxPoints:   strconv.Itoa(site.MaxPoints),
		keyDenyMessage: site.DenyMessage,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save site settings: %w", err)
	}
	for key, value := range pairs {
		if err := upsert(ctx, tx, siteScope, key, value); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save site settings: %w", err)
	}
	return nil
}

func (s *PostgresStore) PluginSetting(ctx context.Context, ruleType id.RuleType, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM gatekeeper_settings WHERE scope = $1 AND key = $2`,
		ruleType.String(), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load plugin setting %s/%s: %w", ruleType, key, err)
	}
	return value, nil
}

func (s *PostgresStore) SavePluginSetting(ctx context.Context, ruleType id.RuleType, key, value string) error {
	return upsert(ctx, s.db, ruleType.String(), key, value)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, scope, key, value string) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO gatekeeper_settings (scope, key, value)
VALUES ($1, $2, $3)
ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value`,
		scope, key, value)
	if err != nil {
		return fmt.Errorf("save setting %s/%s: %w", scope, key, err)
	}
	return nil
}
