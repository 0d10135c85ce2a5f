// Package admin exposes the management operations for gatekeeper
// configuration: instance CRUD with staged commits, ordering, site and
// plugin settings, and the audit trail. Every mutation is audited.
package admin

//go:generate mockgen -source=admin.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"log/slog"

	"reggate/internal/gatekeeper/instances"
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/registry"
	"reggate/internal/gatekeeper/settings"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
	"reggate/pkg/platform/audit"
)

// MoveDirection selects the reorder direction.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// InstanceStore is the staged instance collection the service manages.
type InstanceStore interface {
	List(ctx context.Context) ([]models.Record, error)
	Add(ctx context.Context, form instances.InstanceForm) (models.Record, error)
	Update(ctx context.Context, instanceID id.InstanceID, form instances.InstanceForm) error
	Delete(ctx context.Context, instanceID id.InstanceID) error
	Enable(ctx context.Context, instanceID id.InstanceID) error
	Disable(ctx context.Context, instanceID id.InstanceID) error
	MoveUp(ctx context.Context, instanceID id.InstanceID) error
	MoveDown(ctx context.Context, instanceID id.InstanceID) error
	Commit(ctx context.Context) error
}

// SettingsStore is the settings persistence the service manages.
type SettingsStore interface {
	SiteSettings(ctx context.Context) (settings.Site, error)
	SaveSiteSettings(ctx context.Context, site settings.Site) error
	PluginSetting(ctx context.Context, ruleType id.RuleType, key string) (string, error)
	SavePluginSetting(ctx context.Context, ruleType id.RuleType, key, value string) error
}

// Auditor records admin actions and serves the trail back.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
	List(ctx context.Context, limit int) ([]audit.Event, error)
}

// Service implements the admin operations.
type Service struct {
	instances InstanceStore
	settings  SettingsStore
	registry  *registry.Registry
	audit     Auditor
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs the admin service.
func New(instanceStore InstanceStore, settingsStore SettingsStore, reg *registry.Registry, auditor Auditor, opts ...Option) (*Service, error) {
	if instanceStore == nil {
		return nil, fmt.Errorf("instance store is required")
	}
	if settingsStore == nil {
		return nil, fmt.Errorf("settings store is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("auditor is required")
	}

	s := &Service{
		instances: instanceStore,
		settings:  settingsStore,
		registry:  reg,
		audit:     auditor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RuleTypes lists the registered rule types available for new instances.
func (s *Service) RuleTypes() []id.RuleType {
	return s.registry.Types()
}

// ListInstances returns the working view of configured instances.
func (s *Service) ListInstances(ctx context.Context) ([]models.Record, error) {
	return s.instances.List(ctx)
}

// AddInstance stages a new instance of a registered type.
func (s *Service) AddInstance(ctx context.Context, actor string, form instances.InstanceForm) (models.Record, error) {
	if !s.registry.Known(form.Type) {
		return models.Record{}, dErrors.Newf(dErrors.CodeValidation, "unknown rule type %q", form.Type)
	}

	rec, err := s.instances.Add(ctx, form)
	if err != nil {
		return models.Record{}, err
	}

	s.emit(ctx, audit.Event{
		Action:  audit.ActionInstanceAdded,
		Actor:   actor,
		Subject: rec.ID.String(),
		Detail:  fmt.Sprintf("type=%s name=%q points=%d", rec.Type, rec.Name, rec.Points),
	})
	return rec, nil
}

// UpdateInstance stages changes to an existing instance.
func (s *Service) UpdateInstance(ctx context.Context, actor string, instanceID id.InstanceID, form instances.InstanceForm) error {
	if err := s.instances.Update(ctx, instanceID, form); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionInstanceUpdated,
		Actor:   actor,
		Subject: instanceID.String(),
	})
	return nil
}

// DeleteInstance stages an instance for deletion.
func (s *Service) DeleteInstance(ctx context.Context, actor string, instanceID id.InstanceID) error {
	if err := s.instances.Delete(ctx, instanceID); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionInstanceDeleted,
		Actor:   actor,
		Subject: instanceID.String(),
	})
	return nil
}

// SetInstanceEnabled stages the enable flag.
func (s *Service) SetInstanceEnabled(ctx context.Context, actor string, instanceID id.InstanceID, enabled bool) error {
	var err error
	if enabled {
		err = s.instances.Enable(ctx, instanceID)
	} else {
		err = s.instances.Disable(ctx, instanceID)
	}
	if err != nil {
		return err
	}

	s.emit(ctx, audit.Event{
		Action:  audit.ActionInstanceToggled,
		Actor:   actor,
		Subject: instanceID.String(),
		Detail:  fmt.Sprintf("enabled=%t", enabled),
	})
	return nil
}

// MoveInstance stages a one-step reorder.
func (s *Service) MoveInstance(ctx context.Context, actor string, instanceID id.InstanceID, direction MoveDirection) error {
	var err error
	switch direction {
	case MoveUp:
		err = s.instances.MoveUp(ctx, instanceID)
	case MoveDown:
		err = s.instances.MoveDown(ctx, instanceID)
	default:
		return dErrors.Newf(dErrors.CodeValidation, "invalid move direction %q", direction)
	}
	if err != nil {
		return err
	}

	s.emit(ctx, audit.Event{
		Action:  audit.ActionInstanceMoved,
		Actor:   actor,
		Subject: instanceID.String(),
		Detail:  string(direction),
	})
	return nil
}

// Commit applies all staged instance changes atomically.
func (s *Service) Commit(ctx context.Context) error {
	return s.instances.Commit(ctx)
}

// SiteSettings returns the site-wide configuration.
func (s *Service) SiteSettings(ctx context.Context) (settings.Site, error) {
	return s.settings.SiteSettings(ctx)
}

// SaveSiteSettings replaces the site-wide configuration.
func (s *Service) SaveSiteSettings(ctx context.Context, actor string, site settings.Site) error {
	if site.MaxPoints <= 0 {
		return dErrors.New(dErrors.CodeValidation, "maxpoints must be positive")
	}
	if err := s.settings.SaveSiteSettings(ctx, site); err != nil {
		return err
	}

	s.emit(ctx, audit.Event{
		Action: audit.ActionSettingsChanged,
		Actor:  actor,
		Detail: fmt.Sprintf("enabled=%t maxpoints=%d", site.Enabled, site.MaxPoints),
	})
	return nil
}

// PluginSetting reads a per-plugin-type setting.
func (s *Service) PluginSetting(ctx context.Context, ruleType id.RuleType, key string) (string, error) {
	return s.settings.PluginSetting(ctx, ruleType, key)
}

// SavePluginSetting writes a per-plugin-type setting.
func (s *Service) SavePluginSetting(ctx context.Context, actor string, ruleType id.RuleType, key, value string) error {
	if err := s.settings.SavePluginSetting(ctx, ruleType, key, value); err != nil {
		return err
	}

	s.emit(ctx, audit.Event{
		Action:  audit.ActionSettingsChanged,
		Actor:   actor,
		Subject: ruleType.String(),
		Detail:  fmt.Sprintf("plugin setting %q changed", key),
	})
	return nil
}

// AuditLog returns recent audit events, newest first.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]audit.Event, error) {
	return s.audit.List(ctx, limit)
}

// emit records an audit event; failures are logged, never surfaced, so a
// broken audit path cannot block administration.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit admin audit event",
			"action", event.Action, "error", err)
	}
}
