// Package rule defines the contract every gatekeeping rule plugin
// implements. A plugin embeds Base for instance state and the result
// factories, and opts into capabilities by implementing the optional
// interfaces; the checker discovers capabilities by type assertion.
package rule

import (
	"context"

	"reggate/internal/gatekeeper/models"
	id "reggate/pkg/domain"
)

// Rule is the base contract: identity and scoring accessors plus the record
// binding the factory uses. All plugins satisfy it by embedding Base.
type Rule interface {
	ID() id.InstanceID
	Type() id.RuleType
	Enabled() bool
	Name() string
	Description() string
	Points() int
	FallbackPoints() int
	SortOrder() int
	Config() map[string]string

	Bind(rec models.Record, config map[string]string)
}

// PreChecker is the pre-input capability: evaluable before any user input
// exists (registration windows, IP limits). A nil result means the rule is
// not applicable to this attempt and is excluded from aggregation.
type PreChecker interface {
	Rule
	PreCheck(ctx context.Context) (*models.Result, error)
}

// PostChecker is the post-input capability: evaluable only against the
// submitted form. A nil result means not applicable.
type PostChecker interface {
	Rule
	PostCheck(ctx context.Context, data models.FormData) (*models.Result, error)
}

// FormExtender injects fields into the signup form that the post-check phase
// later reads back.
type FormExtender interface {
	Rule
	ExtendForm(ctx context.Context, form *models.Form) error
}

// Configurable declares per-instance configuration fields. The factory
// rejects instances whose stored config misses any declared field.
// ExtendSettingsForm feeds the admin settings screen.
type Configurable interface {
	Rule
	ConfigFields() []string
	ExtendSettingsForm(form *models.Form)
}

// PluginSettings is the narrow settings view plugin-level checks read.
type PluginSettings interface {
	PluginSetting(ctx context.Context, ruleType id.RuleType, key string) (string, error)
}

// PluginChecker gates a whole rule type on plugin-wide configuration (API
// keys and the like). Instances of an unconfigured type are excluded from
// the active set regardless of their own enabled flag.
type PluginChecker interface {
	Rule
	PluginConfigured(ctx context.Context, settings PluginSettings) (bool, error)
}
