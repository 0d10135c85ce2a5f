// Package settings holds site-wide gatekeeper configuration (the enable
// switch, the deny threshold, message templates) and per-plugin-type
// key-value settings such as API keys.
package settings

import (
	"context"

	id "reggate/pkg/domain"
)

// Site is the site-wide gatekeeper configuration.
type Site struct {
	// Enabled is the master switch; when false the engine is fully bypassed
	// and every signup is allowed.
	Enabled bool
	// MaxPoints is the deny threshold: a run whose accumulated score reaches
	// it (equality included) blocks registration.
	MaxPoints int
	// DenyMessage is the general feedback shown when registration is
	// blocked and no rule supplied a message.
	DenyMessage string
}

// DefaultSite returns the configuration a fresh installation starts with.
// The engine ships disabled so installing the tool never locks signups out.
func DefaultSite() Site {
	return Site{
		Enabled:     false,
		MaxPoints:   100,
		DenyMessage: "Your registration could not be completed.",
	}
}

// Store is the persistence contract for gatekeeper settings.
type Store interface {
	// SiteSettings returns the site-wide configuration.
	SiteSettings(ctx context.Context) (Site, error)
	// SaveSiteSettings replaces the site-wide configuration.
	SaveSiteSettings(ctx context.Context, site Site) error
	// PluginSetting returns a per-plugin-type setting, or "" when unset.
	PluginSetting(ctx context.Context, ruleType id.RuleType, key string) (string, error)
	// SavePluginSetting writes a per-plugin-type setting.
	SavePluginSetting(ctx context.Context, ruleType id.RuleType, key, value string) error
}
