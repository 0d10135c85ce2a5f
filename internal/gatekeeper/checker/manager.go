package checker

import (
	"fmt"
	"log/slog"
	"sync"

	"reggate/internal/gatekeeper/metrics"
	"reggate/internal/gatekeeper/settings"
	dErrors "reggate/pkg/domain-errors"
	"reggate/pkg/platform/audit"
)

// Manager creates checkers for registered evaluation contexts. Contexts are
// registered once at startup; each request obtains a fresh checker so runs
// never share mutable state.
type Manager struct {
	source   ActiveSource
	settings settings.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	audit    *audit.Publisher

	mu       sync.RWMutex
	contexts map[string]struct{}
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger passed to new checkers.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithManagerMetrics sets the metrics collector passed to new checkers.
func WithManagerMetrics(collector *metrics.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = collector
	}
}

// WithManagerAudit sets the audit publisher passed to new checkers.
func WithManagerAudit(publisher *audit.Publisher) ManagerOption {
	return func(m *Manager) {
		m.audit = publisher
	}
}

// NewManager constructs a manager over the given instance source and
// settings store.
func NewManager(source ActiveSource, settingsStore settings.Store, opts ...ManagerOption) (*Manager, error) {
	if source == nil {
		return nil, fmt.Errorf("active instance source is required")
	}
	if settingsStore == nil {
		return nil, fmt.Errorf("settings store is required")
	}

	m := &Manager{
		source:   source,
		settings: settingsStore,
		logger:   slog.Default(),
		contexts: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// RegisterContext declares an evaluation context name. Registering twice is
// harmless.
func (m *Manager) RegisterContext(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeContract, "context name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts[name] = struct{}{}
	return nil
}

// Contexts lists the registered context names.
func (m *Manager) Contexts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.contexts))
	for name := range m.contexts {
		out = append(out, name)
	}
	return out
}

// NewRun returns a fresh checker for one evaluation of a registered context.
// Requesting an unregistered context is a programming error.
func (m *Manager) NewRun(contextName string) (*Checker, error) {
	m.mu.RLock()
	_, ok := m.contexts[contextName]
	m.mu.RUnlock()
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeContract,
			"unregistered checker context %q", contextName)
	}

	return New(contextName, m.source, m.settings,
		WithLogger(m.logger),
		WithMetrics(m.metrics),
		WithAudit(m.audit),
	)
}
