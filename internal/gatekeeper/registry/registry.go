// Package registry maps rule type identifiers to plugin constructors. It is
// populated explicitly at process start; resolving a type string never
// involves reflection.
package registry

import (
	"sort"
	"sync"

	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
)

// Constructor builds a fresh, unbound instance of a rule type. Plugin
// packages return constructors closed over their dependencies (Redis client,
// HTTP client, signing keys).
type Constructor func() rule.Rule

// Registry is the process-level rule type catalog.
type Registry struct {
	mu           sync.RWMutex
	constructors map[id.RuleType]Constructor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{constructors: make(map[id.RuleType]Constructor)}
}

// Register adds a rule type. Registering the same type twice is a wiring
// bug and fails with a contract violation.
func (r *Registry) Register(ruleType id.RuleType, ctor Constructor) error {
	if ctor == nil {
		return dErrors.Newf(dErrors.CodeContract, "nil constructor for rule type %q", ruleType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[ruleType]; exists {
		return dErrors.Newf(dErrors.CodeContract, "rule type %q registered twice", ruleType)
	}
	r.constructors[ruleType] = ctor
	return nil
}

// Resolve returns a fresh unbound instance of the given type. An unknown
// type indicates a broken installation (a persisted instance whose plugin is
// gone) and is a configuration error.
func (r *Registry) Resolve(ruleType id.RuleType) (rule.Rule, error) {
	r.mu.RLock()
	ctor, ok := r.constructors[ruleType]
	r.mu.RUnlock()

	if !ok {
		return nil, dErrors.Newf(dErrors.CodeConfiguration, "unknown rule type %q", ruleType)
	}

	instance := ctor()
	if instance == nil {
		return nil, dErrors.Newf(dErrors.CodeContract, "constructor for rule type %q returned nil", ruleType)
	}
	return instance, nil
}

// Known reports whether the type is registered.
func (r *Registry) Known(ruleType id.RuleType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[ruleType]
	return ok
}

// Types returns all registered types in stable order.
func (r *Registry) Types() []id.RuleType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]id.RuleType, 0, len(r.constructors))
	for t := range r.constructors {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
