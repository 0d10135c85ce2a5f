// Package factory hydrates live rule instances from persisted records.
package factory

import (
	"fmt"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/registry"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
)

// Factory is a pure construction component: record in, bound rule out.
type Factory struct {
	registry *registry.Registry
}

// New constructs a factory over the given type registry.
func New(reg *registry.Registry) (*Factory, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	return &Factory{registry: reg}, nil
}

// Build resolves the plugin for the record's type, decodes the config blob,
// validates it against the type's declared fields, and binds everything onto
// a fresh instance. Any failure here means a broken installation, not a bot;
// it surfaces as a configuration error and never as a denial.
func (f *Factory) Build(rec models.Record) (rule.Rule, error) {
	instance, err := f.registry.Resolve(rec.Type)
	if err != nil {
		return nil, err
	}

	config, err := models.DecodeConfig(rec.Config)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeConfiguration,
			fmt.Sprintf("instance %s of type %q has malformed config", rec.ID, rec.Type), err)
	}

	if configurable, ok := instance.(rule.Configurable); ok {
		for _, field := range configurable.ConfigFields() {
			if _, present := config[field]; !present {
				return nil, dErrors.Newf(dErrors.CodeConfiguration,
					"instance %s of type %q is missing required config field %q",
					rec.ID, rec.Type, field)
			}
		}
	}

	instance.Bind(rec, config)
	return instance, nil
}

// ConfigFields returns the config fields a rule type declares, or nil when
// the type is not configurable. Unknown types fail as configuration errors.
func (f *Factory) ConfigFields(ruleType id.RuleType) ([]string, error) {
	instance, err := f.registry.Resolve(ruleType)
	if err != nil {
		return nil, err
	}
	if configurable, ok := instance.(rule.Configurable); ok {
		return configurable.ConfigFields(), nil
	}
	return nil, nil
}
