// Package honeypot implements the classic hidden-field trap. The form gains
// an invisible field that humans never fill; any submitted value charges the
// instance's points.
package honeypot

import (
	"context"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
)

// TypeName registers the plugin in the rule registry.
const TypeName id.RuleType = "honeypot"

// fieldName is deliberately tempting to autofill bots.
const fieldName = "website_url"

type Honeypot struct {
	rule.Base
}

// New returns an unbound honeypot instance.
func New() rule.Rule {
	return &Honeypot{Base: rule.NewBase(TypeName)}
}

// ExtendForm injects the trap field, empty. The host renders it hidden.
func (h *Honeypot) ExtendForm(_ context.Context, form *models.Form) error {
	form.Add(models.FormField{
		Name: fieldName,
		Kind: models.FieldHidden,
	})
	return nil
}

// PostCheck denies when the trap field came back non-empty.
func (h *Honeypot) PostCheck(_ context.Context, data models.FormData) (*models.Result, error) {
	if data.Get(fieldName) == "" {
		return h.Allow(), nil
	}
	return h.Deny(h.Points(),
		"Your registration could not be processed.",
		nil,
		"hidden trap field was filled",
	)
}
