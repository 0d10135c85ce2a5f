// Package disposableemail denies signups whose email domain appears on the
// plugin-wide blocklist of throwaway providers. The list lives in plugin
// settings so admins curate it without redeploying.
package disposableemail

import (
	"context"
	"fmt"
	"strings"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
)

// TypeName registers the plugin in the rule registry.
const TypeName id.RuleType = "disposableemail"

const (
	// configField names the form field holding the email address.
	configField = "field"
	// settingDomains is the plugin-wide blocklist, comma separated.
	settingDomains = "domains"
)

type DisposableEmail struct {
	rule.Base
	settings rule.PluginSettings
}

// New returns a constructor bound to the plugin settings source.
func New(settings rule.PluginSettings) func() rule.Rule {
	return func() rule.Rule {
		return &DisposableEmail{
			Base:     rule.NewBase(TypeName),
			settings: settings,
		}
	}
}

func (d *DisposableEmail) ConfigFields() []string {
	return []string{configField}
}

func (d *DisposableEmail) ExtendSettingsForm(form *models.Form) {
	form.Add(models.FormField{
		Name:  configField,
		Kind:  models.FieldText,
		Label: "Name of the form field holding the email address",
	})
}

// PostCheck looks the submitted address's domain up in the blocklist. A
// missing or malformed address is not this rule's concern and yields no
// result; host-side validation owns address syntax.
func (d *DisposableEmail) PostCheck(ctx context.Context, data models.FormData) (*models.Result, error) {
	field := d.Config()[configField]
	address := strings.TrimSpace(data.Get(field))

	_, domain, found := strings.Cut(address, "@")
	if !found || domain == "" {
		return nil, nil
	}
	domain = strings.ToLower(domain)

	blocked, err := d.blocklist(ctx)
	if err != nil {
		return nil, err
	}
	if _, hit := blocked[domain]; !hit {
		return d.Allow(), nil
	}

	return d.Deny(d.Points(),
		"",
		map[string][]string{
			field: {"Disposable email addresses are not accepted. Please use a permanent address."},
		},
		fmt.Sprintf("email domain %q is on the disposable blocklist", domain),
	)
}

func (d *DisposableEmail) blocklist(ctx context.Context) (map[string]struct{}, error) {
	raw, err := d.settings.PluginSetting(ctx, TypeName, settingDomains)
	if err != nil {
		return nil, fmt.Errorf("load disposable domain blocklist: %w", err)
	}

	out := make(map[string]struct{})
	for _, domain := range strings.Split(raw, ",") {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			out[domain] = struct{}{}
		}
	}
	return out, nil
}
