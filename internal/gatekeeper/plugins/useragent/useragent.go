// Package useragent scores requests whose User-Agent header identifies a
// crawler or is absent entirely. A heuristic, so instances typically carry a
// partial score rather than the full threshold.
package useragent

import (
	"context"
	"fmt"

	ua "github.com/mssola/useragent"

	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/rule"
	id "reggate/pkg/domain"
	"reggate/pkg/requestcontext"
)

// TypeName registers the plugin in the rule registry.
const TypeName id.RuleType = "useragent"

type UserAgent struct {
	rule.Base
}

// New returns an unbound user-agent instance.
func New() rule.Rule {
	return &UserAgent{Base: rule.NewBase(TypeName)}
}

// PreCheck parses the request's User-Agent header. An empty header or a
// recognized bot signature denies; browsers pass.
func (u *UserAgent) PreCheck(ctx context.Context) (*models.Result, error) {
	header := requestcontext.UserAgent(ctx)
	if header == "" {
		return u.Deny(u.Points(),
			"Your registration could not be processed.",
			nil,
			"request carried no User-Agent header",
		)
	}

	parsed := ua.New(header)
	if parsed.Bot() {
		browser, _ := parsed.Browser()
		return u.Deny(u.Points(),
			"Your registration could not be processed.",
			nil,
			fmt.Sprintf("User-Agent identifies as bot (%s)", browser),
		)
	}
	return u.Allow(), nil
}
