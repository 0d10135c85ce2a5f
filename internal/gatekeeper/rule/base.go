package rule

import (
	"reggate/internal/gatekeeper/models"
	id "reggate/pkg/domain"
)

// Base carries the per-instance state shared by all plugins and provides the
// terminal result factories. Plugins embed it by value; the factory populates
// it through Bind.
type Base struct {
	id             id.InstanceID
	ruleType       id.RuleType
	enabled        bool
	name           string
	description    string
	points         int
	fallbackPoints int
	sortOrder      int
	config         map[string]string
}

// NewBase seeds a Base with its rule type. The remaining state arrives via
// Bind when the factory hydrates an instance.
func NewBase(ruleType id.RuleType) Base {
	return Base{ruleType: ruleType, config: map[string]string{}}
}

func (b *Base) ID() id.InstanceID   { return b.id }
func (b *Base) Type() id.RuleType   { return b.ruleType }
func (b *Base) Enabled() bool       { return b.enabled }
func (b *Base) Name() string        { return b.name }
func (b *Base) Description() string { return b.description }
func (b *Base) Points() int         { return b.points }
func (b *Base) FallbackPoints() int { return b.fallbackPoints }
func (b *Base) SortOrder() int      { return b.sortOrder }

// Config returns the decoded instance configuration. Callers must not
// mutate it.
func (b *Base) Config() map[string]string { return b.config }

// Bind copies identity and scoring fields from a persisted record onto the
// instance, together with its decoded configuration.
func (b *Base) Bind(rec models.Record, config map[string]string) {
	b.id = rec.ID
	b.enabled = rec.Enabled
	b.name = rec.Name
	b.description = rec.Description
	b.points = rec.Points
	b.fallbackPoints = rec.FallbackPoints
	b.sortOrder = rec.SortOrder
	if config == nil {
		config = map[string]string{}
	}
	b.config = config
}

// Allow returns an allowing result.
func (b *Base) Allow() *models.Result {
	return models.NewAllow()
}

// Deny returns a denial scored with the given points. Either feedback or
// validation may be set, never both.
func (b *Base) Deny(score int, feedback string, validation map[string][]string, detail string) (*models.Result, error) {
	return models.NewDeny(score, feedback, validation, b.logInfo(score, detail))
}

// DeferredDeny returns a denial whose validity is confirmed against the
// final state of the run.
func (b *Base) DeferredDeny(resolver models.Resolver, score int, feedback string, validation map[string][]string, detail string) (*models.Result, error) {
	return models.NewDeferredDeny(resolver, score, feedback, validation, b.logInfo(score, detail))
}

// FallbackDeny converts an external dependency failure into a denial charged
// at the instance's fallback points. The checker treats it like any other
// denial; it is this system's whole failure policy for unreachable services.
func (b *Base) FallbackDeny(feedback string, detail string) (*models.Result, error) {
	return models.NewDeny(b.fallbackPoints, feedback, nil, b.logInfo(b.fallbackPoints, detail))
}

func (b *Base) logInfo(score int, detail string) *models.LogInfo {
	return &models.LogInfo{
		RuleType:     b.ruleType,
		RuleName:     b.name,
		InstanceID:   b.id,
		PointsCharge: score,
		Detail:       detail,
	}
}
