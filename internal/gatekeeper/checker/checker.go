// Package checker orchestrates rule evaluation for one signup attempt: it
// runs the two check phases over the active instances, aggregates scores,
// and renders the final allow/deny decision with its user-facing messages.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"reggate/internal/gatekeeper/metrics"
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/rule"
	"reggate/internal/gatekeeper/settings"
	dErrors "reggate/pkg/domain-errors"
	"reggate/pkg/platform/audit"
	pkgstrings "reggate/pkg/platform/strings"
	"reggate/pkg/requestcontext"
)

// AggregateMessagesKey is the reserved key under which AllMessages carries
// the combined free-text feedback; host field names never collide with it
// because it is not a form field.
const AggregateMessagesKey = "_gatekeeper"

// validationJoinSeparator merges multiple rules' messages for one field.
const validationJoinSeparator = "; "

// ActiveSource supplies the active rule instances in evaluation order.
// Satisfied by the instance store.
type ActiveSource interface {
	ActiveInstances(ctx context.Context) ([]rule.Rule, error)
}

// Checker evaluates one signup attempt. It is created per run through the
// Manager; results-dependent queries are valid only after at least one check
// phase has executed.
type Checker struct {
	contextName string
	source      ActiveSource
	settings    settings.Store
	logger      *slog.Logger
	metrics     *metrics.Metrics
	audit       *audit.Publisher
	tracer      trace.Tracer

	mu           sync.Mutex
	active       []rule.Rule
	activeLoaded bool
	results      []*models.Result
	runLog       *RunLog
	checked      bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Checker) {
		c.metrics = m
	}
}

// WithAudit sets the audit publisher for decision events.
func WithAudit(publisher *audit.Publisher) Option {
	return func(c *Checker) {
		c.audit = publisher
	}
}

// New constructs a checker for one named context.
func New(contextName string, source ActiveSource, settingsStore settings.Store, opts ...Option) (*Checker, error) {
	if contextName == "" {
		return nil, fmt.Errorf("context name is required")
	}
	if source == nil {
		return nil, fmt.Errorf("active instance source is required")
	}
	if settingsStore == nil {
		return nil, fmt.Errorf("settings store is required")
	}

	c := &Checker{
		contextName: contextName,
		source:      source,
		settings:    settingsStore,
		logger:      slog.Default(),
		tracer:      otel.Tracer("reggate/gatekeeper/checker"),
		runLog:      NewRunLog(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Context returns the checker context name.
func (c *Checker) Context() string {
	return c.contextName
}

// RunLog returns the diagnostic log of this run.
func (c *Checker) RunLog() *RunLog {
	return c.runLog
}

// ensureActive loads the active instance snapshot once per run. Callers
// hold c.mu.
func (c *Checker) ensureActive(ctx context.Context) error {
	if c.activeLoaded {
		return nil
	}
	active, err := c.source.ActiveInstances(ctx)
	if err != nil {
		return err
	}
	c.active = active
	c.activeLoaded = true
	return nil
}

// RunPreChecks executes the pre-input phase over every active instance with
// the pre-check capability, collecting non-nil results in sort order. The
// checker counts as checked afterwards even when no rule was applicable.
func (c *Checker) RunPreChecks(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "checker.pre_checks",
		trace.WithAttributes(attribute.String("gatekeeper.context", c.contextName)))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureActive(ctx); err != nil {
		return err
	}

	for _, instance := range c.active {
		pre, ok := instance.(rule.PreChecker)
		if !ok {
			continue
		}
		result, err := pre.PreCheck(ctx)
		if err != nil {
			return fmt.Errorf("pre-check of rule instance %s (%s): %w",
				instance.ID(), instance.Type(), err)
		}
		c.collect(instance, result)
	}

	c.checked = true
	c.metrics.ObservePhase("pre")
	return nil
}

// RunPostChecks executes the post-input phase against the submitted form.
func (c *Checker) RunPostChecks(ctx context.Context, data models.FormData) error {
	ctx, span := c.tracer.Start(ctx, "checker.post_checks",
		trace.WithAttributes(attribute.String("gatekeeper.context", c.contextName)))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureActive(ctx); err != nil {
		return err
	}

	for _, instance := range c.active {
		post, ok := instance.(rule.PostChecker)
		if !ok {
			continue
		}
		result, err := post.PostCheck(ctx, data)
		if err != nil {
			return fmt.Errorf("post-check of rule instance %s (%s): %w",
				instance.ID(), instance.Type(), err)
		}
		c.collect(instance, result)
	}

	c.checked = true
	c.metrics.ObservePhase("post")
	return nil
}

// collect appends a non-nil result and its log entry. Callers hold c.mu.
func (c *Checker) collect(instance rule.Rule, result *models.Result) {
	if result == nil {
		// Not applicable to this rule instance; excluded from aggregation.
		return
	}
	c.results = append(c.results, result)
	c.metrics.ObserveResult(instance.Type().String(), result.Allowed)
	if result.Log != nil {
		c.runLog.Append(*result.Log)
	}
}

// ExtendForm lets every active form-extending instance inject its fields, in
// sort order.
func (c *Checker) ExtendForm(ctx context.Context, form *models.Form) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureActive(ctx); err != nil {
		return err
	}

	for _, instance := range c.active {
		extender, ok := instance.(rule.FormExtender)
		if !ok {
			continue
		}
		if err := extender.ExtendForm(ctx, form); err != nil {
			return fmt.Errorf("extend form by rule instance %s (%s): %w",
				instance.ID(), instance.Type(), err)
		}
	}
	return nil
}

// Allowed renders the final decision. With the site-wide switch off the
// engine is fully bypassed and every attempt is allowed, checked or not.
// Otherwise querying an unchecked checker is a programming error. Pending
// deferred results are resolved in place (once; the outcome is cached)
// before scores are summed; the attempt is denied iff the accumulated score
// reaches the site maximum, equality included.
func (c *Checker) Allowed(ctx context.Context) (bool, error) {
	site, err := c.settings.SiteSettings(ctx)
	if err != nil {
		return false, err
	}
	if !site.Enabled {
		return true, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireChecked(); err != nil {
		return false, err
	}
	c.resolveDeferred(ctx)

	total := 0
	for _, result := range c.results {
		if !result.Allowed {
			total += result.Score
		}
	}

	allowed := total < site.MaxPoints
	c.metrics.ObserveDecision(allowed, total)
	c.emitDecision(ctx, allowed, total)

	if !allowed {
		c.logger.InfoContext(ctx, "registration denied",
			"context", c.contextName,
			"total_score", total,
			"max_points", site.MaxPoints,
			"results", len(c.results),
		)
	}
	return allowed, nil
}

// FeedbackMessages returns the free-text messages of denying results,
// deduplicated in occurrence order.
func (c *Checker) FeedbackMessages(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireChecked(); err != nil {
		return nil, err
	}
	c.resolveDeferred(ctx)

	var messages []string
	for _, result := range c.results {
		if !result.Allowed && result.Feedback != "" {
			messages = append(messages, result.Feedback)
		}
	}
	return pkgstrings.DedupeAndTrim(messages), nil
}

// ValidationMessages returns the per-field messages of denying results,
// merging messages for the same field with a stable separator.
func (c *Checker) ValidationMessages(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireChecked(); err != nil {
		return nil, err
	}
	c.resolveDeferred(ctx)

	perField := make(map[string][]string)
	for _, result := range c.results {
		if result.Allowed {
			continue
		}
		for field, msgs := range result.Validation {
			perField[field] = append(perField[field], msgs...)
		}
	}

	merged := make(map[string]string, len(perField))
	for field, msgs := range perField {
		merged[field] = pkgstrings.JoinDeduped(msgs, validationJoinSeparator)
	}
	return merged, nil
}

// AllMessages combines validation messages with the aggregated free-text
// feedback under the reserved aggregate key.
func (c *Checker) AllMessages(ctx context.Context) (map[string]string, error) {
	feedback, err := c.FeedbackMessages(ctx)
	if err != nil {
		return nil, err
	}
	validation, err := c.ValidationMessages(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(validation)+1)
	for field, msg := range validation {
		out[field] = msg
	}
	if len(feedback) > 0 {
		out[AggregateMessagesKey] = pkgstrings.JoinDeduped(feedback, validationJoinSeparator)
	}
	return out, nil
}

// Results returns the collected results in evaluation order.
func (c *Checker) Results() ([]*models.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireChecked(); err != nil {
		return nil, err
	}
	out := make([]*models.Result, len(c.results))
	copy(out, c.results)
	return out, nil
}

// requireChecked gates results-dependent queries. Callers hold c.mu.
func (c *Checker) requireChecked() error {
	if !c.checked {
		return dErrors.New(dErrors.CodeContract,
			"checker results queried before any check phase has run")
	}
	return nil
}

// resolveDeferred resolves pending deferred results against the final state
// of the run. Callers hold c.mu.
func (c *Checker) resolveDeferred(ctx context.Context) {
	for _, result := range c.results {
		if result.Deferred() {
			result.ResolveDeferred(ctx, c.results)
		}
	}
}

// emitDecision flushes the run log and decision to the audit trail. Callers
// hold c.mu.
func (c *Checker) emitDecision(ctx context.Context, allowed bool, total int) {
	if c.audit == nil {
		return
	}

	decision := "deny"
	if allowed {
		decision = "allow"
	}

	entries := c.runLog.Entries()
	rules := make([]audit.RuleEntry, 0, len(entries))
	for _, entry := range entries {
		rules = append(rules, audit.RuleEntry{
			RuleType:   entry.RuleType.String(),
			RuleName:   entry.RuleName,
			InstanceID: entry.InstanceID.String(),
			Points:     entry.PointsCharge,
			Detail:     entry.Detail,
		})
	}

	event := audit.Event{
		Action:    audit.ActionDecision,
		Context:   c.contextName,
		Subject:   requestcontext.ClientIP(ctx),
		Decision:  decision,
		Score:     total,
		RequestID: requestcontext.RequestID(ctx),
		Rules:     rules,
	}
	if err := c.audit.Emit(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "failed to emit decision audit event", "error", err)
	}
}
