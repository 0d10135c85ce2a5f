package models

import (
	"context"

	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
)

// LogInfo captures one rule's diagnostic entry for a checker run.
// Append-only; the run logger collects these for audit.
type LogInfo struct {
	RuleType     id.RuleType
	RuleName     string
	InstanceID   id.InstanceID
	PointsCharge int
	Detail       string
}

// Resolver re-evaluates whether a deferred denial still holds given the final
// state of all results of the run. Single-method interface rather than a bare
// closure so resolution logic stays inspectable and testable.
type Resolver interface {
	Resolve(ctx context.Context, finalResults []*Result) bool
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, finalResults []*Result) bool

func (f ResolverFunc) Resolve(ctx context.Context, finalResults []*Result) bool {
	return f(ctx, finalResults)
}

// Result is the outcome of one rule check. Score and messages are meaningful
// only on denials; an allowing result carries neither. Construct through
// NewAllow / NewDeny / NewDeferredDeny so the message invariant holds.
type Result struct {
	Allowed    bool
	Score      int
	Feedback   string
	Validation map[string][]string
	Log        *LogInfo

	resolver Resolver
	resolved bool
}

// NewAllow returns an allowing result: score 0, no messages.
func NewAllow() *Result {
	return &Result{Allowed: true}
}

// NewDeny returns a denying result. A denial carries either a free-text
// feedback message or per-field validation messages, never both; violating
// that is a programming error surfaced as a contract violation.
func NewDeny(score int, feedback string, validation map[string][]string, log *LogInfo) (*Result, error) {
	if feedback != "" && len(validation) > 0 {
		return nil, dErrors.New(dErrors.CodeContract,
			"a denying result must carry a feedback message or validation messages, not both")
	}
	return &Result{
		Allowed:    false,
		Score:      score,
		Feedback:   feedback,
		Validation: validation,
		Log:        log,
	}, nil
}

// NewDeferredDeny returns a denying result whose validity is confirmed only
// after all rules have run. The same message invariant applies.
func NewDeferredDeny(resolver Resolver, score int, feedback string, validation map[string][]string, log *LogInfo) (*Result, error) {
	if resolver == nil {
		return nil, dErrors.New(dErrors.CodeContract, "deferred denial requires a resolver")
	}
	res, err := NewDeny(score, feedback, validation, log)
	if err != nil {
		return nil, err
	}
	res.resolver = resolver
	return res, nil
}

// Deferred reports whether the result still has an unresolved resolver.
func (r *Result) Deferred() bool {
	return r.resolver != nil && !r.resolved
}

// ResolveDeferred invokes the resolver against the final results of the run
// and substitutes the outcome in place: when the denial no longer holds, the
// result becomes an allow. Resolution happens exactly once; later calls
// return the cached outcome.
func (r *Result) ResolveDeferred(ctx context.Context, finalResults []*Result) {
	if r.resolver == nil || r.resolved {
		return
	}
	r.resolved = true
	if !r.resolver.Resolve(ctx, finalResults) {
		r.Allowed = true
		r.Feedback = ""
		r.Validation = nil
	}
}
