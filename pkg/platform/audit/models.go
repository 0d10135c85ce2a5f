// Package audit captures structured audit events for gatekeeping decisions
// and admin changes. Events are transport-agnostic so stores and sinks can
// fan out.
package audit

import (
	"context"
	"time"
)

// Actions emitted by the engine and the admin surface.
const (
	ActionDecision        = "gatekeeper.decision"
	ActionInstanceAdded   = "gatekeeper.instance.added"
	ActionInstanceUpdated = "gatekeeper.instance.updated"
	ActionInstanceDeleted = "gatekeeper.instance.deleted"
	ActionInstanceMoved   = "gatekeeper.instance.moved"
	ActionInstanceToggled = "gatekeeper.instance.toggled"
	ActionSettingsChanged = "gatekeeper.settings.changed"
)

// RuleEntry is one rule's contribution to a decision event.
type RuleEntry struct {
	RuleType   string `json:"rule_type"`
	RuleName   string `json:"rule_name"`
	InstanceID string `json:"instance_id"`
	Points     int    `json:"points"`
	Detail     string `json:"detail,omitempty"`
}

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Timestamp time.Time   `json:"timestamp"`
	Action    string      `json:"action"`
	Context   string      `json:"context,omitempty"`
	Subject   string      `json:"subject,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	Decision  string      `json:"decision,omitempty"`
	Score     int         `json:"score,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Rules     []RuleEntry `json:"rules,omitempty"`
}

// Store persists audit events. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context, limit int) ([]Event, error)
}

// Sink receives events for out-of-process delivery (Kafka).
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
