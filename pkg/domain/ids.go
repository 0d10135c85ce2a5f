// Package domain holds identifier primitives shared across features.
// Constructing them through the Parse helpers keeps validation at trust
// boundaries; direct casting bypasses it.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// InstanceID identifies one configured rule instance.
type InstanceID uuid.UUID

// NewInstanceID returns a fresh random instance ID.
func NewInstanceID() InstanceID {
	return InstanceID(uuid.New())
}

// ParseInstanceID constructs an InstanceID from external input.
func ParseInstanceID(s string) (InstanceID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return InstanceID{}, fmt.Errorf("parse instance id: %w", err)
	}
	return InstanceID(u), nil
}

// String returns the canonical UUID form.
func (i InstanceID) String() string {
	return uuid.UUID(i).String()
}

// IsNil reports whether the ID is the zero value.
func (i InstanceID) IsNil() bool {
	return uuid.UUID(i) == uuid.Nil
}

// RuleType identifies a rule plugin type. Valid values are whatever the
// process-level registry has registered, so parsing happens against the
// registry rather than a static allowlist here.
type RuleType string

// String returns the string representation of the rule type.
func (t RuleType) String() string {
	return string(t)
}
