package handler

import (
	"net/http"
	"strconv"
	"strings"

	"reggate/internal/gatekeeper/admin"
	"reggate/internal/gatekeeper/instances"
	"reggate/internal/gatekeeper/settings"
	id "reggate/pkg/domain"
	dErrors "reggate/pkg/domain-errors"
)

// InstanceRequest is the HTTP request body for adding or updating a rule
// instance.
type InstanceRequest struct {
	Type           string            `json:"type"`
	Enabled        bool              `json:"enabled"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Points         int               `json:"points"`
	FallbackPoints int               `json:"fallback_points"`
	Config         map[string]string `json:"config"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *InstanceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Type = strings.TrimSpace(r.Type)
	if r.Type == "" {
		return dErrors.New(dErrors.CodeValidation, "type is required")
	}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 100 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 100 characters")
	}

	if r.Points < 0 {
		return dErrors.New(dErrors.CodeValidation, "points must not be negative")
	}
	if r.FallbackPoints < 0 {
		return dErrors.New(dErrors.CodeValidation, "fallback_points must not be negative")
	}
	return nil
}

// Form converts the request into the domain instance form.
func (r *InstanceRequest) Form() instances.InstanceForm {
	return instances.InstanceForm{
		Type:           id.RuleType(r.Type),
		Enabled:        r.Enabled,
		Name:           r.Name,
		Description:    r.Description,
		Points:         r.Points,
		FallbackPoints: r.FallbackPoints,
		Config:         r.Config,
	}
}

// MoveRequest is the HTTP request body for reordering an instance.
type MoveRequest struct {
	Direction string `json:"direction"`

	parsedDirection admin.MoveDirection
}

// Validate implements the Validatable interface.
func (r *MoveRequest) Validate() error {
	switch admin.MoveDirection(r.Direction) {
	case admin.MoveUp, admin.MoveDown:
		r.parsedDirection = admin.MoveDirection(r.Direction)
		return nil
	default:
		return dErrors.Newf(dErrors.CodeValidation, "direction must be %q or %q", admin.MoveUp, admin.MoveDown)
	}
}

// ParsedDirection returns the validated direction.
func (r *MoveRequest) ParsedDirection() admin.MoveDirection {
	return r.parsedDirection
}

// SettingsRequest is the HTTP request body for the site settings.
type SettingsRequest struct {
	Enabled     bool   `json:"enabled"`
	MaxPoints   int    `json:"max_points"`
	DenyMessage string `json:"deny_message"`
}

// Validate implements the Validatable interface.
func (r *SettingsRequest) Validate() error {
	if r.MaxPoints <= 0 {
		return dErrors.New(dErrors.CodeValidation, "max_points must be positive")
	}
	return nil
}

// Site converts the request into the domain settings.
func (r *SettingsRequest) Site() settings.Site {
	return settings.Site{
		Enabled:     r.Enabled,
		MaxPoints:   r.MaxPoints,
		DenyMessage: r.DenyMessage,
	}
}

// PluginSettingRequest is the HTTP request body for a plugin-wide setting.
type PluginSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Validate implements the Validatable interface.
func (r *PluginSettingRequest) Validate() error {
	r.Key = strings.TrimSpace(r.Key)
	if r.Key == "" {
		return dErrors.New(dErrors.CodeValidation, "key is required")
	}
	return nil
}

// auditLogLimit parses the optional limit query parameter.
func auditLogLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return 50
	}
	return limit
}
