package handler

import (
	"reggate/internal/gatekeeper/models"
	"reggate/internal/gatekeeper/settings"
	"reggate/pkg/platform/audit"
)

// TypesResponse lists the registered rule types.
type TypesResponse struct {
	Types []string `json:"types"`
}

// InstanceResponse is the HTTP shape of one configured rule instance.
type InstanceResponse struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	Enabled        bool              `json:"enabled"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Points         int               `json:"points"`
	FallbackPoints int               `json:"fallback_points"`
	SortOrder      int               `json:"sort_order"`
	Config         map[string]string `json:"config"`
}

// InstancesResponse wraps the instance list.
type InstancesResponse struct {
	Instances []InstanceResponse `json:"instances"`
}

// FromRecord converts a domain record to its HTTP shape. An undecodable
// config blob is surfaced as an empty config rather than failing the listing.
func FromRecord(rec models.Record) InstanceResponse {
	config, err := models.DecodeConfig(rec.Config)
	if err != nil {
		config = map[string]string{}
	}
	return InstanceResponse{
		ID:             rec.ID.String(),
		Type:           rec.Type.String(),
		Enabled:        rec.Enabled,
		Name:           rec.Name,
		Description:    rec.Description,
		Points:         rec.Points,
		FallbackPoints: rec.FallbackPoints,
		SortOrder:      rec.SortOrder,
		Config:         config,
	}
}

// FromRecords converts a record list.
func FromRecords(recs []models.Record) InstancesResponse {
	out := InstancesResponse{Instances: make([]InstanceResponse, 0, len(recs))}
	for _, rec := range recs {
		out.Instances = append(out.Instances, FromRecord(rec))
	}
	return out
}

// SettingsResponse is the HTTP shape of the site settings.
type SettingsResponse struct {
	Enabled     bool   `json:"enabled"`
	MaxPoints   int    `json:"max_points"`
	DenyMessage string `json:"deny_message"`
}

// FromSite converts domain settings to their HTTP shape.
func FromSite(site settings.Site) SettingsResponse {
	return SettingsResponse{
		Enabled:     site.Enabled,
		MaxPoints:   site.MaxPoints,
		DenyMessage: site.DenyMessage,
	}
}

// AuditResponse wraps the audit trail. Audit events already have a stable
// JSON shape; they travel unmodified.
type AuditResponse struct {
	Events []audit.Event `json:"events"`
}
