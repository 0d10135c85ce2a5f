package signup

import (
	"reggate/internal/gatekeeper/models"
)

// FieldResponse is one injected form field.
type FieldResponse struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`
}

// FormResponse is the HTTP response for GET /signup.
type FormResponse struct {
	Fields []FieldResponse `json:"fields"`
}

// FromForm converts the extended form to its HTTP shape.
func FromForm(form *models.Form) FormResponse {
	fields := form.Fields()
	out := FormResponse{Fields: make([]FieldResponse, 0, len(fields))}
	for _, f := range fields {
		out.Fields = append(out.Fields, FieldResponse{
			Name:  f.Name,
			Kind:  string(f.Kind),
			Label: f.Label,
			Value: f.Value,
		})
	}
	return out
}

// SubmitResponse is the HTTP response for an accepted signup.
type SubmitResponse struct {
	Status string `json:"status"`
}

// DenialResponse is the HTTP response for a blocked signup.
type DenialResponse struct {
	Status   string            `json:"status"`
	Messages map[string]string `json:"messages"`
}
