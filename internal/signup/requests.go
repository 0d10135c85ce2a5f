package signup

import (
	dErrors "reggate/pkg/domain-errors"
)

// SubmitRequest is the HTTP request body for POST /signup. The form travels
// as an opaque string map; the gatekeeper never interprets host fields.
type SubmitRequest struct {
	Form map[string]string `json:"form"`
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SubmitRequest) Validate() error {
	if len(r.Form) == 0 {
		return dErrors.New(dErrors.CodeValidation, "form is required")
	}
	return nil
}
