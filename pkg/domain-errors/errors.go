// Package domainerrors provides coded errors shared by services and
// transport. Handlers map codes onto HTTP statuses; services create and
// inspect them without importing net/http.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and logging.
type Code string

const (
	// CodeBadRequest marks malformed or undecodable input.
	CodeBadRequest Code = "bad_request"
	// CodeValidation marks syntactically valid input that fails validation.
	CodeValidation Code = "validation_error"
	// CodeInvalidInput marks a domain value outside its allowed set.
	CodeInvalidInput Code = "invalid_input"
	// CodeUnauthorized marks missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"
	// CodeConfiguration marks a broken installation: missing declared
	// instance-config fields, malformed persisted config, unknown rule types.
	// Never shown to end users and never scored as a denial.
	CodeConfiguration Code = "configuration_error"
	// CodeContract marks a programming error against a component contract,
	// such as constructing a denial with both message kinds set or querying
	// checker results before any phase has run.
	CodeContract Code = "contract_violation"
	// CodeUnavailable marks a dependency that could not be reached.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks everything else; details stay server-side.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error preserving the underlying cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, wrapped: err}
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the error chain carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
