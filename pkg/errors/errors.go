// Package errors provides kinded application errors and their RFC 7807 rendering.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error functions
var (
	Is     = errors.Is
	As     = errors.As
	Join   = errors.Join
	Unwrap = errors.Unwrap
)

// Stable error codes returned to clients. Internal detail never leaves the process.
const (
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "calendar_not_found"
	CodeInternal       = "internal_error"
)

// FieldError represents a validation error for a specific field
type FieldError struct {
	Kind    string `json:"kind"`
	Field   string `json:"field"`
	Message string `json:"message,omitempty"`
}

func (f *FieldError) Error() string {
	return fmt.Sprintf("%s (%s): %s", f.Field, f.Kind, f.Message)
}

func NewFieldError(kind, field, reason string) FieldError {
	return FieldError{Kind: kind, Field: field, Message: reason}
}

// Error is a custom error type for passing more information
type Error struct {
	// Kind is the returned error type
	Kind string `json:"kind"`
	// Code is the stable client-facing identifier of the kind
	Code string `json:"code"`
	// Message is the human readable string that indicate the error
	Message string `json:"message"`
	// Fields used when there's validation error for a field.
	Fields []FieldError `json:"fields,omitempty"`

	status int
	cause  error
}

var _ error = (*Error)(nil)

func newKind(kind string, status int, code string) *Error {
	return &Error{Kind: kind, Code: code, status: status}
}

// Conflict and Unavailable classify storage failures for logs only; clients
// see them as Internal.
var (
	Invalid     *Error = newKind("Bad Request", http.StatusBadRequest, CodeInvalidRequest)
	NotFound    *Error = newKind("Not Found", http.StatusNotFound, CodeNotFound)
	Conflict    *Error = newKind("Conflict", http.StatusInternalServerError, CodeInternal)
	Unavailable *Error = newKind("Unavailable", http.StatusInternalServerError, CodeInternal)
	Internal    *Error = newKind("Internal Server Error", http.StatusInternalServerError, CodeInternal)
)

// Error implements error
func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] ", e.Kind)
	if e.Message != "" {
		str += e.Message
	}
	if e.cause != nil {
		str += fmt.Sprintf(" (%s)", e.cause)
	}
	return str
}

// Status is the HTTP status associated with the error kind.
func (e *Error) Status() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Wrap returns a copy of the error with the cause set.
func (e *Error) Wrap(cause error) *Error {
	err := *e
	err.cause = cause
	return &err
}

// Explain makes a copy of the error with given message
func (e *Error) Explain(message string, args ...any) *Error {
	err := *e
	err.Message = fmt.Sprintf(message, args...)
	return &err
}

// WithField returns a copy of error with one more field error appended.
func (e *Error) WithField(kind, field, message string) *Error {
	newError := *e
	newError.Fields = append(append([]FieldError(nil), e.Fields...), NewFieldError(kind, field, message))
	return &newError
}

// Is implements the needed interface for errors.Is
// It checks kind for equality
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if other, ok := target.(*Error); ok {
		return other.Kind == e.Kind
	}
	return false
}

// From returns the first *Error in err's chain, or an Internal error wrapping err.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if As(err, &e) {
		return e
	}
	return Internal.Wrap(err)
}
