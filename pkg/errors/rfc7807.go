package errors

import "net/http"

// typeBase prefixes every problem type URI; the suffix is the error code.
const typeBase = "https://calendars.dev/problems/"

// ValidationError represents a validation error for RFC 7807
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Code     string            `json:"code"`
	TraceID  string            `json:"trace_id,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return p.Detail
}

// WithTraceID adds a trace ID to the problem details
func (p *ProblemDetails) WithTraceID(traceID string) *ProblemDetails {
	p.TraceID = traceID
	return p
}

// NewProblemDetails renders err for the client. Client errors expose their
// code and the explanation set with Explain; server errors expose only the
// generic internal code. Wrapped causes are never exposed.
func NewProblemDetails(err error, instance string) *ProblemDetails {
	e := From(err)
	if e == nil {
		e = Internal
	}

	detail := e.Message
	if e.Status() >= http.StatusInternalServerError {
		detail = "An unexpected error occurred"
	}

	p := &ProblemDetails{
		Type:     typeBase + e.Code,
		Title:    http.StatusText(e.Status()),
		Status:   e.Status(),
		Detail:   detail,
		Instance: instance,
		Code:     e.Code,
	}
	for _, f := range e.Fields {
		p.Errors = append(p.Errors, ValidationError{Field: f.Field, Message: f.Message, Code: f.Kind})
	}
	return p
}
