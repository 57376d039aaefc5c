package engine

import (
	"fmt"
	"strings"
)

// MappingError reports input that cannot be matched or coerced onto the
// schema descriptor.
type MappingError struct {
	Path     string // offending input path, e.g. invoice_lines[0].price_amount
	Expected string // schema expectation (primitive kind or structure)
	Actual   string // what the input supplied
	Reason   string
}

func (e *MappingError) Error() string {
	if e.Path == "" {
		return "mapping: " + e.Reason
	}
	return fmt.Sprintf("mapping %s: %s", e.Path, e.Reason)
}

// Code returns the machine-readable error code.
func (e *MappingError) Code() string { return "MappingError" }

// Details returns the structured error payload.
func (e *MappingError) Details() map[string]any {
	d := map[string]any{"reason": e.Reason}
	if e.Path != "" {
		d["path"] = e.Path
	}
	if e.Expected != "" {
		d["expected"] = e.Expected
	}
	if e.Actual != "" {
		d["actual"] = e.Actual
	}
	return d
}

// MergeError reports fragments that share an identity but cannot be merged
// into one document.
type MergeError struct {
	ID     string
	Reason string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge %s: %s", e.ID, e.Reason)
}

// Code returns the machine-readable error code.
func (e *MergeError) Code() string { return "MergeError" }

// Details returns the structured error payload.
func (e *MergeError) Details() map[string]any {
	return map[string]any{"id": e.ID, "reason": e.Reason}
}

// Violation is one validation finding, tagged with its schema path.
type Violation struct {
	Path     string `json:"path"`
	Code     string `json:"code"` // required-missing, required-null, bad-number, bad-date, bad-boolean
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ValidationError carries the complete violation list for one document.
// Serialization is gated on this list being empty.
type ValidationError struct {
	DocumentID string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("validation failed (%d violations): %s", len(e.Violations), strings.Join(msgs, "; "))
}

// Code returns the machine-readable error code.
func (e *ValidationError) Code() string { return "ValidationError" }

// Details returns the structured error payload.
func (e *ValidationError) Details() map[string]any {
	d := map[string]any{"violations": e.Violations}
	if e.DocumentID != "" {
		d["id"] = e.DocumentID
	}
	return d
}
