package schema

import "fmt"

// UnknownTypeError reports a document type code or name that does not map to
// any known UBL 2.1 document type.
type UnknownTypeError struct {
	Given string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown document type %q", e.Given)
}

// Code returns the machine-readable error code.
func (e *UnknownTypeError) Code() string { return "UnknownDocumentType" }

// Details returns the structured error payload.
func (e *UnknownTypeError) Details() map[string]any {
	return map[string]any{"document_type": e.Given}
}

// CompileError reports a malformed XSD or an unresolvable type reference
// encountered while compiling a descriptor.
type CompileError struct {
	DocType string
	Reason  string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compile schema %s: %s: %v", e.DocType, e.Reason, e.Err)
	}
	return fmt.Sprintf("compile schema %s: %s", e.DocType, e.Reason)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Code returns the machine-readable error code.
func (e *CompileError) Code() string { return "SchemaCompileError" }

// Details returns the structured error payload.
func (e *CompileError) Details() map[string]any {
	return map[string]any{"document_type": e.DocType, "reason": e.Reason}
}
