package api

import (
	"errors"

	"github.com/agentic-research/ublgen/internal/batch"
)

// ErrorDescriptor is the machine-readable form of a conversion error.
type ErrorDescriptor struct {
	Code    string         `json:"error_code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// codedError is implemented by every error in the conversion taxonomy.
type codedError interface {
	error
	Code() string
	Details() map[string]any
}

func describe(err error) *ErrorDescriptor {
	if err == nil {
		return nil
	}
	var coded codedError
	if errors.As(err, &coded) {
		return &ErrorDescriptor{Code: coded.Code(), Message: coded.Error(), Details: coded.Details()}
	}
	return &ErrorDescriptor{Code: "InternalError", Message: err.Error()}
}

// DocumentResult is the outcome for one logical document.
type DocumentResult struct {
	ID             string           `json:"id"`
	DocumentType   string           `json:"document_type"`
	XML            string           `json:"xml,omitempty"`
	UnmappedFields []string         `json:"unmapped_fields,omitempty"`
	Error          *ErrorDescriptor `json:"error,omitempty"`
}

// Outcome aggregates a batch conversion. The invariant from the error
// policy holds here: when Error is set the batch failed fast on a
// structural precondition and Documents is empty.
type Outcome struct {
	Documents    []DocumentResult `json:"documents"`
	TotalInputs  int              `json:"total_inputs"`
	FilesCreated int              `json:"files_created"`
	TypeCounts   map[string]int   `json:"document_types"`
	Error        *ErrorDescriptor `json:"error,omitempty"`
}

// Failed returns the results of documents that did not convert.
func (o *Outcome) Failed() []DocumentResult {
	var out []DocumentResult
	for _, d := range o.Documents {
		if d.Error != nil {
			out = append(out, d)
		}
	}
	return out
}

func outcomeFrom(b *batch.Outcome) *Outcome {
	out := &Outcome{
		TotalInputs:  b.TotalInputs,
		FilesCreated: b.FilesCreated,
		TypeCounts:   b.TypeCounts,
		Error:        describe(b.Err),
	}
	if b.Err != nil {
		return out
	}
	out.Documents = make([]DocumentResult, 0, len(b.Documents))
	for _, rec := range b.Documents {
		out.Documents = append(out.Documents, DocumentResult{
			ID:             rec.ID,
			DocumentType:   rec.DocType,
			XML:            rec.XML,
			UnmappedFields: rec.Unmapped,
			Error:          describe(rec.Err),
		})
	}
	return out
}
