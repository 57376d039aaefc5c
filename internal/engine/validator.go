package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/agentic-research/ublgen/internal/schema"
)

// Validate walks a matched (or merged) tree against its descriptor and
// returns every violation found in one pass: required nodes that are absent
// or null when their ancestors are present, and present leaves whose stored
// text does not satisfy the declared primitive's lexical form. An empty
// result means the tree may be serialized.
func Validate(desc *schema.Descriptor, doc *Node) []Violation {
	if doc == nil {
		doc = newComplex()
	}
	var out []Violation
	validateFields(desc.Fields, doc, "", &out)
	return out
}

func validateFields(siblings []*schema.FieldNode, node *Node, path string, out *[]Violation) {
	if node == nil || node.Fields == nil {
		node = newComplex()
	}
	for _, field := range siblings {
		child := node.Fields[field.Key]
		childPath := joinPath(path, field.Name)

		if child == nil {
			if field.Required {
				*out = append(*out, Violation{
					Path:    childPath,
					Code:    "required-missing",
					Message: fmt.Sprintf("required element %s is missing", field.Name),
				})
			}
			// Optional subtree absent: its required descendants do not apply.
			continue
		}

		if field.Repeatable {
			if len(child.Items) == 0 && field.Required {
				*out = append(*out, Violation{
					Path:    childPath,
					Code:    "required-missing",
					Message: fmt.Sprintf("required element %s has no occurrences", field.Name),
				})
				continue
			}
			for i, item := range child.Items {
				validateOccurrence(field, item, fmt.Sprintf("%s[%d]", childPath, i), out)
			}
			continue
		}
		validateOccurrence(field, child, childPath, out)
	}
}

func validateOccurrence(field *schema.FieldNode, node *Node, path string, out *[]Violation) {
	if node.Null {
		if field.Required {
			*out = append(*out, Violation{
				Path:    path,
				Code:    "required-null",
				Message: fmt.Sprintf("required element %s is null", field.Name),
			})
		}
		return
	}
	if field.Kind == schema.KindComplex {
		if node.Kind == ComplexNode {
			validateFields(field.Children, node, path, out)
		}
		return
	}
	if node.Kind != ScalarNode {
		return
	}
	if v := lexicalViolation(field, node.Value, path); v != nil {
		*out = append(*out, *v)
	}
}

func lexicalViolation(field *schema.FieldNode, value, path string) *Violation {
	switch field.Kind {
	case schema.KindNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return &Violation{
				Path:     path,
				Code:     "bad-number",
				Message:  fmt.Sprintf("value %q is not numeric", value),
				Expected: "number",
				Actual:   value,
			}
		}
	case schema.KindDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return &Violation{
				Path:     path,
				Code:     "bad-date",
				Message:  fmt.Sprintf("value %q is not a date (YYYY-MM-DD)", value),
				Expected: "date",
				Actual:   value,
			}
		}
	case schema.KindBool:
		if value != "true" && value != "false" {
			return &Violation{
				Path:     path,
				Code:     "bad-boolean",
				Message:  fmt.Sprintf("value %q is not a boolean", value),
				Expected: "boolean",
				Actual:   value,
			}
		}
	}
	return nil
}
