package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agentic-research/ublgen/internal/schema"
)

// systemKey is consumed for schema selection and never mapped or reported
// as unmapped.
const systemKey = "documenttype"

// Mapper walks raw JSON values against a Descriptor, producing a matched
// tree plus the list of input keys the schema has no node for. A Mapper is
// stateless and safe for concurrent use across documents of its type.
type Mapper struct {
	desc     *schema.Descriptor
	maxDepth int
}

// NewMapper creates a mapper for one document type. maxDepth bounds tree
// recursion; zero or negative selects the default of 20.
func NewMapper(desc *schema.Descriptor, maxDepth int) *Mapper {
	if maxDepth <= 0 {
		maxDepth = 20
	}
	return &Mapper{desc: desc, maxDepth: maxDepth}
}

// Map converts one raw JSON object into a matched tree. Unmapped input keys
// are returned as sorted path strings (invoice_lines[0].custom_field) and do
// not appear in the tree. A JSON null becomes a present-but-null node, never
// an absent one.
func (m *Mapper) Map(raw map[string]any) (*Node, []string, error) {
	run := &mapRun{mapper: m}
	root, err := run.object(raw, m.desc.Fields, "", 0, true)
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(run.unmapped)
	return root, run.unmapped, nil
}

// mapRun accumulates unmapped paths for a single Map call.
type mapRun struct {
	mapper   *Mapper
	unmapped []string
}

func (r *mapRun) object(obj map[string]any, siblings []*schema.FieldNode, path string, depth int, root bool) (*Node, error) {
	if depth > r.mapper.maxDepth {
		return nil, &MappingError{Path: path, Reason: fmt.Sprintf("exceeds max recursion depth %d", r.mapper.maxDepth)}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := newComplex()
	for _, key := range keys {
		if root && schema.NormalizeKey(key) == systemKey {
			continue
		}
		field := Match(key, siblings)
		if field == nil {
			r.unmapped = append(r.unmapped, joinPath(path, key))
			continue
		}
		child, err := r.value(obj[key], field, joinPath(path, key), depth)
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.Fields[field.Key] = child
		}
	}
	return node, nil
}

func (r *mapRun) value(v any, field *schema.FieldNode, path string, depth int) (*Node, error) {
	if v == nil {
		// Null stays present even for a repeatable node: one null occurrence,
		// the same shape a [null] input produces.
		if field.Repeatable {
			return &Node{Kind: ListNode, Items: []*Node{newNull()}}, nil
		}
		return newNull(), nil
	}
	if field.Repeatable {
		return r.list(v, field, path, depth)
	}
	return r.single(v, field, path, depth)
}

func (r *mapRun) list(v any, field *schema.FieldNode, path string, depth int) (*Node, error) {
	items, ok := v.([]any)
	if !ok {
		items = []any{v} // single value for a repeatable node counts as one occurrence
	}
	node := &Node{Kind: ListNode, Items: make([]*Node, 0, len(items))}
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if item == nil {
			node.Items = append(node.Items, newNull())
			continue
		}
		built, err := r.single(item, field, itemPath, depth)
		if err != nil {
			return nil, err
		}
		if built != nil {
			node.Items = append(node.Items, built)
		}
	}
	return node, nil
}

// single maps one occurrence of a field, repeatable or not.
func (r *mapRun) single(v any, field *schema.FieldNode, path string, depth int) (*Node, error) {
	if field.Kind == schema.KindComplex {
		switch val := v.(type) {
		case map[string]any:
			return r.object(val, field.Children, path, depth+1, false)
		case []any:
			// A list where the schema declares a single element: first wins.
			if len(val) == 0 {
				return nil, nil
			}
			return r.single(val[0], field, path+"[0]", depth)
		default:
			return newScalar(stringify(v)), nil
		}
	}

	switch val := v.(type) {
	case map[string]any:
		return r.leafObject(val, field, path)
	case []any:
		if len(val) == 0 {
			return nil, nil
		}
		return r.single(val[0], field, path+"[0]", depth)
	default:
		text, err := coerce(v, field.Kind, path)
		if err != nil {
			return nil, err
		}
		return newScalar(text), nil
	}
}

// leafObject maps {"value": ..., "currencyid": ...} shapes onto a leaf that
// declares attributes. Keys with no matching attribute are unmapped.
func (r *mapRun) leafObject(obj map[string]any, field *schema.FieldNode, path string) (*Node, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := newScalar("")
	hasValue := false
	for _, key := range keys {
		norm := schema.NormalizeKey(key)
		if norm == "value" || norm == "_value" {
			raw := obj[key]
			if raw == nil {
				node.Null = true
			} else {
				text, err := coerce(raw, field.Kind, joinPath(path, key))
				if err != nil {
					return nil, err
				}
				node.Value = text
			}
			hasValue = true
			continue
		}
		attr := matchAttribute(norm, field)
		if attr == nil {
			r.unmapped = append(r.unmapped, joinPath(path, key))
			continue
		}
		if obj[key] == nil {
			continue
		}
		if node.Attrs == nil {
			node.Attrs = make(map[string]string)
		}
		node.Attrs[attr.Key] = stringify(obj[key])
	}
	if !hasValue && len(node.Attrs) == 0 {
		return nil, &MappingError{
			Path:     path,
			Expected: field.Kind.String(),
			Actual:   "object",
			Reason:   "object supplied for a simple element without a value key",
		}
	}
	return node, nil
}

func matchAttribute(norm string, field *schema.FieldNode) *schema.Attribute {
	for _, a := range field.Attributes {
		if a.Key == norm {
			return a
		}
	}
	return nil
}

// coerce converts a raw scalar into the string form dictated by the schema
// primitive. Failures name the offending path.
func coerce(v any, kind schema.Kind, path string) (string, error) {
	switch kind {
	case schema.KindNumber:
		switch val := v.(type) {
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64), nil
		case int64:
			return strconv.FormatInt(val, 10), nil
		case int:
			return strconv.Itoa(val), nil
		case string:
			trimmed := strings.TrimSpace(val)
			if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
				return "", &MappingError{Path: path, Expected: "number", Actual: val, Reason: "value does not parse as a number"}
			}
			return trimmed, nil
		default:
			return "", &MappingError{Path: path, Expected: "number", Actual: fmt.Sprintf("%v", v), Reason: "value does not parse as a number"}
		}
	case schema.KindDate:
		s, ok := v.(string)
		if !ok {
			return "", &MappingError{Path: path, Expected: "date", Actual: fmt.Sprintf("%v", v), Reason: "value does not parse as a date"}
		}
		return normalizeDate(s, path)
	case schema.KindBool:
		switch val := v.(type) {
		case bool:
			return strconv.FormatBool(val), nil
		case string:
			switch strings.ToLower(strings.TrimSpace(val)) {
			case "true", "1":
				return "true", nil
			case "false", "0":
				return "false", nil
			}
			return "", &MappingError{Path: path, Expected: "boolean", Actual: val, Reason: "value is not a boolean lexical form"}
		case float64:
			if val == 1 {
				return "true", nil
			}
			if val == 0 {
				return "false", nil
			}
			return "", &MappingError{Path: path, Expected: "boolean", Actual: fmt.Sprintf("%v", v), Reason: "value is not a boolean lexical form"}
		default:
			return "", &MappingError{Path: path, Expected: "boolean", Actual: fmt.Sprintf("%v", v), Reason: "value is not a boolean lexical form"}
		}
	default:
		return stringify(v), nil
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// normalizeDate reduces accepted inputs to the XSD date form YYYY-MM-DD.
func normalizeDate(s string, path string) (string, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", &MappingError{Path: path, Expected: "date", Actual: s, Reason: "value does not parse as a date"}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
