package schema

import "strings"

// Kind classifies the value space of a field as declared by the schema.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindDate
	KindBool
	KindComplex
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "boolean"
	case KindComplex:
		return "complex"
	}
	return "unknown"
}

// Attribute is an attribute declared on a simple-content element,
// e.g. currencyID on UBL amount types.
type Attribute struct {
	Name string `json:"name"` // schema casing
	Key  string `json:"key"`  // normalized lookup key
}

// FieldNode is one element in a compiled document schema. Children preserve
// XSD sequence order; that order is authoritative for serialization.
type FieldNode struct {
	Name       string       `json:"name"`             // schema casing, e.g. "LineExtensionAmount"
	Key        string       `json:"key"`              // normalized lowercase key
	Prefix     string       `json:"prefix,omitempty"` // namespace prefix (cac, cbc, ext); "" inherits the document namespace
	TypeRef    string       `json:"type,omitempty"`   // declared XSD type or ref
	Kind       Kind         `json:"kind"`
	Required   bool         `json:"required"`
	Repeatable bool         `json:"repeatable"`
	Attributes []*Attribute `json:"attributes,omitempty"`
	Children   []*FieldNode `json:"children,omitempty"`
}

// Leaf reports whether the node carries text content rather than children.
func (f *FieldNode) Leaf() bool {
	return f.Kind != KindComplex
}

// Descriptor is the compiled, immutable schema for one document type.
// It is built once per type and shared by reference across conversions.
type Descriptor struct {
	DocType   string            `json:"doc_type"`  // e.g. "Invoice"
	RootName  string            `json:"root_name"` // root element local name
	Namespace string            `json:"namespace"` // document target namespace
	Prefixes  map[string]string `json:"prefixes"`  // prefix -> namespace URI
	Fields    []*FieldNode      `json:"fields"`
}

// NormalizeKey lowercases a name and strips underscores so that input keys
// like invoice_lines, invoiceLines and INVOICELINE all collapse to the same
// lookup form.
func NormalizeKey(name string) string {
	lower := strings.ToLower(name)
	if !strings.Contains(lower, "_") {
		return lower
	}
	return strings.ReplaceAll(lower, "_", "")
}
