package engine

import (
	"bytes"
	"encoding/xml"
	"sort"

	"github.com/agentic-research/ublgen/internal/schema"
)

const currencyAttrKey = "currencyid"

// Serialize renders a matched tree as namespace-qualified XML text. It
// validates first and refuses to render a tree with outstanding violations,
// so a partially valid document can never reach disk. Children appear in
// schema-declared order, absent optional nodes are omitted, explicit nulls
// render as empty elements, and repeatable entries keep their merged order.
func Serialize(desc *schema.Descriptor, doc *Node) (string, error) {
	if violations := Validate(desc, doc); len(violations) > 0 {
		return "", &ValidationError{Violations: violations}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	buf.WriteByte('<')
	buf.WriteString(desc.RootName)
	buf.WriteString(` xmlns="`)
	buf.WriteString(desc.Namespace)
	buf.WriteByte('"')
	for _, prefix := range sortedPrefixes(desc.Prefixes) {
		buf.WriteString(" xmlns:")
		buf.WriteString(prefix)
		buf.WriteString(`="`)
		buf.WriteString(desc.Prefixes[prefix])
		buf.WriteByte('"')
	}
	buf.WriteString(">\n")

	s := &serializer{desc: desc, buf: &buf, docCurrency: documentCurrency(doc)}
	s.fields(desc.Fields, doc, 1)

	buf.WriteString("</")
	buf.WriteString(desc.RootName)
	buf.WriteString(">\n")
	return buf.String(), nil
}

type serializer struct {
	desc        *schema.Descriptor
	buf         *bytes.Buffer
	docCurrency string
}

func (s *serializer) fields(siblings []*schema.FieldNode, node *Node, depth int) {
	if node == nil || node.Fields == nil {
		return
	}
	for _, field := range siblings {
		child := node.Fields[field.Key]
		if child == nil {
			continue
		}
		if field.Repeatable {
			for _, item := range child.Items {
				s.element(field, item, depth)
			}
			continue
		}
		s.element(field, child, depth)
	}
}

func (s *serializer) element(field *schema.FieldNode, node *Node, depth int) {
	name := s.qualified(field)
	s.indent(depth)

	if node.Null {
		s.buf.WriteByte('<')
		s.buf.WriteString(name)
		s.writeAttrs(field, node)
		s.buf.WriteString("></")
		s.buf.WriteString(name)
		s.buf.WriteString(">\n")
		return
	}

	if field.Kind == schema.KindComplex && node.Kind == ComplexNode {
		s.buf.WriteByte('<')
		s.buf.WriteString(name)
		s.buf.WriteString(">\n")
		s.fields(field.Children, node, depth+1)
		s.indent(depth)
		s.buf.WriteString("</")
		s.buf.WriteString(name)
		s.buf.WriteString(">\n")
		return
	}

	s.buf.WriteByte('<')
	s.buf.WriteString(name)
	s.writeAttrs(field, node)
	s.buf.WriteByte('>')
	s.escape(node.Value)
	s.buf.WriteString("</")
	s.buf.WriteString(name)
	s.buf.WriteString(">\n")
}

// writeAttrs renders declared attributes in schema order. A declared
// currencyID with no supplied value falls back to the document-level
// currency code.
func (s *serializer) writeAttrs(field *schema.FieldNode, node *Node) {
	for _, attr := range field.Attributes {
		value, ok := "", false
		if node.Attrs != nil {
			value, ok = node.Attrs[attr.Key]
		}
		if !ok && attr.Key == currencyAttrKey && s.docCurrency != "" {
			value, ok = s.docCurrency, true
		}
		if !ok {
			continue
		}
		s.buf.WriteByte(' ')
		s.buf.WriteString(attr.Name)
		s.buf.WriteString(`="`)
		s.escape(value)
		s.buf.WriteByte('"')
	}
}

func (s *serializer) qualified(field *schema.FieldNode) string {
	if field.Prefix != "" {
		if _, ok := s.desc.Prefixes[field.Prefix]; ok {
			return field.Prefix + ":" + field.Name
		}
	}
	return field.Name
}

func (s *serializer) indent(depth int) {
	for i := 0; i < depth; i++ {
		s.buf.WriteString("  ")
	}
}

func (s *serializer) escape(text string) {
	_ = xml.EscapeText(s.buf, []byte(text))
}

func sortedPrefixes(prefixes map[string]string) []string {
	out := make([]string, 0, len(prefixes))
	for p := range prefixes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// documentCurrency extracts the document-level currency code used as the
// currencyID fallback on amount attributes.
func documentCurrency(doc *Node) string {
	if doc == nil || doc.Fields == nil {
		return ""
	}
	if n := doc.Fields["documentcurrencycode"]; n != nil && n.Kind == ScalarNode && !n.Null {
		return n.Value
	}
	return ""
}
