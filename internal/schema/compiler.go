package schema

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"
)

// UBL 2.1 namespace URIs shared by every document type.
const (
	NamespaceCBC = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NamespaceCAC = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NamespaceEXT = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
)

var commonFiles = map[string]string{
	"cbc": "common/UBL-CommonBasicComponents-2.1.xsd",
	"cac": "common/UBL-CommonAggregateComponents-2.1.xsd",
	"ext": "common/UBL-CommonExtensionComponents-2.1.xsd",
}

// Minimal XSD document model, decoded with encoding/xml. Only the constructs
// UBL 2.1 maindocs and common components use are represented.
type xsdSchema struct {
	XMLName         xml.Name         `xml:"http://www.w3.org/2001/XMLSchema schema"`
	TargetNamespace string           `xml:"targetNamespace,attr"`
	Elements        []xsdElement     `xml:"element"`
	ComplexTypes    []xsdComplexType `xml:"complexType"`
}

type xsdElement struct {
	Name      string `xml:"name,attr"`
	Ref       string `xml:"ref,attr"`
	Type      string `xml:"type,attr"`
	MinOccurs string `xml:"minOccurs,attr"`
	MaxOccurs string `xml:"maxOccurs,attr"`
}

type xsdComplexType struct {
	Name          string            `xml:"name,attr"`
	Sequence      *xsdSequence      `xml:"sequence"`
	SimpleContent *xsdSimpleContent `xml:"simpleContent"`
}

type xsdSequence struct {
	Elements []xsdElement `xml:"element"`
}

type xsdSimpleContent struct {
	Extension *xsdExtension `xml:"extension"`
}

type xsdExtension struct {
	Base       string         `xml:"base,attr"`
	Attributes []xsdAttribute `xml:"attribute"`
}

type xsdAttribute struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
	Use  string `xml:"use,attr"`
}

// Compiler builds immutable Descriptors from a UBL schema tree laid out as
// maindoc/UBL-<Type>-2.1.xsd plus common/UBL-Common*Components-2.1.xsd.
// Compile may be called concurrently for distinct document types.
type Compiler struct {
	fsys     fs.FS
	maxDepth int

	commonOnce sync.Once
	commonErr  error
	common     map[string]*xsdSchema // prefix -> parsed common schema
}

// NewCompiler creates a compiler reading XSD files from fsys. maxDepth bounds
// type-resolution recursion; zero or negative selects the default of 20.
func NewCompiler(fsys fs.FS, maxDepth int) *Compiler {
	if maxDepth <= 0 {
		maxDepth = 20
	}
	return &Compiler{fsys: fsys, maxDepth: maxDepth}
}

// SourcePath returns the maindoc XSD path for a document type.
func SourcePath(docType string) string {
	return "maindoc/UBL-" + docType + "-2.1.xsd"
}

// SourceModTime stats the maindoc XSD and returns its mtime in unix seconds.
func (c *Compiler) SourceModTime(docType string) (int64, error) {
	info, err := fs.Stat(c.fsys, SourcePath(docType))
	if err != nil {
		return 0, fmt.Errorf("stat schema source: %w", err)
	}
	return info.ModTime().Unix(), nil
}

// Compile parses the maindoc XSD for docType and builds its Descriptor.
// docType must already be a canonical type name (see ResolveType).
func (c *Compiler) Compile(docType string) (*Descriptor, error) {
	main, err := c.parseFile(SourcePath(docType))
	if err != nil {
		return nil, &CompileError{DocType: docType, Reason: "read maindoc XSD", Err: err}
	}
	if err := c.loadCommon(); err != nil {
		return nil, &CompileError{DocType: docType, Reason: "read common components", Err: err}
	}

	root := findElement(main.Elements, docType)
	if root == nil {
		return nil, &CompileError{DocType: docType, Reason: fmt.Sprintf("root element %s not declared", docType)}
	}
	if root.Type == "" {
		return nil, &CompileError{DocType: docType, Reason: fmt.Sprintf("root element %s has no type", docType)}
	}

	r := &resolver{compiler: c, main: main, docType: docType}
	ct := r.findComplexType(root.Type)
	if ct == nil {
		return nil, &CompileError{DocType: docType, Reason: fmt.Sprintf("unresolved root type %s", root.Type)}
	}
	fields, err := r.sequenceFields(ct, 0, map[string]bool{localName(root.Type): true})
	if err != nil {
		return nil, err
	}

	ns := main.TargetNamespace
	if ns == "" {
		ns = "urn:oasis:names:specification:ubl:schema:xsd:" + docType + "-2"
	}
	return &Descriptor{
		DocType:   docType,
		RootName:  docType,
		Namespace: ns,
		Prefixes: map[string]string{
			"cbc": NamespaceCBC,
			"cac": NamespaceCAC,
			"ext": NamespaceEXT,
		},
		Fields: fields,
	}, nil
}

func (c *Compiler) parseFile(path string) (*xsdSchema, error) {
	data, err := fs.ReadFile(c.fsys, path)
	if err != nil {
		return nil, err
	}
	var s xsdSchema
	if err := xml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

// loadCommon parses the shared component schemas exactly once, no matter how
// many types compile concurrently; afterwards the map is read-only. Missing
// files are tolerated; a document type that never references them still
// compiles.
func (c *Compiler) loadCommon() error {
	c.commonOnce.Do(func() {
		c.common = make(map[string]*xsdSchema, len(commonFiles))
		for prefix, path := range commonFiles {
			s, err := c.parseFile(path)
			if err != nil {
				if _, statErr := fs.Stat(c.fsys, path); statErr != nil {
					continue // not bundled
				}
				c.commonErr = err
				return
			}
			c.common[prefix] = s
		}
	})
	return c.commonErr
}

// resolver carries the per-compilation lookup state.
type resolver struct {
	compiler *Compiler
	main     *xsdSchema
	docType  string
}

func (r *resolver) schemas() []*xsdSchema {
	out := []*xsdSchema{r.main}
	for _, prefix := range []string{"cbc", "cac", "ext"} {
		if s, ok := r.compiler.common[prefix]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *resolver) findComplexType(ref string) *xsdComplexType {
	local := localName(ref)
	for _, s := range r.schemas() {
		for i := range s.ComplexTypes {
			if s.ComplexTypes[i].Name == local {
				return &s.ComplexTypes[i]
			}
		}
	}
	return nil
}

func (r *resolver) findGlobalElement(ref string) *xsdElement {
	local := localName(ref)
	for _, s := range r.schemas() {
		if e := findElement(s.Elements, local); e != nil {
			return e
		}
	}
	return nil
}

// sequenceFields builds FieldNodes for every element of a complex type's
// sequence, preserving declaration order.
func (r *resolver) sequenceFields(ct *xsdComplexType, depth int, visited map[string]bool) ([]*FieldNode, error) {
	if ct.Sequence == nil {
		return nil, nil
	}
	if depth > r.compiler.maxDepth {
		return nil, &CompileError{
			DocType: r.docType,
			Reason:  fmt.Sprintf("type nesting exceeds max recursion depth %d", r.compiler.maxDepth),
		}
	}
	fields := make([]*FieldNode, 0, len(ct.Sequence.Elements))
	for i := range ct.Sequence.Elements {
		f, err := r.buildField(&ct.Sequence.Elements[i], depth, visited)
		if err != nil {
			return nil, err
		}
		if f != nil {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

func (r *resolver) buildField(elem *xsdElement, depth int, visited map[string]bool) (*FieldNode, error) {
	name := elem.Name
	prefix := ""
	typeRef := elem.Type

	if name == "" && elem.Ref != "" {
		name = localName(elem.Ref)
		prefix = refPrefix(elem.Ref)
		if target := r.findGlobalElement(elem.Ref); target != nil && target.Type != "" {
			typeRef = target.Type
		}
	}
	if name == "" {
		return nil, nil // anonymous particle, nothing to map onto
	}
	if prefix == "" {
		prefix = refPrefix(typeRef)
	}

	f := &FieldNode{
		Name:       name,
		Key:        NormalizeKey(name),
		Prefix:     prefix,
		TypeRef:    typeRef,
		Required:   minOccurs(elem.MinOccurs) > 0,
		Repeatable: repeatable(elem.MaxOccurs),
	}

	ct := r.findComplexType(typeRef)
	switch {
	case ct == nil:
		f.Kind = kindFromTypeName(typeRef)
	case ct.SimpleContent != nil:
		ext := ct.SimpleContent.Extension
		if ext == nil {
			return nil, &CompileError{
				DocType: r.docType,
				Reason:  fmt.Sprintf("simple content of %s has no extension", typeRef),
			}
		}
		f.Kind = kindFromTypeName(ext.Base)
		for _, a := range ext.Attributes {
			if a.Name == "" {
				continue
			}
			f.Attributes = append(f.Attributes, &Attribute{Name: a.Name, Key: NormalizeKey(a.Name)})
		}
	default:
		f.Kind = KindComplex
		local := localName(typeRef)
		if visited[local] {
			break // already expanding this type on the current branch
		}
		branch := make(map[string]bool, len(visited)+1)
		for k := range visited {
			branch[k] = true
		}
		branch[local] = true
		children, err := r.sequenceFields(ct, depth+1, branch)
		if err != nil {
			return nil, err
		}
		f.Children = children
	}
	return f, nil
}

// kindFromTypeName classifies a leaf by its declared type name. UBL basic
// component types follow strict naming (AmountType, IssueDateType,
// ChargeIndicatorType, ...), so a suffix check is sufficient.
func kindFromTypeName(typeRef string) Kind {
	local := localName(typeRef)
	switch local {
	case "decimal", "integer", "int", "long", "short", "float", "double", "nonNegativeInteger", "positiveInteger":
		return KindNumber
	case "date":
		return KindDate
	case "boolean":
		return KindBool
	}
	base := strings.TrimSuffix(local, "Type")
	switch {
	case strings.HasSuffix(base, "Indicator"):
		return KindBool
	case strings.HasSuffix(base, "Date"):
		return KindDate
	case strings.HasSuffix(base, "Amount"),
		strings.HasSuffix(base, "Quantity"),
		strings.HasSuffix(base, "Percent"),
		strings.HasSuffix(base, "Numeric"),
		strings.HasSuffix(base, "Rate"),
		strings.HasSuffix(base, "Measure"),
		strings.HasSuffix(base, "Value"):
		return KindNumber
	}
	return KindString
}

func findElement(elems []xsdElement, name string) *xsdElement {
	for i := range elems {
		if elems[i].Name == name {
			return &elems[i]
		}
	}
	return nil
}

func localName(ref string) string {
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func refPrefix(ref string) string {
	i := strings.Index(ref, ":")
	if i < 0 {
		return ""
	}
	switch p := ref[:i]; p {
	case "cbc", "cac", "ext":
		return p
	default:
		return ""
	}
}

func minOccurs(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return n
}

func repeatable(maxOccurs string) bool {
	switch maxOccurs {
	case "", "0", "1":
		return false
	case "unbounded":
		return true
	}
	n, err := strconv.Atoi(maxOccurs)
	return err == nil && n > 1
}
