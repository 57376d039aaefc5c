package engine

// NodeKind tags the three shapes a matched value can take.
type NodeKind int

const (
	ScalarNode  NodeKind = iota // leaf text, already coerced to string form
	ComplexNode                 // named children
	ListNode                    // ordered occurrences of a repeatable element
)

// Node is one value in a matched document tree. The tree is isomorphic to a
// subset of its Descriptor: every key in Fields is a schema key, and a schema
// leaf the input never supplied is simply absent. A leaf present with JSON
// null is a ScalarNode with Null set, which is distinct from absent.
type Node struct {
	Kind   NodeKind
	Value  string            // ScalarNode text
	Null   bool              // explicit null, renders as an empty element
	Attrs  map[string]string // attribute values keyed by normalized attribute key
	Fields map[string]*Node  // ComplexNode children keyed by schema key
	Items  []*Node           // ListNode occurrences in merged order
}

func newComplex() *Node {
	return &Node{Kind: ComplexNode, Fields: make(map[string]*Node)}
}

func newScalar(value string) *Node {
	return &Node{Kind: ScalarNode, Value: value}
}

func newNull() *Node {
	return &Node{Kind: ScalarNode, Null: true}
}

// Clone deep-copies a node. Merging never mutates its inputs, so concurrent
// document groups can share page trees safely.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Value: n.Value, Null: n.Null}
	if n.Attrs != nil {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	if n.Fields != nil {
		out.Fields = make(map[string]*Node, len(n.Fields))
		for k, v := range n.Fields {
			out.Fields[k] = v.Clone()
		}
	}
	if n.Items != nil {
		out.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			out.Items[i] = item.Clone()
		}
	}
	return out
}
