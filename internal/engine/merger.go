package engine

import "github.com/agentic-research/ublgen/internal/schema"

// Merge folds an ordered sequence of matched page trees for one identity
// into a single tree. It is a pure function: inputs are never mutated, so
// concurrent document groups can share pages freely.
//
// Rules, applied recursively in schema order:
//   - scalar leaf: the last non-absent occurrence across pages wins, which
//     intentionally lets later pages overwrite mutable header fields;
//   - repeatable node: occurrence sequences concatenate in page order, each
//     page's internal order preserved, never deduplicating;
//   - complex node: fields union recursively with the rules above.
//
// Outer repeatable entries contributed by different pages stay independent:
// concatenation never combines two pages' occurrences into one entry, so
// inner repeatables only ever merge within a single page's occurrence.
func Merge(desc *schema.Descriptor, pages []*Node) *Node {
	var merged *Node
	for _, page := range pages {
		if page == nil {
			continue
		}
		if merged == nil {
			merged = page.Clone()
			continue
		}
		merged = mergeComplex(desc.Fields, merged, page)
	}
	return merged
}

func mergeComplex(siblings []*schema.FieldNode, old, next *Node) *Node {
	out := newComplex()
	for _, field := range siblings {
		a := old.Fields[field.Key]
		b := next.Fields[field.Key]
		if m := mergeField(field, a, b); m != nil {
			out.Fields[field.Key] = m
		}
	}
	return out
}

func mergeField(field *schema.FieldNode, old, next *Node) *Node {
	switch {
	case old == nil && next == nil:
		return nil
	case next == nil:
		return old.Clone()
	case old == nil:
		return next.Clone()
	}

	if field.Repeatable {
		out := &Node{Kind: ListNode, Items: make([]*Node, 0, len(old.Items)+len(next.Items))}
		for _, item := range old.Items {
			out.Items = append(out.Items, item.Clone())
		}
		for _, item := range next.Items {
			out.Items = append(out.Items, item.Clone())
		}
		return out
	}

	if field.Kind == schema.KindComplex && old.Kind == ComplexNode && next.Kind == ComplexNode {
		return mergeComplex(field.Children, old, next)
	}

	// Scalar (or structurally scalar) node: last non-absent wins, and an
	// explicit null counts as present.
	return next.Clone()
}
