package engine

import "github.com/agentic-research/ublgen/internal/schema"

// Match resolves one input key against a set of sibling schema fields.
// Comparison is case-insensitive and underscore-insensitive, so InvoiceLine,
// invoiceline and invoice_line all resolve to the same node. A repeatable
// sibling additionally matches the naive plural of its name (invoice_lines).
// When two distinct siblings collapse to the same normalized key, the first
// in schema-declared order wins.
func Match(key string, siblings []*schema.FieldNode) *schema.FieldNode {
	n := schema.NormalizeKey(key)
	for _, f := range siblings {
		if f.Key == n {
			return f
		}
	}
	for _, f := range siblings {
		if f.Repeatable && n == f.Key+"s" {
			return f
		}
	}
	return nil
}
