package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeInvoice(t *testing.T) {
	desc := compileInvoice(t)
	tree, _ := mustMap(t, desc, map[string]any{
		"id":         "INV-1",
		"issue_date": "2024-03-01",
		"invoice_lines": []any{
			map[string]any{"id": "1", "line_extension_amount": float64(500)},
		},
	})

	out, err := Serialize(desc, tree)
	require.NoError(t, err)

	t.Run("declaration and root namespaces", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
		assert.Contains(t, out, `<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"`)
		assert.Contains(t, out, `xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"`)
		assert.Contains(t, out, `xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"`)
		assert.True(t, strings.HasSuffix(out, "</Invoice>\n"))
	})

	t.Run("qualified elements", func(t *testing.T) {
		assert.Contains(t, out, "<cbc:ID>INV-1</cbc:ID>")
		assert.Contains(t, out, "<cbc:IssueDate>2024-03-01</cbc:IssueDate>")
		assert.Contains(t, out, "<cac:InvoiceLine>")
		assert.Contains(t, out, "<cbc:LineExtensionAmount>500</cbc:LineExtensionAmount>")
	})

	t.Run("schema order beats input order", func(t *testing.T) {
		idAt := strings.Index(out, "<cbc:ID>")
		dateAt := strings.Index(out, "<cbc:IssueDate>")
		lineAt := strings.Index(out, "<cac:InvoiceLine>")
		assert.True(t, idAt < dateAt && dateAt < lineAt)
	})

	t.Run("absent optional elements are omitted", func(t *testing.T) {
		assert.NotContains(t, out, "<cbc:Note")
		assert.NotContains(t, out, "<cac:TaxTotal")
	})
}

func TestSerializeNullRendersEmptyElement(t *testing.T) {
	desc := compileInvoice(t)
	tree, _ := mustMap(t, desc, map[string]any{
		"id":            "X",
		"issue_date":    nil,
		"note":          nil,
		"invoice_lines": []any{map[string]any{"id": "1"}},
	})

	out, err := Serialize(desc, tree)
	require.NoError(t, err)
	assert.Contains(t, out, "<cbc:IssueDate></cbc:IssueDate>")
	// Null survives on repeatable nodes too, not only scalar leaves.
	assert.Contains(t, out, "<cbc:Note></cbc:Note>")
}

func TestSerializeRepeatableOrder(t *testing.T) {
	desc := compileInvoice(t)
	page1, _ := mustMap(t, desc, map[string]any{
		"id":            "X",
		"invoice_lines": []any{map[string]any{"id": "1"}, map[string]any{"id": "2"}},
	})
	page2, _ := mustMap(t, desc, map[string]any{
		"id":            "X",
		"invoice_lines": []any{map[string]any{"id": "3"}},
	})

	out, err := Serialize(desc, Merge(desc, []*Node{page1, page2}))
	require.NoError(t, err)

	first := strings.Index(out, "<cbc:ID>1</cbc:ID>")
	second := strings.Index(out, "<cbc:ID>2</cbc:ID>")
	third := strings.Index(out, "<cbc:ID>3</cbc:ID>")
	assert.True(t, first >= 0 && first < second && second < third)
	assert.Equal(t, 3, strings.Count(out, "<cac:InvoiceLine>"))
}

func TestSerializeCurrencyAttribute(t *testing.T) {
	desc := compileInvoice(t)

	t.Run("explicit attribute wins", func(t *testing.T) {
		tree, _ := mustMap(t, desc, map[string]any{
			"id":                     "X",
			"document_currency_code": "EUR",
			"invoice_lines": []any{map[string]any{
				"id":                    "1",
				"line_extension_amount": map[string]any{"value": float64(500), "currencyID": "NOK"},
			}},
		})
		out, err := Serialize(desc, tree)
		require.NoError(t, err)
		assert.Contains(t, out, `<cbc:LineExtensionAmount currencyID="NOK">500</cbc:LineExtensionAmount>`)
	})

	t.Run("document currency as fallback", func(t *testing.T) {
		tree, _ := mustMap(t, desc, map[string]any{
			"id":                     "X",
			"document_currency_code": "EUR",
			"invoice_lines": []any{map[string]any{
				"id":                    "1",
				"line_extension_amount": float64(500),
			}},
		})
		out, err := Serialize(desc, tree)
		require.NoError(t, err)
		assert.Contains(t, out, `<cbc:LineExtensionAmount currencyID="EUR">500</cbc:LineExtensionAmount>`)
	})

	t.Run("no fallback without a document currency", func(t *testing.T) {
		tree, _ := mustMap(t, desc, map[string]any{
			"id": "X",
			"invoice_lines": []any{map[string]any{
				"id":                    "1",
				"line_extension_amount": float64(500),
			}},
		})
		out, err := Serialize(desc, tree)
		require.NoError(t, err)
		assert.Contains(t, out, "<cbc:LineExtensionAmount>500</cbc:LineExtensionAmount>")
	})
}

func TestSerializeEscaping(t *testing.T) {
	desc := compileInvoice(t)
	tree, _ := mustMap(t, desc, map[string]any{
		"id":            "X",
		"note":          `Fish & Chips <deluxe>`,
		"invoice_lines": []any{map[string]any{"id": "1"}},
	})

	out, err := Serialize(desc, tree)
	require.NoError(t, err)
	assert.Contains(t, out, "Fish &amp; Chips &lt;deluxe&gt;")
}

func TestSerializeUnprefixedElement(t *testing.T) {
	desc := compileInvoice(t)
	tree, _ := mustMap(t, desc, map[string]any{
		"id":            "X",
		"reference":     "R-9",
		"invoice_lines": []any{map[string]any{"id": "1"}},
	})

	out, err := Serialize(desc, tree)
	require.NoError(t, err)
	assert.Contains(t, out, "<Reference>R-9</Reference>")
}

func TestSerializeRefusesInvalidTree(t *testing.T) {
	desc := compileInvoice(t)
	tree, _ := mustMap(t, desc, map[string]any{"issue_date": "2024-01-01"})

	out, err := Serialize(desc, tree)
	assert.Empty(t, out)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
	assert.Equal(t, "ValidationError", verr.Code())
}
