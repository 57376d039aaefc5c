package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/ublgen/internal/schema"
	"github.com/agentic-research/ublgen/internal/schema/schematest"
)

func compileInvoice(t *testing.T) *schema.Descriptor {
	t.Helper()
	desc, err := schema.NewCompiler(schematest.FS(), 0).Compile("Invoice")
	require.NoError(t, err)
	return desc
}

func TestMatch(t *testing.T) {
	desc := compileInvoice(t)

	t.Run("case insensitive", func(t *testing.T) {
		for _, key := range []string{"InvoiceLine", "invoiceline", "INVOICELINE"} {
			f := Match(key, desc.Fields)
			require.NotNil(t, f, key)
			assert.Equal(t, "InvoiceLine", f.Name)
		}
	})

	t.Run("underscore insensitive", func(t *testing.T) {
		f := Match("issue_date", desc.Fields)
		require.NotNil(t, f)
		assert.Equal(t, "IssueDate", f.Name)
	})

	t.Run("plural alias for repeatable", func(t *testing.T) {
		f := Match("invoice_lines", desc.Fields)
		require.NotNil(t, f)
		assert.Equal(t, "InvoiceLine", f.Name)

		f = Match("notes", desc.Fields)
		require.NotNil(t, f)
		assert.Equal(t, "Note", f.Name)
	})

	t.Run("no plural alias for non-repeatable", func(t *testing.T) {
		assert.Nil(t, Match("ids", desc.Fields))
	})

	t.Run("unknown key", func(t *testing.T) {
		assert.Nil(t, Match("shoe_size", desc.Fields))
	})

	t.Run("colliding keys resolve to first declared", func(t *testing.T) {
		f := Match("reference", desc.Fields)
		require.NotNil(t, f)
		assert.Equal(t, "Reference", f.Name)
	})

	t.Run("nested siblings", func(t *testing.T) {
		line := Match("invoice_lines", desc.Fields)
		require.NotNil(t, line)
		f := Match("line_extension_amount", line.Children)
		require.NotNil(t, f)
		assert.Equal(t, "LineExtensionAmount", f.Name)
	})
}
