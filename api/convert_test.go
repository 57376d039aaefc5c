package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/ublgen/internal/config"
	"github.com/agentic-research/ublgen/internal/schema/schematest"
)

// newConverter materializes the fixture schema set on disk and binds a
// Converter to it, with the descriptor store in the same scratch directory.
func newConverter(t *testing.T) (*Converter, string) {
	t.Helper()
	root := t.TempDir()
	schemaRoot := filepath.Join(root, "schemas")
	for path, content := range schematest.Files() {
		full := filepath.Join(schemaRoot, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.SchemaRoot = schemaRoot
	cfg.CachePath = filepath.Join(root, "descriptors.db")
	cfg.MaxWorkers = 2

	conv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conv.Close() })
	return conv, root
}

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertSingleDocument(t *testing.T) {
	conv, _ := newConverter(t)

	id, xml, err := conv.Convert(context.Background(), map[string]any{
		"id":            "INV-1",
		"document_type": float64(380),
		"invoice_lines": []any{map[string]any{"id": "1", "line_extension_amount": float64(500)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-1", id)
	assert.Contains(t, xml, "<cbc:ID>INV-1</cbc:ID>")
	assert.Contains(t, xml, "<cbc:LineExtensionAmount>500</cbc:LineExtensionAmount>")
}

func TestConvertFileMergesFragments(t *testing.T) {
	conv, root := newConverter(t)
	input := writeJSON(t, root, "pages.json", `[
		{"id": "728621", "document_type": 380, "invoice_lines": [{"id": "1"}]},
		{"id": "728621", "document_type": 380, "invoice_lines": [{"id": "2"}]},
		{"id": "555", "document_type": "CreditNote", "credit_note_lines": [{"id": "1"}]}
	]`)

	result, outcome, err := conv.ConvertFile(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Contains(t, result["728621"], "<cbc:ID>1</cbc:ID>")
	assert.Contains(t, result["728621"], "<cbc:ID>2</cbc:ID>")
	assert.Contains(t, result["555"], "<CreditNote ")

	assert.Equal(t, 3, outcome.TotalInputs)
	assert.Equal(t, map[string]int{"Invoice": 1, "CreditNote": 1}, outcome.TypeCounts)
	assert.Nil(t, outcome.Error)
	assert.Empty(t, outcome.Failed())
}

func TestConvertFileSingleObject(t *testing.T) {
	conv, root := newConverter(t)
	input := writeJSON(t, root, "one.json",
		`{"id": "A", "document_type": 380, "invoice_lines": [{"id": "1"}]}`)

	result, outcome, err := conv.ConvertFile(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, 1, outcome.TotalInputs)
}

func TestConvertFileToDir(t *testing.T) {
	conv, root := newConverter(t)
	input := writeJSON(t, root, "batch.json", `[
		{"id": "INV-1", "document_type": 380, "invoice_lines": [{"id": "1"}]},
		{"id": "INV-2", "document_type": 380, "invoice_lines": [{"id": "1"}]}
	]`)
	outDir := filepath.Join(root, "out")

	outcome, err := conv.ConvertFileToDir(context.Background(), input, outDir)
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.FilesCreated)

	for _, name := range []string{"INV-1.xml", "INV-2.xml"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<Invoice ")
	}
}

func TestConvertFileUnknownTypeFailsFast(t *testing.T) {
	conv, root := newConverter(t)
	input := writeJSON(t, root, "bad.json", `[
		{"id": "GOOD", "document_type": 380, "invoice_lines": [{"id": "1"}]},
		{"id": "BAD", "document_type": 9999}
	]`)

	result, outcome, err := conv.ConvertFile(context.Background(), input)
	require.Error(t, err)
	assert.Nil(t, result)
	require.NotNil(t, outcome.Error)
	assert.Equal(t, "UnknownDocumentType", outcome.Error.Code)
	assert.Empty(t, outcome.Documents)
}

func TestConvertFilePerDocumentFailure(t *testing.T) {
	conv, root := newConverter(t)
	input := writeJSON(t, root, "mixed.json", `[
		{"id": "OK", "document_type": 380, "invoice_lines": [{"id": "1"}]},
		{"id": "EMPTY", "document_type": 380}
	]`)

	result, outcome, err := conv.ConvertFile(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, result, 1)

	failed := outcome.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "EMPTY", failed[0].ID)
	assert.Equal(t, "ValidationError", failed[0].Error.Code)
}

func TestConvertFileRejectsMalformedInput(t *testing.T) {
	conv, root := newConverter(t)

	t.Run("invalid json", func(t *testing.T) {
		input := writeJSON(t, root, "broken.json", `{"id":`)
		_, _, err := conv.ConvertFile(context.Background(), input)
		require.Error(t, err)
	})

	t.Run("top-level scalar", func(t *testing.T) {
		input := writeJSON(t, root, "scalar.json", `42`)
		_, _, err := conv.ConvertFile(context.Background(), input)
		require.Error(t, err)
	})

	t.Run("array with non-object element", func(t *testing.T) {
		input := writeJSON(t, root, "mixedarr.json", `[{"id": "A", "document_type": 380}, 7]`)
		_, _, err := conv.ConvertFile(context.Background(), input)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := conv.ConvertFile(context.Background(), filepath.Join(root, "nope.json"))
		require.Error(t, err)
	})
}

func TestBuildCache(t *testing.T) {
	conv, root := newConverter(t)

	built, err := conv.BuildCache()
	require.NoError(t, err)
	assert.Equal(t, 2, built, "fixture bundles Invoice and CreditNote")

	_, err = os.Stat(filepath.Join(root, "descriptors.db"))
	assert.NoError(t, err)
}

func TestBuildCacheEmptySchemaRoot(t *testing.T) {
	cfg := config.Default()
	cfg.SchemaRoot = t.TempDir()
	cfg.CachePath = ""
	conv, err := New(cfg)
	require.NoError(t, err)

	_, err = conv.BuildCache()
	require.Error(t, err)
}
