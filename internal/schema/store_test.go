package schema_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/ublgen/internal/schema"
)

func openStore(t *testing.T) *schema.Store {
	t.Helper()
	store, err := schema.OpenStore(filepath.Join(t.TempDir(), "nested", "descriptors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openStore(t)
	desc := compile(t, "Invoice")

	require.NoError(t, store.Save("Invoice", 1234, desc))

	t.Run("load with matching mtime", func(t *testing.T) {
		loaded, ok := store.Load("Invoice", 1234)
		require.True(t, ok)
		assert.Equal(t, desc.DocType, loaded.DocType)
		assert.Equal(t, desc.Namespace, loaded.Namespace)
		require.Len(t, loaded.Fields, len(desc.Fields))
		assert.Equal(t, desc.Fields[0].Name, loaded.Fields[0].Name)
		assert.Equal(t, desc.Fields[0].Kind, loaded.Fields[0].Kind)
	})

	t.Run("stale mtime misses", func(t *testing.T) {
		_, ok := store.Load("Invoice", 9999)
		assert.False(t, ok)
	})

	t.Run("unknown type misses", func(t *testing.T) {
		_, ok := store.Load("CreditNote", 1234)
		assert.False(t, ok)
	})

	t.Run("save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save("Invoice", 5678, desc))
		_, ok := store.Load("Invoice", 1234)
		assert.False(t, ok)
		_, ok = store.Load("Invoice", 5678)
		assert.True(t, ok)
	})
}

func TestStoreRejectsEmptyDescriptor(t *testing.T) {
	store := openStore(t)

	// A row that decodes to an empty descriptor is treated as absent so the
	// caller recompiles instead of serving a hollow schema.
	require.NoError(t, store.Save("Invoice", 1, &schema.Descriptor{DocType: "Invoice"}))
	_, ok := store.Load("Invoice", 1)
	assert.False(t, ok)
}
