package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStoreMissingFile(t *testing.T) {
	t.Parallel()

	store := NewJSONStore(filepath.Join(t.TempDir(), "state.json"))
	keys, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestJSONStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	store := NewJSONStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []string{"K000001", "K000002"}))

	keys, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"K000001", "K000002"}, keys)

	// A second save replaces, not appends.
	require.NoError(t, store.Save(ctx, []string{"K000003"}))
	keys, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"K000003"}, keys)
}

func TestJSONStoreDocumentShape(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	store := NewJSONStore(path)
	require.NoError(t, store.Save(context.Background(), []string{"K000001"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"seenKeys"`)
	assert.Contains(t, string(raw), `"K000001"`)
}

func TestJSONStoreLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewJSONStore(filepath.Join(dir, "state.json"))
	require.NoError(t, store.Save(context.Background(), []string{"K000001"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestJSONStoreCorruptDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewJSONStore(path).Load(context.Background())
	assert.Error(t, err)
}
