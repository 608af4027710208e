package kvstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Set Then Get Round-Trips", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		blob := json.RawMessage(`{"hello":"world"}`)
		require.NoError(t, store.Set(ctx, "greeting", blob))

		got, err := store.Get(ctx, "greeting")
		assert.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("Get Unknown Key", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("Set Overwrites", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Set(ctx, "k", json.RawMessage(`1`)))
		require.NoError(t, store.Set(ctx, "k", json.RawMessage(`2`)))

		got, err := store.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, json.RawMessage(`2`), got)
	})

	t.Run("Survives Reopen", func(t *testing.T) {
		dir := t.TempDir()

		store, err := NewFileStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "durable", json.RawMessage(`{"n":42}`)))

		reopened, err := NewFileStore(dir)
		require.NoError(t, err)
		got, err := reopened.Get(ctx, "durable")
		assert.NoError(t, err)
		assert.Equal(t, json.RawMessage(`{"n":42}`), got)
	})

	t.Run("No Temp Files Left Behind", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewFileStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "k", json.RawMessage(`true`)))

		leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, leftovers)
	})

	t.Run("Creates Missing Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "data")
		_, err := NewFileStore(dir)
		assert.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Set Then Get", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(ctx, "k", json.RawMessage(`"v"`)))

		got, err := store.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, json.RawMessage(`"v"`), got)
	})

	t.Run("Get Unknown Key", func(t *testing.T) {
		store := NewMemoryStore()
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("Returned Blob Is A Copy", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(ctx, "k", json.RawMessage(`"aa"`)))

		got, _ := store.Get(ctx, "k")
		got[1] = 'z'

		again, err := store.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, json.RawMessage(`"aa"`), again)
	})
}
