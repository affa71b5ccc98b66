package credstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/storefront/internal/core/domain"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", FileName))

	rec, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, rec.Empty())
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	store := NewFileStore(path)
	ctx := context.Background()

	want := domain.PersistedCredential{Token: "a.b.c", Identity: `{"username":"alice","role":"user"}`}
	require.NoError(t, store.Save(ctx, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, map[string]string{"token": "a.b.c", "user": want.Identity}, onDisk)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Clear(ctx))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Clear(ctx), "clearing twice must not fail")
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, FileName))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(ctx, domain.PersistedCredential{Token: "t", Identity: "{}"}))
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FileName, entries[0].Name())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedCredential)
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "storefront", FileName), DefaultPath())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, rec.Empty())

	want := domain.PersistedCredential{Token: "t", Identity: "{}"}
	require.NoError(t, store.Save(ctx, want))
	got, _ := store.Load(ctx)
	assert.Equal(t, want, got)

	require.NoError(t, store.Clear(ctx))
	got, _ = store.Load(ctx)
	assert.True(t, got.Empty())
}
