package cliauth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStoreAt(path)
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, []byte(`{"access_token":"t1"}`)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, `{"access_token":"t1"}`, string(data))

	require.NoError(t, store.Delete(ctx))
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx), ErrNotFound)
}

func TestFileStoreEmptyFileIsNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	store := NewFileStoreAt(path)
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStorePath(t *testing.T) {
	store := NewFileStoreAt("/tmp/x/session.json")
	require.Equal(t, "/tmp/x/session.json", store.Path())
}
