package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"portal/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()

	store, err := Open(context.Background(), path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStore_Upsert(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, ":memory:")

	_, err := store.Get(ctx, "u1", "devices")
	assert.ErrorIs(t, err, repository.ErrDocumentNotFound)

	require.NoError(t, store.Put(ctx, "u1", "devices", []byte(`{"v":1,"data":[]}`)))
	require.NoError(t, store.Put(ctx, "u1", "devices", []byte(`{"v":1,"data":[{"id":"d"}]}`)))

	got, err := store.Get(ctx, "u1", "devices")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"data":[{"id":"d"}]}`, string(got))

	require.NoError(t, store.Delete(ctx, "u1", "devices"))
	_, err = store.Get(ctx, "u1", "devices")
	assert.ErrorIs(t, err, repository.ErrDocumentNotFound)
}

func TestStore_Namespaces(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, ":memory:")

	require.NoError(t, store.Put(ctx, "b", "notifications", []byte(`[]`)))
	require.NoError(t, store.Put(ctx, "a", "notifications", []byte(`[]`)))
	require.NoError(t, store.Put(ctx, "c", "rememberMe", []byte(`true`)))

	owners, err := store.Namespaces(ctx, "notifications")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, owners)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "portal.db")

	first, err := Open(ctx, path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "u1", "rememberMe", []byte("true")))
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	got, err := second.Get(ctx, "u1", "rememberMe")
	require.NoError(t, err)
	assert.Equal(t, "true", string(got))
}
