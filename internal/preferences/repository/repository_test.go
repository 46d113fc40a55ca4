package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"police_fines/internal/i18n"
)

func newRedisStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client), mr
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemory() },
		"file": func(t *testing.T) Store {
			return NewFile(filepath.Join(t.TempDir(), "nested", "preferences.yaml"))
		},
		"redis": func(t *testing.T) Store {
			store, _ := newRedisStore(t)
			return store
		},
	}

	for name, build := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			_, found, err := store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Save(ctx, i18n.English))
			lang, found, err := store.Load(ctx)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, i18n.English, lang)

			require.NoError(t, store.Save(ctx, i18n.Georgian))
			lang, _, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, i18n.Georgian, lang)
		})
	}
}

func TestFileStoreDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	store := NewFile(path)
	require.NoError(t, store.Save(context.Background(), i18n.English))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "language: en\n", string(raw))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestFileStoreCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: [unterminated"), 0o600))

	_, _, err := NewFile(path).Load(context.Background())
	assert.Error(t, err)
}

func TestRedisStoreKeyAndFailure(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, i18n.English))
	value, err := mr.Get(LanguageKey)
	require.NoError(t, err)
	assert.Equal(t, "en", value)
	assert.NoError(t, store.Ping(ctx))

	mr.SetError("LOADING server is loading")
	_, _, err = store.Load(ctx)
	assert.Error(t, err)
}

func TestNewRedisClientErrors(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "")
	assert.Error(t, err)

	_, err = NewRedisClient(context.Background(), "://bad")
	assert.Error(t, err)
}
