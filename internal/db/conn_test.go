package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMigratedStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestNewStore(t *testing.T) {
	t.Run("creates directory and database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "cache.db")

		ctx := context.Background()
		store, err := NewStore(ctx, dbPath)
		require.NoError(t, err)
		defer store.Close()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)

		var one int
		require.NoError(t, store.QueryRowContext(ctx, "SELECT 1").Scan(&one))
		assert.Equal(t, 1, one)
	})

	t.Run("sets WAL mode", func(t *testing.T) {
		ctx := context.Background()
		store, err := NewStore(ctx, filepath.Join(t.TempDir(), "cache.db"))
		require.NoError(t, err)
		defer store.Close()

		var mode string
		require.NoError(t, store.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	})
}

func TestStore_Migrate(t *testing.T) {
	t.Run("creates kv table", func(t *testing.T) {
		store := newMigratedStore(t)

		var name string
		err := store.QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type='table' AND name='kv'").Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, "kv", name)
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newMigratedStore(t)
		ctx := context.Background()

		require.NoError(t, store.Migrate(ctx))

		var count int
		require.NoError(t, store.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestQueries_KeyValue(t *testing.T) {
	store := newMigratedStore(t)
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.GetValue(ctx, "books")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("put replaces whole value", func(t *testing.T) {
		require.NoError(t, store.PutValue(ctx, PutValueParams{Key: "book-1", Value: `{"id":"1"}`}))
		require.NoError(t, store.PutValue(ctx, PutValueParams{Key: "book-1", Value: `{"id":"1","title":"x"}`}))

		val, err := store.GetValue(ctx, "book-1")
		require.NoError(t, err)
		assert.Equal(t, `{"id":"1","title":"x"}`, val)
	})

	t.Run("list keys by prefix", func(t *testing.T) {
		require.NoError(t, store.PutValue(ctx, PutValueParams{Key: "book-2", Value: "{}"}))
		require.NoError(t, store.PutValue(ctx, PutValueParams{Key: "books", Value: "{}"}))

		keys, err := store.ListKeys(ctx, "book-")
		require.NoError(t, err)
		assert.Equal(t, []string{"book-1", "book-2"}, keys)
	})

	t.Run("count entries", func(t *testing.T) {
		row, err := store.CountEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), row.Entries)
		assert.Positive(t, row.Bytes)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteValue(ctx, "book-2"))
		_, err := store.GetValue(ctx, "book-2")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestExtractUpMigration(t *testing.T) {
	t.Run("extracts up portion", func(t *testing.T) {
		content := `-- +migrate Up
CREATE TABLE test (id INTEGER);

-- +migrate Down
DROP TABLE test;
`
		assert.Equal(t, "CREATE TABLE test (id INTEGER);", extractUpMigration(content))
	})

	t.Run("handles no down marker", func(t *testing.T) {
		content := "CREATE TABLE test (id INTEGER);"
		assert.Equal(t, content, extractUpMigration(content))
	})
}
