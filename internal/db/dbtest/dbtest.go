// Package dbtest provides a migrated throwaway Store for tests in other packages.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abdulachik/gutenshelf/internal/db"
	"github.com/stretchr/testify/require"
)

// NewStore returns a migrated Store in t.TempDir, closed on cleanup.
func NewStore(t *testing.T) *db.Store {
	t.Helper()

	ctx := context.Background()
	store, err := db.NewStore(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, store.Migrate(ctx))

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
