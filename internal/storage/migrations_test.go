package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("brings fresh database to expected version", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		version, err := store.SchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, ExpectedSchemaVersion, version)
	})

	t.Run("is idempotent", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		require.NoError(t, store.Migrate(ctx))
		require.NoError(t, store.Migrate(ctx))

		version, err := store.SchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, ExpectedSchemaVersion, version)
	})

	t.Run("seeds default categories once", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		categories, err := store.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, len(defaultCategories))

		for _, cat := range categories {
			assert.True(t, cat.IsDefault, "seeded category %s should be marked default", cat.ID)
			assert.NotEmpty(t, cat.Name)
			assert.NotEmpty(t, cat.Color)
		}

		// Re-running migrations must not duplicate the seeds.
		require.NoError(t, store.Migrate(ctx))
		categories, err = store.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, len(defaultCategories))
	})

	t.Run("seed survives user edits on reopen", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Migrate(ctx))

		// Delete a seeded category, then reopen and migrate again. The
		// seed migration already ran, so the deletion sticks.
		require.NoError(t, store.DeleteCategory(ctx, "business"))
		require.NoError(t, store.Close())

		reopened, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = reopened.Close() }()
		require.NoError(t, reopened.Migrate(ctx))

		cat, err := reopened.GetCategory(ctx, "business")
		require.NoError(t, err)
		assert.Nil(t, cat)
	})
}
