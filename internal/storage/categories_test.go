package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenselog/internal/common"
	"expenselog/internal/model"
)

// Helper to build a category for tests.
func testCategory(name string) model.Category {
	return model.Category{
		Name:  name,
		Icon:  "tag",
		Color: "#123456",
	}
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns ID and timestamps", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat, err := store.CreateCategory(ctx, testCategory("Hobbies"))
		require.NoError(t, err)
		assert.NotEmpty(t, cat.ID)
		assert.Equal(t, "Hobbies", cat.Name)
		assert.False(t, cat.CreatedAt.IsZero())
		assert.Equal(t, cat.CreatedAt, cat.UpdatedAt)
		assert.False(t, cat.IsDefault)
	})

	t.Run("keeps caller-supplied ID", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		input := testCategory("Pets")
		input.ID = "pets"

		cat, err := store.CreateCategory(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "pets", cat.ID)

		got, err := store.GetCategory(ctx, "pets")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Pets", got.Name)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.CreateCategory(ctx, model.Category{})
		assert.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("rejects duplicate ID", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		input := testCategory("Pets")
		input.ID = "pets"

		_, err := store.CreateCategory(ctx, input)
		require.NoError(t, err)

		_, err = store.CreateCategory(ctx, input)
		assert.Error(t, err)
	})
}

func TestGetCategory(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	t.Run("returns seeded category", func(t *testing.T) {
		cat, err := store.GetCategory(ctx, "food")
		require.NoError(t, err)
		require.NotNil(t, cat)
		assert.Equal(t, "Food", cat.Name)
		assert.True(t, cat.IsDefault)
	})

	t.Run("returns nil for unknown ID", func(t *testing.T) {
		cat, err := store.GetCategory(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Nil(t, cat)
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	seeded, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, seeded, 8)

	_, err = store.CreateCategory(ctx, testCategory("Aquarium"))
	require.NoError(t, err)

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 9)

	// Ordered by name, so the new category sorts first.
	assert.Equal(t, "Aquarium", categories[0].Name)
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only patched fields", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat, err := store.CreateCategory(ctx, testCategory("Hobbies"))
		require.NoError(t, err)

		newName := "Leisure"
		updated, err := store.UpdateCategory(ctx, cat.ID, model.CategoryPatch{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "Leisure", updated.Name)
		assert.Equal(t, cat.Icon, updated.Icon)
		assert.Equal(t, cat.Color, updated.Color)

		got, err := store.GetCategory(ctx, cat.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Leisure", got.Name)
	})

	t.Run("unknown ID", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		name := "anything"
		_, err := store.UpdateCategory(ctx, "nonexistent", model.CategoryPatch{Name: &name})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the record", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		cat, err := store.CreateCategory(ctx, testCategory("Hobbies"))
		require.NoError(t, err)

		require.NoError(t, store.DeleteCategory(ctx, cat.ID))

		got, err := store.GetCategory(ctx, cat.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("unknown ID", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.DeleteCategory(ctx, "nonexistent")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}
