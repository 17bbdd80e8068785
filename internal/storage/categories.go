package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"expenselog/internal/common"
	"expenselog/internal/model"
)

// CreateCategory persists a new category. It assigns the ID (unless one
// is supplied, e.g. for seeded slugs) and stamps both timestamps with
// the current time.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, cat model.Category) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(cat.Name, "name"); err != nil {
		return nil, err
	}

	if cat.ID == "" {
		cat.ID = uuid.New().String()
	}
	now := time.Now()
	cat.CreatedAt = now
	cat.UpdatedAt = now

	query := `
		INSERT INTO categories (id, name, icon, color, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		cat.ID, cat.Name, nullableString(cat.Icon), nullableString(cat.Color),
		boolToInt(cat.IsDefault), toMillis(now), toMillis(now))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created category", "id", cat.ID, "name", cat.Name)
	return &cat, nil
}

// GetCategory returns a category by ID, or nil if it does not exist.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, icon, color, is_default, created_at, updated_at
		FROM categories
		WHERE id = ?`

	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

// ListCategories returns all categories ordered by name.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, icon, color, is_default, created_at, updated_at
		FROM categories
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var (
			cat                  model.Category
			icon, color          sql.NullString
			isDefault            int
			createdMs, updatedMs int64
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &icon, &color, &isDefault, &createdMs, &updatedMs); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Icon = icon.String
		cat.Color = color.String
		cat.IsDefault = isDefault != 0
		cat.CreatedAt = fromMillis(createdMs)
		cat.UpdatedAt = fromMillis(updatedMs)
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// UpdateCategory merges the patch over the stored record and refreshes
// UpdatedAt. It fails with common.ErrNotFound when the ID is absent.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	existing, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Icon != nil {
		existing.Icon = *patch.Icon
	}
	if patch.Color != nil {
		existing.Color = *patch.Color
	}
	if patch.IsDefault != nil {
		existing.IsDefault = *patch.IsDefault
	}
	existing.UpdatedAt = time.Now()

	query := `
		UPDATE categories
		SET name = ?, icon = ?, color = ?, is_default = ?, updated_at = ?
		WHERE id = ?`

	_, err = s.db.ExecContext(ctx, query,
		existing.Name, nullableString(existing.Icon), nullableString(existing.Color),
		boolToInt(existing.IsDefault), toMillis(existing.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	slog.Debug("updated category", "id", id)
	return existing, nil
}

// DeleteCategory physically removes a category. It fails with
// common.ErrNotFound when the ID is absent. Referential checks against
// expenses belong to the ledger, not here.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	slog.Info("deleted category", "id", id)
	return nil
}

func scanCategory(row *sql.Row) (*model.Category, error) {
	var (
		cat                  model.Category
		icon, color          sql.NullString
		isDefault            int
		createdMs, updatedMs int64
	)
	if err := row.Scan(&cat.ID, &cat.Name, &icon, &color, &isDefault, &createdMs, &updatedMs); err != nil {
		return nil, err
	}
	cat.Icon = icon.String
	cat.Color = color.String
	cat.IsDefault = isDefault != 0
	cat.CreatedAt = fromMillis(createdMs)
	cat.UpdatedAt = fromMillis(updatedMs)
	return &cat, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
