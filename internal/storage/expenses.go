package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"expenselog/internal/common"
	"expenselog/internal/model"
	"expenselog/internal/service"
)

// CreateExpense persists a new expense. It assigns the ID, stamps both
// timestamps, defaults a zero Date to now, and clears IsDeleted.
// Business validation (positive amount, category existence) is the
// caller's responsibility.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, exp model.Expense) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	now := time.Now()
	if exp.Date.IsZero() {
		exp.Date = now
	}
	exp.CreatedAt = now
	exp.UpdatedAt = now
	exp.IsDeleted = false

	query := `
		INSERT INTO expenses (id, amount, currency, category_id, description, date, created_at, updated_at, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`

	_, err := s.db.ExecContext(ctx, query,
		exp.ID, exp.Amount.InexactFloat64(), nullableString(exp.Currency),
		nullableString(exp.CategoryID), nullableString(exp.Description),
		toMillis(exp.Date), toMillis(now), toMillis(now))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("created expense", "id", exp.ID, "amount", exp.Amount)
	return &exp, nil
}

// GetExpense returns an expense by ID regardless of its soft-delete
// flag (deleted records stay retrievable for audit), or nil if the ID
// does not exist.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, amount, currency, category_id, description, date, created_at, updated_at, is_deleted
		FROM expenses
		WHERE id = ?`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query expense: %w", err)
		}
		return nil, nil
	}

	exp, err := scanExpense(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}
	return exp, nil
}

// ListExpenses returns expenses ordered by date descending. The filter
// controls whether soft-deleted records are excluded.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, amount, currency, category_id, description, date, created_at, updated_at, is_deleted
		FROM expenses`
	if filter.ExcludeDeleted {
		query += ` WHERE is_deleted = 0`
	}
	query += ` ORDER BY date DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	slog.Debug("retrieved expenses", "count", len(expenses))
	return expenses, nil
}

// ListExpensesWithCategory returns all active expenses joined with
// their category's display fields, ordered by date descending. This is
// the source query for the ledger's materialized view.
func (s *SQLiteStorage) ListExpensesWithCategory(ctx context.Context) ([]model.ExpenseWithCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT e.id, e.amount, e.currency, e.category_id, e.description,
		       e.date, e.created_at, e.updated_at, e.is_deleted,
		       c.id, c.name, c.color
		FROM expenses e
		LEFT JOIN categories c ON e.category_id = c.id
		WHERE e.is_deleted = 0
		ORDER BY e.date DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense view: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.ExpenseWithCategory
	for rows.Next() {
		var (
			entry                           model.ExpenseWithCategory
			amount                          float64
			currency, categoryID, desc      sql.NullString
			dateMs, createdMs, updatedMs    int64
			isDeleted                       int
			catID, catName, catColor        sql.NullString
		)
		if err := rows.Scan(&entry.ID, &amount, &currency, &categoryID, &desc,
			&dateMs, &createdMs, &updatedMs, &isDeleted,
			&catID, &catName, &catColor); err != nil {
			return nil, fmt.Errorf("failed to scan expense view entry: %w", err)
		}

		entry.Amount = decimal.NewFromFloat(amount)
		entry.Currency = currency.String
		entry.CategoryID = categoryID.String
		entry.Description = desc.String
		entry.Date = fromMillis(dateMs)
		entry.CreatedAt = fromMillis(createdMs)
		entry.UpdatedAt = fromMillis(updatedMs)
		entry.IsDeleted = isDeleted != 0

		if catID.Valid {
			entry.Category = &model.CategoryRef{
				ID:    catID.String,
				Name:  catName.String,
				Color: catColor.String,
			}
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense view: %w", err)
	}

	return entries, nil
}

// UpdateExpense merges the patch over the stored record and refreshes
// UpdatedAt. An absent patch date preserves the stored date. It fails
// with common.ErrNotFound when the ID is absent.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, id string, patch model.ExpensePatch) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	existing, err := s.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: expense %s", common.ErrNotFound, id)
	}

	if patch.Amount != nil {
		existing.Amount = *patch.Amount
	}
	if patch.Currency != nil {
		existing.Currency = *patch.Currency
	}
	if patch.CategoryID != nil {
		existing.CategoryID = *patch.CategoryID
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Date != nil {
		existing.Date = *patch.Date
	}
	existing.UpdatedAt = time.Now()

	query := `
		UPDATE expenses
		SET amount = ?, currency = ?, category_id = ?, description = ?, date = ?, updated_at = ?
		WHERE id = ?`

	_, err = s.db.ExecContext(ctx, query,
		existing.Amount.InexactFloat64(), nullableString(existing.Currency),
		nullableString(existing.CategoryID), nullableString(existing.Description),
		toMillis(existing.Date), toMillis(existing.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	slog.Debug("updated expense", "id", id)
	return existing, nil
}

// SoftDeleteExpense marks an expense as deleted and refreshes
// UpdatedAt. Expenses are never physically removed. It fails with
// common.ErrNotFound when the ID is absent.
func (s *SQLiteStorage) SoftDeleteExpense(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	query := `UPDATE expenses SET is_deleted = 1, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, toMillis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to soft delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %s", common.ErrNotFound, id)
	}

	slog.Info("soft deleted expense", "id", id)
	return nil
}

// CountExpensesByCategory returns the number of non-deleted expenses
// referencing the given category.
func (s *SQLiteStorage) CountExpensesByCategory(ctx context.Context, categoryID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return 0, err
	}

	var count int
	query := `SELECT COUNT(*) FROM expenses WHERE category_id = ? AND is_deleted = 0`
	if err := s.db.QueryRowContext(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

func scanExpense(rows *sql.Rows) (*model.Expense, error) {
	var (
		exp                          model.Expense
		amount                       float64
		currency, categoryID, desc   sql.NullString
		dateMs, createdMs, updatedMs int64
		isDeleted                    int
	)
	if err := rows.Scan(&exp.ID, &amount, &currency, &categoryID, &desc,
		&dateMs, &createdMs, &updatedMs, &isDeleted); err != nil {
		return nil, err
	}

	exp.Amount = decimal.NewFromFloat(amount)
	exp.Currency = currency.String
	exp.CategoryID = categoryID.String
	exp.Description = desc.String
	exp.Date = fromMillis(dateMs)
	exp.CreatedAt = fromMillis(createdMs)
	exp.UpdatedAt = fromMillis(updatedMs)
	exp.IsDeleted = isDeleted != 0
	return &exp, nil
}
