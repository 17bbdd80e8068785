// Package service defines the interfaces between the ledger and its
// collaborators.
package service

import (
	"context"

	"expenselog/internal/model"
)

// ExpenseFilter defines filtering options for expense listings.
type ExpenseFilter struct {
	ExcludeDeleted bool
}

// Storage defines the contract for the record store. It is pure CRUD:
// referential rules between expenses and categories are the ledger's
// job, not the store's.
type Storage interface {
	// Category operations
	CreateCategory(ctx context.Context, cat model.Category) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Expense operations
	CreateExpense(ctx context.Context, exp model.Expense) (*model.Expense, error)
	GetExpense(ctx context.Context, id string) (*model.Expense, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	ListExpensesWithCategory(ctx context.Context) ([]model.ExpenseWithCategory, error)
	UpdateExpense(ctx context.Context, id string, patch model.ExpensePatch) (*model.Expense, error)
	SoftDeleteExpense(ctx context.Context, id string) error
	CountExpensesByCategory(ctx context.Context, categoryID string) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
