// Package ledger orchestrates writes to the record store, enforces
// referential consistency between expenses and categories, and answers
// aggregate queries over an in-memory materialized view.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"expenselog/internal/common"
	"expenselog/internal/model"
	"expenselog/internal/service"
)

// Ledger is the consistency and aggregation layer over the record
// store. A single mutex serializes mutations, so sequential and
// overlapping callers alike observe read-your-writes ordering.
type Ledger struct {
	store           service.Storage
	defaultCurrency string

	mu         sync.RWMutex
	expenses   []model.ExpenseWithCategory
	categories []model.Category
	loading    atomic.Bool
	errMu      sync.Mutex
	lastErr    error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithDefaultCurrency sets the currency applied to expenses recorded
// without one.
func WithDefaultCurrency(code string) Option {
	return func(l *Ledger) {
		l.defaultCurrency = code
	}
}

// New creates a Ledger over the given store. Call Load before reading
// the view.
func New(store service.Storage, opts ...Option) *Ledger {
	l := &Ledger{
		store:           store,
		defaultCurrency: "USD",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ExpenseInput carries the caller-supplied fields for a new expense.
type ExpenseInput struct {
	Date        time.Time
	Currency    string
	CategoryID  string
	Description string
	Amount      decimal.Decimal
}

// CategoryInput carries the caller-supplied fields for a new category.
type CategoryInput struct {
	Name      string
	Icon      string
	Color     string
	IsDefault bool
}

// Load performs the initial read of both the category list and the
// expense view.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.reload(ctx); err != nil {
		return err
	}
	l.clearErr()
	return nil
}

// Refresh re-runs the full view reload. It is the manual retry
// affordance: after a failed mutation the caller re-invokes it (or the
// mutation itself) to recover.
func (l *Ledger) Refresh(ctx context.Context) error {
	return l.Load(ctx)
}

// AddExpense validates the input, writes a new expense and reloads the
// view. A set CategoryID must reference an existing category.
func (l *Ledger) AddExpense(ctx context.Context, input ExpenseInput) (*model.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !input.Amount.IsPositive() {
		return nil, l.fail(fmt.Errorf("%w: got %s", common.ErrInvalidAmount, input.Amount))
	}
	if err := l.checkCategoryRef(ctx, input.CategoryID); err != nil {
		return nil, l.fail(err)
	}

	currency := input.Currency
	if currency == "" {
		currency = l.defaultCurrency
	}

	created, err := l.store.CreateExpense(ctx, model.Expense{
		Amount:      input.Amount,
		Currency:    currency,
		CategoryID:  input.CategoryID,
		Description: input.Description,
		Date:        input.Date,
	})
	if err != nil {
		return nil, l.fail(fmt.Errorf("failed to add expense: %w", err))
	}

	if err := l.reloadExpenses(ctx); err != nil {
		return nil, err
	}
	l.clearErr()
	return created, nil
}

// UpdateExpense validates the patch, applies it and reloads the view.
func (l *Ledger) UpdateExpense(ctx context.Context, id string, patch model.ExpensePatch) (*model.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, l.fail(fmt.Errorf("%w: got %s", common.ErrInvalidAmount, patch.Amount))
	}
	if patch.CategoryID != nil {
		if err := l.checkCategoryRef(ctx, *patch.CategoryID); err != nil {
			return nil, l.fail(err)
		}
	}

	updated, err := l.store.UpdateExpense(ctx, id, patch)
	if err != nil {
		return nil, l.fail(fmt.Errorf("failed to update expense: %w", err))
	}

	if err := l.reloadExpenses(ctx); err != nil {
		return nil, err
	}
	l.clearErr()
	return updated, nil
}

// DeleteExpense soft-deletes an expense and reloads the view. Deleting
// an already-deleted expense is a no-op success: the view excludes it
// either way.
func (l *Ledger) DeleteExpense(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.store.GetExpense(ctx, id)
	if err != nil {
		return l.fail(fmt.Errorf("failed to look up expense: %w", err))
	}
	if existing == nil {
		return l.fail(fmt.Errorf("%w: expense %s", common.ErrNotFound, id))
	}
	if existing.IsDeleted {
		slog.Debug("expense already deleted", "id", id)
		return nil
	}

	if err := l.store.SoftDeleteExpense(ctx, id); err != nil {
		return l.fail(fmt.Errorf("failed to delete expense: %w", err))
	}

	if err := l.reloadExpenses(ctx); err != nil {
		return err
	}
	l.clearErr()
	return nil
}

// AddCategory validates the input, writes a new category and reloads
// the category list.
func (l *Ledger) AddCategory(ctx context.Context, input CategoryInput) (*model.Category, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if strings.TrimSpace(input.Name) == "" {
		return nil, l.fail(common.ErrEmptyCategoryName)
	}

	created, err := l.store.CreateCategory(ctx, model.Category{
		Name:      input.Name,
		Icon:      input.Icon,
		Color:     input.Color,
		IsDefault: input.IsDefault,
	})
	if err != nil {
		return nil, l.fail(fmt.Errorf("failed to add category: %w", err))
	}

	if err := l.reloadCategories(ctx); err != nil {
		return nil, err
	}
	l.clearErr()
	return created, nil
}

// UpdateCategory applies the patch and reloads both the category list
// and the expense view: renames and recolors stale the denormalized
// snapshots embedded in the view.
func (l *Ledger) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, l.fail(common.ErrEmptyCategoryName)
	}

	updated, err := l.store.UpdateCategory(ctx, id, patch)
	if err != nil {
		return nil, l.fail(fmt.Errorf("failed to update category: %w", err))
	}

	if err := l.reload(ctx); err != nil {
		return nil, err
	}
	l.clearErr()
	return updated, nil
}

// DeleteCategory physically removes a category. While any non-deleted
// expense still references it the operation refuses with
// common.ErrCategoryInUse; nothing is written, so a dangling reference
// can never be committed.
func (l *Ledger) DeleteCategory(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	count, err := l.store.CountExpensesByCategory(ctx, id)
	if err != nil {
		return l.fail(fmt.Errorf("failed to check category references: %w", err))
	}
	if count > 0 {
		return l.fail(fmt.Errorf("%w: %d expense(s) reference category %s", common.ErrCategoryInUse, count, id))
	}

	if err := l.store.DeleteCategory(ctx, id); err != nil {
		return l.fail(fmt.Errorf("failed to delete category: %w", err))
	}

	if err := l.reloadCategories(ctx); err != nil {
		return err
	}
	l.clearErr()
	return nil
}

// Loading reports whether a view reload is in flight. It is safe to
// call from other goroutines while a mutation runs.
func (l *Ledger) Loading() bool {
	return l.loading.Load()
}

// LastError returns the most recent operation failure, or nil after a
// successful operation.
func (l *Ledger) LastError() error {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	return l.lastErr
}

// checkCategoryRef verifies that a non-empty category ID resolves.
func (l *Ledger) checkCategoryRef(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	cat, err := l.store.GetCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to resolve category: %w", err)
	}
	if cat == nil {
		return fmt.Errorf("%w: %s", common.ErrUnknownCategory, categoryID)
	}
	return nil
}

func (l *Ledger) fail(err error) error {
	l.errMu.Lock()
	l.lastErr = err
	l.errMu.Unlock()
	return err
}

func (l *Ledger) clearErr() {
	l.errMu.Lock()
	l.lastErr = nil
	l.errMu.Unlock()
}
