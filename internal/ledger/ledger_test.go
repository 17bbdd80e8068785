package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenselog/internal/common"
	"expenselog/internal/model"
	"expenselog/internal/service"
	"expenselog/internal/testutil"
)

// Helper to create a loaded ledger over a fresh migrated database.
func newTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()

	store := testutil.SetupTestDB(t)
	led := New(store, opts...)
	if err := led.Load(context.Background()); err != nil {
		t.Fatalf("failed to load ledger: %v", err)
	}
	return led
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("recorded expense is immediately visible", func(t *testing.T) {
		led := newTestLedger(t)

		exp, err := led.AddExpense(ctx, ExpenseInput{
			Amount:      amount("250.50"),
			CategoryID:  "food",
			Description: "groceries",
		})
		require.NoError(t, err)

		view := led.Expenses()
		require.Len(t, view, 1)
		assert.Equal(t, exp.ID, view[0].ID)
		require.NotNil(t, view[0].Category)
		assert.Equal(t, "Food", view[0].Category.Name)
	})

	t.Run("applies default currency", func(t *testing.T) {
		led := newTestLedger(t, WithDefaultCurrency("EUR"))

		exp, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("5")})
		require.NoError(t, err)
		assert.Equal(t, "EUR", exp.Currency)

		explicit, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("5"), Currency: "GBP"})
		require.NoError(t, err)
		assert.Equal(t, "GBP", explicit.Currency)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		led := newTestLedger(t)

		_, err := led.AddExpense(ctx, ExpenseInput{Amount: decimal.Zero})
		assert.ErrorIs(t, err, common.ErrInvalidAmount)

		_, err = led.AddExpense(ctx, ExpenseInput{Amount: amount("-3.50")})
		assert.ErrorIs(t, err, common.ErrInvalidAmount)

		assert.Empty(t, led.Expenses())
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		led := newTestLedger(t)

		_, err := led.AddExpense(ctx, ExpenseInput{
			Amount:     amount("10"),
			CategoryID: "no-such-category",
		})
		assert.ErrorIs(t, err, common.ErrUnknownCategory)
		assert.Empty(t, led.Expenses())
	})

	t.Run("empty category means uncategorized", func(t *testing.T) {
		led := newTestLedger(t)

		_, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("10")})
		require.NoError(t, err)

		view := led.Expenses()
		require.Len(t, view, 1)
		assert.Nil(t, view[0].Category)
	})
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("patched fields reach the view", func(t *testing.T) {
		led := newTestLedger(t)

		exp, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("10"), CategoryID: "food"})
		require.NoError(t, err)

		newAmount := amount("12.34")
		transport := "transport"
		_, err = led.UpdateExpense(ctx, exp.ID, model.ExpensePatch{
			Amount:     &newAmount,
			CategoryID: &transport,
		})
		require.NoError(t, err)

		view := led.Expenses()
		require.Len(t, view, 1)
		assert.True(t, view[0].Amount.Equal(newAmount))
		require.NotNil(t, view[0].Category)
		assert.Equal(t, "Transport", view[0].Category.Name)
	})

	t.Run("rejects non-positive patch amount", func(t *testing.T) {
		led := newTestLedger(t)

		exp, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("10")})
		require.NoError(t, err)

		zero := decimal.Zero
		_, err = led.UpdateExpense(ctx, exp.ID, model.ExpensePatch{Amount: &zero})
		assert.ErrorIs(t, err, common.ErrInvalidAmount)

		// The stored amount is untouched.
		view := led.Expenses()
		require.Len(t, view, 1)
		assert.True(t, view[0].Amount.Equal(amount("10")))
	})

	t.Run("rejects unknown category patch", func(t *testing.T) {
		led := newTestLedger(t)

		exp, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("10")})
		require.NoError(t, err)

		bogus := "no-such-category"
		_, err = led.UpdateExpense(ctx, exp.ID, model.ExpensePatch{CategoryID: &bogus})
		assert.ErrorIs(t, err, common.ErrUnknownCategory)
	})

	t.Run("unknown expense", func(t *testing.T) {
		led := newTestLedger(t)

		a := amount("1")
		_, err := led.UpdateExpense(ctx, "nonexistent", model.ExpensePatch{Amount: &a})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("removes expense from view and totals", func(t *testing.T) {
		led := newTestLedger(t)

		keep, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("99.50"), CategoryID: "food"})
		require.NoError(t, err)
		drop, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("250.50"), CategoryID: "food"})
		require.NoError(t, err)

		require.NoError(t, led.DeleteExpense(ctx, drop.ID))

		view := led.Expenses()
		require.Len(t, view, 1)
		assert.Equal(t, keep.ID, view[0].ID)
		assert.True(t, led.TotalByCategory("food").Equal(amount("99.50")))
	})

	t.Run("second delete is a no-op success", func(t *testing.T) {
		led := newTestLedger(t)

		exp, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("10")})
		require.NoError(t, err)

		require.NoError(t, led.DeleteExpense(ctx, exp.ID))
		require.NoError(t, led.DeleteExpense(ctx, exp.ID))
		assert.Empty(t, led.Expenses())
	})

	t.Run("unknown expense", func(t *testing.T) {
		led := newTestLedger(t)

		err := led.DeleteExpense(ctx, "nonexistent")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("new category appears in the list", func(t *testing.T) {
		led := newTestLedger(t)

		cat, err := led.AddCategory(ctx, CategoryInput{Name: "Hobbies", Color: "#ABCDEF"})
		require.NoError(t, err)
		assert.NotEmpty(t, cat.ID)

		categories := led.Categories()
		require.Len(t, categories, 9)

		found := false
		for _, c := range categories {
			if c.ID == cat.ID {
				found = true
				assert.Equal(t, "Hobbies", c.Name)
			}
		}
		assert.True(t, found)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		led := newTestLedger(t)

		_, err := led.AddCategory(ctx, CategoryInput{Name: ""})
		assert.ErrorIs(t, err, common.ErrEmptyCategoryName)

		_, err = led.AddCategory(ctx, CategoryInput{Name: "   "})
		assert.ErrorIs(t, err, common.ErrEmptyCategoryName)
	})
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("rename refreshes expense snapshots", func(t *testing.T) {
		led := newTestLedger(t)

		_, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("10"), CategoryID: "food"})
		require.NoError(t, err)

		newName := "Dining"
		_, err = led.UpdateCategory(ctx, "food", model.CategoryPatch{Name: &newName})
		require.NoError(t, err)

		view := led.Expenses()
		require.Len(t, view, 1)
		require.NotNil(t, view[0].Category)
		assert.Equal(t, "Dining", view[0].Category.Name)
	})

	t.Run("rejects blank rename", func(t *testing.T) {
		led := newTestLedger(t)

		blank := "  "
		_, err := led.UpdateCategory(ctx, "food", model.CategoryPatch{Name: &blank})
		assert.ErrorIs(t, err, common.ErrEmptyCategoryName)
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while expenses reference it", func(t *testing.T) {
		led := newTestLedger(t)

		_, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("10"), CategoryID: "food"})
		require.NoError(t, err)

		err = led.DeleteCategory(ctx, "food")
		assert.ErrorIs(t, err, common.ErrCategoryInUse)

		// Nothing was written: the category and the reference survive.
		view := led.Expenses()
		require.Len(t, view, 1)
		require.NotNil(t, view[0].Category)
		assert.Equal(t, "food", view[0].Category.ID)
	})

	t.Run("allowed once references are deleted", func(t *testing.T) {
		led := newTestLedger(t)

		exp, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("10"), CategoryID: "food"})
		require.NoError(t, err)
		require.NoError(t, led.DeleteExpense(ctx, exp.ID))

		require.NoError(t, led.DeleteCategory(ctx, "food"))
		assert.Len(t, led.Categories(), 7)
	})

	t.Run("unused category deletes cleanly", func(t *testing.T) {
		led := newTestLedger(t)

		require.NoError(t, led.DeleteCategory(ctx, "business"))
		assert.Len(t, led.Categories(), 7)
	})
}

func TestLastError(t *testing.T) {
	ctx := context.Background()
	led := newTestLedger(t)

	assert.NoError(t, led.LastError())

	_, err := led.AddExpense(ctx, ExpenseInput{Amount: decimal.Zero})
	require.Error(t, err)
	assert.ErrorIs(t, led.LastError(), common.ErrInvalidAmount)

	_, err = led.AddExpense(ctx, ExpenseInput{Amount: amount("10")})
	require.NoError(t, err)
	assert.NoError(t, led.LastError())
}

// flakyStore fails the view query on demand while delegating everything
// else to the real store.
type flakyStore struct {
	service.Storage
	failList bool
}

func (s *flakyStore) ListExpensesWithCategory(ctx context.Context) ([]model.ExpenseWithCategory, error) {
	if s.failList {
		return nil, errors.New("view query failed")
	}
	return s.Storage.ListExpensesWithCategory(ctx)
}

func TestFailedReloadPreservesView(t *testing.T) {
	ctx := context.Background()

	store := testutil.SetupTestDB(t)
	flaky := &flakyStore{Storage: store}
	led := New(flaky)
	require.NoError(t, led.Load(ctx))

	first, err := led.AddExpense(ctx, ExpenseInput{Amount: amount("10"), CategoryID: "food"})
	require.NoError(t, err)

	// The write succeeds but the reload fails; the view keeps showing
	// the previous snapshot and the failure is recorded.
	flaky.failList = true
	_, err = led.AddExpense(ctx, ExpenseInput{Amount: amount("20"), CategoryID: "food"})
	require.Error(t, err)
	assert.Error(t, led.LastError())

	view := led.Expenses()
	require.Len(t, view, 1)
	assert.Equal(t, first.ID, view[0].ID)

	// Refresh is the retry affordance: once the store recovers, the
	// committed write becomes visible.
	flaky.failList = false
	require.NoError(t, led.Refresh(ctx))
	assert.Len(t, led.Expenses(), 2)
	assert.NoError(t, led.LastError())
}
