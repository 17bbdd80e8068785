package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"expenselog/internal/model"
)

// Expenses returns a copy of the current materialized view: active
// expenses with their category snapshots, date descending.
func (l *Ledger) Expenses() []model.ExpenseWithCategory {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.ExpenseWithCategory, len(l.expenses))
	copy(out, l.expenses)
	return out
}

// Categories returns a copy of the current category list, name order.
func (l *Ledger) Categories() []model.Category {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Category, len(l.categories))
	copy(out, l.categories)
	return out
}

// ExpensesByCategory filters the view by category ID. An empty ID
// selects uncategorized expenses. Soft-deleted expenses are already
// excluded from the view.
func (l *Ledger) ExpensesByCategory(categoryID string) []model.ExpenseWithCategory {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.ExpenseWithCategory
	for _, e := range l.expenses {
		if e.CategoryID == categoryID {
			out = append(out, e)
		}
	}
	return out
}

// ExpensesByPeriod filters the view to start <= date <= end, both
// bounds inclusive.
func (l *Ledger) ExpensesByPeriod(start, end time.Time) []model.ExpenseWithCategory {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.ExpenseWithCategory
	for _, e := range l.expenses {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// TotalByCategory sums the amounts of active expenses in a category.
// The accumulation is decimal, so repeated small amounts sum exactly.
func (l *Ledger) TotalByCategory(categoryID string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.ExpensesByCategory(categoryID) {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalByPeriod sums the amounts of active expenses within the
// inclusive date range.
func (l *Ledger) TotalByPeriod(start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.ExpensesByPeriod(start, end) {
		total = total.Add(e.Amount)
	}
	return total
}
