package ledger

import (
	"context"
	"fmt"
	"log/slog"
)

// The materialized view is rebuilt with a full reload after every
// mutation rather than patched incrementally; at personal-finance scale
// that keeps the consistency story trivial. The reload steps live here
// as separate methods so an incremental strategy can replace them
// without touching the mutation paths.

// reload refreshes both the category list and the expense view. On
// failure the previous snapshots are kept: the view only ever reflects
// a successful read.
func (l *Ledger) reload(ctx context.Context) error {
	if err := l.reloadCategories(ctx); err != nil {
		return err
	}
	return l.reloadExpenses(ctx)
}

func (l *Ledger) reloadCategories(ctx context.Context) error {
	l.loading.Store(true)
	defer l.loading.Store(false)

	categories, err := l.store.ListCategories(ctx)
	if err != nil {
		return l.fail(fmt.Errorf("failed to reload categories: %w", err))
	}

	l.categories = categories
	return nil
}

func (l *Ledger) reloadExpenses(ctx context.Context) error {
	l.loading.Store(true)
	defer l.loading.Store(false)

	expenses, err := l.store.ListExpensesWithCategory(ctx)
	if err != nil {
		return l.fail(fmt.Errorf("failed to reload expenses: %w", err))
	}

	l.expenses = expenses
	slog.Debug("reloaded expense view", "count", len(expenses))
	return nil
}
