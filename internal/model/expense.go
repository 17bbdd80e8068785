package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single recorded expense.
//
// CategoryID is empty for uncategorized expenses and is persisted as
// NULL. Date is the user-meaningful transaction time and may be
// backdated; CreatedAt and UpdatedAt are record bookkeeping only.
type Expense struct {
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          string
	Currency    string
	CategoryID  string
	Description string
	Amount      decimal.Decimal
	IsDeleted   bool
}

// CategoryRef is the denormalized category snapshot embedded in the
// materialized expense view.
type CategoryRef struct {
	ID    string
	Name  string
	Color string
}

// ExpenseWithCategory is a materialized view entry: an active expense
// joined with its category's display fields at read time. Category is
// nil for uncategorized expenses.
type ExpenseWithCategory struct {
	Expense
	Category *CategoryRef
}

// ExpensePatch describes a partial expense update. Nil fields are left
// unchanged; in particular a nil Date preserves the stored date rather
// than defaulting it to now.
type ExpensePatch struct {
	Amount      *decimal.Decimal
	Currency    *string
	CategoryID  *string
	Description *string
	Date        *time.Time
}
