package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"expenselog/internal/cli"
	"expenselog/internal/currency"
	"expenselog/internal/ledger"
	"expenselog/internal/model"
)

func addCmd() *cobra.Command {
	var (
		currencyCode string
		categoryID   string
		description  string
		date         string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a new expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			input := ledger.ExpenseInput{
				Amount:      amount,
				Currency:    currencyCode,
				CategoryID:  categoryID,
				Description: description,
			}
			if date != "" {
				day, err := parseDay(date)
				if err != nil {
					return err
				}
				input.Date = day
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			exp, err := led.AddExpense(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to add expense: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Recorded %s%s (%s)",
				exp.Amount, currency.Symbol(exp.Currency), exp.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&currencyCode, "currency", "", "currency code (default from config)")
	cmd.Flags().StringVar(&categoryID, "category", "", "category ID")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&date, "date", "", "expense date (YYYY-MM-DD, default today)")

	return cmd
}

func listCmd() *cobra.Command {
	var categoryID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			expenses := led.Expenses()
			if cmd.Flags().Changed("category") {
				expenses = led.ExpensesByCategory(categoryID)
			}

			if len(expenses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses recorded."))
				return nil
			}

			printExpenseTable(expenses)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "filter by category ID (empty selects uncategorized)")

	return cmd
}

func updateCmd() *cobra.Command {
	var (
		amountFlag   string
		currencyCode string
		categoryID   string
		description  string
		date         string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var patch model.ExpensePatch
			if cmd.Flags().Changed("amount") {
				amount, err := decimal.NewFromString(amountFlag)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountFlag, err)
				}
				patch.Amount = &amount
			}
			if cmd.Flags().Changed("currency") {
				patch.Currency = &currencyCode
			}
			if cmd.Flags().Changed("category") {
				patch.CategoryID = &categoryID
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("date") {
				day, err := parseDay(date)
				if err != nil {
					return err
				}
				patch.Date = &day
			}

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			exp, err := led.UpdateExpense(ctx, args[0], patch)
			if err != nil {
				return fmt.Errorf("failed to update expense: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Updated expense %s", exp.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amountFlag, "amount", "", "new amount")
	cmd.Flags().StringVar(&currencyCode, "currency", "", "new currency code")
	cmd.Flags().StringVar(&categoryID, "category", "", "new category ID (empty clears it)")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&date, "date", "", "new expense date (YYYY-MM-DD)")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Long: `Mark an expense as deleted. The record is kept for audit purposes
and excluded from listings and totals; deleting it again is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := led.DeleteExpense(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted expense %s", args[0])))
			return nil
		},
	}
}

func printExpenseTable(expenses []model.ExpenseWithCategory) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.TitleStyle.Render("Date"),
		cli.TitleStyle.Render("Amount"),
		cli.TitleStyle.Render("Category"),
		cli.TitleStyle.Render("Description"),
		cli.TitleStyle.Render("ID"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 10),
		strings.Repeat("-", 10),
		strings.Repeat("-", 14),
		strings.Repeat("-", 24),
		strings.Repeat("-", 12))

	for _, exp := range expenses {
		categoryName := cli.SubtleStyle.Render("(uncategorized)")
		if exp.Category != nil {
			categoryName = exp.Category.Name
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%s\t%s\n",
			exp.Date.Format(time.DateOnly),
			exp.Amount, currency.Symbol(exp.Currency),
			categoryName,
			exp.Description,
			exp.ID)
	}
}
