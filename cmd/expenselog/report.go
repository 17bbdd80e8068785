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
)

func reportCmd() *cobra.Command {
	var (
		categoryID string
		from       string
		to         string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show expense totals",
		Long: `Sum active expenses by category or over a date range. With no
flags, totals for every category are shown. Sums are computed in
exact decimal arithmetic.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if from != "" || to != "" {
				if from == "" || to == "" {
					return fmt.Errorf("--from and --to must be used together")
				}
				start, err := parseDay(from)
				if err != nil {
					return err
				}
				end, err := parseDay(to)
				if err != nil {
					return err
				}
				// End of day, so the --to day itself is included.
				end = end.Add(24*time.Hour - time.Millisecond)

				total := led.TotalByPeriod(start, end)
				count := len(led.ExpensesByPeriod(start, end))
				fmt.Printf("%s expenses from %s to %s: %s\n",
					cli.TitleStyle.Render(fmt.Sprintf("%d", count)), from, to, total)
				return nil
			}

			if cmd.Flags().Changed("category") {
				total := led.TotalByCategory(categoryID)
				fmt.Printf("Total: %s\n", total)
				return nil
			}

			// Per-category breakdown over the whole ledger.
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\n", cli.TitleStyle.Render("Category"), cli.TitleStyle.Render("Total"))
			fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 20), strings.Repeat("-", 12))

			grand := decimal.Zero
			for _, cat := range led.Categories() {
				total := led.TotalByCategory(cat.ID)
				if total.IsZero() {
					continue
				}
				grand = grand.Add(total)
				fmt.Fprintf(w, "%s\t%s\n", cat.Name, total)
			}
			if uncategorized := led.TotalByCategory(""); !uncategorized.IsZero() {
				grand = grand.Add(uncategorized)
				fmt.Fprintf(w, "%s\t%s\n", cli.SubtleStyle.Render("(uncategorized)"), uncategorized)
			}
			fmt.Fprintf(w, "%s\t%s\n", cli.TitleStyle.Render("Total"), grand)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "total for one category ID (empty selects uncategorized)")
	cmd.Flags().StringVar(&from, "from", "", "period start (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "period end (YYYY-MM-DD, inclusive)")

	return cmd
}
