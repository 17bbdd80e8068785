package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"expenselog/internal/currency"
)

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <amount> <from> <to>",
		Short: "Convert an amount between currencies",
		Long: `Convert an amount using current exchange rates. Rates are fetched
from the configured endpoint and cached for an hour. The ledger itself
never converts; amounts stay in the currency they were recorded in.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			from := strings.ToUpper(args[1])
			to := strings.ToUpper(args[2])

			client := currency.NewRateClient(viper.GetString("rates.url"))
			converted, err := client.Convert(cmd.Context(), amount, from, to)
			if err != nil {
				return fmt.Errorf("failed to convert: %w", err)
			}

			fmt.Printf("%s%s = %s%s\n",
				amount, currency.Symbol(from),
				converted.Round(2), currency.Symbol(to))
			return nil
		},
	}
}
