package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"expenselog/internal/cli"
	"expenselog/internal/storage"
)

func migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Bring the ledger database schema up to the current version.
Every command runs pending migrations on startup, so this exists
mainly to verify a database file or inspect its schema version.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			if status {
				fmt.Printf("Schema version: %d (expected %d)\n", version, storage.ExpectedSchemaVersion)
				return nil
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Database is at schema version %d", version)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "print the schema version without further output")

	return cmd
}
