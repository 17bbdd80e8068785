package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"expenselog/internal/common"
	"expenselog/internal/config"
	"expenselog/internal/currency"
	"expenselog/internal/ledger"
	"expenselog/internal/storage"
)

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open expense database at %s", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initLedger opens the storage and loads the materialized view.
func initLedger(ctx context.Context) (*ledger.Ledger, *storage.SQLiteStorage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	led := ledger.New(store, ledger.WithDefaultCurrency(defaultCurrency()))
	if err := led.Load(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return led, store, nil
}

func defaultCurrency() string {
	if code := viper.GetString("currency.default"); code != "" {
		return code
	}
	return currency.DetectByLanguage(viper.GetString("currency.locale"))
}

// parseDay parses a YYYY-MM-DD flag value.
func parseDay(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}
