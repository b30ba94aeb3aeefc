package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"duit/internal/common"
	"duit/internal/config"
	"duit/internal/service"
	"duit/internal/storage"

	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/duit/duit.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// parseDate parses a --date flag value, defaulting to today.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}

	date, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return date, nil
}

// friendlyError maps ledger boundary errors onto messages a user can act
// on. Storage failures pass through unchanged after being logged as
// operationally significant.
func friendlyError(err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return common.NewUserError("That wallet or category does not exist", err)
	case errors.Is(err, common.ErrInactiveWallet):
		return common.NewUserError("That wallet is archived", err)
	case errors.Is(err, common.ErrInvalidAmount):
		return common.NewUserError("Amount must be positive, and transfers need two different wallets", err)
	case errors.Is(err, common.ErrInvalidCategory):
		return common.NewUserError("That category cannot be used here", err)
	case errors.Is(err, common.ErrDuplicateName):
		return common.NewUserError("That name is already taken", err)
	case errors.Is(err, common.ErrWalletNotEmpty):
		return common.NewUserError("Settle the remaining balance first: archive with --to <wallet> or --write-off", err)
	case errors.Is(err, common.ErrStorage):
		common.LogError(err, "ledger operation failed in storage", nil)
		return err
	default:
		return err
	}
}
