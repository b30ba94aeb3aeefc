package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"duit/internal/common"
	"duit/internal/model"
)

// CreateWallet creates a new wallet. The name is the uniqueness constraint;
// a second wallet with the same name fails with common.ErrDuplicateName.
func (s *SQLiteStorage) CreateWallet(ctx context.Context, name, walletType string, initialBalance float64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.createWalletTx(ctx, s.db, name, walletType, initialBalance)
}

func (s *SQLiteStorage) createWalletTx(ctx context.Context, q queryable, name, walletType string, initialBalance float64) (*model.Wallet, error) {
	query := `
		INSERT INTO wallets (name, wallet_type, balance, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)`

	now := time.Now()
	result, err := q.ExecContext(ctx, query, name, walletType, initialBalance, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: wallet %q", common.ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet ID: %w", err)
	}

	wallet := &model.Wallet{
		ID:        id,
		Name:      name,
		Type:      walletType,
		Balance:   initialBalance,
		IsActive:  true,
		CreatedAt: now,
	}

	slog.Info("created wallet", "name", name, "id", id, "balance", initialBalance)
	return wallet, nil
}

// GetWalletByID returns a wallet by its ID, or nil if it does not exist.
func (s *SQLiteStorage) GetWalletByID(ctx context.Context, id int64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getWalletByIDTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getWalletByIDTx(ctx context.Context, q queryable, id int64) (*model.Wallet, error) {
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, wallet_type, balance, is_active, created_at
		FROM wallets
		WHERE id = ?`

	var w model.Wallet
	err := q.QueryRowContext(ctx, query, id).Scan(
		&w.ID, &w.Name, &w.Type, &w.Balance, &w.IsActive, &w.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Wallet not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet: %w", err)
	}

	return &w, nil
}

// GetWalletByName returns a wallet by its unique name, or nil if absent.
func (s *SQLiteStorage) GetWalletByName(ctx context.Context, name string) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getWalletByNameTx(ctx, s.db, name)
}

func (s *SQLiteStorage) getWalletByNameTx(ctx context.Context, q queryable, name string) (*model.Wallet, error) {
	query := `
		SELECT id, name, wallet_type, balance, is_active, created_at
		FROM wallets
		WHERE name = ?`

	var w model.Wallet
	err := q.QueryRowContext(ctx, query, name).Scan(
		&w.ID, &w.Name, &w.Type, &w.Balance, &w.IsActive, &w.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet: %w", err)
	}

	return &w, nil
}

// ListWallets returns wallets ordered by name. With activeOnly, archived
// wallets are filtered out.
func (s *SQLiteStorage) ListWallets(ctx context.Context, activeOnly bool) ([]model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listWalletsTx(ctx, s.db, activeOnly)
}

func (s *SQLiteStorage) listWalletsTx(ctx context.Context, q queryable, activeOnly bool) ([]model.Wallet, error) {
	query := `
		SELECT id, name, wallet_type, balance, is_active, created_at
		FROM wallets`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wallets []model.Wallet
	for rows.Next() {
		var w model.Wallet
		if err := rows.Scan(&w.ID, &w.Name, &w.Type, &w.Balance, &w.IsActive, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallets: %w", err)
	}

	return wallets, nil
}

// AdjustWalletBalance applies delta to a wallet's balance and returns the
// updated row. Pure arithmetic: overdraft is permitted, balances may go
// negative. Callers own the validation.
func (s *SQLiteStorage) AdjustWalletBalance(ctx context.Context, id int64, delta float64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.adjustWalletBalanceTx(ctx, s.db, id, delta)
}

func (s *SQLiteStorage) adjustWalletBalanceTx(ctx context.Context, q queryable, id int64, delta float64) (*model.Wallet, error) {
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := `UPDATE wallets SET balance = balance + ? WHERE id = ?`
	result, err := q.ExecContext(ctx, query, delta, id)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust wallet balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: wallet %d", common.ErrNotFound, id)
	}

	wallet, err := s.getWalletByIDTx(ctx, q, id)
	if err != nil {
		return nil, err
	}

	slog.Debug("adjusted wallet balance", "id", id, "delta", delta, "balance", wallet.Balance)
	return wallet, nil
}

// SetWalletBalance overwrites a wallet's balance. Used by reconciliation,
// which records the difference as a transaction in the same storage
// transaction.
func (s *SQLiteStorage) SetWalletBalance(ctx context.Context, id int64, balance float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.setWalletBalanceTx(ctx, s.db, id, balance)
}

func (s *SQLiteStorage) setWalletBalanceTx(ctx context.Context, q queryable, id int64, balance float64) error {
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `UPDATE wallets SET balance = ? WHERE id = ?`, balance, id)
	if err != nil {
		return fmt.Errorf("failed to set wallet balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: wallet %d", common.ErrNotFound, id)
	}

	return nil
}

// ArchiveWallet soft-deletes a wallet. History is never removed.
func (s *SQLiteStorage) ArchiveWallet(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.archiveWalletTx(ctx, s.db, id)
}

func (s *SQLiteStorage) archiveWalletTx(ctx context.Context, q queryable, id int64) error {
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `UPDATE wallets SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to archive wallet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: wallet %d", common.ErrNotFound, id)
	}

	slog.Info("archived wallet", "id", id)
	return nil
}
