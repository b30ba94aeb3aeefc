package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"duit/internal/model"
	"duit/internal/service"

	"github.com/mattn/go-sqlite3"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database. foreign_keys enforces the wallet/category references on
	// transaction rows; busy_timeout covers concurrent CLI invocations.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes all writers, which is what gives each
	// ledger operation its atomic balance-update-plus-record-append unit.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// queryable is an interface satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}

// Transaction methods delegate to the shared helpers with the open sql.Tx.

func (t *sqliteTransaction) CreateWallet(ctx context.Context, name, walletType string, initialBalance float64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return t.storage.createWalletTx(ctx, t.tx, name, walletType, initialBalance)
}

func (t *sqliteTransaction) GetWalletByID(ctx context.Context, id int64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getWalletByIDTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetWalletByName(ctx context.Context, name string) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return t.storage.getWalletByNameTx(ctx, t.tx, name)
}

func (t *sqliteTransaction) ListWallets(ctx context.Context, activeOnly bool) ([]model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listWalletsTx(ctx, t.tx, activeOnly)
}

func (t *sqliteTransaction) AdjustWalletBalance(ctx context.Context, id int64, delta float64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.adjustWalletBalanceTx(ctx, t.tx, id, delta)
}

func (t *sqliteTransaction) SetWalletBalance(ctx context.Context, id int64, balance float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.setWalletBalanceTx(ctx, t.tx, id, balance)
}

func (t *sqliteTransaction) ArchiveWallet(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.storage.archiveWalletTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) CreateCategory(ctx context.Context, name string, categoryType model.CategoryType, priority model.PriorityGroup) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(name, categoryType, priority); err != nil {
		return nil, err
	}
	return t.storage.createCategoryTx(ctx, t.tx, name, categoryType, priority)
}

func (t *sqliteTransaction) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getCategoryByIDTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return t.storage.getCategoryByNameTx(ctx, t.tx, name)
}

func (t *sqliteTransaction) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listCategoriesTx(ctx, t.tx)
}

func (t *sqliteTransaction) FindOrCreateCategory(ctx context.Context, name string, categoryType model.CategoryType, priority model.PriorityGroup) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(name, categoryType, priority); err != nil {
		return nil, err
	}
	return t.storage.findOrCreateCategoryTx(ctx, t.tx, name, categoryType, priority)
}

func (t *sqliteTransaction) CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}
	return t.storage.createTransactionTx(ctx, t.tx, txn)
}

func (t *sqliteTransaction) GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getTransactionByIDTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listTransactionsTx(ctx, t.tx, filter)
}

func (t *sqliteTransaction) GetDirectionTotals(ctx context.Context, start, end time.Time) (service.DirectionTotals, error) {
	if err := validateContext(ctx); err != nil {
		return service.DirectionTotals{}, err
	}
	return t.storage.getDirectionTotalsTx(ctx, t.tx, start, end)
}

func (t *sqliteTransaction) GetCategoryTotals(ctx context.Context, start, end time.Time, direction model.TransactionDirection) ([]service.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getCategoryTotalsTx(ctx, t.tx, start, end, direction)
}

func (t *sqliteTransaction) SetBudget(ctx context.Context, categoryID int64, period string, amountLimit float64) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return t.storage.setBudgetTx(ctx, t.tx, categoryID, period, amountLimit)
}

func (t *sqliteTransaction) ListBudgets(ctx context.Context, period string) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return t.storage.listBudgetsTx(ctx, t.tx, period)
}

func (t *sqliteTransaction) SaveAdvice(ctx context.Context, content string) (*model.Advice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(content, "content"); err != nil {
		return nil, err
	}
	return t.storage.saveAdviceTx(ctx, t.tx, content)
}

func (t *sqliteTransaction) GetAdviceForDay(ctx context.Context, day time.Time) (*model.Advice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getAdviceForDayTx(ctx, t.tx, day)
}
