// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"duit/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	WalletID  *int64
	Limit     int
}

// CategoryTotal is one row of a per-category aggregation, ordered by Total.
type CategoryTotal struct {
	Name     string
	Priority model.PriorityGroup
	Total    float64
}

// DirectionTotals holds summed transaction amounts by applied direction.
// Transfer records are excluded; a transfer is not income or spending.
type DirectionTotals struct {
	Credit float64
	Debit  float64
}

// BudgetUsage pairs a monthly budget with the amount actually spent.
type BudgetUsage struct {
	CategoryName string
	Period       string
	AmountLimit  float64
	Spent        float64
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Wallet operations
	CreateWallet(ctx context.Context, name, walletType string, initialBalance float64) (*model.Wallet, error)
	GetWalletByID(ctx context.Context, id int64) (*model.Wallet, error)
	GetWalletByName(ctx context.Context, name string) (*model.Wallet, error)
	ListWallets(ctx context.Context, activeOnly bool) ([]model.Wallet, error)
	AdjustWalletBalance(ctx context.Context, id int64, delta float64) (*model.Wallet, error)
	SetWalletBalance(ctx context.Context, id int64, balance float64) error
	ArchiveWallet(ctx context.Context, id int64) error

	// Category operations
	CreateCategory(ctx context.Context, name string, categoryType model.CategoryType, priority model.PriorityGroup) (*model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	FindOrCreateCategory(ctx context.Context, name string, categoryType model.CategoryType, priority model.PriorityGroup) (*model.Category, error)

	// Ledger record operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Read-side aggregation
	GetDirectionTotals(ctx context.Context, start, end time.Time) (DirectionTotals, error)
	GetCategoryTotals(ctx context.Context, start, end time.Time, direction model.TransactionDirection) ([]CategoryTotal, error)

	// Budget operations
	SetBudget(ctx context.Context, categoryID int64, period string, amountLimit float64) (*model.Budget, error)
	ListBudgets(ctx context.Context, period string) ([]model.Budget, error)

	// Advice cache
	SaveAdvice(ctx context.Context, content string) (*model.Advice, error)
	GetAdviceForDay(ctx context.Context, day time.Time) (*model.Advice, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}
