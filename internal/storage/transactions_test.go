package storage

import (
	"context"
	"errors"
	"testing"

	"duit/internal/model"
	"duit/internal/service"
)

// seedWalletAndCategories creates one wallet plus an income and an expense
// category for transaction tests.
func seedWalletAndCategories(t *testing.T, store *SQLiteStorage) (wallet *model.Wallet, income, expense *model.Category) {
	t.Helper()
	ctx := context.Background()

	var err error
	wallet, err = store.CreateWallet(ctx, "Cash", "cash", 0)
	if err != nil {
		t.Fatalf("CreateWallet() error = %v", err)
	}
	income, err = store.CreateCategory(ctx, "Gaji", model.CategoryTypeIncome, model.PriorityNone)
	if err != nil {
		t.Fatalf("CreateCategory(income) error = %v", err)
	}
	expense, err = store.CreateCategory(ctx, "Makan", model.CategoryTypeExpense, model.PriorityLiving)
	if err != nil {
		t.Fatalf("CreateCategory(expense) error = %v", err)
	}
	return wallet, income, expense
}

func TestSQLiteStorage_CreateTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	wallet, _, expense := seedWalletAndCategories(t, store)

	tests := []struct {
		name    string
		txn     *model.Transaction
		wantErr error
	}{
		{
			name: "valid debit record",
			txn: &model.Transaction{
				Date:        testDate(2026, 8, 10),
				Amount:      25000,
				Description: "Makan siang",
				Direction:   model.DirectionDebit,
				WalletID:    wallet.ID,
				CategoryID:  expense.ID,
			},
		},
		{
			name:    "nil transaction rejected",
			txn:     nil,
			wantErr: ErrNilParameter,
		},
		{
			name: "zero amount rejected",
			txn: &model.Transaction{
				Date:       testDate(2026, 8, 10),
				Amount:     0,
				Direction:  model.DirectionDebit,
				WalletID:   wallet.ID,
				CategoryID: expense.ID,
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "negative amount rejected",
			txn: &model.Transaction{
				Date:       testDate(2026, 8, 10),
				Amount:     -100,
				Direction:  model.DirectionDebit,
				WalletID:   wallet.ID,
				CategoryID: expense.ID,
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "missing direction rejected",
			txn: &model.Transaction{
				Date:       testDate(2026, 8, 10),
				Amount:     100,
				WalletID:   wallet.ID,
				CategoryID: expense.ID,
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "missing wallet rejected",
			txn: &model.Transaction{
				Date:       testDate(2026, 8, 10),
				Amount:     100,
				Direction:  model.DirectionDebit,
				CategoryID: expense.ID,
			},
			wantErr: ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := store.CreateTransaction(ctx, tt.txn)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateTransaction() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateTransaction() error = %v", err)
			}
			if created.ID == 0 {
				t.Error("Expected record to get an ID")
			}
			if created.CreatedAt.IsZero() {
				t.Error("Expected record to get a created_at timestamp")
			}

			got, err := store.GetTransactionByID(ctx, created.ID)
			if err != nil {
				t.Fatalf("GetTransactionByID() error = %v", err)
			}
			if got == nil || got.Amount != tt.txn.Amount || got.Direction != tt.txn.Direction {
				t.Errorf("Round-trip mismatch: got %+v", got)
			}
		})
	}
}

func TestSQLiteStorage_ListTransactions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	wallet, income, expense := seedWalletAndCategories(t, store)

	other, err := store.CreateWallet(ctx, "BCA", "bank", 0)
	if err != nil {
		t.Fatalf("CreateWallet() error = %v", err)
	}

	seed := []model.Transaction{
		{Date: testDate(2026, 8, 1), Amount: 5000000, Direction: model.DirectionCredit, WalletID: wallet.ID, CategoryID: income.ID, Description: "Gaji Agustus"},
		{Date: testDate(2026, 8, 5), Amount: 30000, Direction: model.DirectionDebit, WalletID: wallet.ID, CategoryID: expense.ID, Description: "Makan"},
		{Date: testDate(2026, 8, 20), Amount: 45000, Direction: model.DirectionDebit, WalletID: other.ID, CategoryID: expense.ID, Description: "Makan"},
	}
	for i := range seed {
		if _, err := store.CreateTransaction(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		txns, err := store.ListTransactions(ctx, service.TransactionFilter{})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(txns) != 3 {
			t.Fatalf("Expected 3 records, got %d", len(txns))
		}
		if !txns[0].Date.After(txns[1].Date) || !txns[1].Date.After(txns[2].Date) {
			t.Errorf("Expected descending date order, got %v, %v, %v", txns[0].Date, txns[1].Date, txns[2].Date)
		}
	})

	t.Run("filter by wallet", func(t *testing.T) {
		txns, err := store.ListTransactions(ctx, service.TransactionFilter{WalletID: &other.ID})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(txns) != 1 || txns[0].WalletID != other.ID {
			t.Errorf("Expected only wallet %d records, got %+v", other.ID, txns)
		}
	})

	t.Run("filter by date range", func(t *testing.T) {
		start := testDate(2026, 8, 2)
		end := testDate(2026, 8, 10)
		txns, err := store.ListTransactions(ctx, service.TransactionFilter{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(txns) != 1 || txns[0].Description != "Makan" {
			t.Errorf("Expected one record in range, got %+v", txns)
		}
	})

	t.Run("limit", func(t *testing.T) {
		txns, err := store.ListTransactions(ctx, service.TransactionFilter{Limit: 2})
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(txns) != 2 {
			t.Errorf("Expected 2 records, got %d", len(txns))
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		start := testDate(2026, 8, 10)
		end := testDate(2026, 8, 1)
		if _, err := store.ListTransactions(ctx, service.TransactionFilter{StartDate: &start, EndDate: &end}); !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})
}

func TestSQLiteStorage_GetDirectionTotals(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	wallet, income, expense := seedWalletAndCategories(t, store)

	transfer, err := store.FindOrCreateCategory(ctx, model.TransferCategoryName, model.CategoryTypeTransfer, model.PriorityNone)
	if err != nil {
		t.Fatalf("FindOrCreateCategory() error = %v", err)
	}

	seed := []model.Transaction{
		{Date: testDate(2026, 8, 1), Amount: 5000000, Direction: model.DirectionCredit, WalletID: wallet.ID, CategoryID: income.ID},
		{Date: testDate(2026, 8, 5), Amount: 30000, Direction: model.DirectionDebit, WalletID: wallet.ID, CategoryID: expense.ID},
		{Date: testDate(2026, 8, 6), Amount: 20000, Direction: model.DirectionDebit, WalletID: wallet.ID, CategoryID: expense.ID},
		// A transfer moves money between wallets; it must not count as spending.
		{Date: testDate(2026, 8, 7), Amount: 100000, Direction: model.DirectionDebit, WalletID: wallet.ID, CategoryID: transfer.ID, Description: "Transfer ke BCA"},
	}
	for i := range seed {
		if _, err := store.CreateTransaction(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	start := testDate(2026, 8, 1)
	end := testDate(2026, 8, 31)
	totals, err := store.GetDirectionTotals(ctx, start, end)
	if err != nil {
		t.Fatalf("GetDirectionTotals() error = %v", err)
	}

	if totals.Credit != 5000000 {
		t.Errorf("Expected credit total 5000000, got %v", totals.Credit)
	}
	if totals.Debit != 50000 {
		t.Errorf("Expected debit total 50000 (transfer excluded), got %v", totals.Debit)
	}
}

func TestSQLiteStorage_GetCategoryTotals(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	wallet, _, expense := seedWalletAndCategories(t, store)

	jajan, err := store.CreateCategory(ctx, "Jajan", model.CategoryTypeExpense, model.PriorityLifestyle)
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	seed := []model.Transaction{
		{Date: testDate(2026, 8, 5), Amount: 30000, Direction: model.DirectionDebit, WalletID: wallet.ID, CategoryID: expense.ID},
		{Date: testDate(2026, 8, 6), Amount: 20000, Direction: model.DirectionDebit, WalletID: wallet.ID, CategoryID: expense.ID},
		{Date: testDate(2026, 8, 7), Amount: 15000, Direction: model.DirectionDebit, WalletID: wallet.ID, CategoryID: jajan.ID},
	}
	for i := range seed {
		if _, err := store.CreateTransaction(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	totals, err := store.GetCategoryTotals(ctx, testDate(2026, 8, 1), testDate(2026, 8, 31), model.DirectionDebit)
	if err != nil {
		t.Fatalf("GetCategoryTotals() error = %v", err)
	}

	if len(totals) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(totals))
	}
	if totals[0].Name != "Makan" || totals[0].Total != 50000 {
		t.Errorf("Expected Makan first with 50000, got %+v", totals[0])
	}
	if totals[1].Name != "Jajan" || totals[1].Total != 15000 {
		t.Errorf("Expected Jajan second with 15000, got %+v", totals[1])
	}
	if totals[0].Priority != model.PriorityLiving {
		t.Errorf("Expected priority living, got %q", totals[0].Priority)
	}
}
