// Package ledger implements the consistency engine for wallet balances.
// Every mutating operation validates its inputs, applies the wallet balance
// change(s) together with the matching transaction record inside a single
// storage transaction, and commits — so a reader never observes a balance
// without its record or vice versa.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"duit/internal/common"
	"duit/internal/model"
	"duit/internal/service"
)

// ArchiveAction selects how a nonzero balance is settled before archival.
type ArchiveAction string

const (
	// ArchiveActionNone archives a wallet whose balance is already zero.
	ArchiveActionNone ArchiveAction = ""
	// ArchiveActionTransfer moves the remaining balance to another wallet.
	ArchiveActionTransfer ArchiveAction = "transfer"
	// ArchiveActionWriteOff records the remaining balance as a correction.
	ArchiveActionWriteOff ArchiveAction = "writeoff"
)

// Engine validates and applies every balance-affecting operation.
type Engine struct {
	store service.Storage
}

// New creates a ledger engine backed by the given storage.
func New(store service.Storage) *Engine {
	return &Engine{store: store}
}

// RecordTransaction applies one income or expense against a wallet and
// appends the matching record. The category's type decides the direction:
// expense debits, income credits. Transfer categories are reserved for
// TransferFunds.
func (e *Engine) RecordTransaction(ctx context.Context, date time.Time, amount float64, description string, walletID, categoryID int64) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %v", common.ErrInvalidAmount, amount)
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	wallet, err := tx.GetWalletByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("%w: look up wallet: %v", common.ErrStorage, err)
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet %d", common.ErrNotFound, walletID)
	}
	if !wallet.IsActive {
		return nil, fmt.Errorf("%w: wallet %q", common.ErrInactiveWallet, wallet.Name)
	}

	category, err := tx.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: look up category: %v", common.ErrStorage, err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, categoryID)
	}

	var direction model.TransactionDirection
	switch category.Type {
	case model.CategoryTypeExpense:
		direction = model.DirectionDebit
	case model.CategoryTypeIncome:
		direction = model.DirectionCredit
	default:
		return nil, fmt.Errorf("%w: %q transactions are recorded via transfer", common.ErrInvalidCategory, category.Type)
	}

	record, err := e.applyTx(ctx, tx, wallet.ID, direction, &model.Transaction{
		Date:        date,
		Amount:      amount,
		Description: description,
		Direction:   direction,
		WalletID:    wallet.ID,
		CategoryID:  category.ID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit failed: %v", common.ErrStorage, err)
	}

	slog.Info("recorded transaction",
		"wallet", wallet.Name,
		"category", category.Name,
		"amount", amount,
		"direction", direction)
	return record, nil
}

// TransferFunds moves amount between two wallets atomically: source is
// debited, target is credited, and exactly one record is appended against
// the source wallet under the system Transfer category. A partial transfer
// is never observable.
func (e *Engine) TransferFunds(ctx context.Context, date time.Time, amount float64, sourceID, targetID int64, description string) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %v", common.ErrInvalidAmount, amount)
	}
	if sourceID == targetID {
		return nil, fmt.Errorf("%w: source and target wallet must differ", common.ErrInvalidAmount)
	}

	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	source, err := e.activeWallet(ctx, tx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := e.activeWallet(ctx, tx, targetID)
	if err != nil {
		return nil, err
	}

	transferCat, err := tx.FindOrCreateCategory(ctx, model.TransferCategoryName, model.CategoryTypeTransfer, model.PriorityNone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	if _, err := tx.AdjustWalletBalance(ctx, source.ID, -amount); err != nil {
		return nil, fmt.Errorf("%w: debit source: %v", common.ErrStorage, err)
	}
	if _, err := tx.AdjustWalletBalance(ctx, target.ID, amount); err != nil {
		return nil, fmt.Errorf("%w: credit target: %v", common.ErrStorage, err)
	}

	// One record, against the source. The target side of the move is visible
	// only in the target wallet's balance.
	recordDesc := fmt.Sprintf("Transfer ke %s", target.Name)
	if description != "" {
		recordDesc += fmt.Sprintf(" (%s)", description)
	}

	record, err := tx.CreateTransaction(ctx, &model.Transaction{
		Date:        date,
		Amount:      amount,
		Description: recordDesc,
		Direction:   model.DirectionDebit,
		WalletID:    source.ID,
		CategoryID:  transferCat.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: append record: %v", common.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit failed: %v", common.ErrStorage, err)
	}

	slog.Info("transferred funds",
		"source", source.Name,
		"target", target.Name,
		"amount", amount)
	return record, nil
}

// ArchiveWallet retires a wallet without deleting its history. A nonzero
// balance must be settled first: either transferred in full to another
// wallet, or written off as a balance correction record. Archival never
// silently destroys value.
func (e *Engine) ArchiveWallet(ctx context.Context, walletID int64, action ArchiveAction, targetID int64) error {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	wallet, err := tx.GetWalletByID(ctx, walletID)
	if err != nil {
		return fmt.Errorf("%w: look up wallet: %v", common.ErrStorage, err)
	}
	if wallet == nil {
		return fmt.Errorf("%w: wallet %d", common.ErrNotFound, walletID)
	}
	if !wallet.IsActive {
		return fmt.Errorf("%w: wallet %q", common.ErrInactiveWallet, wallet.Name)
	}

	if wallet.Balance != 0 {
		switch action {
		case ArchiveActionTransfer:
			if targetID == wallet.ID {
				return fmt.Errorf("%w: cannot transfer balance to the wallet being archived", common.ErrInvalidAmount)
			}
			target, targetErr := e.activeWallet(ctx, tx, targetID)
			if targetErr != nil {
				return targetErr
			}
			// Move the full balance. No record is written for this move; the
			// archived wallet's history ends at zero by construction.
			if _, adjErr := tx.AdjustWalletBalance(ctx, target.ID, wallet.Balance); adjErr != nil {
				return fmt.Errorf("%w: credit target: %v", common.ErrStorage, adjErr)
			}
			if setErr := tx.SetWalletBalance(ctx, wallet.ID, 0); setErr != nil {
				return fmt.Errorf("%w: zero source: %v", common.ErrStorage, setErr)
			}
			slog.Info("moved balance before archival",
				"wallet", wallet.Name,
				"target", target.Name,
				"amount", wallet.Balance)

		case ArchiveActionWriteOff:
			if _, recErr := e.correctBalanceTx(ctx, tx, wallet, 0, time.Now(), "Tutup dompet"); recErr != nil {
				return recErr
			}

		default:
			return fmt.Errorf("%w: wallet %q holds %v", common.ErrWalletNotEmpty, wallet.Name, wallet.Balance)
		}
	}

	if err := tx.ArchiveWallet(ctx, wallet.ID); err != nil {
		return fmt.Errorf("%w: archive: %v", common.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit failed: %v", common.ErrStorage, err)
	}

	slog.Info("archived wallet", "wallet", wallet.Name)
	return nil
}

// ReconcileBalance corrects a wallet's stored balance to the observed
// actual balance, recording the difference against a correction category.
// A zero difference is a no-op and returns a nil record.
func (e *Engine) ReconcileBalance(ctx context.Context, walletID int64, actualBalance float64, date time.Time, description string) (*model.Transaction, error) {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	wallet, err := tx.GetWalletByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("%w: look up wallet: %v", common.ErrStorage, err)
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet %d", common.ErrNotFound, walletID)
	}
	if !wallet.IsActive {
		return nil, fmt.Errorf("%w: wallet %q", common.ErrInactiveWallet, wallet.Name)
	}

	if actualBalance == wallet.Balance {
		return nil, nil // Already reconciled
	}

	if description == "" {
		description = "Selisih Saldo"
	}

	record, err := e.correctBalanceTx(ctx, tx, wallet, actualBalance, date, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit failed: %v", common.ErrStorage, err)
	}

	slog.Info("reconciled wallet balance",
		"wallet", wallet.Name,
		"balance", actualBalance,
		"correction", record.Amount,
		"direction", record.Direction)
	return record, nil
}

// correctBalanceTx sets the wallet balance to actual and appends the
// correction record, all within the caller's transaction. A shortfall uses
// the expense correction sentinel; a surplus uses the income one.
func (e *Engine) correctBalanceTx(ctx context.Context, tx service.Transaction, wallet *model.Wallet, actual float64, date time.Time, description string) (*model.Transaction, error) {
	diff := actual - wallet.Balance

	var category *model.Category
	var direction model.TransactionDirection
	var err error
	if diff < 0 {
		category, err = tx.FindOrCreateCategory(ctx, model.CorrectionExpenseName, model.CategoryTypeExpense, model.PriorityLifestyle)
		direction = model.DirectionDebit
	} else {
		category, err = tx.FindOrCreateCategory(ctx, model.CorrectionIncomeName, model.CategoryTypeIncome, model.PriorityNone)
		direction = model.DirectionCredit
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	if err := tx.SetWalletBalance(ctx, wallet.ID, actual); err != nil {
		return nil, fmt.Errorf("%w: set balance: %v", common.ErrStorage, err)
	}

	amount := diff
	if amount < 0 {
		amount = -amount
	}

	record, err := tx.CreateTransaction(ctx, &model.Transaction{
		Date:        date,
		Amount:      amount,
		Description: fmt.Sprintf("Opname: %s", description),
		Direction:   direction,
		WalletID:    wallet.ID,
		CategoryID:  category.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: append record: %v", common.ErrStorage, err)
	}

	return record, nil
}

// applyTx adjusts the wallet balance by the record's signed amount and
// appends the record, both within the caller's transaction.
func (e *Engine) applyTx(ctx context.Context, tx service.Transaction, walletID int64, direction model.TransactionDirection, txn *model.Transaction) (*model.Transaction, error) {
	delta := txn.Amount
	if direction == model.DirectionDebit {
		delta = -delta
	}

	if _, err := tx.AdjustWalletBalance(ctx, walletID, delta); err != nil {
		return nil, fmt.Errorf("%w: adjust balance: %v", common.ErrStorage, err)
	}

	record, err := tx.CreateTransaction(ctx, txn)
	if err != nil {
		return nil, fmt.Errorf("%w: append record: %v", common.ErrStorage, err)
	}

	return record, nil
}

// activeWallet fetches a wallet and enforces existence and active status.
func (e *Engine) activeWallet(ctx context.Context, tx service.Transaction, id int64) (*model.Wallet, error) {
	wallet, err := tx.GetWalletByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: look up wallet: %v", common.ErrStorage, err)
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet %d", common.ErrNotFound, id)
	}
	if !wallet.IsActive {
		return nil, fmt.Errorf("%w: wallet %q", common.ErrInactiveWallet, wallet.Name)
	}
	return wallet, nil
}
