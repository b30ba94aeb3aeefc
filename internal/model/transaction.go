package model

import "time"

// TransactionDirection records the sign a transaction applied to its wallet.
// It is captured when the ledger applies the transaction, so later edits to
// a category's type cannot reinterpret history.
type TransactionDirection string

const (
	// DirectionCredit means the wallet balance increased.
	DirectionCredit TransactionDirection = "credit"
	// DirectionDebit means the wallet balance decreased.
	DirectionDebit TransactionDirection = "debit"
)

// Transaction is one immutable ledger record. Amount is always positive;
// Direction carries the sign.
type Transaction struct {
	Date        time.Time
	CreatedAt   time.Time
	Description string
	Direction   TransactionDirection
	Amount      float64
	ID          int64
	WalletID    int64
	CategoryID  int64
}

// SignedAmount returns the delta this transaction applied to its wallet.
func (t *Transaction) SignedAmount() float64 {
	if t.Direction == DirectionDebit {
		return -t.Amount
	}
	return t.Amount
}
