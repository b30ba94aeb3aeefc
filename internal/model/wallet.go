package model

import "time"

// Wallet represents a named money container (cash, bank account, e-wallet).
type Wallet struct {
	CreatedAt time.Time
	Name      string
	Type      string
	Balance   float64
	ID        int64
	IsActive  bool
}
