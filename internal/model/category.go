package model

import "time"

// CategoryType indicates how transactions in a category move money.
type CategoryType string

const (
	// CategoryTypeIncome represents categories that credit a wallet.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories that debit a wallet.
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeTransfer represents the system category for wallet-to-wallet moves.
	CategoryTypeTransfer CategoryType = "transfer"
)

// PriorityGroup is the budgeting bucket for expense categories.
type PriorityGroup string

const (
	// PriorityFixed covers obligations (mortgage, utilities).
	PriorityFixed PriorityGroup = "fixed"
	// PriorityLiving covers day-to-day needs (groceries, transport).
	PriorityLiving PriorityGroup = "living"
	// PriorityLifestyle covers wants (hobbies, eating out).
	PriorityLifestyle PriorityGroup = "lifestyle"
	// PriorityNone applies to income and transfer categories.
	PriorityNone PriorityGroup = ""
)

// Category classifies a money movement. Name is globally unique.
type Category struct {
	CreatedAt time.Time
	Name      string
	Type      CategoryType
	Priority  PriorityGroup
	Icon      string
	ID        int64
}

// System-managed sentinel categories, created on first use.
const (
	// TransferCategoryName records wallet-to-wallet transfers.
	TransferCategoryName = "Transfer"
	// CorrectionExpenseName records reconciliation shortfalls.
	CorrectionExpenseName = "Koreksi Saldo"
	// CorrectionIncomeName records reconciliation surpluses.
	CorrectionIncomeName = "Koreksi Saldo (Income)"
)

// ValidCategoryType reports whether t is one of the known category types.
func ValidCategoryType(t CategoryType) bool {
	switch t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeTransfer:
		return true
	}
	return false
}

// ValidPriorityGroup reports whether p is a known priority group or empty.
func ValidPriorityGroup(p PriorityGroup) bool {
	switch p {
	case PriorityFixed, PriorityLiving, PriorityLifestyle, PriorityNone:
		return true
	}
	return false
}
