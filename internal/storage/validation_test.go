package storage

import (
	"errors"
	"testing"
	"time"

	"duit/internal/model"
)

func TestValidatePeriod(t *testing.T) {
	valid := []string{"2026-01", "2026-12", "1999-06"}
	for _, p := range valid {
		if err := validatePeriod(p); err != nil {
			t.Errorf("validatePeriod(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{"", "2026", "2026-13", "2026-00", "2026-1", "26-01", "2026/01", "2026-01-15"}
	for _, p := range invalid {
		if err := validatePeriod(p); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("validatePeriod(%q) = %v, want ErrInvalidPeriod", p, err)
		}
	}
}

func TestValidateCategoryInput(t *testing.T) {
	tests := []struct {
		name         string
		categoryName string
		categoryType model.CategoryType
		priority     model.PriorityGroup
		wantErr      bool
	}{
		{name: "expense with priority", categoryName: "Makan", categoryType: model.CategoryTypeExpense, priority: model.PriorityLiving},
		{name: "expense without priority", categoryName: "Lainnya", categoryType: model.CategoryTypeExpense, priority: model.PriorityNone, wantErr: true},
		{name: "income without priority", categoryName: "Gaji", categoryType: model.CategoryTypeIncome, priority: model.PriorityNone},
		{name: "transfer without priority", categoryName: "Transfer", categoryType: model.CategoryTypeTransfer, priority: model.PriorityNone},
		{name: "empty name", categoryName: "", categoryType: model.CategoryTypeExpense, priority: model.PriorityNone, wantErr: true},
		{name: "unknown type", categoryName: "X", categoryType: "loan", priority: model.PriorityNone, wantErr: true},
		{name: "unknown priority", categoryName: "X", categoryType: model.CategoryTypeExpense, priority: "urgent", wantErr: true},
		{name: "priority on income", categoryName: "Gaji", categoryType: model.CategoryTypeIncome, priority: model.PriorityFixed, wantErr: true},
		{name: "priority on transfer", categoryName: "Transfer", categoryType: model.CategoryTypeTransfer, priority: model.PriorityLiving, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCategoryInput(tt.categoryName, tt.categoryType, tt.priority)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCategoryInput() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	base := func() *model.Transaction {
		return &model.Transaction{
			Date:       testDate(2026, 8, 1),
			Amount:     1000,
			Direction:  model.DirectionDebit,
			WalletID:   1,
			CategoryID: 1,
		}
	}

	if err := validateTransaction(base()); err != nil {
		t.Errorf("validateTransaction(valid) = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.Transaction)
	}{
		{name: "zero amount", mutate: func(txn *model.Transaction) { txn.Amount = 0 }},
		{name: "negative amount", mutate: func(txn *model.Transaction) { txn.Amount = -1 }},
		{name: "missing date", mutate: func(txn *model.Transaction) { txn.Date = time.Time{} }},
		{name: "missing direction", mutate: func(txn *model.Transaction) { txn.Direction = "" }},
		{name: "bad direction", mutate: func(txn *model.Transaction) { txn.Direction = "sideways" }},
		{name: "missing wallet", mutate: func(txn *model.Transaction) { txn.WalletID = 0 }},
		{name: "missing category", mutate: func(txn *model.Transaction) { txn.CategoryID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := base()
			tt.mutate(txn)
			if err := validateTransaction(txn); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	if err := validateTransaction(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateTransaction(nil) = %v, want ErrNilParameter", err)
	}
}
