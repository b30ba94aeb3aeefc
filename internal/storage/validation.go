// Package storage provides the data persistence layer for the duit application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"duit/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidID          = errors.New("id must be positive")
	ErrInvalidPeriod      = errors.New("period must use YYYY-MM format")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a row ID is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validatePeriod ensures a budget period string is well formed.
func validatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return nil
}

// validateCategoryInput checks the category creation contract: the type must
// be known, and only expense categories carry a priority group.
func validateCategoryInput(name string, categoryType model.CategoryType, priority model.PriorityGroup) error {
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if !model.ValidCategoryType(categoryType) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCategory, categoryType)
	}
	if !model.ValidPriorityGroup(priority) {
		return fmt.Errorf("%w: unknown priority group %q", ErrInvalidCategory, priority)
	}
	if categoryType != model.CategoryTypeExpense && priority != model.PriorityNone {
		return fmt.Errorf("%w: priority group is only valid for expense categories", ErrInvalidCategory)
	}
	if categoryType == model.CategoryTypeExpense && priority == model.PriorityNone {
		return fmt.Errorf("%w: expense categories require a priority group", ErrInvalidCategory)
	}
	return nil
}

// validateTransaction validates a ledger record before insert.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	if txn.Direction != model.DirectionCredit && txn.Direction != model.DirectionDebit {
		return fmt.Errorf("%w: missing direction", ErrInvalidTransaction)
	}
	if txn.WalletID <= 0 {
		return fmt.Errorf("%w: missing wallet", ErrInvalidTransaction)
	}
	if txn.CategoryID <= 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	return nil
}
