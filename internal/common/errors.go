// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Ledger boundary errors. Every mutating operation fails closed with one of
// these; callers translate them into user-facing messages.
var (
	// ErrNotFound indicates a wallet or category ID did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInactiveWallet indicates an operation targeted an archived wallet.
	ErrInactiveWallet = errors.New("wallet is archived")
	// ErrInvalidAmount indicates a non-positive amount or a transfer to self.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidCategory indicates a category type not accepted by the operation.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrDuplicateName indicates a uniqueness violation on wallet/category creation.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrWalletNotEmpty indicates archival of a wallet whose balance was not settled.
	ErrWalletNotEmpty = errors.New("wallet balance is not zero")
	// ErrStorage indicates the atomic apply step failed and was rolled back.
	ErrStorage = errors.New("storage failure")

	// Advisor errors.
	ErrRateLimit  = errors.New("rate limit exceeded")
	ErrMaxRetries = errors.New("max retries exceeded")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
