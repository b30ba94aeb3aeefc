package common

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return nil
		}, RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})
		if err != nil {
			t.Fatalf("WithRetry() error = %v", err)
		}
		if calls != 1 {
			t.Errorf("Expected 1 call, got %d", calls)
		}
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, RetryOptions{MaxAttempts: 5, InitialDelay: time.Millisecond})
		if err != nil {
			t.Fatalf("WithRetry() error = %v", err)
		}
		if calls != 3 {
			t.Errorf("Expected 3 calls, got %d", calls)
		}
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return errors.New("persistent")
		}, RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond})
		if !errors.Is(err, ErrMaxRetries) {
			t.Errorf("Expected ErrMaxRetries, got %v", err)
		}
		if calls != 2 {
			t.Errorf("Expected 2 calls, got %d", calls)
		}
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		permanent := &RetryableError{Err: errors.New("bad request"), Retryable: false}
		err := WithRetry(ctx, func() error {
			calls++
			return permanent
		}, RetryOptions{MaxAttempts: 5, InitialDelay: time.Millisecond})
		if !errors.Is(err, permanent.Err) {
			t.Errorf("Expected wrapped error back, got %v", err)
		}
		if calls != 1 {
			t.Errorf("Expected 1 call, got %d", calls)
		}
	})

	t.Run("canceled context stops retries", func(t *testing.T) {
		cctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := WithRetry(cctx, func() error {
			calls++
			cancel()
			return errors.New("transient")
		}, RetryOptions{MaxAttempts: 5, InitialDelay: 10 * time.Millisecond})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
		if calls != 1 {
			t.Errorf("Expected 1 call, got %d", calls)
		}
	})
}
