package storage

import (
	"context"
	"fmt"
	"log/slog"

	"duit/internal/model"
)

// SetBudget upserts the monthly spending limit for a category. The
// (category, period) pair is the uniqueness constraint.
func (s *SQLiteStorage) SetBudget(ctx context.Context, categoryID int64, period string, amountLimit float64) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.setBudgetTx(ctx, s.db, categoryID, period, amountLimit)
}

func (s *SQLiteStorage) setBudgetTx(ctx context.Context, q queryable, categoryID int64, period string, amountLimit float64) (*model.Budget, error) {
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO budgets (category_id, amount_limit, month_period)
		VALUES (?, ?, ?)
		ON CONFLICT (category_id, month_period) DO UPDATE SET amount_limit = excluded.amount_limit`

	if _, err := q.ExecContext(ctx, query, categoryID, amountLimit, period); err != nil {
		return nil, fmt.Errorf("failed to set budget: %w", err)
	}

	var budget model.Budget
	err := q.QueryRowContext(ctx,
		`SELECT id, category_id, amount_limit, month_period FROM budgets WHERE category_id = ? AND month_period = ?`,
		categoryID, period,
	).Scan(&budget.ID, &budget.CategoryID, &budget.AmountLimit, &budget.Period)
	if err != nil {
		return nil, fmt.Errorf("failed to read back budget: %w", err)
	}

	slog.Info("set budget", "category_id", categoryID, "period", period, "limit", amountLimit)
	return &budget, nil
}

// ListBudgets returns all budgets for a period.
func (s *SQLiteStorage) ListBudgets(ctx context.Context, period string) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.listBudgetsTx(ctx, s.db, period)
}

func (s *SQLiteStorage) listBudgetsTx(ctx context.Context, q queryable, period string) ([]model.Budget, error) {
	query := `
		SELECT id, category_id, amount_limit, month_period
		FROM budgets
		WHERE month_period = ?
		ORDER BY id`

	rows, err := q.QueryContext(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.AmountLimit, &b.Period); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}
