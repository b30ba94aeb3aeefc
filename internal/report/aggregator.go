// Package report builds read-only projections over the transaction log.
// It never touches the ledger's write path: everything here is derived from
// persisted records, using the same direction the engine applied.
package report

import (
	"context"
	"fmt"
	"time"

	"duit/internal/model"
	"duit/internal/service"
)

// Summary holds one month's income and expense totals.
type Summary struct {
	Year    int
	Month   time.Month
	Income  float64
	Expense float64
}

// Net returns the month's cashflow.
func (s Summary) Net() float64 {
	return s.Income - s.Expense
}

// Snapshot is the read-only monthly view handed to the AI advisor.
type Snapshot struct {
	TopCategories []service.CategoryTotal
	MonthIncome   float64
	MonthExpense  float64
}

// Aggregator computes monthly projections from storage.
type Aggregator struct {
	store service.Storage
}

// NewAggregator creates an aggregator over the given storage.
func NewAggregator(store service.Storage) *Aggregator {
	return &Aggregator{store: store}
}

// MonthRange returns the inclusive date range covering a calendar month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// MonthSummary totals income and expense for one month. Months with no
// transactions yield zero totals.
func (a *Aggregator) MonthSummary(ctx context.Context, year int, month time.Month) (Summary, error) {
	start, end := MonthRange(year, month)

	totals, err := a.store.GetDirectionTotals(ctx, start, end)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to total month %d-%02d: %w", year, month, err)
	}

	return Summary{
		Year:    year,
		Month:   month,
		Income:  totals.Credit,
		Expense: totals.Debit,
	}, nil
}

// ExpenseBreakdown returns the month's spending per category, largest
// first. Months with no spending yield an empty breakdown.
func (a *Aggregator) ExpenseBreakdown(ctx context.Context, year int, month time.Month) ([]service.CategoryTotal, error) {
	start, end := MonthRange(year, month)

	totals, err := a.store.GetCategoryTotals(ctx, start, end, model.DirectionDebit)
	if err != nil {
		return nil, fmt.Errorf("failed to break down month %d-%02d: %w", year, month, err)
	}

	return totals, nil
}

// AdviceSnapshot assembles the monthly snapshot the AI advisor consumes:
// income, expense, and the top n spending categories.
func (a *Aggregator) AdviceSnapshot(ctx context.Context, year int, month time.Month, topN int) (Snapshot, error) {
	summary, err := a.MonthSummary(ctx, year, month)
	if err != nil {
		return Snapshot{}, err
	}

	breakdown, err := a.ExpenseBreakdown(ctx, year, month)
	if err != nil {
		return Snapshot{}, err
	}
	if topN > 0 && len(breakdown) > topN {
		breakdown = breakdown[:topN]
	}

	return Snapshot{
		MonthIncome:   summary.Income,
		MonthExpense:  summary.Expense,
		TopCategories: breakdown,
	}, nil
}

// BudgetPerformance pairs each budget for the period with what was actually
// spent in the matching category.
func (a *Aggregator) BudgetPerformance(ctx context.Context, period string) ([]service.BudgetUsage, error) {
	start, err := time.ParseInLocation("2006-01", period, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid period %q: %w", period, err)
	}

	budgets, err := a.store.ListBudgets(ctx, period)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	_, end := MonthRange(start.Year(), start.Month())
	spentByCategory, err := a.store.GetCategoryTotals(ctx, start, end, model.DirectionDebit)
	if err != nil {
		return nil, err
	}

	usages := make([]service.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		category, catErr := a.store.GetCategoryByID(ctx, b.CategoryID)
		if catErr != nil {
			return nil, catErr
		}
		if category == nil {
			continue
		}

		usage := service.BudgetUsage{
			CategoryName: category.Name,
			Period:       b.Period,
			AmountLimit:  b.AmountLimit,
		}
		for _, spent := range spentByCategory {
			if spent.Name == category.Name {
				usage.Spent = spent.Total
				break
			}
		}
		usages = append(usages, usage)
	}

	return usages, nil
}

// DailyAllowance spreads the month's remaining cashflow over the days left
// in the month, today inclusive. Exhausted or negative budgets yield zero.
func DailyAllowance(summary Summary, today time.Time) float64 {
	remaining := summary.Net()
	if remaining <= 0 {
		return 0
	}

	_, end := MonthRange(today.Year(), today.Month())
	daysLeft := end.Day() - today.Day() + 1
	if daysLeft <= 0 {
		return 0
	}

	return remaining / float64(daysLeft)
}
