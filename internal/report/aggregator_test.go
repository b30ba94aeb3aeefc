package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duit/internal/ledger"
	"duit/internal/model"
	"duit/internal/service"
	"duit/internal/storage"
)

func newTestAggregator(t *testing.T) (*Aggregator, *ledger.Engine, service.Storage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))

	return NewAggregator(store), ledger.New(store), store
}

func augustDay(day int) time.Time {
	return time.Date(2026, time.August, day, 0, 0, 0, 0, time.Local)
}

// seedAugust records a salary, two expenses, and a transfer in August 2026.
func seedAugust(t *testing.T, engine *ledger.Engine, store service.Storage) {
	t.Helper()
	ctx := context.Background()

	cash, err := store.CreateWallet(ctx, "Cash", "cash", 0)
	require.NoError(t, err)
	bank, err := store.CreateWallet(ctx, "BCA", "bank", 0)
	require.NoError(t, err)

	gaji, err := store.CreateCategory(ctx, "Gaji", model.CategoryTypeIncome, model.PriorityNone)
	require.NoError(t, err)
	makan, err := store.CreateCategory(ctx, "Makan", model.CategoryTypeExpense, model.PriorityLiving)
	require.NoError(t, err)
	jajan, err := store.CreateCategory(ctx, "Jajan", model.CategoryTypeExpense, model.PriorityLifestyle)
	require.NoError(t, err)

	_, err = engine.RecordTransaction(ctx, augustDay(1), 5000000, "Gaji Agustus", bank.ID, gaji.ID)
	require.NoError(t, err)
	_, err = engine.RecordTransaction(ctx, augustDay(5), 400000, "", bank.ID, makan.ID)
	require.NoError(t, err)
	_, err = engine.RecordTransaction(ctx, augustDay(8), 150000, "", cash.ID, jajan.ID)
	require.NoError(t, err)

	// Transfers must never surface as income or spending.
	_, err = engine.TransferFunds(ctx, augustDay(10), 1000000, bank.ID, cash.ID, "")
	require.NoError(t, err)
}

func TestMonthSummary(t *testing.T) {
	ctx := context.Background()
	agg, engine, store := newTestAggregator(t)
	seedAugust(t, engine, store)

	summary, err := agg.MonthSummary(ctx, 2026, time.August)
	require.NoError(t, err)

	assert.Equal(t, 5000000.0, summary.Income)
	assert.Equal(t, 550000.0, summary.Expense)
	assert.Equal(t, 4450000.0, summary.Net())
}

func TestMonthSummary_EmptyMonth(t *testing.T) {
	ctx := context.Background()
	agg, engine, store := newTestAggregator(t)
	seedAugust(t, engine, store)

	summary, err := agg.MonthSummary(ctx, 2026, time.July)
	require.NoError(t, err)

	assert.Zero(t, summary.Income)
	assert.Zero(t, summary.Expense)
	assert.Zero(t, summary.Net())
}

func TestExpenseBreakdown(t *testing.T) {
	ctx := context.Background()
	agg, engine, store := newTestAggregator(t)
	seedAugust(t, engine, store)

	breakdown, err := agg.ExpenseBreakdown(ctx, 2026, time.August)
	require.NoError(t, err)

	require.Len(t, breakdown, 2)
	assert.Equal(t, "Makan", breakdown[0].Name)
	assert.Equal(t, 400000.0, breakdown[0].Total)
	assert.Equal(t, "Jajan", breakdown[1].Name)
	assert.Equal(t, 150000.0, breakdown[1].Total)
}

func TestAdviceSnapshot(t *testing.T) {
	ctx := context.Background()
	agg, engine, store := newTestAggregator(t)
	seedAugust(t, engine, store)

	snapshot, err := agg.AdviceSnapshot(ctx, 2026, time.August, 1)
	require.NoError(t, err)

	assert.Equal(t, 5000000.0, snapshot.MonthIncome)
	assert.Equal(t, 550000.0, snapshot.MonthExpense)
	require.Len(t, snapshot.TopCategories, 1)
	assert.Equal(t, "Makan", snapshot.TopCategories[0].Name)
}

func TestBudgetPerformance(t *testing.T) {
	ctx := context.Background()
	agg, engine, store := newTestAggregator(t)
	seedAugust(t, engine, store)

	makan, err := store.GetCategoryByName(ctx, "Makan")
	require.NoError(t, err)
	jajan, err := store.GetCategoryByName(ctx, "Jajan")
	require.NoError(t, err)

	_, err = store.SetBudget(ctx, makan.ID, "2026-08", 500000)
	require.NoError(t, err)
	_, err = store.SetBudget(ctx, jajan.ID, "2026-08", 100000)
	require.NoError(t, err)

	usages, err := agg.BudgetPerformance(ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, usages, 2)

	byName := map[string]service.BudgetUsage{}
	for _, u := range usages {
		byName[u.CategoryName] = u
	}

	assert.Equal(t, 500000.0, byName["Makan"].AmountLimit)
	assert.Equal(t, 400000.0, byName["Makan"].Spent)
	assert.Equal(t, 100000.0, byName["Jajan"].AmountLimit)
	assert.Equal(t, 150000.0, byName["Jajan"].Spent)
}

func TestBudgetPerformance_NoBudgets(t *testing.T) {
	ctx := context.Background()
	agg, _, _ := newTestAggregator(t)

	usages, err := agg.BudgetPerformance(ctx, "2026-08")
	require.NoError(t, err)
	assert.Empty(t, usages)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2026, time.February)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, 28, end.Day())
	assert.Equal(t, time.February, end.Month())
}

func TestDailyAllowance(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		today   time.Time
		want    float64
	}{
		{
			name:    "spreads remaining over days left",
			summary: Summary{Year: 2026, Month: time.August, Income: 3100000, Expense: 0},
			today:   augustDay(1),
			want:    100000,
		},
		{
			name:    "last day gets everything",
			summary: Summary{Year: 2026, Month: time.August, Income: 50000, Expense: 0},
			today:   augustDay(31),
			want:    50000,
		},
		{
			name:    "overspent month yields zero",
			summary: Summary{Year: 2026, Month: time.August, Income: 100000, Expense: 150000},
			today:   augustDay(10),
			want:    0,
		},
		{
			name:    "empty month yields zero",
			summary: Summary{Year: 2026, Month: time.August},
			today:   augustDay(10),
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DailyAllowance(tt.summary, tt.today), 0.001)
		})
	}
}
