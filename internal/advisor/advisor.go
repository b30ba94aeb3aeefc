package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"duit/internal/common"
	"duit/internal/report"
	"duit/internal/service"
)

// Source tells the caller where the advice text came from.
type Source string

const (
	// SourceCache means today's advice was already generated.
	SourceCache Source = "cache"
	// SourceAPI means the advice was freshly generated and cached.
	SourceAPI Source = "api"
)

// Result is the advice text plus its provenance.
type Result struct {
	Content string
	Source  Source
}

// Advisor produces at most one fresh advice per calendar day. It holds no
// wallet locks and runs outside any ledger transaction: the snapshot it
// consumes is read-only.
type Advisor struct {
	store   service.Storage
	client  Client
	context string
	now     func() time.Time
}

// New creates an advisor. userContext is an optional profile blurb prefixed
// to the prompt; an empty string falls back to a safe default.
func New(store service.Storage, client Client, userContext string) *Advisor {
	if userContext == "" {
		userContext = "Pengguna adalah keluarga yang ingin berhemat."
	}
	return &Advisor{
		store:   store,
		client:  client,
		context: userContext,
		now:     time.Now,
	}
}

// DailyAdvice returns today's advice. A cached row for today short-circuits
// generation; otherwise the snapshot is rendered into a prompt, the client
// is called, and the resulting text is cached for the rest of the day.
// Client failures are not cached.
func (a *Advisor) DailyAdvice(ctx context.Context, snapshot report.Snapshot) (Result, error) {
	today := a.now()

	cached, err := a.store.GetAdviceForDay(ctx, today)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check advice cache: %w", err)
	}
	if cached != nil {
		slog.Debug("serving cached advice", "created_at", cached.CreatedAt)
		return Result{Content: cached.Content, Source: SourceCache}, nil
	}

	prompt := a.buildPrompt(snapshot)

	var content string
	err = common.WithRetry(ctx, func() error {
		var adviseErr error
		content, adviseErr = a.client.Advise(ctx, prompt)
		return adviseErr
	}, common.RetryOptions{MaxAttempts: 2, MaxDelay: 5 * time.Second})
	if err != nil {
		return Result{}, fmt.Errorf("failed to generate advice: %w", err)
	}

	if _, err := a.store.SaveAdvice(ctx, content); err != nil {
		return Result{}, fmt.Errorf("failed to cache advice: %w", err)
	}

	return Result{Content: content, Source: SourceAPI}, nil
}

// buildPrompt renders the monthly snapshot into the advice prompt.
func (a *Advisor) buildPrompt(snapshot report.Snapshot) string {
	topCats := make([]string, 0, len(snapshot.TopCategories))
	for _, c := range snapshot.TopCategories {
		topCats = append(topCats, fmt.Sprintf("%s (Rp %.0f)", c.Name, c.Total))
	}
	topCatLine := strings.Join(topCats, ", ")
	if topCatLine == "" {
		topCatLine = "-"
	}

	net := snapshot.MonthIncome - snapshot.MonthExpense

	var b strings.Builder
	b.WriteString(a.context)
	b.WriteString("\n\nLAPORAN BULAN INI:\n")
	fmt.Fprintf(&b, "- Income: Rp %.0f\n", snapshot.MonthIncome)
	fmt.Fprintf(&b, "- Expense: Rp %.0f\n", snapshot.MonthExpense)
	fmt.Fprintf(&b, "- Sisa Cashflow: Rp %.0f\n", net)
	fmt.Fprintf(&b, "- Pengeluaran Terbesar: %s\n", topCatLine)
	b.WriteString("\nTUGAS (Jawab dalam Bahasa Indonesia yang natural):\n")
	b.WriteString("1. Diagnosis: Apakah cashflow bulan ini aman?\n")
	fmt.Fprintf(&b, "2. Action Plan: Alokasikan Rp %.0f ini kemana?\n", net)
	b.WriteString("3. Simulasi Kilat: Kapan goal tercapai?\n")
	b.WriteString("\nKeep it short, insightful, and actionable.\n")
	return b.String()
}
