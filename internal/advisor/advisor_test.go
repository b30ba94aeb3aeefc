package advisor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duit/internal/report"
	"duit/internal/service"
	"duit/internal/storage"
)

type mockClient struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (m *mockClient) Advise(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func newTestStore(t *testing.T) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testSnapshot() report.Snapshot {
	return report.Snapshot{
		MonthIncome:  5000000,
		MonthExpense: 3500000,
		TopCategories: []service.CategoryTotal{
			{Name: "Makan", Total: 1500000},
			{Name: "Transportasi", Total: 800000},
		},
	}
}

func TestDailyAdvice_GeneratesAndCaches(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	client := &mockClient{response: "Kurangi makan di luar."}

	adv := New(store, client, "")

	result, err := adv.DailyAdvice(ctx, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Kurangi makan di luar.", result.Content)
	assert.Equal(t, SourceAPI, result.Source)
	assert.Equal(t, 1, client.calls)

	// Second call the same day serves the cache without touching the client.
	result, err = adv.DailyAdvice(ctx, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Kurangi makan di luar.", result.Content)
	assert.Equal(t, SourceCache, result.Source)
	assert.Equal(t, 1, client.calls)
}

func TestDailyAdvice_NewDayGeneratesAgain(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	client := &mockClient{response: "Advice."}

	adv := New(store, client, "")

	_, err := adv.DailyAdvice(ctx, testSnapshot())
	require.NoError(t, err)
	require.Equal(t, 1, client.calls)

	// The cache key is the calendar day of generation.
	adv.now = func() time.Time { return time.Now().AddDate(0, 0, 1) }

	_, err = adv.DailyAdvice(ctx, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}

func TestDailyAdvice_FailureNotCached(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	client := &mockClient{err: errors.New("provider down")}

	adv := New(store, client, "")

	_, err := adv.DailyAdvice(ctx, testSnapshot())
	require.Error(t, err)

	// A failed generation must not poison the daily cache.
	client.err = nil
	client.response = "Recovered."

	result, err := adv.DailyAdvice(ctx, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Recovered.", result.Content)
	assert.Equal(t, SourceAPI, result.Source)
}

func TestDailyAdvice_PromptContents(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	client := &mockClient{response: "Advice."}

	adv := New(store, client, "Keluarga dengan dua anak.")

	_, err := adv.DailyAdvice(ctx, testSnapshot())
	require.NoError(t, err)
	require.Len(t, client.prompts, 1)

	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Keluarga dengan dua anak.")
	assert.Contains(t, prompt, "Rp 5000000")
	assert.Contains(t, prompt, "Rp 3500000")
	assert.Contains(t, prompt, "Makan (Rp 1500000)")
	assert.Contains(t, prompt, "LAPORAN BULAN INI")
	assert.Contains(t, prompt, "TUGAS")
}

func TestDailyAdvice_EmptySnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	client := &mockClient{response: "Mulai catat pengeluaran dulu."}

	adv := New(store, client, "")

	result, err := adv.DailyAdvice(ctx, report.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, SourceAPI, result.Source)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Pengeluaran Terbesar: -")
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "skynet"})
	assert.Error(t, err)
}
