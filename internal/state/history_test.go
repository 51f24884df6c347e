package state

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcalc/internal/testutil"
	"github.com/leapstack-labs/leapcalc/pkg/core"
)

func setupTestStore(t *testing.T) (*SQLStore, *testutil.Clock) {
	t.Helper()

	store := NewSQLStore(DialectSQLite, testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	clock := testutil.NewClock(time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC), time.Second)
	store.SetClock(clock.Now)
	return store, clock
}

func record(t *testing.T, store *SQLStore, session, expr, result string) *core.Calculation {
	t.Helper()
	c := &core.Calculation{Expression: expr, Result: result, SessionKey: session}
	require.NoError(t, store.RecordCalculation(context.Background(), c))
	return c
}

func TestSQLStore_OpenClose(t *testing.T) {
	store := NewSQLStore(DialectSQLite, nil)
	require.NoError(t, store.Open(":memory:"))
	assert.NotNil(t, store.DB())
	assert.Equal(t, DialectSQLite, store.Dialect())
	require.NoError(t, store.Close())

	assert.Nil(t, store.DB())
	assert.NoError(t, store.Close(), "closing twice is a no-op")
	_, err := store.ListHistory(context.Background(), "s", 1)
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestSQLStore_Migrate(t *testing.T) {
	store, _ := setupTestStore(t)

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate())

	rows, err := store.DB().Query("SELECT 1 FROM calculations LIMIT 1")
	require.NoError(t, err)
	_ = rows.Close()
}

func TestSQLStore_NotOpened(t *testing.T) {
	store := NewSQLStore(DialectSQLite, nil)
	ctx := context.Background()

	assert.ErrorIs(t, store.Migrate(), ErrNotOpen)
	assert.ErrorIs(t, store.RecordCalculation(ctx, &core.Calculation{Expression: "1", Result: "1"}), ErrNotOpen)
	_, err := store.SearchHistory(ctx, core.HistoryFilter{})
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.NoError(t, store.Close())
}

func TestSQLStore_RecordAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	c := record(t, store, "session-a", "2+2", "4")
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, time.Date(2026, time.October, 15, 9, 0, 1, 0, time.UTC), c.CreatedAt)

	got, err := store.GetCalculation(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Equal(t, "2+2 = 4", got.String())
}

func TestSQLStore_RecordKeepsProvidedFields(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	at := time.Date(2025, time.March, 3, 12, 0, 0, 123456789, time.FixedZone("X", 3600))
	c := &core.Calculation{ID: "fixed-id", Expression: "1", Result: "1", CreatedAt: at}
	require.NoError(t, store.RecordCalculation(ctx, c))

	got, err := store.GetCalculation(ctx, "fixed-id")
	require.NoError(t, err)
	assert.Equal(t, at.UTC().Truncate(time.Microsecond), got.CreatedAt)
	assert.Empty(t, got.SessionKey, "no session is stored as NULL")
}

func TestSQLStore_RecordValidation(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		calc *core.Calculation
	}{
		{"nil", nil},
		{"missing expression", &core.Calculation{Result: "1"}},
		{"missing result", &core.Calculation{Expression: "1"}},
		{"expression too long", &core.Calculation{Expression: strings.Repeat("1", core.MaxExpressionLength+1), Result: "1"}},
		{"session too long", &core.Calculation{Expression: "1", Result: "1", SessionKey: strings.Repeat("s", core.MaxSessionKeyLength+1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.RecordCalculation(ctx, tt.calc))
		})
	}
}

func TestSQLStore_RecordLongResult(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	result := "1" + strings.Repeat("0", 200)
	c := record(t, store, "a", "10^200", result)

	got, err := store.GetCalculation(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, result, got.Result)
}

func TestSQLStore_ListHistory(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	record(t, store, "a", "1+1", "2")
	record(t, store, "b", "2+2", "4")
	record(t, store, "a", "3+3", "6")
	record(t, store, "a", "4+4", "8")

	history, err := store.ListHistory(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "4+4", history[0].Expression, "newest first")
	assert.Equal(t, "3+3", history[1].Expression)
	assert.Equal(t, "1+1", history[2].Expression)

	limited, err := store.ListHistory(ctx, "a", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := store.ListHistory(ctx, "", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	unknown, err := store.ListHistory(ctx, "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestSQLStore_ClearHistory(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	record(t, store, "a", "1+1", "2")
	record(t, store, "a", "2+2", "4")
	record(t, store, "b", "3+3", "6")

	deleted, err := store.ClearHistory(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := store.ListHistory(ctx, "a", 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	other, err := store.ListHistory(ctx, "b", 0)
	require.NoError(t, err)
	assert.Len(t, other, 1, "other sessions are untouched")

	deleted, err = store.ClearHistory(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestSQLStore_DeleteCalculation(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	c := record(t, store, "a", "1+1", "2")
	require.NoError(t, store.DeleteCalculation(ctx, c.ID))

	_, err := store.GetCalculation(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.DeleteCalculation(ctx, c.ID), ErrNotFound)
}

func TestSQLStore_SearchHistory(t *testing.T) {
	store, clock := setupTestStore(t)
	ctx := context.Background()

	record(t, store, "a", "10*10", "100")
	record(t, store, "b", "50%", "0.5")
	clock.Advance(48 * time.Hour)
	record(t, store, "b", "sqrt(16)", "4")
	record(t, store, "c", "100_000", "1")

	tests := []struct {
		name   string
		filter core.HistoryFilter
		want   []string
	}{
		{"all", core.HistoryFilter{}, []string{"100_000", "sqrt(16)", "50%", "10*10"}},
		{"by session", core.HistoryFilter{SessionKey: "b"}, []string{"sqrt(16)", "50%"}},
		{"search matches result", core.HistoryFilter{Search: "100"}, []string{"100_000", "10*10"}},
		{"search is case insensitive", core.HistoryFilter{Search: "SQRT"}, []string{"sqrt(16)"}},
		{"percent matched literally", core.HistoryFilter{Search: "%"}, []string{"50%"}},
		{"underscore matched literally", core.HistoryFilter{Search: "_"}, []string{"100_000"}},
		{"since", core.HistoryFilter{Since: time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)}, []string{"100_000", "sqrt(16)"}},
		{"limit", core.HistoryFilter{Limit: 1}, []string{"100_000"}},
		{"combined", core.HistoryFilter{SessionKey: "b", Search: "%"}, []string{"50%"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history, err := store.SearchHistory(ctx, tt.filter)
			require.NoError(t, err)

			got := make([]string, len(history))
			for i, c := range history {
				got[i] = c.Expression
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
