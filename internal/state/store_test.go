package state

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcalc/pkg/core"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"", DialectSQLite, false},
		{"sqlite", DialectSQLite, false},
		{"SQLite3", DialectSQLite, false},
		{"postgres", DialectPostgres, false},
		{"postgresql", DialectPostgres, false},
		{"pgx", DialectPostgres, false},
		{"duckdb", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDialectRebind(t *testing.T) {
	query := "SELECT * FROM calculations WHERE session_key = ? AND created_at >= ? LIMIT ?"

	assert.Equal(t, query, DialectSQLite.rebind(query))
	assert.Equal(t,
		"SELECT * FROM calculations WHERE session_key = $1 AND created_at >= $2 LIMIT $3",
		DialectPostgres.rebind(query))
}

func TestBuildSearchQuery(t *testing.T) {
	since := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	query, args := buildSearchQuery(core.HistoryFilter{
		SessionKey: "abc",
		Search:     "50%",
		Since:      since,
		Limit:      20,
	})

	assert.Contains(t, query, "session_key = ?")
	assert.Contains(t, query, "LOWER(expression) LIKE ?")
	assert.Contains(t, query, "created_at >= ?")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.Equal(t, []any{"abc", `%50\%%`, `%50\%%`, since.UnixMicro(), 20}, args)

	query, args = buildSearchQuery(core.HistoryFilter{})
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

// ---------- Driver failures (sqlmock) ----------

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	store := NewSQLStoreWithDB(db, DialectPostgres, nil)
	t.Cleanup(func() { _ = store.Close() })
	return store, mock
}

func TestSQLStore_RecordCalculationDriverError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO calculations")).
		WithArgs(sqlmock.AnyArg(), "2+2", "4", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	err := store.RecordCalculation(context.Background(), &core.Calculation{Expression: "2+2", Result: "4", SessionKey: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record calculation")
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_PostgresPlaceholders(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "expression", "result", "session_key", "created_at"}).
		AddRow("id-1", "1+1", "2", "s", int64(1_700_000_000_000_000)).
		AddRow("id-2", "2+2", "4", nil, int64(1_600_000_000_000_000))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE session_key = $1 ORDER BY created_at DESC, id DESC LIMIT $2")).
		WithArgs("s", 5).
		WillReturnRows(rows)

	history, err := store.ListHistory(context.Background(), "s", 5)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "s", history[0].SessionKey)
	assert.Empty(t, history[1].SessionKey)
	assert.Equal(t, time.UnixMicro(1_700_000_000_000_000).UTC(), history[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SearchHistoryRowError(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "expression", "result", "session_key", "created_at"}).
		AddRow("id-1", "1+1", "2", "s", int64(1)).
		RowError(0, errors.New("connection reset"))

	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	_, err := store.SearchHistory(context.Background(), core.HistoryFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSQLStore_ClearHistoryDriverError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM calculations WHERE session_key = $1")).
		WithArgs("s").
		WillReturnError(errors.New("locked"))

	_, err := store.ClearHistory(context.Background(), "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear history")
}

func TestSQLStore_DeleteCalculationNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM calculations WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteCalculation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
