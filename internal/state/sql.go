package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver (pure Go)
)

const pingTimeout = 5 * time.Second

// SQLStore implements core.Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

// NewSQLStore creates a store for the given dialect. Call Open before use.
func NewSQLStore(dialect Dialect, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLStore{
		dialect: dialect,
		logger:  logger,
		now:     time.Now,
	}
}

// NewSQLStoreWithDB wraps an existing connection. The store takes
// ownership of db and closes it on Close.
func NewSQLStoreWithDB(db *sql.DB, dialect Dialect, logger *slog.Logger) *SQLStore {
	s := NewSQLStore(dialect, logger)
	s.db = db
	return s
}

// Open opens a connection. For SQLite the dsn is a file path, or ":memory:"
// for an in-memory database; for PostgreSQL it is a connection URL.
func (s *SQLStore) Open(dsn string) error {
	driverDSN := dsn
	memory := false
	if s.dialect == DialectSQLite {
		memory = dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
		if !memory && !strings.Contains(dsn, "?") {
			driverDSN = dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		}
	}

	db, err := sql.Open(s.dialect.driverName(), driverDSN)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", s.dialect, err)
	}

	// Every pooled connection to :memory: would be a separate database.
	if memory {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s database: %w", s.dialect, err)
	}

	s.db = db
	s.logger.Debug("opened state database", "dialect", s.dialect, "memory", memory)
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying connection.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Dialect returns the store's SQL dialect.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// SetClock replaces the time source used for new records.
func (s *SQLStore) SetClock(now func() time.Time) {
	s.now = now
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}
