// Package state provides calculation history persistence over database/sql.
// SQLite (pure Go, modernc.org/sqlite) is the default backend; PostgreSQL
// is supported through pgx.
package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcalc/pkg/core"
)

// ErrNotFound is returned when a calculation does not exist.
var ErrNotFound = errors.New("calculation not found")

// ErrNotOpen is returned by operations on a store without a connection.
var ErrNotOpen = errors.New("database not opened")

// Dialect selects the SQL backend.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect converts a configured driver name into a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported state driver %q (available: sqlite, postgres)", name)
	}
}

// driverName returns the database/sql driver registered for d.
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// gooseDialect returns the goose dialect name for d.
func (d Dialect) gooseDialect() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites '?' placeholders into the dialect's native form.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

var _ core.Store = (*SQLStore)(nil)
