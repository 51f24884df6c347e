package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/leapcalc/pkg/core"
)

const calculationColumns = `id, expression, result, session_key, created_at`

// RecordCalculation inserts c, assigning an ID and creation time when unset.
func (s *SQLStore) RecordCalculation(ctx context.Context, c *core.Calculation) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if err := validateCalculation(c); err != nil {
		return err
	}

	if c.ID == "" {
		c.ID = generateID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	c.CreatedAt = c.CreatedAt.UTC().Truncate(time.Microsecond)

	_, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`INSERT INTO calculations (`+calculationColumns+`) VALUES (?, ?, ?, ?, ?)`),
		c.ID, c.Expression, c.Result, nullString(c.SessionKey), c.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to record calculation: %w", err)
	}

	s.logger.Debug("recorded calculation", "id", c.ID, "session", c.SessionKey)
	return nil
}

// GetCalculation retrieves a calculation by ID.
func (s *SQLStore) GetCalculation(ctx context.Context, id string) (*core.Calculation, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	row := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT `+calculationColumns+` FROM calculations WHERE id = ?`), id)

	c, err := scanCalculation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calculation: %w", err)
	}
	return c, nil
}

// DeleteCalculation deletes a single calculation by ID.
func (s *SQLStore) DeleteCalculation(ctx context.Context, id string) error {
	if s.db == nil {
		return ErrNotOpen
	}

	result, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM calculations WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete calculation: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ListHistory returns up to limit calculations for a session, newest first.
// A non-positive limit returns everything.
func (s *SQLStore) ListHistory(ctx context.Context, sessionKey string, limit int) ([]*core.Calculation, error) {
	if sessionKey == "" {
		return []*core.Calculation{}, nil
	}
	return s.SearchHistory(ctx, core.HistoryFilter{SessionKey: sessionKey, Limit: limit})
}

// ClearHistory deletes every calculation of a session and returns how many
// rows were removed.
func (s *SQLStore) ClearHistory(ctx context.Context, sessionKey string) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	if sessionKey == "" {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx,
		s.dialect.rebind(`DELETE FROM calculations WHERE session_key = ?`), sessionKey)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	s.logger.Debug("cleared history", "session", sessionKey, "deleted", rowsAffected)
	return rowsAffected, nil
}

// SearchHistory returns calculations matching filter, newest first.
func (s *SQLStore) SearchHistory(ctx context.Context, filter core.HistoryFilter) ([]*core.Calculation, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	query, args := buildSearchQuery(filter)
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	history := []*core.Calculation{}
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		history = append(history, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return history, nil
}

// buildSearchQuery assembles the SELECT for a filter using '?' placeholders.
func buildSearchQuery(filter core.HistoryFilter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if filter.SessionKey != "" {
		where = append(where, "session_key = ?")
		args = append(args, filter.SessionKey)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		where = append(where, `(LOWER(expression) LIKE ? ESCAPE '\' OR LOWER(result) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if !filter.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since.UTC().UnixMicro())
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + calculationColumns + ` FROM calculations`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	return b.String(), args
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row rowScanner) (*core.Calculation, error) {
	var (
		c          core.Calculation
		sessionKey sql.NullString
		createdAt  int64
	)
	if err := row.Scan(&c.ID, &c.Expression, &c.Result, &sessionKey, &createdAt); err != nil {
		return nil, err
	}
	if sessionKey.Valid {
		c.SessionKey = sessionKey.String
	}
	c.CreatedAt = time.UnixMicro(createdAt).UTC()
	return &c, nil
}

func validateCalculation(c *core.Calculation) error {
	switch {
	case c == nil:
		return fmt.Errorf("calculation is nil")
	case c.Expression == "":
		return fmt.Errorf("calculation expression is required")
	case c.Result == "":
		return fmt.Errorf("calculation result is required")
	case len(c.Expression) > core.MaxExpressionLength:
		return fmt.Errorf("calculation expression exceeds %d characters", core.MaxExpressionLength)
	case len(c.SessionKey) > core.MaxSessionKeyLength:
		return fmt.Errorf("session key exceeds %d characters", core.MaxSessionKeyLength)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// nullString returns a sql.NullString for optional string fields.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
