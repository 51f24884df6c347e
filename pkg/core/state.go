package core

import "context"

// Store persists calculation history.
// Results are always ordered newest first.
type Store interface {
	Open(dsn string) error
	Close() error
	Migrate() error

	RecordCalculation(ctx context.Context, c *Calculation) error
	GetCalculation(ctx context.Context, id string) (*Calculation, error)
	DeleteCalculation(ctx context.Context, id string) error

	// Session-scoped operations. An empty session key matches nothing.
	ListHistory(ctx context.Context, sessionKey string, limit int) ([]*Calculation, error)
	ClearHistory(ctx context.Context, sessionKey string) (int64, error)

	// SearchHistory spans all sessions unless the filter names one.
	SearchHistory(ctx context.Context, filter HistoryFilter) ([]*Calculation, error)
}
