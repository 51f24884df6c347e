package components

import (
	"time"

	"github.com/leapstack-labs/leapcalc/pkg/core"
)

// HistoryData lists a session's recent calculations, newest first.
type HistoryData struct {
	Entries []*core.Calculation
}

func isoTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
