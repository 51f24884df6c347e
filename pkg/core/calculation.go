package core

import (
	"fmt"
	"strings"
	"time"
)

// Column limits for persisted calculations. Results are unbounded text.
const (
	MaxExpressionLength = 255
	MaxSessionKeyLength = 40
)

// Calculation is one successful evaluation recorded in a session's history.
type Calculation struct {
	ID         string    `json:"id" yaml:"id"`
	Expression string    `json:"expression" yaml:"expression"`
	Result     string    `json:"result" yaml:"result"`
	SessionKey string    `json:"session_key,omitempty" yaml:"session_key,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

func (c *Calculation) String() string {
	return fmt.Sprintf("%s = %s", c.Expression, c.Result)
}

// Period is a coarse created-at filter used by the admin views.
type Period string

// Supported periods. PeriodAny disables the filter.
const (
	PeriodAny   Period = ""
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Since returns the inclusive lower bound of p relative to now, in now's
// location. The zero time is returned for PeriodAny and unknown values.
func (p Period) Since(now time.Time) time.Time {
	y, m, d := now.Date()
	switch p {
	case PeriodToday:
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -7)
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

// Label returns a human-readable label for the period.
func (p Period) Label() string {
	switch p {
	case PeriodToday:
		return "Today"
	case PeriodWeek:
		return "Past 7 days"
	case PeriodMonth:
		return "This month"
	case PeriodYear:
		return "This year"
	default:
		return "Any date"
	}
}

// Periods lists the selectable periods in display order.
func Periods() []Period {
	return []Period{PeriodAny, PeriodToday, PeriodWeek, PeriodMonth, PeriodYear}
}

// HistoryFilter narrows a history search. Zero values disable each clause.
type HistoryFilter struct {
	SessionKey string
	Search     string // case-insensitive substring of expression or result
	Since      time.Time
	Limit      int
}

// ParsePeriod maps a query value onto a Period. Unknown values yield PeriodAny.
func ParsePeriod(s string) Period {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Periods() {
		if p == known {
			return p
		}
	}
	return PeriodAny
}
