package admin

import (
	"net/url"

	"github.com/leapstack-labs/leapcalc/pkg/core"
)

// MaxRows caps the rows shown on one admin page.
const MaxRows = 200

// Query is the filter state of the admin history page.
type Query struct {
	Search     string
	Period     core.Period
	SessionKey string
}

// ParseQuery reads the filter from request query values.
func ParseQuery(values url.Values) Query {
	return Query{
		Search:     values.Get("q"),
		Period:     core.ParsePeriod(values.Get("period")),
		SessionKey: values.Get("session"),
	}
}

// Encode renders q back into query values, omitting empty fields.
func (q Query) Encode() string {
	values := url.Values{}
	if q.Search != "" {
		values.Set("q", q.Search)
	}
	if q.Period != core.PeriodAny {
		values.Set("period", string(q.Period))
	}
	if q.SessionKey != "" {
		values.Set("session", q.SessionKey)
	}
	return values.Encode()
}

// HistoryPageData is everything the admin history page renders.
type HistoryPageData struct {
	Query   Query
	Entries []*core.Calculation
	Limited bool // more rows may exist than shown
}
