package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculationString(t *testing.T) {
	c := &Calculation{Expression: "2+2", Result: "4"}
	assert.Equal(t, "2+2 = 4", c.String())
}

func TestPeriodSince(t *testing.T) {
	now := time.Date(2026, time.October, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		period Period
		want   time.Time
	}{
		{PeriodAny, time.Time{}},
		{PeriodToday, time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)},
		{PeriodWeek, time.Date(2026, time.October, 8, 0, 0, 0, 0, time.UTC)},
		{PeriodMonth, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodYear, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{Period("fortnight"), time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.period.Label(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Since(now))
		})
	}
}

func TestPeriods(t *testing.T) {
	periods := Periods()
	assert.Len(t, periods, 5)
	assert.Equal(t, PeriodAny, periods[0])
	assert.Equal(t, "Any date", periods[0].Label())
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
	}{
		{"", PeriodAny},
		{"today", PeriodToday},
		{" Week ", PeriodWeek},
		{"MONTH", PeriodMonth},
		{"year", PeriodYear},
		{"decade", PeriodAny},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePeriod(tt.in))
		})
	}
}
