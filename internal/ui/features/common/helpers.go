// Package common provides shared helpers for UI features.
package common

import (
	"net/http"
	"time"
)

// TimestampLayout is how calculation times are shown in the UI.
const TimestampLayout = "2006-01-02 15:04:05"

// IsDatastarRequest reports whether r was issued by the datastar client.
func IsDatastarRequest(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}
