// Package pages provides the admin history page.
package pages

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapcalc/pkg/core"
)

// HistoryView is the view model of the admin history page.
type HistoryView struct {
	Search      string
	Period      core.Period
	SessionKey  string
	Entries     []*core.Calculation
	Limited     bool
	Limit       int
	ReturnQuery string // appended to delete form actions
}

func countLabel(n int, limited bool, limit int) string {
	switch {
	case limited:
		return "Showing the newest " + strconv.Itoa(limit) + " calculations"
	case n == 1:
		return "1 calculation"
	default:
		return strconv.Itoa(n) + " calculations"
	}
}

// sessionURL filters the page to one session.
func sessionURL(key string) templ.SafeURL {
	return templ.URL("/admin/history?session=" + url.QueryEscape(key))
}

func deleteURL(id, returnQuery string) templ.SafeURL {
	return templ.URL("/admin/history/" + id + "/delete" + returnQuery)
}
