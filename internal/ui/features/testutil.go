// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	calcservice "github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/state"
	"github.com/leapstack-labs/leapcalc/internal/testutil"
	"github.com/leapstack-labs/leapcalc/internal/ui/features/common"
	"github.com/leapstack-labs/leapcalc/internal/ui/notifier"
)

// TestSessionName is the session cookie name used by fixtures.
const TestSessionName = "leapcalc_test"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store    *state.SQLStore
	Service  *calcservice.Service
	Notifier *notifier.Notifier
	Sessions *common.Sessions
	Clock    *testutil.Clock
}

// SetupTestFixture creates an in-memory store, a notifier and a calculator
// service publishing to it.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	store := state.NewSQLStore(state.DialectSQLite, logger)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() {
		_ = store.Close()
	})

	clock := testutil.NewClock(time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC), time.Second)
	store.SetClock(clock.Now)

	notify := notifier.New()
	return &TestFixture{
		Store:    store,
		Service:  calcservice.NewService(calcservice.Config{Store: store, Publisher: notify, Logger: logger}),
		Notifier: notify,
		Sessions: NewTestSessions(),
		Clock:    clock,
	}
}

// NewTestSessions creates a session helper backed by a cookie store.
func NewTestSessions() *common.Sessions {
	return common.NewSessions(sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!")), TestSessionName)
}

// SessionCookie returns a signed cookie carrying key.
func (f *TestFixture) SessionCookie(t *testing.T, key string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, f.Sessions.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil), key))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

// DatastarRequest builds a request the way the datastar client sends it.
// Signals are JSON-encoded into the body for non-GET requests.
func DatastarRequest(t *testing.T, method, target string, signals any) *http.Request {
	t.Helper()
	var body io.Reader
	if signals != nil {
		b, err := json.Marshal(signals)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Datastar-Request", "true")
	if signals != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// PatchedElements extracts the HTML of every element patch in an SSE body.
func PatchedElements(body string) []string {
	var patches []string
	for _, event := range strings.Split(body, "\n\n") {
		if !strings.Contains(event, "event: datastar-patch-elements") {
			continue
		}
		var lines []string
		for _, line := range strings.Split(event, "\n") {
			if rest, ok := strings.CutPrefix(line, "data: elements "); ok {
				lines = append(lines, rest)
			}
		}
		if len(lines) > 0 {
			patches = append(patches, strings.Join(lines, "\n"))
		}
	}
	return patches
}

// ParseHTML parses a document or fragment.
func ParseHTML(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

// FindByID returns the first element with the given id, or nil.
func FindByID(n *html.Node, id string) *html.Node {
	return Find(n, func(n *html.Node) bool { return Attr(n, "id") == id })
}

// FindAllByClass returns every element whose class list contains class.
func FindAllByClass(n *html.Node, class string) []*html.Node {
	var found []*html.Node
	walk(n, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		for _, c := range strings.Fields(Attr(n, "class")) {
			if c == class {
				found = append(found, n)
				return
			}
		}
	})
	return found
}

// Find returns the first element node matching match, depth first.
func Find(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(n *html.Node) {
		if found == nil && n.Type == html.ElementNode && match(n) {
			found = n
		}
	})
	return found
}

// Attr returns the value of attribute key on n, or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries attribute key.
func HasAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
	})
	return sb.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
