package calculator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcalc/internal/testutil"
	"github.com/leapstack-labs/leapcalc/internal/ui/features"
	"github.com/leapstack-labs/leapcalc/internal/ui/features/calculator/components"
	"github.com/leapstack-labs/leapcalc/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	handlers := NewHandlers(
		fixture.Service,
		fixture.Sessions,
		fixture.Notifier,
		Limits{Page: 10, Panel: 20},
		testutil.NewTestLogger(t),
		false,
	)
	return handlers, fixture
}

func seedHistory(t *testing.T, fixture *features.TestFixture, key string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, fixture.Store.RecordCalculation(context.Background(), &core.Calculation{
			Expression: "1+" + strings.Repeat("1", i+1),
			Result:     "x",
			SessionKey: key,
		}))
	}
}

// =============================================================================
// CalculatorPage
// =============================================================================

func TestCalculatorPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.CalculatorPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "<title>Calculator - LeapCalc</title>")
	assert.NotContains(t, body, "@get('/reload')", "hot reload is dev only")

	doc := features.ParseHTML(t, body)
	display := features.FindByID(doc, components.DisplayID)
	require.NotNil(t, display)
	assert.Equal(t, "0", strings.TrimSpace(features.Text(features.FindAllByClass(display, "display-value")[0])))
	assert.False(t, features.HasAttr(display, "data-error"))

	input := features.FindByID(doc, "expression")
	require.NotNil(t, input)
	assert.True(t, features.HasAttr(input, "data-bind:expression"))

	history := features.FindByID(doc, components.HistoryID)
	require.NotNil(t, history)
	assert.Contains(t, features.Text(history), "No calculations yet")

	stream := features.FindByID(doc, components.HistoryStreamID)
	require.NotNil(t, stream)
	assert.Equal(t, "@get('/history/updates')", features.Attr(stream, "data-init"))

	keys := features.FindAllByClass(doc, "key")
	assert.Len(t, keys, 23)
	equals := features.FindAllByClass(doc, "key-equals")
	require.Len(t, equals, 1)
	assert.Equal(t, "@post('/calculate')", features.Attr(equals[0], "data-on:click"))
}

func TestCalculatorPage_DevMode(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.Service, fixture.Sessions, fixture.Notifier, Limits{Page: 10, Panel: 20}, nil, true)

	rec := httptest.NewRecorder()
	h.CalculatorPage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rec.Body.String(), `data-init="@get('/reload')"`)
}

func TestCalculatorPage_ShowsSessionHistory(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	seedHistory(t, fixture, "mine", 12)
	seedHistory(t, fixture, "theirs", 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(fixture.SessionCookie(t, "mine"))
	rec := httptest.NewRecorder()
	h.CalculatorPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := features.ParseHTML(t, rec.Body.String())
	entries := features.FindAllByClass(doc, "history-entry")
	require.Len(t, entries, 10, "page shows the page limit")
	assert.Equal(t, "1+111111111111", features.Attr(entries[0], "data-expression"), "newest first")
}

// =============================================================================
// Calculate
// =============================================================================

func TestCalculate_RequiresDatastar(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(`{"expression":"1+1"}`))
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad Request\n", rec.Body.String())
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantValue   string
		wantError   bool
		wantHistory bool
	}{
		{name: "addition", expression: "2+2", wantValue: "4", wantHistory: true},
		{name: "percent", expression: "50%", wantValue: "0.5", wantHistory: true},
		{name: "unicode operators", expression: "6 × 7 ÷ 2", wantValue: "21", wantHistory: true},
		{name: "sqrt", expression: "√(16)", wantValue: "4", wantHistory: true},
		{name: "empty", expression: "", wantValue: "0"},
		{name: "division by zero", expression: "10/0", wantValue: "Error", wantError: true},
		{name: "domain error", expression: "sqrt(-1)", wantValue: "Error", wantError: true},
		{name: "syntax error", expression: "2++3", wantValue: "Error", wantError: true},
		{name: "invalid characters", expression: "alert(1)", wantValue: "Error", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)

			req := features.DatastarRequest(t, http.MethodPost, "/calculate", Signals{Expression: tt.expression})
			rec := httptest.NewRecorder()
			h.Calculate(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

			patches := features.PatchedElements(rec.Body.String())
			require.NotEmpty(t, patches)

			display := features.FindByID(features.ParseHTML(t, patches[0]), components.DisplayID)
			require.NotNil(t, display)
			value := features.FindAllByClass(display, "display-value")
			require.Len(t, value, 1)
			assert.Equal(t, tt.wantValue, features.Text(value[0]))
			assert.Equal(t, tt.wantError, features.HasAttr(display, "data-error"))
			assert.NotContains(t, patches[0], "offset", "error details never reach the page")

			cookies := rec.Result().Cookies()
			if !tt.wantHistory {
				assert.Len(t, patches, 1, "only the display is patched")
				assert.Empty(t, cookies, "no session is created without a recorded calculation")
				return
			}

			require.Len(t, patches, 3, "display, history and a restarted history stream")
			history := features.FindByID(features.ParseHTML(t, patches[1]), components.HistoryID)
			require.NotNil(t, history)
			entries := features.FindAllByClass(history, "history-entry")
			require.Len(t, entries, 1)
			assert.Equal(t, tt.expression, features.Attr(entries[0], "data-expression"))

			stream := features.FindByID(features.ParseHTML(t, patches[2]), components.HistoryStreamID)
			require.NotNil(t, stream)
			assert.Equal(t, "@get('/history/updates')", features.Attr(stream, "data-init"))
			assert.Contains(t, rec.Body.String(), "data: mode replace")

			require.Len(t, cookies, 1, "first recorded calculation creates the session")
			next := httptest.NewRequest(http.MethodGet, "/", nil)
			next.AddCookie(cookies[0])
			key := fixture.Sessions.Key(next)
			require.NotEmpty(t, key)

			stored, err := fixture.Store.ListHistory(context.Background(), key, 0)
			require.NoError(t, err)
			require.Len(t, stored, 1)
			assert.Equal(t, tt.wantValue, stored[0].Result)
		})
	}
}

func TestCalculate_ExistingSessionKeepsCookie(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.DatastarRequest(t, http.MethodPost, "/calculate", Signals{Expression: "3*3"})
	req.AddCookie(fixture.SessionCookie(t, "existing"))
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	assert.Empty(t, rec.Result().Cookies())
	stored, err := fixture.Store.ListHistory(context.Background(), "existing", 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "9", stored[0].Result)

	patches := features.PatchedElements(rec.Body.String())
	require.Len(t, patches, 2, "the running history stream is left alone")
	assert.NotContains(t, patches[1], components.HistoryStreamID)
	assert.NotContains(t, rec.Body.String(), "data: mode replace")
}

func TestCalculate_LongResult(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	want := "1" + strings.Repeat("0", 200)

	req := features.DatastarRequest(t, http.MethodPost, "/calculate", Signals{Expression: "10^200"})
	req.AddCookie(fixture.SessionCookie(t, "big"))
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	patches := features.PatchedElements(rec.Body.String())
	require.Len(t, patches, 2)

	display := features.FindByID(features.ParseHTML(t, patches[0]), components.DisplayID)
	require.NotNil(t, display)
	assert.False(t, features.HasAttr(display, "data-error"))
	assert.Equal(t, want, features.Text(features.FindAllByClass(display, "display-value")[0]))

	history := features.FindByID(features.ParseHTML(t, patches[1]), components.HistoryID)
	require.NotNil(t, history)
	results := features.FindAllByClass(history, "history-result")
	require.Len(t, results, 1)
	assert.Equal(t, want, features.Text(results[0]))

	stored, err := fixture.Store.ListHistory(context.Background(), "big", 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, want, stored[0].Result)
}

func TestCalculate_BadSignals(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader("{not json"))
	req.Header.Set("Datastar-Request", "true")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	patches := features.PatchedElements(rec.Body.String())
	require.Len(t, patches, 1)
	assert.Contains(t, patches[0], `data-error="true"`)
	assert.Contains(t, patches[0], "Error")
}

func TestCalculate_StoreFailureShowsError(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	require.NoError(t, fixture.Store.Close())

	req := features.DatastarRequest(t, http.MethodPost, "/calculate", Signals{Expression: "1+1"})
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)

	patches := features.PatchedElements(rec.Body.String())
	require.Len(t, patches, 1)
	assert.Contains(t, patches[0], `data-error="true"`)
	assert.Empty(t, rec.Result().Cookies())
}

// =============================================================================
// History
// =============================================================================

func TestHistory_RequiresDatastar(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.History(rec, httptest.NewRequest(http.MethodGet, "/history", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_PanelLimit(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	seedHistory(t, fixture, "mine", 25)

	req := features.DatastarRequest(t, http.MethodGet, "/history", nil)
	req.AddCookie(fixture.SessionCookie(t, "mine"))
	rec := httptest.NewRecorder()
	h.History(rec, req)

	patches := features.PatchedElements(rec.Body.String())
	require.Len(t, patches, 1)
	entries := features.FindAllByClass(features.ParseHTML(t, patches[0]), "history-entry")
	assert.Len(t, entries, 20)
}

func TestHistory_NoSession(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	seedHistory(t, fixture, "someone", 3)

	rec := httptest.NewRecorder()
	h.History(rec, features.DatastarRequest(t, http.MethodGet, "/history", nil))

	patches := features.PatchedElements(rec.Body.String())
	require.Len(t, patches, 1)
	assert.Contains(t, patches[0], "No calculations yet")
}

// =============================================================================
// ClearHistory
// =============================================================================

func TestClearHistory(t *testing.T) {
	tests := []struct {
		name     string
		datastar bool
	}{
		{name: "datastar request", datastar: true},
		{name: "plain request", datastar: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			seedHistory(t, fixture, "mine", 3)
			seedHistory(t, fixture, "theirs", 2)

			var req *http.Request
			if tt.datastar {
				req = features.DatastarRequest(t, http.MethodPost, "/history/clear", nil)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/history/clear", nil)
			}
			req.AddCookie(fixture.SessionCookie(t, "mine"))
			rec := httptest.NewRecorder()
			h.ClearHistory(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			if tt.datastar {
				patches := features.PatchedElements(rec.Body.String())
				require.Len(t, patches, 1)
				history := features.FindByID(features.ParseHTML(t, patches[0]), components.HistoryID)
				require.NotNil(t, history)
				assert.Empty(t, features.FindAllByClass(history, "history-entry"))
			} else {
				assert.Equal(t, "History cleared", rec.Body.String())
			}

			mine, err := fixture.Store.ListHistory(context.Background(), "mine", 0)
			require.NoError(t, err)
			assert.Empty(t, mine)
			theirs, err := fixture.Store.ListHistory(context.Background(), "theirs", 0)
			require.NoError(t, err)
			assert.Len(t, theirs, 2, "other sessions are untouched")
		})
	}
}

func TestClearHistory_NoSession(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ClearHistory(rec, httptest.NewRequest(http.MethodPost, "/history/clear", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "History cleared", rec.Body.String())
}

// =============================================================================
// HistoryUpdates
// =============================================================================

func TestHistoryUpdates_SendsPanelOnPublish(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/history/updates", nil)
	req.AddCookie(fixture.SessionCookie(t, "mine"))
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.HistoryUpdates(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return fixture.Notifier.Listeners("mine") == 1
	}, 200*time.Millisecond, 5*time.Millisecond)

	_, err := fixture.Service.Calculate(context.Background(), "mine", "7*6")
	require.NoError(t, err)

	<-done

	patches := features.PatchedElements(rec.Body.String())
	require.NotEmpty(t, patches)
	assert.Contains(t, patches[0], `data-expression="7*6"`)
	assert.Equal(t, 0, fixture.Notifier.Listeners("mine"), "listener is removed on disconnect")
}

func TestHistoryUpdates_NoSessionReturnsImmediately(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.HistoryUpdates(rec, httptest.NewRequest(http.MethodGet, "/history/updates", nil))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler should return without a session")
	}
	assert.Empty(t, features.PatchedElements(rec.Body.String()))
}
