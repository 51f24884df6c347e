package calculator

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	calcservice "github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/ui/features/calculator/components"
	"github.com/leapstack-labs/leapcalc/internal/ui/features/calculator/pages"
	"github.com/leapstack-labs/leapcalc/internal/ui/features/common"
	"github.com/leapstack-labs/leapcalc/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the calculator feature.
type Handlers struct {
	service  *calcservice.Service
	sessions *common.Sessions
	notifier *notifier.Notifier
	limits   Limits
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	service *calcservice.Service,
	sessions *common.Sessions,
	notify *notifier.Notifier,
	limits Limits,
	logger *slog.Logger,
	isDev bool,
) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		service:  service,
		sessions: sessions,
		notifier: notify,
		limits:   limits,
		logger:   logger,
		isDev:    isDev,
	}
}

// CalculatorPage renders the full calculator page with the session's most
// recent history.
func (h *Handlers) CalculatorPage(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context(), h.sessions.Key(r), h.limits.Page)
	if err != nil {
		h.logger.Error("failed to load history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := pages.CalculatorPage("Calculator", h.isDev, history).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Calculate evaluates the expression signal and patches the display and
// the history panel. The session cookie is created by the first calculation
// that gets recorded; that response also restarts the history stream, which
// ended immediately while the page had no session.
func (h *Handlers) Calculate(w http.ResponseWriter, r *http.Request) {
	if !common.IsDatastarRequest(r) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Debug("failed to read signals", "error", err)
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(components.Display(components.DisplayData{
			Value: calcservice.DisplayError,
			Error: true,
		}))
		return
	}

	key := h.sessions.Key(r)
	isNew := key == ""
	if isNew {
		key = h.sessions.NewKey()
	}

	display := components.DisplayData{Expression: signals.Expression}
	out, err := h.service.Calculate(r.Context(), key, signals.Expression)
	if err != nil {
		h.logger.Error("failed to record calculation", "error", err)
		display.Value = calcservice.DisplayError
		display.Error = true
	} else {
		display.Value = out.Display
		display.Error = out.Failed
	}

	if isNew && out.Calculation != nil {
		if err := h.sessions.Save(w, r, key); err != nil {
			h.logger.Error("failed to save session", "error", err)
		}
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.Display(display)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}

	if out.Calculation == nil {
		return
	}
	if err := h.sendHistory(r.Context(), sse, key); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if isNew {
		if err := sse.PatchElementTempl(components.HistoryStream(), datastar.WithModeReplace()); err != nil {
			_ = sse.ConsoleError(err)
		}
	}
}

// History patches the history panel of the current session.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	if !common.IsDatastarRequest(r) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := h.sendHistory(r.Context(), sse, h.sessions.Key(r)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ClearHistory deletes the current session's history. Datastar requests get
// an empty history panel; plain requests get a text confirmation.
func (h *Handlers) ClearHistory(w http.ResponseWriter, r *http.Request) {
	key := h.sessions.Key(r)
	if _, err := h.service.Clear(r.Context(), key); err != nil {
		h.logger.Error("failed to clear history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !common.IsDatastarRequest(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("History cleared"))
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.History(components.HistoryData{})); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// HistoryUpdates is the long-lived SSE endpoint for the history panel. It
// re-sends the panel whenever the session's history changes elsewhere, for
// example in another tab. Nothing is sent initially; the page already
// rendered the current state.
func (h *Handlers) HistoryUpdates(w http.ResponseWriter, r *http.Request) {
	key := h.sessions.Key(r)
	sse := datastar.NewSSE(w, r)
	if key == "" {
		return
	}

	updates := h.notifier.Subscribe(key)
	defer h.notifier.Unsubscribe(key, updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := h.sendHistory(ctx, sse, key); err != nil {
				_ = sse.ConsoleError(err)
				// Don't return - keep trying on next update
			}
		}
	}
}

func (h *Handlers) sendHistory(ctx context.Context, sse *datastar.ServerSentEventGenerator, key string) error {
	history, err := h.service.History(ctx, key, h.limits.Panel)
	if err != nil {
		return err
	}
	return sse.PatchElementTempl(components.History(components.HistoryData{Entries: history}))
}
