package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	calcservice "github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/state"
	"github.com/leapstack-labs/leapcalc/internal/ui/features/admin/pages"
	"github.com/leapstack-labs/leapcalc/pkg/core"
)

// Handlers provides HTTP handlers for the admin feature.
type Handlers struct {
	service *calcservice.Service
	logger  *slog.Logger
	isDev   bool
	now     func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *calcservice.Service, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		service: service,
		logger:  logger,
		isDev:   isDev,
		now:     time.Now,
	}
}

// HistoryPage lists calculations across all sessions, filtered by search
// text, period and session key.
func (h *Handlers) HistoryPage(w http.ResponseWriter, r *http.Request) {
	query := ParseQuery(r.URL.Query())

	entries, err := h.service.Search(r.Context(), core.HistoryFilter{
		SessionKey: query.SessionKey,
		Search:     query.Search,
		Since:      query.Period.Since(h.now().UTC()),
		Limit:      MaxRows,
	})
	if err != nil {
		h.logger.Error("failed to search history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := HistoryPageData{
		Query:   query,
		Entries: entries,
		Limited: len(entries) == MaxRows,
	}
	if err := pages.HistoryPage(h.isDev, pageView(data)).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// DeleteCalculation removes one calculation and redirects back to the list
// with the filter the form was submitted from.
func (h *Handlers) DeleteCalculation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, state.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete calculation", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("calculation deleted", "id", id)

	target := "/admin/history"
	if q := ParseQuery(r.URL.Query()).Encode(); q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// pageView converts handler data into the page's view model.
func pageView(data HistoryPageData) pages.HistoryView {
	view := pages.HistoryView{
		Search:     data.Query.Search,
		Period:     data.Query.Period,
		SessionKey: data.Query.SessionKey,
		Entries:    data.Entries,
		Limited:    data.Limited,
		Limit:      MaxRows,
	}
	if q := data.Query.Encode(); q != "" {
		view.ReturnQuery = "?" + q
	}
	return view
}
