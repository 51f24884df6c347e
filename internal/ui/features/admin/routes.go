// Package admin provides the password-protected view over every session's
// calculation history.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	calcservice "github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/config"
)

// Realm is the basic auth realm of the admin pages.
const Realm = "LeapCalc admin"

// SetupRoutes registers the admin routes. Nothing is mounted unless the
// admin view is enabled.
func SetupRoutes(
	router chi.Router,
	service *calcservice.Service,
	cfg config.AdminConfig,
	logger *slog.Logger,
	isDev bool,
) error {
	if !cfg.Enabled {
		return nil
	}

	handlers := NewHandlers(service, logger, isDev)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.BasicAuth(Realm, map[string]string{cfg.Username: cfg.Password}))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/history", http.StatusSeeOther)
		})
		r.Get("/history", handlers.HistoryPage)
		r.Post("/history/{id}/delete", handlers.DeleteCalculation)
	})

	return nil
}
