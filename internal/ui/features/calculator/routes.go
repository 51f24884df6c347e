// Package calculator provides the calculator page, the calculation endpoint
// and the per-session history panel.
package calculator

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	calcservice "github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/ui/features/common"
	"github.com/leapstack-labs/leapcalc/internal/ui/notifier"
)

// SetupRoutes configures routes for the calculator feature.
func SetupRoutes(
	router chi.Router,
	service *calcservice.Service,
	sessions *common.Sessions,
	notify *notifier.Notifier,
	limits Limits,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(service, sessions, notify, limits, logger, isDev)

	router.Get("/", handlers.CalculatorPage)
	router.Post("/calculate", handlers.Calculate)
	router.Route("/history", func(r chi.Router) {
		r.Get("/", handlers.History)
		r.Post("/clear", handlers.ClearHistory)
		r.Get("/updates", handlers.HistoryUpdates)
	})

	return nil
}
