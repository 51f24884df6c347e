// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	calcservice "github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/config"
	adminFeature "github.com/leapstack-labs/leapcalc/internal/ui/features/admin"
	calculatorFeature "github.com/leapstack-labs/leapcalc/internal/ui/features/calculator"
	"github.com/leapstack-labs/leapcalc/internal/ui/features/common"
	"github.com/leapstack-labs/leapcalc/internal/ui/notifier"
	"github.com/leapstack-labs/leapcalc/internal/ui/resources"
)

// ReloadTopic is the notifier topic that makes dev pages reload. Session
// keys are UUIDs, so it cannot collide with a session topic.
const ReloadTopic = "reload"

// Config holds the dependencies shared by the feature routes.
type Config struct {
	Service  *calcservice.Service
	Sessions *common.Sessions
	Notifier *notifier.Notifier
	History  config.HistoryConfig
	Admin    config.AdminConfig
	Logger   *slog.Logger
	IsDev    bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, cfg Config) error {
	// Hot reload endpoint for dev mode
	if cfg.IsDev {
		setupReload(router, cfg.Notifier)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	})

	// Feature routes
	limits := calculatorFeature.Limits{Page: cfg.History.PageLimit, Panel: cfg.History.PanelLimit}
	if err := calculatorFeature.SetupRoutes(router, cfg.Service, cfg.Sessions, cfg.Notifier, limits, cfg.Logger, cfg.IsDev); err != nil {
		return err
	}

	if err := adminFeature.SetupRoutes(router, cfg.Service, cfg.Admin, cfg.Logger, cfg.IsDev); err != nil {
		return err
	}

	return nil
}

// setupReload serves /reload, which every dev page keeps open. The first
// connection after a server start reloads the page, so a restarted server
// refreshes open tabs; later reloads are triggered through ReloadTopic by
// the asset watcher or a GET to /hotreload.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)

		updates := notify.Subscribe(ReloadTopic)
		defer notify.Unsubscribe(ReloadTopic, updates)

		select {
		case <-updates:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		notify.Publish(ReloadTopic)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
