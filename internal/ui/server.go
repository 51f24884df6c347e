// Package ui provides the LeapCalc web interface.
package ui

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	calcservice "github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/config"
	"github.com/leapstack-labs/leapcalc/internal/ui/features/common"
	"github.com/leapstack-labs/leapcalc/internal/ui/notifier"
	"github.com/leapstack-labs/leapcalc/internal/ui/resources"
	"github.com/leapstack-labs/leapcalc/internal/ui/router"
	"github.com/leapstack-labs/leapcalc/pkg/core"
)

// reloadDebounce coalesces bursts of file events from editors.
const reloadDebounce = 100 * time.Millisecond

// Server is the main UI server.
type Server struct {
	service      *calcservice.Service
	sessionStore *sessions.CookieStore
	cfg          Config
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Store   core.Store
	Server  config.ServerConfig
	Session config.SessionConfig
	History config.HistoryConfig
	Admin   config.AdminConfig
	Logger  *slog.Logger
}

// NewServer creates a new UI server instance. Without a configured session
// secret a random one is generated, so sessions do not survive a restart.
func NewServer(cfg Config) (*Server, error) {
	cfg.Server.ApplyDefaults()
	cfg.Session.ApplyDefaults()
	cfg.History.ApplyDefaults()
	cfg.Admin.ApplyDefaults()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		secret = make([]byte, config.MinSessionSecretLen)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		logger.Warn("no session secret configured, sessions will not survive a restart")
	}

	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(cfg.Session.MaxAge)
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.Session.Secure
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	notify := notifier.New()
	service := calcservice.NewService(calcservice.Config{
		Store:     cfg.Store,
		Publisher: notify,
		Logger:    logger,
	})

	return &Server{
		service:      service,
		sessionStore: sessionStore,
		cfg:          cfg,
		logger:       logger,
		notifier:     notify,
	}, nil
}

// Handler builds the HTTP handler with middleware and all feature routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, router.Config{
		Service:  s.service,
		Sessions: common.NewSessions(s.sessionStore, s.cfg.Session.Name),
		Notifier: s.notifier,
		History:  s.cfg.History,
		Admin:    s.cfg.Admin,
		Logger:   s.logger,
		IsDev:    s.IsDev(),
	}); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve listens on the configured address and blocks until the context is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Address())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled, then shuts
// down gracefully. ln is closed on return.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	s.logger.Info("starting UI server", "addr", "http://"+ln.Addr().String(), "dev", s.IsDev())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	// Start asset watcher if enabled
	if dir := resources.StaticDir(); s.IsDev() && s.cfg.Server.Watch && dir != "" {
		eg.Go(func() error {
			return s.watchFiles(egctx, dir)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true if running in development mode.
func (s *Server) IsDev() bool {
	return s.cfg.Server.Dev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Service returns the calculator service behind the handlers.
func (s *Server) Service() *calcservice.Service {
	return s.service
}

// watchFiles watches the static asset directory and reloads dev pages when
// an asset changes.
func (s *Server) watchFiles(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		s.logger.Error("failed to watch static directory", "dir", dir, "error", err)
		// Don't fail - continue without watching
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isReloadEvent(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("asset changed, reloading pages", "file", event.Name)
				s.notifier.Publish(router.ReloadTopic)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// isReloadEvent reports whether event touches an asset the pages load.
func isReloadEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".css", ".js", ".svg", ".png", ".ico":
		return true
	default:
		return false
	}
}
