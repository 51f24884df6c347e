// Package config provides shared configuration types for LeapCalc.
// This package is decoupled from CLI concerns so the web server and the
// store setup can be configured without importing the command layer.
package config

import (
	"net"
	"strconv"
	"time"
)

// ServerConfig holds configuration for the web UI server.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	Dev               bool          `koanf:"dev"`   // serve static assets from disk
	Watch             bool          `koanf:"watch"` // hot reload on static asset changes (dev only)
}

// Address returns the host:port the server listens on.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Addr, strconv.Itoa(s.Port))
}

// StateConfig selects the history store.
type StateConfig struct {
	Driver string `koanf:"driver"` // sqlite, postgres
	DSN    string `koanf:"dsn"`    // file path for sqlite, connection string for postgres
}

// SessionConfig configures the session cookie.
type SessionConfig struct {
	Name   string `koanf:"name"`
	Secret string `koanf:"secret"`
	MaxAge int    `koanf:"max_age"` // seconds
	Secure bool   `koanf:"secure"`
}

// HistoryConfig bounds how much history the UI renders.
type HistoryConfig struct {
	PageLimit  int `koanf:"page_limit"`  // entries on the full page
	PanelLimit int `koanf:"panel_limit"` // entries in the refreshed history panel
}

// AdminConfig configures the administrative history view.
type AdminConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}
