// Package config provides configuration management for the LeapCalc CLI.
//
// The section types (server, state, session, history, admin) live in
// internal/config and are re-exported here via type aliases so commands
// only need this package.
package config

import (
	"log/slog"

	sharedcfg "github.com/leapstack-labs/leapcalc/internal/config"
)

// ServerConfig is an alias for the shared server configuration.
type ServerConfig = sharedcfg.ServerConfig

// StateConfig is an alias for the shared state configuration.
type StateConfig = sharedcfg.StateConfig

// SessionConfig is an alias for the shared session configuration.
type SessionConfig = sharedcfg.SessionConfig

// HistoryConfig is an alias for the shared history configuration.
type HistoryConfig = sharedcfg.HistoryConfig

// AdminConfig is an alias for the shared admin configuration.
type AdminConfig = sharedcfg.AdminConfig

// Config holds all CLI configuration options.
type Config struct {
	Server       ServerConfig  `koanf:"server"`
	State        StateConfig   `koanf:"state"`
	Session      SessionConfig `koanf:"session"`
	History      HistoryConfig `koanf:"history"`
	Admin        AdminConfig   `koanf:"admin"`
	LogLevel     slog.Level    `koanf:"log_level"`
	LogFormat    string        `koanf:"log_format"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	CLISession   string        `koanf:"cli_session"` // session key used for CLI recordings
}

// Default configuration values for CLI-only settings.
const (
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultCLISession = "cli"
)

// defaultValues is the lowest-priority layer of the configuration.
func defaultValues() map[string]any {
	return map[string]any{
		"server.addr":                sharedcfg.DefaultAddr,
		"server.port":                sharedcfg.DefaultPort,
		"server.read_header_timeout": sharedcfg.DefaultReadHeaderTimeout.String(),
		"server.shutdown_timeout":    sharedcfg.DefaultShutdownTimeout.String(),
		"server.dev":                 false,
		"server.watch":               true,
		"state.driver":               sharedcfg.DefaultStateDriver,
		"state.dsn":                  sharedcfg.DefaultStateDSN,
		"session.name":               sharedcfg.DefaultSessionName,
		"session.max_age":            sharedcfg.DefaultSessionMaxAge,
		"session.secure":             false,
		"history.page_limit":         sharedcfg.DefaultPageLimit,
		"history.panel_limit":        sharedcfg.DefaultPanelLimit,
		"admin.enabled":              false,
		"admin.username":             sharedcfg.DefaultAdminUsername,
		"log_level":                  DefaultLogLevel,
		"log_format":                 DefaultLogFormat,
		"verbose":                    false,
		"output":                     DefaultOutput,
		"cli_session":                DefaultCLISession,
	}
}
