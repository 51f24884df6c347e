package config

import "time"

// Default configuration values.
const (
	DefaultAddr              = "127.0.0.1"
	DefaultPort              = 8765
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second

	DefaultStateDriver = "sqlite"
	DefaultStateDSN    = ".leapcalc/history.db"

	DefaultSessionName   = "leapcalc_session"
	DefaultSessionMaxAge = 14 * 24 * 60 * 60 // two weeks, in seconds
	MinSessionSecretLen  = 32

	DefaultPageLimit  = 10
	DefaultPanelLimit = 20

	DefaultAdminUsername = "admin"
)

// ApplyDefaults fills unset server values.
func (s *ServerConfig) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = DefaultAddr
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.ReadHeaderTimeout == 0 {
		s.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// ApplyDefaults fills unset state values.
func (s *StateConfig) ApplyDefaults() {
	if s.Driver == "" {
		s.Driver = DefaultStateDriver
	}
	if s.DSN == "" {
		s.DSN = DefaultStateDSN
	}
}

// ApplyDefaults fills unset session values.
func (s *SessionConfig) ApplyDefaults() {
	if s.Name == "" {
		s.Name = DefaultSessionName
	}
	if s.MaxAge == 0 {
		s.MaxAge = DefaultSessionMaxAge
	}
}

// ApplyDefaults fills unset history limits.
func (h *HistoryConfig) ApplyDefaults() {
	if h.PageLimit <= 0 {
		h.PageLimit = DefaultPageLimit
	}
	if h.PanelLimit <= 0 {
		h.PanelLimit = DefaultPanelLimit
	}
}

// ApplyDefaults fills unset admin values.
func (a *AdminConfig) ApplyDefaults() {
	if a.Username == "" {
		a.Username = DefaultAdminUsername
	}
}
