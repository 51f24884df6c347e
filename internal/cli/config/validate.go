package config

import (
	"errors"
	"fmt"

	sharedcfg "github.com/leapstack-labs/leapcalc/internal/config"
	"github.com/leapstack-labs/leapcalc/internal/state"
)

var validOutputs = map[string]bool{
	"auto": true, "text": true, "markdown": true, "json": true, "yaml": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if _, err := state.ParseDialect(c.State.Driver); err != nil {
		errs = append(errs, fmt.Errorf("state.driver: %w", err))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Session.Secret != "" && len(c.Session.Secret) < sharedcfg.MinSessionSecretLen && !c.Server.Dev {
		errs = append(errs, fmt.Errorf("session.secret must be at least %d bytes outside dev mode", sharedcfg.MinSessionSecretLen))
	}
	if c.Admin.Enabled && c.Admin.Password == "" {
		errs = append(errs, errors.New("admin.password is required when admin.enabled is true"))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.OutputFormat != "" && !validOutputs[c.OutputFormat] {
		errs = append(errs, fmt.Errorf("output must be one of auto, text, markdown, json, yaml; got %q", c.OutputFormat))
	}

	return errors.Join(errs...)
}
