package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/cli/config"
	"github.com/leapstack-labs/leapcalc/internal/cli/output"
	"github.com/leapstack-labs/leapcalc/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.SQLStore
	Service  *calculator.Service
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a migrated history store.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutStore(cmd)

	store, err := openStore(cc.Cfg, cc.Logger, true)
	if err != nil {
		return nil, nil, err
	}
	cc.Store = store
	cc.Service = calculator.NewService(calculator.Config{
		Store:  store,
		Logger: cc.Logger,
	})

	cleanup := func() {
		_ = store.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a store.
// Its service evaluates expressions but never records them.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Service:  calculator.NewService(calculator.Config{Logger: logger}),
		Renderer: r,
	}
}

// getConfig returns the current configuration, loading defaults and the
// environment when the root command did not run.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		cfg = &config.Config{}
		cfg.State.ApplyDefaults()
		cfg.Server.ApplyDefaults()
		cfg.Session.ApplyDefaults()
		cfg.History.ApplyDefaults()
		cfg.Admin.ApplyDefaults()
		cfg.CLISession = config.DefaultCLISession
		cfg.OutputFormat = config.DefaultOutput
	}
	return cfg
}

// openStore opens the configured history store, creating the directory of
// a file-backed SQLite database first. Migrations run when migrate is set.
func openStore(cfg *config.Config, logger *slog.Logger, migrate bool) (*state.SQLStore, error) {
	dialect, err := state.ParseDialect(cfg.State.Driver)
	if err != nil {
		return nil, err
	}

	if dir := cfg.StateDir(); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLStore(dialect, logger)
	if err := store.Open(cfg.State.DSN); err != nil {
		return nil, err
	}

	if migrate {
		if err := store.Migrate(); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}
