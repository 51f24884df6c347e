package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapcalc/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the history database schema",
		Long: `Apply or inspect the schema migrations of the configured history store.

Other commands migrate automatically; this is useful for preparing a
PostgreSQL database ahead of deployment.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied migration version",
		Args:  cobra.NoArgs,
		RunE:  runMigrateStatus,
	})

	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContextWithoutStore(cmd)
	store, err := openStore(cc.Cfg, cc.Logger, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(); err != nil {
		return err
	}
	version, err := store.GetMigrationVersion()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	cc.Renderer.Success(fmt.Sprintf("%s store migrated to version %d", store.Dialect(), version))
	return nil
}

// MigrationStatus is the structured output of migrate status.
type MigrationStatus struct {
	Driver  string `json:"driver" yaml:"driver"`
	Version int64  `json:"version" yaml:"version"`
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContextWithoutStore(cmd)
	store, err := openStore(cc.Cfg, cc.Logger, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Per-migration details are logged at debug level (--verbose).
	if err := store.MigrationStatus(); err != nil {
		return err
	}
	version, err := store.GetMigrationVersion()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	status := MigrationStatus{Driver: string(store.Dialect()), Version: version}
	r := cc.Renderer
	if handled, err := r.Structured(status); handled {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue("Driver", status.Driver))
		r.Println(output.FormatKeyValue("Version", fmt.Sprintf("%d", status.Version)))
		return nil
	}
	r.Printf("%s %s\n", r.Styles().Bold.Render("Driver:"), status.Driver)
	r.Printf("%s %d\n", r.Styles().Bold.Render("Version:"), status.Version)
	return nil
}
