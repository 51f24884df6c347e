package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/leapcalc/internal/state"
	"github.com/leapstack-labs/leapcalc/pkg/core"
	"github.com/spf13/cobra"
)

// HistoryListOptions holds options for the history list command.
type HistoryListOptions struct {
	Limit  int
	All    bool
	Search string
	Period string
}

// NewHistoryCommand creates the history command group.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage calculation history",
		Long: `Inspect and manage recorded calculations.

Commands act on the CLI session (--session, default "cli") unless --all is given.`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryClearCommand())
	cmd.AddCommand(newHistoryDeleteCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	opts := &HistoryListOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded calculations, newest first",
		Example: `  leapcalc history list
  leapcalc history list --all --search sqrt
  leapcalc history list --period today -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of calculations to show")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include every session")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Only show calculations whose expression or result contains this text")
	cmd.Flags().StringVar(&opts.Period, "period", "", "Only show calculations from today|week|month|year")

	_ = cmd.RegisterFlagCompletionFunc("period", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"today", "week", "month", "year"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runHistoryList(cmd *cobra.Command, opts *HistoryListOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	filter := core.HistoryFilter{
		Search: opts.Search,
		Since:  core.ParsePeriod(opts.Period).Since(time.Now()),
		Limit:  opts.Limit,
	}
	if !opts.All {
		filter.SessionKey = cc.Cfg.CLISession
	}

	calcs, err := cc.Service.Search(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if calcs == nil {
		calcs = []*core.Calculation{}
	}

	r := cc.Renderer
	if handled, err := r.Structured(calcs); handled {
		return err
	}

	if len(calcs) == 0 {
		r.Muted("No calculations yet")
		return nil
	}

	header := []string{"Created", "Expression", "Result"}
	if opts.All {
		header = append(header, "Session")
	}
	rows := make([][]string, 0, len(calcs))
	for _, c := range calcs {
		row := []string{
			c.CreatedAt.Local().Format(time.DateTime),
			c.Expression,
			c.Result,
		}
		if opts.All {
			row = append(row, c.SessionKey)
		}
		rows = append(rows, row)
	}
	r.Table(header, rows)
	return nil
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every calculation of the CLI session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			deleted, err := cc.Service.Clear(cmd.Context(), cc.Cfg.CLISession)
			if err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			cc.Renderer.Success(fmt.Sprintf("Cleared %d calculations from session %q", deleted, cc.Cfg.CLISession))
			return nil
		},
	}
}

func newHistoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one calculation by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cc.Service.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, state.ErrNotFound) {
					return fmt.Errorf("calculation %s not found", args[0])
				}
				return err
			}
			cc.Renderer.Success("Deleted calculation " + args[0])
			return nil
		},
	}
}
