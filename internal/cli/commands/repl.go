package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/cli/output"
	"github.com/spf13/cobra"
)

const replPrompt = "calc> "

// lineReader is the part of *readline.Instance the REPL loop uses.
type lineReader interface {
	Readline() (string, error)
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: `Start an interactive calculator.

Every successful result is recorded in the CLI session history, which the
history command and the web admin pages can inspect.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	historyFile := ""
	if dir := cc.Cfg.StateDir(); dir != "" {
		historyFile = filepath.Join(dir, "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cc.Renderer
	r.Printf("LeapCalc REPL (session: %s)\n", cc.Cfg.CLISession)
	r.Muted("Type .help for commands, .quit to exit")
	r.Println()

	repl := &replSession{
		service: cc.Service,
		session: cc.Cfg.CLISession,
		limit:   cc.Cfg.History.PageLimit,
		r:       r,
	}
	return repl.run(cmd.Context(), rl)
}

// replSession evaluates lines read from a lineReader.
type replSession struct {
	service *calculator.Service
	session string
	limit   int
	r       *output.Renderer
}

func (s *replSession) run(ctx context.Context, in lineReader) error {
	for {
		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := s.dotCommand(ctx, line); quit {
				return nil
			}
			continue
		}

		s.evaluate(ctx, line)
	}
}

func (s *replSession) evaluate(ctx context.Context, line string) {
	styles := s.r.Styles()

	out, err := s.service.Calculate(ctx, s.session, line)
	if err != nil {
		s.r.Error(err.Error())
	}
	if out.Failed {
		s.r.Println(styles.Error.Render(calculator.DisplayError) + " " + styles.Muted.Render("("+kindLabel(out.Kind)+")"))
		return
	}
	s.r.Println(styles.Result.Render(out.Display))
}

// dotCommand runs a REPL command and reports whether the loop should end.
func (s *replSession) dotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.r.Writer())

	case ".history":
		calcs, err := s.service.History(ctx, s.session, s.limit)
		if err != nil {
			s.r.Error(err.Error())
			return false
		}
		if len(calcs) == 0 {
			s.r.Muted("No calculations yet")
			return false
		}
		for _, c := range calcs {
			s.r.Println(c.String())
		}

	case ".clear":
		deleted, err := s.service.Clear(ctx, s.session)
		if err != nil {
			s.r.Error(err.Error())
			return false
		}
		s.r.Success(fmt.Sprintf("Cleared %d calculations", deleted))

	default:
		s.r.Warning(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .history        Show recent calculations of this session
  .clear          Delete this session's history
  .quit / .exit   Exit the REPL

Expressions:
  + - * / ^       Arithmetic; ^ is evaluated left to right
  50%             Percent of a number (0.5)
  sqrt(x) or √(x) Square root
  × and ÷         Accepted as * and /
`
	_, _ = fmt.Fprintln(w, help)
}

func newREPLCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".history"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
		readline.PcItem("sqrt("),
	)
}
