package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcalc/internal/cli/output"
	"github.com/spf13/cobra"
)

// ErrEvaluation is returned by commands whose expression failed to evaluate.
var ErrEvaluation = errors.New("evaluation failed")

// EvalOptions holds options for the eval command.
type EvalOptions struct {
	Record bool
}

// EvalResult is the structured output of the eval command.
type EvalResult struct {
	Expression string `json:"expression" yaml:"expression"`
	Result     string `json:"result,omitempty" yaml:"result,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	opts := &EvalOptions{}

	cmd := &cobra.Command{
		Use:   "eval <expression...>",
		Short: "Evaluate an expression",
		Long: `Evaluate an arithmetic expression and print the result.

Arguments are joined with spaces, so quoting is only needed for characters
the shell would interpret (such as * or parentheses).`,
		Example: `  leapcalc eval 2 + 3
  leapcalc eval '(1+2)*3'
  leapcalc eval '√(16) + 50%' --record
  leapcalc eval '2^10' -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the result in the CLI session history")

	return cmd
}

func runEval(cmd *cobra.Command, expression string, opts *EvalOptions) error {
	var cc *CommandContext
	if opts.Record {
		var (
			cleanup func()
			err     error
		)
		cc, cleanup, err = NewCommandContext(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
	} else {
		cc = NewCommandContextWithoutStore(cmd)
	}

	session := ""
	if opts.Record {
		session = cc.Cfg.CLISession
	}

	out, err := cc.Service.Calculate(cmd.Context(), session, expression)
	if err != nil {
		return err
	}

	result := EvalResult{Expression: expression}
	if out.Failed {
		result.Error = kindLabel(out.Kind)
	} else {
		result.Result = out.Display
	}
	if out.Calculation != nil {
		result.ID = out.Calculation.ID
	}

	r := cc.Renderer
	handled, err := r.Structured(result)
	if err != nil {
		return err
	}
	if !handled {
		renderEvalResult(r, result)
	}

	if out.Failed {
		return fmt.Errorf("%w: %s", ErrEvaluation, result.Error)
	}
	return nil
}

func renderEvalResult(r *output.Renderer, result EvalResult) {
	styles := r.Styles()
	if result.Error != "" {
		r.Error(result.Error)
		return
	}
	if r.EffectiveMode() == output.ModeText {
		r.Println(styles.Result.Render(result.Result))
		return
	}
	r.Println(result.Result)
}
