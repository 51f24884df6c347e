package commands

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/spf13/cobra"
)

const (
	tuiDefaultWidth  = 60
	tuiDefaultHeight = 12
	// title, blank line, input, help
	tuiChromeLines = 4
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tuiResultStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	tuiMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Full-screen calculator",
		Long: `Open a terminal calculator with a scrolling list of results.

Enter evaluates, Up recalls the previous expression, PgUp/PgDown scroll and
Esc or Ctrl+C quits. Successful results are recorded in the CLI session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			m := newTUIModel(cmd.Context(), cc.Service, cc.Cfg.CLISession)
			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}
}

// tuiEntry is one evaluated line.
type tuiEntry struct {
	expression string
	display    string
	failed     bool
	detail     string
}

// tuiResultMsg carries a finished calculation back into the update loop.
type tuiResultMsg struct {
	entry tuiEntry
}

type tuiModel struct {
	ctx     context.Context
	service *calculator.Service
	session string

	input    textinput.Model
	viewport viewport.Model
	entries  []tuiEntry
	quitting bool
}

func newTUIModel(ctx context.Context, service *calculator.Service, session string) tuiModel {
	ti := textinput.New()
	ti.Placeholder = "2 + 2"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = tuiDefaultWidth - len(ti.Prompt)
	ti.Focus()

	vp := viewport.New(tuiDefaultWidth, tuiDefaultHeight-tuiChromeLines)

	return tuiModel{
		ctx:      ctx,
		service:  service,
		session:  session,
		input:    ti,
		viewport: vp,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			expression := strings.TrimSpace(m.input.Value())
			if expression == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m, m.calculate(expression)
		case tea.KeyUp:
			if len(m.entries) > 0 {
				m.input.SetValue(m.entries[len(m.entries)-1].expression)
				m.input.CursorEnd()
			}
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-tuiChromeLines)
		m.input.Width = max(1, msg.Width-len(m.input.Prompt))
		m.refresh()
		return m, nil

	case tuiResultMsg:
		m.entries = append(m.entries, msg.entry)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// calculate evaluates expression off the update loop.
func (m tuiModel) calculate(expression string) tea.Cmd {
	ctx, service, session := m.ctx, m.service, m.session
	return func() tea.Msg {
		entry := tuiEntry{expression: expression}
		out, err := service.Calculate(ctx, session, expression)
		switch {
		case out.Failed:
			entry.failed = true
			entry.display = calculator.DisplayError
			entry.detail = kindLabel(out.Kind)
		case err != nil:
			entry.display = out.Display
			entry.detail = "not saved: " + err.Error()
		default:
			entry.display = out.Display
		}
		return tuiResultMsg{entry: entry}
	}
}

func (m *tuiModel) refresh() {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		lines = append(lines, renderTUIEntry(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func renderTUIEntry(e tuiEntry) string {
	line := e.expression + " = "
	if e.failed {
		line += tuiErrorStyle.Render(e.display)
	} else {
		line += tuiResultStyle.Render(e.display)
	}
	if e.detail != "" {
		line += " " + tuiMutedStyle.Render("("+e.detail+")")
	}
	return line
}

func (m tuiModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(tuiTitleStyle.Render("LeapCalc"))
	sb.WriteString(tuiMutedStyle.Render("  session " + m.session))
	sb.WriteString("\n")
	if len(m.entries) == 0 {
		sb.WriteString(tuiMutedStyle.Render("No calculations yet"))
	} else {
		sb.WriteString(m.viewport.View())
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(tuiMutedStyle.Render("enter evaluate • ↑ recall • pgup/pgdn scroll • esc quit"))
	return sb.String()
}
