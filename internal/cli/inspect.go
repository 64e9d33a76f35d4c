package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/precedence/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse the results interactively",
		Long: `Inspect checks and repairs every sequence and opens an interactive list of
the results. Select a sequence to see the rule it breaks and its repaired
order. Unrepairable and malformed sequences are listed instead of failing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.keepGoing, flags.skipMalformed = true, true
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}
			in, err := loadInput(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), flags.noCache, nil)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, err := c.execute(cmd.Context(), runner, in, opts, true)
			if err != nil {
				return err
			}
			if len(result.Sequences) == 0 {
				printInfo("No sequences in %s", args[0])
				return nil
			}

			_, err = tea.NewProgram(NewInspectModel(result), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(cmd)

	return cmd
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// InspectModel - Interactive result browser
// =============================================================================

// InspectModel is the bubbletea model of the inspect command.
type InspectModel struct {
	Result *pipeline.Result
	Cursor int
	Height int
	Offset int
	Detail bool
}

// NewInspectModel creates a browser over the sequences of result.
func NewInspectModel(result *pipeline.Result) InspectModel {
	return InspectModel{Result: result, Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Result.Sequences)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(n-1, 0)
		case "enter", " ":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Sequences"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	seqs := m.Result.Sequences
	end := min(m.Offset+m.Height, len(seqs))

	var rows [][]string
	var statuses []string
	for i := m.Offset; i < end; i++ {
		sr := seqs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		status := sequenceStatus(sr)
		statuses = append(statuses, status)
		rows = append(rows, []string{cursor, fmt.Sprint(sr.Line), truncate(sr.Input.String(), 40), status, middleString(sr)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Line", "Sequence", "Status", "Middle").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < 0 || row >= len(statuses) {
				return lipgloss.NewStyle()
			}
			isCurrent := m.Offset+row == m.Cursor
			if col == 3 {
				return statusStyle(statuses[row]).Bold(isCurrent)
			}
			if isCurrent {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.Detail && len(seqs) > 0 {
		b.WriteString(detailBoxStyle.Render(detail(seqs[m.Cursor])))
		b.WriteString("\n")
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  valid sum %d · repaired sum %d",
		m.Cursor+1, len(seqs), m.Result.ValidSum, m.Result.RepairedSum)))
	return b.String()
}

// detail describes one sequence result for the detail pane.
func detail(sr pipeline.SequenceResult) string {
	var lines []string
	add := func(key, value string) {
		lines = append(lines, StyleDim.Render(fmt.Sprintf("%-10s", key))+" "+value)
	}

	add("line", fmt.Sprint(sr.Line))
	if sr.Input != nil {
		add("input", sr.Input.String())
	}
	status := sequenceStatus(sr)
	add("status", statusStyle(status).Render(status))
	if sr.Violation != nil {
		add("breaks", sr.Violation.String())
	}
	if sr.Repaired != nil {
		source := iconFresh
		if sr.Cached {
			source = iconCached
		}
		add("repaired", sr.Repaired.String()+" "+StyleDim.Render("("+source+")"))
	}
	if sr.HasMiddle {
		add("middle", StyleNumber.Render(sr.Middle.String()))
	}
	if sr.Err != nil {
		add("error", StyleError.Render(sr.Err.Error()))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
