package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/precedence/pkg/pipeline"
)

// stdout receives all command output; tests replace it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failures.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Sequence Tables
// =============================================================================

// status labels of a sequence result
const (
	statusValid    = "valid"
	statusRepaired = "repaired"
	statusFailed   = "failed"
	statusSkipped  = "skipped"
)

func sequenceStatus(sr pipeline.SequenceResult) string {
	switch {
	case sr.Consistent:
		return statusValid
	case sr.Repaired != nil:
		return statusRepaired
	case sr.Input == nil:
		return statusSkipped
	default:
		return statusFailed
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case statusValid:
		return StyleSuccess
	case statusRepaired:
		return StyleNumber
	case statusFailed:
		return StyleError
	default:
		return StyleWarning
	}
}

// middleString formats the middle item of a result, or a dash.
func middleString(sr pipeline.SequenceResult) string {
	if !sr.HasMiddle {
		return "—"
	}
	return sr.Middle.String()
}

// sequenceTable renders results as a rounded table. With repairs set, the
// repaired order and its cache status are shown too.
func sequenceTable(results []pipeline.SequenceResult, repairs bool) string {
	headers := []string{"Line", "Sequence", "Status", "Middle"}
	if repairs {
		headers = []string{"Line", "Sequence", "Repaired", "Middle", ""}
	}

	rows := make([][]string, 0, len(results))
	statuses := make([]string, 0, len(results))
	for _, sr := range results {
		status := sequenceStatus(sr)
		statuses = append(statuses, status)
		input := sr.Input.String()
		if sr.Input == nil {
			input = "—"
		}
		if !repairs {
			rows = append(rows, []string{fmt.Sprint(sr.Line), input, status, middleString(sr)})
			continue
		}

		repaired, source := status, ""
		if sr.Repaired != nil {
			repaired = sr.Repaired.String()
			source = iconFresh
			if sr.Cached {
				source = iconCached
			}
		}
		rows = append(rows, []string{fmt.Sprint(sr.Line), input, repaired, middleString(sr), source})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return base.Inherit(styleHeader)
			}
			if row < 0 || row >= len(statuses) {
				return base
			}
			switch {
			case col == 0:
				return base.Inherit(StyleDim)
			case col == 2:
				return base.Inherit(statusStyle(statuses[row]))
			case repairs && col == 4:
				if rows[row][4] == iconCached {
					return base.Inherit(styleCached)
				}
				return base.Inherit(styleComputed)
			}
			return base
		})
	return t.Render()
}

// printSums prints the summary lines shared by check, repair and solve.
func printSums(r *pipeline.Result, valid, repaired bool) {
	if valid {
		printKeyValue("valid sum", StyleNumber.Render(fmt.Sprint(r.ValidSum)))
	}
	if repaired {
		printKeyValue("repaired sum", StyleNumber.Render(fmt.Sprint(r.RepairedSum)))
	}
	var parts []string
	s := r.Stats
	parts = append(parts, fmt.Sprintf("%d rules", s.Rules), fmt.Sprintf("%d sequences", s.Sequences))
	if s.Valid > 0 {
		parts = append(parts, fmt.Sprintf("%d valid", s.Valid))
	}
	if s.Repaired > 0 {
		parts = append(parts, fmt.Sprintf("%d repaired", s.Repaired))
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.Skipped))
	}
	if s.CacheHits > 0 {
		parts = append(parts, styleCached.Render(fmt.Sprintf("%d %s", s.CacheHits, iconCached)))
	}
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}
