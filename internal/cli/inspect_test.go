package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	pio "github.com/matzehuels/precedence/pkg/io"
	"github.com/matzehuels/precedence/pkg/pipeline"
)

func sampleResult(t *testing.T) *pipeline.Result {
	t.Helper()
	in, err := pio.ReadInput(strings.NewReader(sampleInput))
	if err != nil {
		t.Fatal(err)
	}
	result, err := pipeline.NewRunner(nil, nil, log.New(io.Discard)).Execute(context.Background(), in, pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m InspectModel, msgs ...tea.Msg) (InspectModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(InspectModel)
	}
	return m, cmd
}

func TestInspectNavigation(t *testing.T) {
	m := NewInspectModel(sampleResult(t))

	m, _ = update(m, key("up"))
	if m.Cursor != 0 {
		t.Errorf("Cursor after up at top = %d, want 0", m.Cursor)
	}

	m, _ = update(m, key("down"), key("j"), key("down"))
	if m.Cursor != 3 {
		t.Errorf("Cursor = %d, want 3", m.Cursor)
	}

	m, _ = update(m, key("G"))
	if m.Cursor != 5 {
		t.Errorf("Cursor after G = %d, want 5", m.Cursor)
	}
	m, _ = update(m, key("down"))
	if m.Cursor != 5 {
		t.Errorf("Cursor past end = %d, want 5", m.Cursor)
	}

	m, _ = update(m, key("k"), key("g"))
	if m.Cursor != 0 {
		t.Errorf("Cursor after g = %d, want 0", m.Cursor)
	}
}

func TestInspectScrolling(t *testing.T) {
	m := NewInspectModel(sampleResult(t))
	m, _ = update(m, tea.WindowSizeMsg{Width: 80, Height: 10})
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}

	m, _ = update(m, key("G"))
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}
	m, _ = update(m, key("g"))
	if m.Offset != 0 {
		t.Errorf("Offset after g = %d, want 0", m.Offset)
	}
}

func TestInspectQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		_, cmd := update(NewInspectModel(sampleResult(t)), key(k))
		if cmd == nil {
			t.Fatalf("%s: expected a command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestInspectView(t *testing.T) {
	m := NewInspectModel(sampleResult(t))

	view := m.View()
	for _, want := range []string{"Sequences", "75,47,61,53,29", "valid", "repaired", "[1/6]", "valid sum 143", "repaired sum 123"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "breaks") {
		t.Error("detail pane should be hidden by default")
	}

	m, _ = update(m, key("down"), key("down"), key("down"), key("enter"))
	view = m.View()
	for _, want := range []string{"[4/6]", "breaks", "97,75,47,61,53", "fresh"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail View() missing %q:\n%s", want, view)
		}
	}

	m, _ = update(m, key(" "))
	if m.Detail {
		t.Error("space should toggle the detail pane off")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("1,2,3", 10); got != "1,2,3" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("11,22,33,44", 6); got != "11,22…" {
		t.Errorf("truncate long = %q, want %q", got, "11,22…")
	}
}
