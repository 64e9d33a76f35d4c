package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/precedence/pkg/errors"
	pio "github.com/matzehuels/precedence/pkg/io"
)

const sampleInput = `47|53
97|13
97|61
97|47
75|29
61|13
75|53
29|13
97|29
53|29
61|53
97|53
61|29
47|13
75|47
97|75
47|61
75|61
47|29
75|13
53|13

75,47,61,53,29
97,61,53,29,13
75,29,13
75,97,47,61,53
61,13,29
97,13,75,29,47
`

// captureStdout redirects command output into a buffer for the duration of
// the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

// isolate points the config and cache directories at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv(envRedisURL, "")
	return dir
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := captureStdout(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestSolvePlain(t *testing.T) {
	isolate(t)
	path := writeInput(t, sampleInput)

	out, err := run(t, "solve", "--plain", path)
	if err != nil {
		t.Fatalf("solve error: %v", err)
	}
	if out != "143\n123\n" {
		t.Errorf("solve --plain = %q, want %q", out, "143\n123\n")
	}

	// Second run is served from the file cache.
	out, err = run(t, "solve", "--plain", path)
	if err != nil {
		t.Fatalf("cached solve error: %v", err)
	}
	if out != "143\n123\n" {
		t.Errorf("cached solve --plain = %q", out)
	}
}

func TestSolveTable(t *testing.T) {
	isolate(t)
	path := writeInput(t, sampleInput)

	out, err := run(t, "solve", "--no-cache", path)
	if err != nil {
		t.Fatalf("solve error: %v", err)
	}
	for _, want := range []string{"valid sum", "143", "repaired sum", "123", "21 rules", "6 sequences"} {
		if !strings.Contains(out, want) {
			t.Errorf("solve output missing %q:\n%s", want, out)
		}
	}
}

func TestCheck(t *testing.T) {
	isolate(t)
	path := writeInput(t, sampleInput)

	out, err := run(t, "check", path)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	for _, want := range []string{"valid", "143", "line 26:", "repair"} {
		if !strings.Contains(out, want) {
			t.Errorf("check output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "repaired sum") {
		t.Errorf("check should not print the repaired sum:\n%s", out)
	}
}

func TestCheckJSON(t *testing.T) {
	isolate(t)
	path := writeInput(t, sampleInput)

	out, err := run(t, "check", "--json", path)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	var rep pio.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if rep.ValidSum != 143 || rep.RepairedSum != 0 {
		t.Errorf("sums = %d, %d, want 143, 0", rep.ValidSum, rep.RepairedSum)
	}
	if len(rep.Sequences) != 6 {
		t.Fatalf("len(Sequences) = %d, want 6", len(rep.Sequences))
	}
	if rep.Sequences[3].Violation == "" {
		t.Error("line 26 should report a violation")
	}
}

func TestRepairJSONAndOutput(t *testing.T) {
	isolate(t)
	path := writeInput(t, sampleInput)
	report := filepath.Join(t.TempDir(), "report.json")

	out, err := run(t, "repair", "--json", "-o", report, path)
	if err != nil {
		t.Fatalf("repair error: %v", err)
	}
	var rep pio.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.RepairedSum != 123 {
		t.Errorf("RepairedSum = %d, want 123", rep.RepairedSum)
	}

	f, err := os.Open(report)
	if err != nil {
		t.Fatalf("report file: %v", err)
	}
	defer f.Close()
	saved, err := pio.ReadReport(f)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if saved.ValidSum != 143 || saved.RepairedSum != 123 {
		t.Errorf("saved sums = %d, %d", saved.ValidSum, saved.RepairedSum)
	}
}

func TestRepairUnsatisfiable(t *testing.T) {
	isolate(t)
	path := writeInput(t, "1|2\n\n2,1,9\n1,2\n")

	_, err := run(t, "repair", "--no-cache", path)
	if got := errors.GetCode(err); got != errors.ErrCodeUnsatisfiable {
		t.Errorf("repair error code = %q, want %q (err %v)", got, errors.ErrCodeUnsatisfiable, err)
	}

	out, err := run(t, "repair", "--no-cache", "--keep-going", path)
	if err != nil {
		t.Fatalf("repair --keep-going error: %v", err)
	}
	if !strings.Contains(out, "failed") || !strings.Contains(out, "line 3") {
		t.Errorf("repair --keep-going output:\n%s", out)
	}
}

func TestCommandErrors(t *testing.T) {
	isolate(t)
	sample := writeInput(t, sampleInput)
	noRules := writeInput(t, "\n1,2,3\n")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"check", filepath.Join(t.TempDir(), "nope.txt")}, errors.ErrCodeFileNotFound},
		{"no rules", []string{"check", noRules}, errors.ErrCodeInvalidInput},
		{"bad acceptance", []string{"repair", "--acceptance", "partial", sample}, errors.ErrCodeInvalidInput},
		{"bad format", []string{"graph", "-f", "gif", sample}, errors.ErrCodeInvalidFormat},
		{"sequence and line", []string{"graph", "-f", "dot", "-s", "1,2", "-l", "23", sample}, errors.ErrCodeInvalidInput},
		{"line out of range", []string{"graph", "-f", "dot", "-l", "2", sample}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}

	if _, err := run(t, "repair", "--timeout", "soon", sample); err == nil {
		t.Error("expected invalid timeout error")
	}
	if _, err := run(t, "graph", "-f", "pdf", sample); err == nil {
		t.Error("expected error for pdf without --output")
	}
}

func TestGraphDOT(t *testing.T) {
	isolate(t)
	path := writeInput(t, sampleInput)

	out, err := run(t, "graph", "-f", "dot", path)
	if err != nil {
		t.Fatalf("graph error: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") || !strings.Contains(out, `"97" -> "75"`) {
		t.Errorf("unexpected DOT:\n%s", out)
	}

	out, err = run(t, "graph", "-f", "dot", "--scoped", "--repair", "-l", "26", "--no-cache", path)
	if err != nil {
		t.Fatalf("graph --repair error: %v", err)
	}
	if strings.Contains(out, `"13"`) {
		t.Errorf("scoped graph of line 26 should not contain 13:\n%s", out)
	}
	if !strings.Contains(out, "penwidth=3") {
		t.Errorf("repaired path should be drawn along rules:\n%s", out)
	}
}

func TestGraphToFile(t *testing.T) {
	isolate(t)
	path := writeInput(t, sampleInput)
	target := filepath.Join(t.TempDir(), "rules.dot")

	out, err := run(t, "graph", "-f", "dot", "-o", target, path)
	if err != nil {
		t.Fatalf("graph error: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output should name the file:\n%s", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("digraph")) {
		t.Errorf("file content = %q", data[:min(len(data), 40)])
	}
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	path := writeInput(t, sampleInput)
	cfg := writeConfig(t, "[search]\nacceptance = \"bogus\"\n")

	if _, err := run(t, "--config", cfg, "solve", "--plain", path); err == nil {
		t.Error("expected error for invalid acceptance in config")
	}

	missing := filepath.Join(t.TempDir(), "missing.toml")
	if _, err := run(t, "--config", missing, "solve", "--plain", path); err == nil {
		t.Error("expected error for an explicit missing config file")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)
	path := writeInput(t, sampleInput)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if want := filepath.Join(dir, "cache", "precedence"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	out, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on empty cache:\n%s", out)
	}

	if _, err := run(t, "solve", "--plain", path); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "Cleared 3 cached entries") {
		t.Errorf("clear after solve:\n%s", out)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "precedence") {
		t.Error("bash completion should mention the command name")
	}
}
