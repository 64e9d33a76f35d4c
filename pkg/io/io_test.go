package io

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/precedence/pkg/rules"
)

const sample = `47|53
97|13
  97|61

75,47,61,53,29

97,61,53,29,13
`

func TestReadInput(t *testing.T) {
	in, err := ReadInput(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}

	wantRules := []Line{{1, "47|53"}, {2, "97|13"}, {3, "97|61"}}
	if !slices.Equal(in.Rules, wantRules) {
		t.Errorf("Rules = %v, want %v", in.Rules, wantRules)
	}
	wantSeqs := []Line{{5, "75,47,61,53,29"}, {7, "97,61,53,29,13"}}
	if !slices.Equal(in.Sequences, wantSeqs) {
		t.Errorf("Sequences = %v, want %v", in.Sequences, wantSeqs)
	}
	if got := in.RuleLines(); !slices.Equal(got, []string{"47|53", "97|13", "97|61"}) {
		t.Errorf("RuleLines() = %v", got)
	}
}

func TestReadInputRulesOnly(t *testing.T) {
	in, err := ReadInput(strings.NewReader("1|2\n2|3"))
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}
	if len(in.Rules) != 2 || len(in.Sequences) != 0 {
		t.Errorf("got %d rules, %d sequences, want 2, 0", len(in.Rules), len(in.Sequences))
	}
}

func TestReadInputCRLF(t *testing.T) {
	in, err := ReadInput(strings.NewReader("1|2\r\n\r\n2,1\r\n"))
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}
	if in.Rules[0].Text != "1|2" || in.Sequences[0].Text != "2,1" {
		t.Errorf("lines not trimmed: %+v", in)
	}
}

func TestReadInputWhitespaceLine(t *testing.T) {
	in, err := ReadInput(strings.NewReader("1|2\n  \n3|4\n\n1,2\n \t\n2,1\n"))
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}
	wantRules := []Line{{1, "1|2"}, {2, ""}, {3, "3|4"}}
	if !slices.Equal(in.Rules, wantRules) {
		t.Errorf("Rules = %v, want %v", in.Rules, wantRules)
	}
	wantSeqs := []Line{{5, "1,2"}, {7, "2,1"}}
	if !slices.Equal(in.Sequences, wantSeqs) {
		t.Errorf("Sequences = %v, want %v", in.Sequences, wantSeqs)
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if len(in.Sequences) != 2 {
		t.Errorf("len(Sequences) = %d, want 2", len(in.Sequences))
	}

	if _, err := ImportFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("ImportFile(missing) error = nil, want error")
	}
}

func TestWriteInputRoundTrip(t *testing.T) {
	in, err := ReadInput(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteInput(in, &buf); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}

	again, err := ReadInput(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Rules) != len(in.Rules) || len(again.Sequences) != len(in.Sequences) {
		t.Errorf("round trip changed section sizes: %+v", again)
	}
	for i := range in.Sequences {
		if again.Sequences[i].Text != in.Sequences[i].Text {
			t.Errorf("Sequences[%d] = %q, want %q", i, again.Sequences[i].Text, in.Sequences[i].Text)
		}
	}
}

func TestReadJSONInput(t *testing.T) {
	body := `{"rules": ["1|2", " ", "2|3"], "sequences": ["3,2,1"]}`
	in, err := ReadJSONInput(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadJSONInput: %v", err)
	}

	wantRules := []Line{{1, "1|2"}, {3, "2|3"}}
	if !slices.Equal(in.Rules, wantRules) {
		t.Errorf("Rules = %v, want %v", in.Rules, wantRules)
	}
	if !slices.Equal(in.Sequences, []Line{{1, "3,2,1"}}) {
		t.Errorf("Sequences = %v", in.Sequences)
	}

	if _, err := ReadJSONInput(strings.NewReader("{")); err == nil {
		t.Error("ReadJSONInput(truncated) error = nil, want error")
	}
}

func TestReportRoundTrip(t *testing.T) {
	mid := rules.Item(47)
	rep := &Report{
		Sequences: []SequenceReport{
			{Line: 5, Input: rules.Sequence{75, 97, 47}, Repaired: rules.Sequence{97, 75, 47}, Middle: &mid},
			{Line: 6, Input: rules.Sequence{1, 2}, Code: "UNSATISFIABLE", Error: "no rule-consistent permutation found"},
		},
		RepairedSum: 47,
		Stats:       &Stats{Sequences: 2, Repaired: 1, Failed: 1},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := ExportJSON(rep, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"repaired_sum": 47`)) {
		t.Errorf("report missing repaired_sum:\n%s", data)
	}

	got, err := ReadReport(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if *got.Sequences[0].Middle != mid {
		t.Errorf("Middle = %v, want %v", *got.Sequences[0].Middle, mid)
	}
	if !slices.Equal(got.Sequences[0].Repaired, rep.Sequences[0].Repaired) {
		t.Errorf("Repaired = %v, want %v", got.Sequences[0].Repaired, rep.Sequences[0].Repaired)
	}
	if got.Sequences[1].Middle != nil {
		t.Errorf("failed sequence has middle %v", *got.Sequences[1].Middle)
	}
}
