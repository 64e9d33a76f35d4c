package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/precedence/pkg/pipeline"
	"github.com/matzehuels/precedence/pkg/rules"
)

func TestSequenceStatus(t *testing.T) {
	tests := []struct {
		name string
		sr   pipeline.SequenceResult
		want string
	}{
		{"valid", pipeline.SequenceResult{Input: rules.Sequence{1, 2, 3}, Consistent: true}, statusValid},
		{"repaired", pipeline.SequenceResult{Input: rules.Sequence{2, 1, 3}, Repaired: rules.Sequence{1, 2, 3}}, statusRepaired},
		{"failed", pipeline.SequenceResult{Input: rules.Sequence{2, 1, 9}, Err: errors.New("no")}, statusFailed},
		{"skipped", pipeline.SequenceResult{Err: errors.New("malformed")}, statusSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sequenceStatus(tt.sr); got != tt.want {
				t.Errorf("sequenceStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleString(t *testing.T) {
	if got := middleString(pipeline.SequenceResult{}); got != "—" {
		t.Errorf("middleString(no middle) = %q", got)
	}
	if got := middleString(pipeline.SequenceResult{Middle: 61, HasMiddle: true}); got != "61" {
		t.Errorf("middleString() = %q, want 61", got)
	}
}

func TestSequenceTable(t *testing.T) {
	results := sampleResult(t).Sequences

	out := sequenceTable(results, false)
	for _, want := range []string{"Line", "Status", "23", "75,47,61,53,29", "61"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	out = sequenceTable(results[3:], true)
	for _, want := range []string{"Repaired", "97,75,47,61,53", "47", "fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("repair table missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHelpers(t *testing.T) {
	out := captureStdout(t)

	printSuccess("done %d", 1)
	printWarning("careful")
	printNextStep("Repair the rest", "precedence repair input.txt")
	printSums(sampleResult(t), true, true)

	got := out.String()
	for _, want := range []string{"done 1", "careful", "precedence repair input.txt", "valid sum", "143", "123", "3 repaired"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
