package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/precedence/pkg/rules"
)

// Report is the JSON form of one checked input.
type Report struct {
	Sequences   []SequenceReport `json:"sequences"`
	ValidSum    uint64           `json:"valid_sum"`
	RepairedSum uint64           `json:"repaired_sum"`
	Stats       *Stats           `json:"stats,omitempty"`
}

// SequenceReport is the outcome for one sequence line.
type SequenceReport struct {
	Line       int            `json:"line"`
	Input      rules.Sequence `json:"input"`
	Consistent bool           `json:"consistent"`
	Violation  string         `json:"violation,omitempty"`
	Repaired   rules.Sequence `json:"repaired,omitempty"`
	Middle     *rules.Item    `json:"middle,omitempty"`
	Cached     bool           `json:"cached,omitempty"`
	Code       string         `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Stats summarizes a run.
type Stats struct {
	Rules      int   `json:"rules"`
	Items      int   `json:"items"`
	Sequences  int   `json:"sequences"`
	Valid      int   `json:"valid"`
	Repaired   int   `json:"repaired"`
	Failed     int   `json:"failed"`
	Skipped    int   `json:"skipped"`
	CacheHits  int   `json:"cache_hits"`
	DurationMS int64 `json:"duration_ms"`
}

// WriteJSON encodes rep as indented JSON and writes it to w.
func WriteJSON(rep *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes rep to the file at path, replacing it if it exists.
func ExportJSON(rep *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(rep, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadReport decodes a report written by [WriteJSON].
func ReadReport(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &rep, nil
}
