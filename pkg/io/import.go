package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Line is one non-empty input line with its 1-based line number.
type Line struct {
	No   int
	Text string
}

// Input is the raw content of an input file, split into its two sections.
type Input struct {
	Rules     []Line
	Sequences []Line
}

// RuleLines returns the text of every rule line.
func (in *Input) RuleLines() []string {
	out := make([]string, len(in.Rules))
	for i, l := range in.Rules {
		out[i] = l.Text
	}
	return out
}

// ReadInput splits r into rule and sequence lines.
//
// Every line is trimmed. The first empty line ends the rule section; a line
// holding only whitespace does not, and is kept as an (empty) rule line.
// Blank lines among the sequences are skipped. ReadInput does not close r.
func ReadInput(r io.Reader) (*Input, error) {
	in := &Input{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inSequences := false
	for no := 1; sc.Scan(); no++ {
		raw := strings.TrimSuffix(sc.Text(), "\r")
		text := strings.TrimSpace(raw)
		switch {
		case raw == "" && !inSequences:
			inSequences = true
		case text == "" && inSequences:
		case inSequences:
			in.Sequences = append(in.Sequences, Line{No: no, Text: text})
		default:
			in.Rules = append(in.Rules, Line{No: no, Text: text})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return in, nil
}

// ImportFile reads the input file at path with [ReadInput].
// The path "-" reads from standard input.
func ImportFile(path string) (*Input, error) {
	if path == "-" {
		return ReadInput(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadInput(f)
}

type document struct {
	Rules     []string `json:"rules"`
	Sequences []string `json:"sequences"`
}

// ReadJSONInput decodes a JSON document with "rules" and "sequences" string
// arrays. Line numbers count from 1 within each array. Empty entries are
// skipped but still counted.
func ReadJSONInput(r io.Reader) (*Input, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return NewInput(doc.Rules, doc.Sequences), nil
}

// NewInput builds an input from rule and sequence strings, numbering the
// lines of each list from 1. Empty entries are skipped but still counted.
func NewInput(rules, sequences []string) *Input {
	return &Input{
		Rules:     numbered(rules),
		Sequences: numbered(sequences),
	}
}

func numbered(texts []string) []Line {
	out := make([]Line, 0, len(texts))
	for i, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, Line{No: i + 1, Text: t})
		}
	}
	return out
}

// WriteInput writes in back in the text input format.
func WriteInput(in *Input, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, l := range in.Rules {
		fmt.Fprintln(bw, l.Text)
	}
	fmt.Fprintln(bw)
	for _, l := range in.Sequences {
		fmt.Fprintln(bw, l.Text)
	}
	return bw.Flush()
}
