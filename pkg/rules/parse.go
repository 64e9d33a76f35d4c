package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedRule is returned by [ParseRule], [Graph.AddRuleLine] and
	// [Build] when a rule line does not decode into exactly two items.
	ErrMalformedRule = errors.New("malformed rule")

	// ErrMalformedSequence is returned by [ParseSequence] when a token of a
	// sequence line is not a valid item.
	ErrMalformedSequence = errors.New("malformed sequence")
)

const (
	ruleSep     = "|"
	sequenceSep = ","
)

// LineError attaches a 1-based line number to a parse error.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// ParseItem parses a decimal item token. The token must consist of digits
// only; whitespace around it is an error.
func ParseItem(tok string) (Item, error) {
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, err
	}
	return Item(v), nil
}

// ParseRule decodes a "before|after" line.
// Any other number of "|"-separated tokens, or a token that is not an
// unsigned decimal integer, yields an error wrapping [ErrMalformedRule].
func ParseRule(line string) (Rule, error) {
	parts := strings.Split(line, ruleSep)
	if len(parts) != 2 {
		return Rule{}, fmt.Errorf("%w: %q: want 2 items, got %d tokens", ErrMalformedRule, line, len(parts))
	}
	before, err := ParseItem(parts[0])
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q: %v", ErrMalformedRule, line, err)
	}
	after, err := ParseItem(parts[1])
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q: %v", ErrMalformedRule, line, err)
	}
	return Rule{Before: before, After: after}, nil
}

// ParseSequence decodes a comma-separated list of items.
// The first token that is not an item fails the whole line with an error
// wrapping [ErrMalformedSequence].
func ParseSequence(line string) (Sequence, error) {
	parts := strings.Split(line, sequenceSep)
	seq := make(Sequence, 0, len(parts))
	for i, p := range parts {
		it, err := ParseItem(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: token %d: %v", ErrMalformedSequence, line, i+1, err)
		}
		seq = append(seq, it)
	}
	return seq, nil
}

// String returns the sequence in its comma-separated textual form.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, it := range s {
		parts[i] = it.String()
	}
	return strings.Join(parts, sequenceSep)
}

// Middle returns the element at index len/2, or false for an empty sequence.
func (s Sequence) Middle() (Item, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)/2], true
}
