package pipeline

import (
	"github.com/matzehuels/precedence/pkg/errors"
	"github.com/matzehuels/precedence/pkg/io"
	"github.com/matzehuels/precedence/pkg/rules"
)

// BuildGraph parses every rule line of in into a new graph. An input without
// rules yields an empty graph, against which every sequence is consistent.
// The first malformed line aborts construction; the error has code
// MALFORMED_RULE and names the input line.
func BuildGraph(in *io.Input) (*rules.Graph, error) {
	g := rules.New()
	for _, l := range in.Rules {
		if err := g.AddRuleLine(l.Text); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedRule, err, "line %d", l.No)
		}
	}
	return g, nil
}

// ParseSequenceLine parses one sequence line. The error has code
// MALFORMED_SEQUENCE and names the input line.
func ParseSequenceLine(l io.Line) (rules.Sequence, error) {
	seq, err := rules.ParseSequence(l.Text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedSequence, err, "line %d", l.No)
	}
	return seq, nil
}
