package pipeline

import (
	"fmt"

	"github.com/matzehuels/precedence/pkg/errors"
	"github.com/matzehuels/precedence/pkg/render"
	"github.com/matzehuels/precedence/pkg/rules"
)

// DefaultFormat is the diagram format used when none is given.
const DefaultFormat = render.FormatSVG

// ValidateFormat checks that a diagram format is supported.
func ValidateFormat(format string) error {
	if !render.ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, pdf, png)", format)
	}
	return nil
}

// GraphOptions configures [RenderGraph].
type GraphOptions struct {
	// Format is one of the render formats; empty means [DefaultFormat].
	Format string

	// Sequence is highlighted in the diagram when set.
	Sequence rules.Sequence

	// Scoped restricts the diagram to the items of Sequence.
	Scoped bool

	// Title is shown above the diagram.
	Title string
}

// RenderGraph draws g, optionally restricted to and highlighting a sequence.
func RenderGraph(g *rules.Graph, opts GraphOptions) ([]byte, error) {
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "render")
	}
	if opts.Scoped {
		if len(opts.Sequence) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "a scoped diagram needs a sequence")
		}
		g = rules.Restrict(g, rules.ScopeOf(opts.Sequence))
	}

	data, err := render.Render(g, render.Options{Highlight: opts.Sequence, Title: opts.Title}, opts.Format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.Format)
	}
	return data, nil
}
