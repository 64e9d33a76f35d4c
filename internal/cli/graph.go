package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/precedence/pkg/errors"
	pio "github.com/matzehuels/precedence/pkg/io"
	"github.com/matzehuels/precedence/pkg/pipeline"
	"github.com/matzehuels/precedence/pkg/render"
	"github.com/matzehuels/precedence/pkg/rules"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string // output file; stdout for text formats when empty
	format   string // dot, svg (default), pdf, png
	sequence string // sequence to highlight, comma-separated
	line     int    // input line of the sequence to highlight
	scoped   bool   // draw only the items of the sequence
	repair   bool   // highlight the repaired order instead of the input
	title    string
	search   searchFlags
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Draw the rule graph",
		Long: `Graph draws the rules of the input as a node-link diagram. A sequence given
with --sequence or --line is highlighted as a path: steps backed by a rule are
drawn in blue, steps no rule supports are dashed red.`,
		Example: `  precedence graph input.txt > rules.svg
  precedence graph -f dot --line 27 --scoped input.txt
  precedence graph --line 27 --scoped --repair -o fixed.svg input.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = pipeline.DefaultFormat
			}
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph")
			}
			if opts.output == "" && (opts.format == render.FormatPDF || opts.format == render.FormatPNG) {
				return fmt.Errorf("%s output needs --output", opts.format)
			}
			return c.runGraph(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), dot, pdf, png")
	cmd.Flags().StringVarP(&opts.sequence, "sequence", "s", "", "sequence to highlight, e.g. 75,97,47")
	cmd.Flags().IntVarP(&opts.line, "line", "l", 0, "input line of the sequence to highlight")
	cmd.Flags().BoolVar(&opts.scoped, "scoped", false, "draw only the items of the highlighted sequence")
	cmd.Flags().BoolVar(&opts.repair, "repair", false, "highlight the repaired order of the sequence")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title")
	opts.search.register(cmd)

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, path string, opts *graphOpts) error {
	in, err := loadInput(path)
	if err != nil {
		return err
	}
	g, err := pipeline.BuildGraph(in)
	if err != nil {
		return err
	}

	seq, err := pickSequence(in, opts.sequence, opts.line)
	if err != nil {
		return err
	}
	if opts.repair {
		if seq == nil {
			return errors.New(errors.ErrCodeInvalidInput, "--repair needs --sequence or --line")
		}
		if seq, err = c.repairOne(ctx, g, seq, &opts.search); err != nil {
			return err
		}
		c.Logger.Info("repaired", "sequence", seq.String())
	}

	data, err := pipeline.RenderGraph(g, pipeline.GraphOptions{
		Format:   opts.format,
		Sequence: seq,
		Scoped:   opts.scoped,
		Title:    opts.title,
	})
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printFile(opts.output)
	return nil
}

// pickSequence returns the sequence named by --sequence or --line, or nil.
func pickSequence(in *pio.Input, text string, line int) (rules.Sequence, error) {
	switch {
	case text != "" && line != 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "give either --sequence or --line, not both")
	case text != "":
		return pipeline.ParseSequenceLine(pio.Line{No: 0, Text: text})
	case line != 0:
		for _, l := range in.Sequences {
			if l.No == line {
				return pipeline.ParseSequenceLine(l)
			}
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "line %d is not a sequence line", line)
	}
	return nil, nil
}

// repairOne reorders seq when it breaks the rules.
func (c *CLI) repairOne(ctx context.Context, g *rules.Graph, seq rules.Sequence, flags *searchFlags) (rules.Sequence, error) {
	if rules.IsConsistent(g, seq) {
		return seq, nil
	}
	opts, err := c.options(flags)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, flags.noCache, nil)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	fixed, _, err := runner.Repair(ctx, g, "", seq, opts)
	if err != nil {
		return nil, fmt.Errorf("repair %s: %w", seq, err)
	}
	return fixed, nil
}
