package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pio "github.com/matzehuels/precedence/pkg/io"
	"github.com/matzehuels/precedence/pkg/pipeline"
)

// repairCommand creates the repair command.
func (c *CLI) repairCommand() *cobra.Command {
	var (
		flags searchFlags
		out   outputFlags
	)

	cmd := &cobra.Command{
		Use:   "repair <file>",
		Short: "Reorder the sequences that break the rules",
		Long: `Repair reorders every sequence that breaks the rules into one that respects
them and prints the sum of the middle items of the repaired sequences.

Repairs are cached by rule set, sequence and search options; use --refresh to
recompute them or --no-cache to bypass the cache entirely.`,
		Example: `  precedence repair input.txt
  precedence repair --acceptance full --keep-going input.txt
  precedence repair --json -o report.json input.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}
			return c.runRepair(cmd.Context(), args[0], opts, flags.noCache, out)
		},
	}

	flags.register(cmd)
	out.register(cmd)

	return cmd
}

func (c *CLI) runRepair(ctx context.Context, path string, opts pipeline.Options, noCache bool, out outputFlags) error {
	in, err := loadInput(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := c.execute(ctx, runner, in, opts, !out.json)
	if err != nil {
		return err
	}

	if err := writeReport(result, out); err != nil || out.json {
		return err
	}

	var repaired []pipeline.SequenceResult
	for _, sr := range result.Sequences {
		if !sr.Consistent {
			repaired = append(repaired, sr)
		}
	}
	if len(repaired) == 0 {
		printSuccess("All %d sequences already respect the rules", result.Stats.Sequences)
	} else {
		fmt.Fprintln(stdout, sequenceTable(repaired, true))
		for _, sr := range repaired {
			if sr.Err != nil {
				printWarning("line %d: %v", sr.Line, sr.Err)
			}
		}
	}
	printSums(result, false, true)
	return nil
}

// execute runs the pipeline, with a spinner when show is set and the logger
// is not already printing debug output.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, in *pio.Input, opts pipeline.Options, show bool) (*pipeline.Result, error) {
	prog := newProgress(c.Logger)
	var spinner *Spinner
	if show && c.Logger.GetLevel() > LogDebug {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Repairing %d sequences...", len(in.Sequences)))
		spinner.Start()
	}

	result, err := runner.Execute(ctx, in, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Checked %d sequences", result.Stats.Sequences))
	return result, nil
}
