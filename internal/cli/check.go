package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pio "github.com/matzehuels/precedence/pkg/io"
	"github.com/matzehuels/precedence/pkg/pipeline"
)

// outputFlags select how results are written.
type outputFlags struct {
	json   bool   // write the JSON report to stdout
	output string // write the JSON report to a file
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.json, "json", false, "print the JSON report instead of a table")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "also write the JSON report to this file")
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		out           outputFlags
		skipMalformed bool
	)

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Report which sequences respect the rules",
		Long: `Check classifies every sequence in the input against the rules and prints the
sum of the middle items of the sequences that are already in order. The first
broken rule is shown for every other sequence.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(&searchFlags{skipMalformed: skipMalformed})
			if err != nil {
				return err
			}
			return c.runCheck(cmd.Context(), args[0], opts, out)
		},
	}

	out.register(cmd)
	cmd.Flags().BoolVar(&skipMalformed, "skip-malformed", false, "skip malformed sequence lines instead of failing")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, path string, opts pipeline.Options, out outputFlags) error {
	in, err := loadInput(path)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	result, err := runner.Check(ctx, in, opts)
	if err != nil {
		return err
	}

	if err := writeReport(result, out); err != nil || out.json {
		return err
	}

	fmt.Fprintln(stdout, sequenceTable(result.Sequences, false))
	for _, sr := range result.Sequences {
		if sr.Violation != nil {
			printDetail("line %d: %s", sr.Line, sr.Violation)
		}
	}
	printSums(result, true, false)
	if result.Stats.Valid < result.Stats.Sequences {
		printNextStep("Repair the rest", fmt.Sprintf("%s repair %s", appName, path))
	}
	return nil
}

// writeReport writes the JSON report as requested by out.
func writeReport(result *pipeline.Result, out outputFlags) error {
	rep := result.Report()
	if out.output != "" {
		if err := pio.ExportJSON(rep, out.output); err != nil {
			return err
		}
		if !out.json {
			printFile(out.output)
		}
	}
	if out.json {
		return pio.WriteJSON(rep, stdout)
	}
	return nil
}
