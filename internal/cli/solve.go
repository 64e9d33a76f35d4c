package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// solveCommand creates the solve command, which prints both sums.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		flags searchFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Print the valid and repaired middle-item sums",
		Long: `Solve checks and repairs every sequence and prints two numbers: the sum of the
middle items of the sequences already in order, and the sum of the middle
items of the repaired sequences.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}
			in, err := loadInput(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), flags.noCache, nil)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, err := c.execute(cmd.Context(), runner, in, opts, !plain)
			if err != nil {
				return err
			}

			if plain {
				fmt.Fprintln(stdout, result.ValidSum)
				fmt.Fprintln(stdout, result.RepairedSum)
				return nil
			}
			printSums(result, true, true)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print the two sums only, one per line")

	return cmd
}
