package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/precedence/internal/server"
	"github.com/matzehuels/precedence/pkg/cache"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags        searchFlags
		addr         string
		root         string
		maxRules     int
		maxSequences int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes check, reorder and graph over HTTP until interrupted.

Search flags set the defaults for requests that leave an option empty. The
repair cache is shared with the command line; entries written by the server
live under their own prefix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(&flags)
			if err != nil {
				return err
			}

			cfg := server.Config{
				Addr:         firstNonEmpty(addr, c.config.Server.Addr),
				Root:         firstNonEmpty(root, c.config.Server.Root),
				MaxRules:     c.config.Server.MaxRules,
				MaxSequences: c.config.Server.MaxSequences,
				Defaults:     opts,
			}
			if maxRules != 0 {
				cfg.MaxRules = maxRules
			}
			if maxSequences != 0 {
				cfg.MaxSequences = maxSequences
			}

			runner, err := c.newRunner(cmd.Context(), flags.noCache, cache.NewScopedKeyer(nil, "api:"))
			if err != nil {
				return err
			}
			defer runner.Close()

			if cfg.Root != "" {
				printInfo("Serving input files below %s", cfg.Root)
			}
			return server.New(cfg, runner, c.Logger).Run(cmd.Context())
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&root, "root", "", "directory that /v1/check may read input files from")
	cmd.Flags().IntVar(&maxRules, "max-rules", 0, "maximum rules per request")
	cmd.Flags().IntVar(&maxSequences, "max-sequences", 0, "maximum sequences per request")

	return cmd
}
