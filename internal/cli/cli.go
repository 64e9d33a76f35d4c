// Package cli implements the precedence command-line interface.
//
// The commands read an input file made of "X|Y" rule lines, an empty line,
// and comma-separated sequence lines, and report which sequences respect the
// rules and how the others are repaired.
//
// # Commands
//
//   - check: classify every sequence and sum the middle items of valid ones
//   - repair: reorder the invalid sequences and sum their middle items
//   - solve: print both sums
//   - graph: draw the rule graph, optionally scoped to one sequence
//   - inspect: browse the results interactively
//   - serve: run the HTTP API
//   - cache: manage the repair cache
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/precedence/config.toml when it
// exists; --config names another file. Flags override the file.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/precedence/pkg/buildinfo"
	"github.com/matzehuels/precedence/pkg/cache"
	"github.com/matzehuels/precedence/pkg/errors"
	pio "github.com/matzehuels/precedence/pkg/io"
	"github.com/matzehuels/precedence/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "precedence"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: &Config{Cache: CacheConfig{Backend: backendFile}},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Precedence checks and repairs sequences against ordering rules",
		Long: `Precedence reads pairwise ordering rules ("X|Y": X must come before Y) and
sequences of items, reports which sequences respect the rules, and reorders
the ones that do not.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.readConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/precedence/config.toml)")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.repairCommand())
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) readConfig(cmd *cobra.Command, args []string) error {
	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return nil
		}
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.TTL = c.config.Cache.TTL
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.config.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{URL: c.config.Cache.RedisURL})
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/precedence/).
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input
// =============================================================================

// loadInput reads an input file; "-" reads standard input.
func loadInput(path string) (*pio.Input, error) {
	if path != "-" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "%s not found", path)
		}
	}
	in, err := pio.ImportFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	if len(in.Rules) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s has no rules", path)
	}
	return in, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// searchFlags are the repair flags shared by repair, solve, inspect and serve.
// Zero values fall back to the config file, then to pipeline defaults.
type searchFlags struct {
	acceptance    string
	winner        string
	strategy      string
	parallelism   int
	timeout       string
	keepGoing     bool
	skipMalformed bool
	refresh       bool
	noCache       bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.acceptance, "acceptance", "", "acceptance policy: prefix (default), full")
	cmd.Flags().StringVar(&f.winner, "winner", "", "winner policy: ordered (default), first")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "search strategy: search (default), exhaustive")
	cmd.Flags().IntVarP(&f.parallelism, "parallelism", "j", 0, "concurrent branches per search (default GOMAXPROCS)")
	cmd.Flags().StringVar(&f.timeout, "timeout", "", "time limit per sequence, e.g. 10s (default 30s)")
	cmd.Flags().BoolVarP(&f.keepGoing, "keep-going", "k", false, "record unrepairable sequences instead of failing")
	cmd.Flags().BoolVar(&f.skipMalformed, "skip-malformed", false, "skip malformed sequence lines instead of failing")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached repairs")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the repair cache")
}

// options merges the flags over the config file and validates the result.
func (c *CLI) options(f *searchFlags) (pipeline.Options, error) {
	s := c.config.Search
	opts := pipeline.Options{
		Acceptance:    firstNonEmpty(f.acceptance, s.Acceptance),
		Winner:        firstNonEmpty(f.winner, s.Winner),
		Strategy:      firstNonEmpty(f.strategy, s.Strategy),
		Parallelism:   s.Parallelism,
		Timeout:       s.Timeout,
		KeepGoing:     f.keepGoing || c.config.Input.KeepGoing,
		SkipMalformed: f.skipMalformed || c.config.Input.SkipMalformed,
		Refresh:       f.refresh,
		Logger:        c.Logger,
	}
	if f.parallelism != 0 {
		opts.Parallelism = f.parallelism
	}
	if f.timeout != "" {
		d, err := parseDuration(f.timeout)
		if err != nil {
			return opts, err
		}
		opts.Timeout = d
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	return opts, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseDuration(s string) (d time.Duration, err error) {
	if d, err = time.ParseDuration(s); err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid timeout: %q (want a positive duration such as 10s)", s)
	}
	return d, nil
}
