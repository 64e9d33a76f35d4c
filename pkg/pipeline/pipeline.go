// Package pipeline provides the check → repair pipeline shared by the CLI
// and the HTTP API.
//
// By centralizing this logic, both entry points apply the same defaults,
// error policies and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Parse the rule lines into one [rules.Graph]
//  2. Check: Parse each sequence line and classify it with [rules.IsConsistent]
//  3. Repair: Reorder inconsistent sequences with [linear.Reorder] (cached)
//
// The result carries one [SequenceResult] per sequence line and the two sums
// of middle items: over the sequences that were consistent as given, and over
// the repaired ones.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	in, err := io.ImportFile("input.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, in, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.ValidSum, result.RepairedSum)
//
// # Error Policies
//
// A malformed rule line always aborts the run. A malformed sequence line
// aborts it too unless [Options.SkipMalformed] is set, in which case the line
// is recorded with its error and skipped. A sequence that cannot be repaired
// aborts the run unless [Options.KeepGoing] is set; it is then recorded with
// its error and left out of the repaired sum. Errors returned by the pipeline
// carry a code from pkg/errors.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/precedence/pkg/cache"
	"github.com/matzehuels/precedence/pkg/rules"
	"github.com/matzehuels/precedence/pkg/rules/linear"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultAcceptance validates the path without its last item, matching
	// the behaviour of earlier releases.
	DefaultAcceptance = "prefix"

	// DefaultWinner adopts the lowest successful branch, so results are
	// reproducible.
	DefaultWinner = "ordered"

	// DefaultStrategy is the successor-path search.
	DefaultStrategy = "search"

	// DefaultTimeout bounds the repair of a single sequence.
	DefaultTimeout = 30 * time.Second
)

// ValidAcceptances is the set of supported acceptance policies.
var ValidAcceptances = map[string]bool{
	"prefix": true,
	"full":   true,
}

// ValidWinners is the set of supported winner policies.
var ValidWinners = map[string]bool{
	"ordered": true,
	"first":   true,
}

// ValidStrategies is the set of supported search strategies.
var ValidStrategies = map[string]bool{
	"search":     true,
	"exhaustive": true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Search options
	Acceptance  string        `json:"acceptance,omitempty"`
	Winner      string        `json:"winner,omitempty"`
	Strategy    string        `json:"strategy,omitempty"`
	Parallelism int           `json:"parallelism,omitempty"` // 0 = GOMAXPROCS
	Timeout     time.Duration `json:"timeout,omitempty"`     // per sequence

	// Error policies
	KeepGoing     bool `json:"keep_going,omitempty"`
	SkipMalformed bool `json:"skip_malformed,omitempty"`

	// Refresh ignores cached repairs (results are still written).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the rule graph built from the rule lines.
	Graph *rules.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Sequences holds one entry per sequence line, in input order.
	Sequences []SequenceResult

	// ValidSum is the sum of the middle items of consistent sequences.
	ValidSum uint64

	// RepairedSum is the sum of the middle items of repaired sequences.
	RepairedSum uint64

	// Stats contains timing and size information.
	Stats Stats
}

// SequenceResult is the outcome for one sequence line.
type SequenceResult struct {
	Line       int
	Input      rules.Sequence
	Consistent bool

	// Violation is the first rule broken by Input; nil when consistent.
	Violation *rules.Violation

	// Repaired is the reordered sequence; nil when consistent or failed.
	Repaired rules.Sequence

	// Middle is the middle item of Input (consistent) or Repaired.
	Middle    rules.Item
	HasMiddle bool

	// Cached reports whether Repaired came from the cache.
	Cached bool

	// Err is set when the line was skipped or could not be repaired.
	Err error
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rules      int
	Items      int
	Sequences  int
	Valid      int
	Repaired   int
	Failed     int
	Skipped    int
	CacheHits  int
	BuildTime  time.Duration
	CheckTime  time.Duration
	RepairTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateAcceptance checks that an acceptance policy is valid.
func ValidateAcceptance(s string) error {
	if !ValidAcceptances[s] {
		return fmt.Errorf("invalid acceptance: %q (must be one of: prefix, full)", s)
	}
	return nil
}

// ValidateWinner checks that a winner policy is valid.
func ValidateWinner(s string) error {
	if !ValidWinners[s] {
		return fmt.Errorf("invalid winner: %q (must be one of: ordered, first)", s)
	}
	return nil
}

// ValidateStrategy checks that a strategy is valid.
func ValidateStrategy(s string) error {
	if !ValidStrategies[s] {
		return fmt.Errorf("invalid strategy: %q (must be one of: search, exhaustive)", s)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the options.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills empty fields with their default values.
func (o *Options) SetDefaults() {
	if o.Acceptance == "" {
		o.Acceptance = DefaultAcceptance
	}
	if o.Winner == "" {
		o.Winner = DefaultWinner
	}
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every option value.
func (o *Options) Validate() error {
	if err := ValidateAcceptance(o.Acceptance); err != nil {
		return err
	}
	if err := ValidateWinner(o.Winner); err != nil {
		return err
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if o.Parallelism < 0 {
		return fmt.Errorf("invalid parallelism: %d (must be >= 0)", o.Parallelism)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s (must be >= 0)", o.Timeout)
	}
	return nil
}

// LinearOptions converts the search options for [linear.Reorder].
// The options must have been validated.
func (o *Options) LinearOptions() []linear.Option {
	a, _ := linear.ParseAcceptance(o.Acceptance)
	w, _ := linear.ParseWinner(o.Winner)
	s, _ := linear.ParseStrategy(o.Strategy)
	opts := []linear.Option{
		linear.WithAcceptance(a),
		linear.WithWinner(w),
		linear.WithStrategy(s),
	}
	if o.Parallelism > 0 {
		opts = append(opts, linear.WithParallelism(o.Parallelism))
	}
	return opts
}

// ReorderKeyOpts returns cache key options for repair results.
func (o *Options) ReorderKeyOpts() cache.ReorderKeyOpts {
	return cache.ReorderKeyOpts{
		Acceptance: o.Acceptance,
		Winner:     o.Winner,
		Strategy:   o.Strategy,
	}
}
