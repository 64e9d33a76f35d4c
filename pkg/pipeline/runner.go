package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/precedence/pkg/cache"
	"github.com/matzehuels/precedence/pkg/errors"
	"github.com/matzehuels/precedence/pkg/io"
	"github.com/matzehuels/precedence/pkg/observability"
	"github.com/matzehuels/precedence/pkg/rules"
	"github.com/matzehuels/precedence/pkg/rules/linear"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached repairs; 0 means cache.DefaultTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → check → repair pipeline.
func (r *Runner) Execute(ctx context.Context, in *io.Input, opts Options) (*Result, error) {
	return r.run(ctx, in, opts, true)
}

// Check runs the build and check stages only. Inconsistent sequences are
// reported with their violation and left unrepaired; RepairedSum stays 0.
func (r *Runner) Check(ctx context.Context, in *io.Input, opts Options) (*Result, error) {
	return r.run(ctx, in, opts, false)
}

func (r *Runner) run(ctx context.Context, in *io.Input, opts Options, repair bool) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(in.Rules))
	g, err := BuildGraph(in)
	result.Stats.BuildTime = time.Since(buildStart)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, 0, 0, result.Stats.BuildTime, err)
		return nil, err
	}
	result.Graph = g
	result.GraphHash = cache.GraphHash(g)
	result.Stats.Rules = g.RuleCount()
	result.Stats.Items = g.Len()
	observability.Pipeline().OnBuildComplete(ctx, g.Len(), g.RuleCount(), result.Stats.BuildTime, nil)

	r.Logger.Info("built rule graph",
		"rules", result.Stats.Rules,
		"items", result.Stats.Items,
		"duration", result.Stats.BuildTime)

	// Stages 2 and 3: Check, then repair what failed the check
	for _, l := range in.Sequences {
		if err := ctx.Err(); err != nil {
			return nil, repairError(err, l.No)
		}
		sr, err := r.process(ctx, g, result.GraphHash, l, &opts, &result.Stats, repair)
		if err != nil {
			return nil, err
		}
		result.Sequences = append(result.Sequences, sr)

		switch {
		case sr.Consistent && sr.HasMiddle:
			result.ValidSum += uint64(sr.Middle)
		case sr.Repaired != nil && sr.HasMiddle:
			result.RepairedSum += uint64(sr.Middle)
		}
	}
	result.Stats.Sequences = len(in.Sequences)

	r.Logger.Info("checked sequences",
		"sequences", result.Stats.Sequences,
		"valid", result.Stats.Valid,
		"repaired", result.Stats.Repaired,
		"failed", result.Stats.Failed,
		"skipped", result.Stats.Skipped,
		"duration", result.Stats.CheckTime+result.Stats.RepairTime)

	return result, nil
}

// process checks one sequence line and repairs it when needed. A returned
// error aborts the run; recoverable failures are recorded on the result.
func (r *Runner) process(ctx context.Context, g *rules.Graph, graphHash string, l io.Line, opts *Options, stats *Stats, repair bool) (SequenceResult, error) {
	sr := SequenceResult{Line: l.No}

	seq, err := ParseSequenceLine(l)
	if err != nil {
		if !opts.SkipMalformed {
			return sr, err
		}
		r.Logger.Warn("skipping malformed sequence", "line", l.No, "err", err)
		sr.Err = err
		stats.Skipped++
		return sr, nil
	}
	sr.Input = seq

	checkStart := time.Now()
	v, found := rules.FirstViolation(g, seq)
	stats.CheckTime += time.Since(checkStart)
	observability.Pipeline().OnCheck(ctx, l.No, !found)

	if !found {
		sr.Consistent = true
		sr.Middle, sr.HasMiddle = seq.Middle()
		stats.Valid++
		return sr, nil
	}
	sr.Violation = &v
	r.Logger.Debug("sequence breaks rules", "line", l.No, "violation", v.String())
	if !repair {
		return sr, nil
	}

	repairStart := time.Now()
	repaired, cached, err := r.Repair(ctx, g, graphHash, seq, *opts)
	stats.RepairTime += time.Since(repairStart)
	if cached {
		stats.CacheHits++
	}
	if err != nil {
		err = repairError(err, l.No)
		if errors.Is(err, errors.ErrCodeCanceled) || !opts.KeepGoing {
			return sr, err
		}
		r.Logger.Warn("cannot repair sequence", "line", l.No, "err", err)
		sr.Err = err
		stats.Failed++
		return sr, nil
	}

	sr.Repaired = repaired
	sr.Cached = cached
	sr.Middle, sr.HasMiddle = repaired.Middle()
	stats.Repaired++
	return sr, nil
}

// repairEntry is the cached outcome of one repair. Unsatisfiable outcomes
// are cached too, since they cost a full search.
type repairEntry struct {
	Path          rules.Sequence `json:"path,omitempty"`
	Unsatisfiable bool           `json:"unsatisfiable,omitempty"`
}

// Repair reorders seq against g with caching. graphHash must be the hash of
// g as computed by [cache.GraphHash]; pass "" to have it computed. It reports
// whether the outcome came from the cache.
func (r *Runner) Repair(ctx context.Context, g *rules.Graph, graphHash string, seq rules.Sequence, opts Options) (rules.Sequence, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if graphHash == "" {
		graphHash = cache.GraphHash(g)
	}
	key := r.Keyer.ReorderKey(graphHash, seq, opts.ReorderKeyOpts())

	if !opts.Refresh {
		if entry, ok := r.lookup(ctx, key); ok {
			if entry.Unsatisfiable {
				return nil, true, fmt.Errorf("%w: %s", linear.ErrUnsatisfiable, seq)
			}
			return entry.Path, true, nil
		}
	}

	searchCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	lopts := opts.LinearOptions()
	if r.Logger.GetLevel() <= log.DebugLevel {
		lopts = append(lopts, linear.WithTrace(r.trace))
	}

	observability.Pipeline().OnRepairStart(ctx, len(seq))
	start := time.Now()
	path, err := linear.Reorder(searchCtx, g, seq, lopts...)
	observability.Pipeline().OnRepairComplete(ctx, len(seq), time.Since(start), err)

	switch {
	case err == nil:
		r.store(ctx, key, repairEntry{Path: path})
	case stderrors.Is(err, linear.ErrUnsatisfiable):
		r.store(ctx, key, repairEntry{Unsatisfiable: true})
	}
	return path, false, err
}

func (r *Runner) lookup(ctx context.Context, key string) (repairEntry, bool) {
	var entry repairEntry
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return entry, false
	}
	if !hit || json.Unmarshal(data, &entry) != nil {
		observability.Cache().OnCacheMiss(ctx, "reorder")
		return entry, false
	}
	observability.Cache().OnCacheHit(ctx, "reorder")
	return entry, true
}

func (r *Runner) store(ctx context.Context, key string, entry repairEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "reorder", len(data))
}

func (r *Runner) trace(e linear.Event) {
	r.Logger.Debug("search",
		"state", e.State.String(),
		"start", e.Start,
		"branch", e.Branch,
		"path", e.Path.String())
}

// repairError attaches an error code to a failed repair.
func repairError(err error, line int) error {
	switch {
	case stderrors.Is(err, linear.ErrUnsatisfiable):
		return errors.Wrap(errors.ErrCodeUnsatisfiable, err, "line %d", line)
	case stderrors.Is(err, linear.ErrTooLarge):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "line %d: search timed out", line)
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(errors.ErrCodeCanceled, err, "line %d", line)
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "line %d", line)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
