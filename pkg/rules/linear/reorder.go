package linear

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/precedence/pkg/rules"
)

var (
	// ErrUnsatisfiable is returned by [Reorder] when every branch from every
	// start item is exhausted without an accepted path.
	ErrUnsatisfiable = errors.New("no rule-consistent permutation found")

	// ErrTooLarge is returned by [Reorder] with [StrategyExhaustive] when the
	// sequence is longer than [MaxExhaustive].
	ErrTooLarge = errors.New("sequence too large for exhaustive search")
)

// errSuperseded stops a branch that can no longer win the fan-out.
var errSuperseded = errors.New("branch superseded")

// Reorder returns a permutation of seq that respects g restricted to the
// items of seq. g is the full, unscoped graph; it is not modified.
//
// An empty sequence yields an empty result. When no permutation is found the
// error wraps [ErrUnsatisfiable]. Cancelling ctx aborts the search with the
// context's error.
func Reorder(ctx context.Context, g *rules.Graph, seq rules.Sequence, opts ...Option) (rules.Sequence, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(seq) == 0 {
		return rules.Sequence{}, nil
	}

	scoped := rules.Restrict(g, rules.ScopeOf(seq))

	if o.strategy == StrategyExhaustive {
		return exhaustive(ctx, scoped, seq)
	}

	s := newSearcher(scoped, len(seq), o)
	for _, start := range s.starts() {
		path, err := s.fromStart(ctx, start)
		if err != nil {
			return nil, err
		}
		if path != nil {
			return path, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsatisfiable, seq)
}

// searcher holds the read-only state shared by all branches of one search.
type searcher struct {
	g      *rules.Graph
	succ   map[rules.Item][]rules.Item // ascending successors per item
	target int
	opts   options
}

func newSearcher(scoped *rules.Graph, target int, o options) *searcher {
	succ := make(map[rules.Item][]rules.Item, scoped.Len())
	for _, it := range scoped.Items() {
		rec, _ := scoped.Lookup(it)
		succ[it] = rec.Successors.Sorted()
	}
	return &searcher{g: scoped, succ: succ, target: target, opts: o}
}

// starts returns the items without predecessors in scope, ascending.
func (s *searcher) starts() []rules.Item {
	var out []rules.Item
	for _, it := range s.g.Items() {
		if rec, _ := s.g.Lookup(it); rec.Predecessors.Len() == 0 {
			out = append(out, it)
		}
	}
	return out
}

// accepts applies the acceptance policy to a complete path.
func (s *searcher) accepts(path rules.Sequence) bool {
	if s.opts.acceptance == AcceptFull {
		return rules.IsConsistent(s.g, path)
	}
	// The last item is not validated; see AcceptPrefix.
	return rules.IsConsistent(s.g, path[:len(path)-1])
}

func (s *searcher) emit(e Event) {
	if s.opts.trace != nil {
		e.Path = slices.Clone(e.Path)
		s.opts.trace(e)
	}
}

// fromStart searches all paths beginning at start. It returns a nil path
// when the start item is exhausted.
func (s *searcher) fromStart(ctx context.Context, start rules.Item) (rules.Sequence, error) {
	root := rules.Sequence{start}
	if s.target == 1 {
		if s.accepts(root) {
			s.emit(Event{State: Accepted, Start: start, Branch: -1, Path: root})
			return root, nil
		}
		s.emit(Event{State: Exhausted, Start: start, Branch: -1, Path: root})
		return nil, nil
	}

	var branches []rules.Item
	for _, next := range s.succ[start] {
		if next != start {
			branches = append(branches, next)
		}
	}

	path, err := s.fanOut(ctx, start, branches)
	if err != nil {
		return nil, err
	}
	if path == nil {
		s.emit(Event{State: Exhausted, Start: start, Branch: -1, Path: root})
	}
	return path, nil
}

// fanOut runs one branch task per direct successor of start and returns the
// path of the winning branch, or nil if every branch was exhausted.
func (s *searcher) fanOut(ctx context.Context, start rules.Item, branches []rules.Item) (rules.Sequence, error) {
	r := &race{winner: s.opts.winner}
	r.best.Store(math.MaxInt64)
	results := make([]rules.Sequence, len(branches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.parallelism)
	for i, next := range branches {
		if r.superseded(i) {
			break
		}
		g.Go(func() error {
			path, err := s.branch(gctx, r, i, start, next)
			if errors.Is(err, errSuperseded) {
				return nil
			}
			if err != nil {
				return err
			}
			if path != nil {
				results[i] = path
				r.won(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := r.best.Load()
	if best == math.MaxInt64 {
		return nil, nil
	}
	return results[best], nil
}

// branch runs the sequential search below start -> next.
func (s *searcher) branch(ctx context.Context, r *race, i int, start, next rules.Item) (rules.Sequence, error) {
	w := &walker{
		s:       s,
		ctx:     ctx,
		halt:    func() bool { return r.superseded(i) },
		path:    make(rules.Sequence, 0, s.target),
		visited: make(rules.Set, s.target),
	}
	w.push(start)
	w.push(next)
	s.emit(Event{State: Extending, Start: start, Branch: i, Path: w.path})

	ok, err := w.walk()
	if err != nil {
		return nil, err
	}
	if !ok {
		s.emit(Event{State: Exhausted, Start: start, Branch: i, Path: rules.Sequence{start, next}})
		return nil, nil
	}
	s.emit(Event{State: Accepted, Start: start, Branch: i, Path: w.path})
	return slices.Clone(w.path), nil
}

// walker owns the partial path of one branch.
type walker struct {
	s       *searcher
	ctx     context.Context
	halt    func() bool
	path    rules.Sequence
	visited rules.Set
}

func (w *walker) push(it rules.Item) {
	w.path = append(w.path, it)
	w.visited[it] = struct{}{}
}

func (w *walker) pop() {
	last := w.path[len(w.path)-1]
	w.path = w.path[:len(w.path)-1]
	delete(w.visited, last)
}

// walk extends the path depth first and reports whether an accepted path
// was reached. On success w.path holds the accepted path.
func (w *walker) walk() (bool, error) {
	if err := w.ctx.Err(); err != nil {
		return false, err
	}
	if w.halt() {
		return false, errSuperseded
	}
	if len(w.path) == w.s.target {
		return w.s.accepts(w.path), nil
	}

	last := w.path[len(w.path)-1]
	for _, next := range w.s.succ[last] {
		if w.visited.Has(next) {
			continue
		}
		w.push(next)
		ok, err := w.walk()
		if err != nil || ok {
			return ok, err
		}
		w.pop()
	}
	return false, nil
}

// race tracks the winning branch of a fan-out.
type race struct {
	winner Winner
	best   atomic.Int64 // winning branch index, MaxInt64 while undecided
}

// won records a successful branch.
func (r *race) won(i int) {
	idx := int64(i)
	if r.winner == WinnerFirst {
		r.best.CompareAndSwap(math.MaxInt64, idx)
		return
	}
	for {
		cur := r.best.Load()
		if cur <= idx || r.best.CompareAndSwap(cur, idx) {
			return
		}
	}
}

// superseded reports whether branch i can no longer win.
func (r *race) superseded(i int) bool {
	best := r.best.Load()
	if r.winner == WinnerFirst {
		return best != math.MaxInt64
	}
	return best < int64(i)
}
