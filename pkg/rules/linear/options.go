package linear

import (
	"fmt"
	"runtime"

	"github.com/matzehuels/precedence/pkg/rules"
)

// Acceptance selects how a complete path is validated.
type Acceptance int

const (
	// AcceptPrefix validates the path without its last item.
	AcceptPrefix Acceptance = iota
	// AcceptFull validates the complete path.
	AcceptFull
)

// Winner selects which successful branch of the fan-out is adopted.
type Winner int

const (
	// WinnerOrdered adopts the successful branch with the lowest index.
	WinnerOrdered Winner = iota
	// WinnerFirst adopts the first branch to report success.
	WinnerFirst
)

// Strategy selects the search algorithm.
type Strategy int

const (
	// StrategySearch is the successor-path search with one level of fan-out.
	StrategySearch Strategy = iota
	// StrategyExhaustive enumerates permutations of the sequence.
	StrategyExhaustive
)

var (
	acceptanceNames = map[Acceptance]string{AcceptPrefix: "prefix", AcceptFull: "full"}
	winnerNames     = map[Winner]string{WinnerOrdered: "ordered", WinnerFirst: "first"}
	strategyNames   = map[Strategy]string{StrategySearch: "search", StrategyExhaustive: "exhaustive"}
)

func (a Acceptance) String() string { return acceptanceNames[a] }
func (w Winner) String() string     { return winnerNames[w] }
func (s Strategy) String() string   { return strategyNames[s] }

// ParseAcceptance parses "prefix" or "full".
func ParseAcceptance(s string) (Acceptance, error) { return parseName(acceptanceNames, "acceptance", s) }

// ParseWinner parses "ordered" or "first".
func ParseWinner(s string) (Winner, error) { return parseName(winnerNames, "winner", s) }

// ParseStrategy parses "search" or "exhaustive".
func ParseStrategy(s string) (Strategy, error) { return parseName(strategyNames, "strategy", s) }

func parseName[T comparable](names map[T]string, kind, s string) (T, error) {
	for v, name := range names {
		if name == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}

// State is the state of a search path.
type State int

const (
	// Extending means the path is still growing.
	Extending State = iota
	// Accepted means the path was accepted as the result.
	Accepted
	// Exhausted means no eligible successor remained.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Extending:
		return "extending"
	case Accepted:
		return "accepted"
	default:
		return "exhausted"
	}
}

// Event is reported to the trace hook at branch boundaries.
// Branch is -1 for events that concern a whole start item.
type Event struct {
	State  State
	Start  rules.Item
	Branch int
	Path   rules.Sequence
}

// Option configures [Reorder].
type Option func(*options)

type options struct {
	acceptance  Acceptance
	winner      Winner
	strategy    Strategy
	parallelism int
	trace       func(Event)
}

func defaultOptions() options {
	return options{parallelism: runtime.GOMAXPROCS(0)}
}

// WithAcceptance sets the acceptance policy. The default is [AcceptPrefix].
func WithAcceptance(a Acceptance) Option {
	return func(o *options) { o.acceptance = a }
}

// WithWinner sets the fan-out winner policy. The default is [WinnerOrdered].
func WithWinner(w Winner) Option {
	return func(o *options) { o.winner = w }
}

// WithStrategy sets the search strategy. The default is [StrategySearch].
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithParallelism bounds the number of concurrently running branches.
// Values below 1 are ignored.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithTrace installs a hook that receives search events. The hook may be
// called from several goroutines at once.
func WithTrace(fn func(Event)) Option {
	return func(o *options) { o.trace = fn }
}
