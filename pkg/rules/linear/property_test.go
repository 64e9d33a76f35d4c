package linear

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/precedence/pkg/rules"
)

// totalOrder returns n distinct items in a random order together with a graph
// holding one rule for every ordered pair.
func totalOrder(seed int64, n int) (rules.Sequence, *rules.Graph) {
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	order := make(rules.Sequence, n)
	for i, v := range rng.Perm(n) {
		order[i] = rules.Item(10 + v*7)
	}
	g := rules.New()
	for i := range order {
		for _, after := range order[i+1:] {
			g.AddRule(order[i], after)
		}
	}
	return order, g
}

// sparse returns a random graph over the items 1..universe and a shuffled
// sequence of n distinct items drawn from it.
func sparse(seed int64, universe, n, edges int) (rules.Sequence, *rules.Graph) {
	rng := rand.New(rand.NewPCG(uint64(seed), 1))
	g := rules.New()
	for range edges {
		a := rules.Item(1 + rng.IntN(universe))
		b := rules.Item(1 + rng.IntN(universe))
		if a != b {
			g.AddRule(a, b)
		}
	}
	seq := make(rules.Sequence, 0, n)
	for _, v := range rng.Perm(universe)[:n] {
		seq = append(seq, rules.Item(1+v))
	}
	return seq, g
}

func shuffled(seed int64, seq rules.Sequence) rules.Sequence {
	rng := rand.New(rand.NewPCG(uint64(seed), 2))
	out := slices.Clone(seq)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func sameItems(a, b rules.Sequence) bool {
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

func TestPropertyTotalOrderRecovered(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("a fully ruled sequence has exactly one repair", prop.ForAll(
		func(seed int64, n int) bool {
			order, g := totalOrder(seed, n)
			seq := shuffled(seed, order)
			for _, a := range []Acceptance{AcceptPrefix, AcceptFull} {
				got, err := Reorder(context.Background(), g, seq, WithAcceptance(a))
				if err != nil || !slices.Equal(got, order) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 9),
	))

	properties.TestingRun(t)
}

func TestPropertyFullAcceptanceIsConsistent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("full acceptance yields consistent permutations", prop.ForAll(
		func(seed int64, n, edges int) bool {
			seq, g := sparse(seed, 8, n, edges)
			got, err := Reorder(context.Background(), g, seq, WithAcceptance(AcceptFull))
			if errors.Is(err, ErrUnsatisfiable) {
				return true
			}
			if err != nil {
				return false
			}
			scoped := rules.Restrict(g, rules.ScopeOf(seq))
			return sameItems(got, seq) && rules.IsConsistent(scoped, got)
		},
		gen.Int64(),
		gen.IntRange(1, 6),
		gen.IntRange(0, 40),
	))

	properties.Property("prefix acceptance yields consistent prefixes", prop.ForAll(
		func(seed int64, n, edges int) bool {
			seq, g := sparse(seed, 8, n, edges)
			got, err := Reorder(context.Background(), g, seq)
			if errors.Is(err, ErrUnsatisfiable) {
				return true
			}
			if err != nil {
				return false
			}
			scoped := rules.Restrict(g, rules.ScopeOf(seq))
			return sameItems(got, seq) && rules.IsConsistent(scoped, got[:len(got)-1])
		},
		gen.Int64(),
		gen.IntRange(1, 6),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestPropertyExhaustiveIsOracle(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("search never succeeds where exhaustive fails", prop.ForAll(
		func(seed int64, n, edges int) bool {
			seq, g := sparse(seed, 7, n, edges)
			_, exErr := Reorder(context.Background(), g, seq, WithStrategy(StrategyExhaustive))
			_, err := Reorder(context.Background(), g, seq, WithAcceptance(AcceptFull))
			if errors.Is(exErr, ErrUnsatisfiable) {
				return errors.Is(err, ErrUnsatisfiable)
			}
			return exErr == nil
		},
		gen.Int64(),
		gen.IntRange(1, 6),
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}

func TestPropertyWinnerPoliciesAgreeOnSatisfiability(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ordered equals a sequential search", prop.ForAll(
		func(seed int64, n, edges int) bool {
			seq, g := sparse(seed, 8, n, edges)
			seqGot, seqErr := Reorder(context.Background(), g, seq, WithParallelism(1))
			parGot, parErr := Reorder(context.Background(), g, seq, WithParallelism(8))
			firstGot, firstErr := Reorder(context.Background(), g, seq, WithWinner(WinnerFirst), WithParallelism(8))
			if (seqErr == nil) != (parErr == nil) || (seqErr == nil) != (firstErr == nil) {
				return false
			}
			if seqErr != nil {
				return true
			}
			return slices.Equal(seqGot, parGot) && sameItems(firstGot, seq)
		},
		gen.Int64(),
		gen.IntRange(1, 6),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestPropertyRestrictIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("restricting twice equals restricting once", prop.ForAll(
		func(seed int64, n, edges int) bool {
			seq, g := sparse(seed, 10, n, edges)
			scope := rules.ScopeOf(seq)
			once := rules.Restrict(g, scope)
			return rules.Restrict(once, scope).Equal(once)
		},
		gen.Int64(),
		gen.IntRange(0, 10),
		gen.IntRange(0, 60),
	))

	properties.TestingRun(t)
}
