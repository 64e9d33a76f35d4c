package linear

import (
	"context"
	"fmt"
	"iter"

	"github.com/matzehuels/precedence/pkg/rules"
)

// MaxExhaustive is the longest sequence accepted by [StrategyExhaustive].
// 8! = 40320 permutations.
const MaxExhaustive = 8

// Permutations yields every permutation of [0, 1, ..., n-1] using Heap's
// algorithm, starting with the identity. The yielded slice is reused between
// iterations; clone it to keep it.
//
// For n <= 0 a single empty permutation is yielded.
func Permutations(n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		perm := make([]int, max(n, 0))
		for i := range perm {
			perm[i] = i
		}
		if !yield(perm) {
			return
		}

		state := make([]int, len(perm))
		for i := 0; i < len(perm); {
			if state[i] < i {
				if i&1 == 0 {
					perm[0], perm[i] = perm[i], perm[0]
				} else {
					perm[state[i]], perm[i] = perm[i], perm[state[i]]
				}
				if !yield(perm) {
					return
				}
				state[i]++
				i = 0
			} else {
				state[i] = 0
				i++
			}
		}
	}
}

// exhaustive returns the first permutation of seq, in Heap order, that is
// consistent with the scoped graph. The full permutation is validated.
func exhaustive(ctx context.Context, scoped *rules.Graph, seq rules.Sequence) (rules.Sequence, error) {
	if len(seq) > MaxExhaustive {
		return nil, fmt.Errorf("%w: %d items, limit %d", ErrTooLarge, len(seq), MaxExhaustive)
	}

	candidate := make(rules.Sequence, len(seq))
	for perm := range Permutations(len(seq)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i, idx := range perm {
			candidate[i] = seq[idx]
		}
		if rules.IsConsistent(scoped, candidate) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsatisfiable, seq)
}
