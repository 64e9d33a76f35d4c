// Package linear repairs sequences that break a precedence rule graph by
// searching for a permutation of their items that respects the rules.
//
// # Search
//
// [Reorder] first restricts the graph to the items of the sequence (see
// [rules.Restrict]) and then runs a depth-first path extension from a start
// item, an item with no predecessors in scope. Start items are tried in
// ascending order. At each step the path is extended with an unvisited
// successor of its last item, smallest first. A path that holds as many items
// as the sequence is accepted according to the [Acceptance] policy:
//
//   - [AcceptPrefix] validates the path without its last item and appends the
//     last item unconditionally. This is the historical behaviour and the
//     default; a result may therefore fail [rules.IsConsistent] at its final
//     position.
//   - [AcceptFull] validates the complete path.
//
// The direct successors of the start item are explored concurrently, one
// branch task per successor, bounded by [WithParallelism]. Everything below a
// branch is sequential and stops at the first accepted path. Under
// [WinnerOrdered] the successful branch with the lowest index wins, so the
// result equals a sequential search and is reproducible. Under [WinnerFirst]
// the first branch to succeed wins. Branches that can no longer win stop
// cooperatively; Reorder returns only after every branch has exited.
//
// When no path is accepted from any start item the error wraps
// [ErrUnsatisfiable].
//
// # Exhaustive strategy
//
// [StrategyExhaustive] enumerates permutations of the sequence with Heap's
// algorithm and returns the first one that passes [rules.IsConsistent] on the
// scoped graph. It is complete but factorial, so it is limited to
// [MaxExhaustive] items.
//
// # Example
//
//	g, _ := rules.Build([]string{"1|2", "1|3", "2|3"})
//	fixed, err := linear.Reorder(ctx, g, rules.Sequence{2, 1, 3})
//	// fixed == [1 2 3]
package linear
