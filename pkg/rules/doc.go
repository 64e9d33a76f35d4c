// Package rules provides the precedence rule graph used to check and repair
// item sequences.
//
// # Overview
//
// A precedence rule "A|B" states that item A must appear before item B in any
// sequence that contains both. The rules are aggregated into a [Graph] that
// maps every item mentioned by at least one rule to a [Record] holding its
// predecessor and successor sets.
//
// # Building
//
// Rules are usually loaded from text lines with [Build], which aborts on the
// first malformed line:
//
//	g, err := rules.Build([]string{"47|53", "97|13", "97|61"})
//	if err != nil {
//	    // errors.Is(err, rules.ErrMalformedRule)
//	}
//
// Programmatic construction uses [New] and [Graph.AddRule]. Once a graph has
// been handed to validation or search it must not be modified; all read
// methods are then safe for concurrent use.
//
// # Validation
//
// [IsConsistent] checks a sequence from the perspective of items that carry
// rules: for an item with a record, every earlier item must be one of its
// predecessors and every later item one of its successors. Items without a
// record impose no constraint, even on neighbours that do have rules.
// [FirstViolation] reports where a sequence first breaks that contract.
//
// # Scoping
//
// [Restrict] derives a new graph limited to the items of one sequence (see
// [ScopeOf]). Relations to items outside the scope are dropped in both
// directions. The source graph is never modified.
package rules
