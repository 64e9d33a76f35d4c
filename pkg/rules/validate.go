package rules

import "fmt"

// Direction tells which side of a ruled item a violating item sits on.
type Direction int

const (
	// Earlier means the other item precedes the ruled item but is not one of
	// its predecessors.
	Earlier Direction = iota
	// Later means the other item follows the ruled item but is not one of its
	// successors.
	Later
)

func (d Direction) String() string {
	if d == Earlier {
		return "earlier"
	}
	return "later"
}

// Violation describes the first position at which a sequence breaks the
// rules of a graph.
type Violation struct {
	Pos       int  // position of the ruled item
	Item      Item // the ruled item
	OtherPos  int  // position of the offending item
	Other     Item // the offending item
	Direction Direction
}

func (v Violation) String() string {
	if v.Direction == Earlier {
		return fmt.Sprintf("%d at %d is not a predecessor of %d at %d", v.Other, v.OtherPos, v.Item, v.Pos)
	}
	return fmt.Sprintf("%d at %d is not a successor of %d at %d", v.Other, v.OtherPos, v.Item, v.Pos)
}

// IsConsistent reports whether seq respects g.
//
// For each position k holding an item v that has a record in g, every item
// before k must be a predecessor of v and every item after k a successor of v.
// Items without a record are not checked. The cost is O(n²) in the sequence
// length.
func IsConsistent(g *Graph, seq Sequence) bool {
	_, found := FirstViolation(g, seq)
	return !found
}

// FirstViolation returns the first violation found while scanning seq in
// position order, checking earlier items before later ones at each position.
func FirstViolation(g *Graph, seq Sequence) (Violation, bool) {
	for k, v := range seq {
		rec, ok := g.Lookup(v)
		if !ok {
			continue
		}
		for i, other := range seq[:k] {
			if !rec.Predecessors.Has(other) {
				return Violation{Pos: k, Item: v, OtherPos: i, Other: other, Direction: Earlier}, true
			}
		}
		for i, other := range seq[k+1:] {
			if !rec.Successors.Has(other) {
				return Violation{Pos: k, Item: v, OtherPos: k + 1 + i, Other: other, Direction: Later}, true
			}
		}
	}
	return Violation{}, false
}
