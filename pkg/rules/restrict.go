package rules

// Scope is the set of items present in one sequence.
type Scope = Set

// ScopeOf returns the set of items in seq.
func ScopeOf(seq Sequence) Scope {
	s := make(Scope, len(seq))
	for _, it := range seq {
		s[it] = struct{}{}
	}
	return s
}

// Restrict returns a new graph holding only the records of items in scope,
// with every predecessor and successor set intersected with scope.
//
// Items in scope that have no record in g get no record in the result.
// Items in scope whose every rule points outside the scope keep an empty
// record. g is not modified.
func Restrict(g *Graph, scope Scope) *Graph {
	out := &Graph{records: make(map[Item]*Record, len(scope))}
	for it := range scope {
		rec, ok := g.records[it]
		if !ok {
			continue
		}
		out.records[it] = &Record{
			Predecessors: intersect(rec.Predecessors, scope),
			Successors:   intersect(rec.Successors, scope),
		}
	}
	return out
}

func intersect(s, scope Set) Set {
	out := make(Set)
	for it := range s {
		if scope.Has(it) {
			out[it] = struct{}{}
		}
	}
	return out
}
