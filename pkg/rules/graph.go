package rules

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Item identifies an element subject to ordering constraints.
type Item uint64

// String returns the decimal form of the item.
func (it Item) String() string { return strconv.FormatUint(uint64(it), 10) }

// Sequence is an ordered list of items, the unit under test or repair.
type Sequence []Item

// Rule states that Before must occur earlier than After in any sequence
// containing both.
type Rule struct {
	Before Item
	After  Item
}

// String returns the rule in its textual "before|after" form.
func (r Rule) String() string {
	return r.Before.String() + "|" + r.After.String()
}

// Set is an unordered set of items.
type Set map[Item]struct{}

// Has reports whether the item is a member of the set.
func (s Set) Has(it Item) bool {
	_, ok := s[it]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s Set) Sorted() []Item { return slices.Sorted(maps.Keys(s)) }

// Record holds the predecessors and successors of one item, aggregated from
// every rule that mentions it.
type Record struct {
	Predecessors Set
	Successors   Set
}

func newRecord() *Record {
	return &Record{Predecessors: Set{}, Successors: Set{}}
}

// Graph is the aggregate precedence relation.
//
// An item has a record iff it is an endpoint of at least one rule. The zero
// value is not usable; create graphs with [New] or [Build].
type Graph struct {
	records map[Item]*Record
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{records: make(map[Item]*Record)}
}

// AddRule registers before in the predecessors of after and after in the
// successors of before, creating records for either item if absent.
func (g *Graph) AddRule(before, after Item) {
	g.record(before).Successors[after] = struct{}{}
	g.record(after).Predecessors[before] = struct{}{}
}

// AddRuleLine parses line with [ParseRule] and adds the resulting rule.
func (g *Graph) AddRuleLine(line string) error {
	r, err := ParseRule(line)
	if err != nil {
		return err
	}
	g.AddRule(r.Before, r.After)
	return nil
}

func (g *Graph) record(it Item) *Record {
	r, ok := g.records[it]
	if !ok {
		r = newRecord()
		g.records[it] = r
	}
	return r
}

// Lookup returns the record for the item, or false if the item is not an
// endpoint of any rule (it is unconstrained).
// The returned record must be treated as read-only.
func (g *Graph) Lookup(it Item) (*Record, bool) {
	r, ok := g.records[it]
	return r, ok
}

// Len returns the number of items that carry a record.
func (g *Graph) Len() int { return len(g.records) }

// Items returns every item that carries a record, in ascending order.
func (g *Graph) Items() []Item { return slices.Sorted(maps.Keys(g.records)) }

// Rules returns all rules of the graph ordered by (Before, After).
func (g *Graph) Rules() []Rule {
	var out []Rule
	for _, it := range g.Items() {
		for _, succ := range g.records[it].Successors.Sorted() {
			out = append(out, Rule{Before: it, After: succ})
		}
	}
	return out
}

// RuleCount returns the number of distinct rules.
func (g *Graph) RuleCount() int {
	n := 0
	for _, r := range g.records {
		n += len(r.Successors)
	}
	return n
}

// Equal reports whether both graphs hold the same records with the same
// predecessor and successor sets.
func (g *Graph) Equal(other *Graph) bool {
	if len(g.records) != len(other.records) {
		return false
	}
	for it, r := range g.records {
		o, ok := other.records[it]
		if !ok {
			return false
		}
		if !maps.Equal(r.Predecessors, o.Predecessors) || !maps.Equal(r.Successors, o.Successors) {
			return false
		}
	}
	return true
}

// String returns the canonical textual form: one "before|after" line per
// rule, ordered as [Graph.Rules]. Graphs with equal rules have equal strings,
// so the output is suitable for hashing. Items that carry a record but no
// rule (possible in scoped graphs) are not represented.
func (g *Graph) String() string {
	var b strings.Builder
	for _, r := range g.Rules() {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Build creates a graph from textual rule lines.
// Construction stops at the first malformed line; the returned error wraps
// [ErrMalformedRule] and names the 1-based line number. No partial graph is
// returned.
func Build(lines []string) (*Graph, error) {
	g := New()
	for i, line := range lines {
		if err := g.AddRuleLine(line); err != nil {
			return nil, &LineError{Line: i + 1, Err: err}
		}
	}
	return g, nil
}
