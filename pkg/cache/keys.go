package cache

import (
	"github.com/matzehuels/precedence/pkg/rules"
)

// Keyer derives cache keys.
type Keyer interface {
	// ReorderKey identifies the repair of seq against the graph with the
	// given content hash.
	ReorderKey(graphHash string, seq rules.Sequence, opts ReorderKeyOpts) string

	// ReportKey identifies the full report for an input with the given hash.
	ReportKey(inputHash string, opts ReorderKeyOpts) string
}

// ReorderKeyOpts holds the search options that change a repair result.
// Parallelism is left out: with the ordered winner policy it does not affect
// the outcome.
type ReorderKeyOpts struct {
	Acceptance string `json:"acceptance"`
	Winner     string `json:"winner"`
	Strategy   string `json:"strategy"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReorderKey implements [Keyer].
func (DefaultKeyer) ReorderKey(graphHash string, seq rules.Sequence, opts ReorderKeyOpts) string {
	return hashKey("reorder", graphHash, seq.String(), opts)
}

// ReportKey implements [Keyer].
func (DefaultKeyer) ReportKey(inputHash string, opts ReorderKeyOpts) string {
	return hashKey("report", inputHash, opts)
}

// GraphHash returns the content hash of g. Graphs with the same rules hash
// equally regardless of the order the rules were added in.
func GraphHash(g *rules.Graph) string {
	return Hash([]byte(g.String()))
}
