package cache

import "github.com/matzehuels/precedence/pkg/rules"

// ScopedKeyer wraps a Keyer with a prefix so that several front ends can
// share one backend without reading each other's entries.
//
// Example usage:
//
//	// Keys written by the HTTP server
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
//
//	// Keys written by the CLI
//	cliKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ReorderKey generates a prefixed key for a repair result.
func (k *ScopedKeyer) ReorderKey(graphHash string, seq rules.Sequence, opts ReorderKeyOpts) string {
	return k.prefix + k.inner.ReorderKey(graphHash, seq, opts)
}

// ReportKey generates a prefixed key for a full report.
func (k *ScopedKeyer) ReportKey(inputHash string, opts ReorderKeyOpts) string {
	return k.prefix + k.inner.ReportKey(inputHash, opts)
}
