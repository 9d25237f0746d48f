// Package search implements hybrid retrieval: local predicate queries over
// the store, a fallback policy deciding when to reach out to external
// discovery, and the orchestrator combining both result sets.
package search

import "github.com/postroom/editorsearch/internal/model"

// DefaultFallbackMinResults is the local hit count below which a free-text
// query triggers discovery.
const DefaultFallbackMinResults = 2

// FallbackPolicy decides whether a local result set is insufficient and
// external discovery should run.
type FallbackPolicy struct {
	MinResults int
}

// NewFallbackPolicy creates a policy; a non-positive minimum falls back to
// the default.
func NewFallbackPolicy(minResults int) FallbackPolicy {
	if minResults <= 0 {
		minResults = DefaultFallbackMinResults
	}
	return FallbackPolicy{MinResults: minResults}
}

// ShouldDiscover reports whether discovery should run for the given local
// hit count and filter. Zero hits trigger discovery for any non-empty
// filter; below-minimum hits trigger it only when free text is present,
// since structured-only filters have exact local answers.
func (p FallbackPolicy) ShouldDiscover(localCount int, f model.SearchFilter) bool {
	if localCount == 0 && (f.HasText() || f.HasConstraints()) {
		return true
	}
	return localCount < p.MinResults && f.HasText()
}
