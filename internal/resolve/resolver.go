package resolve

import (
	"github.com/postroom/editorsearch/internal/model"
)

// DefaultFuzzyThreshold tolerates minor transliteration and typo variance
// while rejecting distinct-but-similar names.
const DefaultFuzzyThreshold = 0.8

// Resolver matches candidates against the existing record set.
type Resolver struct {
	threshold float64
}

// NewResolver creates a Resolver with the given fuzzy-match threshold.
// A non-positive threshold falls back to the default.
func NewResolver(threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Resolver{threshold: threshold}
}

// Resolve classifies a candidate against the existing records.
//
// Normalized-name equality wins outright as an exact match. Otherwise the
// candidate is compared against every record by similarity; the maximum at
// or above the threshold yields a fuzzy match. Ties on equal scores prefer
// the most recently updated record. The linear scan is a documented scaling
// limit, acceptable for directory-sized record sets.
func (r *Resolver) Resolve(cand model.Candidate, existing []model.Editor) model.MatchResult {
	normCand := NormalizeName(cand.RawName)
	if normCand == "" {
		return model.MatchResult{Kind: model.MatchNone}
	}

	var (
		exact     *model.Editor
		fuzzyBest *model.Editor
		bestScore float64
	)

	for i := range existing {
		e := &existing[i]
		normName := NormalizeName(e.Name)
		if normName == normCand {
			if exact == nil || e.UpdatedAt.After(exact.UpdatedAt) {
				exact = e
			}
			continue
		}
		if exact != nil {
			continue
		}

		score := Similarity(normCand, normName)
		switch {
		case score > bestScore:
			bestScore = score
			fuzzyBest = e
		case score == bestScore && fuzzyBest != nil && e.UpdatedAt.After(fuzzyBest.UpdatedAt):
			fuzzyBest = e
		}
	}

	if exact != nil {
		return model.MatchResult{Kind: model.MatchExact, EditorID: exact.ID, Score: 1.0}
	}
	if fuzzyBest != nil && bestScore >= r.threshold {
		return model.MatchResult{Kind: model.MatchFuzzy, EditorID: fuzzyBest.ID, Score: bestScore}
	}
	return model.MatchResult{Kind: model.MatchNone}
}
