// Package reliability computes read-time confidence scores for records from
// their provenance and freshness. The scorer is pure: no I/O, no mutation,
// deterministic for identical inputs.
package reliability

import (
	"time"

	"github.com/postroom/editorsearch/internal/model"
	"github.com/postroom/editorsearch/internal/registry"
)

// Recommendation is a coarse trust classification derived from the score.
type Recommendation string

// Recommendations, from most to least trustworthy.
const (
	RecommendTrusted Recommendation = "trusted"
	RecommendCaution Recommendation = "caution"
	RecommendVerify  Recommendation = "verify"
	RecommendReject  Recommendation = "reject"
)

// Component weights of the overall score.
const (
	weightSourceQuality = 0.4
	weightCorroboration = 0.3
	weightFreshness     = 0.2
	weightVerified      = 0.1
)

// Recommendation thresholds.
const (
	thresholdTrusted = 85
	thresholdCaution = 70
	thresholdVerify  = 50
)

// Score is the confidence breakdown for a record.
type Score struct {
	Overall        int            `json:"overall"`
	SourceQuality  float64        `json:"source_quality"`
	Corroboration  float64        `json:"corroboration"`
	Freshness      float64        `json:"freshness"`
	Verification   float64        `json:"verification"`
	Recommendation Recommendation `json:"recommendation"`
}

// Scorer derives confidence scores using the origin registry's weights.
type Scorer struct {
	registry *registry.Registry
	now      func() time.Time
}

// NewScorer creates a Scorer. The clock is injectable for testing.
func NewScorer(reg *registry.Registry) *Scorer {
	return &Scorer{registry: reg, now: time.Now}
}

// WithNow fixes the scorer's clock.
func (s *Scorer) WithNow(t time.Time) *Scorer {
	s.now = func() time.Time { return t }
	return s
}

// Score computes the 0-100 confidence score for an editor record.
func (s *Scorer) Score(e *model.Editor) Score {
	sq := s.sourceQuality(e.Provenance)
	corr := corroboration(e.DistinctOrigins())
	fresh := freshness(e.UpdatedAt, s.now())

	verified := 0.0
	if e.Verified {
		verified = 100
	}

	overall := weightSourceQuality*sq +
		weightCorroboration*corr +
		weightFreshness*fresh +
		weightVerified*verified

	sc := Score{
		Overall:       int(overall + 0.5),
		SourceQuality: sq,
		Corroboration: corr,
		Freshness:     fresh,
		Verification:  verified,
	}
	sc.Recommendation = recommend(sc.Overall)
	return sc
}

// sourceQuality is the mean static weight of all contributing origins.
func (s *Scorer) sourceQuality(prov []model.ProvenanceEntry) float64 {
	if len(prov) == 0 {
		return 0
	}
	sum := 0
	for _, p := range prov {
		sum += s.registry.WeightFor(p.OriginID)
	}
	return float64(sum) / float64(len(prov))
}

// corroboration scales with the number of distinct origins. Independent
// corroboration is the strongest correctness signal, so it saturates fast.
func corroboration(distinct int) float64 {
	switch {
	case distinct >= 4:
		return 100
	case distinct == 3:
		return 80
	case distinct == 2:
		return 60
	case distinct == 1:
		return 30
	default:
		return 0
	}
}

// freshness decays with age since last update in fixed bands.
func freshness(updatedAt, now time.Time) float64 {
	if updatedAt.IsZero() {
		return 20
	}
	age := now.Sub(updatedAt)
	switch {
	case age <= 7*24*time.Hour:
		return 100
	case age <= 30*24*time.Hour:
		return 85
	case age <= 90*24*time.Hour:
		return 70
	case age <= 180*24*time.Hour:
		return 50
	case age <= 365*24*time.Hour:
		return 35
	default:
		return 20
	}
}

func recommend(overall int) Recommendation {
	switch {
	case overall >= thresholdTrusted:
		return RecommendTrusted
	case overall >= thresholdCaution:
		return RecommendCaution
	case overall >= thresholdVerify:
		return RecommendVerify
	default:
		return RecommendReject
	}
}
