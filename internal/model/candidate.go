package model

// Candidate is an unresolved observation extracted from discovery content.
// Candidates are ephemeral: they exist only within a single discovery run
// and are either merged into an existing Editor or promoted to a new one.
type Candidate struct {
	RawName          string   `json:"raw_name"`
	Specialties      []string `json:"specialties,omitempty"`
	StartYear        int      `json:"start_year,omitempty"`
	SourceURL        string   `json:"source_url"`
	OriginID         string   `json:"origin_id"`
	ParserConfidence float64  `json:"parser_confidence"`
}

// MatchKind classifies the outcome of resolving a candidate against the
// existing record set.
type MatchKind string

// Match outcomes.
const (
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
	MatchNone  MatchKind = "none"
)

// MatchResult is the output of entity resolution for a single candidate.
// It is never persisted; the merger consumes it immediately.
type MatchResult struct {
	Kind     MatchKind `json:"kind"`
	EditorID string    `json:"editor_id,omitempty"`
	Score    float64   `json:"score,omitempty"`
}
