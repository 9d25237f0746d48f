package model

// SearchFilter is the caller-facing query contract. All fields are optional;
// an all-zero filter lists the most recently updated records up to Limit.
type SearchFilter struct {
	Text         string   `json:"text,omitempty"`
	Specialties  []string `json:"specialties,omitempty"`
	Networks     []string `json:"networks,omitempty"`
	Statuses     []Status `json:"statuses,omitempty"`
	MinYears     int      `json:"min_years,omitempty"`
	MaxYears     int      `json:"max_years,omitempty"`
	City         string   `json:"city,omitempty"`
	Region       string   `json:"region,omitempty"`
	Country      string   `json:"country,omitempty"`
	RemoteOnly   bool     `json:"remote_only,omitempty"`
	VerifiedOnly bool     `json:"verified_only,omitempty"`
	AwardOnly    bool     `json:"award_only,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// HasText reports whether the filter carries a free-text query.
func (f SearchFilter) HasText() bool {
	return f.Text != ""
}

// HasConstraints reports whether any structured constraint is set,
// independent of free text.
func (f SearchFilter) HasConstraints() bool {
	return len(f.Specialties) > 0 ||
		len(f.Networks) > 0 ||
		len(f.Statuses) > 0 ||
		f.MinYears > 0 || f.MaxYears > 0 ||
		f.City != "" || f.Region != "" || f.Country != "" ||
		f.RemoteOnly || f.VerifiedOnly || f.AwardOnly
}

// Facets holds derived counts computed over a returned result set.
type Facets struct {
	Specialties map[string]int `json:"specialties"`
	Networks    map[string]int `json:"networks"`
	Locations   map[string]int `json:"locations"`
	Experience  map[string]int `json:"experience"`
}

// ScoredEditor pairs an editor with its read-time confidence assessment.
type ScoredEditor struct {
	Editor
	Confidence     int    `json:"confidence"`
	Recommendation string `json:"recommendation"`
}

// SearchResult is the output of a hybrid search. Warning is set when the
// discovery fallback was attempted but every external query failed; it is
// distinct from an error, which only occurs when the local store fails.
type SearchResult struct {
	Editors []ScoredEditor `json:"editors"`
	Total   int            `json:"total"`
	Facets  Facets         `json:"facets"`
	Warning string         `json:"warning,omitempty"`
}
