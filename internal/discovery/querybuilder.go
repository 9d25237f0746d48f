// Package discovery implements the external fallback path: building search
// queries from a filter, fetching result pages, parsing candidates out of
// raw content, and merging resolved candidates back into the record set.
package discovery

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/postroom/editorsearch/internal/config"
	"github.com/postroom/editorsearch/internal/model"
	"github.com/postroom/editorsearch/internal/resolve"
)

// QueryKind classifies the free-text portion of a filter. All downstream
// query construction switches on this variant, never on ad hoc string
// checks, so the classification policy is independently testable.
type QueryKind string

// Query classifications.
const (
	NamedEntityQuery    QueryKind = "named_entity"
	CategoryQuery       QueryKind = "category"
	StructuredOnlyQuery QueryKind = "structured_only"
)

// Classification is the result of classifying a filter's free text.
type Classification struct {
	Kind QueryKind
	Term string
}

// QueryBuilder converts a search filter into at most maxQueries ranked
// external-search query strings. It is deterministic: identical filters
// produce identical query sets.
type QueryBuilder struct {
	targetRole    string
	domainNoun    string
	excludeRole   string
	maxQueries    int
	knownEntities map[string]bool // normalized names
	categories    map[string]bool // lowercase terms
}

// NewQueryBuilder creates a QueryBuilder from discovery configuration.
func NewQueryBuilder(cfg *config.DiscoveryConfig) *QueryBuilder {
	maxQueries := cfg.MaxQueries
	if maxQueries <= 0 {
		maxQueries = 3
	}

	known := make(map[string]bool, len(cfg.KnownEntities))
	for _, e := range cfg.KnownEntities {
		known[resolve.NormalizeName(e)] = true
	}
	cats := make(map[string]bool, len(cfg.Categories))
	for _, c := range cfg.Categories {
		cats[strings.ToLower(strings.TrimSpace(c))] = true
	}

	return &QueryBuilder{
		targetRole:    cfg.TargetRole,
		domainNoun:    cfg.DomainNoun,
		excludeRole:   cfg.ExcludeRole,
		maxQueries:    maxQueries,
		knownEntities: known,
		categories:    cats,
	}
}

// Classify determines the query variant for a filter's free text.
func (b *QueryBuilder) Classify(text string) Classification {
	term := strings.TrimSpace(text)
	if term == "" {
		return Classification{Kind: StructuredOnlyQuery}
	}
	if b.knownEntities[resolve.NormalizeName(term)] {
		return Classification{Kind: NamedEntityQuery, Term: term}
	}
	if b.categories[strings.ToLower(term)] {
		return Classification{Kind: CategoryQuery, Term: term}
	}
	if looksLikePersonName(term) {
		return Classification{Kind: NamedEntityQuery, Term: term}
	}
	// Unrecognized keywords behave like category terms.
	return Classification{Kind: CategoryQuery, Term: term}
}

// Build returns between 1 and maxQueries deterministic search queries for
// the filter, ranked most specific first, always ending with one generic
// query combining all available terms.
func (b *QueryBuilder) Build(f model.SearchFilter) []string {
	var queries []string

	cls := b.Classify(f.Text)
	switch cls.Kind {
	case NamedEntityQuery:
		// Exclude the confusable role to cut false positives on
		// well-known names.
		queries = append(queries,
			fmt.Sprintf("%q %s -%s", cls.Term, b.targetRole, b.excludeRole),
			fmt.Sprintf("%s %s credits", cls.Term, b.targetRole),
		)
	case CategoryQuery:
		queries = append(queries,
			fmt.Sprintf("%s %s", cls.Term, b.targetRole),
			fmt.Sprintf("best %s editors %s", cls.Term, b.domainNoun),
		)
	case StructuredOnlyQuery:
		parts := make([]string, 0, 3)
		if len(f.Networks) > 0 {
			parts = append(parts, f.Networks[0])
		}
		if len(f.Specialties) > 0 {
			parts = append(parts, f.Specialties[0])
		}
		if len(parts) > 0 {
			parts = append(parts, b.targetRole)
			queries = append(queries, strings.Join(parts, " "))
		}
	}

	queries = append(queries, b.genericQuery(f))

	return dedupeCap(queries, b.maxQueries)
}

// SpecialtyHint returns the categorical tag a parser should assume for
// content found via this filter, when the content itself states none.
func (b *QueryBuilder) SpecialtyHint(f model.SearchFilter) string {
	if cls := b.Classify(f.Text); cls.Kind == CategoryQuery && b.categories[strings.ToLower(cls.Term)] {
		return cls.Term
	}
	if len(f.Specialties) > 0 {
		return f.Specialties[0]
	}
	return ""
}

// genericQuery combines every available filter term with the target role.
func (b *QueryBuilder) genericQuery(f model.SearchFilter) string {
	parts := make([]string, 0, 4)
	if t := strings.TrimSpace(f.Text); t != "" {
		parts = append(parts, t)
	}
	if len(f.Specialties) > 0 {
		parts = append(parts, f.Specialties[0])
	}
	if len(f.Networks) > 0 {
		parts = append(parts, f.Networks[0])
	}
	parts = append(parts, b.targetRole)
	return strings.Join(parts, " ")
}

// looksLikePersonName reports whether a term has a named-entity shape:
// two or more tokens, each starting with an uppercase letter.
func looksLikePersonName(term string) bool {
	tokens := strings.Fields(term)
	if len(tokens) < 2 {
		return false
	}
	for _, tok := range tokens {
		r := []rune(tok)[0]
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func dedupeCap(queries []string, cap int) []string {
	seen := make(map[string]bool, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		if len(out) >= cap {
			break
		}
	}
	return out
}
