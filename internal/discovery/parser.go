package discovery

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/postroom/editorsearch/internal/config"
	"github.com/postroom/editorsearch/internal/model"
	"github.com/postroom/editorsearch/internal/resolve"
)

const (
	maxNameLen = 40
	// proximityWindow is how far, in bytes, a year or role keyword may sit
	// from a name to be attributed to it.
	proximityWindow = 120
)

var (
	// Two to four capitalized tokens. Token internals are validated
	// separately so O'Brien and hyphenated surnames pass.
	nameRe = regexp.MustCompile(`\b[A-Z][A-Za-z'’\-]+(?: [A-Z][A-Za-z'’\-]+){1,3}\b`)
	yearRe = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// PageContext carries per-page attribution applied to every candidate
// extracted from that page.
type PageContext struct {
	SourceURL     string
	OriginID      string
	SpecialtyHint string
}

// Parser extracts person candidates from raw page content. It never
// produces a record directly; candidates go through resolution first.
type Parser struct {
	roleRe    *regexp.Regexp
	roleWords map[string]bool // single words drawn from role keywords
	denylist  map[string]bool // normalized names
	minYear   int
	now       func() time.Time
}

// NewParser creates a Parser from discovery configuration.
func NewParser(cfg *config.DiscoveryConfig) *Parser {
	minYear := cfg.MinYear
	if minYear <= 0 {
		minYear = 1950
	}

	deny := make(map[string]bool, len(cfg.NameDenylist))
	for _, n := range cfg.NameDenylist {
		deny[resolve.NormalizeName(n)] = true
	}

	alts := make([]string, 0, len(cfg.RoleKeywords))
	roleWords := make(map[string]bool)
	for _, kw := range cfg.RoleKeywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw == "" {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(kw))
		for _, w := range strings.Fields(kw) {
			roleWords[w] = true
		}
	}
	roleRe := regexp.MustCompile(`\b(?:` + strings.Join(alts, "|") + `)\b`)

	return &Parser{
		roleRe:    roleRe,
		roleWords: roleWords,
		denylist:  deny,
		minYear:   minYear,
		now:       time.Now,
	}
}

// Parse extracts candidates from page content. Content with no role keyword
// at all yields nothing, whatever names it contains.
func (p *Parser) Parse(content string, pctx PageContext) []model.Candidate {
	if !p.roleRe.MatchString(strings.ToLower(content)) {
		return nil
	}
	maxYear := p.now().Year()

	var (
		candidates []model.Candidate
		seen       = make(map[string]bool)
	)
	for _, loc := range nameRe.FindAllStringIndex(content, -1) {
		// Credit lines put the role right next to the name; trim role
		// words the regex swallowed.
		name := p.trimRoleWords(content[loc[0]:loc[1]])
		if !plausibleName(name) {
			continue
		}
		norm := resolve.NormalizeName(name)
		if norm == "" || p.denylist[norm] {
			continue
		}

		lo := max(0, loc[0]-proximityWindow)
		hi := min(len(content), loc[1]+proximityWindow)
		// Case folding can change byte length, so match offsets only index
		// the original content; lowercase the window itself.
		window := strings.ToLower(content[lo:hi])

		year := p.nearestYear(content[lo:hi], maxYear)
		nearRole := p.roleRe.MatchString(window)

		key := fmt.Sprintf("%s|%d", norm, year)
		if seen[key] {
			continue
		}
		seen[key] = true

		confidence := 0.5
		if year > 0 {
			confidence += 0.2
		}
		if nearRole {
			confidence += 0.2
		}

		var specialties []string
		if pctx.SpecialtyHint != "" {
			specialties = []string{pctx.SpecialtyHint}
		}

		candidates = append(candidates, model.Candidate{
			RawName:          name,
			Specialties:      specialties,
			StartYear:        year,
			SourceURL:        pctx.SourceURL,
			OriginID:         pctx.OriginID,
			ParserConfidence: confidence,
		})
	}
	return candidates
}

// trimRoleWords strips role keywords from the edges of a matched name.
func (p *Parser) trimRoleWords(name string) string {
	tokens := strings.Fields(name)
	for len(tokens) > 0 && p.roleWords[strings.ToLower(tokens[0])] {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && p.roleWords[strings.ToLower(tokens[len(tokens)-1])] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// nearestYear returns the earliest plausible career year in the window, or 0.
func (p *Parser) nearestYear(window string, maxYear int) int {
	best := 0
	for _, m := range yearRe.FindAllString(window, -1) {
		y, err := strconv.Atoi(m)
		if err != nil || y < p.minYear || y > maxYear {
			continue
		}
		if best == 0 || y < best {
			best = y
		}
	}
	return best
}

// plausibleName rejects regex matches that are not person-shaped: too long,
// shouting case, or tokens with no lowercase letters.
func plausibleName(name string) bool {
	if len(name) > maxNameLen {
		return false
	}
	tokens := strings.Fields(name)
	if len(tokens) < 2 || len(tokens) > 4 {
		return false
	}
	for _, tok := range tokens {
		if strings.ToUpper(tok) == tok {
			return false
		}
	}
	return true
}
