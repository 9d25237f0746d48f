package discovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postroom/editorsearch/internal/config"
)

func testParser() *Parser {
	return NewParser(&config.DiscoveryConfig{
		RoleKeywords: []string{"editor", "edited by", "editing", "picture editor", "ace"},
		NameDenylist: []string{"Jane Doe", "John Doe", "Lorem Ipsum"},
		MinYear:      1950,
	})
}

func testPageContext() PageContext {
	return PageContext{
		SourceURL: "https://example.com/credits",
		OriginID:  "web-discovery",
	}
}

func TestParse_NoRoleKeyword(t *testing.T) {
	p := testParser()
	content := "Maria Gonzales and Kirk Baxter attended the gala in 2019."
	assert.Empty(t, p.Parse(content, testPageContext()))
}

func TestParse_ExtractsNameNearRoleKeyword(t *testing.T) {
	p := testParser()
	content := "The pilot was edited by Maria Gonzales, who joined the show in 2015."

	cands := p.Parse(content, testPageContext())
	require.Len(t, cands, 1)
	assert.Equal(t, "Maria Gonzales", cands[0].RawName)
	assert.Equal(t, 2015, cands[0].StartYear)
	assert.Equal(t, "web-discovery", cands[0].OriginID)
	assert.Equal(t, "https://example.com/credits", cands[0].SourceURL)
}

func TestParse_DenylistRejected(t *testing.T) {
	p := testParser()
	content := "Editor credits: Jane Doe has been editing since 2010."

	for _, c := range p.Parse(content, testPageContext()) {
		assert.NotEqual(t, "Jane Doe", c.RawName)
	}
}

func TestParse_DenylistNormalized(t *testing.T) {
	p := testParser()
	content := "Editor credits: JANE-DOE has been editing since 2010."

	for _, c := range p.Parse(content, testPageContext()) {
		assert.NotContains(t, c.RawName, "DOE")
	}
}

func TestParse_YearOutOfRangeIgnored(t *testing.T) {
	p := testParser()
	content := "Picture editor Maria Gonzales won in 1890 and again in 2099."

	cands := p.Parse(content, testPageContext())
	require.Len(t, cands, 1)
	assert.Equal(t, 0, cands[0].StartYear)
}

func TestParse_EarliestYearWins(t *testing.T) {
	p := testParser()
	content := "Maria Gonzales, editor, active 2015 to 2020."

	cands := p.Parse(content, testPageContext())
	require.Len(t, cands, 1)
	assert.Equal(t, 2015, cands[0].StartYear)
}

func TestParse_AllCapsRejected(t *testing.T) {
	p := testParser()
	content := "EDITING AWARDS GALA featured editor Maria Gonzales."

	cands := p.Parse(content, testPageContext())
	require.Len(t, cands, 1)
	assert.Equal(t, "Maria Gonzales", cands[0].RawName)
}

func TestParse_SingleTokenNotAName(t *testing.T) {
	p := testParser()
	content := "Editing by Madonna was never confirmed."
	assert.Empty(t, p.Parse(content, testPageContext()))
}

func TestParse_DedupWithinPage(t *testing.T) {
	p := testParser()
	content := "Editor Maria Gonzales cut the pilot. Later, Maria Gonzales also edited the finale."

	cands := p.Parse(content, testPageContext())
	assert.Len(t, cands, 1)
}

func TestParse_SpecialtyHintApplied(t *testing.T) {
	p := testParser()
	pctx := testPageContext()
	pctx.SpecialtyHint = "drama"

	cands := p.Parse("Editor Maria Gonzales cut every episode.", pctx)
	require.Len(t, cands, 1)
	assert.Equal(t, []string{"drama"}, cands[0].Specialties)
}

func TestParse_ConfidenceScaling(t *testing.T) {
	p := testParser()

	bare := p.Parse("A long interview. Editing notes follow. Page mentions Maria Gonzales much further down in an unrelated paragraph about catering and logistics, far away from any credit line or keyword usage on this page of text that runs on and on past the proximity window entirely.", testPageContext())
	full := p.Parse("Editor Maria Gonzales has cut shows since 2012.", testPageContext())

	require.Len(t, full, 1)
	assert.InDelta(t, 0.9, full[0].ParserConfidence, 0.001)
	if len(bare) == 1 {
		assert.Less(t, bare[0].ParserConfidence, full[0].ParserConfidence)
	}
}

func TestParse_CaseFoldShrinksContent(t *testing.T) {
	p := testParser()
	// U+1E9E lowercases to a shorter UTF-8 sequence, shifting every byte
	// offset after it.
	content := strings.Repeat("ẞ", 100) + " edited by Maria Gonzales in 2015."

	cands := p.Parse(content, testPageContext())
	require.Len(t, cands, 1)
	assert.Equal(t, "Maria Gonzales", cands[0].RawName)
	assert.Equal(t, 2015, cands[0].StartYear)
}

func TestParse_RoleKeywordWordBoundary(t *testing.T) {
	p := testParser()
	// "face" and "place" contain "ace" but are not role keywords.
	content := "Maria Gonzales kept a straight face in first place during 2015."
	assert.Empty(t, p.Parse(content, testPageContext()))
}
