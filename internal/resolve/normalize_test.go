package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName_Empty(t *testing.T) {
	assert.Equal(t, "", NormalizeName(""))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestNormalizeName_Lowercase(t *testing.T) {
	assert.Equal(t, "margaret sixel", NormalizeName("Margaret Sixel"))
	assert.Equal(t, "margaret sixel", NormalizeName("MARGARET SIXEL"))
}

func TestNormalizeName_Diacritics(t *testing.T) {
	assert.Equal(t, "jose gonzalez", NormalizeName("José González"))
	assert.Equal(t, "francois truffaut", NormalizeName("François Truffaut"))
}

func TestNormalizeName_Punctuation(t *testing.T) {
	assert.Equal(t, "o brien", NormalizeName("O'Brien"))
	assert.Equal(t, "smith jones", NormalizeName("Smith-Jones"))
	assert.Equal(t, "thelma schoonmaker", NormalizeName("Thelma Schoonmaker, ACE."))
}

func TestNormalizeName_CollapseSpaces(t *testing.T) {
	assert.Equal(t, "kirk baxter", NormalizeName("  Kirk   Baxter  "))
}

func TestNormalizeName_PunctuationOnly(t *testing.T) {
	assert.Equal(t, "", NormalizeName("--- !!! ---"))
}

func TestNormalizeName_EquivalentForms(t *testing.T) {
	// Case, punctuation, and accent variants of the same name must collide.
	forms := []string{
		"Margaret Sixel",
		"margaret sixel",
		"MARGARET-SIXEL",
		"Margarét Sixel",
	}
	want := NormalizeName(forms[0])
	for _, f := range forms {
		assert.Equal(t, want, NormalizeName(f), "form %q", f)
	}
}
