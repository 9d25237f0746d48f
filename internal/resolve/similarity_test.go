package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_Identical(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Margaret Sixel", "Margaret Sixel"))
}

func TestSimilarity_NormalizedEquality(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Margaret Sixel", "margaret-sixel"))
	assert.Equal(t, 1.0, Similarity("José González", "Jose Gonzalez"))
}

func TestSimilarity_MinorVariant(t *testing.T) {
	// Typo-distance variants stay above the default fuzzy threshold.
	assert.GreaterOrEqual(t, Similarity("John Smith", "Jon Smyth"), 0.8)
}

func TestSimilarity_DistinctNames(t *testing.T) {
	assert.Less(t, Similarity("John Smith", "Maria Gonzales"), 0.3)
}

func TestSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("Margaret Sixel", ""))
	assert.Equal(t, 0.0, Similarity("", "Margaret Sixel"))
}

func TestSimilarity_Symmetric(t *testing.T) {
	assert.Equal(t, Similarity("Kirk Baxter", "Kurt Baxter"), Similarity("Kurt Baxter", "Kirk Baxter"))
}
