package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	o, ok := reg.Get("web-discovery")
	require.True(t, ok)
	assert.Equal(t, MethodUnverified, o.Method)
	assert.Equal(t, 40, o.Weight)
}

func TestParse_Valid(t *testing.T) {
	reg, err := Parse([]byte(`
origins:
  - id: a
    name: Alpha
    weight: 80
    method: automated-feed
  - id: b
    name: Beta
    weight: 95
    method: manual-directory
`))
	require.NoError(t, err)

	assert.Equal(t, 80, reg.WeightFor("a"))
	assert.Equal(t, 95, reg.WeightFor("b"))
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("origins: []"))
	assert.Error(t, err)
}

func TestParse_MissingID(t *testing.T) {
	_, err := Parse([]byte(`
origins:
  - name: Nameless
    weight: 50
`))
	assert.Error(t, err)
}

func TestParse_WeightOutOfRange(t *testing.T) {
	_, err := Parse([]byte(`
origins:
  - id: a
    name: Alpha
    weight: 120
`))
	assert.Error(t, err)
}

func TestLoadFile_EmptyPathUsesEmbedded(t *testing.T) {
	reg, err := LoadFile("")
	require.NoError(t, err)
	_, ok := reg.Get("web-discovery")
	assert.True(t, ok)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/sources.yaml")
	assert.Error(t, err)
}

func TestWeightFor_Unknown(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, reg.WeightFor("never-seen-before"))
}

func TestList_OrderedByWeight(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	list := reg.List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].Weight, list[i].Weight)
	}
}
