package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearsActive(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, (&Editor{}).YearsActive(now))
	assert.Equal(t, 16, (&Editor{StartYear: 2010}).YearsActive(now))
	assert.Equal(t, 0, (&Editor{StartYear: 2030}).YearsActive(now))
}

func TestAddOrigin(t *testing.T) {
	now := time.Now()
	e := &Editor{}

	assert.True(t, e.AddOrigin("web-discovery", now))
	assert.False(t, e.AddOrigin("web-discovery", now.Add(time.Hour)))
	assert.True(t, e.AddOrigin("imdb-feed", now))
	assert.Len(t, e.Provenance, 2)
	assert.Equal(t, 2, e.DistinctOrigins())
}

func TestDistinctOrigins_Duplicates(t *testing.T) {
	now := time.Now()
	e := &Editor{Provenance: []ProvenanceEntry{
		{OriginID: "a", ContributedAt: now},
		{OriginID: "a", ContributedAt: now.Add(time.Hour)},
		{OriginID: "b", ContributedAt: now},
	}}
	assert.Equal(t, 2, e.DistinctOrigins())
}

func TestAddSpecialties(t *testing.T) {
	e := &Editor{Specialties: []string{"drama"}}

	assert.Equal(t, 1, e.AddSpecialties([]string{"drama", "comedy", ""}))
	assert.Equal(t, []string{"drama", "comedy"}, e.Specialties)
	assert.Equal(t, 0, e.AddSpecialties([]string{"comedy"}))
}
