// Package registry holds the static table of known data origins and their
// a-priori reliability weights. Origins are configuration data and are never
// mutated at runtime.
package registry

import (
	_ "embed"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var defaultSources []byte

// VerificationMethod tags how an origin's data gets verified.
type VerificationMethod string

// Verification methods.
const (
	MethodAutomatedFeed   VerificationMethod = "automated-feed"
	MethodManualDirectory VerificationMethod = "manual-directory"
	MethodUnverified      VerificationMethod = "unverified-scrape"
)

// Origin is a named data origin with a static reliability weight.
type Origin struct {
	ID     string             `yaml:"id"`
	Name   string             `yaml:"name"`
	Weight int                `yaml:"weight"`
	Method VerificationMethod `yaml:"method"`
}

// unknownOriginWeight is the score for origins not in the registry. Unknown
// origins score low rather than zero so legitimately new sources are not
// over-penalized.
const unknownOriginWeight = 30

// Registry indexes known origins by ID.
type Registry struct {
	origins map[string]Origin
}

type sourcesFile struct {
	Origins []Origin `yaml:"origins"`
}

// Load builds a Registry from the embedded origin table.
func Load() (*Registry, error) {
	return Parse(defaultSources)
}

// LoadFile builds a Registry from a YAML file, overriding the embedded
// table. An empty path falls back to the embedded origins.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read %s", path)
	}
	return Parse(data)
}

// Parse builds a Registry from YAML data.
func Parse(data []byte) (*Registry, error) {
	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal sources")
	}
	if len(f.Origins) == 0 {
		return nil, eris.New("registry: no origins defined")
	}

	origins := make(map[string]Origin, len(f.Origins))
	for _, o := range f.Origins {
		if o.ID == "" {
			return nil, eris.New("registry: origin with empty id")
		}
		if o.Weight < 0 || o.Weight > 100 {
			return nil, eris.Errorf("registry: origin %s weight %d out of range", o.ID, o.Weight)
		}
		origins[o.ID] = o
	}
	return &Registry{origins: origins}, nil
}

// Get returns the origin for the given ID, if known.
func (r *Registry) Get(id string) (Origin, bool) {
	o, ok := r.origins[id]
	return o, ok
}

// WeightFor returns the reliability weight for an origin ID. Unknown origins
// get a low default weight instead of zero.
func (r *Registry) WeightFor(id string) int {
	if o, ok := r.origins[id]; ok {
		return o.Weight
	}
	return unknownOriginWeight
}

// List returns all known origins ordered by descending weight, then ID.
func (r *Registry) List() []Origin {
	out := make([]Origin, 0, len(r.origins))
	for _, o := range r.origins {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].ID < out[j].ID
	})
	return out
}
