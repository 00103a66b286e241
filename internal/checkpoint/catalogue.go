// Package checkpoint holds the catalogue of physical scan stations used by
// the battery tracing pipeline.
package checkpoint

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed stations.yaml
var defaultStations []byte

// Station is one physical scan point.
type Station struct {
	Name     string `yaml:"name"     json:"name"`
	Number   int    `yaml:"number"   json:"number"`
	Label    string `yaml:"label"    json:"label"`
	Extra    bool   `yaml:"extra"    json:"extra"`
	Required bool   `yaml:"required" json:"required"`
}

// Catalogue is an ordered, name-indexed set of stations.
type Catalogue struct {
	stations []Station
	byName   map[string]int
}

type catalogueFile struct {
	Stations []Station `yaml:"stations"`
}

// Parse decodes and validates a YAML station list.
func Parse(data []byte) (*Catalogue, error) {
	var f catalogueFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode stations: %w", err)
	}
	if len(f.Stations) == 0 {
		return nil, fmt.Errorf("decode stations: empty catalogue")
	}

	c := &Catalogue{stations: f.Stations, byName: make(map[string]int, len(f.Stations))}
	for i, s := range f.Stations {
		if s.Name == "" || s.Number <= 0 {
			return nil, fmt.Errorf("station #%d: name and positive number are required", i+1)
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, fmt.Errorf("station %q declared twice", s.Name)
		}
		c.byName[s.Name] = i
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalogue
)

// Default returns the embedded catalogue. It panics if the embedded file is
// malformed, which the package tests rule out.
func Default() *Catalogue {
	defaultOnce.Do(func() {
		c, err := Parse(defaultStations)
		if err != nil {
			panic(err)
		}
		defaultCat = c
	})
	return defaultCat
}

// Lookup finds a station by name.
func (c *Catalogue) Lookup(name string) (Station, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Station{}, false
	}
	return c.stations[i], true
}

// Stations returns all stations in route order.
func (c *Catalogue) Stations() []Station {
	out := make([]Station, len(c.stations))
	copy(out, c.stations)
	return out
}

// Extras returns stations that arrive as named side-fields.
func (c *Catalogue) Extras() []Station {
	var out []Station
	for _, s := range c.stations {
		if s.Extra {
			out = append(out, s)
		}
	}
	return out
}

// Missing lists required stations absent from seen, in route order.
func (c *Catalogue) Missing(seen map[string]bool) []string {
	missing := make([]string, 0)
	for _, s := range c.stations {
		if s.Required && !seen[s.Name] {
			missing = append(missing, s.Name)
		}
	}
	return missing
}
