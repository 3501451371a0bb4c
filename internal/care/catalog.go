// ABOUTME: Static care catalog mapping species to care intervals
// ABOUTME: Loaded from embedded YAML; unknown species get the default intervals
package care

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/harper/plant-texts/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultSpecies is the catalog key used for unlisted species
const DefaultSpecies = "default"

// Species is the care data for one species
type Species struct {
	Name        string                  `yaml:"-" json:"name"`
	DisplayName string                  `yaml:"display_name" json:"display_name"`
	Intervals   map[models.TaskType]int `yaml:"intervals" json:"interval_days"`
}

// Interval returns the interval for a task type, if the species needs it
func (s Species) Interval(taskType models.TaskType) (time.Duration, bool) {
	days, ok := s.Intervals[taskType]
	if !ok {
		return 0, false
	}
	return time.Duration(days) * 24 * time.Hour, true
}

// Catalog is read-only care reference data
type Catalog struct {
	species map[string]Species
}

type catalogFile struct {
	Species map[string]Species `yaml:"species"`
}

// LoadCatalog parses and validates a catalog
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse care catalog: %w", err)
	}

	c := &Catalog{species: make(map[string]Species, len(file.Species))}
	for name, sp := range file.Species {
		key := normalize(name)
		if _, dup := c.species[key]; dup {
			return nil, fmt.Errorf("species %q listed twice", name)
		}
		if len(sp.Intervals) == 0 {
			return nil, fmt.Errorf("species %q has no intervals", name)
		}
		for tt, days := range sp.Intervals {
			if _, err := models.ParseTaskType(string(tt)); err != nil {
				return nil, fmt.Errorf("species %q: %w", name, err)
			}
			if days <= 0 {
				return nil, fmt.Errorf("species %q: %s interval must be positive", name, tt)
			}
		}
		sp.Name = key
		c.species[key] = sp
	}

	if _, ok := c.species[DefaultSpecies]; !ok {
		return nil, fmt.Errorf("care catalog has no %q species", DefaultSpecies)
	}
	return c, nil
}

// DefaultCatalog loads the embedded catalog
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(strings.NewReader(string(defaultCatalog)))
}

// MustDefaultCatalog is DefaultCatalog for program setup
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the care data for species, or the default entry
func (c *Catalog) Lookup(species string) Species {
	if sp, ok := c.species[normalize(species)]; ok {
		return sp
	}
	return c.species[DefaultSpecies]
}

// Known reports whether species has its own catalog entry
func (c *Catalog) Known(species string) bool {
	key := normalize(species)
	_, ok := c.species[key]
	return ok && key != DefaultSpecies
}

// Names lists catalog species, sorted, excluding the default
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.species))
	for name := range c.species {
		if name != DefaultSpecies {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func normalize(species string) string {
	s := strings.ToLower(strings.TrimSpace(species))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
