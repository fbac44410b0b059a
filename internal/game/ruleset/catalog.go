// Package ruleset loads the data-driven character and skill catalog.
package ruleset

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cory-johannsen/game7/internal/game/skill"
)

//go:embed content/archetypes/*.yaml
var builtin embed.FS

// Catalog is the immutable set of archetypes available to an engine, in team
// order.
type Catalog struct {
	archetypes []*Archetype
	byID       map[string]*Archetype
}

// NewCatalog validates archetypes and orders them by TeamOrder, then ID.
//
// Precondition: archetypes must be non-empty with unique IDs.
// Postcondition: Returns a Catalog or a non-nil error.
func NewCatalog(archetypes []*Archetype) (*Catalog, error) {
	if len(archetypes) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one archetype")
	}
	sorted := make([]*Archetype, len(archetypes))
	copy(sorted, archetypes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TeamOrder != sorted[j].TeamOrder {
			return sorted[i].TeamOrder < sorted[j].TeamOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	byID := make(map[string]*Archetype, len(sorted))
	for _, a := range sorted {
		if a == nil {
			return nil, fmt.Errorf("catalog contains a nil archetype")
		}
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate archetype id %q", a.ID)
		}
		byID[a.ID] = a
	}
	return &Catalog{archetypes: sorted, byID: byID}, nil
}

// LoadCatalog builds a Catalog from every archetype file in dir.
func LoadCatalog(dir string) (*Catalog, error) {
	archetypes, err := LoadArchetypes(dir)
	if err != nil {
		return nil, err
	}
	return NewCatalog(archetypes)
}

// Default returns the built-in three-character catalog.
func Default() (*Catalog, error) {
	entries, err := fs.ReadDir(builtin, "content/archetypes")
	if err != nil {
		return nil, fmt.Errorf("reading builtin catalog: %w", err)
	}
	archetypes := make([]*Archetype, 0, len(entries))
	for _, e := range entries {
		p := path.Join("content/archetypes", e.Name())
		data, err := builtin.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		a, err := ParseArchetype(data)
		if err != nil {
			return nil, fmt.Errorf("builtin archetype %s: %w", p, err)
		}
		archetypes = append(archetypes, a)
	}
	return NewCatalog(archetypes)
}

// MustLoad returns the catalog in dir, or the built-in catalog when dir is
// empty. An invalid catalog is a construction bug, so MustLoad panics.
func MustLoad(dir string) *Catalog {
	var (
		c   *Catalog
		err error
	)
	if dir == "" {
		c, err = Default()
	} else {
		c, err = LoadCatalog(dir)
	}
	if err != nil {
		panic("ruleset: MustLoad failed: " + err.Error())
	}
	return c
}

// Archetypes returns the archetypes in team order.
func (c *Catalog) Archetypes() []*Archetype {
	out := make([]*Archetype, len(c.archetypes))
	copy(out, c.archetypes)
	return out
}

// Archetype looks up an archetype by character ID.
func (c *Catalog) Archetype(id string) (*Archetype, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// Definition returns the skill in slot for the archetype id.
func (c *Catalog) Definition(id string, slot skill.Slot) (*skill.Definition, bool) {
	a, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return a.Definition(slot)
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
