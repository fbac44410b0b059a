package ruleset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/game7/internal/game/skill"
)

// StatOverrides replaces individual base stats of a freshly built character.
// A zero value leaves the corresponding default untouched.
type StatOverrides struct {
	MaxHP      float64 `yaml:"max_hp"`
	Attack     float64 `yaml:"attack"`
	Defense    float64 `yaml:"defense"`
	Speed      float64 `yaml:"speed"`
	Luck       float64 `yaml:"luck"`
	CritChance float64 `yaml:"crit_chance"`
	CritDamage float64 `yaml:"crit_damage"`
}

// SkillEntry is the YAML form of one skill in an archetype's loadout.
type SkillEntry struct {
	Slot               string         `yaml:"slot"`
	Name               string         `yaml:"name"`
	BaseDamage         float64        `yaml:"base_damage"`
	Cooldown           float64        `yaml:"cooldown"`
	HPCost             float64        `yaml:"hp_cost"`
	Description        string         `yaml:"description"`
	Melee              bool           `yaml:"melee"`
	Projectile         bool           `yaml:"projectile"`
	HitCount           int            `yaml:"hit_count"`
	BulletReflectCount int            `yaml:"bullet_reflect_count"`
	SpecialEffects     map[string]any `yaml:"special_effects"`
}

// Archetype is one playable character template: identity, stat overrides,
// combat flags, and its skill loadout.
//
// Precondition: ID, Name, and Class must be valid and every skill entry must
// resolve to a distinct Slot after loading.
type Archetype struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	Class           Class         `yaml:"class"`
	TeamOrder       int           `yaml:"team_order"`
	Stats           StatOverrides `yaml:"stats"`
	MeleeAttacker   bool          `yaml:"melee_attacker"`
	ReflectsBullets bool          `yaml:"reflects_bullets"`
	SkillEntries    []SkillEntry  `yaml:"skills"`

	definitions map[skill.Slot]*skill.Definition
}

// ParseArchetype decodes and validates one archetype document.
//
// Postcondition: Returns an Archetype whose Definitions are built, or a
// non-nil error describing the first violation.
func ParseArchetype(data []byte) (*Archetype, error) {
	var a Archetype
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing archetype: %w", err)
	}
	if err := a.build(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadArchetypes reads all .yaml files in dir and parses each as an Archetype.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed archetypes (may be empty slice) or a non-nil error.
func LoadArchetypes(dir string) ([]*Archetype, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	archetypes := make([]*Archetype, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		a, err := ParseArchetype(data)
		if err != nil {
			return nil, fmt.Errorf("archetype file %s: %w", path, err)
		}
		archetypes = append(archetypes, a)
	}
	return archetypes, nil
}

// Definitions returns the archetype's skill map. The map is freshly allocated
// but the Definitions it points at are shared and must not be mutated.
func (a *Archetype) Definitions() map[skill.Slot]*skill.Definition {
	out := make(map[skill.Slot]*skill.Definition, len(a.definitions))
	for k, v := range a.definitions {
		out[k] = v
	}
	return out
}

// Definition returns the skill in slot, if the archetype has one.
func (a *Archetype) Definition(slot skill.Slot) (*skill.Definition, bool) {
	d, ok := a.definitions[slot]
	return d, ok
}

func (a *Archetype) build() error {
	if a.ID == "" {
		return errors.New("archetype id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("archetype %q: name must not be empty", a.ID)
	}
	if !a.Class.Valid() {
		return fmt.Errorf("archetype %q: unknown class %q", a.ID, a.Class)
	}
	a.definitions = make(map[skill.Slot]*skill.Definition, len(a.SkillEntries))
	for i, e := range a.SkillEntries {
		def, err := e.definition()
		if err != nil {
			return fmt.Errorf("archetype %q skill #%d: %w", a.ID, i, err)
		}
		if _, dup := a.definitions[def.Slot]; dup {
			return fmt.Errorf("archetype %q: duplicate slot %s", a.ID, def.Slot)
		}
		a.definitions[def.Slot] = def
	}
	return nil
}

func (e SkillEntry) definition() (*skill.Definition, error) {
	slot, err := skill.ParseSlot(e.Slot)
	if err != nil {
		return nil, err
	}
	if e.Name == "" {
		return nil, fmt.Errorf("slot %s: name must not be empty", slot)
	}
	hits := e.HitCount
	if hits == 0 {
		hits = 1
	}
	switch {
	case hits < 1:
		return nil, fmt.Errorf("slot %s: hit_count must be >= 1, got %d", slot, e.HitCount)
	case e.HPCost < 0:
		return nil, fmt.Errorf("slot %s: hp_cost must be >= 0, got %v", slot, e.HPCost)
	case e.BaseDamage < 0:
		return nil, fmt.Errorf("slot %s: base_damage must be >= 0, got %v", slot, e.BaseDamage)
	case e.BulletReflectCount < 0:
		return nil, fmt.Errorf("slot %s: bullet_reflect_count must be >= 0, got %d", slot, e.BulletReflectCount)
	}
	effects := e.SpecialEffects
	if effects == nil {
		effects = map[string]any{}
	}
	return &skill.Definition{
		Name:               e.Name,
		Slot:               slot,
		BaseDamage:         e.BaseDamage,
		Cooldown:           e.Cooldown,
		HPCost:             e.HPCost,
		Description:        e.Description,
		IsMelee:            e.Melee,
		IsProjectile:       e.Projectile,
		HitCount:           hits,
		BulletReflectCount: e.BulletReflectCount,
		SpecialEffects:     effects,
	}, nil
}
