// Package snapshot converts an Engine to and from the plain-data save format
// consumed by the web client and stored in save slots.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/game7/internal/game/character"
	"github.com/cory-johannsen/game7/internal/game/ruleset"
	"github.com/cory-johannsen/game7/internal/game/skill"
	"github.com/cory-johannsen/game7/internal/game/team"
)

// ErrInvalidSnapshot is returned by Restore when a snapshot does not fit the engine.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Stats mirrors character.Stats with the save-file field names.
type Stats struct {
	Level          int     `json:"level"`
	HP             float64 `json:"hp"`
	MaxHP          float64 `json:"max_hp"`
	Attack         float64 `json:"attack"`
	Defense        float64 `json:"defense"`
	Speed          float64 `json:"speed"`
	Luck           float64 `json:"luck"`
	CritChance     float64 `json:"crit_chance"`
	CritDamage     float64 `json:"crit_damage"`
	Rage           float64 `json:"rage"`
	MaxRage        float64 `json:"max_rage"`
	SecretGauge    float64 `json:"secret_gauge"`
	MaxSecretGauge float64 `json:"max_secret_gauge"`
	IsDefeated     bool    `json:"is_defeated"`
	ReviveTime     float64 `json:"revive_time"`
	RageActive     bool    `json:"rage_active"`
	RageDuration   float64 `json:"rage_duration"`

	InvulnerableTime  float64 `json:"invulnerable_time"`
	IsMeleeAttacker   bool    `json:"is_melee_attacker"`
	CanReflectBullets bool    `json:"can_reflect_bullets"`
}

// Skill is one skill slot as written to a save.
type Skill struct {
	Name               string         `json:"name"`
	SkillType          skill.Slot     `json:"skill_type"`
	BaseDamage         float64        `json:"base_damage"`
	Cooldown           float64        `json:"cooldown"`
	HPCost             float64        `json:"hp_cost"`
	Description        string         `json:"description"`
	SpecialEffects     map[string]any `json:"special_effects"`
	IsMelee            bool           `json:"is_melee"`
	IsProjectile       bool           `json:"is_projectile"`
	HitCount           int            `json:"hit_count"`
	BulletReflectCount int            `json:"bullet_reflect_count"`
}

// Character is one team member as written to a save.
type Character struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	CharacterClass   ruleset.Class        `json:"character_class"`
	Stats            Stats                `json:"stats"`
	Experience       int                  `json:"experience"`
	ExperienceNeeded int                  `json:"experience_needed"`
	SkillPoints      int                  `json:"skill_points"`
	Skills           map[skill.Slot]Skill `json:"skills"`
}

// Snapshot is the full engine state.
type Snapshot struct {
	Characters      map[string]Character `json:"characters"`
	CurrentTeam     []string             `json:"current_team"`
	ActiveCharacter string               `json:"active_character"`
	Stage           int                  `json:"stage"`
	Wave            int                  `json:"wave"`
	Kills           int                  `json:"kills"`
	Gold            int                  `json:"gold"`
	Silver          int                  `json:"silver"`
	Gems            int                  `json:"gems"`
}

// Serialize captures the complete state of e.
//
// Postcondition: the result shares nothing mutable with e.
func Serialize(e *team.Engine) Snapshot {
	p := e.Progress()
	snap := Snapshot{
		Characters:      make(map[string]Character),
		CurrentTeam:     e.Team(),
		ActiveCharacter: e.ActiveID(),
		Stage:           p.Stage,
		Wave:            p.Wave,
		Kills:           p.Kills,
		Gold:            p.Gold,
		Silver:          p.Silver,
		Gems:            p.Gems,
	}
	for _, c := range e.Characters() {
		snap.Characters[c.ID] = SerializeCharacter(c)
	}
	return snap
}

// SerializeCharacter captures one character in the save format.
func SerializeCharacter(c *character.Character) Character {
	out := Character{
		ID:               c.ID,
		Name:             c.Name,
		CharacterClass:   c.Class,
		Stats:            fromStats(c.Stats),
		Experience:       c.Experience,
		ExperienceNeeded: c.ExperienceNeeded,
		SkillPoints:      c.SkillPoints,
		Skills:           make(map[skill.Slot]Skill, len(c.Skills)),
	}
	for slot, d := range c.Skills {
		effects := make(map[string]any, len(d.SpecialEffects))
		for k, v := range d.SpecialEffects {
			effects[k] = v
		}
		out.Skills[slot] = Skill{
			Name:               d.Name,
			SkillType:          slot,
			BaseDamage:         d.BaseDamage,
			Cooldown:           d.Cooldown,
			HPCost:             d.HPCost,
			Description:        d.Description,
			SpecialEffects:     effects,
			IsMelee:            d.IsMelee,
			IsProjectile:       d.IsProjectile,
			HitCount:           d.HitCount,
			BulletReflectCount: d.BulletReflectCount,
		}
	}
	return out
}

func fromStats(s character.Stats) Stats {
	return Stats{
		Level:             s.Level,
		HP:                s.HP,
		MaxHP:             s.MaxHP,
		Attack:            s.Attack,
		Defense:           s.Defense,
		Speed:             s.Speed,
		Luck:              s.Luck,
		CritChance:        s.CritChance,
		CritDamage:        s.CritDamage,
		Rage:              s.Rage,
		MaxRage:           s.MaxRage,
		SecretGauge:       s.SecretGauge,
		MaxSecretGauge:    s.MaxSecretGauge,
		IsDefeated:        s.IsDefeated,
		ReviveTime:        s.ReviveTimer,
		RageActive:        s.RageActive,
		RageDuration:      s.RageDuration,
		InvulnerableTime:  s.InvulnerableTime,
		IsMeleeAttacker:   s.IsMeleeAttacker,
		CanReflectBullets: s.CanReflectBullets,
	}
}

func (s Stats) toStats() character.Stats {
	return character.Stats{
		Level:             s.Level,
		HP:                s.HP,
		MaxHP:             s.MaxHP,
		Attack:            s.Attack,
		Defense:           s.Defense,
		Speed:             s.Speed,
		Luck:              s.Luck,
		CritChance:        s.CritChance,
		CritDamage:        s.CritDamage,
		Rage:              s.Rage,
		MaxRage:           s.MaxRage,
		SecretGauge:       s.SecretGauge,
		MaxSecretGauge:    s.MaxSecretGauge,
		IsDefeated:        s.IsDefeated,
		ReviveTimer:       s.ReviveTime,
		RageActive:        s.RageActive,
		RageDuration:      s.RageDuration,
		InvulnerableTime:  s.InvulnerableTime,
		IsMeleeAttacker:   s.IsMeleeAttacker,
		CanReflectBullets: s.CanReflectBullets,
	}
}

func (s Stats) validate() error {
	switch {
	case s.Level < 1:
		return fmt.Errorf("level %d < 1", s.Level)
	case s.MaxHP <= 0:
		return fmt.Errorf("max_hp %v <= 0", s.MaxHP)
	case s.Attack < 0 || s.Defense < 0 || s.Speed < 0 || s.Luck < 0:
		return fmt.Errorf("negative base stat (attack %v, defense %v, speed %v, luck %v)", s.Attack, s.Defense, s.Speed, s.Luck)
	case s.CritChance < 0 || s.CritChance > 1:
		return fmt.Errorf("crit_chance %v outside [0, 1]", s.CritChance)
	case s.CritDamage < 1:
		return fmt.Errorf("crit_damage %v < 1", s.CritDamage)
	case s.HP < 0 || s.HP > s.MaxHP:
		return fmt.Errorf("hp %v outside [0, %v]", s.HP, s.MaxHP)
	case s.Rage < 0 || s.Rage > s.MaxRage:
		return fmt.Errorf("rage %v outside [0, %v]", s.Rage, s.MaxRage)
	case s.SecretGauge < 0 || s.SecretGauge > s.MaxSecretGauge:
		return fmt.Errorf("secret_gauge %v outside [0, %v]", s.SecretGauge, s.MaxSecretGauge)
	case s.ReviveTime < 0 || (s.ReviveTime > 0 && !s.IsDefeated):
		return fmt.Errorf("revive_time %v inconsistent with is_defeated %v", s.ReviveTime, s.IsDefeated)
	case s.RageActive && s.RageDuration <= 0:
		return fmt.Errorf("rage_active with rage_duration %v", s.RageDuration)
	case s.RageDuration < 0 || s.InvulnerableTime < 0:
		return fmt.Errorf("negative timer (rage_duration %v, invulnerable_time %v)", s.RageDuration, s.InvulnerableTime)
	}
	return nil
}

func (c Character) validate() error {
	switch {
	case c.ExperienceNeeded <= 0:
		return fmt.Errorf("experience_needed %d <= 0", c.ExperienceNeeded)
	case c.Experience < 0 || c.Experience >= c.ExperienceNeeded:
		return fmt.Errorf("experience %d outside [0, %d)", c.Experience, c.ExperienceNeeded)
	case c.SkillPoints < 0:
		return fmt.Errorf("skill_points %d < 0", c.SkillPoints)
	}
	return c.Stats.validate()
}

// Restore applies snap to e. Stats, experience, the active character, and the
// run counters are restored; skill loadouts always come from the catalog.
//
// Precondition: snap.Characters must name only members of e's team.
// Postcondition: on error e is unchanged. On success the active character is
// defeated only if every team member is defeated.
func Restore(e *team.Engine, snap Snapshot) error {
	for id, sc := range snap.Characters {
		if _, ok := e.Character(id); !ok {
			return fmt.Errorf("%w: unknown character %q", ErrInvalidSnapshot, id)
		}
		if sc.ID != "" && sc.ID != id {
			return fmt.Errorf("%w: character keyed %q has id %q", ErrInvalidSnapshot, id, sc.ID)
		}
		if err := sc.validate(); err != nil {
			return fmt.Errorf("%w: %s: %s", ErrInvalidSnapshot, id, err)
		}
	}
	if !slices.Contains(e.Team(), snap.ActiveCharacter) {
		return fmt.Errorf("%w: unknown active character %q", ErrInvalidSnapshot, snap.ActiveCharacter)
	}
	if defeatedAfter(e, snap, snap.ActiveCharacter) {
		for _, id := range e.Team() {
			if !defeatedAfter(e, snap, id) {
				return fmt.Errorf("%w: active character %q is defeated while %q is alive",
					ErrInvalidSnapshot, snap.ActiveCharacter, id)
			}
		}
	}

	for id, sc := range snap.Characters {
		c, _ := e.Character(id)
		c.Stats = sc.Stats.toStats()
		c.Experience = sc.Experience
		c.ExperienceNeeded = sc.ExperienceNeeded
		c.SkillPoints = sc.SkillPoints
	}
	if err := e.SetActiveCharacter(snap.ActiveCharacter); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	e.SetProgress(team.Progress{
		Stage:  snap.Stage,
		Wave:   snap.Wave,
		Kills:  snap.Kills,
		Gold:   snap.Gold,
		Silver: snap.Silver,
		Gems:   snap.Gems,
	})
	return nil
}

// defeatedAfter reports whether id would be defeated once snap is applied.
func defeatedAfter(e *team.Engine, snap Snapshot, id string) bool {
	if sc, ok := snap.Characters[id]; ok {
		return sc.Stats.IsDefeated
	}
	c, _ := e.Character(id)
	return c.Stats.IsDefeated
}

// Marshal serializes e straight to JSON.
func Marshal(e *team.Engine) ([]byte, error) {
	return json.Marshal(Serialize(e))
}

// Unmarshal decodes a JSON snapshot.
func Unmarshal(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}
