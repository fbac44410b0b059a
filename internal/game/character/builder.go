package character

import (
	"errors"

	"github.com/cory-johannsen/game7/internal/game/dice"
	"github.com/cory-johannsen/game7/internal/game/ruleset"
)

// BaseExperienceNeeded is the experience threshold from level 1 to level 2.
const BaseExperienceNeeded = 100

// Build constructs a level-1 Character from an archetype. Default stats are
// applied first, then the archetype's non-zero overrides; HP starts full.
//
// Precondition: arch and src must be non-nil.
// Postcondition: Returns a Character with HP == MaxHP, or a non-nil error.
func Build(arch *ruleset.Archetype, src dice.Source) (*Character, error) {
	if arch == nil {
		return nil, errors.New("archetype must not be nil")
	}
	if src == nil {
		return nil, errors.New("random source must not be nil")
	}

	stats := applyOverrides(DefaultStats(), arch.Stats)
	stats.HP = stats.MaxHP
	stats.IsMeleeAttacker = arch.MeleeAttacker
	stats.CanReflectBullets = arch.ReflectsBullets

	return &Character{
		ID:               arch.ID,
		Name:             arch.Name,
		Class:            arch.Class,
		Stats:            stats,
		Skills:           arch.Definitions(),
		ExperienceNeeded: BaseExperienceNeeded,
		src:              src,
	}, nil
}

func applyOverrides(s Stats, o ruleset.StatOverrides) Stats {
	if o.MaxHP > 0 {
		s.MaxHP = o.MaxHP
	}
	if o.Attack > 0 {
		s.Attack = o.Attack
	}
	if o.Defense > 0 {
		s.Defense = o.Defense
	}
	if o.Speed > 0 {
		s.Speed = o.Speed
	}
	if o.Luck > 0 {
		s.Luck = o.Luck
	}
	if o.CritChance > 0 {
		s.CritChance = o.CritChance
	}
	if o.CritDamage > 0 {
		s.CritDamage = o.CritDamage
	}
	return s
}
