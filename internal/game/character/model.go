// Package character defines the playable character model, its stat block, and
// the skill activation state machine.
package character

import (
	"github.com/cory-johannsen/game7/internal/game/dice"
	"github.com/cory-johannsen/game7/internal/game/ruleset"
	"github.com/cory-johannsen/game7/internal/game/skill"
)

// Stats is the per-character numeric state.
//
// Invariant: 0 <= HP <= MaxHP; 0 <= Rage <= MaxRage; 0 <= SecretGauge <= MaxSecretGauge;
// ReviveTimer > 0 implies IsDefeated; RageActive implies RageDuration > 0.
type Stats struct {
	Level      int
	HP         float64
	MaxHP      float64
	Attack     float64
	Defense    float64
	Speed      float64
	Luck       float64
	CritChance float64
	CritDamage float64

	Rage           float64
	MaxRage        float64
	SecretGauge    float64
	MaxSecretGauge float64

	IsDefeated bool
	// ReviveTimer is the number of seconds until automatic revival.
	ReviveTimer  float64
	RageActive   bool
	RageDuration float64
	// InvulnerableTime is the remaining invulnerability window in seconds.
	InvulnerableTime float64

	IsMeleeAttacker   bool
	CanReflectBullets bool
}

// DefaultStats returns the level-1 baseline every archetype starts from.
func DefaultStats() Stats {
	return Stats{
		Level:          1,
		HP:             100,
		MaxHP:          100,
		Attack:         20,
		Defense:        10,
		Speed:          100,
		Luck:           10,
		CritChance:     0.05,
		CritDamage:     1.5,
		MaxRage:        100,
		MaxSecretGauge: 100,
	}
}

// Character is one playable team member. It owns its Stats exclusively and
// shares its skill Definitions read-only with the catalog.
type Character struct {
	ID    string
	Name  string
	Class ruleset.Class
	Stats Stats
	// Skills maps each filled slot to its catalog Definition.
	Skills map[skill.Slot]*skill.Definition

	Experience       int
	ExperienceNeeded int
	SkillPoints      int

	src dice.Source
}

// Skill returns the definition in slot, if any.
func (c *Character) Skill(slot skill.Slot) (*skill.Definition, bool) {
	d, ok := c.Skills[slot]
	return d, ok
}

// IsInvulnerable reports whether an invulnerability window is open.
func (c *Character) IsInvulnerable() bool {
	return c.Stats.InvulnerableTime > 0
}

// AddRage adds amount to the rage gauge, clamped to [0, MaxRage].
func (c *Character) AddRage(amount float64) {
	c.Stats.Rage = clamp(c.Stats.Rage+amount, 0, c.Stats.MaxRage)
}

// ChargeSecret adds amount to the secret gauge, clamped to [0, MaxSecretGauge].
func (c *Character) ChargeSecret(amount float64) {
	c.Stats.SecretGauge = clamp(c.Stats.SecretGauge+amount, 0, c.Stats.MaxSecretGauge)
}

// Tick advances the rage and invulnerability timers by dt seconds.
//
// Postcondition: RageDuration >= 0 and InvulnerableTime >= 0; RageActive is
// false whenever RageDuration reached 0 during this step.
func (c *Character) Tick(dt float64) {
	if c.Stats.RageActive || c.Stats.RageDuration > 0 {
		c.Stats.RageDuration -= dt
		if c.Stats.RageDuration <= 0 {
			c.Stats.RageDuration = 0
			c.Stats.RageActive = false
		}
	}
	if c.Stats.InvulnerableTime > 0 {
		c.Stats.InvulnerableTime -= dt
		if c.Stats.InvulnerableTime < 0 {
			c.Stats.InvulnerableTime = 0
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
