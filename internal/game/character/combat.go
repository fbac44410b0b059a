package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/game7/internal/game/dice"
	"github.com/cory-johannsen/game7/internal/game/skill"
)

const (
	// RageThreshold is the minimum rage needed to activate the rage skill.
	RageThreshold = 50.0
	// RageDuration is how long rage lasts once activated, in seconds.
	RageDuration = 10.0
	// RageDamageMultiplier scales all damage while rage is active.
	RageDamageMultiplier = 1.25
	// InvulnerabilityWindow is granted by rage and secret activations, in seconds.
	InvulnerabilityWindow = 0.4
)

// Activation failures. All are soft: the caller decides how to surface them.
var (
	ErrSkillNotFound    = errors.New("skill not found")
	ErrInsufficientHP   = errors.New("insufficient hp")
	ErrSecretNotCharged = errors.New("secret gauge not full")
	ErrInsufficientRage = errors.New("insufficient rage")
	ErrNoBasicAttack    = errors.New("character has no basic attack")
)

// VisualEffect describes one hit of a melee basic attack for the client.
type VisualEffect struct {
	Type      string  `json:"type"`
	HitNumber int     `json:"hit_number"`
	Damage    float64 `json:"damage"`
	Direction string  `json:"direction"`
}

// AttackResult is the outcome of a basic attack.
type AttackResult struct {
	Success            bool           `json:"success"`
	Reason             string         `json:"reason,omitempty"`
	SkillName          string         `json:"skill_name,omitempty"`
	IsMelee            bool           `json:"is_melee"`
	HitCount           int            `json:"hit_count"`
	TotalDamage        float64        `json:"total_damage"`
	BulletReflectCount int            `json:"bullet_reflect_count"`
	VisualEffects      []VisualEffect `json:"visual_effects"`
}

// ActivateSkill runs the activation checks for slot and, when all pass,
// applies the costs and effects.
//
// Checks, in order: the slot exists; an HP cost leaves strictly more HP than
// it consumes; the secret gauge is exactly full; rage is at least
// RageThreshold. Nothing is mutated unless every check passes.
//
// Postcondition: on nil error HP has been debited, and a secret activation has
// emptied the gauge, and a rage activation has started the rage timer; both
// open an InvulnerabilityWindow.
func (c *Character) ActivateSkill(slot skill.Slot) error {
	def, ok := c.Skills[slot]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSkillNotFound, slot)
	}

	var hpCost float64
	if def.HPCost > 0 {
		hpCost = c.Stats.MaxHP * (def.HPCost / 100)
		if c.Stats.HP <= hpCost {
			return fmt.Errorf("%w: need more than %.1f, have %.1f", ErrInsufficientHP, hpCost, c.Stats.HP)
		}
	}
	switch slot {
	case skill.Secret:
		if c.Stats.SecretGauge != c.Stats.MaxSecretGauge {
			return ErrSecretNotCharged
		}
	case skill.Rage:
		if c.Stats.Rage < RageThreshold {
			return ErrInsufficientRage
		}
	}

	c.Stats.HP -= hpCost
	switch slot {
	case skill.Secret:
		c.Stats.SecretGauge = 0
		c.Stats.InvulnerableTime = InvulnerabilityWindow
	case skill.Rage:
		c.Stats.RageActive = true
		c.Stats.RageDuration = RageDuration
		c.Stats.InvulnerableTime = InvulnerabilityWindow
	}
	return nil
}

// UseSkill reports whether slot was activated. See ActivateSkill.
func (c *Character) UseSkill(slot skill.Slot) bool {
	return c.ActivateSkill(slot) == nil
}

// CalculateDamage returns the damage of one hit of the skill in slot, or 0
// when the slot is empty. Every call makes a fresh crit draw; defense is not
// applied.
//
// Postcondition: result >= 0.
func (c *Character) CalculateDamage(slot skill.Slot) float64 {
	def, ok := c.Skills[slot]
	if !ok {
		return 0
	}
	damage := def.BaseDamage * c.Stats.Attack / 100
	if c.Stats.RageActive {
		damage *= RageDamageMultiplier
	}
	if dice.Chance(c.src, c.Stats.CritChance) {
		damage *= c.Stats.CritDamage
	}
	return damage
}

// UseBasicAttack performs every hit of the basic attack. Melee basics emit one
// slash effect per hit, alternating left and right starting with left.
func (c *Character) UseBasicAttack() AttackResult {
	def, ok := c.Skills[skill.Basic]
	if !ok {
		return AttackResult{Reason: ErrNoBasicAttack.Error()}
	}

	res := AttackResult{
		Success:            true,
		SkillName:          def.Name,
		IsMelee:            def.IsMelee,
		HitCount:           def.HitCount,
		BulletReflectCount: def.BulletReflectCount,
		VisualEffects:      []VisualEffect{},
	}
	for i := 0; i < def.HitCount; i++ {
		dmg := c.CalculateDamage(skill.Basic)
		res.TotalDamage += dmg
		if def.IsMelee {
			res.VisualEffects = append(res.VisualEffects, VisualEffect{
				Type:      "slash",
				HitNumber: i + 1,
				Damage:    dmg,
				Direction: slashDirection(i),
			})
		}
	}
	return res
}

func slashDirection(hit int) string {
	if hit%2 == 0 {
		return "left"
	}
	return "right"
}
