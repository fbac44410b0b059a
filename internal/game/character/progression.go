package character

import "math"

// LevelUp performs a single level step when Experience has reached
// ExperienceNeeded.
//
// Postcondition: on true, Level and SkillPoints are incremented, HP == MaxHP,
// and ExperienceNeeded == floor(100 * 1.15^Level).
func (c *Character) LevelUp() bool {
	if c.ExperienceNeeded <= 0 || c.Experience < c.ExperienceNeeded {
		return false
	}
	c.Experience -= c.ExperienceNeeded
	c.Stats.Level++
	c.SkillPoints++

	lvl := float64(c.Stats.Level)
	c.Stats.MaxHP += 10 + 2*lvl
	c.Stats.HP = c.Stats.MaxHP
	c.Stats.Attack += 3 + 0.5*lvl
	c.Stats.Defense += 2 + 0.3*lvl
	c.ExperienceNeeded = ExperienceForLevel(c.Stats.Level)
	return true
}

// GainExperience adds amount and levels up as many times as the accumulated
// experience allows. Negative amounts are the caller's responsibility.
//
// Postcondition: Experience < ExperienceNeeded; returns true iff at least one
// level was gained.
func (c *Character) GainExperience(amount int) bool {
	c.Experience += amount
	leveled := false
	for c.LevelUp() {
		leveled = true
	}
	return leveled
}

// ExperienceForLevel returns the experience needed to advance past level.
func ExperienceForLevel(level int) int {
	return int(math.Floor(BaseExperienceNeeded * math.Pow(1.15, float64(level))))
}
