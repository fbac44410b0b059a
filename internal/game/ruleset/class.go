package ruleset

// Class is the role archetype tag carried by every character.
type Class string

const (
	ClassBossSlayer  Class = "boss_slayer"
	ClassMobSlayer   Class = "mob_slayer"
	ClassSupportLoot Class = "support_loot"
)

// Valid reports whether c is one of the three declared role archetypes.
func (c Class) Valid() bool {
	switch c {
	case ClassBossSlayer, ClassMobSlayer, ClassSupportLoot:
		return true
	}
	return false
}
