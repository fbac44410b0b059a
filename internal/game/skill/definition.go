package skill

// Definition is the static descriptor of one skill.
//
// Definitions are created once when the catalog loads and are shared by
// pointer between every activation; nothing mutates them afterwards.
type Definition struct {
	Name string
	Slot Slot
	// BaseDamage is a percentage of the user's attack stat.
	BaseDamage float64
	// Cooldown is informational. Activation is gated by gauges, not cooldowns.
	Cooldown float64
	// HPCost is a percentage of the user's max HP paid on activation.
	HPCost       float64
	Description  string
	IsMelee      bool
	IsProjectile bool
	// HitCount is the number of independent damage instances per activation.
	HitCount int
	// BulletReflectCount is a defensive rating and does not enter damage math.
	BulletReflectCount int
	SpecialEffects     map[string]any
}
