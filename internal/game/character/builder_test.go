package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/game7/internal/game/character"
	"github.com/cory-johannsen/game7/internal/game/dice"
	"github.com/cory-johannsen/game7/internal/game/ruleset"
	"github.com/cory-johannsen/game7/internal/game/skill"
)

// noCrit never rolls under any crit chance below 0.99.
var noCrit = dice.Fixed(0.99)

func mustArchetype(t *testing.T, doc string) *ruleset.Archetype {
	t.Helper()
	a, err := ruleset.ParseArchetype([]byte(doc))
	require.NoError(t, err)
	return a
}

func buildDefault(t *testing.T, id string, src dice.Source) *character.Character {
	t.Helper()
	arch, ok := ruleset.MustLoad("").Archetype(id)
	require.True(t, ok, "archetype %s", id)
	c, err := character.Build(arch, src)
	require.NoError(t, err)
	return c
}

func TestBuild_AppliesOverrides(t *testing.T) {
	c := buildDefault(t, "Missy", noCrit)

	assert.Equal(t, "Missy", c.ID)
	assert.Equal(t, "Missy - Support/Loot", c.Name)
	assert.Equal(t, ruleset.ClassSupportLoot, c.Class)
	assert.Equal(t, 90.0, c.Stats.MaxHP)
	assert.Equal(t, 90.0, c.Stats.HP)
	assert.Equal(t, 18.0, c.Stats.Attack)
	assert.Equal(t, 10.0, c.Stats.Defense)
	assert.Equal(t, 25.0, c.Stats.Luck)
	assert.Equal(t, 100.0, c.Stats.Speed, "speed keeps its default")
	assert.Equal(t, 0.05, c.Stats.CritChance)
	assert.Equal(t, 1.5, c.Stats.CritDamage)
	assert.Equal(t, 1, c.Stats.Level)
	assert.Equal(t, 100, c.ExperienceNeeded)
	assert.False(t, c.Stats.IsMeleeAttacker)
}

func TestBuild_A1Flags(t *testing.T) {
	c := buildDefault(t, "A1", noCrit)
	assert.True(t, c.Stats.IsMeleeAttacker)
	assert.True(t, c.Stats.CanReflectBullets)
	assert.Len(t, c.Skills, 7)
}

func TestBuild_NilArguments(t *testing.T) {
	arch := mustArchetype(t, "id: x\nname: x\nclass: boss_slayer\n")
	_, err := character.Build(nil, noCrit)
	assert.Error(t, err)
	_, err = character.Build(arch, nil)
	assert.Error(t, err)
}

func TestBuild_SharesDefinitions(t *testing.T) {
	cat := ruleset.MustLoad("")
	arch, _ := cat.Archetype("A1")
	a, err := character.Build(arch, noCrit)
	require.NoError(t, err)
	b, err := character.Build(arch, noCrit)
	require.NoError(t, err)
	assert.Same(t, a.Skills[skill.S1], b.Skills[skill.S1])
}

// Property: a freshly built character always starts at full HP.
func TestBuild_StartsAtFullHP(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxHP := rapid.Float64Range(0, 1000).Draw(rt, "maxHP")
		arch, err := ruleset.ParseArchetype([]byte("id: x\nname: x\nclass: mob_slayer\n"))
		if err != nil {
			rt.Fatal(err)
		}
		arch.Stats.MaxHP = maxHP
		c, err := character.Build(arch, noCrit)
		if err != nil {
			rt.Fatal(err)
		}
		if c.Stats.HP != c.Stats.MaxHP {
			rt.Fatalf("HP %v != MaxHP %v", c.Stats.HP, c.Stats.MaxHP)
		}
	})
}
