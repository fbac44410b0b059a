package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/game7/internal/game/dice"
)

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64(), "draw %d diverged", i)
	}
}

func TestSeededSource_ZeroSeedEqualsOne(t *testing.T) {
	a := dice.NewSeededSource(0)
	b := dice.NewSeededSource(1)
	assert.Equal(t, a.Float64(), b.Float64())
}

func TestNewSource_ZeroSeedIsNonDeterministicKind(t *testing.T) {
	src := dice.NewSource(0)
	v := src.Float64()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestUniform_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		lo := rapid.Float64Range(-1000, 1000).Draw(rt, "lo")
		span := rapid.Float64Range(0, 1000).Draw(rt, "span")
		hi := lo + span

		v := dice.Uniform(dice.NewSeededSource(seed), lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, hi)
	})
}

func TestUniform_PanicsWhenInverted(t *testing.T) {
	assert.Panics(t, func() { dice.Uniform(dice.Fixed(0.5), 60, 40) })
}

func TestFixed_Chance(t *testing.T) {
	assert.True(t, dice.Chance(dice.Fixed(0), 0.05))
	assert.False(t, dice.Chance(dice.Fixed(0.99), 0.05))
	assert.False(t, dice.Chance(dice.Fixed(0), 0))
}

func TestLoggedSource_LogsEachDraw(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	src := dice.NewLoggedSource(dice.Fixed(0.25), zap.New(core))

	assert.Equal(t, 0.25, src.Float64())
	assert.Equal(t, 0.25, src.Float64())

	entries := logs.FilterMessage("random draw").All()
	require.Len(t, entries, 2)
	assert.Equal(t, 0.25, entries[0].ContextMap()["value"])
}

func TestNewLoggedSource_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { dice.NewLoggedSource(nil, zap.NewNop()) })
}
