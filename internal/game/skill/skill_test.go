package skill_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/game7/internal/game/skill"
)

func TestParseSlot_KnownNames(t *testing.T) {
	cases := map[string]skill.Slot{
		"basic":  skill.Basic,
		"s1":     skill.S1,
		"S2":     skill.S2,
		" s3 ":   skill.S3,
		"s4":     skill.S4,
		"rage":   skill.Rage,
		"r1":     skill.Rage,
		"secret": skill.Secret,
		"X1":     skill.Secret,
	}
	for in, want := range cases {
		got, err := skill.ParseSlot(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestParseSlot_Unknown(t *testing.T) {
	_, err := skill.ParseSlot("s5")
	require.Error(t, err)
	assert.ErrorIs(t, err, skill.ErrUnknownSlot)
}

func TestSlot_StringRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.SampledFrom(skill.Slots()).Draw(rt, "slot")
		got, err := skill.ParseSlot(s.String())
		if err != nil {
			rt.Fatal(err)
		}
		if got != s {
			rt.Fatalf("ParseSlot(%q) = %v, want %v", s.String(), got, s)
		}
	})
}

func TestSlot_InvalidString(t *testing.T) {
	assert.Equal(t, "slot(42)", skill.Slot(42).String())
	assert.False(t, skill.Slot(-1).Valid())
}

func TestSlot_JSONMapKeys(t *testing.T) {
	m := map[skill.Slot]int{skill.Basic: 1, skill.Secret: 2}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"basic":1,"secret":2}`, string(b))

	var back map[skill.Slot]int
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, m, back)
}
