// Package skill defines skill slots and the immutable skill descriptors that
// populate each character's loadout.
package skill

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSlot is returned when a slot name does not name any Slot.
var ErrUnknownSlot = errors.New("unknown skill slot")

// Slot identifies one of the seven skill positions a character can fill.
type Slot int

const (
	// Basic is the multi-hit basic attack.
	Basic Slot = iota
	S1
	S2
	S3
	S4
	// Rage activates the timed rage buff.
	Rage
	// Secret is the gauge-gated ultimate.
	Secret
)

var slotNames = [...]string{
	Basic:  "basic",
	S1:     "s1",
	S2:     "s2",
	S3:     "s3",
	S4:     "s4",
	Rage:   "rage",
	Secret: "secret",
}

// Slots returns every Slot in declaration order.
func Slots() []Slot {
	return []Slot{Basic, S1, S2, S3, S4, Rage, Secret}
}

// Valid reports whether s is one of the declared slots.
func (s Slot) Valid() bool {
	return s >= Basic && s <= Secret
}

// String returns the wire name of the slot ("basic", "s1".."s4", "rage", "secret").
func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotNames[s]
}

// ParseSlot resolves a wire name to a Slot. Matching is case-insensitive and
// also accepts the legacy aliases "r1" (rage) and "x1" (secret).
//
// Postcondition: Returns a valid Slot, or ErrUnknownSlot wrapped with the input.
func ParseSlot(name string) (Slot, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "r1":
		return Rage, nil
	case "x1":
		return Secret, nil
	}
	for i, sn := range slotNames {
		if sn == n {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
}

// MarshalText implements encoding.TextMarshaler so a Slot can key JSON maps.
func (s Slot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSlot, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Slot) UnmarshalText(b []byte) error {
	v, err := ParseSlot(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
