// Package team owns the playable roster: which characters are on the team,
// which one is active, and the defeat and revival lifecycle across them.
//
// The Engine holds no locks. Callers that share an Engine across goroutines
// must serialize every call.
package team

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/game/character"
	"github.com/cory-johannsen/game7/internal/game/dice"
	"github.com/cory-johannsen/game7/internal/game/ruleset"
)

// MaxReflectedBullets caps how many projectiles a single swing can reflect.
const MaxReflectedBullets = 5

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrNotOnTeam         = errors.New("character not on team")
	ErrCharacterDefeated = errors.New("character is defeated")
	ErrNotDefeated       = errors.New("character is not defeated")
	ErrCannotReflect     = errors.New("character cannot reflect bullets")
)

// ReviveWindow bounds the automatic revive countdown in seconds.
type ReviveWindow struct {
	Min float64
	Max float64
}

// DefaultReviveWindow returns the 40 to 60 second countdown.
func DefaultReviveWindow() ReviveWindow {
	return ReviveWindow{Min: 40, Max: 60}
}

// Progress holds the run counters. The engine stores them but never reads them.
type Progress struct {
	Stage  int `json:"stage"`
	Wave   int `json:"wave"`
	Kills  int `json:"kills"`
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Gems   int `json:"gems"`
}

// Engine coordinates a team of characters.
//
// Invariant: active names a team member; it names a defeated member only while
// every member is defeated.
type Engine struct {
	characters map[string]*character.Character
	order      []string
	active     string
	progress   Progress
	window     ReviveWindow
	src        dice.Source
	logger     *zap.Logger
}

// New builds one character per catalog archetype, in team order, and makes the
// first one active.
//
// Precondition: cat, src, and logger must be non-nil; window.Min <= window.Max.
// Postcondition: Returns an Engine at stage 1, wave 1 with every character at
// full HP, or an error if any archetype fails to build.
func New(cat *ruleset.Catalog, src dice.Source, window ReviveWindow, logger *zap.Logger) (*Engine, error) {
	if cat == nil {
		panic("team.New: catalog must not be nil")
	}
	if src == nil {
		panic("team.New: source must not be nil")
	}
	if logger == nil {
		panic("team.New: logger must not be nil")
	}
	if window.Max < window.Min || window.Min < 0 {
		panic(fmt.Sprintf("team.New: invalid revive window [%v, %v]", window.Min, window.Max))
	}

	e := &Engine{
		characters: make(map[string]*character.Character),
		progress:   Progress{Stage: 1, Wave: 1},
		window:     window,
		src:        src,
		logger:     logger,
	}
	for _, arch := range cat.Archetypes() {
		c, err := character.Build(arch, src)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", arch.ID, err)
		}
		e.characters[c.ID] = c
		e.order = append(e.order, c.ID)
	}
	if len(e.order) == 0 {
		return nil, errors.New("catalog has no archetypes")
	}
	e.active = e.order[0]
	return e, nil
}

// Character returns the character with id.
func (e *Engine) Character(id string) (*character.Character, bool) {
	c, ok := e.characters[id]
	return c, ok
}

// ActiveCharacter returns the currently active character.
func (e *Engine) ActiveCharacter() (*character.Character, bool) {
	return e.Character(e.active)
}

// ActiveID returns the id of the active character.
func (e *Engine) ActiveID() string {
	return e.active
}

// Team returns the team member ids in team order.
func (e *Engine) Team() []string {
	return append([]string(nil), e.order...)
}

// Characters returns the team members in team order.
func (e *Engine) Characters() []*character.Character {
	out := make([]*character.Character, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.characters[id])
	}
	return out
}

// Progress returns the run counters.
func (e *Engine) Progress() Progress {
	return e.progress
}

// SetProgress replaces the run counters.
func (e *Engine) SetProgress(p Progress) {
	e.progress = p
}

func (e *Engine) member(id string) (*character.Character, error) {
	c, ok := e.characters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCharacterNotFound, id)
	}
	for _, tid := range e.order {
		if tid == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotOnTeam, id)
}

// Switch makes id the active character.
//
// Postcondition: on error the active character is unchanged.
func (e *Engine) Switch(id string) error {
	c, err := e.member(id)
	if err != nil {
		return err
	}
	if c.Stats.IsDefeated {
		return fmt.Errorf("%w: %q", ErrCharacterDefeated, id)
	}
	if e.active != id {
		e.logger.Debug("switching active character", zap.String("from", e.active), zap.String("to", id))
	}
	e.active = id
	return nil
}

// SwitchCharacter reports whether Switch succeeded.
func (e *Engine) SwitchCharacter(id string) bool {
	return e.Switch(id) == nil
}

// SetActiveCharacter points the engine at id without the defeat check. It is
// used when restoring a saved game, where the all-defeated state is legal.
func (e *Engine) SetActiveCharacter(id string) error {
	if _, err := e.member(id); err != nil {
		return err
	}
	e.active = id
	return nil
}
