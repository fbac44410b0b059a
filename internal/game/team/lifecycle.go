package team

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/game/dice"
)

// Defeat marks id as defeated and starts its revive countdown. When id was
// active, the first living member in team order becomes active; if none is
// left the active id keeps pointing at id.
//
// Postcondition: on nil error IsDefeated is set and ReviveTimer is within the
// engine's revive window.
func (e *Engine) Defeat(id string) error {
	c, err := e.member(id)
	if err != nil {
		return err
	}
	c.Stats.IsDefeated = true
	c.Stats.ReviveTimer = dice.Uniform(e.src, e.window.Min, e.window.Max)
	e.logger.Info("character defeated",
		zap.String("character", id),
		zap.Float64("revive_in", c.Stats.ReviveTimer),
	)

	if id != e.active {
		return nil
	}
	for _, tid := range e.order {
		if !e.characters[tid].Stats.IsDefeated {
			e.active = tid
			e.logger.Debug("auto-switched active character", zap.String("to", tid))
			return nil
		}
	}
	e.logger.Info("team wiped")
	return nil
}

// DefeatCharacter reports whether Defeat succeeded.
func (e *Engine) DefeatCharacter(id string) bool {
	return e.Defeat(id) == nil
}

// Revive restores a defeated character to full HP. When the active character
// is itself defeated the revived one takes over. It fails with ErrNotDefeated
// for a living character and changes nothing.
func (e *Engine) Revive(id string) error {
	c, err := e.member(id)
	if err != nil {
		return err
	}
	if !c.Stats.IsDefeated {
		return fmt.Errorf("%w: %q", ErrNotDefeated, id)
	}
	c.Stats.IsDefeated = false
	c.Stats.ReviveTimer = 0
	c.Stats.HP = c.Stats.MaxHP
	e.logger.Info("character revived", zap.String("character", id))
	if e.characters[e.active].Stats.IsDefeated {
		e.active = id
	}
	return nil
}

// ReviveCharacter reports whether Revive succeeded. The second argument is
// the caller's instant flag; revival is always immediate so it does not change
// the outcome.
func (e *Engine) ReviveCharacter(id string, _ bool) bool {
	return e.Revive(id) == nil
}

// CheckGameOver reports whether every team member is defeated.
func (e *Engine) CheckGameOver() bool {
	for _, id := range e.order {
		if !e.characters[id].Stats.IsDefeated {
			return false
		}
	}
	return true
}

// Tick advances every character's timers by dt seconds and revives defeated
// members whose countdown has run out.
//
// Precondition: dt >= 0.
func (e *Engine) Tick(dt float64) {
	for _, id := range e.order {
		c := e.characters[id]
		c.Tick(dt)
		if !c.Stats.IsDefeated {
			continue
		}
		c.Stats.ReviveTimer -= dt
		if c.Stats.ReviveTimer <= 0 {
			// Revive cannot fail here: id is a defeated team member.
			_ = e.Revive(id)
		}
	}
}
