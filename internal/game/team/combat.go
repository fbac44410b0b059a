package team

import (
	"github.com/cory-johannsen/game7/internal/game/character"
)

// ReflectEffect is the visual effect name sent with a successful reflection.
const ReflectEffect = "sword_reflect"

// ReflectResult is the outcome of a reflection attempt.
type ReflectResult struct {
	Success          bool   `json:"success"`
	Reason           string `json:"reason,omitempty"`
	ReflectedBullets int    `json:"reflected_bullets"`
	Character        string `json:"character,omitempty"`
	VisualEffect     string `json:"visual_effect,omitempty"`
}

// ReflectBullets reflects up to MaxReflectedBullets of incoming projectiles
// off character id.
func (e *Engine) ReflectBullets(id string, incoming int) ReflectResult {
	c, err := e.member(id)
	if err != nil {
		return ReflectResult{Reason: err.Error()}
	}
	if !c.Stats.CanReflectBullets {
		return ReflectResult{Reason: ErrCannotReflect.Error(), Character: id}
	}
	n := min(max(incoming, 0), MaxReflectedBullets)
	return ReflectResult{
		Success:          true,
		ReflectedBullets: n,
		Character:        id,
		VisualEffect:     ReflectEffect,
	}
}

// UseBasicAttack runs the basic attack of id, or of the active character when
// id is empty.
func (e *Engine) UseBasicAttack(id string) character.AttackResult {
	if id == "" {
		id = e.active
	}
	c, err := e.member(id)
	if err != nil {
		return character.AttackResult{Reason: err.Error(), VisualEffects: []character.VisualEffect{}}
	}
	return c.UseBasicAttack()
}

// Status is the per-member summary returned by TeamStatus.
type Status struct {
	HP          float64 `json:"hp"`
	MaxHP       float64 `json:"max_hp"`
	Level       int     `json:"level"`
	IsDefeated  bool    `json:"is_defeated"`
	ReviveTime  float64 `json:"revive_time"`
	Rage        float64 `json:"rage"`
	SecretGauge float64 `json:"secret_gauge"`
	RageActive  bool    `json:"rage_active"`
}

// TeamStatus summarizes every team member keyed by id.
func (e *Engine) TeamStatus() map[string]Status {
	out := make(map[string]Status, len(e.order))
	for _, id := range e.order {
		s := e.characters[id].Stats
		out[id] = Status{
			HP:          s.HP,
			MaxHP:       s.MaxHP,
			Level:       s.Level,
			IsDefeated:  s.IsDefeated,
			ReviveTime:  s.ReviveTimer,
			Rage:        s.Rage,
			SecretGauge: s.SecretGauge,
			RageActive:  s.RageActive,
		}
	}
	return out
}
