// Package gameserver hosts one shared combat engine: it serializes access to
// it and drives its clock from a wall-clock ticker.
package gameserver

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/game/team"
)

// Game guards a single Engine. Every request and every tick runs as one
// critical section through Do.
type Game struct {
	mu     sync.Mutex
	engine *team.Engine
	logger *zap.Logger
}

// NewGame wraps engine.
//
// Precondition: engine and logger must be non-nil.
func NewGame(engine *team.Engine, logger *zap.Logger) *Game {
	if engine == nil {
		panic("gameserver.NewGame: engine must not be nil")
	}
	if logger == nil {
		panic("gameserver.NewGame: logger must not be nil")
	}
	return &Game{engine: engine, logger: logger}
}

// Do runs fn with exclusive access to the engine and returns its error.
//
// Precondition: fn must not retain the engine after returning.
func (g *Game) Do(fn func(e *team.Engine) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.engine)
}

// Tick advances the engine by dt seconds under the lock.
func (g *Game) Tick(dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	wasOver := g.engine.CheckGameOver()
	g.engine.Tick(dt)
	if wasOver && !g.engine.CheckGameOver() {
		g.logger.Info("team recovered from wipe", zap.String("active", g.engine.ActiveID()))
	}
}
