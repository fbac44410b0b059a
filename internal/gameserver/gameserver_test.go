package gameserver_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/game7/internal/game/dice"
	"github.com/cory-johannsen/game7/internal/game/ruleset"
	"github.com/cory-johannsen/game7/internal/game/team"
	"github.com/cory-johannsen/game7/internal/gameserver"
)

func newGame(t *testing.T, window team.ReviveWindow) *gameserver.Game {
	t.Helper()
	cat, err := ruleset.Default()
	require.NoError(t, err)
	e, err := team.New(cat, dice.Fixed(0.5), window, zap.NewNop())
	require.NoError(t, err)
	return gameserver.NewGame(e, zap.NewNop())
}

func TestGame_DoPropagatesError(t *testing.T) {
	g := newGame(t, team.DefaultReviveWindow())
	sentinel := errors.New("boom")
	assert.ErrorIs(t, g.Do(func(*team.Engine) error { return sentinel }), sentinel)
	assert.NoError(t, g.Do(func(e *team.Engine) error { return e.Switch("Missy") }))
	_ = g.Do(func(e *team.Engine) error {
		assert.Equal(t, "Missy", e.ActiveID())
		return nil
	})
}

func TestGame_DoSerializesAccess(t *testing.T) {
	g := newGame(t, team.DefaultReviveWindow())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Do(func(e *team.Engine) error {
				c, _ := e.Character("A1")
				c.GainExperience(1)
				return nil
			})
			g.Tick(0.01)
		}()
	}
	wg.Wait()
	_ = g.Do(func(e *team.Engine) error {
		c, _ := e.Character("A1")
		assert.Equal(t, 50, c.Experience)
		return nil
	})
}

func TestGame_TickRevives(t *testing.T) {
	g := newGame(t, team.ReviveWindow{Min: 1, Max: 1})
	require.NoError(t, g.Do(func(e *team.Engine) error {
		for _, id := range e.Team() {
			if err := e.Defeat(id); err != nil {
				return err
			}
		}
		return nil
	}))
	g.Tick(1)
	_ = g.Do(func(e *team.Engine) error {
		assert.False(t, e.CheckGameOver())
		return nil
	})
}

func TestNewGame_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { gameserver.NewGame(nil, zap.NewNop()) })
}

func TestTickLoop_AdvancesEngine(t *testing.T) {
	g := newGame(t, team.ReviveWindow{Min: 0.05, Max: 0.05})
	require.NoError(t, g.Do(func(e *team.Engine) error { return e.Defeat("Unique") }))

	loop := gameserver.NewTickLoop(g, 10*time.Millisecond, zap.NewNop())
	done := make(chan error, 1)
	go func() { done <- loop.Start() }()
	defer loop.Stop()

	require.Eventually(t, func() bool {
		revived := false
		_ = g.Do(func(e *team.Engine) error {
			u, _ := e.Character("Unique")
			revived = !u.Stats.IsDefeated
			return nil
		})
		return revived
	}, 2*time.Second, 10*time.Millisecond)

	loop.Stop()
	loop.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("tick loop did not stop")
	}
}

func TestTickLoop_StopBeforeFirstTick(t *testing.T) {
	g := newGame(t, team.ReviveWindow{Min: 0.01, Max: 0.01})
	require.NoError(t, g.Do(func(e *team.Engine) error { return e.Defeat("Missy") }))

	loop := gameserver.NewTickLoop(g, time.Hour, zap.NewNop())
	loop.Stop()
	require.NoError(t, loop.Start())

	_ = g.Do(func(e *team.Engine) error {
		m, _ := e.Character("Missy")
		assert.True(t, m.Stats.IsDefeated, "no tick should have run")
		return nil
	})
}

func TestNewTickLoop_PanicsOnBadInterval(t *testing.T) {
	g := newGame(t, team.DefaultReviveWindow())
	assert.Panics(t, func() { gameserver.NewTickLoop(g, 0, zap.NewNop()) })
}
