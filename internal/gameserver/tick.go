package gameserver

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TickLoop advances a Game once per interval, passing the measured wall-clock
// time since the previous tick as dt.
//
// Invariant: the game is ticked at most once per interval.
type TickLoop struct {
	game     *Game
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewTickLoop returns a stopped loop.
//
// Precondition: game and logger must be non-nil; interval must be > 0.
func NewTickLoop(game *Game, interval time.Duration, logger *zap.Logger) *TickLoop {
	if game == nil {
		panic("gameserver.NewTickLoop: game must not be nil")
	}
	if logger == nil {
		panic("gameserver.NewTickLoop: logger must not be nil")
	}
	if interval <= 0 {
		panic("gameserver.NewTickLoop: interval must be > 0")
	}
	return &TickLoop{
		game:     game,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start runs the loop until Stop is called. It always returns nil.
func (l *TickLoop) Start() error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	last := l.now()
	l.logger.Info("tick loop started", zap.Duration("interval", l.interval))
	for {
		select {
		case <-l.done:
			return nil
		case <-ticker.C:
			now := l.now()
			dt := now.Sub(last).Seconds()
			last = now
			if dt > 2*l.interval.Seconds() {
				l.logger.Warn("tick loop lagging",
					zap.Float64("dt", dt),
					zap.Duration("interval", l.interval),
				)
			}
			l.game.Tick(dt)
		}
	}
}

// Stop ends the loop. Calling it more than once is safe.
func (l *TickLoop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}
