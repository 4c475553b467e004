// Package clock provides the built-in playback clock: a tick source that
// stands in for a native media element's time updates when the player runs
// headless. Position advances with wall-clock time while playing.
package clock

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type cmdKind int

const (
	cmdPlay cmdKind = iota
	cmdPause
	cmdSeek
	cmdPosition
)

type command struct {
	kind  cmdKind
	pos   float64
	reply chan float64
}

// PlaybackClock emits the playback position on every tick interval while
// playing. A single goroutine owns the position; Play, Pause, Seek and
// Position serialize through it
type PlaybackClock struct {
	interval time.Duration
	logger   *zap.Logger
	cmds     chan command
	ticks    chan float64

	done     chan struct{}
	finalPos float64
}

// NewPlaybackClock creates a clock ticking at the given interval
func NewPlaybackClock(interval time.Duration) *PlaybackClock {
	return NewPlaybackClockWithLogger(interval, zap.NewNop())
}

// NewPlaybackClockWithLogger creates a clock with a custom logger
func NewPlaybackClockWithLogger(interval time.Duration, logger *zap.Logger) *PlaybackClock {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &PlaybackClock{
		interval: interval,
		logger:   logger,
		cmds:     make(chan command, 16),
		ticks:    make(chan float64, 16),
		done:     make(chan struct{}),
	}
}

// Start launches the clock loop. Commands issued before Start queue up and
// take effect once the loop runs
func (c *PlaybackClock) Start(ctx context.Context) error {
	go c.run(ctx)
	return nil
}

// Ticks returns the tick stream. Each value is the playback position in
// seconds at emission time
func (c *PlaybackClock) Ticks() <-chan float64 {
	return c.ticks
}

// Play resumes the clock and emits an immediate tick. A no-op once the
// clock has stopped
func (c *PlaybackClock) Play() {
	c.send(command{kind: cmdPlay})
}

// Pause freezes the position. A no-op once the clock has stopped
func (c *PlaybackClock) Pause() {
	c.send(command{kind: cmdPause})
}

// Seek jumps to the given position and emits an immediate tick so consumers
// catch up without waiting for the next interval. A no-op once the clock
// has stopped
func (c *PlaybackClock) Seek(pos float64) {
	if pos < 0 {
		pos = 0
	}
	c.send(command{kind: cmdSeek, pos: pos})
}

// Position returns the current playback position in seconds. After the
// clock has stopped it returns the position frozen at shutdown
func (c *PlaybackClock) Position() float64 {
	reply := make(chan float64, 1)
	select {
	case c.cmds <- command{kind: cmdPosition, reply: reply}:
	case <-c.done:
		return c.finalPos
	}

	select {
	case pos := <-reply:
		return pos
	case <-c.done:
		// command was queued but the loop exited before serving it
		return c.finalPos
	}
}

// send queues a command unless the loop has already exited
func (c *PlaybackClock) send(cmd command) {
	select {
	case c.cmds <- cmd:
	case <-c.done:
	}
}

func (c *PlaybackClock) run(ctx context.Context) {
	c.logger.Info("playback clock started",
		zap.Duration("tick_interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	playing := false
	base := 0.0
	startedAt := time.Time{}

	position := func() float64 {
		if playing {
			return base + time.Since(startedAt).Seconds()
		}
		return base
	}

	emit := func() {
		select {
		case c.ticks <- position():
			// delivered
		default:
			// consumer behind, drop this tick
		}
	}

	for {
		select {
		case <-ctx.Done():
			c.finalPos = position()
			c.logger.Info("playback clock stopped",
				zap.Float64("position", c.finalPos))
			close(c.ticks)
			close(c.done)
			return

		case cmd := <-c.cmds:
			switch cmd.kind {
			case cmdPlay:
				if !playing {
					playing = true
					startedAt = time.Now()
					c.logger.Debug("playback resumed",
						zap.Float64("position", base))
				}
				emit()
			case cmdPause:
				if playing {
					base = position()
					playing = false
					c.logger.Debug("playback paused",
						zap.Float64("position", base))
				}
			case cmdSeek:
				base = cmd.pos
				if playing {
					startedAt = time.Now()
				}
				c.logger.Debug("playback seek",
					zap.Float64("position", base))
				emit()
			case cmdPosition:
				cmd.reply <- position()
			}

		case <-ticker.C:
			if playing {
				emit()
			}
		}
	}
}
