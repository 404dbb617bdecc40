// SPDX-License-Identifier: GPL-2.0-or-later

package frame

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"goquake3/math"
)

const (
	MinFPS     = 10
	MaxFPS     = 1000
	DefaultFPS = 72
)

// Limiter splits every second into maxFPS slots and allows one frame per
// slot.
type Limiter struct {
	l *rate.Limiter
}

func NewLimiter(maxFPS int) *Limiter {
	fps := math.Clamp(MinFPS, maxFPS, MaxFPS)
	return &Limiter{
		l: rate.NewLimiter(rate.Limit(fps), 1),
	}
}

// Allow reports whether a frame may be drawn at t.
func (l *Limiter) Allow(t time.Time) bool {
	return l.l.AllowN(t, 1)
}

// Wait blocks until the next frame may be drawn.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.l.Wait(ctx)
}

func (l *Limiter) MaxFPS() float64 {
	return float64(l.l.Limit())
}

// Counter measures the frame rate once per second.
type Counter struct {
	log    zerolog.Logger
	start  time.Time
	frames int
	fps    float64
}

func NewCounter(log zerolog.Logger) *Counter {
	return &Counter{log: log}
}

// Frame counts one drawn frame at t and returns the last measured rate.
func (c *Counter) Frame(t time.Time) float64 {
	if c.start.IsZero() {
		c.start = t
	}
	c.frames++
	elapsed := t.Sub(c.start)
	if elapsed >= time.Second {
		c.fps = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.start = t
		c.log.Debug().Float64("fps", c.fps).Msg("Frame rate")
	}
	return c.fps
}

func (c *Counter) FPS() float64 {
	return c.fps
}
