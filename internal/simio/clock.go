// Package simio provides a scripted clock and pins for exercising the
// bit-level sensor protocols without hardware. Decoders busy-poll, so the
// clock auto-advances a little on every read; waveforms are expressed as
// level segments on the simulated timeline.
package simio

import "sync"

// Clock is a manually-driven microsecond clock implementing types.Clock.
// Every NowMicros call advances time by Step so that busy-wait loops make
// progress deterministically.
type Clock struct {
	mu   sync.Mutex
	now  int64
	step int64
}

// NewClock returns a clock starting at zero that advances stepMicros per
// NowMicros call (minimum 1).
func NewClock(stepMicros int64) *Clock {
	if stepMicros <= 0 {
		stepMicros = 1
	}
	return &Clock{step: stepMicros}
}

func (c *Clock) NowMicros() int64 {
	c.mu.Lock()
	c.now += c.step
	n := c.now
	c.mu.Unlock()
	return n
}

func (c *Clock) SleepMicros(n int64) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	c.now += n
	c.mu.Unlock()
}

// Advance moves time forward without a read.
func (c *Clock) Advance(n int64) { c.SleepMicros(n) }

// Peek returns the current time without advancing it.
func (c *Clock) Peek() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
