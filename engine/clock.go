package engine

import (
	"sync"
	"time"
)

// Clock reports time elapsed since the loop started.
type Clock interface {
	Elapsed() time.Duration
}

// WallClock measures real time from Start, or from the first Elapsed call if Start was never
// called.
type WallClock struct {
	once  sync.Once
	start time.Time
	now   func() time.Time
}

// NewWallClock returns an unstarted wall clock.
func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

// Start fixes the origin. Later calls do nothing.
func (c *WallClock) Start() {
	c.once.Do(func() {
		c.start = c.now()
	})
}

func (c *WallClock) Elapsed() time.Duration {
	c.Start()
	return c.now().Sub(c.start)
}

// ManualClock only moves when told to.
type ManualClock struct {
	elapsed time.Duration
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.elapsed += d
}

// Set jumps to an absolute elapsed time.
func (c *ManualClock) Set(d time.Duration) {
	c.elapsed = d
}

func (c *ManualClock) Elapsed() time.Duration {
	return c.elapsed
}
