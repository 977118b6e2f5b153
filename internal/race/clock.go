package race

import "time"

// Clock is a monotonic time source measured from an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// WallClock reads the process monotonic clock.
type WallClock struct {
	origin time.Time
}

func NewWallClock() *WallClock { return &WallClock{origin: time.Now()} }

func (c *WallClock) Now() time.Duration { return time.Since(c.origin) }

// ManualClock only moves when told to. Headless runs and tests use it.
type ManualClock struct {
	t time.Duration
}

func (c *ManualClock) Now() time.Duration { return c.t }

func (c *ManualClock) Advance(d time.Duration) { c.t += d }

// AdvanceSeconds is Advance for float seconds.
func (c *ManualClock) AdvanceSeconds(s float64) {
	c.t += time.Duration(s * float64(time.Second))
}
