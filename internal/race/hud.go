package race

import "time"

// HUD is what the frontend draws each frame.
type HUD struct {
	State       State
	Lap         int // clamped to TotalLaps for display
	TotalLaps   int
	Current     time.Duration
	Last        time.Duration
	HasLast     bool
	Best        time.Duration
	HasBest     bool
	SpeedKmh    int
	Checkpoint  int // next gate to cross
	Checkpoints int
	FPS         int
}

// HUD snapshots the session for display.
func (d *Driver) HUD() HUD {
	laps := &d.car.Laps
	h := HUD{
		State:       d.state,
		Lap:         laps.Lap,
		TotalLaps:   d.cfg.TotalLaps,
		Best:        laps.Best,
		HasBest:     laps.HasBest,
		SpeedKmh:    d.car.SpeedKmh(),
		Checkpoint:  laps.Next,
		Checkpoints: len(d.track.Checkpoints()),
		FPS:         d.fps,
	}
	if h.Lap > h.TotalLaps {
		h.Lap = h.TotalLaps
	}
	h.Last, h.HasLast = laps.Last()
	switch d.state {
	case StateRunning:
		h.Current = laps.Current(d.clock.Now())
	case StatePaused:
		h.Current = laps.Current(d.lastTick)
	}
	return h
}
