package vehicle

import (
	"time"

	"racer/internal/geom"
	"racer/internal/track"
)

// EventKind tags what the checkpoint detector saw this tick.
type EventKind int

const (
	EventNone EventKind = iota
	EventCheckpoint
	EventLapStarted   // first start/finish crossing, nothing recorded
	EventLapCompleted // Duration holds the lap time
)

func (k EventKind) String() string {
	switch k {
	case EventCheckpoint:
		return "checkpoint"
	case EventLapStarted:
		return "lap-started"
	case EventLapCompleted:
		return "lap-completed"
	}
	return "none"
}

// Event is returned by Car.Update; the zero value means nothing happened.
type Event struct {
	Kind       EventKind
	Checkpoint int // index passed
	Lap        int // lap number after the crossing
	Duration   time.Duration
	NewBest    bool
}

// LapRecord is the lap bookkeeping. Only Cross and Reset mutate it.
type LapRecord struct {
	Next     int // index of the checkpoint that must be crossed next
	Lap      int // starts at 1 before the first start/finish crossing
	LapStart time.Duration
	Laps     []time.Duration
	Best     time.Duration
	HasBest  bool
}

func NewLapRecord(now time.Duration) LapRecord {
	return LapRecord{Lap: 1, LapStart: now}
}

func (r *LapRecord) Reset(now time.Duration) {
	*r = NewLapRecord(now)
}

// Cross tests the motion from-to against the next checkpoint. A fast car can
// pass several gates in one tick, so the same motion is tested again against
// each new next gate. Gates out of order are ignored. When a lap boundary is
// among the gates passed, its event is the one returned.
func (r *LapRecord) Cross(from, to geom.Vec3, gates []track.Checkpoint, now time.Duration) Event {
	if len(gates) == 0 {
		return Event{}
	}
	if r.Next >= len(gates) || r.Next < 0 {
		r.Next = 0
	}
	var ev Event
	for range gates {
		next, ok := r.crossNext(from, to, gates, now)
		if !ok {
			break
		}
		if ev.Kind != EventLapStarted && ev.Kind != EventLapCompleted {
			ev = next
		}
	}
	return ev
}

func (r *LapRecord) crossNext(from, to geom.Vec3, gates []track.Checkpoint, now time.Duration) (Event, bool) {
	if !gates[r.Next].Crosses(from, to) {
		return Event{}, false
	}

	passed := r.Next
	r.Next = (r.Next + 1) % len(gates)
	if r.Next != 0 {
		return Event{Kind: EventCheckpoint, Checkpoint: passed, Lap: r.Lap}, true
	}

	ev := Event{Kind: EventLapStarted, Checkpoint: passed}
	if r.Lap > 1 {
		d := now - r.LapStart
		r.Laps = append(r.Laps, d)
		ev.Kind = EventLapCompleted
		ev.Duration = d
		if !r.HasBest || d < r.Best {
			r.Best, r.HasBest = d, true
			ev.NewBest = true
		}
	}
	r.LapStart = now
	r.Lap++
	ev.Lap = r.Lap
	return ev, true
}

// Current is the running time of the lap in progress.
func (r *LapRecord) Current(now time.Duration) time.Duration {
	if now < r.LapStart {
		return 0
	}
	return now - r.LapStart
}

// Last returns the most recently completed lap.
func (r *LapRecord) Last() (time.Duration, bool) {
	if len(r.Laps) == 0 {
		return 0, false
	}
	return r.Laps[len(r.Laps)-1], true
}

// Total sums the completed laps.
func (r *LapRecord) Total() time.Duration {
	var sum time.Duration
	for _, l := range r.Laps {
		sum += l
	}
	return sum
}
