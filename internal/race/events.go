package race

import (
	"time"

	"racer/internal/geom"
)

type EventType int

const (
	EventReady EventType = iota
	EventStarted
	EventCheckpoint
	EventLapStarted
	EventLapCompleted
	EventCollision
	EventPaused
	EventResumed
	EventRestarted
	EventFinished
)

var eventNames = [...]string{
	"ready", "started", "checkpoint", "lap-started", "lap-completed",
	"collision", "paused", "resumed", "restarted", "finished",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

type Event struct {
	Type       EventType
	At         time.Duration // clock time of the event
	Pos        geom.Vec3
	Lap        int
	Checkpoint int
	Duration   time.Duration // lap time for lap-completed, total for finished
	NewBest    bool
}

type EventHandler func(Event)

// EventBus delivers events synchronously on the ticking goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
	any      []EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

// SubscribeAll receives every event, after the typed handlers.
func (eb *EventBus) SubscribeAll(fn EventHandler) {
	eb.any = append(eb.any, fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
	for _, fn := range eb.any {
		fn(e)
	}
}
