package race

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racer/internal/geom"
	"racer/internal/track"
	"racer/internal/vehicle"
)

func squareTrack(t *testing.T) *track.Track {
	t.Helper()
	pts := []geom.Vec3{geom.V3(0, 0, 0), geom.V3(0, 0, 60), geom.V3(60, 0, 60), geom.V3(60, 0, 0), geom.V3(0, 0, 0)}
	tr, err := track.New(pts, track.DefaultParams(12))
	require.NoError(t, err)
	return tr
}

type harness struct {
	clock  *ManualClock
	driver *Driver
	events []Event
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	tr := squareTrack(t)
	h := &harness{clock: &ManualClock{}}
	car := vehicle.New(vehicle.DefaultParams(), vehicle.Pose{Pos: tr.StartPosition()}, 0, nil)
	bus := NewEventBus()
	bus.SubscribeAll(func(e Event) { h.events = append(h.events, e) })
	h.driver = NewDriver(cfg, tr, car, h.clock, bus, zerolog.Nop())
	return h
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	h.clock.Advance(h.driver.Config().LoadDelay)
	require.True(t, h.driver.Start())
}

// crossGate places the car just before gate i and ticks once so it drives across.
func (h *harness) crossGate(i int, after time.Duration) {
	tr := h.driver.Track()
	gate := tr.Checkpoints()[i]
	dir := tr.Direction(i)
	car := h.driver.Car()
	car.Pos = gate.Mid().Sub(dir.Scale(0.25))
	car.Pos.Y = 0.5
	car.Heading = math.Atan2(dir.X, dir.Z)
	car.Speed = 36
	h.clock.Advance(after)
	h.driver.Tick(vehicle.Controls{})
}

func (h *harness) lap(lapTime time.Duration) {
	n := len(h.driver.Track().Checkpoints())
	step := lapTime / time.Duration(n)
	for i := 0; i < n-1; i++ {
		h.crossGate(i, step)
	}
	h.crossGate(n-1, lapTime-step*time.Duration(n-1))
}

func (h *harness) types() []EventType {
	out := make([]EventType, len(h.events))
	for i, e := range h.events {
		out[i] = e.Type
	}
	return out
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.LoadDelay = time.Second
	return cfg
}

func TestLoadingGate(t *testing.T) {
	h := newHarness(t, fastConfig())
	assert.Equal(t, StateLoading, h.driver.State())
	assert.False(t, h.driver.Start())

	h.clock.Advance(500 * time.Millisecond)
	h.driver.Tick(vehicle.Controls{Forward: true})
	assert.Equal(t, StateLoading, h.driver.State())

	h.clock.Advance(500 * time.Millisecond)
	h.driver.Tick(vehicle.Controls{Forward: true})
	assert.Equal(t, StateReady, h.driver.State())
	assert.Equal(t, 0.0, h.driver.Car().Speed)

	require.True(t, h.driver.Start())
	assert.Equal(t, StateRunning, h.driver.State())
	assert.Equal(t, []EventType{EventReady, EventStarted}, h.types())
}

func TestFullRaceRecordsLaps(t *testing.T) {
	h := newHarness(t, fastConfig())
	h.start(t)

	h.lap(20 * time.Second) // warm-up loop: starts timing
	assert.Equal(t, 2, h.driver.Car().Laps.Lap)
	assert.Empty(t, h.driver.Car().Laps.Laps)

	h.lap(31 * time.Second)
	assert.Equal(t, StateRunning, h.driver.State())
	h.lap(29 * time.Second)

	res, done := h.driver.Result()
	require.True(t, done)
	assert.Equal(t, StateFinished, h.driver.State())
	assert.Equal(t, []time.Duration{31 * time.Second, 29 * time.Second}, res.Laps)
	assert.Equal(t, 29*time.Second, res.Best)
	assert.True(t, res.HasBest)
	assert.Equal(t, 80*time.Second, res.Total)
	assert.Zero(t, res.Collisions)

	var completed []Event
	for _, e := range h.events {
		if e.Type == EventLapCompleted {
			completed = append(completed, e)
		}
	}
	require.Len(t, completed, 2)
	assert.Equal(t, 2, completed[0].Lap)
	assert.Equal(t, 31*time.Second, completed[0].Duration)
	assert.True(t, completed[1].NewBest)
	assert.Equal(t, EventFinished, h.events[len(h.events)-1].Type)

	// Finished sessions stop ticking.
	pos := h.driver.Car().Pos
	h.clock.Advance(time.Second)
	h.driver.Tick(vehicle.Controls{Forward: true})
	assert.Equal(t, pos, h.driver.Car().Pos)
}

func TestTickClampsLongFrames(t *testing.T) {
	h := newHarness(t, fastConfig())
	h.start(t)
	car := h.driver.Car()
	start := car.Pos

	h.clock.Advance(5 * time.Second)
	h.driver.Tick(vehicle.Controls{Forward: true})
	// 0.1 s at 4 km/h.
	assert.InDelta(t, 4.0, car.Speed, 1e-9)
	assert.InDelta(t, 4.0*vehicle.KmhToMs*0.1, geom.Distance(start, car.Pos), 1e-9)
}

func TestPauseStopsTicksAndResumeRestamps(t *testing.T) {
	h := newHarness(t, fastConfig())
	h.start(t)
	car := h.driver.Car()
	for i := 0; i < 10; i++ {
		h.clock.Advance(time.Second / 60)
		h.driver.Tick(vehicle.Controls{Forward: true})
	}
	speed, pos := car.Speed, car.Pos

	h.driver.TogglePause()
	assert.Equal(t, StatePaused, h.driver.State())
	for i := 0; i < 30; i++ {
		h.clock.Advance(time.Second)
		h.driver.Tick(vehicle.Controls{Forward: true})
	}
	assert.Equal(t, speed, car.Speed)
	assert.Equal(t, pos, car.Pos)

	h.driver.TogglePause()
	assert.Equal(t, StateRunning, h.driver.State())
	h.clock.Advance(time.Second / 60)
	h.driver.Tick(vehicle.Controls{Forward: true})
	assert.InDelta(t, speed+40.0/60, car.Speed, 1e-6)

	assert.Contains(t, h.types(), EventPaused)
	assert.Contains(t, h.types(), EventResumed)
}

func TestRestartOnlyFromPausedOrFinished(t *testing.T) {
	h := newHarness(t, fastConfig())
	assert.False(t, h.driver.Restart())
	h.start(t)
	assert.False(t, h.driver.Restart())

	h.lap(10 * time.Second)
	h.crossGate(0, time.Second)
	h.driver.Pause()
	require.True(t, h.driver.Restart())

	car := h.driver.Car()
	assert.Equal(t, StateRunning, h.driver.State())
	assert.Equal(t, 1, car.Laps.Lap)
	assert.Equal(t, 0, car.Laps.Next)
	assert.Zero(t, car.Speed)
	assert.Equal(t, h.driver.Track().StartPosition(), car.Pos)
	assert.Equal(t, EventRestarted, h.events[len(h.events)-1].Type)
}

func TestBarrierHitSlowsAndPushesBack(t *testing.T) {
	h := newHarness(t, fastConfig())
	h.start(t)
	tr := h.driver.Track()
	car := h.driver.Car()

	// Aim at the inner barrier of segment 1, which runs along +X at z = 66.5.
	car.Pos = geom.V3(30, 0.5, 64.5)
	car.Heading = 0
	car.Speed = 50
	h.clock.Advance(time.Second / 60)
	h.driver.Tick(vehicle.Controls{})

	require.Equal(t, track.Inner, tr.Barriers()[2].Side)
	assert.InDelta(t, (50-20.0/60)/2, car.Speed, 1e-6)
	assert.Equal(t, EventCollision, h.events[len(h.events)-1].Type)
	assert.Equal(t, 1, h.events[len(h.events)-1].Checkpoint)
	travelled := (50 - 20.0/60) * vehicle.KmhToMs / 60
	assert.InDelta(t, 64.5+travelled-0.1, car.Pos.Z, 1e-6)
}

func TestHUD(t *testing.T) {
	h := newHarness(t, fastConfig())
	h.start(t)
	h.lap(20 * time.Second)
	h.lap(30 * time.Second)
	h.crossGate(0, 2*time.Second)

	hud := h.driver.HUD()
	assert.Equal(t, StateRunning, hud.State)
	assert.Equal(t, 3, hud.Lap)
	assert.Equal(t, 3, hud.TotalLaps)
	assert.Equal(t, 1, hud.Checkpoint)
	assert.Equal(t, 4, hud.Checkpoints)
	assert.True(t, hud.HasLast)
	assert.Equal(t, 30*time.Second, hud.Last)
	assert.Equal(t, 30*time.Second, hud.Best)
	assert.Equal(t, 2*time.Second, hud.Current)
	assert.Equal(t, 34, hud.SpeedKmh)
}

func TestEventBusDeliversByType(t *testing.T) {
	bus := NewEventBus()
	var laps, all int
	bus.Subscribe(EventLapCompleted, func(Event) { laps++ })
	bus.SubscribeAll(func(Event) { all++ })
	bus.Emit(Event{Type: EventLapCompleted})
	bus.Emit(Event{Type: EventCollision})
	assert.Equal(t, 1, laps)
	assert.Equal(t, 2, all)
	assert.Equal(t, "lap-completed", EventLapCompleted.String())
}
