// Package race runs a session: the loading gate, start, pause, restart, the
// per-frame tick with barrier correction, and race completion.
package race

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"racer/internal/geom"
	"racer/internal/logging"
	"racer/internal/track"
	"racer/internal/vehicle"
)

// Config holds the session rules.
type Config struct {
	TotalLaps      int
	MaxTickDelta   float64       // seconds; longer frames are clamped
	LoadDelay      time.Duration // time spent in StateLoading
	Pushback       float64       // metres the car is moved back on a barrier hit
	ImpactSlowdown float64       // speed multiplier on a barrier hit
}

func DefaultConfig() Config {
	return Config{
		TotalLaps:      3,
		MaxTickDelta:   0.1,
		LoadDelay:      1500 * time.Millisecond,
		Pushback:       0.1,
		ImpactSlowdown: 0.5,
	}
}

// Result is reported once the lap counter passes TotalLaps.
type Result struct {
	Total      time.Duration
	Laps       []time.Duration
	Best       time.Duration
	HasBest    bool
	Collisions int
}

// Driver owns the car and advances it once per frame. It is not safe for
// concurrent use; the frame loop is its only caller.
type Driver struct {
	cfg   Config
	track *track.Track
	car   *vehicle.Car
	clock Clock
	bus   *EventBus
	log   zerolog.Logger
	hits  zerolog.Logger // sampled; barrier scrapes fire every frame

	state      State
	created    time.Duration
	raceStart  time.Duration
	lastTick   time.Duration
	collisions int
	result     Result

	fpsFrames int
	fpsSince  time.Duration
	fps       int
}

// NewDriver starts in StateLoading. bus may be nil.
func NewDriver(cfg Config, t *track.Track, car *vehicle.Car, clock Clock, bus *EventBus, log zerolog.Logger) *Driver {
	if cfg.TotalLaps < 1 {
		cfg.TotalLaps = 1
	}
	if !(cfg.MaxTickDelta > 0) {
		cfg.MaxTickDelta = DefaultConfig().MaxTickDelta
	}
	if bus == nil {
		bus = NewEventBus()
	}
	now := clock.Now()
	return &Driver{
		cfg:      cfg,
		track:    t,
		car:      car,
		clock:    clock,
		bus:      bus,
		log:      log,
		hits:     logging.Sampled(log),
		state:    StateLoading,
		created:  now,
		lastTick: now,
		fpsSince: now,
	}
}

func (d *Driver) State() State        { return d.state }
func (d *Driver) Car() *vehicle.Car   { return d.car }
func (d *Driver) Track() *track.Track { return d.track }
func (d *Driver) Bus() *EventBus      { return d.bus }
func (d *Driver) Config() Config      { return d.cfg }

// Result is valid once State is StateFinished.
func (d *Driver) Result() (Result, bool) {
	return d.result, d.state == StateFinished
}

func (d *Driver) startPose() vehicle.Pose {
	return vehicle.Pose{Pos: d.track.StartPosition(), Heading: d.track.StartHeading()}
}

func (d *Driver) emit(e Event) {
	e.At = d.clock.Now()
	if e.Pos == (geom.Vec3{}) {
		e.Pos = d.car.Pos
	}
	d.bus.Emit(e)
}

// poll moves Loading to Ready once the load delay has passed.
func (d *Driver) poll(now time.Duration) {
	if d.state == StateLoading && now-d.created >= d.cfg.LoadDelay {
		d.state = StateReady
		d.log.Debug().Msg("assets loaded")
		d.emit(Event{Type: EventReady})
	}
}

// Start begins the race from the start screen. It reports whether the
// session is now running.
func (d *Driver) Start() bool {
	now := d.clock.Now()
	d.poll(now)
	if d.state != StateReady {
		return d.state == StateRunning
	}
	d.begin(now)
	d.log.Info().Int("laps", d.cfg.TotalLaps).Msg("race started")
	d.emit(Event{Type: EventStarted})
	return true
}

func (d *Driver) begin(now time.Duration) {
	d.car.Reset(d.startPose(), now)
	d.raceStart = now
	d.lastTick = now
	d.collisions = 0
	d.result = Result{}
	d.state = StateRunning
}

// TogglePause flips between running and paused; other states ignore it.
func (d *Driver) TogglePause() {
	switch d.state {
	case StateRunning:
		d.Pause()
	case StatePaused:
		d.Resume()
	}
}

func (d *Driver) Pause() {
	if d.state != StateRunning {
		return
	}
	d.state = StatePaused
	d.log.Debug().Msg("paused")
	d.emit(Event{Type: EventPaused})
}

// Resume re-stamps the last tick so the paused interval is not simulated.
func (d *Driver) Resume() {
	if d.state != StatePaused {
		return
	}
	d.lastTick = d.clock.Now()
	d.state = StateRunning
	d.log.Debug().Msg("resumed")
	d.emit(Event{Type: EventResumed})
}

// Restart is allowed from paused or finished.
func (d *Driver) Restart() bool {
	if d.state != StatePaused && d.state != StateFinished {
		return false
	}
	d.begin(d.clock.Now())
	d.log.Info().Msg("race restarted")
	d.emit(Event{Type: EventRestarted})
	return true
}

// Tick advances one frame with the given controls. Outside StateRunning
// only the loading gate and the fps counter move.
func (d *Driver) Tick(in vehicle.Controls) {
	now := d.clock.Now()
	d.countFrame(now)
	d.poll(now)
	if d.state != StateRunning {
		return
	}

	dt := geom.Clamp((now - d.lastTick).Seconds(), 0, d.cfg.MaxTickDelta)
	d.lastTick = now

	d.car.Controls = in
	ev := d.car.Update(dt, now, d.track.Checkpoints())
	d.publishLap(ev)

	if b, hit := d.track.Collision(d.car.Footprint()); hit {
		d.car.Speed *= d.cfg.ImpactSlowdown
		d.car.Nudge(d.car.Forward().Scale(-d.cfg.Pushback))
		d.collisions++
		d.hits.Debug().
			Int("segment", b.Segment).
			Stringer("side", b.Side).
			Float64("speed", d.car.Speed).
			Msg("barrier hit")
		d.emit(Event{Type: EventCollision, Checkpoint: b.Segment})
	}

	if d.car.Laps.Lap > d.cfg.TotalLaps {
		d.finish(now)
	}
}

func (d *Driver) publishLap(ev vehicle.Event) {
	switch ev.Kind {
	case vehicle.EventCheckpoint:
		d.emit(Event{Type: EventCheckpoint, Checkpoint: ev.Checkpoint, Lap: ev.Lap})
	case vehicle.EventLapStarted:
		d.log.Info().Int("lap", ev.Lap).Msg("timing started")
		d.emit(Event{Type: EventLapStarted, Checkpoint: ev.Checkpoint, Lap: ev.Lap})
	case vehicle.EventLapCompleted:
		d.log.Info().
			Int("lap", ev.Lap-1).
			Dur("time", ev.Duration).
			Bool("best", ev.NewBest).
			Msg("lap completed")
		d.emit(Event{
			Type:       EventLapCompleted,
			Checkpoint: ev.Checkpoint,
			Lap:        ev.Lap - 1,
			Duration:   ev.Duration,
			NewBest:    ev.NewBest,
		})
	}
}

func (d *Driver) finish(now time.Duration) {
	laps := d.car.Laps
	d.result = Result{
		Total:      now - d.raceStart,
		Laps:       append([]time.Duration(nil), laps.Laps...),
		Best:       laps.Best,
		HasBest:    laps.HasBest,
		Collisions: d.collisions,
	}
	d.state = StateFinished
	d.car.Controls = vehicle.Controls{}
	d.log.Info().
		Dur("total", d.result.Total).
		Dur("best", d.result.Best).
		Int("collisions", d.collisions).
		Msg("race finished")
	d.emit(Event{Type: EventFinished, Duration: d.result.Total, Lap: d.cfg.TotalLaps})
}

func (d *Driver) countFrame(now time.Duration) {
	d.fpsFrames++
	if el := now - d.fpsSince; el >= time.Second {
		d.fps = int(math.Round(float64(d.fpsFrames) / el.Seconds()))
		d.fpsFrames = 0
		d.fpsSince = now
	}
}
