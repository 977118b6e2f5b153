package autopilot

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racer/internal/geom"
	"racer/internal/race"
	"racer/internal/track"
	"racer/internal/vehicle"
)

func roundTrack(t *testing.T) *track.Track {
	t.Helper()
	pts := make([]geom.Vec3, 0, 17)
	for i := 0; i < 16; i++ {
		a := 2 * math.Pi * float64(i) / 16
		pts = append(pts, geom.V3(math.Sin(a)*80, 0, math.Cos(a)*80))
	}
	tr, err := track.New(append(pts, pts[0]), track.DefaultParams(12))
	require.NoError(t, err)
	return tr
}

func TestSteersTowardCentreline(t *testing.T) {
	tr := roundTrack(t)
	start := vehicle.Pose{Pos: tr.StartPosition(), Heading: tr.StartHeading()}

	car := vehicle.New(vehicle.DefaultParams(), start, 0, nil)
	car.Heading += 0.5 // pointing left of the line
	in := New().Controls(car, tr, 1.0/60)
	assert.True(t, in.Right)
	assert.False(t, in.Left)
	assert.True(t, in.Forward)

	car.Heading = start.Heading - 0.5
	in = New().Controls(car, tr, 1.0/60)
	assert.True(t, in.Left)
}

func TestBrakesIntoLargeHeadingError(t *testing.T) {
	tr := roundTrack(t)
	car := vehicle.New(vehicle.DefaultParams(), vehicle.Pose{Pos: tr.StartPosition(), Heading: tr.StartHeading() + 1.5}, 0, nil)
	car.Speed = 100
	in := New().Controls(car, tr, 1.0/60)
	assert.True(t, in.Brake)
	assert.False(t, in.Forward)
}

func TestBacksOffWhenStuck(t *testing.T) {
	tr := roundTrack(t)
	car := vehicle.New(vehicle.DefaultParams(), vehicle.Pose{Pos: tr.StartPosition(), Heading: tr.StartHeading()}, 0, nil)
	p := New()
	var in vehicle.Controls
	for i := 0; i < 100; i++ {
		in = p.Controls(car, tr, 1.0/60) // speed never changes: car is wedged
	}
	assert.True(t, in.Backward)
	assert.False(t, in.Forward)
}

func TestCompletesARace(t *testing.T) {
	tr := roundTrack(t)
	clock := &race.ManualClock{}
	car := vehicle.New(vehicle.DefaultParams(), vehicle.Pose{Pos: tr.StartPosition(), Heading: tr.StartHeading()}, 0, geom.NewRand(5))
	cfg := race.DefaultConfig()
	cfg.TotalLaps = 2
	cfg.LoadDelay = 0
	d := race.NewDriver(cfg, tr, car, clock, nil, zerolog.Nop())
	require.True(t, d.Start())

	pilot := New()
	const dt = time.Second / 60
	for i := 0; i < 5*60*60 && d.State() == race.StateRunning; i++ {
		clock.Advance(dt)
		d.Tick(pilot.Controls(car, tr, dt.Seconds()))
	}

	res, done := d.Result()
	require.True(t, done, "race did not finish; lap %d next gate %d", car.Laps.Lap, car.Laps.Next)
	require.Len(t, res.Laps, 1)
	assert.Greater(t, res.Laps[0], 10*time.Second)
	assert.Less(t, res.Laps[0], 90*time.Second)
}
