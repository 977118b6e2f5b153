package vehicle

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racer/internal/geom"
	"racer/internal/track"
)

const frame = 1.0 / 60

func newCar(rng RandSource) *Car {
	return New(DefaultParams(), Pose{Pos: geom.V3(0, 0.5, 0)}, 0, rng)
}

func TestSpeedStaysInRange(t *testing.T) {
	c := newCar(geom.NewRand(9))
	r := geom.NewRand(77)
	p := c.Params
	for i := 0; i < 20000; i++ {
		c.Controls = Controls{
			Forward:  r.Intn(3) > 0,
			Backward: r.Intn(4) == 0,
			Left:     r.Intn(3) == 0,
			Right:    r.Intn(3) == 0,
			Brake:    r.Intn(8) == 0,
		}
		dt := r.RangeF(0, 0.5)
		c.Update(dt, 0, nil)
		require.GreaterOrEqual(t, c.Speed, -p.MaxReverseSpeed)
		require.LessOrEqual(t, c.Speed, p.MaxSpeed)
		require.True(t, c.Pos.IsFinite())
	}
}

func TestBrakeBeatsThrottle(t *testing.T) {
	for _, start := range []float64{100, -25} {
		for _, in := range []Controls{
			{Brake: true},
			{Brake: true, Forward: true},
			{Brake: true, Backward: true},
			{Brake: true, Forward: true, Backward: true, Left: true},
		} {
			c := newCar(nil)
			c.Speed = start
			c.Controls = in
			last := math.Abs(c.Speed)
			for i := 0; i < 300; i++ {
				c.Update(frame, 0, nil)
				cur := math.Abs(c.Speed)
				require.LessOrEqual(t, cur, last, "start %v input %+v", start, in)
				last = cur
			}
			assert.Zero(t, c.Speed)
		}
	}
}

func TestBrakeBeatsStrongerThrottle(t *testing.T) {
	p := DefaultParams()
	p.Acceleration = 200
	p.Braking = 10
	c := New(p, Pose{}, 0, nil)
	c.Speed = 50
	c.Controls = Controls{Forward: true, Brake: true}
	c.Update(0.1, 0, nil)
	assert.InDelta(t, 49, c.Speed, 1e-9)
}

func TestCoastDecaysToExactlyZero(t *testing.T) {
	for _, start := range []float64{57.3, -12.1} {
		c := newCar(nil)
		c.Speed = start
		sign := geom.Sign(start)
		for i := 0; i < 1000 && c.Speed != 0; i++ {
			c.Update(frame, 0, nil)
			require.NotEqual(t, -sign, geom.Sign(c.Speed), "overshot zero")
		}
		assert.Equal(t, 0.0, c.Speed)
		assert.True(t, c.Regimes.Has(Stationary))
	}
}

func TestStationaryCarDoesNotTurn(t *testing.T) {
	c := newCar(nil)
	c.Controls = Controls{Left: true}
	c.Update(frame, 0, nil)
	assert.Zero(t, c.Heading)
	assert.InDelta(t, geom.DegToRad(30), c.WheelVisual, 1e-12)
}

func TestLeftTurnsPositive(t *testing.T) {
	c := newCar(nil)
	c.Speed = 60
	c.Controls = Controls{Left: true, Forward: true}
	c.Update(0.1, 0, nil)
	assert.Greater(t, c.Heading, 0.0)

	c.Controls = Controls{Right: true, Forward: true}
	for i := 0; i < 3; i++ {
		c.Update(0.1, 0, nil)
	}
	assert.Less(t, c.Heading, 0.0)
	assert.InDelta(t, -geom.DegToRad(30), c.WheelVisual, 1e-12)
}

func TestIntegrationUsesKmh(t *testing.T) {
	p := DefaultParams()
	p.Deceleration = 0
	c := New(p, Pose{}, 0, nil)
	c.Speed = 36 // 10 m/s
	c.Update(1, 0, nil)
	assert.InDelta(t, 10, c.Pos.Z, 1e-9)
	assert.InDelta(t, 0, c.Pos.X, 1e-9)
	assert.InDelta(t, 10/p.WheelRadius, c.WheelSpin+2*math.Pi*math.Floor(10/p.WheelRadius/(2*math.Pi)), 1e-9)
}

func TestDriftWithoutRandIsDeterministic(t *testing.T) {
	run := func() geom.Vec3 {
		c := newCar(nil)
		c.Speed = 110
		for i := 0; i < 120; i++ {
			c.Controls = Controls{Forward: true, Left: true}
			c.Update(frame, 0, nil)
		}
		return c.Pos
	}
	assert.Equal(t, run(), run())

	c := newCar(nil)
	c.Speed = 110
	c.Controls = Controls{Forward: true, Left: true}
	for i := 0; i < 30; i++ {
		c.Update(frame, 0, nil)
	}
	assert.True(t, c.Regimes.Has(Drifting))
	assert.Greater(t, c.DriftFactor, 0.0)
	assert.LessOrEqual(t, c.DriftFactor, 1.0)
	// Turning left slides toward the car's right.
	assert.Greater(t, c.Lateral, 0.0)
}

func TestDriftDisabled(t *testing.T) {
	p := DefaultParams()
	p.DriftEnabled = false
	c := New(p, Pose{}, 0, geom.NewRand(1))
	c.Speed = 110
	c.Controls = Controls{Forward: true, Left: true}
	for i := 0; i < 30; i++ {
		c.Update(frame, 0, nil)
	}
	assert.Zero(t, c.DriftFactor)
	assert.False(t, c.Regimes.Has(Drifting))
}

func TestNoDriftBelowThreshold(t *testing.T) {
	c := newCar(geom.NewRand(3))
	c.Speed = 20
	c.Controls = Controls{Left: true}
	for i := 0; i < 30; i++ {
		c.Update(frame, 0, nil)
	}
	assert.Zero(t, c.Lateral)
}

func TestRegimes(t *testing.T) {
	c := newCar(nil)
	c.Controls = Controls{Forward: true}
	c.Update(frame, 0, nil)
	assert.True(t, c.Regimes.Has(AcceleratingForward))
	assert.False(t, c.Regimes.Has(Stationary))

	c.Controls = Controls{Brake: true}
	c.Update(frame, 0, nil)
	assert.True(t, c.Regimes.Has(Braking))
	assert.True(t, c.Regimes.Has(Stationary))
	assert.Equal(t, "stationary+braking", c.Regimes.String())

	c.Controls = Controls{Backward: true}
	c.Update(frame, 0, nil)
	assert.True(t, c.Regimes.Has(AcceleratingReverse))
}

func TestNegativeOrNaNDeltaIsIgnored(t *testing.T) {
	c := newCar(nil)
	c.Speed = 30
	c.Update(-1, 0, nil)
	c.Update(math.NaN(), 0, nil)
	assert.Equal(t, 30.0, c.Speed)
	assert.Equal(t, geom.V3(0, 0.5, 0), c.Pos)
}

func TestResetRestoresStart(t *testing.T) {
	c := newCar(nil)
	c.Speed = 80
	c.Heading = 1
	c.Laps.Lap = 3
	c.Laps.Next = 5
	c.Laps.Laps = []time.Duration{time.Second}
	c.Laps.Best, c.Laps.HasBest = time.Second, true

	start := Pose{Pos: geom.V3(4, 0.5, 2), Heading: 0.3}
	c.Reset(start, 7*time.Second)
	assert.Equal(t, 0.0, c.Speed)
	assert.Equal(t, start, c.Pose())
	assert.Equal(t, geom.Vec3{}, c.Velocity)
	assert.Equal(t, 0, c.Laps.Next)
	assert.Equal(t, 1, c.Laps.Lap)
	assert.Empty(t, c.Laps.Laps)
	assert.False(t, c.Laps.HasBest)
	assert.Equal(t, 7*time.Second, c.Laps.LapStart)
}

func TestFootprintFollowsPose(t *testing.T) {
	c := New(DefaultParams(), Pose{Pos: geom.V3(10, 0.5, -3), Heading: math.Pi / 2}, 0, nil)
	fp := c.Footprint()
	assert.Equal(t, geom.V3(10, 0, -3), fp.Center)
	b := c.Bound()
	assert.InDelta(t, 12, b.Max.X, 1e-9)
	assert.InDelta(t, -3+0.9, b.Max.Z, 1e-9)

	c.Nudge(geom.V3(-1, 0, 0))
	assert.Equal(t, c.Pos, c.PrevPos())
	assert.InDelta(t, 9, c.Footprint().Center.X, 1e-12)
}

func TestCarCrossesGatesOnTrack(t *testing.T) {
	pts := []geom.Vec3{geom.V3(0, 0, 0), geom.V3(0, 0, 40), geom.V3(40, 0, 40), geom.V3(40, 0, 0), geom.V3(0, 0, 0)}
	tr, err := track.New(pts, track.DefaultParams(12))
	require.NoError(t, err)

	c := New(DefaultParams(), Pose{Pos: tr.StartPosition(), Heading: tr.StartHeading()}, 0, nil)
	c.Controls = Controls{Forward: true}
	var got []Event
	for i := 0; i < 600; i++ {
		if ev := c.Update(frame, time.Duration(i)*time.Second/60, tr.Checkpoints()); ev.Kind != EventNone {
			got = append(got, ev)
		}
	}
	require.NotEmpty(t, got)
	assert.Equal(t, EventCheckpoint, got[0].Kind)
	assert.Equal(t, 0, got[0].Checkpoint)
	assert.Equal(t, 1, c.Laps.Next)
}
