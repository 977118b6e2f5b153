package vehicle

import (
	"math"
	"time"

	"racer/internal/geom"
	"racer/internal/track"
)

// RandSource feeds drift jitter. geom.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// Controls is one tick's input snapshot.
type Controls struct {
	Forward, Backward bool
	Left, Right       bool
	Brake             bool
}

// Regime is a bit set; several can hold at once (braking while drifting).
type Regime uint8

const (
	Stationary Regime = 1 << iota
	AcceleratingForward
	AcceleratingReverse
	Coasting
	Braking
	Drifting
)

func (r Regime) Has(f Regime) bool { return r&f != 0 }

var regimeNames = [...]string{"stationary", "forward", "reverse", "coasting", "braking", "drifting"}

func (r Regime) String() string {
	s := ""
	for i, n := range regimeNames {
		if r&(1<<i) == 0 {
			continue
		}
		if s != "" {
			s += "+"
		}
		s += n
	}
	if s == "" {
		return "none"
	}
	return s
}

// Pose is a position with a yaw heading; heading 0 faces +Z.
type Pose struct {
	Pos     geom.Vec3
	Heading float64
}

// wheelVisualLock is the cosmetic front-wheel turn shown while a steer key is held.
var wheelVisualLock = geom.DegToRad(30)

// Car is the player vehicle.
type Car struct {
	Params Params

	Pos      geom.Vec3
	Heading  float64
	Velocity geom.Vec3 // km/h, world space
	Speed    float64   // signed km/h along Forward
	Steering float64   // physical wheel angle, + is left
	Controls Controls

	WheelSpin   float64 // accumulated wheel rotation, radians
	WheelVisual float64 // front wheel display angle
	DriftFactor float64 // 0..1
	Lateral     float64 // sideways km/h this tick
	Regimes     Regime

	Laps LapRecord

	prev      geom.Vec3
	footprint geom.OBB
	bound     geom.Box3
	rng       RandSource
}

// New places a car at start. rng may be nil, which disables drift jitter.
func New(p Params, start Pose, now time.Duration, rng RandSource) *Car {
	c := &Car{Params: p.sanitized(), rng: rng}
	c.Reset(start, now)
	return c
}

// Reset returns the car to start with zero motion and a fresh lap record.
func (c *Car) Reset(start Pose, now time.Duration) {
	c.Pos = start.Pos
	c.prev = start.Pos
	c.Heading = start.Heading
	c.Velocity = geom.Vec3{}
	c.Speed = 0
	c.Steering = 0
	c.Controls = Controls{}
	c.WheelVisual = 0
	c.DriftFactor = 0
	c.Lateral = 0
	c.Regimes = Stationary
	c.Laps.Reset(now)
	c.refreshBound()
}

// Pose returns the current position and heading.
func (c *Car) Pose() Pose { return Pose{Pos: c.Pos, Heading: c.Heading} }

// Forward is the unit vector the car points along.
func (c *Car) Forward() geom.Vec3 { return geom.Forward(c.Heading) }

// Footprint is the oriented box used against barriers.
func (c *Car) Footprint() geom.OBB { return c.footprint }

// Bound is the axis-aligned box around the footprint.
func (c *Car) Bound() geom.Box3 { return c.bound }

// PrevPos is where the car was before the last Update.
func (c *Car) PrevPos() geom.Vec3 { return c.prev }

// Update advances the car by dt seconds and tests the motion against the
// next checkpoint.
func (c *Car) Update(dt float64, now time.Duration, gates []track.Checkpoint) Event {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	p := c.Params
	in := c.Controls
	c.prev = c.Pos

	// Steering. Turning scales with speed so a parked car cannot spin.
	steerInput := 0.0
	if in.Left {
		steerInput++
	}
	if in.Right {
		steerInput--
	}
	c.Heading += steerInput * p.TurnSpeed * (c.Speed / p.MaxSpeed) * dt
	c.Heading = math.Remainder(c.Heading, 2*math.Pi)
	c.WheelVisual = steerInput * wheelVisualLock
	c.Steering = geom.Approach(c.Steering, steerInput*p.MaxWheelAngle, p.SteerRate*dt)

	forward := geom.Forward(c.Heading)
	right := geom.Right(c.Heading)

	// Throttle, then the brake has the final say.
	var regimes Regime
	before := c.Speed
	switch {
	case in.Forward && !in.Backward:
		c.Speed = math.Min(c.Speed+p.Acceleration*dt, p.MaxSpeed)
		regimes |= AcceleratingForward
	case in.Backward && !in.Forward:
		c.Speed = math.Max(c.Speed-p.Acceleration*dt, -p.MaxReverseSpeed)
		regimes |= AcceleratingReverse
	default:
		c.Speed = geom.Approach(c.Speed, 0, p.Deceleration*dt)
		if c.Speed != 0 && !in.Brake {
			regimes |= Coasting
		}
	}
	if in.Brake {
		if c.Speed != 0 {
			regimes |= Braking
		}
		c.Speed = geom.Approach(c.Speed, 0, p.Braking*dt)
		if math.Abs(c.Speed) > math.Abs(before) {
			c.Speed = geom.Approach(before, 0, p.Braking*dt)
		}
	}
	c.Speed = geom.Clamp(c.Speed, -p.MaxReverseSpeed, p.MaxSpeed)

	c.Lateral, c.DriftFactor = c.drift()
	if c.DriftFactor > 0 {
		regimes |= Drifting
	}
	if c.Speed == 0 {
		regimes |= Stationary
	}
	c.Regimes = regimes

	c.Velocity = forward.Scale(c.Speed).Add(right.Scale(c.Lateral))
	c.Pos = c.Pos.Add(c.Velocity.Scale(KmhToMs * dt))
	c.WheelSpin = math.Mod(c.WheelSpin+c.Speed*KmhToMs/p.WheelRadius*dt, 2*math.Pi)

	c.refreshBound()

	return c.Laps.Cross(c.prev, c.Pos, gates, now)
}

// drift returns the sideways speed and the drift factor. The slide pushes
// away from the turn.
func (c *Car) drift() (lateral, factor float64) {
	p := c.Params
	if !p.DriftEnabled || math.Abs(c.Steering) <= geom.Epsilon || math.Abs(c.Speed) <= p.DriftThreshold {
		return 0, 0
	}
	factor = geom.Clamp((math.Abs(c.Speed)/p.MaxSpeed)*(math.Abs(c.Steering)/p.MaxWheelAngle)*p.DriftGain, 0, 1)
	lateral = geom.Sign(c.Steering) * factor * c.Speed * p.DriftStrength
	if c.rng != nil && p.DriftJitter > 0 {
		lateral += (c.rng.Float64()*2 - 1) * p.DriftJitter * factor
	}
	return lateral, factor
}

func (c *Car) refreshBound() {
	p := c.Params
	c.footprint = geom.OBB{
		Center:     c.Pos.Flat(),
		Yaw:        c.Heading,
		HalfWidth:  p.Width / 2,
		HalfLength: p.Length / 2,
		Bottom:     c.Pos.Y - 0.5,
		Top:        c.Pos.Y - 0.5 + p.Height,
	}
	c.bound = c.footprint.Bounds()
}

// Nudge moves the car without touching speed or laps. The previous position
// follows so the displacement is never mistaken for a checkpoint crossing.
func (c *Car) Nudge(d geom.Vec3) {
	c.Pos = c.Pos.Add(d)
	c.prev = c.Pos
	c.refreshBound()
}

// SpeedKmh is the absolute speed rounded for display.
func (c *Car) SpeedKmh() int { return int(math.Round(math.Abs(c.Speed))) }
