// Package autopilot drives the car around the centreline. The headless run
// and the frontend's demo mode use it in place of the keyboard.
package autopilot

import (
	"math"

	"racer/internal/geom"
	"racer/internal/track"
	"racer/internal/vehicle"
)

// Tuning for the default car.
const (
	Lookahead     = 10.0 // metres along the centreline to aim at
	Deadband      = 0.03 // heading error ignored, radians
	BrakeAngle    = 0.45 // heading error that calls for the brake
	MinCornerKmh  = 45.0
	StuckKmh      = 2.0
	StuckAfter    = 1.5 // seconds without progress before backing off
	ReverseFor    = 1.0
	cornerPreview = 25.0 // metres ahead checked for the next bend
)

// Pilot keeps the little state the steering needs between ticks.
type Pilot struct {
	stuck   float64
	reverse float64
}

func New() *Pilot { return &Pilot{} }

// Controls picks this tick's inputs for car on t.
func (p *Pilot) Controls(car *vehicle.Car, t *track.Track, dt float64) vehicle.Controls {
	var in vehicle.Controls
	seg, along := nearestSegment(car.Pos, car.Laps.Next, t)
	target := pointAhead(t, seg, along, Lookahead)

	want := math.Atan2(target.X-car.Pos.X, target.Z-car.Pos.Z)
	errAng := geom.AngDiff(car.Heading, want)

	if p.reverse > 0 {
		p.reverse -= dt
		in.Backward = true
		// Reversing turns the car the other way.
		in.Left = errAng < -Deadband
		in.Right = errAng > Deadband
		return in
	}

	in.Left = errAng > Deadband
	in.Right = errAng < -Deadband

	limit := cornerSpeed(t, seg, along, car.Params.MaxSpeed)
	switch {
	case math.Abs(errAng) > BrakeAngle && car.Speed > MinCornerKmh:
		in.Brake = true
	case car.Speed > limit:
		// lift
	default:
		in.Forward = true
	}

	if in.Forward && math.Abs(car.Speed) < StuckKmh {
		p.stuck += dt
	} else {
		p.stuck = 0
	}
	if p.stuck > StuckAfter {
		p.stuck = 0
		p.reverse = ReverseFor
	}
	return in
}

// nearestSegment projects pos onto the two segments around the next gate and
// returns the closer one with the distance along it.
func nearestSegment(pos geom.Vec3, next int, t *track.Track) (int, float64) {
	n := t.Segments()
	best, bestAlong, bestD := 0, 0.0, math.Inf(1)
	for _, i := range [2]int{(next - 1 + n) % n, next % n} {
		a, b := t.Path()[i], t.Path()[(i+1)%n]
		along, d := project(pos, a, b)
		if d < bestD {
			best, bestAlong, bestD = i, along, d
		}
	}
	return best, bestAlong
}

func project(p, a, b geom.Vec3) (along, dist float64) {
	ab := b.Sub(a).Flat()
	l := ab.Len()
	if l < geom.Epsilon {
		return 0, geom.DistanceXZ(p, a)
	}
	along = geom.Clamp(p.Sub(a).Flat().Dot(ab)/l, 0, l)
	q := a.Add(ab.Scale(along / l))
	return along, geom.DistanceXZ(p, q)
}

// pointAhead walks dist metres along the centreline from (seg, along).
func pointAhead(t *track.Track, seg int, along, dist float64) geom.Vec3 {
	n := t.Segments()
	path := t.Path()
	rem := along + dist
	for k := 0; k < n; k++ {
		i := (seg + k) % n
		a, b := path[i], path[(i+1)%n]
		l := geom.DistanceXZ(a, b)
		if rem <= l {
			return geom.LerpVec(a, b, rem/l)
		}
		rem -= l
	}
	return path[(seg+1)%n]
}

// cornerSpeed lowers the target speed when a bend is coming up.
func cornerSpeed(t *track.Track, seg int, along, maxSpeed float64) float64 {
	n := t.Segments()
	l := geom.DistanceXZ(t.Path()[seg], t.Path()[(seg+1)%n])
	if l-along > cornerPreview {
		return maxSpeed
	}
	cur := t.Direction(seg)
	next := t.Direction(seg + 1)
	turn := math.Abs(geom.AngDiff(math.Atan2(cur.X, cur.Z), math.Atan2(next.X, next.Z)))
	return math.Max(MinCornerKmh, maxSpeed-(maxSpeed-MinCornerKmh)*geom.Clamp(turn/1.2, 0, 1))
}
