package track

import (
	"math"

	"racer/internal/geom"
)

// Attempts per scenery item before giving up on it.
const placementAttempts = 50

// Prop is a static scenery object.
type Prop struct {
	Pos   geom.Vec3
	Scale float64
}

// PlaceScenery scatters up to count trees in a square of side spread centred
// on the origin, each at least clearance from every ribbon edge point.
// Fewer than count may be returned when the attempts run out.
func PlaceScenery(t *Track, seed uint64, count int, spread, clearance float64) []Prop {
	rng := geom.NewRand(geom.Mix(seed, 0x74726565))
	inner, outer := t.Ribbon()
	clear2 := clearance * clearance
	out := make([]Prop, 0, count)

	for i := 0; i < count; i++ {
		for attempt := 0; attempt < placementAttempts; attempt++ {
			p := geom.Vec3{
				X: rng.RangeF(-spread/2, spread/2),
				Z: rng.RangeF(-spread/2, spread/2),
			}
			if tooClose(p, inner, clear2) || tooClose(p, outer, clear2) {
				continue
			}
			out = append(out, Prop{Pos: p, Scale: rng.RangeF(0.8, 1.4)})
			break
		}
	}
	return out
}

func tooClose(p geom.Vec3, edge []geom.Vec3, clear2 float64) bool {
	for _, e := range edge {
		dx, dz := p.X-e.X, p.Z-e.Z
		if dx*dx+dz*dz < clear2 {
			return true
		}
	}
	return false
}

// Mountains rings the circuit with count background peaks at roughly
// distance from the track centre.
func Mountains(t *Track, seed uint64, count int, distance float64) []Prop {
	rng := geom.NewRand(geom.Mix(seed, 0x6d746e73))
	b := t.Bounds()
	cx, cz := (b.X0+b.X1)/2, (b.Z0+b.Z1)/2
	out := make([]Prop, 0, count)
	for i := 0; i < count; i++ {
		a := float64(i)/float64(count)*2*math.Pi + rng.RangeF(-0.1, 0.1)
		d := distance * rng.RangeF(0.85, 1.15)
		out = append(out, Prop{
			Pos:   geom.Vec3{X: cx + math.Sin(a)*d, Z: cz + math.Cos(a)*d},
			Scale: rng.RangeF(20, 60),
		})
	}
	return out
}
