package track

import (
	"math"

	"github.com/pkg/errors"

	"racer/internal/geom"
)

// ClassicCircuit is the built-in thirteen-point loop, closed.
func ClassicCircuit() []geom.Vec3 {
	return []geom.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 40, Y: 0, Z: -20},
		{X: 60, Y: 0, Z: -60},
		{X: 50, Y: 0, Z: -100},
		{X: 20, Y: 0, Z: -120},
		{X: -20, Y: 0, Z: -130},
		{X: -60, Y: 0, Z: -110},
		{X: -80, Y: 0, Z: -80},
		{X: -90, Y: 0, Z: -40},
		{X: -80, Y: 0, Z: 0},
		{X: -60, Y: 0, Z: 30},
		{X: -30, Y: 0, Z: 40},
		{X: 0, Y: 0, Z: 30},
		{X: 0, Y: 0, Z: 0},
	}
}

// Minimum spacing between procedural control points.
const minPointSpacing = 5.0

// ProceduralCircuit lays n points around a circle of the given radius and
// perturbs each radius and angle by up to jitter (a fraction of radius and of
// the angular step). The same seed always produces the same loop.
func ProceduralCircuit(seed uint64, n int, radius, jitter float64) ([]geom.Vec3, error) {
	if n < 3 {
		return nil, errors.Wrapf(ErrTooFewPoints, "procedural circuit needs 3 points, got %d", n)
	}
	if !(radius > 0) {
		return nil, errors.Errorf("track: procedural radius must be positive, got %v", radius)
	}
	jitter = geom.Clamp(jitter, 0, 0.9)

	rng := geom.NewRand(geom.Mix(seed, 0x7261636b))
	step := 2 * math.Pi / float64(n)
	pts := make([]geom.Vec3, 0, n+1)
	for i := 0; i < n; i++ {
		a := float64(i)*step + rng.RangeF(-0.4, 0.4)*step*jitter
		r := radius * (1 + rng.RangeF(-1, 1)*jitter)
		p := geom.Vec3{X: math.Sin(a) * r, Z: math.Cos(a) * r}
		if len(pts) > 0 && geom.DistanceXZ(p, pts[len(pts)-1]) < minPointSpacing {
			continue
		}
		pts = append(pts, p)
	}
	if geom.DistanceXZ(pts[0], pts[len(pts)-1]) < minPointSpacing {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return nil, errors.Wrapf(ErrTooFewPoints, "procedural circuit collapsed to %d points", len(pts))
	}
	return append(pts, pts[0]), nil
}
