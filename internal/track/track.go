// Package track turns a closed loop of control points into the drivable
// ribbon, its barriers and the ordered checkpoint gates.
package track

import (
	"math"

	"github.com/pkg/errors"

	"racer/internal/geom"
)

var (
	ErrTooFewPoints       = errors.New("track: need at least 2 distinct control points")
	ErrDegenerateSegment  = errors.New("track: zero-length segment")
	ErrInvalidWidth       = errors.New("track: width must be positive")
	ErrNonFiniteGeometry  = errors.New("track: control point is not finite")
	errInternalRingLength = errors.New("track: ribbon ring too short")
)

// Side of the ribbon a barrier guards.
type Side int

const (
	Inner Side = iota // +perpendicular
	Outer             // -perpendicular
)

func (s Side) String() string {
	if s == Inner {
		return "inner"
	}
	return "outer"
}

// Params controls ribbon and barrier dimensions.
type Params struct {
	Width            float64 // ribbon width
	BarrierMargin    float64 // gap between ribbon edge and barrier centreline
	BarrierThickness float64
	BarrierHeight    float64
	BarrierLength    float64 // fraction of the corner-to-corner span each barrier covers
	RideHeight       float64 // start position height above the path
}

// DefaultParams is the stock circuit: 0.5 m margin, 0.5 m thick,
// 1.5 m tall barriers and a 0.5 m ride height.
func DefaultParams(width float64) Params {
	return Params{
		Width:            width,
		BarrierMargin:    0.5,
		BarrierThickness: 0.5,
		BarrierHeight:    1.5,
		BarrierLength:    1.0,
		RideHeight:       0.5,
	}
}

// Checkpoint is a gate line across the ribbon at a segment midpoint.
// Index 0 is the start/finish line.
type Checkpoint struct {
	Index int
	geom.Segment
}

// Barrier is a static wall along one ribbon edge of one segment.
type Barrier struct {
	Segment int
	Side    Side
	Box     geom.OBB
	Bounds  geom.Box3
}

// Track is immutable after New returns; it is safe to share between ticks.
type Track struct {
	params Params

	path  []geom.Vec3 // closed: last == first
	dirs  []geom.Vec3 // unit direction per segment
	perps []geom.Vec3 // unit perpendicular per segment

	inner []geom.Vec3
	outer []geom.Vec3

	barriers    []Barrier
	checkpoints []Checkpoint

	start        geom.Vec3
	startHeading float64
	length       float64
	bounds       geom.Rect

	index   *geom.Quadtree[Barrier]
	surface surface
}

// New builds a track from control points. The loop is closed automatically
// when the last point does not already repeat the first.
func New(points []geom.Vec3, p Params) (*Track, error) {
	if !(p.Width > 0) {
		return nil, errors.Wrapf(ErrInvalidWidth, "got %v", p.Width)
	}
	for i, pt := range points {
		if !pt.IsFinite() {
			return nil, errors.Wrapf(ErrNonFiniteGeometry, "point %d", i)
		}
	}
	if distinctCount(points) < 2 {
		return nil, errors.Wrapf(ErrTooFewPoints, "got %d", distinctCount(points))
	}

	path := make([]geom.Vec3, len(points), len(points)+1)
	copy(path, points)
	if path[0] != path[len(path)-1] {
		path = append(path, path[0])
	}

	n := len(path) - 1 // segment count
	t := &Track{
		params: p,
		path:   path,
		dirs:   make([]geom.Vec3, n),
		perps:  make([]geom.Vec3, n),
		inner:  make([]geom.Vec3, n),
		outer:  make([]geom.Vec3, n),
	}

	half := p.Width / 2
	for i := 0; i < n; i++ {
		cur := path[i]
		next := path[(i+1)%n]
		dir, ok := next.Sub(cur).Flat().Normalize()
		if !ok {
			return nil, errors.Wrapf(ErrDegenerateSegment, "segment %d at (%.2f, %.2f)", i, cur.X, cur.Z)
		}
		perp, _ := dir.Perp().Normalize()
		t.dirs[i] = dir
		t.perps[i] = perp
		t.inner[i] = cur.Add(perp.Scale(half))
		t.outer[i] = cur.Add(perp.Scale(-half))
		t.length += geom.DistanceXZ(cur, next)
	}

	t.buildBarriers()
	t.buildCheckpoints()

	t.start = geom.Vec3{X: path[0].X, Y: path[0].Y + p.RideHeight, Z: path[0].Z}
	t.startHeading = math.Atan2(t.dirs[0].X, t.dirs[0].Z)

	t.bounds = geom.RectAround(t.inner...).Union(geom.RectAround(t.outer...))
	for _, b := range t.barriers {
		t.bounds = t.bounds.Union(b.Bounds.Rect())
	}
	t.index = geom.NewQuadtree[Barrier](t.bounds.Expand(1))
	for _, b := range t.barriers {
		t.index.Insert(b, b.Box)
	}

	s, err := newSurface(t.inner, t.outer)
	if err != nil && !errors.Is(err, errInternalRingLength) {
		return nil, errors.Wrap(err, "track surface")
	}
	t.surface = s

	return t, nil
}

func distinctCount(points []geom.Vec3) int {
	seen := make(map[geom.Vec3]struct{}, len(points))
	for _, p := range points {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// buildBarriers lays two walls per segment on lines offset by
// width/2 + margin. Each wall runs between the points where its line meets
// the neighbouring segments' lines, so inside corners do not cut across the
// asphalt and outside corners have no gap.
func (t *Track) buildBarriers() {
	p := t.params
	off := p.Width/2 + p.BarrierMargin
	n := t.Segments()
	t.barriers = make([]Barrier, 0, 2*n)
	for i := 0; i < n; i++ {
		for _, side := range [2]Side{Inner, Outer} {
			sign := 1.0
			if side == Outer {
				sign = -1
			}
			from := t.barrierCorner(i, sign*off)
			to := t.barrierCorner(i+1, sign*off)
			span := to.Sub(from).Dot(t.dirs[i])
			box := geom.OBB{
				Center:     geom.Midpoint(from, to).Flat(),
				Yaw:        math.Atan2(t.dirs[i].X, t.dirs[i].Z),
				HalfWidth:  p.BarrierThickness / 2,
				HalfLength: math.Max(span, 0) * p.BarrierLength / 2,
				Bottom:     0,
				Top:        p.BarrierHeight,
			}
			t.barriers = append(t.barriers, Barrier{
				Segment: i,
				Side:    side,
				Box:     box,
				Bounds:  box.Bounds(),
			})
		}
	}
}

// Corners further than this many offsets from their control point are
// hairpins; the wall ends square instead.
const maxMiter = 4.0

// barrierCorner is where the wall lines of segments i-1 and i meet, offset by
// off along the perpendicular (positive is the inner side).
func (t *Track) barrierCorner(i int, off float64) geom.Vec3 {
	n := t.Segments()
	i = ((i % n) + n) % n
	prev := (i - 1 + n) % n
	pt := t.path[i].Flat()
	square := pt.Add(t.perps[i].Scale(off))

	// Lines pt + perp*off + s*dir for both segments; solve for the meeting point.
	a := pt.Add(t.perps[prev].Scale(off))
	da, db := t.dirs[prev], t.dirs[i]
	den := da.X*db.Z - da.Z*db.X
	if math.Abs(den) < 1e-9 {
		return square
	}
	d := square.Sub(a)
	s := (d.X*db.Z - d.Z*db.X) / den
	c := a.Add(da.Scale(s))
	if geom.DistanceXZ(c, pt) > maxMiter*math.Abs(off) {
		return square
	}
	return c
}

func (t *Track) buildCheckpoints() {
	half := t.params.Width / 2
	n := t.Segments()
	t.checkpoints = make([]Checkpoint, n)
	for i := 0; i < n; i++ {
		mid := geom.Midpoint(t.path[i], t.path[(i+1)%n])
		t.checkpoints[i] = Checkpoint{
			Index: i,
			Segment: geom.Segment{
				A: mid.Add(t.perps[i].Scale(half)),
				B: mid.Add(t.perps[i].Scale(-half)),
			},
		}
	}
}

// Segments is the number of path segments (control points minus the closing duplicate).
func (t *Track) Segments() int { return len(t.path) - 1 }

func (t *Track) Width() float64 { return t.params.Width }

func (t *Track) Params() Params { return t.params }

// Path returns the closed control loop. Callers must not modify it.
func (t *Track) Path() []geom.Vec3 { return t.path }

// Ribbon returns the inner and outer edge points, index-aligned to segments.
func (t *Track) Ribbon() (inner, outer []geom.Vec3) { return t.inner, t.outer }

func (t *Track) Barriers() []Barrier { return t.barriers }

func (t *Track) Checkpoints() []Checkpoint { return t.checkpoints }

// StartPosition is the first control point raised to ride height.
func (t *Track) StartPosition() geom.Vec3 { return t.start }

// StartHeading faces along the first segment.
func (t *Track) StartHeading() float64 { return t.startHeading }

// Length is the centreline length of the loop.
func (t *Track) Length() float64 { return t.length }

// Bounds covers the ribbon and all barriers.
func (t *Track) Bounds() geom.Rect { return t.bounds }

// Direction returns the unit direction of segment i (wrapping).
func (t *Track) Direction(i int) geom.Vec3 {
	n := t.Segments()
	return t.dirs[((i%n)+n)%n]
}

// SurfaceTriangles returns two triangles per segment joining segment i's edge
// points to segment (i+1)'s, so the strip closes without a seam.
func (t *Track) SurfaceTriangles() []geom.Vec3 {
	n := t.Segments()
	out := make([]geom.Vec3, 0, n*6)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		out = append(out,
			t.inner[i], t.outer[i], t.inner[j],
			t.inner[j], t.outer[i], t.outer[j],
		)
	}
	return out
}

// Collision reports a barrier whose box overlaps footprint.
func (t *Track) Collision(footprint geom.OBB) (Barrier, bool) {
	return t.index.First(footprint)
}

// Collides is Collision without the barrier.
func (t *Track) Collides(footprint geom.OBB) bool {
	_, hit := t.Collision(footprint)
	return hit
}
