package track

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racer/internal/geom"
)

// polygonLoop returns n points on a circle plus the closing duplicate.
func polygonLoop(n int, r float64) []geom.Vec3 {
	pts := make([]geom.Vec3, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, geom.V3(math.Sin(a)*r, 0, math.Cos(a)*r))
	}
	return append(pts, pts[0])
}

func TestThirteenPointsGiveTwelveCheckpoints(t *testing.T) {
	pts := polygonLoop(12, 80)
	require.Len(t, pts, 13)

	tr, err := New(pts, DefaultParams(12))
	require.NoError(t, err)
	assert.Equal(t, 12, tr.Segments())
	assert.Len(t, tr.Checkpoints(), 12)
	inner, outer := tr.Ribbon()
	assert.Len(t, inner, 12)
	assert.Len(t, outer, 12)
	assert.Len(t, tr.Barriers(), 24)
	for i, cp := range tr.Checkpoints() {
		assert.Equal(t, i, cp.Index)
		assert.InDelta(t, 12, cp.Len(), 1e-9)
	}
}

func TestClassicCircuit(t *testing.T) {
	pts := ClassicCircuit()
	assert.Equal(t, pts[0], pts[len(pts)-1])

	tr, err := New(pts, DefaultParams(12))
	require.NoError(t, err)
	assert.Equal(t, len(pts)-1, tr.Segments())
	assert.Equal(t, geom.V3(0, 0.5, 0), tr.StartPosition())
	assert.Greater(t, tr.Length(), 400.0)
	assert.Greater(t, tr.SurfaceArea(), 0.0)
}

func TestOpenLoopIsClosed(t *testing.T) {
	pts := polygonLoop(6, 50)
	open := pts[:len(pts)-1]
	tr, err := New(open, DefaultParams(10))
	require.NoError(t, err)
	assert.Equal(t, 6, tr.Segments())
	path := tr.Path()
	assert.Equal(t, path[0], path[len(path)-1])
}

func TestRibbonOffsetsArePerpendicular(t *testing.T) {
	pts := []geom.Vec3{geom.V3(0, 0, 0), geom.V3(10, 0, 0), geom.V3(10, 0, 10), geom.V3(0, 0, 10), geom.V3(0, 0, 0)}
	tr, err := New(pts, DefaultParams(4))
	require.NoError(t, err)

	inner, outer := tr.Ribbon()
	// Segment 0 runs along +X, so perp = (0, 0, 1).
	assert.InDelta(t, 0, inner[0].X, 1e-12)
	assert.InDelta(t, 2, inner[0].Z, 1e-12)
	assert.InDelta(t, -2, outer[0].Z, 1e-12)

	for i := range inner {
		d := inner[i].Sub(outer[i])
		assert.InDelta(t, 4, d.Len(), 1e-9)
		assert.InDelta(t, 0, d.Dot(tr.Direction(i)), 1e-9)
	}
}

func TestCheckpointSitsAtSegmentMidpoint(t *testing.T) {
	pts := []geom.Vec3{geom.V3(0, 0, 0), geom.V3(10, 0, 0), geom.V3(10, 0, 10), geom.V3(0, 0, 10), geom.V3(0, 0, 0)}
	tr, err := New(pts, DefaultParams(4))
	require.NoError(t, err)

	last := tr.Checkpoints()[3] // (0,0,10) -> (0,0,0), wraps to the first point
	mid := last.Mid()
	assert.InDelta(t, 0, mid.X, 1e-12)
	assert.InDelta(t, 5, mid.Z, 1e-12)
	assert.True(t, last.Crosses(geom.V3(0.5, 0.5, 6), geom.V3(0.5, 0.5, 4)))
}

func TestNewRejectsDegenerateInput(t *testing.T) {
	tests := []struct {
		name string
		pts  []geom.Vec3
		p    Params
		want error
	}{
		{"empty", nil, DefaultParams(12), ErrTooFewPoints},
		{"single point", []geom.Vec3{geom.V3(1, 0, 1), geom.V3(1, 0, 1)}, DefaultParams(12), ErrTooFewPoints},
		{"repeated point", []geom.Vec3{geom.V3(0, 0, 0), geom.V3(5, 0, 0), geom.V3(5, 0, 0), geom.V3(0, 0, 5)}, DefaultParams(12), ErrDegenerateSegment},
		{"vertical only", []geom.Vec3{geom.V3(0, 0, 0), geom.V3(0, 3, 0), geom.V3(4, 0, 4)}, DefaultParams(12), ErrDegenerateSegment},
		{"zero width", polygonLoop(5, 20), DefaultParams(0), ErrInvalidWidth},
		{"nan", []geom.Vec3{geom.V3(0, 0, 0), geom.V3(math.NaN(), 0, 0), geom.V3(4, 0, 4)}, DefaultParams(12), ErrNonFiniteGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.pts, tt.p)
			assert.Nil(t, tr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCollidesWithBarrier(t *testing.T) {
	tr, err := New(polygonLoop(12, 80), DefaultParams(12))
	require.NoError(t, err)

	// On the centreline of segment 0.
	seg0 := geom.Midpoint(tr.Path()[0], tr.Path()[1])
	yaw := math.Atan2(tr.Direction(0).X, tr.Direction(0).Z)
	car := geom.OBB{Center: seg0, Yaw: yaw, HalfWidth: 1, HalfLength: 2, Top: 1.2}
	assert.False(t, tr.Collides(car))

	// Pushed sideways onto the inner barrier.
	b := tr.Barriers()[0]
	require.Equal(t, Inner, b.Side)
	car.Center = b.Box.Center
	hit, ok := tr.Collision(car)
	require.True(t, ok)
	assert.Equal(t, 0, hit.Segment)

	// Far outside the circuit.
	car.Center = geom.V3(500, 0, 500)
	assert.False(t, tr.Collides(car))
}

func TestOnTrack(t *testing.T) {
	tr, err := New(polygonLoop(12, 80), DefaultParams(12))
	require.NoError(t, err)

	assert.True(t, tr.OnTrack(geom.Midpoint(tr.Path()[2], tr.Path()[3])))
	assert.False(t, tr.OnTrack(geom.V3(0, 0, 0)))
	assert.False(t, tr.OnTrack(geom.V3(200, 0, 0)))

	wkt, err := tr.SurfaceWKT()
	require.NoError(t, err)
	assert.Contains(t, wkt, "POLYGON")
}

func TestSurfaceTrianglesCloseTheLoop(t *testing.T) {
	tr, err := New(polygonLoop(8, 40), DefaultParams(6))
	require.NoError(t, err)
	tris := tr.SurfaceTriangles()
	require.Len(t, tris, 8*6)
	inner, _ := tr.Ribbon()
	// The last quad joins back to the first edge points.
	assert.Equal(t, inner[0], tris[len(tris)-4])
}

func TestProceduralCircuitDeterministic(t *testing.T) {
	a, err := ProceduralCircuit(7, 16, 120, 0.3)
	require.NoError(t, err)
	b, err := ProceduralCircuit(7, 16, 120, 0.3)
	require.NoError(t, err)
	c, err := ProceduralCircuit(8, 16, 120, 0.3)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a[0], a[len(a)-1])

	_, err = New(a, DefaultParams(12))
	assert.NoError(t, err)

	_, err = ProceduralCircuit(1, 2, 100, 0)
	assert.True(t, errors.Is(err, ErrTooFewPoints))
}

func TestPlaceSceneryKeepsClearance(t *testing.T) {
	tr, err := New(ClassicCircuit(), DefaultParams(12))
	require.NoError(t, err)

	props := PlaceScenery(tr, 3, 100, 400, 20)
	assert.NotEmpty(t, props)
	assert.LessOrEqual(t, len(props), 100)
	inner, outer := tr.Ribbon()
	for _, p := range props {
		for _, e := range append(append([]geom.Vec3{}, inner...), outer...) {
			assert.GreaterOrEqual(t, geom.DistanceXZ(p.Pos, e), 20.0)
		}
	}
	assert.Equal(t, props, PlaceScenery(tr, 3, 100, 400, 20))

	m := Mountains(tr, 3, 12, 600)
	assert.Len(t, m, 12)
}

func TestSurfacePolygonMatchesRibbon(t *testing.T) {
	tr, err := New(polygonLoop(12, 80), DefaultParams(12))
	require.NoError(t, err)
	require.True(t, tr.surface.valid)

	inner, outer := tr.Ribbon()
	want := math.Abs(math.Abs(geom.SignedArea(outer)) - math.Abs(geom.SignedArea(inner)))
	assert.InDelta(t, want, tr.SurfaceArea(), 1e-6)
	assert.Equal(t, 2, tr.Surface().NumRings())
}

func TestFoldedRibbonFallsBackToEvenOdd(t *testing.T) {
	// A 4 m wide loop with a 12 m ribbon: the inner edge loop pokes out of
	// the outer one, so the polygon is not valid.
	pts := []geom.Vec3{geom.V3(0, 0, 0), geom.V3(40, 0, 0), geom.V3(40, 0, 4), geom.V3(0, 0, 4)}
	tr, err := New(pts, DefaultParams(12))
	require.NoError(t, err)
	assert.False(t, tr.surface.valid)

	wkt, err := tr.SurfaceWKT()
	require.NoError(t, err)
	assert.Contains(t, wkt, "POLYGON")

	assert.True(t, tr.OnTrack(geom.V3(20, 0, -3)))
	assert.False(t, tr.OnTrack(geom.V3(20, 0, 2)))
	assert.False(t, tr.OnTrack(geom.V3(100, 0, 0)))
	assert.InDelta(t, tr.Length()*12, tr.SurfaceArea(), 1e-9)
}

func TestCarOnRibbonClearsBarriers(t *testing.T) {
	for name, pts := range map[string][]geom.Vec3{
		"classic": ClassicCircuit(),
		"12-gon":  polygonLoop(12, 80),
	} {
		t.Run(name, func(t *testing.T) {
			p := DefaultParams(12)
			tr, err := New(pts, p)
			require.NoError(t, err)

			const halfWidth, halfLength = 0.9, 2.0
			limit := p.Width/2 - halfWidth - p.BarrierMargin
			path := tr.Path()
			for i := 0; i < tr.Segments(); i++ {
				dir := tr.Direction(i)
				perp, _ := dir.Perp().Normalize()
				yaw := math.Atan2(dir.X, dir.Z)
				l := geom.DistanceXZ(path[i], path[i+1])
				for s := 0.0; s <= l; s += 0.5 {
					for off := -limit; off <= limit+1e-9; off += 0.2 {
						c := path[i].Add(dir.Scale(s)).Add(perp.Scale(off))
						car := geom.OBB{Center: c, Yaw: yaw, HalfWidth: halfWidth, HalfLength: halfLength, Top: 1.2}
						b, hit := tr.Collision(car)
						if hit {
							t.Fatalf("segment %d s=%.1f off=%.1f hits %s barrier of segment %d", i, s, off, b.Side, b.Segment)
						}
					}
				}
			}
		})
	}
}

func TestBarrierWallsMeetAtCorners(t *testing.T) {
	tr, err := New(ClassicCircuit(), DefaultParams(12))
	require.NoError(t, err)

	ends := func(b Barrier) (geom.Vec3, geom.Vec3) {
		f := geom.Forward(b.Box.Yaw).Scale(b.Box.HalfLength)
		return b.Box.Center.Sub(f), b.Box.Center.Add(f)
	}
	bs := tr.Barriers()
	n := tr.Segments()
	require.Len(t, bs, 2*n)
	for i := 0; i < n; i++ {
		for side := 0; side < 2; side++ {
			cur := bs[2*i+side]
			next := bs[2*((i+1)%n)+side]
			require.Equal(t, cur.Side, next.Side)
			_, end := ends(cur)
			start, _ := ends(next)
			assert.InDelta(t, 0, geom.DistanceXZ(end, start), 1e-6, "segment %d %s", i, cur.Side)
			// The wall sits on its offset line.
			d := cur.Box.Center.Sub(tr.Path()[i].Flat())
			perp, _ := tr.Direction(i).Perp().Normalize()
			assert.InDelta(t, 6.5, math.Abs(d.Dot(perp)), 1e-6)
		}
	}
}

func TestStartPositionFollowsFirstPointHeight(t *testing.T) {
	pts := polygonLoop(6, 50)
	for i := range pts {
		pts[i].Y = 3
	}
	tr, err := New(pts, DefaultParams(10))
	require.NoError(t, err)
	assert.InDelta(t, 3.5, tr.StartPosition().Y, 1e-12)
}
