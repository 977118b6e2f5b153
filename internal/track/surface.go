package track

import (
	"math"

	"github.com/pkg/errors"
	sf "github.com/peterstace/simplefeatures/geom"

	"racer/internal/geom"
)

// surface is the ribbon as a polygon: the larger edge loop is the shell and
// the smaller one the hole.
type surface struct {
	poly  sf.Polygon
	valid bool
}

func newSurface(inner, outer []geom.Vec3) (surface, error) {
	if len(inner) < 3 || len(outer) < 3 {
		return surface{}, errInternalRingLength
	}
	shell, hole := outer, inner
	if math.Abs(geom.SignedArea(inner)) > math.Abs(geom.SignedArea(outer)) {
		shell, hole = inner, outer
	}
	if poly, err := polygon(shell, hole); err == nil {
		return surface{poly: poly, valid: true}, nil
	}
	// Tight hairpins fold the edge loops over themselves. Keep the raw rings
	// for drawing and WKT; OnTrack falls back to the even-odd test.
	poly, err := polygon(shell, hole, sf.DisableAllValidations)
	if err != nil {
		return surface{}, errors.Wrap(err, "ribbon polygon")
	}
	return surface{poly: poly}, nil
}

func polygon(shell, hole []geom.Vec3, opts ...sf.ConstructorOption) (sf.Polygon, error) {
	rings := make([]sf.LineString, 0, 2)
	for _, pts := range [2][]geom.Vec3{shell, hole} {
		ls, err := ring(pts, opts...)
		if err != nil {
			return sf.Polygon{}, err
		}
		rings = append(rings, ls)
	}
	return sf.NewPolygon(rings, opts...)
}

func ring(pts []geom.Vec3, opts ...sf.ConstructorOption) (sf.LineString, error) {
	coords := make([]float64, 0, (len(pts)+1)*2)
	for _, p := range pts {
		coords = append(coords, p.X, p.Z)
	}
	coords = append(coords, pts[0].X, pts[0].Z)
	return sf.NewLineString(sf.NewSequence(coords, sf.DimXY), opts...)
}

// OnTrack reports whether p lies on the drivable ribbon.
func (t *Track) OnTrack(p geom.Vec3) bool {
	if t.surface.valid {
		if pt, err := (sf.XY{X: p.X, Y: p.Z}).AsPoint(); err == nil {
			return sf.Intersects(t.surface.poly.AsGeometry(), pt.AsGeometry())
		}
	}
	return geom.PointInPolygon(p, t.inner) != geom.PointInPolygon(p, t.outer)
}

// SurfaceArea is the ribbon's area, or an estimate from the centreline when
// the edge loops self-intersect.
func (t *Track) SurfaceArea() float64 {
	if t.surface.valid {
		return t.surface.poly.Area()
	}
	return t.length * t.params.Width
}

// SurfaceWKT renders the ribbon polygon as well-known text.
func (t *Track) SurfaceWKT() (string, error) {
	if len(t.inner) < 3 {
		return "", errors.Wrap(errInternalRingLength, "surface wkt")
	}
	return t.surface.poly.AsText(), nil
}

// Surface exposes the ribbon polygon.
func (t *Track) Surface() sf.Polygon { return t.surface.poly }
