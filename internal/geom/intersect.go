package geom

import "math"

// Segment is a line segment in the horizontal plane.
type Segment struct {
	A, B Vec3
}

func (s Segment) Len() float64 { return DistanceXZ(s.A, s.B) }

func (s Segment) Mid() Vec3 { return Midpoint(s.A, s.B) }

// SegmentIntersect tests p1-p2 against p3-p4 on the X/Z plane using the
// parametric cross ratios. ua is the position along p1-p2 and ub along p3-p4.
// Parallel or coincident segments never intersect.
func SegmentIntersect(p1, p2, p3, p4 Vec3) (ua, ub float64, ok bool) {
	den := (p4.Z-p3.Z)*(p2.X-p1.X) - (p4.X-p3.X)*(p2.Z-p1.Z)
	if math.Abs(den) < Epsilon {
		return 0, 0, false
	}
	ua = ((p4.X-p3.X)*(p1.Z-p3.Z) - (p4.Z-p3.Z)*(p1.X-p3.X)) / den
	ub = ((p2.X-p1.X)*(p1.Z-p3.Z) - (p2.Z-p1.Z)*(p1.X-p3.X)) / den
	if ua < 0 || ua > 1 || ub < 0 || ub > 1 {
		return ua, ub, false
	}
	return ua, ub, true
}

// Crosses reports whether the motion segment from-to crosses s.
func (s Segment) Crosses(from, to Vec3) bool {
	_, _, ok := SegmentIntersect(from, to, s.A, s.B)
	return ok
}

// PointInPolygon is an even-odd ray cast on the X/Z plane.
func PointInPolygon(p Vec3, poly []Vec3) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		xi, zi := poly[i].X, poly[i].Z
		xj, zj := poly[j].X, poly[j].Z
		if (zi > p.Z) != (zj > p.Z) && p.X < (xj-xi)*(p.Z-zi)/(zj-zi)+xi {
			inside = !inside
		}
	}
	return inside
}

// SignedArea is the shoelace area of a closed ring on the X/Z plane.
// Positive when the ring turns from +X toward +Z.
func SignedArea(ring []Vec3) float64 {
	a := 0.0
	for i := range ring {
		j := (i + 1) % len(ring)
		a += ring[i].X*ring[j].Z - ring[j].X*ring[i].Z
	}
	return a / 2
}
