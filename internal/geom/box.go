package geom

import "math"

// Rect is an axis-aligned rectangle on the X/Z plane.
type Rect struct {
	X0, Z0 float64
	X1, Z1 float64
}

func (r Rect) Intersects(o Rect) bool {
	return r.X0 < o.X1 && r.X1 > o.X0 && r.Z0 < o.Z1 && r.Z1 > o.Z0
}

func (r Rect) Contains(o Rect) bool {
	return o.X0 >= r.X0 && o.X1 <= r.X1 && o.Z0 >= r.Z0 && o.Z1 <= r.Z1
}

func (r Rect) Expand(m float64) Rect {
	return Rect{X0: r.X0 - m, Z0: r.Z0 - m, X1: r.X1 + m, Z1: r.Z1 + m}
}

// Union grows r to cover o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0), Z0: math.Min(r.Z0, o.Z0),
		X1: math.Max(r.X1, o.X1), Z1: math.Max(r.Z1, o.Z1),
	}
}

// RectAround returns the bounds of a set of points.
func RectAround(pts ...Vec3) Rect {
	r := Rect{X0: math.Inf(1), Z0: math.Inf(1), X1: math.Inf(-1), Z1: math.Inf(-1)}
	for _, p := range pts {
		r.X0 = math.Min(r.X0, p.X)
		r.Z0 = math.Min(r.Z0, p.Z)
		r.X1 = math.Max(r.X1, p.X)
		r.Z1 = math.Max(r.Z1, p.Z)
	}
	return r
}

// Box3 is a world-space axis-aligned bounding box.
type Box3 struct {
	Min, Max Vec3
}

func (b Box3) Intersects(o Box3) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Rect drops the vertical extent.
func (b Box3) Rect() Rect {
	return Rect{X0: b.Min.X, Z0: b.Min.Z, X1: b.Max.X, Z1: b.Max.Z}
}

func (b Box3) Center() Vec3 { return Midpoint(b.Min, b.Max) }

// OBB is a box on the X/Z plane rotated by Yaw, with vertical extent
// [Bottom, Top]. HalfLength runs along Forward(Yaw), HalfWidth along Right(Yaw).
type OBB struct {
	Center     Vec3
	Yaw        float64
	HalfWidth  float64
	HalfLength float64
	Bottom     float64
	Top        float64
}

// Corners returns front-right, front-left, rear-left, rear-right.
func (b OBB) Corners() [4]Vec3 {
	f := Forward(b.Yaw).Scale(b.HalfLength)
	r := Right(b.Yaw).Scale(b.HalfWidth)
	c := b.Center.Flat()
	return [4]Vec3{
		c.Add(f).Add(r),
		c.Add(f).Sub(r),
		c.Sub(f).Sub(r),
		c.Sub(f).Add(r),
	}
}

// Bounds is the axis-aligned box enclosing the rotated footprint.
func (b OBB) Bounds() Box3 {
	s, c := math.Abs(math.Sin(b.Yaw)), math.Abs(math.Cos(b.Yaw))
	ex := c*b.HalfWidth + s*b.HalfLength
	ez := s*b.HalfWidth + c*b.HalfLength
	return Box3{
		Min: Vec3{X: b.Center.X - ex, Y: b.Bottom, Z: b.Center.Z - ez},
		Max: Vec3{X: b.Center.X + ex, Y: b.Top, Z: b.Center.Z + ez},
	}
}

// Overlaps is a separating-axis test on the four edge normals, plus the
// vertical extents.
func (b OBB) Overlaps(o OBB) bool {
	if b.Top < o.Bottom || o.Top < b.Bottom {
		return false
	}
	bc, oc := b.Corners(), o.Corners()
	axes := [4]Vec3{Forward(b.Yaw), Right(b.Yaw), Forward(o.Yaw), Right(o.Yaw)}
	for _, ax := range axes {
		bmin, bmax := project(bc, ax)
		omin, omax := project(oc, ax)
		if bmax < omin || omax < bmin {
			return false
		}
	}
	return true
}

func project(pts [4]Vec3, axis Vec3) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		d := p.X*axis.X + p.Z*axis.Z
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
