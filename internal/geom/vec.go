package geom

import "math"

// Vec3 is a point or direction in world space. Y is up; the track lives in
// the X/Z plane.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Normalize returns the unit vector and false when v has no usable length.
func (v Vec3) Normalize() (Vec3, bool) {
	l := v.Len()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}, false
	}
	return v.Scale(1 / l), true
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 { return Vec3{X: v.X, Z: v.Z} }

// Perp rotates a horizontal direction 90 degrees: (-z, 0, x).
func (v Vec3) Perp() Vec3 { return Vec3{X: -v.Z, Z: v.X} }

func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Distance is the 3D euclidean distance between a and b.
func Distance(a, b Vec3) float64 { return b.Sub(a).Len() }

// DistanceXZ ignores height.
func DistanceXZ(a, b Vec3) float64 { return math.Hypot(b.X-a.X, b.Z-a.Z) }

// LerpVec interpolates each component.
func LerpVec(a, b Vec3, t float64) Vec3 {
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}

// Midpoint of a and b.
func Midpoint(a, b Vec3) Vec3 { return a.Add(b).Scale(0.5) }

// Forward is the unit heading vector for a yaw angle: (0,0,1) rotated about +Y.
func Forward(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}

// Right is the vehicle's right-hand axis for a yaw angle.
func Right(yaw float64) Vec3 {
	return Vec3{X: -math.Cos(yaw), Z: math.Sin(yaw)}
}
