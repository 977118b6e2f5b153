package game

import (
	"math"

	"racer/internal/geom"
)

// Mat4 is a column-major 4x4 matrix, laid out the way gl.UniformMatrix4fv
// expects with transpose=false.
type Mat4 [16]float32

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a*b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Apply transforms a point and returns clip coordinates.
func (a Mat4) Apply(v geom.Vec3) (x, y, z, w float64) {
	p := [4]float64{v.X, v.Y, v.Z, 1}
	var out [4]float64
	for r := 0; r < 4; r++ {
		for k := 0; k < 4; k++ {
			out[r] += float64(a[k*4+r]) * p[k]
		}
	}
	return out[0], out[1], out[2], out[3]
}

func Translate(v geom.Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = float32(v.X), float32(v.Y), float32(v.Z)
	return m
}

// RotateY turns local +Z onto geom.Forward(yaw).
func RotateY(yaw float64) Mat4 {
	s, c := float32(math.Sin(yaw)), float32(math.Cos(yaw))
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// RotateX rolls about the axle; used for wheel spin.
func RotateX(a float64) Mat4 {
	s, c := float32(math.Sin(a)), float32(math.Cos(a))
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// Model places a mesh built around the origin at pos facing yaw.
func Model(pos geom.Vec3, yaw float64) Mat4 {
	return Translate(pos).Mul(RotateY(yaw))
}

// Perspective is the usual right-handed projection; fovy in radians.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	var m Mat4
	m[0] = float32(f / aspect)
	m[5] = float32(f)
	m[10] = float32((far + near) / (near - far))
	m[11] = -1
	m[14] = float32(2 * far * near / (near - far))
	return m
}

// LookAt builds a view matrix; up must not be parallel to the view direction.
func LookAt(eye, center, up geom.Vec3) Mat4 {
	f, _ := center.Sub(eye).Normalize()
	s, _ := cross(f, up).Normalize()
	u := cross(s, f)
	m := Identity()
	m[0], m[4], m[8] = float32(s.X), float32(s.Y), float32(s.Z)
	m[1], m[5], m[9] = float32(u.X), float32(u.Y), float32(u.Z)
	m[2], m[6], m[10] = float32(-f.X), float32(-f.Y), float32(-f.Z)
	m[12] = float32(-s.Dot(eye))
	m[13] = float32(-u.Dot(eye))
	m[14] = float32(f.Dot(eye))
	return m
}

func cross(a, b geom.Vec3) geom.Vec3 {
	return geom.V3(a.Y*b.Z-a.Z*b.Y, a.Z*b.X-a.X*b.Z, a.X*b.Y-a.Y*b.X)
}

// Ortho maps framebuffer pixels (origin top-left) to NDC.
func Ortho(w, h float64) Mat4 {
	m := Identity()
	m[0] = float32(2 / w)
	m[5] = float32(-2 / h)
	m[12] = -1
	m[13] = 1
	return m
}
