package game

import (
	"racer/internal/geom"
	"racer/internal/vehicle"
)

// Camera chases the car from behind and above.
type Camera struct {
	Pos    geom.Vec3
	Target geom.Vec3
	FOV    float64 // degrees
	Lerp   float64
}

func NewCamera() Camera {
	return Camera{FOV: CameraFOV, Lerp: CameraLerp}
}

func chasePoint(p vehicle.Pose) geom.Vec3 {
	return p.Pos.Add(geom.Forward(p.Heading).Scale(-CameraDistance)).Add(geom.V3(0, CameraHeight, 0))
}

func lookPoint(p vehicle.Pose) geom.Vec3 {
	return p.Pos.Add(geom.Forward(p.Heading).Scale(CameraLookAt))
}

// Snap jumps straight to the chase position; used on start and restart.
func (c *Camera) Snap(p vehicle.Pose) {
	c.Pos = chasePoint(p)
	c.Target = lookPoint(p)
}

// Follow closes a fixed fraction of the gap each frame.
func (c *Camera) Follow(p vehicle.Pose) {
	c.Pos = geom.LerpVec(c.Pos, chasePoint(p), c.Lerp)
	c.Target = lookPoint(p)
}

// ViewProj combines projection and view for the given aspect ratio.
func (c *Camera) ViewProj(aspect float64) Mat4 {
	if !(aspect > 0) {
		aspect = 1
	}
	proj := Perspective(geom.DegToRad(c.FOV), aspect, CameraNear, CameraFar)
	return proj.Mul(LookAt(c.Pos, c.Target, geom.V3(0, 1, 0)))
}
