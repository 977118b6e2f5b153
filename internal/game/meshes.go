package game

import (
	"math"

	"racer/internal/geom"
	"racer/internal/track"
	"racer/internal/vehicle"
)

// FloatsPerVertex is position (3) followed by colour (3).
const FloatsPerVertex = 6

// Face shades.
const (
	shadeTop   = 255
	shadeSideA = 205
	shadeSideB = 170
)

// Mesh is an unindexed triangle list ready for a VBO.
type Mesh struct {
	Data []float32
}

func (m *Mesh) Vertices() int { return len(m.Data) / FloatsPerVertex }

func (m *Mesh) vert(p geom.Vec3, c RGB) {
	r, g, b := c.F32()
	m.Data = append(m.Data, float32(p.X), float32(p.Y), float32(p.Z), r, g, b)
}

func (m *Mesh) tri(a, b, c geom.Vec3, col RGB) {
	m.vert(a, col)
	m.vert(b, col)
	m.vert(c, col)
}

func (m *Mesh) quad(a, b, c, d geom.Vec3, col RGB) {
	m.tri(a, b, c, col)
	m.tri(a, c, d, col)
}

func lift(p geom.Vec3, y float64) geom.Vec3 { return geom.V3(p.X, y, p.Z) }

// prism extrudes a four-cornered footprint from bottom to top.
func (m *Mesh) prism(base [4]geom.Vec3, bottom, top float64, col RGB) {
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		shade := uint8(shadeSideA)
		if i%2 == 1 {
			shade = shadeSideB
		}
		m.quad(lift(base[i], bottom), lift(base[j], bottom), lift(base[j], top), lift(base[i], top), col.Mul(shade))
	}
	m.quad(lift(base[0], top), lift(base[1], top), lift(base[2], top), lift(base[3], top), col.Mul(shadeTop))
}

// cone is an n-sided pyramid standing on y=base.
func (m *Mesh) cone(center geom.Vec3, radius, base, height float64, sides int, col, tip RGB) {
	apex := geom.V3(center.X, base+height, center.Z)
	for i := 0; i < sides; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(sides)
		a1 := 2 * math.Pi * float64(i+1) / float64(sides)
		p0 := geom.V3(center.X+math.Sin(a0)*radius, base, center.Z+math.Cos(a0)*radius)
		p1 := geom.V3(center.X+math.Sin(a1)*radius, base, center.Z+math.Cos(a1)*radius)
		shade := uint8(shadeSideA)
		if i%2 == 1 {
			shade = shadeSideB
		}
		m.vert(p0, col.Mul(shade))
		m.vert(p1, col.Mul(shade))
		m.vert(apex, tip.Mul(shade))
	}
}

func rectXZ(x0, z0, x1, z1 float64) [4]geom.Vec3 {
	return [4]geom.Vec3{geom.V3(x0, 0, z0), geom.V3(x1, 0, z0), geom.V3(x1, 0, z1), geom.V3(x0, 0, z1)}
}

// TrackMesh holds the ground, the ribbon, the kerb barriers and the start line.
func TrackMesh(t *track.Track) Mesh {
	var m Mesh
	b := t.Bounds().Expand(GroundMargin)
	m.quad(geom.V3(b.X0, -0.02, b.Z0), geom.V3(b.X1, -0.02, b.Z0), geom.V3(b.X1, -0.02, b.Z1), geom.V3(b.X0, -0.02, b.Z1), Palette.Grass)

	tris := t.SurfaceTriangles()
	for i := 0; i+2 < len(tris); i += 3 {
		m.tri(lift(tris[i], 0.01), lift(tris[i+1], 0.01), lift(tris[i+2], 0.01), Palette.Asphalt)
	}

	for _, br := range t.Barriers() {
		col := Palette.KerbRed
		if br.Segment%2 == 1 {
			col = Palette.KerbWhite
		}
		m.prism(br.Box.Corners(), br.Box.Bottom, br.Box.Top, col)
	}

	start := t.Checkpoints()[0]
	dir := t.Direction(0).Scale(0.6)
	m.quad(lift(start.A, 0.02), lift(start.B, 0.02), lift(start.B.Add(dir), 0.02), lift(start.A.Add(dir), 0.02), Palette.StartLine)
	return m
}

// SceneryMesh draws trees as trunk plus crown and mountains as snow-capped cones.
func SceneryMesh(trees, mountains []track.Prop) Mesh {
	var m Mesh
	for _, p := range trees {
		s := p.Scale
		h := 0.25 * s
		m.prism(rectXZ(p.Pos.X-h, p.Pos.Z-h, p.Pos.X+h, p.Pos.Z+h), 0, 1.5*s, Palette.TreeTrunk)
		m.cone(p.Pos, 1.8*s, 1.2*s, 4*s, 6, Palette.TreeTop, Palette.TreeTop)
	}
	for _, p := range mountains {
		m.cone(p.Pos, p.Scale*1.6, 0, p.Scale, 5, Palette.Mountain, Palette.MountainHi)
	}
	return m
}

// CarMesh is the body and cabin standing on the origin, facing +Z.
func CarMesh(p vehicle.Params) Mesh {
	var m Mesh
	w, l := p.Width/2, p.Length/2
	bodyBottom := p.WheelRadius * 0.6
	bodyTop := p.Height * 0.6
	m.prism(rectXZ(-w, -l, w, l), bodyBottom, bodyTop, Palette.CarBody)
	m.prism(rectXZ(-w*0.8, -l*0.6, w*0.8, l*0.2), bodyTop, p.Height, Palette.CarCabin)
	return m
}

// WheelMesh is one wheel centred on its axle at the origin.
func WheelMesh(p vehicle.Params) Mesh {
	var m Mesh
	r := p.WheelRadius
	m.prism(rectXZ(-0.15, -r, 0.15, r), -r, r, Palette.Tyre)
	// Hub stripe so the spin is visible.
	m.quad(geom.V3(0.16, -r*0.2, -r), geom.V3(0.16, -r*0.2, r), geom.V3(0.16, r*0.2, r), geom.V3(0.16, r*0.2, -r), Palette.KerbWhite)
	m.quad(geom.V3(-0.16, -r*0.2, -r), geom.V3(-0.16, -r*0.2, r), geom.V3(-0.16, r*0.2, r), geom.V3(-0.16, r*0.2, -r), Palette.KerbWhite)
	return m
}

// WheelOffsets lists front-left, front-right, rear-left, rear-right axle
// centres in the car frame, whose origin is on the ground.
func WheelOffsets(p vehicle.Params) [4]geom.Vec3 {
	x := p.Width / 2
	z := p.Length/2 - p.WheelRadius*1.5
	y := p.WheelRadius
	return [4]geom.Vec3{
		geom.V3(x, y, z),
		geom.V3(-x, y, z),
		geom.V3(x, y, -z),
		geom.V3(-x, y, -z),
	}
}
