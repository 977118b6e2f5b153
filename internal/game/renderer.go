package game

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"racer/internal/geom"
	"racer/internal/track"
	"racer/internal/vehicle"
)

// Fog band in metres from the eye.
const (
	fogStart = 250.0
	fogEnd   = 900.0
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type meshBuffer struct {
	vao, vbo uint32
	count    int32
}

// uploadMesh creates a static VAO with the position/colour layout.
func uploadMesh(m Mesh) meshBuffer {
	var b meshBuffer
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(m.Data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Data)*4, gl.Ptr(&m.Data[0]), gl.STATIC_DRAW)
	}
	stride := int32(FloatsPerVertex * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))
	b.count = int32(m.Vertices())
	return b
}

func (b *meshBuffer) draw() {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, b.count)
}

func (b *meshBuffer) destroy() {
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
}

type Renderer struct {
	sceneProg  uint32
	uViewProj  int32
	uModel     int32
	uEye       int32
	uFogColor  int32
	uFogStart  int32
	uFogEnd    int32
	hudProg    uint32
	hudURes    int32
	hudVAO     uint32
	hudVBO     uint32
	hudCap     int
	world      meshBuffer
	scenery    meshBuffer
	carBody    meshBuffer
	wheel      meshBuffer
	carParams  vehicle.Params
	rideHeight float64
}

// NewRenderer compiles the programs and uploads the static meshes.
func NewRenderer(t *track.Track, p vehicle.Params, trees, mountains []track.Prop) (*Renderer, error) {
	sceneProg, err := linkProgram(sceneVertSrc, sceneFragSrc)
	if err != nil {
		return nil, errors.Wrap(err, "scene program")
	}
	hudProg, err := linkProgram(hudVertSrc, hudFragSrc)
	if err != nil {
		gl.DeleteProgram(sceneProg)
		return nil, errors.Wrap(err, "hud program")
	}

	r := &Renderer{
		sceneProg:  sceneProg,
		hudProg:    hudProg,
		carParams:  p,
		rideHeight: t.Params().RideHeight,
	}

	gl.UseProgram(sceneProg)
	r.uViewProj = gl.GetUniformLocation(sceneProg, gl.Str("uViewProj\x00"))
	r.uModel = gl.GetUniformLocation(sceneProg, gl.Str("uModel\x00"))
	r.uEye = gl.GetUniformLocation(sceneProg, gl.Str("uEye\x00"))
	r.uFogColor = gl.GetUniformLocation(sceneProg, gl.Str("uFogColor\x00"))
	r.uFogStart = gl.GetUniformLocation(sceneProg, gl.Str("uFogStart\x00"))
	r.uFogEnd = gl.GetUniformLocation(sceneProg, gl.Str("uFogEnd\x00"))
	fr, fg, fb := Palette.Sky.F32()
	gl.Uniform3f(r.uFogColor, fr, fg, fb)
	gl.Uniform1f(r.uFogStart, fogStart)
	gl.Uniform1f(r.uFogEnd, fogEnd)

	gl.UseProgram(hudProg)
	r.hudURes = gl.GetUniformLocation(hudProg, gl.Str("uResolution\x00"))

	r.world = uploadMesh(TrackMesh(t))
	r.scenery = uploadMesh(SceneryMesh(trees, mountains))
	r.carBody = uploadMesh(CarMesh(p))
	r.wheel = uploadMesh(WheelMesh(p))

	// HUD: streaming buffer of x, y, r, g, b, a.
	gl.GenVertexArrays(1, &r.hudVAO)
	gl.GenBuffers(1, &r.hudVBO)
	gl.BindVertexArray(r.hudVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.hudVBO)
	stride := int32(hudFloatsPerVertex * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, glOffset(2*4))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, b := range []*meshBuffer{&r.world, &r.scenery, &r.carBody, &r.wheel} {
		b.destroy()
	}
	if r.hudVBO != 0 {
		gl.DeleteBuffers(1, &r.hudVBO)
	}
	if r.hudVAO != 0 {
		gl.DeleteVertexArrays(1, &r.hudVAO)
	}
	for _, id := range []uint32{r.sceneProg, r.hudProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

func (r *Renderer) setModel(m Mat4) {
	gl.UniformMatrix4fv(r.uModel, 1, false, &m[0])
}

// BeginFrame clears and loads the camera into the scene program.
func (r *Renderer) BeginFrame(cam *Camera, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.sceneProg)
	vp := cam.ViewProj(float64(fbW) / float64(fbH))
	gl.UniformMatrix4fv(r.uViewProj, 1, false, &vp[0])
	gl.Uniform3f(r.uEye, float32(cam.Pos.X), float32(cam.Pos.Y), float32(cam.Pos.Z))
}

// DrawWorld draws the track and scenery, which are already in world space.
func (r *Renderer) DrawWorld() {
	r.setModel(Identity())
	r.world.draw()
	r.scenery.draw()
}

// DrawCar draws the body and the four wheels, front wheels turned by the
// visual steering angle and all of them rolled by the wheel spin.
func (r *Renderer) DrawCar(c *vehicle.Car) {
	ground := c.Pos.Sub(geom.V3(0, r.rideHeight, 0))
	model := Model(ground, c.Heading)
	r.setModel(model)
	r.carBody.draw()

	for i, off := range WheelOffsets(r.carParams) {
		wm := model.Mul(Translate(off))
		if i < 2 {
			wm = wm.Mul(RotateY(c.WheelVisual))
		}
		r.setModel(wm.Mul(RotateX(c.WheelSpin)))
		r.wheel.draw()
	}
}

// DrawHUD streams the overlay quads and draws them with alpha blending.
func (r *Renderer) DrawHUD(data []float32, fbW, fbH int) {
	if len(data) == 0 {
		return
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(r.hudProg)
	gl.Uniform2f(r.hudURes, float32(fbW), float32(fbH))
	gl.BindVertexArray(r.hudVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.hudVBO)
	if len(data) > r.hudCap {
		r.hudCap = len(data) * 2
		gl.BufferData(gl.ARRAY_BUFFER, r.hudCap*4, nil, gl.STREAM_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(&data[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(data)/hudFloatsPerVertex))
	gl.BindVertexArray(0)
}
