// Package trackmap draws a top-down picture of a circuit.
package trackmap

import (
	"image"
	"image/color"
	"math"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/pkg/errors"

	"racer/internal/geom"
	"racer/internal/track"
)

var (
	grass   = color.RGBA{0x3a, 0x7d, 0x2c, 0xff}
	asphalt = color.RGBA{0x44, 0x44, 0x48, 0xff}
	wall    = color.RGBA{0xd8, 0xd8, 0xd8, 0xff}
	gate    = color.RGBA{0xf2, 0xc1, 0x1f, 0xff}
	finish  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	tree    = color.RGBA{0x1f, 0x4d, 0x16, 0xff}
	marker  = color.RGBA{0xff, 0x6b, 0x00, 0xff}
)

// Options controls the picture.
type Options struct {
	Size        int // longest side in pixels
	Margin      float64
	Checkpoints bool
	Scenery     []track.Prop
	Car         *geom.Vec3 // optional marker
}

func DefaultOptions() Options {
	return Options{Size: 800, Margin: 24, Checkpoints: true}
}

// projection maps world X/Z to image pixels with north (-Z) up.
type projection struct {
	minX, maxZ float64
	scale      float64
	margin     float64
}

func (p projection) at(v geom.Vec3) (float64, float64) {
	return (v.X-p.minX)*p.scale + p.margin, (p.maxZ-v.Z)*p.scale + p.margin
}

// Render draws t into a new RGBA image.
func Render(t *track.Track, opts Options) *image.RGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	b := t.Bounds()
	w, h := b.X1-b.X0, b.Z1-b.Z0
	usable := float64(opts.Size) - 2*opts.Margin
	if usable <= 0 {
		usable = float64(opts.Size)
		opts.Margin = 0
	}
	scale := usable / math.Max(w, h)
	pr := projection{minX: b.X0, maxZ: b.Z1, scale: scale, margin: opts.Margin}

	rect := image.Rect(0, 0, int(math.Ceil(w*scale+2*opts.Margin)), int(math.Ceil(h*scale+2*opts.Margin)))
	dest := image.NewRGBA(rect)
	gc := draw2dimg.NewGraphicContext(dest)

	gc.SetFillColor(grass)
	draw2dkit.Rectangle(gc, 0, 0, float64(rect.Max.X), float64(rect.Max.Y))
	gc.Fill()

	drawRibbon(gc, pr, t)
	drawBarriers(gc, pr, t)
	if opts.Checkpoints {
		drawGates(gc, pr, t)
	}

	gc.SetFillColor(tree)
	for _, p := range opts.Scenery {
		x, y := pr.at(p.Pos)
		if x < 0 || y < 0 || x > float64(rect.Max.X) || y > float64(rect.Max.Y) {
			continue
		}
		draw2dkit.Circle(gc, x, y, math.Max(1.5, 1.8*p.Scale*scale))
		gc.Fill()
	}

	if opts.Car != nil {
		x, y := pr.at(*opts.Car)
		gc.SetFillColor(marker)
		draw2dkit.Circle(gc, x, y, math.Max(3, 2*scale))
		gc.Fill()
	}
	return dest
}

func ringPath(gc draw2d.GraphicContext, pr projection, ring []geom.Vec3) {
	for i, p := range ring {
		x, y := pr.at(p)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
	gc.Close()
}

func drawRibbon(gc draw2d.GraphicContext, pr projection, t *track.Track) {
	inner, outer := t.Ribbon()
	gc.Save()
	gc.SetFillRule(draw2d.FillRuleEvenOdd)
	gc.SetFillColor(asphalt)
	gc.BeginPath()
	ringPath(gc, pr, outer)
	ringPath(gc, pr, inner)
	gc.Fill()
	gc.Restore()
}

func drawBarriers(gc draw2d.GraphicContext, pr projection, t *track.Track) {
	gc.SetFillColor(wall)
	for _, b := range t.Barriers() {
		c := b.Box.Corners()
		gc.BeginPath()
		ringPath(gc, pr, c[:])
		gc.Fill()
	}
}

func drawGates(gc draw2d.GraphicContext, pr projection, t *track.Track) {
	for _, cp := range t.Checkpoints() {
		if cp.Index == 0 {
			gc.SetStrokeColor(finish)
			gc.SetLineWidth(3)
		} else {
			gc.SetStrokeColor(gate)
			gc.SetLineWidth(1)
		}
		x0, y0 := pr.at(cp.A)
		x1, y1 := pr.at(cp.B)
		gc.BeginPath()
		gc.MoveTo(x0, y0)
		gc.LineTo(x1, y1)
		gc.Stroke()
	}
}

// SavePNG renders t and writes it to path.
func SavePNG(path string, t *track.Track, opts Options) error {
	img := Render(t, opts)
	if err := draw2dimg.SaveToPngFile(path, img); err != nil {
		return errors.Wrapf(err, "save track map %s", path)
	}
	return nil
}
