package game

import (
	"fmt"

	"racer/internal/race"
	"racer/internal/results"
)

// HUD quads are screen-space: x, y, r, g, b, a per vertex.
const hudFloatsPerVertex = 6

// Seven-segment bits: a top, b top right, c bottom right, d bottom,
// e bottom left, f top left, g middle.
const (
	segA = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
)

var digitSegments = [10]uint8{
	segA | segB | segC | segD | segE | segF,
	segB | segC,
	segA | segB | segD | segE | segG,
	segA | segB | segC | segD | segG,
	segB | segC | segF | segG,
	segA | segC | segD | segF | segG,
	segA | segC | segD | segE | segF | segG,
	segA | segB | segC,
	segA | segB | segC | segD | segE | segF | segG,
	segA | segB | segC | segD | segF | segG,
}

type hudBuf struct {
	data []float32
}

func (h *hudBuf) rect(x0, y0, x1, y1 float64, c RGB, a float32) {
	r, g, b := c.F32()
	fx0, fy0, fx1, fy1 := float32(x0), float32(y0), float32(x1), float32(y1)
	h.data = append(h.data,
		fx0, fy0, r, g, b, a,
		fx1, fy0, r, g, b, a,
		fx1, fy1, r, g, b, a,
		fx0, fy0, r, g, b, a,
		fx1, fy1, r, g, b, a,
		fx0, fy1, r, g, b, a,
	)
}

func glyphWidth(ch rune, size float64) float64 {
	switch ch {
	case ':', '.':
		return size * 0.3
	case ' ':
		return size * 0.4
	}
	return size*0.6 + size*0.25
}

// textWidth is the advance of s at size.
func textWidth(s string, size float64) float64 {
	w := 0.0
	for _, ch := range s {
		w += glyphWidth(ch, size)
	}
	return w
}

// text draws digits, '-', ':' and '.'; anything else is a blank.
func (h *hudBuf) text(s string, x, y, size float64, c RGB, a float32) {
	w := size * 0.6
	t := size * 0.12
	for _, ch := range s {
		var mask uint8
		switch {
		case ch >= '0' && ch <= '9':
			mask = digitSegments[ch-'0']
		case ch == '-':
			mask = segG
		case ch == ':':
			cx := x + size*0.1
			h.rect(cx, y+size*0.25, cx+t, y+size*0.25+t, c, a)
			h.rect(cx, y+size*0.7, cx+t, y+size*0.7+t, c, a)
		case ch == '.':
			cx := x + size*0.1
			h.rect(cx, y+size-t, cx+t, y+size, c, a)
		}
		half := y + size/2
		if mask&segA != 0 {
			h.rect(x, y, x+w, y+t, c, a)
		}
		if mask&segB != 0 {
			h.rect(x+w-t, y, x+w, half, c, a)
		}
		if mask&segC != 0 {
			h.rect(x+w-t, half, x+w, y+size, c, a)
		}
		if mask&segD != 0 {
			h.rect(x, y+size-t, x+w, y+size, c, a)
		}
		if mask&segE != 0 {
			h.rect(x, half, x+t, y+size, c, a)
		}
		if mask&segF != 0 {
			h.rect(x, y, x+t, half, c, a)
		}
		if mask&segG != 0 {
			h.rect(x, half-t/2, x+w, half+t/2, c, a)
		}
		x += glyphWidth(ch, size)
	}
}

// BuildHUD lays out the overlay for one frame into buf (reused between frames).
func BuildHUD(buf []float32, h race.HUD, fbW, fbH int) []float32 {
	hb := hudBuf{data: buf[:0]}
	W, H := float64(fbW), float64(fbH)
	x, y := HUDMargin, HUDMargin

	// Lap n-total, current, last, best.
	hb.text(fmt.Sprintf("%d-%d", h.Lap, h.TotalLaps), x, y, HUDDigitSize, Palette.HUD, 1)
	y += HUDDigitSize * 1.4
	hb.text(results.FormatOptional(h.Current, h.State == race.StateRunning || h.State == race.StatePaused), x, y, HUDDigitSize, Palette.HUD, 1)
	y += HUDDigitSize * 1.4
	hb.text(results.FormatOptional(h.Last, h.HasLast), x, y, HUDSmallSize, Palette.HUDDim, 1)
	y += HUDSmallSize * 1.5
	hb.text(results.FormatOptional(h.Best, h.HasBest), x, y, HUDSmallSize, Palette.HUDBest, 1)

	// Checkpoint progress pips.
	y += HUDSmallSize * 1.8
	pip := HUDSmallSize * 0.5
	for i := 0; i < h.Checkpoints; i++ {
		a := float32(0.35)
		if i < h.Checkpoint {
			a = 1
		}
		px := x + float64(i)*pip*1.5
		hb.rect(px, y, px+pip, y+pip, Palette.HUD, a)
	}

	// Speed bottom right, fps top right.
	speed := fmt.Sprintf("%3d", h.SpeedKmh)
	hb.text(speed, W-HUDMargin-textWidth(speed, HUDSpeedSize), H-HUDMargin-HUDSpeedSize, HUDSpeedSize, Palette.HUD, 1)
	fps := fmt.Sprintf("%d", h.FPS)
	hb.text(fps, W-HUDMargin-textWidth(fps, HUDSmallSize), HUDMargin, HUDSmallSize, Palette.HUDDim, 1)

	if h.State != race.StateRunning {
		hb.rect(0, 0, W, H, Palette.Overlay, 0.45)
	}
	return hb.data
}

// BuildResult centres the final total and best lap on screen.
func BuildResult(buf []float32, res race.Result, fbW, fbH int) []float32 {
	hb := hudBuf{data: buf}
	total := results.FormatTime(res.Total)
	best := results.FormatOptional(res.Best, res.HasBest)
	cx, cy := float64(fbW)/2, float64(fbH)/2
	hb.text(total, cx-textWidth(total, HUDSpeedSize)/2, cy-HUDSpeedSize, HUDSpeedSize, Palette.HUD, 1)
	hb.text(best, cx-textWidth(best, HUDDigitSize)/2, cy+HUDDigitSize*0.5, HUDDigitSize, Palette.HUDBest, 1)
	return hb.data
}
