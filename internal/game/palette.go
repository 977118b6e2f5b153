package game

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Mul scales the colour by k/255; used for face shading.
func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

// F32 returns the colour as normalised floats.
func (c RGB) F32() (float32, float32, float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

var Palette = struct {
	Sky        RGB
	Grass      RGB
	Asphalt    RGB
	StartLine  RGB
	KerbRed    RGB
	KerbWhite  RGB
	CarBody    RGB
	CarCabin   RGB
	Tyre       RGB
	TreeTrunk  RGB
	TreeTop    RGB
	Mountain   RGB
	MountainHi RGB
	HUD        RGB
	HUDDim     RGB
	HUDBest    RGB
	Overlay    RGB
}{
	Sky:        RGB{R: 135, G: 190, B: 235},
	Grass:      RGB{R: 86, G: 140, B: 70},
	Asphalt:    RGB{R: 60, G: 66, B: 79},
	StartLine:  RGB{R: 240, G: 240, B: 240},
	KerbRed:    RGB{R: 200, G: 40, B: 35},
	KerbWhite:  RGB{R: 230, G: 230, B: 225},
	CarBody:    RGB{R: 220, G: 60, B: 30},
	CarCabin:   RGB{R: 40, G: 50, B: 70},
	Tyre:       RGB{R: 25, G: 25, B: 28},
	TreeTrunk:  RGB{R: 100, G: 70, B: 45},
	TreeTop:    RGB{R: 70, G: 115, B: 55},
	Mountain:   RGB{R: 110, G: 115, B: 125},
	MountainHi: RGB{R: 235, G: 235, B: 240},
	HUD:        RGB{R: 255, G: 255, B: 255},
	HUDDim:     RGB{R: 170, G: 170, B: 170},
	HUDBest:    RGB{R: 255, G: 200, B: 90},
	Overlay:    RGB{R: 0, G: 0, B: 0},
}
