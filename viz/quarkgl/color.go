package quarkgl

import "image/color"

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// Hex converts a 0xRRGGBB literal into an opaque color.
func Hex(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
}

// MulScalar scales the RGB channels by s, clamped to [0,1]. Alpha is kept.
func (c Color) MulScalar(s float64) Color {
	s = clamp01(s)
	mul := func(ch uint8) uint8 {
		return uint8(float64(ch)*s + 0.5)
	}
	return Color{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: c.A}
}

// ToRGBA returns the color as image/color.RGBA, the form tinyfont draws with.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
