// Package fonts draws text into a hal.Framebuffer with tinyfont.
package fonts

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Face is a font plus the metrics needed to lay out lines top-down.
type Face struct {
	Font   tinyfont.Fonter
	Width  int16 // advance of "0"
	Height int16 // line height
	Offset int16 // baseline below the line top
}

// Default returns the UI face.
func Default() Face {
	return NewFace(&proggy.TinySZ8pt7b)
}

func NewFace(f tinyfont.Fonter) Face {
	face := Face{Font: f, Height: int16(f.GetYAdvance())}
	_, outbox := tinyfont.LineWidth(f, "0")
	face.Width = int16(outbox)
	face.Offset = -int16(f.GetGlyph('M').Info().YOffset)
	if face.Offset <= 0 || face.Offset > face.Height {
		face.Offset = face.Height - 2
	}
	return face
}

// Ok reports whether the face has usable metrics.
func (f Face) Ok() bool { return f.Font != nil && f.Width > 0 && f.Height > 0 }

// TextWidth returns the advance of s in pixels.
func (f Face) TextWidth(s string) int16 {
	if f.Font == nil || s == "" {
		return 0
	}
	_, outbox := tinyfont.LineWidth(f.Font, s)
	return int16(outbox)
}

// Draw writes s with its line top at y.
func (f Face) Draw(d drivers.Displayer, x, y int16, s string, c color.RGBA) {
	if f.Font == nil || s == "" {
		return
	}
	tinyfont.WriteLine(d, f.Font, x, y+f.Offset, s, c)
}
