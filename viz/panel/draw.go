package panel

import (
	"image"
	"image/color"

	"vecviz/viz/fonts"
)

var (
	colorPanelBG  = color.RGBA{R: 0x18, G: 0x18, B: 0x1C, A: 0xFF}
	colorTitleBG  = color.RGBA{R: 0x22, G: 0x22, B: 0x28, A: 0xFF}
	colorBorder   = color.RGBA{R: 0x44, G: 0x44, B: 0x4C, A: 0xFF}
	colorFG       = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	colorDim      = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
	colorActiveBG = color.RGBA{R: 0x30, G: 0x30, B: 0x3A, A: 0xFF}
	colorFieldBG  = color.RGBA{R: 0x08, G: 0x08, B: 0x08, A: 0xFF}
	colorFocus    = color.RGBA{R: 0x4A, G: 0xD1, B: 0xFF, A: 0xFF}
)

// Draw renders the panel over the right edge of a w x h framebuffer.
func (p *Panel) Draw(d *fonts.Display, w, h int) {
	if d == nil || !p.face.Ok() {
		return
	}
	l := p.layout(w, h)

	if p.collapsed {
		fill(d, l.bounds, colorTitleBG)
		d.StrokeRectangle(rect16(l.bounds))
		p.text(d, l.toggle.Min.X+padding/2, l.toggle.Min.Y+padding/2, ">", colorFG)
		return
	}

	fill(d, l.bounds, colorPanelBG)
	d.StrokeRectangle(rect16(l.bounds))
	fill(d, l.title, colorTitleBG)
	p.text(d, l.toggle.Min.X+padding/2, l.title.Min.Y+padding/2, "<", colorFG)
	p.text(d, l.toggle.Max.X+padding/2, l.title.Min.Y+padding/2, p.title, colorFG)

	fc, ff, focused := p.Focused()
	for i, row := range l.rows {
		c := p.controls[i]
		if c.active {
			fill(d, row.rect, colorActiveBG)
			_ = d.FillRectangle(int16(row.rect.Min.X), int16(row.rect.Min.Y), 2, int16(row.rect.Dy()), c.color)
		}
		ty := row.rect.Min.Y + padding/2
		p.text(d, row.label.Min.X, ty, c.label, c.color)
		p.text(d, row.label.Max.X, ty, "[", colorDim)

		for f, r := range row.fields {
			fill(d, r, colorFieldBG)
			s := c.text[f]
			if focused && fc == c && ff == f {
				d.StrokeRectangle(int16(r.Min.X), int16(r.Min.Y), int16(r.Dx()), int16(r.Dy()), colorFocus)
				s += "_"
			}
			s = tail(s, fieldChars)
			p.text(d, r.Min.X+2, ty, s, colorFG)
		}
		last := row.fields[2]
		p.text(d, last.Max.X+2, ty, "]", colorDim)
	}
}

// tail keeps the last n runes so the caret stays visible.
func tail(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[len(rs)-n:])
}

func (p *Panel) text(d *fonts.Display, x, y int, s string, c color.RGBA) {
	p.face.Draw(d, int16(x), int16(y), s, c)
}

func fill(d *fonts.Display, r image.Rectangle, c color.RGBA) {
	_ = d.FillRectangle(int16(r.Min.X), int16(r.Min.Y), int16(r.Dx()), int16(r.Dy()), c)
}

func rect16(r image.Rectangle) (x, y, w, h int16, c color.RGBA) {
	return int16(r.Min.X), int16(r.Min.Y), int16(r.Dx()), int16(r.Dy()), colorBorder
}
