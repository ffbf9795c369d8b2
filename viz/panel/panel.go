// Package panel implements the numeric side panel: one editable [x y z] row
// per vector, drawn with tinyfont over the right edge of the framebuffer.
package panel

import (
	"image"
	"image/color"

	"vecviz/hal"
	"vecviz/viz/entry"
	"vecviz/viz/fonts"
)

const (
	Width      = 232
	padding    = 6
	fieldChars = 7
)

// Panel owns the controls and the keyboard focus.
type Panel struct {
	title     string
	face      fonts.Face
	collapsed bool
	controls  []*Control

	// focus is the control index and field index being edited, -1 for none.
	focusCtrl  int
	focusField int

	onSelect func(id entry.ID)
}

func New(title string, face fonts.Face) *Panel {
	return &Panel{title: title, face: face, focusCtrl: -1, focusField: -1}
}

// AddVectorControl appends a row for id.
func (p *Panel) AddVectorControl(id entry.ID, label string, c color.RGBA) *Control {
	ctrl := &Control{id: id, label: label, color: c}
	ctrl.SetVector(0, 0, 0)
	p.controls = append(p.controls, ctrl)
	return ctrl
}

// Control returns the control for id, or nil.
func (p *Panel) Control(id entry.ID) *Control {
	for _, c := range p.controls {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (p *Panel) Controls() []*Control { return p.controls }

// OnSelect registers fn to be called when a row label is clicked.
func (p *Panel) OnSelect(fn func(id entry.ID)) { p.onSelect = fn }

func (p *Panel) Collapsed() bool { return p.collapsed }

// Toggle collapses or expands the panel. Collapsing commits a pending edit.
func (p *Panel) Toggle() {
	if !p.collapsed {
		p.Blur()
	}
	p.collapsed = !p.collapsed
}

// Focused returns the control and field being edited.
func (p *Panel) Focused() (*Control, int, bool) {
	if p.focusCtrl < 0 || p.focusCtrl >= len(p.controls) {
		return nil, 0, false
	}
	return p.controls[p.focusCtrl], p.focusField, true
}

// Focus starts editing field of the control for id.
func (p *Panel) Focus(id entry.ID, field int) bool {
	if p.collapsed || field < 0 || field > 2 {
		return false
	}
	for i, c := range p.controls {
		if c.id == id {
			p.setFocus(i, field)
			return true
		}
	}
	return false
}

// Blur ends editing. A changed field is committed.
func (p *Panel) Blur() { p.setFocus(-1, -1) }

func (p *Panel) setFocus(ctrl, field int) {
	if ctrl == p.focusCtrl && field == p.focusField {
		return
	}
	if c, _, ok := p.Focused(); ok && c.dirty {
		c.commit()
	}
	p.focusCtrl, p.focusField = ctrl, field
}

// HandleKey processes a key event. It reports whether the panel used it.
func (p *Panel) HandleKey(ev hal.KeyEvent) bool {
	if !ev.Press {
		return false
	}
	if ev.Code == hal.KeyF1 {
		p.Toggle()
		return true
	}
	c, field, ok := p.Focused()
	if !ok {
		return false
	}
	switch ev.Code {
	case hal.KeyEnter:
		c.commit()
	case hal.KeyEscape:
		c.revert()
		p.focusCtrl, p.focusField = -1, -1
	case hal.KeyBackspace, hal.KeyDelete:
		c.backspace(field)
	case hal.KeyTab:
		p.focusNext()
	case hal.KeyHome:
		p.setFocus(p.focusCtrl, 0)
	case hal.KeyEnd:
		p.setFocus(p.focusCtrl, 2)
	case hal.KeyUnknown:
		if ev.Rune != 0 {
			c.input(field, ev.Rune)
		}
	}
	// Navigation keys are swallowed while editing.
	return true
}

func (p *Panel) focusNext() {
	ctrl, field := p.focusCtrl, p.focusField+1
	if field > 2 {
		field = 0
		ctrl = (ctrl + 1) % len(p.controls)
	}
	p.setFocus(ctrl, field)
}

// HandlePointer processes a pointer event at framebuffer size (w, h). It
// reports whether the event landed on the panel.
func (p *Panel) HandlePointer(ev hal.PointerEvent, w, h int) bool {
	l := p.layout(w, h)
	pt := image.Pt(ev.X, ev.Y)
	if !pt.In(l.bounds) {
		return false
	}
	if ev.Kind != hal.PointerDown || ev.Button != hal.ButtonPrimary {
		return true
	}
	if pt.In(l.toggle) {
		p.Toggle()
		return true
	}
	for i, row := range l.rows {
		for f, r := range row.fields {
			if pt.In(r) {
				p.setFocus(i, f)
				return true
			}
		}
		if pt.In(row.label) {
			p.Blur()
			if p.onSelect != nil {
				p.onSelect(p.controls[i].id)
			}
			return true
		}
	}
	p.Blur()
	return true
}

// Bounds returns the screen area covered by the panel.
func (p *Panel) Bounds(w, h int) image.Rectangle { return p.layout(w, h).bounds }

type rowLayout struct {
	rect   image.Rectangle
	label  image.Rectangle
	fields [3]image.Rectangle
}

type layout struct {
	bounds image.Rectangle
	title  image.Rectangle
	toggle image.Rectangle
	rows   []rowLayout
}

func (p *Panel) lineHeight() int { return int(p.face.Height) + padding }

func (p *Panel) fieldWidth() int { return int(p.face.Width)*fieldChars + 4 }

func (p *Panel) layout(w, h int) layout {
	lh := p.lineHeight()
	titleH := lh + padding
	toggleW := int(p.face.Width)*2 + padding

	x0 := w - Width
	if x0 < 0 {
		x0 = 0
	}
	if p.collapsed {
		t := image.Rect(w-toggleW, 0, w, titleH)
		return layout{bounds: t, title: t, toggle: t}
	}

	l := layout{
		title:  image.Rect(x0, 0, w, titleH),
		toggle: image.Rect(x0, 0, x0+toggleW, titleH),
	}
	y := titleH + padding/2
	labelW := int(p.face.Width) * 4
	fw := p.fieldWidth()
	for range p.controls {
		row := rowLayout{rect: image.Rect(x0, y, w, y+lh)}
		x := x0 + padding
		row.label = image.Rect(x, y, x+labelW, y+lh)
		x += labelW + int(p.face.TextWidth("[ "))
		for f := range row.fields {
			row.fields[f] = image.Rect(x, y+1, x+fw, y+lh-1)
			x += fw + 2
		}
		l.rows = append(l.rows, row)
		y += lh + 2
	}
	l.bounds = image.Rect(x0, 0, w, min(y+padding, h))
	return l
}
