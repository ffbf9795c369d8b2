package panel

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"vecviz/viz/entry"
)

const maxFieldRunes = 12

// Control is the editable [x y z] row of one vector.
type Control struct {
	id    entry.ID
	label string
	color color.RGBA

	values [3]float64
	text   [3]string
	dirty  bool
	active bool

	onChanged func(x, y, z float64)
}

// SetVector shows v in the fields. It never calls the change handler.
func (c *Control) SetVector(x, y, z float64) {
	c.values = [3]float64{x, y, z}
	for i, v := range c.values {
		c.text[i] = format(v)
	}
	c.dirty = false
}

// OnVectorChanged registers the handler called when the user commits an edit
// with Enter, or by leaving a field they changed.
func (c *Control) OnVectorChanged(fn func(x, y, z float64)) { c.onChanged = fn }

// SetActive toggles the row highlight.
func (c *Control) SetActive(on bool) { c.active = on }

func (c *Control) Active() bool      { return c.active }
func (c *Control) ID() entry.ID      { return c.id }
func (c *Control) Label() string     { return c.label }
func (c *Control) Text(i int) string { return c.text[i] }

// Values returns the last committed or pushed values.
func (c *Control) Values() (x, y, z float64) {
	return c.values[0], c.values[1], c.values[2]
}

func (c *Control) input(field int, r rune) {
	if !acceptRune(r) || len([]rune(c.text[field])) >= maxFieldRunes {
		return
	}
	c.text[field] += string(r)
	c.dirty = true
}

func (c *Control) backspace(field int) {
	rs := []rune(c.text[field])
	if len(rs) == 0 {
		return
	}
	c.text[field] = string(rs[:len(rs)-1])
	c.dirty = true
}

// revert drops uncommitted text.
func (c *Control) revert() {
	c.SetVector(c.values[0], c.values[1], c.values[2])
}

// commit parses the fields, normalizes them and notifies the handler.
func (c *Control) commit() {
	for i := range c.text {
		c.values[i] = parse(c.text[i])
		c.text[i] = format(c.values[i])
	}
	c.dirty = false
	if c.onChanged != nil {
		c.onChanged(c.values[0], c.values[1], c.values[2])
	}
}

func acceptRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		return true
	}
	return false
}

// parse maps anything that is not a finite number to 0.
func parse(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func format(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}
