package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"vecviz/hal"
	"vecviz/viz/fonts"
)

// guard wraps step so that a panic is logged, shown on screen and turned into
// an error. Every later call returns the same error.
func guard(h hal.HAL, step func() error) func() error {
	var failed error
	return func() (err error) {
		if failed != nil {
			return failed
		}
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			reportPanic(h, r, stack)
			failed = fmt.Errorf("panic: %v", r)
			err = failed
		}()
		return step()
	}
}

func reportPanic(h hal.HAL, value any, stack []byte) {
	lines := stackLines(stack)

	if l := h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf("vecviz panic: %v", value))
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}

	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return
	}
	face := fonts.Default()
	if !face.Ok() {
		return
	}

	fb.ClearRGB(255, 255, 255)
	d := fonts.NewDisplay(fb)
	fg := color.RGBA{A: 255}

	text := append([]string{
		"vecviz panic:",
		fmt.Sprintf("panic: %v", value),
		"stack:",
	}, lines...)

	cols := fb.Width() / int(face.Width)
	if cols <= 0 {
		cols = 1
	}
	y := 0
	for _, line := range text {
		for len(line) > 0 {
			if y+int(face.Height) > fb.Height() {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			face.Draw(d, 0, int16(y), chunk, fg)
			y += int(face.Height)
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		if line == "" {
			continue
		}
		out = append(out, strings.ReplaceAll(line, "\t", "  "))
	}
	return out
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
