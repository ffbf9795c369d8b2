//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var pointerButtons = [...]struct {
	eb  ebiten.MouseButton
	btn PointerButton
}{
	{ebiten.MouseButtonLeft, ButtonPrimary},
	{ebiten.MouseButtonMiddle, ButtonAuxiliary},
	{ebiten.MouseButtonRight, ButtonSecondary},
}

// poll converts ebiten mouse state into events. Positions are in framebuffer
// pixels because Layout reports the framebuffer size as the screen size.
func (p *hostPointer) poll() {
	x, y := ebiten.CursorPosition()
	if x != p.lastX || y != p.lastY {
		p.emit(PointerEvent{Kind: PointerMove, X: x, Y: y})
		p.lastX, p.lastY = x, y
	}
	for _, b := range pointerButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			p.emit(PointerEvent{Kind: PointerDown, Button: b.btn, X: x, Y: y})
		}
	}
	for _, b := range pointerButtons {
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			p.emit(PointerEvent{Kind: PointerUp, Button: b.btn, X: x, Y: y})
		}
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		p.emit(PointerEvent{Kind: PointerWheel, X: x, Y: y, WheelY: wy})
	}
}
