package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNoWindow = errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// The size may change between steps when the host window is resized; callers
// re-read Width and Height each step and must not keep Buffer across steps.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeyF1
)

// KeyEvent is a keyboard event. Text input arrives as Press events with
// Code == KeyUnknown and a non-zero Rune.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerButton numbers buttons the way browsers do.
type PointerButton uint8

const (
	ButtonPrimary   PointerButton = 0
	ButtonAuxiliary PointerButton = 1
	ButtonSecondary PointerButton = 2
)

func (b PointerButton) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonAuxiliary:
		return "auxiliary"
	case ButtonSecondary:
		return "secondary"
	}
	return "button"
}

// PointerKind is the kind of a pointer event.
type PointerKind uint8

const (
	PointerDown PointerKind = iota + 1
	PointerMove
	PointerUp
	PointerWheel
)

// PointerEvent is a pointer event in framebuffer pixels (top-left origin).
//
// Button is set for Down and Up; WheelY is set for Wheel (positive away from
// the user).
type PointerEvent struct {
	Kind   PointerKind
	Button PointerButton
	X, Y   int
	WheelY float64
}

// Pointer provides pointer events in arrival order.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; higher-level timers live in userland.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the application and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
