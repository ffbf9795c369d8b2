//go:build !tinygo && !cgo

package hal

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	Title  string
}

func RunWindow(_ func(h HAL) func() error, _ WindowConfig) error {
	return ErrNoWindow
}
