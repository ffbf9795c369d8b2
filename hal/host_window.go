//go:build !tinygo && cgo

package hal

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"vecviz/internal/buildinfo"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Width  int
	Height int
	// Scale is the number of window pixels per framebuffer pixel.
	Scale int
	Title string
}

// RunWindow starts a resizable desktop window that displays the framebuffer and
// forwards keyboard and pointer input. It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Title == "" {
		cfg.Title = "vecviz"
	}
	h := newHostHAL(cfg.Width, cfg.Height)
	step := newApp(h)

	g := &hostGame{h: h, step: step, scale: cfg.Scale}
	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.Width()*cfg.Scale, h.fb.Height()*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	img   *image.RGBA
	fbImg *ebiten.Image
	step  func() error
	scale int
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	g.img = g.h.fb.rgba(g.img)
	w, h := g.img.Bounds().Dx(), g.img.Bounds().Dy()
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout makes the framebuffer follow the window size. The application sees
// the new size on its next step.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := max(outsideWidth/g.scale, 1)
	h := max(outsideHeight/g.scale, 1)
	g.h.fb.resize(w, h)
	return w, h
}
