//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"vecviz/app"
	"vecviz/hal"
	"vecviz/viz/session"
)

// vecFlag collects repeated -vec x,y,z values.
type vecFlag []mgl64.Vec3

func (f *vecFlag) String() string {
	parts := make([]string, len(*f))
	for i, v := range *f {
		parts[i] = fmt.Sprintf("%g,%g,%g", v.X(), v.Y(), v.Z())
	}
	return strings.Join(parts, " ")
}

func (f *vecFlag) Set(s string) error {
	v, err := session.ParseVector(s)
	if err != nil {
		return err
	}
	*f = append(*f, v)
	return nil
}

func main() {
	var cfg hal.HeadlessConfig
	var win hal.WindowConfig
	var mode string
	var vecs vecFlag
	sc := session.DefaultConfig()

	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&cfg.Snapshot, "snapshot", "", "Write the last headless frame to this PNG file.")
	flag.IntVar(&win.Width, "width", hal.DefaultWidth, "Framebuffer width.")
	flag.IntVar(&win.Height, "height", hal.DefaultHeight, "Framebuffer height.")
	flag.IntVar(&win.Scale, "scale", 1, "Window pixels per framebuffer pixel.")
	flag.StringVar(&mode, "mode", "pick", "Interaction mode: pick, bound or single.")
	flag.Var(&vecs, "vec", "Initial vector x,y,z (repeatable).")
	flag.Float64Var(&sc.FOV, "fov", sc.FOV, "Vertical field of view in degrees.")
	flag.Parse()

	m, err := session.ParseMode(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	sc.Mode = m
	if len(vecs) > 0 {
		sc.Vectors = session.VectorsFrom(vecs)
	}
	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, app.Config{Session: sc})
	}

	if cfg.Enabled {
		cfg.Width, cfg.Height = win.Width, win.Height
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, win); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
