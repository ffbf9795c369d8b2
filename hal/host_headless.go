//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Width   int
	Height  int

	// Snapshot, if set, is the path of a PNG written with the last frame when
	// the runner stops.
	Snapshot string
}

// RunHeadless runs the application without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) (err error) {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := newHostHAL(cfg.Width, cfg.Height)
	step := newApp(h)

	if cfg.Snapshot != "" {
		defer func() {
			if serr := writePNG(cfg.Snapshot, h.fb.rgba(nil)); serr != nil {
				err = errors.Join(err, fmt.Errorf("snapshot: %w", serr))
			}
		}()
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, img)
}
