package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects how pointer buttons map to vectors.
type Mode uint8

const (
	// ModePick selects with the primary button and drags the selection with the
	// secondary button.
	ModePick Mode = iota
	// ModeBound gives each of the first two vectors its own drag button.
	ModeBound
	// ModeSingle shows only the first vector, always active.
	ModeSingle
)

func (m Mode) String() string {
	switch m {
	case ModePick:
		return "pick"
	case ModeBound:
		return "bound"
	case ModeSingle:
		return "single"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pick", "":
		return ModePick, nil
	case "bound":
		return ModeBound, nil
	case "single":
		return ModeSingle, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want pick, bound or single)", s)
}

// Vector is the initial state of one visualized vector.
type Vector struct {
	Label string
	Value mgl64.Vec3
	Color uint32 // 0xRRGGBB
}

// ParseVector parses "x,y,z".
func ParseVector(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("vector %q: want x,y,z", s)
	}
	var v mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}

var palette = []uint32{0xffff00, 0xfdffbc, 0x7fdbff, 0xff851b, 0xf012be, 0x2ecc40}

// DefaultVectors returns v1 = (2,3,0) and v2 = (-1,2,0).
func DefaultVectors() []Vector {
	return []Vector{
		{Label: "v1", Value: mgl64.Vec3{2, 3, 0}, Color: palette[0]},
		{Label: "v2", Value: mgl64.Vec3{-1, 2, 0}, Color: palette[1]},
	}
}

// VectorsFrom labels and colors plain values the way DefaultVectors does.
func VectorsFrom(values []mgl64.Vec3) []Vector {
	out := make([]Vector, len(values))
	for i, v := range values {
		out[i] = Vector{
			Label: "v" + strconv.Itoa(i+1),
			Value: v,
			Color: palette[i%len(palette)],
		}
	}
	return out
}

// Config describes a session.
type Config struct {
	Mode    Mode
	Vectors []Vector

	// FOV is the vertical field of view in degrees.
	FOV float64

	// Workers is the number of rasterizer bands drawn concurrently.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Mode:    ModePick,
		Vectors: DefaultVectors(),
		FOV:     45,
		Workers: 2,
	}
}
