package quarkgl

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// V3 is a shorthand constructor.
func V3(x, y, z float64) mgl64.Vec3 { return mgl64.Vec3{x, y, z} }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// transformPoint applies m to p with w = 1 and no perspective divide.
func transformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

func triangleNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

func lightIntensity(l Light, n mgl64.Vec3) float64 {
	amb := clamp01(l.Ambient)
	dir := clamp01(l.DirAmount)
	if l.Dir.Len() == 0 || n.Len() == 0 {
		return amb
	}
	d := n.Dot(l.Dir.Normalize().Mul(-1))
	if d < 0 || math.IsNaN(d) {
		d = 0
	}
	return clamp01(amb + d*dir)
}
