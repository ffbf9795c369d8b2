// Package geom holds the small set of world-space primitives shared by the renderer,
// the pointer projector and the picking code: rays, planes, viewports and a
// ray/triangle test.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used for parallel and degenerate checks.
const Epsilon = 1e-9

// Ray is a half-line Origin + t*Dir, t >= 0. Dir is expected to be unit length.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, dir mgl64.Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Plane is the set of points p with Normal·p + Constant = 0.
type Plane struct {
	Normal   mgl64.Vec3
	Constant float64
}

// XY is the plane z = 0.
var XY = Plane{Normal: mgl64.Vec3{0, 0, 1}}

// DistanceTo returns the signed distance of p from the plane.
func (p Plane) DistanceTo(v mgl64.Vec3) float64 {
	return p.Normal.Dot(v) + p.Constant
}

// IntersectPlane returns the point where r crosses p.
//
// It reports false when the ray is parallel to the plane or the crossing lies behind
// the ray origin.
func (r Ray) IntersectPlane(p Plane) (mgl64.Vec3, bool) {
	denom := p.Normal.Dot(r.Dir)
	if math.Abs(denom) < Epsilon {
		return mgl64.Vec3{}, false
	}
	t := -(r.Origin.Dot(p.Normal) + p.Constant) / denom
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return mgl64.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectTriangle runs a double-sided Möller-Trumbore test and returns the distance
// along the ray to the hit.
func (r Ray) IntersectTriangle(a, b, c mgl64.Vec3) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < Epsilon {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// Viewport is the pixel rectangle of the rendering surface, top-left origin.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// ViewportOf returns a viewport anchored at the origin.
func ViewportOf(w, h int) Viewport {
	return Viewport{Width: float64(w), Height: float64(h)}
}

// Aspect returns width/height, or 1 for an empty viewport.
func (v Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// Contains reports whether the pixel lies inside the viewport.
func (v Viewport) Contains(px, py float64) bool {
	return px >= v.Left && px < v.Left+v.Width && py >= v.Top && py < v.Top+v.Height
}
