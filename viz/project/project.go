// Package project turns pointer pixels into points on a fixed interaction plane.
package project

import (
	"github.com/go-gl/mathgl/mgl64"

	"vecviz/viz/geom"
)

// Camera builds world-space picking rays. quarkgl.Camera implements it.
type Camera interface {
	RayFromNDC(x, y float64) geom.Ray
}

// Projector intersects pointer rays with one plane.
type Projector struct {
	plane geom.Plane
	axis  int // index of the only non-zero normal component, or -1
}

// New returns a projector for plane. A zero normal selects the default XY plane.
func New(plane geom.Plane) *Projector {
	if plane.Normal == (mgl64.Vec3{}) {
		plane = geom.XY
	}
	return &Projector{plane: plane, axis: alignedAxis(plane.Normal)}
}

// Plane returns the interaction plane.
func (p *Projector) Plane() geom.Plane { return p.plane }

// NDC converts a pixel inside vp to normalized device coordinates, +Y up.
func NDC(px, py float64, vp geom.Viewport) (x, y float64) {
	x = (px-vp.Left)/vp.Width*2 - 1
	y = -((py-vp.Top)/vp.Height*2 - 1)
	return x, y
}

// Project returns the point under the pointer on the interaction plane. It
// reports false when the viewport is empty, the ray is parallel to the plane or
// the plane lies behind the camera; callers skip the update for that event.
//
// The returned point lies exactly on the plane.
func (p *Projector) Project(px, py float64, vp geom.Viewport, cam Camera) (mgl64.Vec3, bool) {
	if vp.Empty() || cam == nil {
		return mgl64.Vec3{}, false
	}
	x, y := NDC(px, py, vp)
	hit, ok := cam.RayFromNDC(x, y).IntersectPlane(p.plane)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return p.snap(hit), true
}

func (p *Projector) snap(v mgl64.Vec3) mgl64.Vec3 {
	n := p.plane.Normal
	if p.axis >= 0 {
		c := -p.plane.Constant / n[p.axis]
		if c == 0 {
			c = 0 // -0 prints as "-0.00"
		}
		v[p.axis] = c
		return v
	}
	return v.Sub(n.Mul(p.plane.DistanceTo(v) / n.Dot(n)))
}

func alignedAxis(n mgl64.Vec3) int {
	axis := -1
	for i, c := range n {
		if c == 0 {
			continue
		}
		if axis >= 0 {
			return -1
		}
		axis = i
	}
	return axis
}
