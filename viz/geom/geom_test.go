package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestIntersectPlaneStraightDown(t *testing.T) {
	r := NewRay(mgl64.Vec3{1, 2, 5}, mgl64.Vec3{0, 0, -1})
	p, ok := r.IntersectPlane(XY)
	if !ok {
		t.Fatal("expected hit")
	}
	if !near(p, mgl64.Vec3{1, 2, 0}, 1e-9) {
		t.Fatalf("hit=%v; want (1,2,0)", p)
	}
}

func TestIntersectPlaneParallelOrBehind(t *testing.T) {
	tcs := []struct {
		name string
		ray  Ray
	}{
		{"parallel", NewRay(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0})},
		{"in-plane", NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})},
		{"behind", NewRay(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1})},
	}
	for _, tc := range tcs {
		if p, ok := tc.ray.IntersectPlane(XY); ok {
			t.Fatalf("%s: got hit %v; want none", tc.name, p)
		}
	}
}

func TestIntersectPlaneOffset(t *testing.T) {
	// y = 2 expressed as (0,1,0)·p - 2 = 0.
	pl := Plane{Normal: mgl64.Vec3{0, 1, 0}, Constant: -2}
	r := NewRay(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, -1, 0})
	p, ok := r.IntersectPlane(pl)
	if !ok || math.Abs(p.Y()-2) > 1e-12 {
		t.Fatalf("hit=%v ok=%v; want y=2", p, ok)
	}
	if d := pl.DistanceTo(p); math.Abs(d) > 1e-12 {
		t.Fatalf("distance=%v; want 0", d)
	}
}

func TestIntersectTriangle(t *testing.T) {
	a := mgl64.Vec3{-1, -1, 0}
	b := mgl64.Vec3{1, -1, 0}
	c := mgl64.Vec3{0, 1, 0}

	front := NewRay(mgl64.Vec3{0, 0, 3}, mgl64.Vec3{0, 0, -1})
	d, ok := front.IntersectTriangle(a, b, c)
	if !ok || math.Abs(d-3) > 1e-12 {
		t.Fatalf("front d=%v ok=%v; want 3", d, ok)
	}

	// Double-sided: the back face is hit too.
	back := NewRay(mgl64.Vec3{0, 0, -2}, mgl64.Vec3{0, 0, 1})
	if d, ok := back.IntersectTriangle(a, b, c); !ok || math.Abs(d-2) > 1e-12 {
		t.Fatalf("back d=%v ok=%v; want 2", d, ok)
	}

	miss := NewRay(mgl64.Vec3{5, 5, 3}, mgl64.Vec3{0, 0, -1})
	if _, ok := miss.IntersectTriangle(a, b, c); ok {
		t.Fatal("expected miss outside triangle")
	}
}

func TestViewport(t *testing.T) {
	vp := ViewportOf(800, 600)
	if got := vp.Aspect(); math.Abs(got-4.0/3.0) > 1e-12 {
		t.Fatalf("aspect=%v; want 4/3", got)
	}
	if !vp.Contains(0, 0) || vp.Contains(800, 10) {
		t.Fatal("unexpected Contains result")
	}
	if (Viewport{}).Aspect() != 1 || !(Viewport{}).Empty() {
		t.Fatal("empty viewport should have aspect 1")
	}
}

func near(a, b mgl64.Vec3, tol float64) bool { return a.Sub(b).Len() <= tol }
