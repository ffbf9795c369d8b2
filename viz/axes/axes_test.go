package axes

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"vecviz/viz/geom"
	"vecviz/viz/quarkgl"
)

func TestTriadOrientation(t *testing.T) {
	s := quarkgl.CreateScene(16)
	tr := New(s, 5, 0.03)

	want := [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	colors := [3]uint32{ColorX, ColorY, ColorZ}
	for i, a := range tr.Arrows() {
		if !near(a.Direction(), want[i], 1e-12) {
			t.Fatalf("arrow %d direction=%v; want %v", i, a.Direction(), want[i])
		}
		if math.Abs(a.Length()-5) > 1e-12 {
			t.Fatalf("arrow %d length=%v; want 5", i, a.Length())
		}
		if a.Color() != quarkgl.Hex(colors[i]) {
			t.Fatalf("arrow %d color=%v", i, a.Color())
		}
		if _, _, proxy := a.MeshIDs(); proxy != -1 {
			t.Fatalf("arrow %d has a hit region", i)
		}
	}
}

func TestTriadIsNotPickable(t *testing.T) {
	s := quarkgl.CreateScene(16)
	New(s, 5, 0.03)
	for _, r := range []geom.Ray{
		geom.NewRay(mgl64.Vec3{2, 5, 0}, mgl64.Vec3{0, -1, 0}),
		geom.NewRay(mgl64.Vec3{-5, 2, 0}, mgl64.Vec3{1, 0, 0}),
		geom.NewRay(mgl64.Vec3{0, 5, 2}, mgl64.Vec3{0, -1, 0}),
	} {
		if hits := s.Raycast(r); len(hits) != 0 {
			t.Fatalf("ray %v hit %+v", r, hits)
		}
	}
}

func TestGridColors(t *testing.T) {
	s := quarkgl.CreateScene(16)
	tr := New(s, 5, 0.03)
	lines, center := tr.Grid()
	g, ok := s.Mesh(lines)
	if !ok || g.Material.BaseColor != quarkgl.Hex(GridLine) || g.Tag != 0 {
		t.Fatalf("grid mesh=%+v", g.Material)
	}
	c, ok := s.Mesh(center)
	if !ok || c.Material.BaseColor != quarkgl.Hex(GridCenter) {
		t.Fatalf("center mesh=%+v", c.Material)
	}
	for _, v := range c.Vertices {
		if v.Pos.Y() != 0 {
			t.Fatalf("center line leaves the XZ plane: %v", v.Pos)
		}
	}
}

func near(a, b mgl64.Vec3, tol float64) bool { return a.Sub(b).Len() <= tol }
