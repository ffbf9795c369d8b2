package quarkgl

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"vecviz/viz/geom"
)

// Hit is one mesh crossed by a picking ray.
type Hit struct {
	Tag      uint32
	MeshID   int
	Distance float64
	Point    mgl64.Vec3
}

// Raycast intersects r with every enabled mesh that carries a non-zero tag and
// returns one hit per mesh (its nearest triangle), ordered by distance along the
// ray. Equal distances keep mesh insertion order.
func (s *Scene) Raycast(r geom.Ray) []Hit {
	if s == nil {
		return nil
	}
	var hits []Hit
	s.eachMesh(func(id int, m *Mesh) {
		if !m.Enabled || m.Tag == 0 {
			return
		}
		if d, ok := raycastMesh(r, m); ok {
			hits = append(hits, Hit{Tag: m.Tag, MeshID: id, Distance: d, Point: r.At(d)})
		}
	})
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

func raycastMesh(r geom.Ray, m *Mesh) (float64, bool) {
	best := 0.0
	found := false
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		if i0 >= len(m.Vertices) || i1 >= len(m.Vertices) || i2 >= len(m.Vertices) {
			continue
		}
		a := transformPoint(m.Transform, m.Vertices[i0].Pos)
		b := transformPoint(m.Transform, m.Vertices[i1].Pos)
		c := transformPoint(m.Transform, m.Vertices[i2].Pos)
		d, ok := r.IntersectTriangle(a, b, c)
		if !ok {
			continue
		}
		if !found || d < best {
			best = d
			found = true
		}
	}
	return best, found
}
