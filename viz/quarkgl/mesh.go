package quarkgl

import "math"

// Unit meshes are built along local +Y from y=0 to y=1 so that a transform of
// T * R * Scale(1, length, 1) stretches them along their forward axis only.

// NewCylinderMesh returns a closed cylinder of the given radius, y in [0,1].
func NewCylinderMesh(radius float64, segments int) Mesh {
	if segments < 3 {
		segments = 3
	}
	verts := make([]Vertex, 0, 2*segments+2)
	indices := make([]uint16, 0, segments*12)

	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		x, z := radius*math.Cos(a), radius*math.Sin(a)
		verts = append(verts, Vertex{Pos: V3(x, 0, z)}, Vertex{Pos: V3(x, 1, z)})
	}
	bottom := uint16(len(verts))
	verts = append(verts, Vertex{Pos: V3(0, 0, 0)})
	top := uint16(len(verts))
	verts = append(verts, Vertex{Pos: V3(0, 1, 0)})

	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		b0, t0 := uint16(2*i), uint16(2*i+1)
		b1, t1 := uint16(2*j), uint16(2*j+1)

		// Side quad, outward winding.
		indices = append(indices, b0, t0, t1)
		indices = append(indices, b0, t1, b1)
		// Caps.
		indices = append(indices, bottom, b0, b1)
		indices = append(indices, top, t1, t0)
	}
	return Mesh{Vertices: verts, Indices: indices}
}

// NewConeMesh returns a closed cone with its base of the given radius at y=0 and
// its apex at y=1.
func NewConeMesh(radius float64, segments int) Mesh {
	if segments < 3 {
		segments = 3
	}
	verts := make([]Vertex, 0, segments+2)
	indices := make([]uint16, 0, segments*6)

	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		verts = append(verts, Vertex{Pos: V3(radius*math.Cos(a), 0, radius*math.Sin(a))})
	}
	apex := uint16(len(verts))
	verts = append(verts, Vertex{Pos: V3(0, 1, 0)})
	center := uint16(len(verts))
	verts = append(verts, Vertex{Pos: V3(0, 0, 0)})

	for i := 0; i < segments; i++ {
		j := uint16((i + 1) % segments)
		k := uint16(i)
		indices = append(indices, k, apex, j)
		indices = append(indices, center, k, j)
	}
	return Mesh{Vertices: verts, Indices: indices}
}

// NewGridMesh returns a square line grid on the XZ plane centered at the origin.
// The returned center mesh holds the two lines through the origin so callers can
// color them differently.
func NewGridMesh(size float64, divisions int) (grid, center Mesh) {
	if divisions < 1 {
		divisions = 1
	}
	half := size / 2
	step := size / float64(divisions)
	for i := 0; i <= divisions; i++ {
		k := -half + float64(i)*step
		dst := &grid
		if 2*i == divisions {
			dst = &center
		}
		n := uint16(len(dst.Vertices))
		dst.Vertices = append(dst.Vertices,
			Vertex{Pos: V3(-half, 0, k)}, Vertex{Pos: V3(half, 0, k)},
			Vertex{Pos: V3(k, 0, -half)}, Vertex{Pos: V3(k, 0, half)},
		)
		dst.Lines = append(dst.Lines, n, n+1, n+2, n+3)
	}
	return grid, center
}
