package quarkgl

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"vecviz/viz/geom"
)

// Material is a minimal surface description.
type Material struct {
	BaseColor Color
	Opacity   uint8 // 0..255. 255 means opaque.
}

// LightMode defines minimal lighting options.
type LightMode uint8

const (
	LightOff LightMode = iota
	LightAmbientDirectional
)

// Light is a minimal light setup.
type Light struct {
	Mode      LightMode
	Ambient   float64    // 0..1
	Dir       mgl64.Vec3 // direction *towards* the scene
	DirAmount float64    // 0..1
}

// CameraType selects camera projection.
type CameraType uint8

const (
	CameraPerspective CameraType = iota
	CameraOrtho
)

// Camera describes the viewing transform.
type Camera struct {
	Type CameraType

	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	// Perspective.
	FOVYRad float64

	// Orthographic (half-height).
	OrthoSize float64

	Near float64
	Far  float64

	// Aspect is width/height of the surface the camera renders to. Zero means
	// "use the target's aspect" when rendering and 1 when picking.
	Aspect float64
}

func (c Camera) up() mgl64.Vec3 {
	if c.Up == (mgl64.Vec3{}) {
		return V3(0, 1, 0)
	}
	return c.Up
}

func (c Camera) aspect(fallback float64) float64 {
	if c.Aspect > 0 {
		return c.Aspect
	}
	if fallback > 0 {
		return fallback
	}
	return 1
}

// View returns the camera view matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.up())
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect float64) mgl64.Mat4 {
	switch c.Type {
	case CameraOrtho:
		size := c.OrthoSize
		if size == 0 {
			size = 1
		}
		right := size * aspect
		return mgl64.Ortho(-right, right, -size, size, c.Near, c.Far)
	default:
		fov := c.FOVYRad
		if fov == 0 {
			fov = 1.0
		}
		return mgl64.Perspective(fov, aspect, c.Near, c.Far)
	}
}

// ViewProjection returns Projection * View using the camera's own aspect.
func (c Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection(c.aspect(1)).Mul4(c.View())
}

// RayFromNDC returns the world-space ray through a point in normalized device
// coordinates ([-1,1]², +Y up).
//
// Perspective rays start at the camera position; orthographic rays start on the
// near plane, both pointing into the scene.
func (c Camera) RayFromNDC(x, y float64) geom.Ray {
	inv := c.ViewProjection().Inv()
	near := mgl64.TransformCoordinate(mgl64.Vec3{x, y, -1}, inv)
	far := mgl64.TransformCoordinate(mgl64.Vec3{x, y, 1}, inv)
	if c.Type == CameraOrtho {
		return geom.NewRay(near, far.Sub(near))
	}
	return geom.NewRay(c.Position, far.Sub(c.Position))
}

// ProjectPoint maps a world point to normalized device coordinates. It reports false
// for points on or behind the camera plane.
func (c Camera) ProjectPoint(p mgl64.Vec3) (mgl64.Vec3, bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip.W() <= 0 || math.IsNaN(clip.W()) {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}

// Vertex is a mesh vertex.
type Vertex struct {
	Pos mgl64.Vec3
}

// Mesh is a triangle mesh plus optional line segments with an object transform.
type Mesh struct {
	Enabled bool

	// Hidden meshes are skipped by the renderer but still take part in Raycast.
	Hidden bool

	// Tag is the stable identifier reported by Raycast. Zero means "not pickable".
	Tag uint32

	Vertices []Vertex
	Indices  []uint16 // triangle list
	Lines    []uint16 // segment list

	Transform mgl64.Mat4
	Material  Material
}

// Scene is a collection of objects to render.
type Scene struct {
	Camera Camera
	Light  Light

	meshes []Mesh
	alive  []bool
}

// CreateScene allocates a scene with a fixed mesh capacity.
func CreateScene(maxMeshes int) *Scene {
	if maxMeshes < 0 {
		maxMeshes = 0
	}
	return &Scene{
		Camera: Camera{
			Type:      CameraPerspective,
			Position:  V3(0, 0, 3),
			Target:    V3(0, 0, 0),
			Up:        V3(0, 1, 0),
			FOVYRad:   1.0,
			Near:      0.05,
			Far:       100,
			OrthoSize: 1,
		},
		Light: Light{
			Mode:      LightAmbientDirectional,
			Ambient:   0.25,
			Dir:       V3(1, 1, 1).Normalize(),
			DirAmount: 0.75,
		},
		meshes: make([]Mesh, maxMeshes),
		alive:  make([]bool, maxMeshes),
	}
}

// AddMesh adds a mesh to the scene and returns its id or -1 if full.
func (s *Scene) AddMesh(m Mesh) int {
	if s == nil {
		return -1
	}
	for i := range s.meshes {
		if s.alive[i] {
			continue
		}
		if m.Transform == (mgl64.Mat4{}) {
			m.Transform = mgl64.Ident4()
		}
		if m.Material.Opacity == 0 {
			m.Material.Opacity = 0xFF
		}
		if m.Material.BaseColor == (Color{}) {
			m.Material.BaseColor = RGB(0xCC, 0xCC, 0xCC)
		}
		m.Enabled = true
		s.meshes[i] = m
		s.alive[i] = true
		return i
	}
	return -1
}

// RemoveMesh removes a mesh by id.
func (s *Scene) RemoveMesh(id int) {
	if !s.valid(id) {
		return
	}
	s.alive[id] = false
	s.meshes[id] = Mesh{}
}

// SetMeshEnabled enables/disables a mesh by id.
func (s *Scene) SetMeshEnabled(id int, enabled bool) {
	if !s.valid(id) {
		return
	}
	s.meshes[id].Enabled = enabled
}

// UpdateMeshTransform updates a mesh transform by id.
func (s *Scene) UpdateMeshTransform(id int, m mgl64.Mat4) {
	if !s.valid(id) {
		return
	}
	s.meshes[id].Transform = m
}

// SetMeshColor replaces the base color of a mesh.
func (s *Scene) SetMeshColor(id int, c Color) {
	if !s.valid(id) {
		return
	}
	s.meshes[id].Material.BaseColor = c
}

// Mesh returns a copy of the mesh header for id. Geometry slices are shared and must
// not be modified by the caller.
func (s *Scene) Mesh(id int) (Mesh, bool) {
	if !s.valid(id) {
		return Mesh{}, false
	}
	return s.meshes[id], true
}

// Len returns the number of live meshes.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, a := range s.alive {
		if a {
			n++
		}
	}
	return n
}

func (s *Scene) valid(id int) bool {
	return s != nil && id >= 0 && id < len(s.meshes) && s.alive[id]
}

func (s *Scene) eachMesh(fn func(id int, m *Mesh)) {
	for i := range s.meshes {
		if !s.alive[i] {
			continue
		}
		fn(i, &s.meshes[i])
	}
}
