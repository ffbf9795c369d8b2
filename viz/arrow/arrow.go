// Package arrow maps 3D vectors onto oriented, scaled arrow meshes.
package arrow

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"vecviz/viz/quarkgl"
)

// ZeroEpsilon is the magnitude at or below which a vector is treated as zero.
const ZeroEpsilon = 1e-6

// Forward is the local axis the unit meshes are built along.
var Forward = mgl64.Vec3{0, 1, 0}

// DefaultDirection is used for zero-length vectors.
var DefaultDirection = mgl64.Vec3{1, 0, 0}

// Style describes arrow geometry. Lengths are in world units.
type Style struct {
	ShaftRadius float64
	HeadRadius  float64
	HeadLength  float64

	// HeadRatio, when set, sizes the head as a fraction of the arrow length
	// instead of HeadLength. HeadWidthRatio then gives the head radius as a
	// fraction of the head length; zero keeps HeadRadius.
	HeadRatio      float64
	HeadWidthRatio float64

	// PickRadius is the radius of the invisible hit region. Zero derives it from
	// the head radius.
	PickRadius float64

	Segments int
}

// DefaultStyle is a thin arrow whose head grows with its length.
var DefaultStyle = Style{
	ShaftRadius:    0.03,
	HeadRadius:     0.09,
	HeadLength:     0.3,
	HeadRatio:      0.2,
	HeadWidthRatio: 0.1,
	Segments:       12,
}

func (s Style) pickRadius() float64 {
	if s.PickRadius > 0 {
		return s.PickRadius
	}
	return max(s.HeadRadius*1.5, s.ShaftRadius*3)
}

func (s Style) scalesHead() bool { return s.HeadRatio > 0 && s.HeadWidthRatio > 0 }

// head returns the head length and radius for an arrow of the given length.
func (s Style) head(length float64) (headLen, radius float64) {
	headLen = s.HeadLength
	if s.HeadRatio > 0 {
		headLen = s.HeadRatio * length
	}
	headLen = min(headLen, length)
	radius = s.HeadRadius
	if s.scalesHead() {
		radius = s.HeadWidthRatio * headLen
	}
	return headLen, radius
}

// Arrow is the visual form of one vector.
//
// The rendered orientation and length are a pure function of the last vector
// passed to SetFromVector.
type Arrow struct {
	scene *quarkgl.Scene
	id    uint32
	style Style
	color quarkgl.Color

	vec    mgl64.Vec3
	dir    mgl64.Vec3
	length float64
	rot    mgl64.Quat

	shaft int
	head  int
	proxy int
}

// New attaches an arrow for v to the scene. A non-zero id tags every mesh of the
// arrow (including an invisible, slightly wider hit region) so that Scene.Raycast
// reports it; id 0 makes the arrow unpickable.
func New(scene *quarkgl.Scene, id uint32, v mgl64.Vec3, color quarkgl.Color, style Style) *Arrow {
	if style.Segments == 0 {
		style.Segments = DefaultStyle.Segments
	}
	a := &Arrow{
		scene: scene,
		id:    id,
		style: style,
		color: color,
		shaft: -1,
		head:  -1,
		proxy: -1,
	}
	mat := quarkgl.Material{BaseColor: color, Opacity: 0xFF}

	shaft := quarkgl.NewCylinderMesh(style.ShaftRadius, style.Segments)
	shaft.Tag, shaft.Material = id, mat
	a.shaft = scene.AddMesh(shaft)

	coneRadius := style.HeadRadius
	if style.scalesHead() {
		coneRadius = 1
	}
	head := quarkgl.NewConeMesh(coneRadius, style.Segments)
	head.Tag, head.Material = id, mat
	a.head = scene.AddMesh(head)

	if id != 0 {
		proxy := quarkgl.NewCylinderMesh(style.pickRadius(), 8)
		proxy.Tag, proxy.Material, proxy.Hidden = id, mat, true
		a.proxy = scene.AddMesh(proxy)
	}

	a.SetFromVector(v)
	return a
}

// SetFromVector re-derives direction, length and rotation from v and updates
// the mesh transforms.
func (a *Arrow) SetFromVector(v mgl64.Vec3) {
	length := v.Len()
	dir := DefaultDirection
	if length > ZeroEpsilon {
		dir = v.Mul(1 / length)
	} else {
		length = 0
	}

	a.vec = v
	a.dir = dir
	a.length = length
	a.rot = Align(Forward, dir)
	a.apply()
}

func (a *Arrow) apply() {
	visible := a.length > 0
	for _, id := range [...]int{a.shaft, a.head, a.proxy} {
		a.scene.SetMeshEnabled(id, visible)
	}
	if !visible {
		return
	}

	headLen, radius := a.style.head(a.length)
	shaftLen := a.length - headLen
	radial := 1.0
	if a.style.scalesHead() {
		radial = radius
	}

	base := a.rot.Mat4()
	if shaftLen > 0 {
		a.scene.UpdateMeshTransform(a.shaft, base.Mul4(mgl64.Scale3D(1, shaftLen, 1)))
	} else {
		a.scene.SetMeshEnabled(a.shaft, false)
	}
	a.scene.UpdateMeshTransform(a.head, base.Mul4(mgl64.Translate3D(0, shaftLen, 0)).Mul4(mgl64.Scale3D(radial, headLen, radial)))
	a.scene.UpdateMeshTransform(a.proxy, base.Mul4(mgl64.Scale3D(1, a.length, 1)))
}

// CurrentVector returns the last value passed to SetFromVector.
func (a *Arrow) CurrentVector() mgl64.Vec3 { return a.vec }

// Direction is the unit direction, DefaultDirection for a zero vector.
func (a *Arrow) Direction() mgl64.Vec3 { return a.dir }

func (a *Arrow) Length() float64      { return a.length }
func (a *Arrow) Rotation() mgl64.Quat { return a.rot }
func (a *Arrow) Color() quarkgl.Color { return a.color }
func (a *Arrow) ID() uint32           { return a.id }

// Head returns the current head length and radius.
func (a *Arrow) Head() (length, radius float64) { return a.style.head(a.length) }

// MeshIDs returns the scene ids of the shaft, head and hit region (-1 if absent).
func (a *Arrow) MeshIDs() (shaft, head, proxy int) { return a.shaft, a.head, a.proxy }

// Tip returns the world position of the arrow tip. Arrows start at the origin.
func (a *Arrow) Tip() mgl64.Vec3 { return a.dir.Mul(a.length) }

// Align returns the minimal rotation taking unit vector local onto unit vector
// dir. Parallel inputs give the identity, anti-parallel inputs a half turn about
// an axis perpendicular to local.
func Align(local, dir mgl64.Vec3) mgl64.Quat {
	local = local.Normalize()
	dir = dir.Normalize()
	d := math.Max(-1, math.Min(1, local.Dot(dir)))
	axis := local.Cross(dir)
	if axis.Len() > 1e-9 {
		return mgl64.QuatRotate(math.Acos(d), axis.Normalize())
	}
	if d > 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(math.Pi, perpendicular(local))
}

func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	p := v.Cross(mgl64.Vec3{1, 0, 0})
	if p.Len() < 1e-6 {
		p = v.Cross(mgl64.Vec3{0, 0, 1})
	}
	return p.Normalize()
}
