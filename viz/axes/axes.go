// Package axes builds the static reference frame: one arrow per basis axis and
// a ground grid on the XZ plane.
package axes

import (
	"github.com/go-gl/mathgl/mgl64"

	"vecviz/viz/arrow"
	"vecviz/viz/quarkgl"
)

const (
	ColorX = 0xdd4522
	ColorY = 0x32d83e
	ColorZ = 0x367ec6

	GridSize      = 10
	GridDivisions = 10
	GridCenter    = 0x444444
	GridLine      = 0x222222
)

// Triad is built once and never mutated. None of its meshes are pickable.
type Triad struct {
	arrows     [3]*arrow.Arrow
	grid       int
	gridCenter int
}

// New adds the triad to the scene.
func New(scene *quarkgl.Scene, length, thickness float64) *Triad {
	style := arrow.Style{
		ShaftRadius: thickness,
		HeadRadius:  thickness * 2,
		HeadLength:  length * 0.18,
		Segments:    12,
	}
	t := &Triad{}
	basis := [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	colors := [3]uint32{ColorX, ColorY, ColorZ}
	for i := range basis {
		t.arrows[i] = arrow.New(scene, 0, basis[i].Mul(length), quarkgl.Hex(colors[i]), style)
	}

	grid, center := quarkgl.NewGridMesh(GridSize, GridDivisions)
	grid.Material.BaseColor = quarkgl.Hex(GridLine)
	center.Material.BaseColor = quarkgl.Hex(GridCenter)
	t.grid = scene.AddMesh(grid)
	t.gridCenter = scene.AddMesh(center)
	return t
}

// Arrows returns the X, Y and Z arrows.
func (t *Triad) Arrows() [3]*arrow.Arrow { return t.arrows }

// Grid returns the scene ids of the grid lines and of the two center lines.
func (t *Triad) Grid() (lines, center int) { return t.grid, t.gridCenter }
