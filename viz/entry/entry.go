// Package entry associates stable vector identifiers with their arrows.
package entry

import (
	"github.com/go-gl/mathgl/mgl64"

	"vecviz/viz/arrow"
	"vecviz/viz/quarkgl"
)

// ID identifies a vector across components. It doubles as the mesh tag of the
// vector's arrow.
type ID uint32

// None is the zero ID; meshes tagged with it are not pickable.
const None ID = 0

// Entry is one visualized vector.
type Entry struct {
	ID    ID
	Label string
	Color quarkgl.Color
	Arrow *arrow.Arrow
}

// Vector returns the entry's current value.
func (e *Entry) Vector() mgl64.Vec3 { return e.Arrow.CurrentVector() }

// Set keeps entries in insertion order.
type Set struct {
	list []*Entry
	next ID
}

// Add creates an arrow for v in scene and registers it under a fresh ID.
func (s *Set) Add(scene *quarkgl.Scene, label string, v mgl64.Vec3, color quarkgl.Color) *Entry {
	s.next++
	e := &Entry{ID: s.next, Label: label, Color: color}
	e.Arrow = arrow.New(scene, uint32(e.ID), v, color, arrow.DefaultStyle)
	s.list = append(s.list, e)
	return e
}

// Get returns the entry for id, or nil.
func (s *Set) Get(id ID) *Entry {
	for _, e := range s.list {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *Set) Len() int { return len(s.list) }

// All returns the entries in insertion order. The slice must not be modified.
func (s *Set) All() []*Entry { return s.list }
