// Package bus carries vector edits between the numeric panel and the scene.
//
// Edits travel on two directed channels. A panel edit is delivered to the
// entry's scene handler while the toScene guard is held; a drag edit is
// delivered to the panel handler while the toPanel guard is held. An emission
// arriving on the opposite channel while a guard is held is an echo of that
// write and is dropped.
package bus

import (
	"github.com/go-gl/mathgl/mgl64"

	"vecviz/viz/entry"
)

// Guard marks a programmatic write in progress. Guards nest.
type Guard struct {
	depth int
}

// Do runs fn with the guard held.
func (g *Guard) Do(fn func()) {
	g.depth++
	defer func() { g.depth-- }()
	fn()
}

// Active reports whether a write is in progress.
func (g *Guard) Active() bool { return g.depth > 0 }

// Bus is not safe for concurrent use; all emissions happen on the step goroutine.
type Bus struct {
	toScene Guard
	toPanel Guard

	panel map[entry.ID]func(x, y, z float64)
	drag  func(id entry.ID, v mgl64.Vec3)

	dropped int
}

func New() *Bus {
	return &Bus{panel: make(map[entry.ID]func(x, y, z float64))}
}

// OnPanelEdit registers the handler that applies panel edits of id to the
// scene. A later registration replaces the earlier one.
func (b *Bus) OnPanelEdit(id entry.ID, fn func(x, y, z float64)) {
	if fn == nil {
		delete(b.panel, id)
		return
	}
	b.panel[id] = fn
}

// OnDrag registers the handler that pushes drag edits into the panel.
func (b *Bus) OnDrag(fn func(id entry.ID, v mgl64.Vec3)) { b.drag = fn }

// EmitPanel delivers a committed panel edit. It reports false when the edit was
// dropped as an echo or nobody listens for id.
func (b *Bus) EmitPanel(id entry.ID, v mgl64.Vec3) bool {
	if b.toPanel.Active() {
		b.dropped++
		return false
	}
	fn := b.panel[id]
	if fn == nil {
		return false
	}
	b.toScene.Do(func() { fn(v.X(), v.Y(), v.Z()) })
	return true
}

// EmitDrag delivers a drag edit. It reports false when the edit was dropped as
// an echo or no handler is registered.
func (b *Bus) EmitDrag(id entry.ID, v mgl64.Vec3) bool {
	if b.toScene.Active() {
		b.dropped++
		return false
	}
	if b.drag == nil {
		return false
	}
	b.toPanel.Do(func() { b.drag(id, v) })
	return true
}

// ToScene and ToPanel expose the guards so other programmatic writers can
// bracket their writes the same way.
func (b *Bus) ToScene() *Guard { return &b.toScene }
func (b *Bus) ToPanel() *Guard { return &b.toPanel }

// Dropped returns how many emissions were suppressed as echoes.
func (b *Bus) Dropped() int { return b.dropped }
