// Package interact implements pointer selection and dragging of vector entries.
//
// The controller is a small state machine:
//
//	Idle --select hit--> Selected(id) --drag down--> Dragging(id) --drag up--> Selected(id)
//
// A button bound to an entry selects it and starts dragging in one step. With a
// single entry the select step is skipped and that entry is always active.
package interact

import (
	"vecviz/hal"
	"vecviz/viz/bus"
	"vecviz/viz/entry"
	"vecviz/viz/geom"
	"vecviz/viz/project"
	"vecviz/viz/quarkgl"
)

// State names the controller state.
type State uint8

const (
	Idle State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// InteractionState is the controller's only mutable state.
type InteractionState struct {
	ActiveID   entry.ID
	Dragging   bool
	DragButton hal.PointerButton
}

// State derives the named state.
func (s InteractionState) State() State {
	switch {
	case s.ActiveID == entry.None:
		return Idle
	case s.Dragging:
		return Dragging
	}
	return Selected
}

// Config assigns physical buttons to gestures.
type Config struct {
	SelectButton hal.PointerButton
	DragButton   hal.PointerButton

	// Bindings lets a button drag one entry directly, without selecting first.
	// Bindings take precedence over SelectButton and DragButton.
	Bindings map[entry.ID]hal.PointerButton

	// DefaultActive is the entry active at start, entry.None for none.
	DefaultActive entry.ID

	Plane geom.Plane
}

// DefaultConfig selects with the primary button and drags with the secondary
// one on the XY plane.
func DefaultConfig() Config {
	return Config{
		SelectButton: hal.ButtonPrimary,
		DragButton:   hal.ButtonSecondary,
		Plane:        geom.XY,
	}
}

// Surface is what the controller needs from the rendering surface.
type Surface interface {
	Viewport() geom.Viewport
	Camera() project.Camera
	Raycast(r geom.Ray) []quarkgl.Hit
}

// Controller routes pointer events to vector entries.
type Controller struct {
	cfg     Config
	surf    Surface
	entries *entry.Set
	proj    *project.Projector
	bus     *bus.Bus

	state  InteractionState
	single bool

	onActive func(prev, next entry.ID)
	onDrag   func(id entry.ID, dragging bool)
}

// New creates a controller over entries. Drag edits are emitted on b.
func New(cfg Config, surf Surface, entries *entry.Set, b *bus.Bus) *Controller {
	c := &Controller{
		cfg:     cfg,
		surf:    surf,
		entries: entries,
		proj:    project.New(cfg.Plane),
		bus:     b,
		single:  entries.Len() == 1,
	}
	switch {
	case c.single:
		c.state.ActiveID = entries.All()[0].ID
	case entries.Get(cfg.DefaultActive) != nil:
		c.state.ActiveID = cfg.DefaultActive
	}
	return c
}

// OnActiveChange registers fn to observe selection changes. fn runs after the
// state has been updated, so State().ActiveID == next inside it.
func (c *Controller) OnActiveChange(fn func(prev, next entry.ID)) { c.onActive = fn }

// OnDragChange registers fn to observe drag start and end.
func (c *Controller) OnDragChange(fn func(id entry.ID, dragging bool)) { c.onDrag = fn }

// State returns a copy of the interaction state.
func (c *Controller) State() InteractionState { return c.state }

func (c *Controller) Active() entry.ID { return c.state.ActiveID }

// Single reports whether the controller runs with one implicit entry.
func (c *Controller) Single() bool { return c.single }

// Select makes id active without a hit test. It reports false if id is unknown,
// a drag is in progress or the controller has a single entry.
func (c *Controller) Select(id entry.ID) bool {
	if c.single || c.state.Dragging || c.entries.Get(id) == nil {
		return false
	}
	c.setActive(id)
	return true
}

// HandlePointer dispatches one pointer event.
func (c *Controller) HandlePointer(ev hal.PointerEvent) {
	switch ev.Kind {
	case hal.PointerDown:
		c.pointerDown(ev)
	case hal.PointerMove:
		if c.state.Dragging {
			c.dragTo(ev.X, ev.Y)
		}
	case hal.PointerUp:
		c.pointerUp(ev)
	}
}

func (c *Controller) pointerDown(ev hal.PointerEvent) {
	// One drag at a time; other buttons are ignored until it ends.
	if c.state.Dragging {
		return
	}
	if id, ok := c.boundEntry(ev.Button); ok {
		if !c.single {
			c.setActive(id)
		}
		c.beginDrag(ev)
		return
	}
	if c.single {
		if ev.Button == c.cfg.DragButton {
			c.beginDrag(ev)
		}
		return
	}
	switch ev.Button {
	case c.cfg.SelectButton:
		c.pick(ev.X, ev.Y)
	case c.cfg.DragButton:
		if c.state.ActiveID == entry.None {
			return
		}
		c.beginDrag(ev)
	}
}

func (c *Controller) pointerUp(ev hal.PointerEvent) {
	if !c.state.Dragging || ev.Button != c.state.DragButton {
		return
	}
	c.state.Dragging = false
	if c.onDrag != nil {
		c.onDrag(c.state.ActiveID, false)
	}
}

func (c *Controller) boundEntry(b hal.PointerButton) (entry.ID, bool) {
	if len(c.cfg.Bindings) == 0 {
		return entry.None, false
	}
	for _, e := range c.entries.All() {
		if bb, ok := c.cfg.Bindings[e.ID]; ok && bb == b {
			return e.ID, true
		}
	}
	return entry.None, false
}

// pick activates the nearest tagged entry under the pointer. A miss keeps the
// current selection.
func (c *Controller) pick(x, y int) {
	vp := c.surf.Viewport()
	cam := c.surf.Camera()
	if vp.Empty() || cam == nil {
		return
	}
	nx, ny := project.NDC(float64(x), float64(y), vp)
	for _, h := range c.surf.Raycast(cam.RayFromNDC(nx, ny)) {
		id := entry.ID(h.Tag)
		if id == entry.None || c.entries.Get(id) == nil {
			continue
		}
		c.setActive(id)
		return
	}
}

func (c *Controller) setActive(id entry.ID) {
	prev := c.state.ActiveID
	if prev == id {
		return
	}
	c.state.ActiveID = id
	if c.onActive != nil {
		c.onActive(prev, id)
	}
}

func (c *Controller) beginDrag(ev hal.PointerEvent) {
	c.state.Dragging = true
	c.state.DragButton = ev.Button
	if c.onDrag != nil {
		c.onDrag(c.state.ActiveID, true)
	}
	c.dragTo(ev.X, ev.Y)
}

// dragTo moves the dragged entry to the plane point under the pointer. A miss
// leaves the vector unchanged.
func (c *Controller) dragTo(x, y int) {
	e := c.entries.Get(c.state.ActiveID)
	if e == nil {
		return
	}
	v, ok := c.proj.Project(float64(x), float64(y), c.surf.Viewport(), c.surf.Camera())
	if !ok {
		return
	}
	e.Arrow.SetFromVector(v)
	if c.bus != nil {
		c.bus.EmitDrag(e.ID, v)
	}
}
