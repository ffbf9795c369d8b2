// Package session bootstraps the scene, the numeric panel and the pointer
// controller on top of a HAL, and drives them one step at a time.
package session

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"vecviz/hal"
	"vecviz/viz/axes"
	"vecviz/viz/bus"
	"vecviz/viz/entry"
	"vecviz/viz/fonts"
	"vecviz/viz/geom"
	"vecviz/viz/interact"
	"vecviz/viz/panel"
	"vecviz/viz/project"
	"vecviz/viz/quarkgl"
)

var helpColor = color.RGBA{R: 0x90, G: 0xA0, B: 0xB8, A: 0xFF}

var (
	ErrNoFramebuffer = errors.New("session: no RGB565 framebuffer")
	ErrNoFont        = errors.New("session: font has no usable metrics")
)

const (
	// frameIntervalTicks bounds redraws of an idle scene.
	frameIntervalTicks = 33

	orbitStep    = 0.05
	orbitDamping = 0.05
	zoomStep     = 0.5

	axisLength    = 4
	axisThickness = 0.04
)

// Session owns every component of one visualization.
type Session struct {
	log hal.Logger
	fb  hal.Framebuffer
	kbd <-chan hal.KeyEvent
	ptr <-chan hal.PointerEvent
	tck <-chan uint64

	w, h int

	scene    *quarkgl.Scene
	renderer *quarkgl.Renderer
	orbit    quarkgl.OrbitController
	axes     *axes.Triad

	entries *entry.Set
	bus     *bus.Bus
	ctrl    *interact.Controller
	panel   *panel.Panel

	face fonts.Face
	disp *fonts.Display

	mode      Mode
	now       uint64
	lastFrame uint64
	dirty     bool
}

// New builds a session on h. It fails if h has no RGB565 framebuffer.
func New(h hal.HAL, cfg Config) (*Session, error) {
	s := &Session{log: h.Logger(), mode: cfg.Mode, dirty: true}

	if d := h.Display(); d != nil {
		s.fb = d.Framebuffer()
	}
	if s.fb == nil || s.fb.Format() != hal.PixelFormatRGB565 {
		return nil, ErrNoFramebuffer
	}
	s.face = fonts.Default()
	if !s.face.Ok() {
		return nil, ErrNoFont
	}
	s.disp = fonts.NewDisplay(s.fb)

	if in := h.Input(); in != nil {
		if k := in.Keyboard(); k != nil {
			s.kbd = k.Events()
		}
		if p := in.Pointer(); p != nil {
			s.ptr = p.Events()
		}
	}
	if t := h.Time(); t != nil {
		s.tck = t.Ticks()
	}

	vectors := cfg.Vectors
	if len(vectors) == 0 {
		vectors = DefaultVectors()
	}
	if cfg.Mode == ModeSingle {
		vectors = vectors[:1]
	}

	s.w, s.h = s.fb.Width(), s.fb.Height()
	s.initScene(cfg, len(vectors))

	s.entries = &entry.Set{}
	for _, v := range vectors {
		s.entries.Add(s.scene, v.Label, v.Value, quarkgl.Hex(v.Color))
	}

	s.bus = bus.New()
	s.panel = panel.New("Vectors", s.face)
	s.ctrl = interact.New(controllerConfig(cfg.Mode, s.entries), s, s.entries, s.bus)
	s.wire()

	s.logf("session: mode=%s vectors=%d size=%dx%d", cfg.Mode, s.entries.Len(), s.w, s.h)
	return s, nil
}

func (s *Session) initScene(cfg Config, vectors int) {
	// Axes take two meshes per arrow plus two grid meshes; each vector takes three.
	s.scene = quarkgl.CreateScene(3*2 + 2 + 3*vectors)

	fov := cfg.FOV
	if fov <= 0 {
		fov = 45
	}
	s.scene.Camera = quarkgl.Camera{
		Type:     quarkgl.CameraPerspective,
		Position: quarkgl.V3(6, 6, 6),
		Target:   quarkgl.V3(0, 0, 0),
		Up:       quarkgl.V3(0, 1, 0),
		FOVYRad:  mgl64.DegToRad(fov),
		Near:     0.1,
		Far:      1000,
		Aspect:   float64(s.w) / float64(s.h),
	}
	s.scene.Light = quarkgl.Light{
		Mode:      quarkgl.LightAmbientDirectional,
		Ambient:   0.3,
		Dir:       quarkgl.V3(3, 5, 2).Normalize(),
		DirAmount: 0.7,
	}

	s.orbit = quarkgl.OrbitFrom(s.scene.Camera)
	s.orbit.MinRadius = 2
	s.orbit.MaxRadius = 50
	s.orbit.Damping = orbitDamping

	s.renderer = quarkgl.NewRenderer(s.w, s.h, true)
	s.renderer.ClearColor = quarkgl.Hex(0x111111)
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	s.renderer.SetWorkers(workers)

	s.axes = axes.New(s.scene, axisLength, axisThickness)
}

func controllerConfig(mode Mode, entries *entry.Set) interact.Config {
	cfg := interact.DefaultConfig()
	all := entries.All()
	switch mode {
	case ModePick:
		if len(all) > 0 {
			cfg.DefaultActive = all[0].ID
		}
	case ModeBound:
		buttons := []hal.PointerButton{hal.ButtonSecondary, hal.ButtonAuxiliary}
		cfg.Bindings = make(map[entry.ID]hal.PointerButton)
		for i, e := range all {
			if i >= len(buttons) {
				break
			}
			cfg.Bindings[e.ID] = buttons[i]
		}
	}
	return cfg
}

// wire connects the panel, the bus and the controller.
func (s *Session) wire() {
	for _, e := range s.entries.All() {
		c := s.panel.AddVectorControl(e.ID, e.Label, e.Color.ToRGBA())
		v := e.Vector()
		c.SetVector(v.X(), v.Y(), v.Z())
		c.SetActive(e.ID == s.ctrl.Active())

		c.OnVectorChanged(func(x, y, z float64) {
			s.bus.EmitPanel(e.ID, mgl64.Vec3{x, y, z})
		})
		s.bus.OnPanelEdit(e.ID, func(x, y, z float64) {
			e.Arrow.SetFromVector(mgl64.Vec3{x, y, z})
			s.logf("panel: %s = (%.2f, %.2f, %.2f)", e.Label, x, y, z)
			s.dirty = true
		})
	}

	s.bus.OnDrag(func(id entry.ID, v mgl64.Vec3) {
		if c := s.panel.Control(id); c != nil {
			c.SetVector(v.X(), v.Y(), v.Z())
		}
		s.dirty = true
	})

	s.ctrl.OnActiveChange(func(prev, next entry.ID) {
		if c := s.panel.Control(prev); c != nil {
			c.SetActive(false)
		}
		if c := s.panel.Control(next); c != nil {
			c.SetActive(true)
		}
		s.logf("select: %s -> %s", s.label(prev), s.label(next))
		s.dirty = true
	})
	s.ctrl.OnDragChange(func(id entry.ID, dragging bool) {
		if dragging {
			s.logf("drag: begin %s", s.label(id))
			return
		}
		if e := s.entries.Get(id); e != nil {
			v := e.Vector()
			s.logf("drag: end %s at (%.2f, %.2f, %.2f)", e.Label, v.X(), v.Y(), v.Z())
		}
	})

	s.panel.OnSelect(func(id entry.ID) {
		s.ctrl.Select(id)
	})
}

func (s *Session) label(id entry.ID) string {
	if e := s.entries.Get(id); e != nil {
		return e.Label
	}
	return "none"
}

// Step handles queued input and redraws the frame if needed.
func (s *Session) Step() error {
	s.drainTicks()
	s.checkResize()
	s.drainKeys()
	s.drainPointer()
	if s.orbit.Update() {
		s.orbit.Apply(&s.scene.Camera)
		s.dirty = true
	}

	if !s.dirty && s.now-s.lastFrame < frameIntervalTicks {
		return nil
	}
	s.lastFrame = s.now
	s.dirty = false
	s.render()
	return s.fb.Present()
}

func (s *Session) drainTicks() {
	for {
		select {
		case now, ok := <-s.tck:
			if !ok {
				s.tck = nil
				return
			}
			s.now = now
		default:
			return
		}
	}
}

func (s *Session) checkResize() {
	w, h := s.fb.Width(), s.fb.Height()
	if w == s.w && h == s.h {
		return
	}
	s.w, s.h = w, h
	if h > 0 {
		s.scene.Camera.Aspect = float64(w) / float64(h)
	}
	s.logf("resize: %dx%d", w, h)
	s.dirty = true
}

func (s *Session) drainKeys() {
	for {
		select {
		case ev, ok := <-s.kbd:
			if !ok {
				s.kbd = nil
				return
			}
			s.handleKey(ev)
		default:
			return
		}
	}
}

func (s *Session) drainPointer() {
	for {
		select {
		case ev, ok := <-s.ptr:
			if !ok {
				s.ptr = nil
				return
			}
			s.handlePointer(ev)
		default:
			return
		}
	}
}

func (s *Session) handleKey(ev hal.KeyEvent) {
	if s.panel.HandleKey(ev) {
		s.dirty = true
		return
	}
	if !ev.Press {
		return
	}
	switch ev.Code {
	case hal.KeyLeft:
		s.orbit.Rotate(-orbitStep, 0)
	case hal.KeyRight:
		s.orbit.Rotate(orbitStep, 0)
	case hal.KeyUp:
		s.orbit.Rotate(0, orbitStep)
	case hal.KeyDown:
		s.orbit.Rotate(0, -orbitStep)
	case hal.KeyUnknown:
		switch ev.Rune {
		case '+', '=':
			s.orbit.Zoom(-zoomStep)
		case '-':
			s.orbit.Zoom(zoomStep)
		case 'w':
			s.toggleWireframe()
			return
		default:
			return
		}
	default:
		return
	}
	s.orbit.Apply(&s.scene.Camera)
	s.dirty = true
}

func (s *Session) toggleWireframe() {
	mode := quarkgl.RenderWireframe
	if s.renderer.Mode == quarkgl.RenderWireframe {
		mode = quarkgl.RenderSolidFlat
	}
	s.renderer.SetRenderMode(mode)
	s.dirty = true
}

// handlePointer routes an event to the panel or the scene. A drag in progress
// keeps every event until it ends, even over the panel.
func (s *Session) handlePointer(ev hal.PointerEvent) {
	s.dirty = true
	if s.ctrl.State().Dragging {
		s.ctrl.HandlePointer(ev)
		return
	}
	if s.panel.HandlePointer(ev, s.w, s.h) {
		return
	}
	switch ev.Kind {
	case hal.PointerWheel:
		s.orbit.Zoom(-ev.WheelY * zoomStep)
		s.orbit.Apply(&s.scene.Camera)
		return
	case hal.PointerDown:
		s.panel.Blur()
	}
	s.ctrl.HandlePointer(ev)
}

func (s *Session) render() {
	if s.w <= 0 || s.h <= 0 {
		return
	}
	target := &quarkgl.RGB565Target{
		Buf:    s.fb.Buffer(),
		Stride: s.fb.StrideBytes(),
		W:      s.w,
		H:      s.h,
	}
	s.renderer.Render(target, s.scene)
	s.panel.Draw(s.disp, s.w, s.h)

	help := "F1 panel  arrows orbit  wheel zoom  w wireframe"
	s.face.Draw(s.disp, 6, int16(s.h)-s.face.Height-4, help, helpColor)
	if st := s.ctrl.State(); st.ActiveID != entry.None {
		line := fmt.Sprintf("%s %s", st.State(), s.label(st.ActiveID))
		s.face.Draw(s.disp, 6, 6, line, helpColor)
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}

// Viewport, Camera and Raycast make the session the controller's surface.

func (s *Session) Viewport() geom.Viewport { return geom.ViewportOf(s.w, s.h) }

func (s *Session) Camera() project.Camera { return s.scene.Camera }

func (s *Session) Raycast(r geom.Ray) []quarkgl.Hit { return s.scene.Raycast(r) }

func (s *Session) Mode() Mode                       { return s.mode }
func (s *Session) Entries() *entry.Set              { return s.entries }
func (s *Session) Controller() *interact.Controller { return s.ctrl }
func (s *Session) Panel() *panel.Panel              { return s.panel }
func (s *Session) Bus() *bus.Bus                    { return s.bus }
func (s *Session) Scene() *quarkgl.Scene            { return s.scene }
func (s *Session) Renderer() *quarkgl.Renderer      { return s.renderer }
func (s *Session) Axes() *axes.Triad                { return s.axes }
