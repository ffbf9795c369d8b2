package session

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"vecviz/hal"
	"vecviz/viz/entry"
	"vecviz/viz/quarkgl"
)

type fakeFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newFakeFB(w, h int) *fakeFB {
	return &fakeFB{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *fakeFB) Width() int              { return f.w }
func (f *fakeFB) Height() int             { return f.h }
func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFB) StrideBytes() int        { return f.w * 2 }
func (f *fakeFB) Buffer() []byte          { return f.buf }
func (f *fakeFB) ClearRGB(r, g, b uint8)  {}

func (f *fakeFB) Present() error {
	f.presents++
	return nil
}

func (f *fakeFB) Framebuffer() hal.Framebuffer { return f }

func (f *fakeFB) resize(w, h int) {
	f.w, f.h = w, h
	f.buf = make([]byte, w*h*2)
}

func (f *fakeFB) pixel(x, y int) uint16 {
	o := y*f.w*2 + x*2
	return uint16(f.buf[o]) | uint16(f.buf[o+1])<<8
}

type fakeLog struct{ lines []string }

func (l *fakeLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *fakeLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func (l *fakeLog) contains(sub string) bool {
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeKeyboard chan hal.KeyEvent

func (k fakeKeyboard) Events() <-chan hal.KeyEvent { return k }

type fakePointer chan hal.PointerEvent

func (p fakePointer) Events() <-chan hal.PointerEvent { return p }

type fakeHAL struct {
	log  *fakeLog
	fb   *fakeFB
	keys fakeKeyboard
	ptr  fakePointer
}

func (h *fakeHAL) Logger() hal.Logger { return h.log }
func (h *fakeHAL) Display() hal.Display {
	if h.fb == nil {
		return nil
	}
	return h.fb
}
func (h *fakeHAL) Input() hal.Input { return h }
func (h *fakeHAL) Time() hal.Time   { return nil }

func (h *fakeHAL) Keyboard() hal.Keyboard { return h.keys }
func (h *fakeHAL) Pointer() hal.Pointer   { return h.ptr }

type fixture struct {
	h *fakeHAL
	s *Session
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	h := &fakeHAL{
		log:  &fakeLog{},
		fb:   newFakeFB(800, 600),
		keys: make(fakeKeyboard, 128),
		ptr:  make(fakePointer, 128),
	}
	s, err := New(h, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{h: h, s: s}
}

func (f *fixture) step(t *testing.T) {
	t.Helper()
	if err := f.s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func (f *fixture) press(code hal.KeyCode) {
	f.h.keys <- hal.KeyEvent{Code: code, Press: true}
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.h.keys <- hal.KeyEvent{Press: true, Rune: r}
	}
}

func (f *fixture) clearField() {
	for i := 0; i < 12; i++ {
		f.press(hal.KeyBackspace)
	}
}

func (f *fixture) pointer(kind hal.PointerKind, b hal.PointerButton, x, y int) {
	f.h.ptr <- hal.PointerEvent{Kind: kind, Button: b, X: x, Y: y}
}

// pixel returns the framebuffer pixel showing world point p.
func (f *fixture) pixel(t *testing.T, p mgl64.Vec3) (int, int) {
	t.Helper()
	ndc, ok := f.s.Scene().Camera.ProjectPoint(p)
	if !ok {
		t.Fatalf("point %v not visible", p)
	}
	vp := f.s.Viewport()
	x := (ndc.X() + 1) / 2 * vp.Width
	y := (1 - ndc.Y()) / 2 * vp.Height
	return int(math.Round(x)), int(math.Round(y))
}

func TestPanelCommitUpdatesArrow(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.step(t)

	if !f.s.Panel().Focus(1, 0) {
		t.Fatal("focus failed")
	}
	f.clearField()
	f.typeText("3")
	f.press(hal.KeyTab)
	f.clearField()
	f.typeText("-2")
	f.press(hal.KeyTab)
	f.clearField()
	f.typeText("5")
	f.press(hal.KeyEnter)
	f.step(t)

	want := mgl64.Vec3{3, -2, 5}
	e := f.s.Entries().Get(1)
	if got := e.Vector(); got != want {
		t.Fatalf("vector=%v; want %v", got, want)
	}
	if got := e.Arrow.Length(); math.Abs(got-math.Sqrt(38)) > 1e-12 {
		t.Fatalf("length=%v; want sqrt(38)", got)
	}
	if !near(e.Arrow.Direction(), want.Normalize(), 1e-12) {
		t.Fatalf("direction=%v; want %v", e.Arrow.Direction(), want.Normalize())
	}

	c := f.s.Panel().Control(1)
	for i, s := range []string{"3.00", "-2.00", "5.00"} {
		if c.Text(i) != s {
			t.Fatalf("field %d=%q; want %q", i, c.Text(i), s)
		}
	}
	if got := f.s.Entries().Get(2).Vector(); got != (mgl64.Vec3{-1, 2, 0}) {
		t.Fatalf("v2=%v; want unchanged", got)
	}
	if f.s.Bus().Dropped() != 0 {
		t.Fatalf("dropped=%d; want 0", f.s.Bus().Dropped())
	}
	if !f.h.log.contains("panel: v1 = (3.00, -2.00, 5.00)") {
		t.Fatalf("log=%q", f.h.log.lines)
	}
}

func TestBoundDragUpdatesPanel(t *testing.T) {
	f := newFixture(t, Config{Mode: ModeBound})
	f.step(t)

	x0, y0 := f.pixel(t, mgl64.Vec3{1, 1, 0})
	target := mgl64.Vec3{1.5, -0.5, 0}
	x1, y1 := f.pixel(t, target)
	f.pointer(hal.PointerDown, hal.ButtonSecondary, x0, y0)
	f.pointer(hal.PointerMove, 0, x1, y1)
	f.pointer(hal.PointerUp, hal.ButtonSecondary, x1, y1)
	f.step(t)

	v := f.s.Entries().Get(1).Vector()
	if !near(v, target, 0.05) {
		t.Fatalf("v1=%v; want ~%v", v, target)
	}
	if v.Z() != 0 {
		t.Fatalf("v1.z=%v; want exactly 0", v.Z())
	}
	x, y, z := f.s.Panel().Control(1).Values()
	if (mgl64.Vec3{x, y, z}) != v {
		t.Fatalf("panel=(%v,%v,%v); want %v", x, y, z, v)
	}
	if got := f.s.Entries().Get(2).Vector(); got != (mgl64.Vec3{-1, 2, 0}) {
		t.Fatalf("v2=%v; want unchanged", got)
	}
	st := f.s.Controller().State()
	if st.Dragging || st.ActiveID != 1 {
		t.Fatalf("state=%+v; want selected v1", st)
	}
	if !f.h.log.contains("drag: begin v1") || !f.h.log.contains("drag: end v1") {
		t.Fatalf("log=%q", f.h.log.lines)
	}
}

func TestPickSelectsOtherVector(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.step(t)

	if f.s.Controller().Active() != 1 || !f.s.Panel().Control(1).Active() {
		t.Fatal("v1 not active at start")
	}

	x, y := f.pixel(t, mgl64.Vec3{-0.8, 1.6, 0})
	f.pointer(hal.PointerDown, hal.ButtonPrimary, x, y)
	f.pointer(hal.PointerUp, hal.ButtonPrimary, x, y)
	f.step(t)

	if got := f.s.Controller().Active(); got != 2 {
		t.Fatalf("active=%d; want 2", got)
	}
	if f.s.Panel().Control(1).Active() || !f.s.Panel().Control(2).Active() {
		t.Fatal("panel highlight did not follow the selection")
	}

	dx, dy := f.pixel(t, mgl64.Vec3{-2, 1, 0})
	f.pointer(hal.PointerDown, hal.ButtonSecondary, dx, dy)
	f.pointer(hal.PointerUp, hal.ButtonSecondary, dx, dy)
	f.step(t)

	if got := f.s.Entries().Get(1).Vector(); got != (mgl64.Vec3{2, 3, 0}) {
		t.Fatalf("v1=%v; want unchanged", got)
	}
	if got := f.s.Entries().Get(2).Vector(); !near(got, mgl64.Vec3{-2, 1, 0}, 0.05) {
		t.Fatalf("v2=%v; want ~(-2,1,0)", got)
	}
	if !f.h.log.contains("select: v1 -> v2") {
		t.Fatalf("log=%q", f.h.log.lines)
	}
}

func TestPanelAreaDoesNotReachScene(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.step(t)

	b := f.s.Panel().Bounds(800, 600)
	x, y := b.Min.X+2, b.Max.Y-2
	f.pointer(hal.PointerDown, hal.ButtonSecondary, x, y)
	f.pointer(hal.PointerMove, 0, x-5, y-5)
	f.step(t)

	if f.s.Controller().State().Dragging {
		t.Fatal("drag started over the panel")
	}
	if got := f.s.Entries().Get(1).Vector(); got != (mgl64.Vec3{2, 3, 0}) {
		t.Fatalf("v1=%v; want unchanged", got)
	}
}

func TestDragKeepsPointerOverPanel(t *testing.T) {
	f := newFixture(t, Config{Mode: ModeBound})
	f.step(t)

	x, y := f.pixel(t, mgl64.Vec3{1, 1, 0})
	f.pointer(hal.PointerDown, hal.ButtonSecondary, x, y)
	f.step(t)
	before := f.s.Entries().Get(1).Vector()

	b := f.s.Panel().Bounds(800, 600)
	f.pointer(hal.PointerMove, 0, b.Max.X-10, b.Min.Y+20)
	f.step(t)

	if !f.s.Controller().State().Dragging {
		t.Fatal("drag ended over the panel")
	}
	after := f.s.Entries().Get(1).Vector()
	if after == before {
		t.Fatalf("vector did not follow the pointer over the panel: %v", after)
	}
	if after.Z() != 0 {
		t.Fatalf("z=%v; want 0", after.Z())
	}
	if _, _, ok := f.s.Panel().Focused(); ok {
		t.Fatal("panel took focus during a drag")
	}

	f.pointer(hal.PointerUp, hal.ButtonSecondary, b.Max.X-10, b.Min.Y+20)
	f.step(t)
	if f.s.Controller().State().Dragging {
		t.Fatal("drag did not end")
	}
}

func TestWheelZoomsAndKeysOrbit(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.step(t)

	cam := f.s.Scene().Camera
	r0 := cam.Position.Sub(cam.Target).Len()
	f.h.ptr <- hal.PointerEvent{Kind: hal.PointerWheel, X: 100, Y: 100, WheelY: 1}
	f.step(t)

	cam = f.s.Scene().Camera
	if r := cam.Position.Sub(cam.Target).Len(); math.Abs(r-(r0-zoomStep)) > 1e-9 {
		t.Fatalf("radius=%v; want %v", r, r0-zoomStep)
	}

	p0 := cam.Position
	f.press(hal.KeyLeft)
	f.step(t)
	if f.s.Scene().Camera.Position == p0 {
		t.Fatal("left arrow did not orbit")
	}
}

func TestOrbitKeyEasesOut(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.step(t)
	yaw0 := quarkgl.OrbitFrom(f.s.Scene().Camera).Yaw

	f.press(hal.KeyLeft)
	f.step(t)
	first := yaw0 - quarkgl.OrbitFrom(f.s.Scene().Camera).Yaw
	if first <= 0 || first >= orbitStep/2 {
		t.Fatalf("first frame turned %v; want a damped fraction of %v", first, orbitStep)
	}
	for i := 0; i < 2000; i++ {
		f.step(t)
	}
	if got := yaw0 - quarkgl.OrbitFrom(f.s.Scene().Camera).Yaw; math.Abs(got-orbitStep) > 1e-4 {
		t.Fatalf("total turn=%v; want %v", got, orbitStep)
	}
	presents := f.h.fb.presents
	f.step(t)
	if f.h.fb.presents != presents {
		t.Fatal("settled camera still redraws every step")
	}
}

func TestWireframeKeyIgnoredWhileEditing(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.typeText("w")
	f.step(t)
	if f.s.Renderer().Mode != quarkgl.RenderWireframe {
		t.Fatal("w did not switch to wireframe")
	}

	f.s.Panel().Focus(1, 0)
	f.typeText("w")
	f.step(t)
	if f.s.Renderer().Mode != quarkgl.RenderWireframe {
		t.Fatal("w toggled the renderer while editing")
	}
}

func TestResizeUpdatesAspect(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.step(t)

	f.h.fb.resize(400, 400)
	f.step(t)

	if got := f.s.Scene().Camera.Aspect; got != 1 {
		t.Fatalf("aspect=%v; want 1", got)
	}
	if vp := f.s.Viewport(); vp.Width != 400 || vp.Height != 400 {
		t.Fatalf("viewport=%+v", vp)
	}
	if !f.h.log.contains("resize: 400x400") {
		t.Fatalf("log=%q", f.h.log.lines)
	}
}

func TestSingleMode(t *testing.T) {
	f := newFixture(t, Config{Mode: ModeSingle})
	f.step(t)

	if f.s.Entries().Len() != 1 || !f.s.Controller().Single() {
		t.Fatalf("entries=%d single=%v", f.s.Entries().Len(), f.s.Controller().Single())
	}
	if len(f.s.Panel().Controls()) != 1 || !f.s.Panel().Control(1).Active() {
		t.Fatal("single entry not active in the panel")
	}

	x, y := f.pixel(t, mgl64.Vec3{-1, -1, 0})
	f.pointer(hal.PointerDown, hal.ButtonSecondary, x, y)
	f.pointer(hal.PointerUp, hal.ButtonSecondary, x, y)
	f.step(t)
	if got := f.s.Entries().Get(1).Vector(); !near(got, mgl64.Vec3{-1, -1, 0}, 0.05) {
		t.Fatalf("v1=%v; want ~(-1,-1,0)", got)
	}
}

func TestStepRedrawsOnlyWhenDirty(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.step(t)
	f.step(t)
	if f.h.fb.presents != 1 {
		t.Fatalf("presents=%d; want 1", f.h.fb.presents)
	}
	if got, want := f.h.fb.pixel(1, 1), quarkgl.RGB565(quarkgl.Hex(0x111111)); got != want {
		t.Fatalf("background=%#04x; want %#04x", got, want)
	}

	f.press(hal.KeyRight)
	f.step(t)
	if f.h.fb.presents != 2 {
		t.Fatalf("presents=%d; want 2", f.h.fb.presents)
	}
}

func TestNewWithoutFramebuffer(t *testing.T) {
	h := &fakeHAL{log: &fakeLog{}}
	if _, err := New(h, DefaultConfig()); !errors.Is(err, ErrNoFramebuffer) {
		t.Fatalf("err=%v; want ErrNoFramebuffer", err)
	}
}

func TestControllerConfig(t *testing.T) {
	f := newFixture(t, Config{Mode: ModeBound, Vectors: VectorsFrom([]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})})
	cfg := controllerConfig(ModeBound, f.s.Entries())
	want := map[entry.ID]hal.PointerButton{1: hal.ButtonSecondary, 2: hal.ButtonAuxiliary}
	if len(cfg.Bindings) != len(want) {
		t.Fatalf("bindings=%v; want %v", cfg.Bindings, want)
	}
	for id, b := range want {
		if cfg.Bindings[id] != b {
			t.Fatalf("binding %d=%v; want %v", id, cfg.Bindings[id], b)
		}
	}
	if cfg := controllerConfig(ModePick, f.s.Entries()); cfg.DefaultActive != 1 || cfg.Bindings != nil {
		t.Fatalf("pick config=%+v", cfg)
	}
}

func near(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}
