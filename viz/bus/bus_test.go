package bus

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"vecviz/viz/entry"
)

func TestPanelEditDoesNotEchoAsDrag(t *testing.T) {
	b := New()
	var sceneWrites, panelWrites int
	b.OnPanelEdit(1, func(x, y, z float64) {
		sceneWrites++
		// A scene write that reports back as a drag edit must be dropped.
		if b.EmitDrag(1, mgl64.Vec3{x, y, z}) {
			t.Fatal("drag echo was delivered during a panel edit")
		}
	})
	b.OnDrag(func(entry.ID, mgl64.Vec3) { panelWrites++ })

	if !b.EmitPanel(1, mgl64.Vec3{3, -2, 5}) {
		t.Fatal("panel edit was not delivered")
	}
	if sceneWrites != 1 || panelWrites != 0 {
		t.Fatalf("scene=%d panel=%d; want 1,0", sceneWrites, panelWrites)
	}
	if b.Dropped() != 1 {
		t.Fatalf("dropped=%d; want 1", b.Dropped())
	}
}

func TestDragEditDoesNotEchoAsPanelEdit(t *testing.T) {
	b := New()
	var got mgl64.Vec3
	var sceneWrites int
	b.OnPanelEdit(2, func(x, y, z float64) { sceneWrites++ })
	b.OnDrag(func(id entry.ID, v mgl64.Vec3) {
		got = v
		if b.EmitPanel(id, v) {
			t.Fatal("panel echo was delivered during a drag edit")
		}
	})

	if !b.EmitDrag(2, mgl64.Vec3{1, 2, 0}) {
		t.Fatal("drag edit was not delivered")
	}
	if got != (mgl64.Vec3{1, 2, 0}) || sceneWrites != 0 {
		t.Fatalf("got=%v sceneWrites=%d", got, sceneWrites)
	}
}

func TestGuardsNestAndRelease(t *testing.T) {
	b := New()
	calls := 0
	b.OnDrag(func(entry.ID, mgl64.Vec3) { calls++ })

	b.ToScene().Do(func() {
		b.ToScene().Do(func() {})
		if !b.ToScene().Active() {
			t.Fatal("outer guard released by inner Do")
		}
		b.EmitDrag(1, mgl64.Vec3{})
	})
	if b.ToScene().Active() {
		t.Fatal("guard still held")
	}
	b.EmitDrag(1, mgl64.Vec3{})
	if calls != 1 {
		t.Fatalf("calls=%d; want 1", calls)
	}
}

func TestGuardReleasedOnPanic(t *testing.T) {
	b := New()
	func() {
		defer func() { _ = recover() }()
		b.ToPanel().Do(func() { panic("boom") })
	}()
	if b.ToPanel().Active() {
		t.Fatal("guard still held after panic")
	}
}

func TestUnregisteredTargets(t *testing.T) {
	b := New()
	if b.EmitPanel(9, mgl64.Vec3{}) {
		t.Fatal("edit without handler reported delivered")
	}
	if b.EmitDrag(9, mgl64.Vec3{}) {
		t.Fatal("drag without handler reported delivered")
	}
	b.OnPanelEdit(9, func(x, y, z float64) {})
	b.OnPanelEdit(9, nil)
	if b.EmitPanel(9, mgl64.Vec3{}) {
		t.Fatal("removed handler still called")
	}
}
