package quarkgl

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	maxOrbitPitch = math.Pi/2 - 0.01

	// Pending rotation below this is dropped so damped motion comes to rest.
	orbitRestEpsilon = 1e-6
)

// OrbitController provides orbit/zoom interactions for a camera around a target.
//
// Yaw is measured around +Y starting from +Z, pitch is the elevation above the XZ
// plane. It does not depend on any input system.
//
// With Damping set, Rotate only queues motion; each Update applies that
// fraction of what is pending, so the camera eases to rest. Zoom is immediate.
type OrbitController struct {
	Target mgl64.Vec3
	Yaw    float64
	Pitch  float64
	Radius float64

	MinRadius float64
	MaxRadius float64
	Damping   float64

	pendingYaw, pendingPitch float64
}

// OrbitFrom returns a controller that reproduces the camera's current position.
func OrbitFrom(cam Camera) OrbitController {
	d := cam.Position.Sub(cam.Target)
	r := d.Len()
	c := OrbitController{Target: cam.Target, Radius: r}
	if r > 0 {
		c.Pitch = math.Asin(clampF(d.Y()/r, -1, 1))
		c.Yaw = math.Atan2(d.X(), d.Z())
	}
	return c
}

func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	r := c.Radius
	if r == 0 {
		r = 3
	}
	if c.MinRadius != 0 && r < c.MinRadius {
		r = c.MinRadius
	}
	if c.MaxRadius != 0 && r > c.MaxRadius {
		r = c.MaxRadius
	}
	pitch := clampF(c.Pitch, -maxOrbitPitch, maxOrbitPitch)

	cp := math.Cos(pitch)
	offset := V3(r*cp*math.Sin(c.Yaw), r*math.Sin(pitch), r*cp*math.Cos(c.Yaw))

	cam.Position = c.Target.Add(offset)
	cam.Target = c.Target
	if cam.Up == (mgl64.Vec3{}) {
		cam.Up = V3(0, 1, 0)
	}
}

func (c *OrbitController) Rotate(deltaYaw, deltaPitch float64) {
	if c.Damping > 0 {
		c.pendingYaw += deltaYaw
		c.pendingPitch += deltaPitch
		return
	}
	c.Yaw += deltaYaw
	c.Pitch = clampF(c.Pitch+deltaPitch, -maxOrbitPitch, maxOrbitPitch)
}

// Update advances damped rotation by one frame. It reports whether the angles
// changed; Apply must then be called again.
func (c *OrbitController) Update() bool {
	if c.Damping <= 0 || !c.Moving() {
		return false
	}
	f := clampF(c.Damping, 0, 1)
	c.Yaw += c.pendingYaw * f
	pitch := c.Pitch + c.pendingPitch*f
	c.Pitch = clampF(pitch, -maxOrbitPitch, maxOrbitPitch)
	c.pendingYaw *= 1 - f
	c.pendingPitch *= 1 - f
	if pitch != c.Pitch {
		c.pendingPitch = 0
	}
	if math.Abs(c.pendingYaw) < orbitRestEpsilon {
		c.pendingYaw = 0
	}
	if math.Abs(c.pendingPitch) < orbitRestEpsilon {
		c.pendingPitch = 0
	}
	return true
}

// Moving reports whether damped rotation is still pending.
func (c *OrbitController) Moving() bool { return c.pendingYaw != 0 || c.pendingPitch != 0 }

func (c *OrbitController) Zoom(delta float64) {
	c.Radius += delta
	if c.MinRadius != 0 && c.Radius < c.MinRadius {
		c.Radius = c.MinRadius
	}
	if c.MaxRadius != 0 && c.Radius > c.MaxRadius {
		c.Radius = c.MaxRadius
	}
}
