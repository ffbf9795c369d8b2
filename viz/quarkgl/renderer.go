package quarkgl

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
)

// Renderer is a fixed-pipeline software renderer.
//
// Create it once and reuse it to avoid allocations. Triangles are rasterized in
// horizontal bands, one goroutine per band; line segments are drawn afterwards on
// the calling goroutine.
type Renderer struct {
	Mode       RenderMode
	Depth      bool
	ClearColor Color

	workers  int
	depthBuf []float32

	tris []screenTri
	segs []screenSeg
}

type screenPoint struct {
	X, Y float64 // pixels, top-left origin
	Z    float64 // depth in [0,1]
}

type screenTri struct {
	p [3]screenPoint
	c Color
}

type screenSeg struct {
	a, b screenPoint
	c    Color
}

// NewRenderer creates a renderer for a given maximum target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{
		Mode:       RenderSolidFlat,
		Depth:      enableDepth,
		ClearColor: RGB(0, 0, 0),
		workers:    1,
	}
	if enableDepth && w > 0 && h > 0 {
		r.depthBuf = make([]float32, w*h)
	}
	return r
}

// SetRenderMode switches between filled and wireframe drawing.
func (r *Renderer) SetRenderMode(m RenderMode) { r.Mode = m }

// SetWorkers sets how many bands are rasterized concurrently.
func (r *Renderer) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	r.workers = n
}

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on || w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

func (r *Renderer) clearDepth() {
	for i := range r.depthBuf {
		r.depthBuf[i] = math.MaxFloat32
	}
}

// Render renders a scene into the target.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)

	if r.Depth {
		r.EnableDepth(true, w, h)
		r.clearDepth()
	}

	aspect := s.Camera.aspect(float64(w) / float64(h))
	viewProj := s.Camera.Projection(aspect).Mul4(s.Camera.View())

	r.tris = r.tris[:0]
	r.segs = r.segs[:0]
	s.eachMesh(func(_ int, m *Mesh) {
		if !m.Enabled || m.Hidden {
			return
		}
		r.collect(viewProj, m, s.Light, w, h)
	})

	if r.Mode == RenderWireframe {
		for _, tri := range r.tris {
			r.segs = append(r.segs,
				screenSeg{a: tri.p[0], b: tri.p[1], c: tri.c},
				screenSeg{a: tri.p[1], b: tri.p[2], c: tri.c},
				screenSeg{a: tri.p[2], b: tri.p[0], c: tri.c},
			)
		}
	} else {
		r.rasterize(t, w, h)
	}

	for _, sg := range r.segs {
		r.drawSegment(t, w, h, sg)
	}
}

func (r *Renderer) collect(viewProj mgl64.Mat4, m *Mesh, light Light, w, h int) {
	if m.Transform == (mgl64.Mat4{}) {
		m.Transform = mgl64.Ident4()
	}
	world := func(i uint16) (mgl64.Vec3, bool) {
		if int(i) >= len(m.Vertices) {
			return mgl64.Vec3{}, false
		}
		return transformPoint(m.Transform, m.Vertices[i].Pos), true
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, ok0 := world(m.Indices[i])
		b, ok1 := world(m.Indices[i+1])
		c, ok2 := world(m.Indices[i+2])
		if !ok0 || !ok1 || !ok2 {
			continue
		}
		p0, ok0 := toScreen(viewProj, a, w, h)
		p1, ok1 := toScreen(viewProj, b, w, h)
		p2, ok2 := toScreen(viewProj, c, w, h)
		// Trivial clip: drop triangles touching the camera plane.
		if !ok0 || !ok1 || !ok2 {
			continue
		}
		col := m.Material.BaseColor
		if light.Mode == LightAmbientDirectional {
			col = col.MulScalar(lightIntensity(light, triangleNormal(a, b, c)))
		}
		r.tris = append(r.tris, screenTri{p: [3]screenPoint{p0, p1, p2}, c: col})
	}

	for i := 0; i+1 < len(m.Lines); i += 2 {
		a, ok0 := world(m.Lines[i])
		b, ok1 := world(m.Lines[i+1])
		if !ok0 || !ok1 {
			continue
		}
		p0, ok0 := toScreen(viewProj, a, w, h)
		p1, ok1 := toScreen(viewProj, b, w, h)
		if !ok0 || !ok1 {
			continue
		}
		r.segs = append(r.segs, screenSeg{a: p0, b: p1, c: m.Material.BaseColor})
	}
}

func toScreen(viewProj mgl64.Mat4, p mgl64.Vec3, w, h int) (screenPoint, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	cw := clip.W()
	if cw <= 0 {
		return screenPoint{}, false
	}
	nx, ny, nz := clip.X()/cw, clip.Y()/cw, clip.Z()/cw
	return screenPoint{
		X: (nx + 1) * 0.5 * float64(w),
		Y: (1 - ny) * 0.5 * float64(h),
		Z: nz*0.5 + 0.5,
	}, true
}

func (r *Renderer) rasterize(t Target, w, h int) {
	n := r.workers
	if n <= 1 || h < 2*n {
		r.rasterBand(t, w, 0, h)
		return
	}
	band := (h + n - 1) / n
	var g errgroup.Group
	for y0 := 0; y0 < h; y0 += band {
		y0, y1 := y0, min(y0+band, h)
		g.Go(func() error {
			r.rasterBand(t, w, y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}

// rasterBand fills every collected triangle restricted to rows [y0, y1).
func (r *Renderer) rasterBand(t Target, w, y0, y1 int) {
	for i := range r.tris {
		tri := &r.tris[i]
		p0, p1, p2 := tri.p[0], tri.p[1], tri.p[2]

		area := edgeFn(p0, p1, p2.X, p2.Y)
		if area == 0 {
			continue
		}
		sign := 1.0
		if area < 0 {
			sign = -1
			area = -area
		}

		minX := max(int(math.Floor(min(p0.X, p1.X, p2.X))), 0)
		maxX := min(int(math.Ceil(max(p0.X, p1.X, p2.X))), w-1)
		minY := max(int(math.Floor(min(p0.Y, p1.Y, p2.Y))), y0)
		maxY := min(int(math.Ceil(max(p0.Y, p1.Y, p2.Y))), y1-1)
		if minX > maxX || minY > maxY {
			continue
		}

		for y := minY; y <= maxY; y++ {
			py := float64(y) + 0.5
			for x := minX; x <= maxX; x++ {
				px := float64(x) + 0.5
				w0 := sign * edgeFn(p1, p2, px, py)
				w1 := sign * edgeFn(p2, p0, px, py)
				w2 := sign * edgeFn(p0, p1, px, py)
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}
				z := (w0*p0.Z + w1*p1.Z + w2*p2.Z) / area
				if !r.depthTest(w, x, y, z) {
					continue
				}
				t.SetPixel(x, y, tri.c)
			}
		}
	}
}

func edgeFn(a, b screenPoint, x, y float64) float64 {
	return (x-a.X)*(b.Y-a.Y) - (y-a.Y)*(b.X-a.X)
}

func (r *Renderer) depthTest(w int, x, y int, z float64) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	if x < 0 || y < 0 || x >= w {
		return false
	}
	idx := y*w + x
	if idx >= len(r.depthBuf) {
		return false
	}
	d := float32(clamp01(z))
	if d >= r.depthBuf[idx] {
		return false
	}
	r.depthBuf[idx] = d
	return true
}

func (r *Renderer) drawSegment(t Target, w, h int, sg screenSeg) {
	t0, t1, ok := clipSegment(sg.a, sg.b, 0, 0, float64(w-1), float64(h-1))
	if !ok {
		return
	}
	lerp := func(u float64) screenPoint {
		return screenPoint{
			X: sg.a.X + (sg.b.X-sg.a.X)*u,
			Y: sg.a.Y + (sg.b.Y-sg.a.Y)*u,
			Z: sg.a.Z + (sg.b.Z-sg.a.Z)*u,
		}
	}
	a, b := lerp(t0), lerp(t1)
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	steps := max(dx, -dy)
	i := 0
	err := dx + dy
	for {
		z := a.Z
		if steps > 0 {
			z += (b.Z - a.Z) * float64(i) / float64(steps)
		}
		if r.depthTest(w, x0, y0, z) {
			t.SetPixel(x0, y0, sg.c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
		i++
	}
}

// clipSegment clips a→b against a rectangle (Liang-Barsky) and returns the
// parameter range that remains visible.
func clipSegment(a, b screenPoint, xmin, ymin, xmax, ymax float64) (t0, t1 float64, ok bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	t0, t1 = 0, 1
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		u := q / p
		if p < 0 {
			if u > t1 {
				return false
			}
			if u > t0 {
				t0 = u
			}
		} else {
			if u < t0 {
				return false
			}
			if u < t1 {
				t1 = u
			}
		}
		return true
	}
	if !clip(-dx, a.X-xmin) || !clip(dx, xmax-a.X) || !clip(-dy, a.Y-ymin) || !clip(dy, ymax-a.Y) {
		return 0, 0, false
	}
	return t0, t1, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
