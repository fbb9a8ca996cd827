package viz

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/trajectory"
)

// Camera projects simulation coordinates (nm, box centered on the
// origin) onto the canvas.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
	// Extent is the box edge; it fills the shorter canvas side at zoom 1.
	Extent float64
}

func NewCamera(extent float64) *Camera {
	return &Camera{Zoom: 1, Extent: extent, RotX: -0.4, RotY: 0.5}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(20, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to sub-pixel coordinates of a sw by sh canvas and
// returns its depth and whether it lands on the canvas.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, float64, bool) {
	extent := c.Extent
	if extent <= 0 {
		extent = 1
	}
	rot := c.RotatePoint(p)
	dist := 2 * extent
	if rot.Z >= dist {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := math.Min(float64(sw), float64(sh))
	pScale := c.Zoom * minDim / extent
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale/2) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type projected struct {
	x1, y1, x2, y2 int
	depth          float64
	class          int
}

// RenderFrame draws every bond of f as a line and every particle as a
// dot, far ones first. classOf picks the color class of a particle.
func RenderFrame(c *Canvas, f trajectory.Frame, cam *Camera, classOf func(trajectory.Particle) int) {
	if c == nil || cam == nil {
		return
	}
	cw, ch := c.Width*2, c.Height*4
	index := make(map[int]int, len(f.Particles))
	for i, p := range f.Particles {
		index[p.ID] = i
	}
	proj := make([]projected, 0, len(f.Particles)+len(f.Edges))
	for _, e := range f.Edges {
		a, okA := index[e[0]]
		b, okB := index[e[1]]
		if !okA || !okB {
			continue
		}
		pa, pb := f.Particles[a], f.Particles[b]
		// skip bonds wrapped across a periodic wall
		if r3.Norm(r3.Sub(pa.Position, pb.Position)) > cam.Extent/2 {
			continue
		}
		x1, y1, d1, v1 := cam.Project(pa.Position, cw, ch)
		x2, y2, d2, v2 := cam.Project(pb.Position, cw, ch)
		if v1 || v2 {
			proj = append(proj, projected{x1, y1, x2, y2, (d1 + d2) / 2, classOf(pa)})
		}
	}
	for _, p := range f.Particles {
		x, y, d, ok := cam.Project(p.Position, cw, ch)
		if ok {
			proj = append(proj, projected{x, y, x, y, d, classOf(p)})
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1, e.class)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2, e.class)
		}
	}
}
