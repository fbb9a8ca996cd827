// Package fiber derives ordered centerline polylines from the live
// particle graph. Fibers are read-only views: they hold vertex ids, never
// references into the graph, and are rebuilt whenever they are needed.
package fiber

import (
	"math"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/topology"
)

// NoVertex marks an absent vertex reference.
const NoVertex topology.VertexID = -1

type CurvePoint struct {
	Position  r3.Vec
	Tangent   r3.Vec
	ArcLength float64
}

type Fiber struct {
	ID       int
	Vertices []topology.VertexID
	Points   []CurvePoint

	BoundArps     []ArpRecord
	NucleatedArps []ArpRecord
	// MotherArp is the arp2 this fiber branched from, or NoVertex.
	MotherArp topology.VertexID
	// Reversed is set when Points run barbed to pointed.
	Reversed bool

	index *redblacktree.Tree
}

// New builds a fiber through positions. Tangents point from each point to
// the next; the last point reuses the previous tangent.
func New(id int, vertices []topology.VertexID, positions []r3.Vec) (*Fiber, error) {
	if len(positions) == 0 {
		return nil, ErrEmptyFiber
	}
	if vertices != nil && len(vertices) != len(positions) {
		return nil, errors.Errorf("fiber: %d vertices for %d positions", len(vertices), len(positions))
	}
	f := &Fiber{
		ID:        id,
		Vertices:  append([]topology.VertexID(nil), vertices...),
		Points:    make([]CurvePoint, len(positions)),
		MotherArp: NoVertex,
		index:     redblacktree.NewWith(utils.Float64Comparator),
	}
	seg := make([]float64, len(positions))
	for i := 1; i < len(positions); i++ {
		seg[i] = geom.Distance(positions[i-1], positions[i])
	}
	arc := make([]float64, len(positions))
	floats.CumSum(arc, seg)
	for i, p := range positions {
		f.Points[i] = CurvePoint{Position: p, ArcLength: arc[i]}
	}
	if len(positions) > 1 {
		for i := 0; i < len(positions)-1; i++ {
			t, err := geom.Normalize(r3.Sub(positions[i+1], positions[i]))
			if err != nil {
				return nil, errors.Wrapf(ErrCoincidental, "points %d and %d", i, i+1)
			}
			f.Points[i].Tangent = t
		}
		f.Points[len(positions)-1].Tangent = f.Points[len(positions)-2].Tangent
	}
	for i, p := range f.Points {
		f.index.Put(p.ArcLength, i)
	}
	return f, nil
}

func (f *Fiber) Len() int { return len(f.Points) }

// Length is the total arc length.
func (f *Fiber) Length() float64 { return f.Points[len(f.Points)-1].ArcLength }

func (f *Fiber) Tangent(i int) (r3.Vec, error) {
	if i < 0 || i >= len(f.Points) {
		return r3.Vec{}, errors.Wrapf(ErrOutOfBounds, "tangent %d of %d", i, len(f.Points))
	}
	return f.Points[i].Tangent, nil
}

// NearestPoint returns the index and arc length of the sampled point
// closest to q. Ties go to the lower index.
func (f *Fiber) NearestPoint(q r3.Vec) (int, float64) {
	best, bestD := 0, math.Inf(1)
	for i, p := range f.Points {
		if d := r3.Norm2(r3.Sub(p.Position, q)); d < bestD {
			best, bestD = i, d
		}
	}
	return best, f.Points[best].ArcLength
}

// NearestSegmentDirection returns the unit direction of the segment whose
// closest point to q is nearest. Single-point fibers have no direction.
func (f *Fiber) NearestSegmentDirection(q r3.Vec) (r3.Vec, bool) {
	if len(f.Points) < 2 {
		return r3.Vec{}, false
	}
	best, bestD := 0, math.Inf(1)
	for i := 0; i < len(f.Points)-1; i++ {
		a, b := f.Points[i].Position, f.Points[i+1].Position
		ab := r3.Sub(b, a)
		t := r3.Dot(r3.Sub(q, a), ab) / r3.Norm2(ab)
		t = math.Max(0, math.Min(1, t))
		c := r3.Add(a, r3.Scale(t, ab))
		if d := r3.Norm2(r3.Sub(q, c)); d < bestD {
			best, bestD = i, d
		}
	}
	return f.Points[best].Tangent, true
}

// PointAtArcLength interpolates the curve at arc length s.
func (f *Fiber) PointAtArcLength(s float64) (CurvePoint, bool) {
	if s < 0 || s > f.Length() {
		return CurvePoint{}, false
	}
	lo, ok := f.index.Floor(s)
	if !ok {
		return CurvePoint{}, false
	}
	i := lo.Value.(int)
	if lo.Key.(float64) == s || i == len(f.Points)-1 {
		return f.Points[i], true
	}
	a, b := f.Points[i], f.Points[i+1]
	t := (s - a.ArcLength) / (b.ArcLength - a.ArcLength)
	return CurvePoint{
		Position:  r3.Add(a.Position, r3.Scale(t, r3.Sub(b.Position, a.Position))),
		Tangent:   a.Tangent,
		ArcLength: s,
	}, true
}

func (f *Fiber) PointedPoint() CurvePoint {
	if f.Reversed {
		return f.Points[len(f.Points)-1]
	}
	return f.Points[0]
}

func (f *Fiber) BarbedPoint() CurvePoint {
	if f.Reversed {
		return f.Points[0]
	}
	return f.Points[len(f.Points)-1]
}

// IndexOf returns the position of vertex id along the fiber.
func (f *Fiber) IndexOf(id topology.VertexID) (int, bool) {
	for i, v := range f.Vertices {
		if v == id {
			return i, true
		}
	}
	return 0, false
}

// Reverse returns a copy running in the opposite direction.
func (f *Fiber) Reverse() (*Fiber, error) {
	n := len(f.Points)
	pos := make([]r3.Vec, n)
	var ids []topology.VertexID
	if f.Vertices != nil {
		ids = make([]topology.VertexID, n)
	}
	for i := range f.Points {
		pos[n-1-i] = f.Points[i].Position
		if ids != nil {
			ids[n-1-i] = f.Vertices[i]
		}
	}
	out, err := New(f.ID, ids, pos)
	if err != nil {
		return nil, err
	}
	out.BoundArps = f.BoundArps
	out.NucleatedArps = f.NucleatedArps
	out.MotherArp = f.MotherArp
	out.Reversed = !f.Reversed
	return out, nil
}
