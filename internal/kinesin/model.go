package kinesin

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/san-kum/fibersim/internal/fiber"
	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

const Name = "kinesin"

// Model carries the immutable parameters every kinesin rate and reaction
// function reads.
type Model struct {
	p   Params
	box geom.Box
}

func New(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{p: p, box: geom.NewCubicBox(p.BoxSize, p.PeriodicBoundary)}, nil
}

func (m *Model) Params() Params { return m.p }
func (m *Model) Box() geom.Box  { return m.box }

func (m *Model) recipe(v topology.View) *topology.Recipe { return topology.NewRecipe(v, order) }

func invariant(v topology.View, format string, args ...interface{}) error {
	return errors.Wrapf(reaction.ErrInvariant, format+"\n%s", append(args, topology.String(v))...)
}

func (m *Model) fail(r *topology.Recipe, state, msg string) (*topology.Recipe, error) {
	klog.V(2).Infof("kinesin: %s", msg)
	if m.p.RecordFailures {
		return r.ChangeTopologyType(TopComplex + "#" + state), nil
	}
	return r, nil
}

// Head is one motor domain.
type Head struct {
	ID topology.VertexID
	// Nucleotide is ADP, apo or ATP.
	Nucleotide string
	// Site is the tubulin the head is bonded to, or fiber.NoVertex.
	Site topology.VertexID
	// Index is the position of Site along its track from the minus end,
	// or -1.
	Index int
}

func (h Head) Bound() bool { return h.Site != fiber.NoVertex }

// Motor is a derived view of one kinesin: its hips and heads.
type Motor struct {
	Hips  topology.VertexID
	Heads []Head
}

func (m Motor) BoundHeads() int {
	n := 0
	for _, h := range m.Heads {
		if h.Bound() {
			n++
		}
	}
	return n
}

// Stance returns the trailing (minus side) and leading heads of a motor
// standing on the track with both heads.
func (m Motor) Stance() (trailing, leading Head, ok bool) {
	if len(m.Heads) != 2 || m.BoundHeads() != 2 {
		return Head{}, Head{}, false
	}
	a, b := m.Heads[0], m.Heads[1]
	if a.Index > b.Index {
		a, b = b, a
	}
	return a, b, true
}

// Motors lists every kinesin in v by hips id.
func Motors(v topology.View) ([]Motor, error) {
	index, err := TrackIndex(v)
	if err != nil {
		return nil, err
	}
	var out []Motor
	for _, h := range topology.FindAll(v, hips) {
		mo := Motor{Hips: h}
		for _, id := range topology.NeighborsOf(v, h, anyHead) {
			head := Head{ID: id, Nucleotide: nucleotide(v.TypeOf(id)), Site: fiber.NoVertex, Index: -1}
			if site, ok := topology.NeighborOf(v, id, siteTubulin); ok {
				head.Site = site
				head.Index = index[site]
			}
			mo.Heads = append(mo.Heads, head)
		}
		out = append(out, mo)
	}
	return out, nil
}

func trackNumber(v topology.View, id topology.VertexID) int {
	n, _ := topology.Number(v.TypeOf(id), 0)
	return n
}

// trackStep finds the track tubulin bonded to id one position toward the
// plus (delta 1) or minus (delta -1) end.
func trackStep(v topology.View, id topology.VertexID, delta int) (topology.VertexID, bool) {
	want := polymer.Number(trackNumber(v, id), delta)
	for _, n := range topology.NeighborsOf(v, id, anyTubulin) {
		if trackNumber(v, n) == want {
			return n, true
		}
	}
	return 0, false
}

// TrackIndex numbers every track tubulin by its position from the minus
// end of its track.
func TrackIndex(v topology.View) (map[topology.VertexID]int, error) {
	index := make(map[topology.VertexID]int)
	var starts []topology.VertexID
	for _, id := range topology.FindAll(v, anyTubulin) {
		if _, ok := trackStep(v, id, -1); !ok {
			starts = append(starts, id)
		}
	}
	for _, s := range starts {
		k := 0
		for id, ok := s, true; ok; id, ok = trackStep(v, id, 1) {
			if _, seen := index[id]; seen {
				return nil, invariant(v, "track tubulin %d reached twice", id)
			}
			index[id] = k
			k++
		}
	}
	return index, nil
}

// state is the topology type a settled piece should carry.
func state(v topology.View) string {
	_, motor := topology.FindFirst(v, hips)
	_, track := topology.FindFirst(v, anyTubulin)
	switch {
	case motor && track:
		return TopComplex
	case track:
		return TopTrack
	}
	return TopKinesin
}
