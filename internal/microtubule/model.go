package microtubule

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

const Name = "microtubule"

// Model carries the immutable parameters every microtubule rate and
// reaction function reads.
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
	klog.V(2).Infof("microtubule: %s", msg)
	if m.p.RecordFailures {
		return r.ChangeTopologyType(TopMicrotubule + "#" + state), nil
	}
	return r, nil
}

// step finds the tubulin bonded to id at the lattice offset off. Moving
// along the protofilament flips the A/B kind; moving across keeps it.
func step(v topology.View, id topology.VertexID, off polymer.Offset2D) (topology.VertexID, bool) {
	t, ok := parseTubulin(v.TypeOf(id))
	if !ok {
		return 0, false
	}
	kind := t.kind
	if off.X%2 != 0 {
		kind = opposite(kind)
	}
	x, y := polymer.Number2D(t.n1, t.n2, off)
	return topology.NeighborOf(v, id, lattice(func(n tubulin) bool {
		return n.kind == kind && n.n1 == x && n.n2 == y
	}))
}

func plusNeighbor(v topology.View, id topology.VertexID) (topology.VertexID, bool) {
	return step(v, id, polymer.Offset2D{X: 1})
}

func minusNeighbor(v topology.View, id topology.VertexID) (topology.VertexID, bool) {
	return step(v, id, polymer.Offset2D{X: -1})
}

// lateralNeighbors lists the ring mates bonded to id.
func lateralNeighbors(v topology.View, id topology.VertexID) []topology.VertexID {
	var out []topology.VertexID
	for _, dy := range []int{-1, 1} {
		if n, ok := step(v, id, polymer.Offset2D{Y: dy}); ok {
			out = append(out, n)
		}
	}
	return out
}

// isRingMate reports whether b sits beside a in the same ring.
func isRingMate(a, b tubulin) bool {
	if a.kind != b.kind || a.n1 != b.n1 {
		return false
	}
	_, up := polymer.Number2D(a.n1, a.n2, polymer.Offset2D{Y: 1})
	_, down := polymer.Number2D(a.n1, a.n2, polymer.Offset2D{Y: -1})
	return b.n2 == up || b.n2 == down
}
