package microtubule

import (
	"math/rand"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/system"
	"github.com/san-kum/fibersim/internal/topology"
)

// Patch describes a lattice seed: Rings tubulins along each of Filaments
// neighboring protofilaments, minus end at ring 0.
type Patch struct {
	Rings, Filaments int
	// Connections[r][f] bonds filament f to filament f+1 at ring r. It has
	// Rings rows of Filaments-1 columns; nil connects every ring mate.
	Connections [][]bool
	// GTPRings is how many rings at the plus end carry GTP.
	GTPRings int
	Origin   r3.Vec
}

func (p Patch) connected(ring, filament int) bool {
	if filament < 0 || filament >= p.Filaments-1 {
		return false
	}
	if p.Connections == nil {
		return true
	}
	return p.Connections[ring][filament]
}

func (p Patch) validate() error {
	if p.Rings < 1 || p.Filaments < 1 || p.Filaments > Protofilaments {
		return errors.Wrapf(ErrBadParams, "patch of %d rings x %d filaments", p.Rings, p.Filaments)
	}
	if p.Connections == nil {
		return nil
	}
	if len(p.Connections) != p.Rings {
		return errors.Wrapf(ErrBadParams, "connections have %d rows for %d rings", len(p.Connections), p.Rings)
	}
	for r, row := range p.Connections {
		if len(row) != p.Filaments-1 {
			return errors.Wrapf(ErrBadParams, "connections row %d has %d columns for %d filaments", r, len(row), p.Filaments)
		}
	}
	return nil
}

// Frayed connects every ring mate except in the last frayed rings.
func Frayed(rings, filaments, frayed int) [][]bool {
	conn := make([][]bool, rings)
	for r := range conn {
		conn[r] = make([]bool, max(filaments-1, 0))
		for f := range conn[r] {
			conn[r][f] = r < rings-frayed
		}
	}
	return conn
}

// Generator builds initial microtubule topologies from a shared id
// allocator.
type Generator struct {
	m   *Model
	ids *topology.IDs
	rng *rand.Rand
}

func (m *Model) Generator(ids *topology.IDs, rng *rand.Rand) *Generator {
	return &Generator{m: m, ids: ids, rng: rng}
}

// Patch lays out p on the ideal lattice. A tubulin with no ring mate is
// bent and the last ring is the plus end.
func (g *Generator) Patch(p Patch) (*topology.Graph, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	gr := topology.NewGraph(TopMicrotubule)
	ids := make([][]topology.VertexID, p.Rings)
	for r := 0; r < p.Rings; r++ {
		ids[r] = make([]topology.VertexID, p.Filaments)
		nuc := GDP
		if r >= p.Rings-p.GTPRings {
			nuc = GTP
		}
		for f := 0; f < p.Filaments; f++ {
			bent := !p.connected(r, f-1) && !p.connected(r, f)
			n1, n2 := polymer.LatticeNumbers(r, f)
			typ := tubulinType(kindAt(r), nuc, bent, r == p.Rings-1, n1, n2)
			id := g.ids.Next()
			if err := gr.AddVertex(id, typ, g.m.box.Wrap(r3.Add(p.Origin, idealPosition(r, f)))); err != nil {
				return nil, errors.Wrap(err, "microtubule patch")
			}
			ids[r][f] = id
		}
	}
	for r := 0; r < p.Rings; r++ {
		for f := 0; f < p.Filaments; f++ {
			if r > 0 {
				if err := gr.AddEdge(ids[r-1][f], ids[r][f]); err != nil {
					return nil, errors.Wrap(err, "microtubule patch")
				}
			}
			if p.connected(r, f) {
				if err := gr.AddEdge(ids[r][f], ids[r][f+1]); err != nil {
					return nil, errors.Wrap(err, "microtubule patch")
				}
			}
		}
	}
	return gr, nil
}

// Free is one tubulin in solution.
func (g *Generator) Free(kind, nuc string, pos r3.Vec) (*topology.Graph, error) {
	gr := topology.NewGraph(TopFree)
	if err := gr.AddVertex(g.ids.Next(), FreeType(kind, nuc), g.m.box.Wrap(pos)); err != nil {
		return nil, errors.Wrap(err, "free tubulin")
	}
	return gr, nil
}

// Initial builds the seed microtubule at the box center and the free GTP
// tubulin pool.
func (g *Generator) Initial() ([]*topology.Graph, error) {
	p := g.m.p
	var out []*topology.Graph
	if p.SeedRings > 0 && p.SeedFilaments > 0 {
		center := r3.Scale(0.5, r3.Add(idealPosition(0, 0), idealPosition(p.SeedRings-1, p.SeedFilaments-1)))
		seed, err := g.Patch(Patch{
			Rings:       p.SeedRings,
			Filaments:   p.SeedFilaments,
			Connections: Frayed(p.SeedRings, p.SeedFilaments, p.SeedFrayedRings),
			GTPRings:    p.SeedGTPRings,
			Origin:      r3.Scale(-1, center),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, seed)
	}
	n := system.ParticleCount(p.TubulinConcentration, p.BoxSize)
	for i := 0; i < n; i++ {
		t, err := g.Free(kinds[i%2], GTP, g.m.box.RandomPoint(g.rng, p.TubulinRadius))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	klog.Infof("microtubule: %d seed rings, %d free tubulins", p.SeedRings, n)
	return out, nil
}
