package actin

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/topology"
)

// Generator builds initial actin topologies. Every vertex id comes from
// the shared allocator so generated topologies can later be merged.
type Generator struct {
	m   *Model
	ids *topology.IDs
	rng *rand.Rand
}

func (m *Model) Generator(ids *topology.IDs, rng *rand.Rand) *Generator {
	return &Generator{m: m, ids: ids, rng: rng}
}

type builder struct {
	g   *topology.Graph
	box geom.Box
	err error
}

func (b *builder) add(ids *topology.IDs, typ string, p r3.Vec) topology.VertexID {
	id := ids.Next()
	if b.err == nil {
		b.err = b.g.AddVertex(id, typ, b.box.Wrap(p))
	}
	return id
}

func (b *builder) bond(a, c topology.VertexID) {
	if b.err == nil {
		b.err = b.g.AddEdge(a, c)
	}
}

func (b *builder) done() (*topology.Graph, error) {
	if b.err != nil {
		return nil, errors.Wrap(b.err, "actin generator")
	}
	return b.g, nil
}

func (g *Generator) build(topologyType string) *builder {
	return &builder{g: topology.NewGraph(topologyType), box: g.m.box}
}

// sizeType is the topology type of a bare filament of n actins.
func sizeType(n int) string {
	switch n {
	case 2:
		return TopDimer
	case 3:
		return TopTrimer
	}
	return TopPolymer
}

// filamentType names the k-th of n actins of an unbranched filament.
func filamentType(k, n int, atp bool) string {
	t := topology.ParticleType{Base: "actin"}
	switch k {
	case 0:
		t = t.With([]string{"pointed"}, nil)
	case n - 1:
		t = t.With([]string{"barbed"}, nil)
	}
	if atp {
		t = t.With([]string{"ATP"}, nil)
	}
	return t.WithNumbers(polymer.Clamp(k + 1)).Format(order)
}

// helixFrame returns two unit vectors completing axis to a right-handed
// frame.
func (g *Generator) helixFrame(axis r3.Vec) (r3.Vec, r3.Vec, error) {
	e1, err := geom.RandomPerpendicular(axis, g.rng)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	return e1, r3.Cross(axis, e1), nil
}

// LinearFiber lays n actins on the ideal helix from start along direction,
// pointed end first.
func (g *Generator) LinearFiber(start, direction r3.Vec, n int, atp bool) (*topology.Graph, error) {
	if n < 2 {
		return nil, errors.Wrapf(ErrBadParams, "linear fiber of %d actins", n)
	}
	axis, err := geom.Normalize(direction)
	if err != nil {
		return nil, errors.Wrap(err, "fiber direction")
	}
	e1, e2, err := g.helixFrame(axis)
	if err != nil {
		return nil, err
	}
	b := g.build(sizeType(n))
	prev := fiberNone
	for k := 0; k < n; k++ {
		id := b.add(g.ids, filamentType(k, n, atp), helixPoint(k, axis, e1, e2, start))
		if prev != fiberNone {
			b.bond(prev, id)
		}
		prev = id
	}
	return b.done()
}

const fiberNone topology.VertexID = -1

// BranchedFiber builds a mother filament of motherLen actins centred on
// center with one nucleated arp2/3 halfway along it and a daughter of
// daughterLen actins.
func (g *Generator) BranchedFiber(center, direction r3.Vec, motherLen, daughterLen int) (*topology.Graph, error) {
	if motherLen < 5 || daughterLen < 1 {
		return nil, errors.Wrapf(ErrBadParams, "branched fiber %d/%d", motherLen, daughterLen)
	}
	axis, err := geom.Normalize(direction)
	if err != nil {
		return nil, errors.Wrap(err, "fiber direction")
	}
	e1, e2, err := g.helixFrame(axis)
	if err != nil {
		return nil, err
	}
	start := r3.Sub(center, r3.Scale(float64(motherLen-1)*helixRise/2, axis))
	b := g.build(TopPolymer)
	mother := make([]topology.VertexID, motherLen)
	pos := make([]r3.Vec, motherLen)
	for k := range mother {
		pos[k] = helixPoint(k, axis, e1, e2, start)
		mother[k] = b.add(g.ids, filamentType(k, motherLen, false), pos[k])
		if k > 0 {
			b.bond(mother[k-1], mother[k])
		}
	}

	i := motherLen / 2
	frame := [3]r3.Vec{pos[i-1], pos[i], pos[i+1]}
	at := func(offset r3.Vec) r3.Vec {
		p, err := geom.PlaceFromFrame(frame, ideal.orientation, offset)
		if err != nil && b.err == nil {
			b.err = err
		}
		return p
	}
	arp2 := b.add(g.ids, Arp2Branched, at(ideal.arp2Offset()))
	arp3 := b.add(g.ids, Arp3, at(ideal.arp3Offset()))
	b.bond(mother[i], arp2)
	b.bond(mother[i+1], arp3)
	b.bond(arp2, arp3)

	// daughters beyond the third continue the helix of the previous three
	dpos := make([]r3.Vec, daughterLen)
	prev := arp2
	for k := 0; k < daughterLen; k++ {
		if k < len(ideal.daughter) {
			dpos[k] = at(ideal.branchOffset(k))
		} else {
			p, err := geom.PlaceFromFrame([3]r3.Vec{dpos[k-3], dpos[k-2], dpos[k-1]}, ideal.orientation, ideal.barbedOffset())
			if err != nil && b.err == nil {
				b.err = err
			}
			dpos[k] = p
		}
		t := filamentType(k, daughterLen, false)
		if k == 0 {
			t = "actin#branch_1"
			if daughterLen == 1 {
				t = "actin#branch_barbed_1"
			}
		}
		id := b.add(g.ids, t, dpos[k])
		b.bond(prev, id)
		prev = id
	}
	return b.done()
}

// Dimer places an ATP actin dimer at p.
func (g *Generator) Dimer(p r3.Vec) (*topology.Graph, error) {
	b := g.build(TopDimer)
	a := b.add(g.ids, "actin#pointed_ATP_1", p)
	c := b.add(g.ids, "actin#barbed_ATP_2", r3.Add(p, r3.Scale(BondLength(), geom.RandomUnitVector(g.rng))))
	b.bond(a, c)
	return b.done()
}

func (g *Generator) Monomer(p r3.Vec, atp bool) (*topology.Graph, error) {
	return g.single(TopMonomer, freeType(atp), p)
}

// ArpDimer places an unbound arp2/3 complex carrying ATP.
func (g *Generator) ArpDimer(p r3.Vec) (*topology.Graph, error) {
	b := g.build(TopArpDimer)
	a := b.add(g.ids, Arp2, p)
	c := b.add(g.ids, Arp3ATP, r3.Add(p, r3.Scale(arpDimerGap, geom.RandomUnitVector(g.rng))))
	b.bond(a, c)
	return b.done()
}

func (g *Generator) Cap(p r3.Vec) (*topology.Graph, error) {
	return g.single(TopCap, CapFree, p)
}

func (g *Generator) Obstacle(p r3.Vec) (*topology.Graph, error) {
	return g.single(TopObstacle, Obstacle, p)
}

func (g *Generator) single(topologyType, particle string, p r3.Vec) (*topology.Graph, error) {
	b := g.build(topologyType)
	b.add(g.ids, particle, p)
	return b.done()
}

// Initial generates the starting state: seed fibers plus free actin,
// arp2/3 and caps at the configured concentrations.
func (g *Generator) Initial() ([]*topology.Graph, error) {
	p := g.m.p
	var out []*topology.Graph
	n := int(math.Max(2, math.Round(p.SeedFiberLength/helixRise)))
	for i := 0; i < p.SeedFibers; i++ {
		start := g.m.box.RandomPoint(g.rng, p.SeedFiberLength+helixRadius)
		f, err := g.LinearFiber(start, geom.RandomUnitVector(g.rng), n, true)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	for _, s := range []struct {
		count  int
		margin float64
		gen    func(r3.Vec) (*topology.Graph, error)
	}{
		{ParticleCount(p.ActinConcentration, p.BoxSize), 0, func(q r3.Vec) (*topology.Graph, error) { return g.Monomer(q, true) }},
		{ParticleCount(p.ArpConcentration, p.BoxSize), arpDimerGap, g.ArpDimer},
		{ParticleCount(p.CapConcentration, p.BoxSize), 0, g.Cap},
	} {
		for i := 0; i < s.count; i++ {
			t, err := s.gen(g.m.box.RandomPoint(g.rng, s.margin))
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
	}
	klog.Infof("actin: generated %d topologies", len(out))
	return out, nil
}
