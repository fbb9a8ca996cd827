package actin

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/system"
	"github.com/san-kum/fibersim/internal/topology"
)

// System registers every actin species, topology type, potential and
// reaction and validates them against sample topologies.
func (m *Model) System() (*system.System, error) {
	p := m.p
	temp := system.KelvinFromCelsius(p.TemperatureC)
	diff := func(r float64) float64 { return system.DiffusionCoefficient(r, p.Viscosity, temp) }

	pots, err := m.Potentials()
	if err != nil {
		return nil, err
	}
	reg, err := m.Registry()
	if err != nil {
		return nil, err
	}
	samples, err := m.samples()
	if err != nil {
		return nil, err
	}
	b := system.NewBuilder(Name).
		Box(m.box).
		Order(order).
		ParticleTypes(FilamentTypes, diff(p.ActinRadius), p.ActinRadius).
		ParticleTypes([]string{FreeActin, FreeActinATP, NewActin, NewActinATP}, diff(p.ActinRadius), p.ActinRadius).
		ParticleTypes(ArpTypes, diff(p.ArpRadius), p.ArpRadius).
		ParticleTypes(CapTypes, diff(p.CapRadius), p.CapRadius).
		ParticleType(Obstacle, 0, p.ObstacleRadius).
		TopologyTypes(TopologyTypes()...).
		Mobile(TopDimer, TopTrimer, TopArpDimer).
		Potentials(pots).
		Reactions(reg).
		Sample(samples...)
	return b.Build()
}

// samples are the bonded shapes the catalog has to cover.
func (m *Model) samples() ([]topology.View, error) {
	var ids topology.IDs
	g := m.Generator(&ids, rand.New(rand.NewSource(1)))
	x := r3.Vec{X: 1}
	var out []topology.View
	for _, gen := range []func() (*topology.Graph, error){
		func() (*topology.Graph, error) { return g.Dimer(r3.Vec{}) },
		func() (*topology.Graph, error) { return g.LinearFiber(r3.Vec{}, x, 3, true) },
		func() (*topology.Graph, error) { return g.LinearFiber(r3.Vec{}, x, 8, false) },
		func() (*topology.Graph, error) { return g.BranchedFiber(r3.Vec{}, x, 9, 1) },
		func() (*topology.Graph, error) { return g.BranchedFiber(r3.Vec{}, x, 9, 5) },
		func() (*topology.Graph, error) { return g.ArpDimer(r3.Vec{}) },
		func() (*topology.Graph, error) { return m.cappedFiber(g, 6) },
	} {
		s, err := gen()
		if err != nil {
			return nil, errors.Wrap(err, "actin samples")
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *Model) cappedFiber(g *Generator, n int) (*topology.Graph, error) {
	f, err := g.LinearFiber(r3.Vec{}, r3.Vec{Z: 1}, n, false)
	if err != nil {
		return nil, err
	}
	end, ok := topology.FindFirst(f, barbedEnd)
	if !ok {
		return nil, invariant(f, "fiber without barbed end")
	}
	vCap := g.ids.Next()
	pos := r3.Add(f.PositionOf(end), r3.Vec{Z: BondLength() + capGap})
	if err := f.AddVertex(vCap, CapBound, pos); err != nil {
		return nil, err
	}
	if err := f.AddEdge(end, vCap); err != nil {
		return nil, err
	}
	if err := f.SetType(end, topology.SetFlags(f.TypeOf(end), nil, []string{"barbed"}, order)); err != nil {
		return nil, err
	}
	return f, nil
}
