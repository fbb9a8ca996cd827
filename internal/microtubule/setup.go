package microtubule

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/system"
	"github.com/san-kum/fibersim/internal/topology"
)

// System registers every tubulin species, topology type, potential and
// reaction and validates them against sample lattices.
func (m *Model) System() (*system.System, error) {
	p := m.p
	d := system.DiffusionCoefficient(p.TubulinRadius, p.Viscosity, system.KelvinFromCelsius(p.TemperatureC))
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
	return system.NewBuilder(Name).
		Box(m.box).
		Order(order).
		ParticleTypes(LatticeTypes(), d, p.TubulinRadius).
		ParticleTypes(SolubleTypes(), d, p.TubulinRadius).
		TopologyTypes(TopologyTypes()...).
		Potentials(pots).
		Reactions(reg).
		Sample(samples...).
		Build()
}

func (m *Model) samples() ([]topology.View, error) {
	var ids topology.IDs
	g := m.Generator(&ids, rand.New(rand.NewSource(1)))
	var out []topology.View
	for _, p := range []Patch{
		{Rings: 4, Filaments: 3, GTPRings: 1},
		{Rings: 7, Filaments: 5, Connections: Frayed(7, 5, 2), GTPRings: 4},
		{Rings: 3, Filaments: Protofilaments},
		{Rings: 2, Filaments: 1},
	} {
		s, err := g.Patch(p)
		if err != nil {
			return nil, errors.Wrap(err, "microtubule samples")
		}
		out = append(out, s)
	}
	return out, nil
}
