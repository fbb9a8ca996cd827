package kinesin

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/system"
	"github.com/san-kum/fibersim/internal/topology"
)

// System registers the track and motor species and validates the
// catalogs against a bare track, a free motor and docked motors.
func (m *Model) System() (*system.System, error) {
	p := m.p
	t := system.KelvinFromCelsius(p.TemperatureC)
	d := func(r float64) float64 { return system.DiffusionCoefficient(r, p.Viscosity, t) }
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
		ParticleType(Hips, d(p.HipsRadius), p.HipsRadius).
		ParticleTypes(HeadTypes, d(p.HeadRadius), p.HeadRadius).
		ParticleTypes(TrackTypes(), d(p.TubulinRadius), p.TubulinRadius).
		TopologyTypes(TopologyTypes()...).
		Mobile(TopKinesin).
		Potentials(pots).
		Reactions(reg).
		Sample(samples...).
		Build()
}

func (m *Model) samples() ([]topology.View, error) {
	var ids topology.IDs
	g := m.Generator(&ids, rand.New(rand.NewSource(1)))
	var out []topology.View
	track, err := g.Track(r3.Vec{}, r3.Vec{X: 1}, 7)
	if err != nil {
		return nil, errors.Wrap(err, "kinesin samples")
	}
	motor, err := g.Motor(r3.Vec{Y: 20})
	if err != nil {
		return nil, errors.Wrap(err, "kinesin samples")
	}
	out = append(out, track, motor)
	for _, d := range []struct {
		sites []int
		nucs  []string
	}{
		{[]int{1}, []string{Apo}},
		{[]int{1, 3}, []string{ATP, Apo}},
		{[]int{3, 5}, []string{Apo, ATP}},
	} {
		s, err := g.Docked(8, d.sites, d.nucs)
		if err != nil {
			return nil, errors.Wrap(err, "kinesin samples")
		}
		out = append(out, s)
	}
	return out, nil
}
