package microtubule

import (
	"math"

	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/potential"
)

// Potentials builds the lattice bonds and angles and the excluded volume
// between free and lattice tubulins.
func (m *Model) Potentials() (*potential.Catalog, error) {
	c := potential.NewCatalog()
	k := m.p.ForceConstant
	lateral := LateralDistance()
	for _, kind := range kinds {
		other := opposite(kind)
		all := prefixes(kind, anyFlag, anyFlag)
		allOther := prefixes(other, anyFlag, anyFlag)
		straight := prefixes(kind, without, anyFlag)
		bentMid := prefixes(kind, with, anyFlag)
		pending := []string{NewType(other, GTP), NewType(other, GDP)}

		steps := []struct {
			name string
			add  func() error
		}{
			{"protofilament bonds", func() error {
				return c.AddPolymerBond2D(potential.G2(0, 0, all...), potential.G2(1, 0, allOther...), k, Spacing)
			}},
			{"growth bonds", func() error {
				return c.AddPolymerBond2D(potential.G2(0, 0, all...), potential.Group2D{Prefixes: pending}, k, Spacing)
			}},
			{"ring bonds", func() error {
				return c.AddPolymerBond2D(potential.G2(0, 0, straight...), potential.G2(0, 1, straight...), k, lateral)
			}},
			{"protofilament angles", func() error {
				return c.AddPolymerAngle2D(potential.G2(-1, 0, allOther...), potential.G2(0, 0, straight...), potential.G2(1, 0, allOther...),
					2*k, idealAngle([2]int{-1, 0}, [2]int{0, 0}, [2]int{1, 0}))
			}},
			{"frayed angles", func() error {
				return c.AddPolymerAngle2D(potential.G2(-1, 0, allOther...), potential.G2(0, 0, bentMid...), potential.G2(1, 0, allOther...),
					2*k, math.Pi-m.p.FrayAngle)
			}},
			{"ring angles", func() error {
				return c.AddPolymerAngle2D(potential.G2(0, -1, straight...), potential.G2(0, 0, straight...), potential.G2(0, 1, straight...),
					2*k, idealAngle([2]int{0, -1}, [2]int{0, 0}, [2]int{0, 1}))
			}},
			{"cross angles", func() error {
				for _, dy := range []int{-1, 1} {
					for _, dx := range []int{-1, 1} {
						theta := idealAngle([2]int{0, dy}, [2]int{0, 0}, [2]int{dx, 0})
						if err := c.AddPolymerAngle2D(potential.G2(0, dy, straight...), potential.G2(0, 0, straight...), potential.G2(dx, 0, allOther...), 2*k, theta); err != nil {
							return err
						}
					}
				}
				return nil
			}},
		}
		for _, s := range steps {
			if err := s.add(); err != nil {
				return nil, errors.Wrapf(err, "microtubule %s of tubulin%s", s.name, kind)
			}
		}
	}
	free := freeTypes()
	if err := c.AddRepulsions(free, append(LatticeTypes(), free...), k, 2*m.p.TubulinRadius); err != nil {
		return nil, errors.Wrap(err, "microtubule repulsions")
	}
	return c, nil
}
