package kinesin

import (
	"math"

	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/potential"
)

// Potentials builds the straight track, the motor necks, the head to site
// bonds and the excluded volume of unbound heads.
func (m *Model) Potentials() (*potential.Catalog, error) {
	c := potential.NewCatalog()
	p := m.p
	k := p.ForceConstant
	sites := []string{freePrefix, boundPrefix}
	unbound := []string{HeadADP, HeadApo, HeadATP}
	tubulins := TrackTypes()

	steps := []struct {
		name string
		add  func() error
	}{
		{"track bonds", func() error {
			if err := c.AddPolymerBond1D(potential.G(0, spacerPrefix), potential.G(1, sites...), k, Spacing); err != nil {
				return err
			}
			return c.AddPolymerBond1D(potential.G(0, sites...), potential.G(1, spacerPrefix), k, Spacing)
		}},
		{"track angles", func() error {
			if err := c.AddPolymerAngle1D(potential.G(-1, sites...), potential.G(0, spacerPrefix), potential.G(1, sites...), 2*k, math.Pi); err != nil {
				return err
			}
			return c.AddPolymerAngle1D(potential.G(-1, spacerPrefix), potential.G(0, sites...), potential.G(1, spacerPrefix), 2*k, math.Pi)
		}},
		{"necks", func() error {
			return c.AddBonds([]string{Hips}, HeadTypes, k, p.NeckLength)
		}},
		{"head bonds", func() error {
			return c.AddBonds(boundHeads, polymer.AllNumbers(boundPrefix), k, p.headSiteDistance())
		}},
		{"head repulsions", func() error {
			if err := c.AddRepulsions(HeadTypes, HeadTypes, k, 2*p.HeadRadius); err != nil {
				return err
			}
			return c.AddRepulsions(unbound, tubulins, k, p.headSiteDistance())
		}},
		{"hips repulsions", func() error {
			return c.AddRepulsions([]string{Hips}, tubulins, k, p.HipsRadius+p.TubulinRadius)
		}},
	}
	for _, s := range steps {
		if err := s.add(); err != nil {
			return nil, errors.Wrapf(err, "kinesin %s", s.name)
		}
	}
	return c, nil
}
