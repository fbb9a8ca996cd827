package actin

import (
	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/potential"
)

var (
	plain     = []string{"actin#", "actin#ATP_"}
	toPointed = []string{"actin#", "actin#ATP_", "actin#pointed_", "actin#pointed_ATP_"}
	toBarbed  = []string{"actin#", "actin#ATP_", "actin#barbed_", "actin#barbed_ATP_"}
	allEnds   = []string{"actin#", "actin#ATP_", "actin#pointed_", "actin#pointed_ATP_", "actin#barbed_", "actin#barbed_ATP_"}

	branch1    = []string{"actin#branch_1", "actin#branch_ATP_1"}
	branchAll  = []string{"actin#branch_1", "actin#branch_ATP_1", "actin#branch_barbed_1", "actin#branch_barbed_ATP_1"}
	daughter2  = []string{"actin#2", "actin#ATP_2"}
	daughter2b = []string{"actin#2", "actin#ATP_2", "actin#barbed_2", "actin#barbed_ATP_2"}
	daughter3  = []string{"actin#3", "actin#ATP_3"}
	daughter3b = []string{"actin#3", "actin#ATP_3", "actin#barbed_3", "actin#barbed_ATP_3"}
	newActins  = []string{NewActin, NewActinATP}

	arp2s      = []string{Arp2, Arp2Branched}
	arp3sBound = []string{Arp3, Arp3ATP}
	arp3sAll   = []string{Arp3, Arp3ATP, Arp3New, Arp3NewATP}
	branched   = []string{Arp2Branched}
)

// Potentials declares every bonded and repulsive potential of the actin
// model, measured from the ideal filament and branch geometry.
func (m *Model) Potentials() (*potential.Catalog, error) {
	c := potential.NewCatalog()
	fc := m.p.ForceConstant
	steps := []func(*potential.Catalog, float64) error{addActinBonds, addBranchBonds, addCapBonds}
	if m.p.AnglePotentials {
		steps = append(steps, addFilamentAngles)
	}
	if m.p.DihedralPotentials {
		steps = append(steps, addFilamentDihedrals)
	}
	if !m.p.LinearOnly {
		steps = append(steps, addBranchAngles, addBranchDihedrals, addCapAngles, addCapDihedrals)
	}
	steps = append(steps, addRepulsions)
	for _, add := range steps {
		if err := add(c, fc); err != nil {
			return nil, errors.Wrap(err, "actin potentials")
		}
	}
	return c, nil
}

type adder func() error

func all(fs ...adder) error {
	for _, f := range fs {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}

func addActinBonds(c *potential.Catalog, k float64) error {
	d := BondLength()
	return all(
		func() error { return c.AddPolymerBond1D(potential.G(0, toPointed...), potential.G(1, toBarbed...), k, d) },
		func() error { return c.AddBonds(branch1, daughter2b, k, d) },
		// bonds that only exist while a growth reaction is pending
		func() error { return c.AddPolymerBond1D(potential.G(0, allEnds...), potential.Plain(newActins...), k, d) },
		func() error { return c.AddBonds(branchAll, newActins, k, d) },
	)
}

func addFilamentAngles(c *potential.Catalog, k float64) error {
	a := ActinAngle()
	return all(
		func() error {
			return c.AddPolymerAngle1D(potential.G(-1, toPointed...), potential.G(0, plain...), potential.G(1, toBarbed...), 2*k, a)
		},
		func() error { return c.AddAngles(branch1, daughter2, daughter3b, 2*k, a) },
	)
}

func addFilamentDihedrals(c *potential.Catalog, k float64) error {
	phi := ActinDihedral()
	return all(
		func() error {
			return c.AddPolymerDihedral1D(potential.G(-1, toPointed...), potential.G(0, plain...), potential.G(1, plain...), potential.G(2, toBarbed...), k, phi)
		},
		func() error {
			return c.AddDihedrals(branch1, daughter2, daughter3,
				[]string{"actin#1", "actin#ATP_1", "actin#barbed_1", "actin#barbed_ATP_1"}, k, phi)
		},
	)
}

func addBranchBonds(c *potential.Catalog, k float64) error {
	return all(
		func() error { return c.AddPolymerBond1D(potential.G(0, toPointed...), potential.Plain(arp2s...), k, arp2ToMother()) },
		func() error { return c.AddPolymerBond1D(potential.G(0, toBarbed...), potential.Plain(arp3sAll...), k, arp3ToMother()) },
		func() error { return c.AddBonds(arp2s, arp3sAll, k, arp2ToArp3()) },
		func() error { return c.AddBonds(branched, append(branchAll[:4:4], newActins...), k, arp2ToDaughter()) },
	)
}

func addBranchAngles(c *potential.Catalog, k float64) error {
	s := ideal
	m0, m1, m2, m3 := s.mother[0], s.mother[1], s.mother[2], s.mother[3]
	k *= 2
	return all(
		func() error { return c.AddAngles(arp3sBound, branched, branchAll, k, angle(s.arp3, s.arp2, s.daughter[0])) },
		func() error {
			return c.AddPolymerAngle1D(potential.Plain(arp2s...), potential.G(0, plain...), potential.G(1, toBarbed...), k, angle(s.arp2, m1, m2))
		},
		func() error {
			return c.AddPolymerAngle1D(potential.G(0, toPointed...), potential.G(1, plain...), potential.Plain(arp3sBound...), k, angle(m1, m2, s.arp3))
		},
		func() error { return c.AddAngles(branch1, daughter2, arp3sBound, k, angle(m1, m2, s.arp3)) },
		func() error {
			return c.AddPolymerAngle1D(potential.G(1, toBarbed...), potential.G(0, toPointed...), potential.Plain(arp3sBound...), k, angle(m3, m2, s.arp3))
		},
		func() error {
			return c.AddPolymerAngle1D(potential.G(0, toPointed...), potential.G(1, plain...), potential.Plain(arp2s...), k, angle(m0, m1, s.arp2))
		},
		func() error { return c.AddAngles(branch1, daughter2, arp2s, k, angle(m0, m1, s.arp2)) },
	)
}

func addBranchDihedrals(c *potential.Catalog, k float64) error {
	s := ideal
	mm, m0, m1, m2, m3, m4 := s.mother[-1], s.mother[0], s.mother[1], s.mother[2], s.mother[3], s.mother[4]
	d0, d1, d2 := s.daughter[0], s.daughter[1], s.daughter[2]
	motherToArp2 := dihedral(mm, m0, m1, s.arp2)
	arpRing := dihedral(m1, m2, s.arp3, s.arp2)
	arpBridge := dihedral(s.arp2, m1, m2, s.arp3)
	motherToDaughter := dihedral(m0, m1, s.arp2, d0)
	anyMother := join(nums("actin#", "actin#ATP_", "actin#pointed_", "actin#pointed_ATP_"), branch1)
	return all(
		// mother to arp
		func() error {
			return c.AddPolymerDihedral1D(potential.G(1, toBarbed...), potential.G(0, plain...), potential.G(-1, plain...), potential.Plain(arp3sBound...), k, dihedral(m4, m3, m2, s.arp3))
		},
		func() error {
			return c.AddPolymerDihedral1D(potential.G(-1, toPointed...), potential.G(0, plain...), potential.G(1, plain...), potential.Plain(arp2s...), k, motherToArp2)
		},
		func() error { return c.AddDihedrals(branch1, daughter2, daughter3, arp2s, k, motherToArp2) },
		func() error {
			return c.AddPolymerDihedral1D(potential.G(1, toBarbed...), potential.G(0, plain...), potential.Plain(arp3sBound...), potential.Plain(arp2s...), k, dihedral(m3, m2, s.arp3, s.arp2))
		},
		// arp ring
		func() error {
			return c.AddPolymerDihedral1D(potential.G(0, toPointed...), potential.G(1, plain...), potential.Plain(arp3sBound...), potential.Plain(arp2s...), k, arpRing)
		},
		func() error { return c.AddDihedrals(branch1, daughter2, arp3sBound, arp2s, k, arpRing) },
		func() error {
			return c.AddPolymerDihedral1D(potential.Plain(arp2s...), potential.G(0, toPointed...), potential.G(1, toBarbed...), potential.Plain(arp3sBound...), k, arpBridge)
		},
		func() error { return c.AddDihedrals(arp2s, branch1, daughter2b, arp3sBound, k, arpBridge) },
		// arp to daughter
		func() error { return c.AddDihedrals(arp3sBound, branched, branch1, daughter2b, k, dihedral(s.arp3, s.arp2, d0, d1)) },
		func() error { return c.AddDihedrals(branched, branch1, daughter2, daughter3b, k, dihedral(s.arp2, d0, d1, d2)) },
		// mother to daughter
		func() error {
			return c.AddPolymerDihedral1D(potential.G(-1, toPointed...), potential.G(0, plain...), potential.Plain(branched...), potential.Plain(branchAll...), k, motherToDaughter)
		},
		func() error { return c.AddDihedrals(branch1, daughter2, branched, branchAll, k, motherToDaughter) },
		func() error {
			return c.AddPolymerDihedral1D(potential.G(0, toBarbed...), potential.Plain(arp3sBound...), potential.Plain(branched...), potential.Plain(branchAll...), k, dihedral(m2, s.arp3, s.arp2, d0))
		},
		func() error { return c.AddDihedrals(anyMother, branched, branch1, daughter2b, k, dihedral(m1, s.arp2, d0, d1)) },
	)
}

func addCapBonds(c *potential.Catalog, k float64) error {
	return c.AddPolymerBond1D(potential.G(0, plain...), potential.Plain(CapBound, CapNew), k, BondLength()+capGap)
}

func addCapAngles(c *potential.Catalog, k float64) error {
	a := ActinAngle()
	return all(
		func() error {
			return c.AddPolymerAngle1D(potential.G(0, toPointed...), potential.G(1, plain...), potential.Plain(CapBound), 2*k, a)
		},
		func() error { return c.AddAngles(branch1, daughter2, []string{CapBound}, 2*k, a) },
	)
}

func addCapDihedrals(c *potential.Catalog, k float64) error {
	phi := ActinDihedral()
	s := ideal
	return all(
		func() error {
			return c.AddPolymerDihedral1D(potential.G(-1, toPointed...), potential.G(0, plain...), potential.G(1, plain...), potential.Plain(CapBound), k, phi)
		},
		func() error { return c.AddDihedrals(branch1, daughter2, daughter3, []string{CapBound}, k, phi) },
		func() error {
			return c.AddDihedrals(arp3sBound, branched, branch1, []string{CapBound}, k, dihedral(s.arp3, s.arp2, s.daughter[0], s.daughter[1]))
		},
	)
}

// repelled are the types that take part in excluded volume.
var repelled = join(
	pointedTypes, plainTypes, branchActins, branchBarbedActins, barbedTypes,
	[]string{Arp2, Arp2Branched, Arp3, Arp3ATP, CapFree, CapBound, FreeActin, FreeActinATP},
)

func addRepulsions(c *potential.Catalog, k float64) error {
	if err := c.AddRepulsions(repelled, repelled, k, repulsionDistance); err != nil {
		return err
	}
	return c.AddRepulsions([]string{Obstacle}, repelled, k, repulsionDistance)
}
