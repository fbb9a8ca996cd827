// Package potential holds the bonded and non-bonded potential declarations
// keyed by particle type tuples. Tuples are stored in canonical order so a
// reversed tuple finds the same entry.
package potential

import (
	"fmt"
	"math"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/polymer"
)

// Bond is a harmonic bond between two types.
type Bond struct {
	Types         [2]string
	ForceConstant float64
	Length        float64
}

// Angle is a harmonic angle; Theta is in radians.
type Angle struct {
	Types         [3]string
	ForceConstant float64
	Theta         float64
}

// Dihedral is a cosine dihedral with multiplicity 1; Phi is in radians.
type Dihedral struct {
	Types         [4]string
	ForceConstant float64
	Phi           float64
}

// Repulsion is a harmonic repulsion acting below Distance.
type Repulsion struct {
	Types         [2]string
	ForceConstant float64
	Distance      float64
}

type Catalog struct {
	bonds      *treemap.Map
	angles     *treemap.Map
	dihedrals  *treemap.Map
	repulsions *treemap.Map
	types      *treeset.Set
}

func NewCatalog() *Catalog {
	return &Catalog{
		bonds:      treemap.NewWithStringComparator(),
		angles:     treemap.NewWithStringComparator(),
		dihedrals:  treemap.NewWithStringComparator(),
		repulsions: treemap.NewWithStringComparator(),
		types:      treeset.NewWithStringComparator(),
	}
}

// key joins types in whichever direction sorts first.
func key(types ...string) string {
	fwd := strings.Join(types, "|")
	rev := make([]string, len(types))
	for i, t := range types {
		rev[len(types)-1-i] = t
	}
	if r := strings.Join(rev, "|"); r < fwd {
		return r
	}
	return fwd
}

func validate(k, x float64) error {
	if k < 0 || math.IsNaN(k) || math.IsInf(k, 0) || math.IsNaN(x) || math.IsInf(x, 0) {
		return errors.Wrapf(ErrBadParameter, "force constant %g, geometry %g", k, x)
	}
	return nil
}

func (c *Catalog) put(m *treemap.Map, k string, v interface{}, same func(interface{}) bool) error {
	if old, ok := m.Get(k); ok {
		if same(old) {
			return nil
		}
		return errors.Wrap(ErrConflictingPotential, k)
	}
	m.Put(k, v)
	for _, t := range strings.Split(k, "|") {
		c.types.Add(t)
	}
	return nil
}

func (c *Catalog) AddBond(a, b string, k, length float64) error {
	if err := validate(k, length); err != nil {
		return err
	}
	bond := Bond{Types: [2]string{a, b}, ForceConstant: k, Length: length}
	return c.put(c.bonds, key(a, b), bond, func(o interface{}) bool {
		ob := o.(Bond)
		return ob.ForceConstant == k && ob.Length == length
	})
}

func (c *Catalog) AddAngle(a, b, cc string, k, theta float64) error {
	if err := validate(k, theta); err != nil {
		return err
	}
	angle := Angle{Types: [3]string{a, b, cc}, ForceConstant: k, Theta: theta}
	return c.put(c.angles, key(a, b, cc), angle, func(o interface{}) bool {
		oa := o.(Angle)
		return oa.ForceConstant == k && oa.Theta == theta
	})
}

func (c *Catalog) AddDihedral(a, b, cc, d string, k, phi float64) error {
	if err := validate(k, phi); err != nil {
		return err
	}
	dih := Dihedral{Types: [4]string{a, b, cc, d}, ForceConstant: k, Phi: phi}
	return c.put(c.dihedrals, key(a, b, cc, d), dih, func(o interface{}) bool {
		od := o.(Dihedral)
		return od.ForceConstant == k && od.Phi == phi
	})
}

func (c *Catalog) AddRepulsion(a, b string, k, distance float64) error {
	if err := validate(k, distance); err != nil {
		return err
	}
	rep := Repulsion{Types: [2]string{a, b}, ForceConstant: k, Distance: distance}
	return c.put(c.repulsions, key(a, b), rep, func(o interface{}) bool {
		or := o.(Repulsion)
		return or.ForceConstant == k && or.Distance == distance
	})
}

// AddBonds registers a bond for every pair in as x bs.
func (c *Catalog) AddBonds(as, bs []string, k, length float64) error {
	for _, a := range as {
		for _, b := range bs {
			if err := c.AddBond(a, b, k, length); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Catalog) AddAngles(as, bs, cs []string, k, theta float64) error {
	for _, a := range as {
		for _, b := range bs {
			for _, cc := range cs {
				if err := c.AddAngle(a, b, cc, k, theta); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Catalog) AddDihedrals(as, bs, cs, ds []string, k, phi float64) error {
	for _, a := range as {
		for _, b := range bs {
			for _, cc := range cs {
				for _, d := range ds {
					if err := c.AddDihedral(a, b, cc, d, k, phi); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// AddRepulsions registers a repulsion for every unordered pair drawn from
// as x bs.
func (c *Catalog) AddRepulsions(as, bs []string, k, distance float64) error {
	for _, a := range as {
		for _, b := range bs {
			if err := c.AddRepulsion(a, b, k, distance); err != nil {
				return err
			}
		}
	}
	return nil
}

// Group is one participant of a polymer potential: type-name prefixes and
// the polymer offset appended to them. A nil Offset means the types carry
// no number.
type Group struct {
	Prefixes []string
	Offset   *int
}

// G builds a numbered group.
func G(offset int, prefixes ...string) Group {
	return Group{Prefixes: prefixes, Offset: polymer.At(offset)}
}

// Plain builds a group of unnumbered types.
func Plain(types ...string) Group {
	return Group{Prefixes: types}
}

func expand(g Group, base int) []string {
	return polymer.Expand1D(g.Prefixes, base, g.Offset)
}

func (c *Catalog) AddPolymerBond1D(a, b Group, k, length float64) error {
	for n := 1; n <= polymer.Period; n++ {
		if err := c.AddBonds(expand(a, n), expand(b, n), k, length); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) AddPolymerAngle1D(a, b, cc Group, k, theta float64) error {
	for n := 1; n <= polymer.Period; n++ {
		if err := c.AddAngles(expand(a, n), expand(b, n), expand(cc, n), k, theta); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) AddPolymerDihedral1D(a, b, cc, d Group, k, phi float64) error {
	for n := 1; n <= polymer.Period; n++ {
		if err := c.AddDihedrals(expand(a, n), expand(b, n), expand(cc, n), expand(d, n), k, phi); err != nil {
			return err
		}
	}
	return nil
}

// Group2D is the 2D analogue of Group.
type Group2D struct {
	Prefixes []string
	Offset   *polymer.Offset2D
}

func G2(x, y int, prefixes ...string) Group2D {
	return Group2D{Prefixes: prefixes, Offset: &polymer.Offset2D{X: x, Y: y}}
}

func (c *Catalog) AddPolymerBond2D(a, b Group2D, k, length float64) error {
	for x := 1; x <= polymer.Period; x++ {
		for y := 1; y <= polymer.Period; y++ {
			as := polymer.Expand2D(a.Prefixes, x, y, a.Offset)
			bs := polymer.Expand2D(b.Prefixes, x, y, b.Offset)
			if err := c.AddBonds(as, bs, k, length); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Catalog) AddPolymerAngle2D(a, b, cc Group2D, k, theta float64) error {
	for x := 1; x <= polymer.Period; x++ {
		for y := 1; y <= polymer.Period; y++ {
			as := polymer.Expand2D(a.Prefixes, x, y, a.Offset)
			bs := polymer.Expand2D(b.Prefixes, x, y, b.Offset)
			cs := polymer.Expand2D(cc.Prefixes, x, y, cc.Offset)
			if err := c.AddAngles(as, bs, cs, k, theta); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Catalog) Bond(a, b string) (Bond, bool) {
	v, ok := c.bonds.Get(key(a, b))
	if !ok {
		return Bond{}, false
	}
	return v.(Bond), true
}

func (c *Catalog) Angle(a, b, cc string) (Angle, bool) {
	v, ok := c.angles.Get(key(a, b, cc))
	if !ok {
		return Angle{}, false
	}
	return v.(Angle), true
}

func (c *Catalog) Dihedral(a, b, cc, d string) (Dihedral, bool) {
	v, ok := c.dihedrals.Get(key(a, b, cc, d))
	if !ok {
		return Dihedral{}, false
	}
	return v.(Dihedral), true
}

func (c *Catalog) Repulsion(a, b string) (Repulsion, bool) {
	v, ok := c.repulsions.Get(key(a, b))
	if !ok {
		return Repulsion{}, false
	}
	return v.(Repulsion), true
}

// Types lists every particle type referenced by any potential, sorted.
func (c *Catalog) Types() []string {
	out := make([]string, 0, c.types.Size())
	for _, v := range c.types.Values() {
		out = append(out, v.(string))
	}
	return out
}

func (c *Catalog) Bonds() []Bond {
	out := make([]Bond, 0, c.bonds.Size())
	for _, v := range c.bonds.Values() {
		out = append(out, v.(Bond))
	}
	return out
}

func (c *Catalog) Angles() []Angle {
	out := make([]Angle, 0, c.angles.Size())
	for _, v := range c.angles.Values() {
		out = append(out, v.(Angle))
	}
	return out
}

func (c *Catalog) Dihedrals() []Dihedral {
	out := make([]Dihedral, 0, c.dihedrals.Size())
	for _, v := range c.dihedrals.Values() {
		out = append(out, v.(Dihedral))
	}
	return out
}

func (c *Catalog) Repulsions() []Repulsion {
	out := make([]Repulsion, 0, c.repulsions.Size())
	for _, v := range c.repulsions.Values() {
		out = append(out, v.(Repulsion))
	}
	return out
}

func (c *Catalog) String() string {
	return fmt.Sprintf("%d bonds, %d angles, %d dihedrals, %d repulsions",
		c.bonds.Size(), c.angles.Size(), c.dihedrals.Size(), c.repulsions.Size())
}
