package actin

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
)

// Ideal filament geometry. Monomers sit on a left-handed short-pitch helix
// around the z axis, the barbed end pointing toward +z.
const (
	helixRise   = 2.76                   // nm per monomer
	helixTwist  = -166.7 * math.Pi / 180 // rad per monomer
	helixRadius = 2.1                    // nm

	branchAngle   = 70 * math.Pi / 180
	arpReach      = 4.5 // nm from a mother actin to its arp
	daughterReach = 4.0 // axial nm from arp2 to the first daughter actin
	capGap        = 1.0 // extra nm between a barbed end and its cap
	arpDimerGap   = 4.0

	repulsionDistance = 4.0
)

// structure holds the ideal positions every placement is measured
// against. The local frame is that of mother actin 1, built from mothers
// 0, 1 and 2.
type structure struct {
	mother      map[int]r3.Vec
	arp2, arp3  r3.Vec
	daughter    [3]r3.Vec
	orientation *mat.Dense
}

var ideal = newStructure()

func helixPoint(k int, axis, e1, e2, origin r3.Vec) r3.Vec {
	phi := float64(k) * helixTwist
	p := r3.Add(origin, r3.Scale(float64(k)*helixRise, axis))
	p = r3.Add(p, r3.Scale(helixRadius*math.Cos(phi), e1))
	return r3.Add(p, r3.Scale(helixRadius*math.Sin(phi), e2))
}

func must(v float64, err error) float64 {
	if err != nil {
		panic(err)
	}
	return v
}

func mustVec(v r3.Vec, err error) r3.Vec {
	if err != nil {
		panic(err)
	}
	return v
}

func newStructure() *structure {
	s := &structure{mother: make(map[int]r3.Vec)}
	z, x, y := r3.Vec{Z: 1}, r3.Vec{X: 1}, r3.Vec{Y: 1}
	for k := -1; k <= 4; k++ {
		s.mother[k] = helixPoint(k, z, x, y, r3.Vec{})
	}
	mid := r3.Add(s.mother[1], s.mother[2])
	out := mustVec(geom.Normalize(r3.Vec{X: mid.X, Y: mid.Y}))
	s.arp2 = r3.Add(s.mother[1], r3.Scale(arpReach, out))
	s.arp3 = r3.Add(s.mother[2], r3.Scale(arpReach, out))

	dir := r3.Add(r3.Scale(math.Cos(branchAngle), z), r3.Scale(math.Sin(branchAngle), out))
	e1 := mustVec(geom.Normalize(r3.Sub(out, r3.Scale(r3.Dot(out, dir), dir))))
	e2 := r3.Cross(dir, e1)
	origin := r3.Add(s.arp2, r3.Scale(daughterReach-helixRise, dir))
	for k := 1; k <= 3; k++ {
		s.daughter[k-1] = helixPoint(k, dir, e1, e2, origin)
	}

	o, err := geom.OrientationFromPositions([3]r3.Vec{s.mother[0], s.mother[1], s.mother[2]})
	if err != nil {
		panic(err)
	}
	s.orientation = o
	return s
}

func (s *structure) offset(p r3.Vec) r3.Vec { return r3.Sub(p, s.mother[1]) }

// barbedOffset places mother 3 from the frame of mothers 0..2.
func (s *structure) barbedOffset() r3.Vec { return s.offset(s.mother[3]) }

// pointedOffset places mother -1 from the frame of mothers 0..2.
func (s *structure) pointedOffset() r3.Vec { return s.offset(s.mother[-1]) }

func (s *structure) arp2Offset() r3.Vec { return s.offset(s.arp2) }
func (s *structure) arp3Offset() r3.Vec { return s.offset(s.arp3) }

// branchOffset places the i-th daughter actin (0-based) from the frame of
// the mother actins bound to the arps.
func (s *structure) branchOffset(i int) r3.Vec { return s.offset(s.daughter[i]) }

func angle(a, b, c r3.Vec) float64 {
	return must(geom.AngleBetween(r3.Sub(a, b), r3.Sub(c, b)))
}

func dihedral(a, b, c, d r3.Vec) float64 {
	return must(geom.DihedralAngle(a, b, c, d))
}

// BondLength is the ideal actin to actin distance.
func BondLength() float64 { return geom.Distance(ideal.mother[0], ideal.mother[1]) }

func ActinAngle() float64 {
	return angle(ideal.mother[0], ideal.mother[1], ideal.mother[2])
}

func ActinDihedral() float64 {
	return dihedral(ideal.mother[0], ideal.mother[1], ideal.mother[2], ideal.mother[3])
}

func arp2ToMother() float64   { return geom.Distance(ideal.arp2, ideal.mother[1]) }
func arp3ToMother() float64   { return geom.Distance(ideal.arp3, ideal.mother[2]) }
func arp2ToArp3() float64     { return geom.Distance(ideal.arp2, ideal.arp3) }
func arp2ToDaughter() float64 { return geom.Distance(ideal.arp2, ideal.daughter[0]) }
