package microtubule

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
)

// Lattice geometry of a 13-protofilament, 3-start microtubule with its
// axis along +X, in nm.
const (
	Protofilaments = 13
	// Spacing separates tubulins along a protofilament.
	Spacing = 4.0
	// Radius is the distance of tubulin centers from the axis.
	Radius = 10.5
	// rise is the axial offset between neighboring protofilaments.
	rise = 3 * Spacing / Protofilaments
)

// idealPosition is the center of the tubulin at ring, filament of a
// microtubule whose first tubulin sits on the +Y side of the axis at the
// origin.
func idealPosition(ring, filament int) r3.Vec {
	theta := 2 * math.Pi * float64(filament) / Protofilaments
	return r3.Vec{
		X: float64(ring)*Spacing + float64(filament)*rise,
		Y: Radius * math.Cos(theta),
		Z: Radius * math.Sin(theta),
	}
}

// LateralDistance is the center distance of ring mates.
func LateralDistance() float64 {
	return geom.Distance(idealPosition(0, 0), idealPosition(0, 1))
}

// idealAngle is the angle at b between the ideal lattice sites a and c,
// each given as ring, filament.
func idealAngle(a, b, c [2]int) float64 {
	pb := idealPosition(b[0], b[1])
	theta, err := geom.AngleBetween(
		r3.Sub(idealPosition(a[0], a[1]), pb),
		r3.Sub(idealPosition(c[0], c[1]), pb),
	)
	if err != nil {
		panic(err) // lattice sites are distinct
	}
	return theta
}
