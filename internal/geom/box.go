package geom

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is an axis-aligned simulation volume centered on the origin.
type Box struct {
	Size     r3.Vec
	Periodic bool
}

func NewCubicBox(edge float64, periodic bool) Box {
	return Box{Size: r3.Vec{X: edge, Y: edge, Z: edge}, Periodic: periodic}
}

func (b Box) Contains(p r3.Vec) bool {
	return math.Abs(p.X) <= b.Size.X/2 && math.Abs(p.Y) <= b.Size.Y/2 && math.Abs(p.Z) <= b.Size.Z/2
}

// Wrap maps p back into the box when periodic and clamps it to the
// walls otherwise.
func (b Box) Wrap(p r3.Vec) r3.Vec {
	if b.Periodic {
		return r3.Vec{X: wrap(p.X, b.Size.X), Y: wrap(p.Y, b.Size.Y), Z: wrap(p.Z, b.Size.Z)}
	}
	return r3.Vec{
		X: clamp(p.X, -b.Size.X/2, b.Size.X/2),
		Y: clamp(p.Y, -b.Size.Y/2, b.Size.Y/2),
		Z: clamp(p.Z, -b.Size.Z/2, b.Size.Z/2),
	}
}

// NearestImage returns the periodic image of p closest to ref so that
// bonded neighbors straddling a wall still form a contiguous chain.
func (b Box) NearestImage(ref, p r3.Vec) r3.Vec {
	if !b.Periodic {
		return p
	}
	return r3.Vec{
		X: image(ref.X, p.X, b.Size.X),
		Y: image(ref.Y, p.Y, b.Size.Y),
		Z: image(ref.Z, p.Z, b.Size.Z),
	}
}

// RandomPoint samples uniformly inside the box shrunk by margin on every side.
func (b Box) RandomPoint(rng *rand.Rand, margin float64) r3.Vec {
	side := func(l float64) float64 {
		span := math.Max(l-2*margin, 0)
		return (rng.Float64() - 0.5) * span
	}
	return r3.Vec{X: side(b.Size.X), Y: side(b.Size.Y), Z: side(b.Size.Z)}
}

// RandomPointNear samples uniformly inside the sphere of radius around
// center, rejecting samples outside a non-periodic box.
func (b Box) RandomPointNear(rng *rand.Rand, center r3.Vec, radius float64) r3.Vec {
	for i := 0; i < 100; i++ {
		d := r3.Scale(radius*math.Cbrt(rng.Float64()), RandomUnitVector(rng))
		p := r3.Add(center, d)
		if b.Periodic {
			return b.Wrap(p)
		}
		if b.Contains(p) {
			return p
		}
	}
	return b.Wrap(center)
}

func wrap(x, l float64) float64 {
	if l <= 0 {
		return x
	}
	x = math.Mod(x+l/2, l)
	if x < 0 {
		x += l
	}
	return x - l/2
}

func image(ref, x, l float64) float64 {
	if l <= 0 {
		return x
	}
	d := x - ref
	return x - l*math.Round(d/l)
}
