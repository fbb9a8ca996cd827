package geom

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the shortest vector length treated as non-degenerate.
const Epsilon = 1e-9

func Normalize(v r3.Vec) (r3.Vec, error) {
	n := r3.Norm(v)
	if n < Epsilon || math.IsNaN(n) || math.IsInf(n, 0) {
		return r3.Vec{}, ErrDegenerateVector
	}
	return r3.Scale(1/n, v), nil
}

// AngleBetween returns the angle between a and b in [0, pi].
func AngleBetween(a, b r3.Vec) (float64, error) {
	ua, err := Normalize(a)
	if err != nil {
		return 0, err
	}
	ub, err := Normalize(b)
	if err != nil {
		return 0, err
	}
	return math.Acos(clamp(r3.Dot(ua, ub), -1, 1)), nil
}

// DihedralAngle returns the signed torsion angle defined by four points.
func DihedralAngle(p0, p1, p2, p3 r3.Vec) (float64, error) {
	b0 := r3.Sub(p0, p1)
	b1, err := Normalize(r3.Sub(p2, p1))
	if err != nil {
		return 0, err
	}
	b2 := r3.Sub(p3, p2)
	v := r3.Sub(b0, r3.Scale(r3.Dot(b0, b1), b1))
	w := r3.Sub(b2, r3.Scale(r3.Dot(b2, b1), b1))
	if r3.Norm(v) < Epsilon || r3.Norm(w) < Epsilon {
		return 0, ErrIllDefinedAxis
	}
	x := r3.Dot(v, w)
	y := r3.Dot(r3.Cross(b1, v), w)
	return math.Atan2(y, x), nil
}

func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// RandomUnitVector samples a direction uniformly on the unit sphere.
func RandomUnitVector(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		if u, err := Normalize(v); err == nil {
			return u
		}
	}
}

// RandomPerpendicular samples a unit vector uniformly on the circle
// perpendicular to axis.
func RandomPerpendicular(axis r3.Vec, rng *rand.Rand) (r3.Vec, error) {
	a, err := Normalize(axis)
	if err != nil {
		return r3.Vec{}, ErrIllDefinedAxis
	}
	for {
		u := RandomUnitVector(rng)
		p := r3.Sub(u, r3.Scale(r3.Dot(u, a), a))
		if n, err := Normalize(p); err == nil {
			return n, nil
		}
	}
}

func IsFinite(v r3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
