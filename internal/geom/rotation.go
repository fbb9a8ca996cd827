package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// RotationMatrix builds the right-handed rotation of angle radians about
// axis (Rodrigues' formula).
func RotationMatrix(axis r3.Vec, angle float64) (*mat.Dense, error) {
	u, err := Normalize(axis)
	if err != nil {
		return nil, ErrIllDefinedAxis
	}
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return mat.NewDense(3, 3, []float64{
		t*u.X*u.X + c, t*u.X*u.Y - s*u.Z, t*u.X*u.Z + s*u.Y,
		t*u.X*u.Y + s*u.Z, t*u.Y*u.Y + c, t*u.Y*u.Z - s*u.X,
		t*u.X*u.Z - s*u.Y, t*u.Y*u.Z + s*u.X, t*u.Z*u.Z + c,
	}), nil
}

// Rotate rotates v about axis by angle radians.
func Rotate(v, axis r3.Vec, angle float64) (r3.Vec, error) {
	m, err := RotationMatrix(axis, angle)
	if err != nil {
		return r3.Vec{}, err
	}
	return Apply(m, v), nil
}

// Apply multiplies a 3x3 matrix by v.
func Apply(m mat.Matrix, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// OrientationFromPositions returns the orthonormal frame of the middle
// point of p. Columns are: the unit vector toward p[0], the component of
// the direction toward p[2] orthogonal to it, and their cross product.
func OrientationFromPositions(p [3]r3.Vec) (*mat.Dense, error) {
	v1, err := Normalize(r3.Sub(p[0], p[1]))
	if err != nil {
		return nil, ErrIllDefinedAxis
	}
	toNext, err := Normalize(r3.Sub(p[2], p[1]))
	if err != nil {
		return nil, ErrIllDefinedAxis
	}
	v2, err := Normalize(r3.Sub(toNext, r3.Scale(r3.Dot(toNext, v1), v1)))
	if err != nil {
		return nil, ErrIllDefinedAxis
	}
	v3 := r3.Cross(v2, v1)
	return mat.NewDense(3, 3, []float64{
		v1.X, v2.X, v3.X,
		v1.Y, v2.Y, v3.Y,
		v1.Z, v2.Z, v3.Z,
	}), nil
}

// FrameRotation returns the rotation carrying the ideal frame onto the
// current one. Both frames are orthonormal so the inverse is the transpose.
func FrameRotation(current, ideal mat.Matrix) *mat.Dense {
	var r mat.Dense
	r.Mul(current, ideal.T())
	return &r
}

// PlaceFromFrame returns middle + R*offset where R rotates ideal onto the
// frame spanned by the three current positions.
func PlaceFromFrame(current [3]r3.Vec, ideal mat.Matrix, offset r3.Vec) (r3.Vec, error) {
	frame, err := OrientationFromPositions(current)
	if err != nil {
		return r3.Vec{}, err
	}
	pos := r3.Add(current[1], Apply(FrameRotation(frame, ideal), offset))
	if !IsFinite(pos) {
		return r3.Vec{}, ErrDegenerateVector
	}
	return pos, nil
}
