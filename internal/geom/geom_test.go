package geom

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func near(a, b r3.Vec, eps float64) bool {
	return r3.Norm(r3.Sub(a, b)) < eps
}

func TestNormalize(t *testing.T) {
	u, err := Normalize(r3.Vec{X: 3, Y: 4})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if !near(u, r3.Vec{X: 0.6, Y: 0.8}, tol) {
		t.Errorf("expected (0.6, 0.8, 0), got %v", u)
	}

	tests := []struct {
		name string
		v    r3.Vec
	}{
		{"zero", r3.Vec{}},
		{"tiny", r3.Vec{X: 1e-12}},
		{"nan", r3.Vec{X: math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(tt.v); !errors.Is(err, ErrDegenerateVector) {
				t.Errorf("expected ErrDegenerateVector, got %v", err)
			}
		})
	}
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name     string
		a, b     r3.Vec
		expected float64
	}{
		{"parallel", r3.Vec{X: 1}, r3.Vec{X: 2}, 0},
		{"orthogonal", r3.Vec{X: 1}, r3.Vec{Y: 1}, math.Pi / 2},
		{"opposite", r3.Vec{X: 1}, r3.Vec{X: -1}, math.Pi},
		{"diagonal", r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AngleBetween(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-7 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}

	if _, err := AngleBetween(r3.Vec{}, r3.Vec{X: 1}); !errors.Is(err, ErrDegenerateVector) {
		t.Errorf("expected degenerate error, got %v", err)
	}
}

func TestRotateRightHanded(t *testing.T) {
	got, err := Rotate(r3.Vec{X: 1}, r3.Vec{Z: 1}, math.Pi/2)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if !near(got, r3.Vec{Y: 1}, 1e-12) {
		t.Errorf("expected +y, got %v", got)
	}

	if _, err := RotationMatrix(r3.Vec{}, 1); !errors.Is(err, ErrIllDefinedAxis) {
		t.Errorf("expected ErrIllDefinedAxis, got %v", err)
	}
}

func TestRandomVectors(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	axis := r3.Vec{X: 1, Y: 2, Z: 3}
	for i := 0; i < 200; i++ {
		u := RandomUnitVector(rng)
		if math.Abs(r3.Norm(u)-1) > tol {
			t.Fatalf("expected unit vector, got norm %f", r3.Norm(u))
		}
		p, err := RandomPerpendicular(axis, rng)
		if err != nil {
			t.Fatalf("perpendicular failed: %v", err)
		}
		if math.Abs(r3.Dot(p, axis)) > 1e-9 {
			t.Fatalf("expected perpendicular, dot = %g", r3.Dot(p, axis))
		}
	}
	if _, err := RandomPerpendicular(r3.Vec{}, rng); !errors.Is(err, ErrIllDefinedAxis) {
		t.Errorf("expected ErrIllDefinedAxis, got %v", err)
	}
}

func TestPlaceFromFrameIdentity(t *testing.T) {
	ideal := [3]r3.Vec{{X: -1}, {}, {X: 1, Y: 1}}
	frame, err := OrientationFromPositions(ideal)
	if err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	offset := r3.Vec{X: 2, Z: 1}

	got, err := PlaceFromFrame(ideal, frame, offset)
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if !near(got, offset, 1e-12) {
		t.Errorf("expected offset unchanged in ideal frame, got %v", got)
	}

	// translated and rotated copy of the ideal frame
	shift := r3.Vec{X: 10, Y: -3, Z: 5}
	var moved [3]r3.Vec
	for i, p := range ideal {
		q, _ := Rotate(p, r3.Vec{Z: 1}, math.Pi/2)
		moved[i] = r3.Add(q, shift)
	}
	got, err = PlaceFromFrame(moved, frame, offset)
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	want, _ := Rotate(offset, r3.Vec{Z: 1}, math.Pi/2)
	want = r3.Add(want, shift)
	if !near(got, want, 1e-9) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := OrientationFromPositions([3]r3.Vec{{X: 1}, {}, {X: 2}}); !errors.Is(err, ErrIllDefinedAxis) {
		t.Errorf("expected collinear points to fail, got %v", err)
	}
}

func TestBox(t *testing.T) {
	b := NewCubicBox(10, true)
	got := b.Wrap(r3.Vec{X: 6, Y: -7, Z: 1})
	if !near(got, r3.Vec{X: -4, Y: 3, Z: 1}, 1e-12) {
		t.Errorf("unexpected wrap: %v", got)
	}

	img := b.NearestImage(r3.Vec{X: 4.5}, r3.Vec{X: -4.5})
	if !near(img, r3.Vec{X: 5.5}, 1e-12) {
		t.Errorf("unexpected image: %v", img)
	}

	closed := NewCubicBox(10, false)
	if !near(closed.NearestImage(r3.Vec{X: 4.5}, r3.Vec{X: -4.5}), r3.Vec{X: -4.5}, 1e-12) {
		t.Error("non-periodic box should not shift images")
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		p := closed.RandomPoint(rng, 1)
		if math.Abs(p.X) > 4 || math.Abs(p.Y) > 4 || math.Abs(p.Z) > 4 {
			t.Fatalf("point outside margin: %v", p)
		}
		q := closed.RandomPointNear(rng, r3.Vec{X: 4.9}, 2)
		if !closed.Contains(q) {
			t.Fatalf("point outside box: %v", q)
		}
	}
}

func TestDihedralAngle(t *testing.T) {
	got, err := DihedralAngle(r3.Vec{X: 1}, r3.Vec{}, r3.Vec{Z: 1}, r3.Vec{Y: 1, Z: 1})
	if err != nil {
		t.Fatalf("dihedral failed: %v", err)
	}
	if math.Abs(math.Abs(got)-math.Pi/2) > 1e-9 {
		t.Errorf("expected +-pi/2, got %f", got)
	}
}

func TestGridFindsEveryNeighbor(t *testing.T) {
	tests := []struct {
		name     string
		periodic bool
		edge     float64
		radius   float64
	}{
		{"open box", false, 50, 4},
		{"periodic box", true, 50, 4},
		{"two cells per side", true, 10, 4},
		{"radius wider than box", false, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewCubicBox(tt.edge, tt.periodic)
			rng := rand.New(rand.NewSource(3))
			pts := make([]r3.Vec, 300)
			g := NewGrid(b, tt.radius)
			for i := range pts {
				pts[i] = b.RandomPoint(rng, 0)
				g.Insert(i, pts[i])
			}
			for i, p := range pts {
				found := make(map[int]int)
				g.Near(p, func(j int) { found[j]++ })
				for j, q := range pts {
					d := Distance(p, b.NearestImage(p, q))
					if d <= tt.radius && found[j] != 1 {
						t.Fatalf("point %d at distance %g from %d seen %d times", j, d, i, found[j])
					}
				}
			}
		})
	}
}
