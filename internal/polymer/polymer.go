// Package polymer implements the periodic local numbering that lets a
// fixed set of particle types disambiguate bonded potentials along a
// filament of any length.
//
// Numbers live in [1, Period]. One-dimensional polymers (actin) number
// along the chain; two-dimensional polymers (microtubules) number along
// the protofilament and across protofilaments, with a helical carry: when
// the first number wraps, the second number shifts by one.
package polymer

import (
	"fmt"

	"github.com/pkg/errors"
)

// Period is the number of distinct polymer numbers per axis.
const Period = 3

var ErrOffsetOutOfRange = errors.New("polymer: number outside canonical range")

// Clamp maps any integer onto its canonical representative in [1, Period].
func Clamp(n int) int {
	return ((n-1)%Period+Period)%Period + 1
}

// Canonical reports whether n is already in [1, Period].
func Canonical(n int) bool {
	return n >= 1 && n <= Period
}

// Number returns the number offset steps away from n along a 1D chain.
func Number(n, offset int) int {
	return Clamp(n + offset)
}

// Offset2D is a relative position in a 2D lattice: X along the
// protofilament, Y across protofilaments.
type Offset2D struct {
	X, Y int
}

// ClampOffsets2D returns the offset to apply to the second number when
// moving off.X along the first axis from first number x. Crossing the
// upper bound of the first axis carries +1, crossing the lower bound -1.
func ClampOffsets2D(x int, off Offset2D) Offset2D {
	out := off
	switch {
	case x+off.X > Period:
		out.Y++
	case x+off.X < 1:
		out.Y--
	}
	return out
}

// Number2D returns the numbers off away from (x, y).
func Number2D(x, y int, off Offset2D) (int, int) {
	c := ClampOffsets2D(x, off)
	return Clamp(x + c.X), Clamp(y + c.Y)
}

// LatticeNumbers returns the canonical numbers of the tubulin at the given
// ring and protofilament index.
func LatticeNumbers(ring, filament int) (int, int) {
	return ring%Period + 1, (filament+ring/Period)%Period + 1
}

// Shift moves numbers along axis by delta (+1 or -1) with wraparound,
// applying the helical carry for 2D numbers.
func Shift(numbers []int, axis, delta int) ([]int, error) {
	if delta != 1 && delta != -1 {
		return nil, errors.Errorf("polymer: shift by %d, want +-1", delta)
	}
	if err := Validate(numbers); err != nil {
		return nil, err
	}
	out := append([]int(nil), numbers...)
	switch {
	case len(out) == 1 && axis == 0:
		out[0] = Number(out[0], delta)
	case len(out) == 2 && axis == 0:
		out[0], out[1] = Number2D(out[0], out[1], Offset2D{X: delta})
	case len(out) == 2 && axis == 1:
		out[0], out[1] = Number2D(out[0], out[1], Offset2D{Y: delta})
	default:
		return nil, errors.Errorf("polymer: axis %d out of range for %d numbers", axis, len(out))
	}
	return out, nil
}

// Validate fails with ErrOffsetOutOfRange if any number is not canonical.
func Validate(numbers []int) error {
	for i, n := range numbers {
		if !Canonical(n) {
			return errors.Wrapf(ErrOffsetOutOfRange, "axis %d has %d", i, n)
		}
	}
	return nil
}

// Suffix renders numbers as a type-name suffix ("_2" or "_3_1").
func Suffix(numbers ...int) string {
	s := ""
	for _, n := range numbers {
		s += fmt.Sprintf("_%d", n)
	}
	return s
}
