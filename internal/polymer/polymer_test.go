package polymer

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{1, 1}, {3, 3}, {4, 1}, {0, 3}, {-1, 2}, {-3, 3}, {7, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
		if got := Clamp(Clamp(tt.in)); got != tt.want {
			t.Errorf("Clamp not idempotent for %d", tt.in)
		}
	}
}

func TestNumberPreservesOrder(t *testing.T) {
	for n := 1; n <= Period; n++ {
		if Number(Number(n, 1), -1) != n {
			t.Errorf("stepping forward then back from %d does not return", n)
		}
		if Number(n, 1) == n {
			t.Errorf("Number(%d, 1) did not advance", n)
		}
	}
}

func TestNumber2DCarry(t *testing.T) {
	tests := []struct {
		x, y   int
		off    Offset2D
		wx, wy int
	}{
		{1, 1, Offset2D{X: 1}, 2, 1},
		{3, 1, Offset2D{X: 1}, 1, 2},
		{1, 1, Offset2D{X: -1}, 3, 3},
		{2, 3, Offset2D{Y: 1}, 2, 1},
		{3, 3, Offset2D{X: 1, Y: 1}, 1, 2},
	}
	for _, tt := range tests {
		gx, gy := Number2D(tt.x, tt.y, tt.off)
		if gx != tt.wx || gy != tt.wy {
			t.Errorf("Number2D(%d, %d, %+v) = (%d, %d), want (%d, %d)",
				tt.x, tt.y, tt.off, gx, gy, tt.wx, tt.wy)
		}
	}
}

func TestLatticeNumbersMatchCarry(t *testing.T) {
	for f := 0; f < 13; f++ {
		for r := 0; r < 8; r++ {
			x, y := LatticeNumbers(r, f)
			nx, ny := LatticeNumbers(r+1, f)
			sx, sy := Number2D(x, y, Offset2D{X: 1})
			if sx != nx || sy != ny {
				t.Fatalf("ring %d filament %d: step gives (%d,%d), lattice (%d,%d)",
					r, f, sx, sy, nx, ny)
			}
		}
	}
}

func TestShiftRoundTrip(t *testing.T) {
	cases := [][]int{{1}, {2}, {3}, {1, 1}, {3, 2}, {1, 3}}
	for _, nums := range cases {
		for axis := 0; axis < len(nums); axis++ {
			up, err := Shift(nums, axis, 1)
			if err != nil {
				t.Fatal(err)
			}
			back, err := Shift(up, axis, -1)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(back, nums) {
				t.Errorf("Shift round trip on %v axis %d = %v", nums, axis, back)
			}
		}
	}
}

func TestShiftRejectsBadInput(t *testing.T) {
	if _, err := Shift([]int{4}, 0, 1); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := Shift([]int{1}, 0, 2); err == nil {
		t.Error("expected error for delta 2")
	}
	if _, err := Shift([]int{1}, 1, 1); err == nil {
		t.Error("expected error for axis 1 on 1D numbers")
	}
}

func TestExpand(t *testing.T) {
	got := Expand1D([]string{"actin#", "actin#ATP_"}, 3, At(1))
	want := []string{"actin#1", "actin#ATP_1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand1D = %v, want %v", got, want)
	}
	if got := Expand1D([]string{"arp2"}, 2, nil); !reflect.DeepEqual(got, []string{"arp2"}) {
		t.Errorf("Expand1D with nil offset = %v", got)
	}
	got = Expand2D([]string{"tubulinA#"}, 3, 1, &Offset2D{X: 1})
	if !reflect.DeepEqual(got, []string{"tubulinA#1_2"}) {
		t.Errorf("Expand2D = %v", got)
	}
	if n := len(AllNumbers2D("t#")); n != 9 {
		t.Errorf("AllNumbers2D len = %d", n)
	}
}
