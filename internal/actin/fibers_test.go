package actin

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/fiber"
	"github.com/san-kum/fibersim/internal/topology"
)

func TestFibersUnwrapPeriodicWalls(t *testing.T) {
	p := DefaultParams()
	p.BoxSize = 50
	p.PeriodicBoundary = true
	m, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	var ids topology.IDs
	g, err := m.Generator(&ids, rand.New(rand.NewSource(2))).LinearFiber(r3.Vec{X: 15}, r3.Vec{X: 1}, 10, false)
	if err != nil {
		t.Fatal(err)
	}
	fibers, err := m.Fibers(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(fibers) != 1 {
		t.Fatalf("%d fibers", len(fibers))
	}
	f := fibers[0]
	if want := 9 * BondLength(); math.Abs(f.Length()-want) > 1e-6 {
		t.Errorf("length = %g, want %g", f.Length(), want)
	}
	if f.MotherArp != fiber.NoVertex || len(f.BoundArps)+len(f.NucleatedArps) != 0 {
		t.Errorf("unexpected branch data on %+v", f)
	}
	if got := f.BarbedPoint().Position.X - f.PointedPoint().Position.X; math.Abs(got-9*helixRise) > 1e-6 {
		t.Errorf("axial extent = %g", got)
	}
}

func TestFibersOfBranch(t *testing.T) {
	m, err := New(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	var ids topology.IDs
	g, err := m.Generator(&ids, rand.New(rand.NewSource(4))).BranchedFiber(r3.Vec{}, r3.Vec{Y: 1}, 11, 6)
	if err != nil {
		t.Fatal(err)
	}
	fibers, err := m.Fibers(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(fibers) != 2 {
		t.Fatalf("%d fibers", len(fibers))
	}
	mother, daughter := fibers[0], fibers[1]
	if mother.Len() != 11 || daughter.Len() != 6 {
		t.Errorf("lengths %d/%d", mother.Len(), daughter.Len())
	}
	if len(mother.NucleatedArps) != 1 {
		t.Fatalf("nucleated arps = %+v", mother.NucleatedArps)
	}
	arp := mother.NucleatedArps[0]
	if arp.State != fiber.ArpNucleated || arp.DaughterFiber != daughter.ID || daughter.MotherArp != arp.ID {
		t.Errorf("arp record = %+v", arp)
	}
	if want := 5 * BondLength(); math.Abs(arp.DistanceFromMotherPointed-want) > 1e-6 {
		t.Errorf("arp distance = %g, want %g", arp.DistanceFromMotherPointed, want)
	}
	// daughter actins keep the ideal spacing past the third
	for i := 1; i < daughter.Len(); i++ {
		d := daughter.Points[i].ArcLength - daughter.Points[i-1].ArcLength
		if math.Abs(d-BondLength()) > 1e-6 {
			t.Errorf("daughter bond %d = %g", i, d)
		}
	}
}
