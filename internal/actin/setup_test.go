package actin

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/topology"
)

func TestSystemBuilds(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*Params)
	}{
		{"default", func(*Params) {}},
		{"linear only", func(p *Params) { p.LinearOnly = true }},
		{"no twist", func(p *Params) { p.AnglePotentials, p.DihedralPotentials = false, false }},
		{"periodic", func(p *Params) { p.PeriodicBoundary = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.adjust(&p)
			m, err := New(p)
			if err != nil {
				t.Fatal(err)
			}
			sys, err := m.System()
			if err != nil {
				t.Fatalf("system: %v", err)
			}
			if sys.Model != Name || sys.Order != topology.Descending {
				t.Errorf("system = %s", sys)
			}
			if _, ok := sys.ParticleType("actin#branch_barbed_ATP_1"); !ok {
				t.Error("branch barbed type not registered")
			}
		})
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.BarbedGrowthATPRate = -1
	if _, err := New(p); !errors.Is(err, ErrBadParams) {
		t.Errorf("err = %v, want ErrBadParams", err)
	}
	p = DefaultParams()
	p.SeedFibers, p.SeedFiberLength = 2, 1
	if _, err := New(p); !errors.Is(err, ErrBadParams) {
		t.Errorf("err = %v, want ErrBadParams", err)
	}
	p = DefaultParams()
	p.SeedFibers, p.SeedFiberLength, p.BoxSize = 1, 100, 150
	if _, err := New(p); !errors.Is(err, ErrBadParams) {
		t.Errorf("fiber longer than the box: err = %v, want ErrBadParams", err)
	}
}

func TestPotentialGeometry(t *testing.T) {
	m, err := New(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	c, err := m.Potentials()
	if err != nil {
		t.Fatal(err)
	}
	fc := DefaultParams().ForceConstant

	bonds := []struct {
		a, b   string
		length float64
	}{
		{"actin#pointed_1", "actin#2", BondLength()},
		{"actin#3", "actin#barbed_ATP_1", BondLength()},
		{"actin#branch_1", "actin#barbed_2", BondLength()},
		{"actin#ATP_2", "actin#new_ATP", BondLength()},
		{"arp2", "arp3#ATP", arp2ToArp3()},
		{"arp2#branched", "actin#branch_barbed_1", arp2ToDaughter()},
		{"actin#1", "cap#bound", BondLength() + capGap},
	}
	for _, b := range bonds {
		got, ok := c.Bond(b.a, b.b)
		if !ok {
			t.Errorf("no bond %s--%s", b.a, b.b)
			continue
		}
		if math.Abs(got.Length-b.length) > 1e-9 || got.ForceConstant != fc {
			t.Errorf("bond %s--%s = %+v", b.a, b.b, got)
		}
	}

	if a, ok := c.Angle("actin#3", "actin#2", "actin#1"); !ok || a.ForceConstant != 2*fc || math.Abs(a.Theta-ActinAngle()) > 1e-9 {
		t.Errorf("filament angle = %+v, %v", a, ok)
	}
	if d, ok := c.Dihedral("actin#pointed_1", "actin#2", "actin#3", "actin#1"); !ok || math.Abs(d.Phi-ActinDihedral()) > 1e-9 {
		t.Errorf("filament dihedral = %+v, %v", d, ok)
	}
	if _, ok := c.Repulsion("obstacle", "actin#free_ATP"); !ok {
		t.Error("obstacle does not repel free actin")
	}
	if _, ok := c.Bond("actin#pointed_1", "actin#3"); ok {
		t.Error("bond between non-consecutive numbers")
	}
}

func TestLinearOnlySkipsBranchAngles(t *testing.T) {
	p := DefaultParams()
	p.LinearOnly = true
	m, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	c, err := m.Potentials()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Angle("arp3", "arp2#branched", "actin#branch_1"); ok {
		t.Error("branch angle present with only_linear_actin_constraints")
	}
	if _, ok := c.Bond("arp2", "arp3"); !ok {
		t.Error("branch bonds must stay")
	}
}

func TestFilamentAngleCoverage(t *testing.T) {
	m, err := New(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	c, err := m.Potentials()
	if err != nil {
		t.Fatal(err)
	}
	var ids topology.IDs
	g, err := m.Generator(&ids, rand.New(rand.NewSource(3))).LinearFiber(r3.Vec{}, r3.Vec{Y: 1}, 10, true)
	if err != nil {
		t.Fatal(err)
	}
	if matched, total := c.AngleCoverage(g); matched != total || total != 8 {
		t.Errorf("angle coverage %d/%d", matched, total)
	}
}

func TestLinearFiber(t *testing.T) {
	m, err := New(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	var ids topology.IDs
	g, err := m.Generator(&ids, rand.New(rand.NewSource(1))).LinearFiber(r3.Vec{X: 10}, r3.Vec{Z: 2}, 7, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"actin#pointed_1", "actin#2", "actin#3", "actin#1", "actin#2", "actin#3", "actin#barbed_1"}
	vs := g.Vertices()
	for i, id := range vs {
		if got := g.TypeOf(id); got != want[i] {
			t.Errorf("type %d = %s, want %s", i, got, want[i])
		}
		if i == 0 {
			continue
		}
		if !topology.AreBonded(g, vs[i-1], id) {
			t.Errorf("%d and %d not bonded", i-1, i)
		}
		if d := geom.Distance(g.PositionOf(vs[i-1]), g.PositionOf(id)); math.Abs(d-BondLength()) > 1e-9 {
			t.Errorf("bond %d = %g", i, d)
		}
	}
	if g.TopologyType() != TopPolymer {
		t.Errorf("topology type = %s", g.TopologyType())
	}
	if _, err := m.Generator(&ids, rand.New(rand.NewSource(1))).LinearFiber(r3.Vec{}, r3.Vec{}, 4, true); !errors.Is(err, geom.ErrDegenerateVector) {
		t.Errorf("zero direction: err = %v", err)
	}
}

func TestInitialCounts(t *testing.T) {
	p := DefaultParams()
	p.BoxSize = 100
	p.ActinConcentration = 50
	p.ArpConcentration = 10
	p.CapConcentration = 5
	p.SeedFibers = 2
	p.SeedFiberLength = 30
	m, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	var ids topology.IDs
	tops, err := m.Generator(&ids, rand.New(rand.NewSource(5))).Initial()
	if err != nil {
		t.Fatal(err)
	}
	counts := make(map[string]int)
	for _, g := range tops {
		counts[g.TopologyType()]++
		for _, id := range g.Vertices() {
			if !m.Box().Contains(g.PositionOf(id)) {
				t.Fatalf("particle %s outside the box", topology.VertexString(g, id))
			}
		}
	}
	want := map[string]int{
		TopPolymer:  2,
		TopMonomer:  ParticleCount(50, 100),
		TopArpDimer: ParticleCount(10, 100),
		TopCap:      ParticleCount(5, 100),
	}
	for k, n := range want {
		if counts[k] != n {
			t.Errorf("%s: %d topologies, want %d", k, counts[k], n)
		}
	}
	if ParticleCount(50, 100) != 30 {
		t.Errorf("ParticleCount(50, 100) = %d", ParticleCount(50, 100))
	}
}

func TestDefaultsSeedFibers(t *testing.T) {
	p := DefaultParams()
	if p.SeedFibers == 0 {
		t.Fatal("default run starts without fibers")
	}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if n := ParticleCount(p.ActinConcentration, p.BoxSize); n > 2000 {
		t.Errorf("default run starts with %d free actins", n)
	}
}
