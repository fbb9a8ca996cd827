package microtubule

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/topology"
)

func TestSystemBuilds(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*Params)
	}{
		{"default", func(*Params) {}},
		{"periodic", func(p *Params) { p.PeriodicBoundary = true }},
		{"record failures", func(p *Params) { p.RecordFailures = true }},
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
			if sys.Order != topology.Ascending {
				t.Errorf("order = %v", sys.Order)
			}
			for _, typ := range []string{"tubulinB#GTP_bent_end_3_3", "tubulinA#GDP_free", "tubulinB#GTP_new"} {
				if _, ok := sys.ParticleType(typ); !ok {
					t.Errorf("%s not registered", typ)
				}
			}
		})
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*Params)
	}{
		{"negative rate", func(p *Params) { p.HydrolyzeRate = -1 }},
		{"zero radius", func(p *Params) { p.TubulinRadius = 0 }},
		{"too many filaments", func(p *Params) { p.SeedFilaments = Protofilaments + 1 }},
		{"all rings frayed", func(p *Params) { p.SeedFrayedRings = p.SeedRings }},
		{"right angle fray", func(p *Params) { p.FrayAngle = math.Pi / 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.adjust(&p)
			if _, err := New(p); !errors.Is(err, ErrBadParams) {
				t.Errorf("err = %v, want ErrBadParams", err)
			}
		})
	}
}

func TestTypeNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{tubulinType("A", GTP, true, false, 3, 2), "tubulinA#GTP_bent_3_2"},
		{tubulinType("B", GDP, true, true, 1, 1), "tubulinB#GDP_bent_end_1_1"},
		{FreeType("A", GTP), "tubulinA#GTP_free"},
		{NewType("B", GDP), "tubulinB#GDP_new"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
	tb, ok := parseTubulin("tubulinB#GDP_bent_end_2_3")
	if !ok || tb != (tubulin{kind: "B", nuc: GDP, bent: true, end: true, n1: 2, n2: 3}) {
		t.Errorf("parse = %+v, %v", tb, ok)
	}
	if _, ok := parseTubulin("tubulinA#GTP_free"); ok {
		t.Error("free tubulin parsed as lattice tubulin")
	}
	if n := len(LatticeTypes()); n != 2*8*9 {
		t.Errorf("%d lattice types", n)
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
	p := DefaultParams()

	bonds := []struct {
		a, b   string
		length float64
	}{
		{"tubulinA#GDP_1_1", "tubulinB#GDP_2_1", Spacing},
		{"tubulinA#GTP_end_3_2", "tubulinB#GTP_bent_end_1_3", Spacing},
		{"tubulinB#GDP_1_2", "tubulinA#GTP_new", Spacing},
		{"tubulinA#GDP_1_1", "tubulinA#GDP_1_2", LateralDistance()},
		{"tubulinB#GTP_end_2_3", "tubulinB#GDP_2_1", LateralDistance()},
	}
	for _, b := range bonds {
		got, ok := c.Bond(b.a, b.b)
		if !ok {
			t.Errorf("no bond %s--%s", b.a, b.b)
			continue
		}
		if math.Abs(got.Length-b.length) > 1e-9 || got.ForceConstant != p.ForceConstant {
			t.Errorf("bond %s--%s = %+v", b.a, b.b, got)
		}
	}
	if _, ok := c.Bond("tubulinA#GDP_bent_1_1", "tubulinA#GDP_1_2"); ok {
		t.Error("bent tubulin has a ring bond")
	}
	if _, ok := c.Bond("tubulinA#GDP_1_1", "tubulinB#GDP_3_1"); ok {
		t.Error("bond skips a ring")
	}

	if a, ok := c.Angle("tubulinB#GDP_3_3", "tubulinA#GDP_1_1", "tubulinB#GDP_2_1"); !ok || math.Abs(a.Theta-math.Pi) > 1e-9 {
		t.Errorf("straight angle = %+v, %v", a, ok)
	}
	if a, ok := c.Angle("tubulinB#GDP_3_3", "tubulinA#GDP_bent_1_1", "tubulinB#GDP_2_1"); !ok || math.Abs(a.Theta-(math.Pi-p.FrayAngle)) > 1e-9 {
		t.Errorf("frayed angle = %+v, %v", a, ok)
	}
	ring := idealAngle([2]int{0, -1}, [2]int{0, 0}, [2]int{0, 1})
	if math.Abs(ring-(math.Pi-2*math.Pi/Protofilaments)) > 0.05 {
		t.Errorf("ring angle %g", ring)
	}
	if a, ok := c.Angle("tubulinA#GDP_1_3", "tubulinA#GDP_1_1", "tubulinA#GDP_1_2"); !ok || math.Abs(a.Theta-ring) > 1e-9 {
		t.Errorf("ring angle = %+v, %v", a, ok)
	}
	cross := idealAngle([2]int{0, 1}, [2]int{0, 0}, [2]int{1, 0})
	if math.Abs(cross-math.Pi/2) > 0.25 {
		t.Errorf("cross angle %g", cross)
	}
	if a, ok := c.Angle("tubulinA#GDP_1_2", "tubulinA#GDP_1_1", "tubulinB#GDP_2_1"); !ok || math.Abs(a.Theta-cross) > 1e-9 {
		t.Errorf("cross angle = %+v, %v", a, ok)
	}
	if r, ok := c.Repulsion("tubulinA#GTP_free", "tubulinB#GDP_2_2"); !ok || r.Distance != 2*p.TubulinRadius {
		t.Errorf("repulsion = %+v, %v", r, ok)
	}
}

func TestProtofilaments(t *testing.T) {
	tests := []struct {
		name     string
		periodic bool
		box      float64
		origin   r3.Vec
	}{
		{"open box", false, 300, r3.Vec{}},
		{"across a periodic wall", true, 30, r3.Vec{X: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.PeriodicBoundary, p.BoxSize = tt.periodic, tt.box
			m, err := New(p)
			if err != nil {
				t.Fatal(err)
			}
			var ids topology.IDs
			g, err := m.Generator(&ids, rand.New(rand.NewSource(1))).Patch(Patch{Rings: 4, Filaments: 3, Origin: tt.origin})
			if err != nil {
				t.Fatal(err)
			}
			fibers, sites, err := m.Protofilaments(g)
			if err != nil {
				t.Fatal(err)
			}
			if len(fibers) != 3 {
				t.Fatalf("%d protofilaments", len(fibers))
			}
			for f, fb := range fibers {
				if fb.Len() != 4 || math.Abs(fb.Length()-3*Spacing) > 1e-9 {
					t.Errorf("protofilament %d: %d tubulins, length %g", f, fb.Len(), fb.Length())
				}
				for r, v := range fb.Vertices {
					if v != topology.VertexID(r*3+f) || sites[v] != (Site{Protofilament: f, Ring: r}) {
						t.Errorf("protofilament %d ring %d is vertex %d at %+v", f, r, v, sites[v])
					}
				}
			}
		})
	}
}

func TestInitialSeed(t *testing.T) {
	p := DefaultParams()
	p.BoxSize, p.TubulinConcentration = 100, 10
	m, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	var ids topology.IDs
	tops, err := m.Generator(&ids, rand.New(rand.NewSource(2))).Initial()
	if err != nil {
		t.Fatal(err)
	}
	seed := tops[0]
	if seed.Len() != p.SeedRings*p.SeedFilaments {
		t.Errorf("seed has %d tubulins", seed.Len())
	}
	if len(seed.Components()) != 1 {
		t.Error("seed lattice is not connected")
	}
	if got := len(tops) - 1; got != 6 {
		t.Errorf("%d free tubulins, want 6", got)
	}
	for _, g := range tops[1:] {
		if g.TopologyType() != TopFree {
			t.Errorf("free tubulin topology %s", g.TopologyType())
		}
	}
}
