package topology

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func chain(t *testing.T, types ...string) *Graph {
	t.Helper()
	g := NewGraph("Test")
	for i, typ := range types {
		if err := g.AddVertex(VertexID(i), typ, r3.Vec{X: float64(i)}); err != nil {
			t.Fatalf("add vertex: %v", err)
		}
		if i > 0 {
			if err := g.AddEdge(VertexID(i-1), VertexID(i)); err != nil {
				t.Fatalf("add edge: %v", err)
			}
		}
	}
	return g
}

func TestParseAndFormatType(t *testing.T) {
	tests := []struct {
		name     string
		order    FlagOrder
		expected string
	}{
		{"actin#pointed_ATP_1", Descending, "actin#pointed_ATP_1"},
		{"actin#ATP_pointed_1", Descending, "actin#pointed_ATP_1"},
		{"actin#branch_barbed_ATP_1", Descending, "actin#branch_barbed_ATP_1"},
		{"actin#2", Descending, "actin#2"},
		{"arp2", Descending, "arp2"},
		{"tubulinA#bent_GTP_3_2", Ascending, "tubulinA#GTP_bent_3_2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseType(tt.name).Format(tt.order); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}

	p := ParseType("tubulinB#GDP_3_1")
	if p.Base != "tubulinB" || len(p.Numbers) != 2 || p.Numbers[0] != 3 || p.Numbers[1] != 1 {
		t.Errorf("unexpected parse: %+v", p)
	}
	if n, ok := Number("actin#ATP_2", 0); !ok || n != 2 {
		t.Errorf("expected number 2, got %d %v", n, ok)
	}
	if _, ok := Number("actin#free", 0); ok {
		t.Error("free actin has no number")
	}
}

func TestSetFlags(t *testing.T) {
	tests := []struct {
		from        string
		add, remove []string
		expected    string
	}{
		{"actin#new_ATP", []string{"barbed"}, []string{"new"}, "actin#barbed_ATP"},
		{"actin#barbed_ATP_2", nil, []string{"ATP"}, "actin#barbed_2"},
		{"actin#3", []string{"pointed"}, nil, "actin#pointed_3"},
		{"cap#new", []string{"bound"}, []string{"new"}, "cap#bound"},
		{"arp2#branched", nil, []string{"branched"}, "arp2"},
		{"actin#ATP_1", []string{"ATP"}, nil, "actin#ATP_1"},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			if got := SetFlags(tt.from, tt.add, tt.remove, Descending); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestGraphEdgesAndErrors(t *testing.T) {
	g := chain(t, "a", "b", "c")

	if err := g.AddEdge(0, 1); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("expected duplicate edge error, got %v", err)
	}
	if err := g.RemoveEdge(0, 2); !errors.Is(err, ErrMissingEdge) {
		t.Errorf("expected missing edge error, got %v", err)
	}
	if err := g.AddEdge(0, 9); !errors.Is(err, ErrUnknownVertex) {
		t.Errorf("expected unknown vertex error, got %v", err)
	}
	if err := g.AddVertex(1, "x", r3.Vec{}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected duplicate id error, got %v", err)
	}
	if len(g.Edges()) != 2 {
		t.Errorf("expected 2 edges, got %d", len(g.Edges()))
	}
}

func TestApplyIsAtomic(t *testing.T) {
	g := chain(t, "a", "b", "c")
	r := NewRecipe(g, Descending)
	r.ChangeType(0, "z").RemoveEdge(0, 2)

	if err := g.Apply(r); err == nil {
		t.Fatal("expected failure removing a missing edge")
	}
	if g.TypeOf(0) != "a" {
		t.Errorf("failed recipe must not leak edits, type is %s", g.TypeOf(0))
	}

	r = NewRecipe(g, Descending)
	r.RemoveEdge(1, 2).ChangeTopologyType("Split").ChangePosition(2, r3.Vec{Y: 3})
	if err := g.Apply(r); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if g.TopologyType() != "Split" || g.PositionOf(2).Y != 3 {
		t.Errorf("edits not applied: %s", String(g))
	}

	parts := g.Components()
	if len(parts) != 2 {
		t.Fatalf("expected 2 components, got %d", len(parts))
	}
	if parts[0].Len() != 2 || parts[1].Len() != 1 {
		t.Errorf("unexpected component sizes %d and %d", parts[0].Len(), parts[1].Len())
	}
}

func TestRecipeSeesPendingTypes(t *testing.T) {
	g := chain(t, "actin#new_ATP")
	r := NewRecipe(g, Descending)
	r.SetFlags(0, []string{"barbed"}, []string{"new"})
	r.Retype(0, func(p ParticleType) ParticleType { return p.WithNumbers(2) })

	if got := r.TypeOf(0); got != "actin#barbed_ATP_2" {
		t.Errorf("expected actin#barbed_ATP_2, got %s", got)
	}
	if g.TypeOf(0) != "actin#new_ATP" {
		t.Error("recipe must not mutate the view")
	}
}

func TestQueries(t *testing.T) {
	g := chain(t, "actin#pointed_1", "actin#2", "actin#ATP_3", "actin#barbed_1")
	_ = g.AddVertex(10, "arp3", r3.Vec{Y: 1})
	_ = g.AddEdge(2, 10)

	if id, ok := FindFirst(g, Prefix("actin#", "actin#pointed_1")); !ok || id != 1 {
		t.Errorf("expected vertex 1, got %d %v", id, ok)
	}
	if _, ok := FindFirst(g, Types("cap")); ok {
		t.Error("expected no cap")
	}
	if id, ok := NeighborOf(g, 2, Prefix("actin"), 1); !ok || id != 3 {
		t.Errorf("expected neighbor 3, got %d", id)
	}
	if _, ok := NeighborOf(g, 0, Types("arp2")); ok {
		t.Error("expected no arp2 neighbor")
	}
	if !AreBonded(g, 2, 10) || AreBonded(g, 0, 2) {
		t.Error("unexpected bonding")
	}
	path, ok := Chain(g, 0, Types("actin#2"), Types("actin#ATP_3"), Types("arp3"))
	if !ok || len(path) != 4 || path[3] != 10 {
		t.Errorf("expected chain to arp3, got %v", path)
	}
	if HasChain(g, 0, Types("actin#ATP_3")) {
		t.Error("chain should not skip vertices")
	}
	if id, ok := FindNearest(g, 0, Types("arp3")); !ok || id != 10 {
		t.Errorf("expected nearest arp3 10, got %d", id)
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		id, ok := FindRandom(g, Prefix("actin"), rng)
		if !ok || id > 3 {
			t.Fatalf("unexpected random vertex %d", id)
		}
	}
	if VertexString(g, 99) == "" || String(g) == "" {
		t.Error("expected diagnostics")
	}
}

func TestMerge(t *testing.T) {
	a := chain(t, "x")
	b := NewGraph("Other")
	_ = b.AddVertex(5, "y", r3.Vec{})

	m, err := Merge(a, b, "Both")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if m.Len() != 2 || m.TopologyType() != "Both" {
		t.Errorf("unexpected merge result: %s", String(m))
	}
	if _, err := Merge(a, a, "Dup"); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestIDsReserve(t *testing.T) {
	var ids IDs
	if got := ids.Next(); got != 0 {
		t.Fatalf("first id = %d", got)
	}
	g := chain(t, "a", "b", "c", "d", "e")
	ids.Reserve(g)
	if got := ids.Next(); got != 5 {
		t.Errorf("id after reserve = %d, want 5", got)
	}
}
