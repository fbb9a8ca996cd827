package microtubule

import (
	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/topology"
)

// Topology types.
const (
	TopMicrotubule = "Microtubule"
	TopGrowing     = "Microtubule#Growing"
	TopShrinking   = "Microtubule#Shrinking"
	TopFree        = "Tubulin-Free"
)

const (
	GTP = "GTP"
	GDP = "GDP"
)

const order = topology.Ascending

var (
	kinds       = []string{"A", "B"}
	nucleotides = []string{GTP, GDP}
	anyFlag     = []bool{false, true}
	without     = []bool{false}
	with        = []bool{true}
)

var failStates = []string{
	"Fail-Shrink-GTP", "Fail-Shrink-GDP",
	"Fail-Hydrolyze",
	"Fail-Attach-GTP", "Fail-Attach-GDP",
	"Fail-Detach-GTP", "Fail-Detach-GDP",
}

func TopologyTypes() []string {
	out := []string{TopMicrotubule, TopGrowing, TopShrinking, TopFree}
	for _, f := range failStates {
		out = append(out, TopMicrotubule+"#"+f)
	}
	return out
}

func opposite(kind string) string {
	if kind == "A" {
		return "B"
	}
	return "A"
}

// kindAt is the tubulin kind of a lattice ring: A on even rings.
func kindAt(ring int) string {
	return kinds[((ring%2)+2)%2]
}

func tubulinType(kind, nuc string, bent, end bool, numbers ...int) string {
	flags := []string{nuc}
	if bent {
		flags = append(flags, "bent")
	}
	if end {
		flags = append(flags, "end")
	}
	return topology.ParticleType{Base: "tubulin" + kind, Flags: flags, Numbers: numbers}.Format(order)
}

// FreeType is a tubulin diffusing in solution.
func FreeType(kind, nuc string) string {
	return topology.ParticleType{Base: "tubulin" + kind, Flags: []string{nuc, "free"}}.Format(order)
}

// NewType is a tubulin bonded to a plus end and not yet placed.
func NewType(kind, nuc string) string {
	return topology.ParticleType{Base: "tubulin" + kind, Flags: []string{nuc, "new"}}.Format(order)
}

// prefixes lists the lattice type prefixes ("tubulinA#GTP_bent_") of kind
// for every combination of the given flag states.
func prefixes(kind string, bent, end []bool) []string {
	var out []string
	for _, nuc := range nucleotides {
		for _, b := range bent {
			for _, e := range end {
				out = append(out, tubulinType(kind, nuc, b, e)+"_")
			}
		}
	}
	return out
}

func numbered(ps []string) []string {
	var out []string
	for _, p := range ps {
		out = append(out, polymer.AllNumbers2D(p)...)
	}
	return out
}

// LatticeTypes lists every numbered tubulin type.
func LatticeTypes() []string {
	var out []string
	for _, k := range kinds {
		out = append(out, numbered(prefixes(k, anyFlag, anyFlag))...)
	}
	return out
}

// SolubleTypes lists the free and pending tubulin types.
func SolubleTypes() []string {
	var out []string
	for _, k := range kinds {
		for _, nuc := range nucleotides {
			out = append(out, FreeType(k, nuc), NewType(k, nuc))
		}
	}
	return out
}

func freeTypes() []string {
	var out []string
	for _, k := range kinds {
		for _, nuc := range nucleotides {
			out = append(out, FreeType(k, nuc))
		}
	}
	return out
}

// tubulin is a parsed lattice tubulin.
type tubulin struct {
	kind   string
	nuc    string
	bent   bool
	end    bool
	n1, n2 int
}

// parseTubulin reports whether typ is a numbered lattice tubulin.
func parseTubulin(typ string) (tubulin, bool) {
	p := topology.ParseType(typ)
	if (p.Base != "tubulinA" && p.Base != "tubulinB") || len(p.Numbers) != 2 {
		return tubulin{}, false
	}
	t := tubulin{kind: p.Base[len("tubulin"):], bent: p.Has("bent"), end: p.Has("end"), n1: p.Numbers[0], n2: p.Numbers[1]}
	switch {
	case p.Has(GTP):
		t.nuc = GTP
	case p.Has(GDP):
		t.nuc = GDP
	default:
		return tubulin{}, false
	}
	return t, true
}

func (t tubulin) String() string {
	return tubulinType(t.kind, t.nuc, t.bent, t.end, t.n1, t.n2)
}

// lattice matches lattice tubulins accepted by pred.
func lattice(pred func(tubulin) bool) topology.Matcher {
	return topology.MatchFunc(func(typ string) bool {
		t, ok := parseTubulin(typ)
		return ok && pred(t)
	})
}

var (
	anyLattice = lattice(func(tubulin) bool { return true })
	newTubulin = topology.MatchFunc(func(typ string) bool {
		p := topology.ParseType(typ)
		return p.Has("new") && (p.Base == "tubulinA" || p.Base == "tubulinB")
	})
)
