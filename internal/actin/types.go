package actin

import (
	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

// Topology types.
const (
	TopMonomer          = "Actin-Monomer"
	TopDimer            = "Actin-Dimer"
	TopTrimer           = "Actin-Trimer"
	TopTrimerGrowing    = "Actin-Trimer#Growing"
	TopPolymer          = "Actin-Polymer"
	TopGrowingPointed   = "Actin-Polymer#GrowingPointed"
	TopGrowingBarbed    = "Actin-Polymer#GrowingBarbed"
	TopShrinking        = "Actin-Polymer#Shrinking"
	TopBranching        = "Actin-Polymer#Branching"
	TopBranchNucleating = "Actin-Polymer#Branch-Nucleating"
	TopCapping          = "Actin-Polymer#Capping"
	TopArpDimer         = "Arp23-Dimer"
	TopCap              = "Cap"
	TopObstacle         = "Obstacle"
)

// Particle types without polymer numbers.
const (
	FreeActin    = "actin#free"
	FreeActinATP = "actin#free_ATP"
	NewActin     = "actin#new"
	NewActinATP  = "actin#new_ATP"
	Arp2         = "arp2"
	Arp2Branched = "arp2#branched"
	Arp3         = "arp3"
	Arp3ATP      = "arp3#ATP"
	Arp3New      = "arp3#new"
	Arp3NewATP   = "arp3#new_ATP"
	CapFree      = "cap"
	CapBound     = "cap#bound"
	CapNew       = "cap#new"
	Obstacle     = "obstacle"
)

const order = topology.Descending

func nums(prefixes ...string) []string {
	var out []string
	for _, p := range prefixes {
		out = append(out, polymer.AllNumbers(p)...)
	}
	return out
}

func join(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

var (
	branchActins       = []string{"actin#branch_1", "actin#branch_ATP_1"}
	branchBarbedActins = []string{"actin#branch_barbed_1", "actin#branch_barbed_ATP_1"}

	plainTypes   = nums("actin#", "actin#ATP_")
	pointedTypes = nums("actin#pointed_", "actin#pointed_ATP_")
	barbedTypes  = nums("actin#barbed_", "actin#barbed_ATP_")

	// FilamentTypes are all numbered actin types.
	FilamentTypes = join(plainTypes, pointedTypes, barbedTypes, branchActins, branchBarbedActins)
	ArpTypes      = []string{Arp2, Arp2Branched, Arp3, Arp3ATP, Arp3New, Arp3NewATP}
	CapTypes      = []string{CapFree, CapBound, CapNew}

	newActin      = topology.Types(NewActin, NewActinATP)
	plainActin    = topology.Types(plainTypes...)
	barbedEnd     = topology.Types(barbedTypes...)
	anyArp2       = topology.Types(Arp2, Arp2Branched)
	anyArp3       = topology.Types(Arp3, Arp3ATP, Arp3New, Arp3NewATP)
	boundArp3     = topology.Types(Arp3, Arp3ATP)
	branchFirst   = topology.Types(join(branchActins, branchBarbedActins)...)
	plainOrBranch = topology.Types(join(plainTypes, branchActins)...)
	anyCap        = topology.Types(CapTypes...)
	filament      = topology.Types(FilamentTypes...)
	anyActin      = topology.Prefix("actin#")

	// motherActin is a filament actin that is not the first of a branch.
	motherActin = topology.MatchFunc(func(t string) bool {
		return filament.Match(t) && !topology.HasFlag(t, "branch")
	})
)

// ParticleTypes lists every actin-model particle type.
func ParticleTypes() []string {
	return join(
		FilamentTypes,
		[]string{FreeActin, FreeActinATP, NewActin, NewActinATP},
		ArpTypes, CapTypes, []string{Obstacle},
	)
}

// TopologyTypes lists every actin-model topology type, failure sub-states
// included.
func TopologyTypes() []string {
	out := []string{
		TopMonomer, TopDimer, TopTrimer, TopTrimerGrowing, TopPolymer,
		TopGrowingPointed, TopGrowingBarbed, TopShrinking, TopBranching,
		TopBranchNucleating, TopCapping, TopArpDimer, TopCap, TopObstacle,
	}
	for _, f := range failStates {
		out = append(out, TopPolymer+"#"+f)
	}
	return out
}

var failStates = []string{
	"Fail-Pointed-Shrink-ATP", "Fail-Pointed-Shrink-ADP",
	"Fail-Barbed-Shrink-ATP", "Fail-Barbed-Shrink-ADP",
	"Fail-Hydrolysis-Actin", "Fail-Hydrolysis-Arp",
	"Fail-Branch-ATP", "Fail-Branch-ADP",
	"Fail-Arp-Unbind-ATP", "Fail-Arp-Unbind-ADP",
	"Fail-Debranch-ATP", "Fail-Debranch-ADP",
	"Fail-Cap-Unbind",
}

func nucleotide(atp bool) string {
	if atp {
		return "ATP"
	}
	return "ADP"
}

// number returns the polymer number of a filament actin shifted by offset.
func number(v topology.View, id topology.VertexID, offset int) (int, error) {
	t := v.TypeOf(id)
	n, ok := topology.Number(t, 0)
	if !ok || topology.Base(t) != "actin" {
		return 0, errors.Wrapf(reaction.ErrInvariant, "%s is not a filament actin", topology.VertexString(v, id))
	}
	return polymer.Number(n, offset), nil
}

func freeType(atp bool) string {
	if atp {
		return FreeActinATP
	}
	return FreeActin
}
