package actin

import (
	"fmt"

	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

const (
	Dimerize reaction.Kind = iota
	ReverseDimerize
	Trimerize
	FinishTrimerize
	ReverseTrimerize
	NucleateATP
	NucleateADP
	PointedGrowthATP
	PointedGrowthADP
	FinishPointedGrowth
	PointedShrinkATP
	PointedShrinkADP
	CleanupShrink
	BarbedGrowthATP
	BarbedGrowthADP
	FinishBarbedGrowth
	BarbedShrinkATP
	BarbedShrinkADP
	HydrolysisActin
	HydrolysisArp
	ExchangeActin
	ExchangeArp
	ArpBindATP
	ArpBindADP
	FinishArpBind
	CleanupFailArpBindATP
	CleanupFailArpBindADP
	ArpUnbindATP
	ArpUnbindADP
	BranchGrowthATP
	BranchGrowthADP
	NucleateBranch
	DebranchATP
	DebranchADP
	CapBind
	FinishCapBind
	CapUnbind
	FailPointedShrinkATP
	FailPointedShrinkADP
	FailBarbedShrinkATP
	FailBarbedShrinkADP
	FailHydrolysisActin
	FailHydrolysisArp
	FailArpUnbindATP
	FailArpUnbindADP
	FailDebranchATP
	FailDebranchADP
	FailCapUnbind
)

var kindNames = map[reaction.Kind]string{
	Dimerize:              "Dimerize",
	ReverseDimerize:       "Reverse_Dimerize",
	Trimerize:             "Trimerize",
	FinishTrimerize:       "Finish_Trimerize",
	ReverseTrimerize:      "Reverse_Trimerize",
	NucleateATP:           "Barbed_Growth_Nucleate_ATP",
	NucleateADP:           "Barbed_Growth_Nucleate_ADP",
	PointedGrowthATP:      "Pointed_Growth_ATP",
	PointedGrowthADP:      "Pointed_Growth_ADP",
	FinishPointedGrowth:   "Finish_Pointed_Growth",
	PointedShrinkATP:      "Pointed_Shrink_ATP",
	PointedShrinkADP:      "Pointed_Shrink_ADP",
	CleanupShrink:         "Cleanup_Shrink",
	BarbedGrowthATP:       "Barbed_Growth_ATP",
	BarbedGrowthADP:       "Barbed_Growth_ADP",
	FinishBarbedGrowth:    "Finish_Barbed_growth",
	BarbedShrinkATP:       "Barbed_Shrink_ATP",
	BarbedShrinkADP:       "Barbed_Shrink_ADP",
	HydrolysisActin:       "Hydrolysis_Actin",
	HydrolysisArp:         "Hydrolysis_Arp",
	ExchangeActin:         "Nucleotide_Exchange_Actin",
	ExchangeArp:           "Nucleotide_Exchange_Arp",
	ArpBindATP:            "Arp_Bind_ATP",
	ArpBindADP:            "Arp_Bind_ADP",
	FinishArpBind:         "Finish_Arp_Bind",
	CleanupFailArpBindATP: "Cleanup_Fail_Arp_Bind_ATP",
	CleanupFailArpBindADP: "Cleanup_Fail_Arp_Bind_ADP",
	ArpUnbindATP:          "Arp_Unbind_ATP",
	ArpUnbindADP:          "Arp_Unbind_ADP",
	BranchGrowthATP:       "Barbed_Growth_Branch_ATP",
	BranchGrowthADP:       "Barbed_Growth_Branch_ADP",
	NucleateBranch:        "Nucleate_Branch",
	DebranchATP:           "Debranch_ATP",
	DebranchADP:           "Debranch_ADP",
	CapBind:               "Cap_Bind",
	FinishCapBind:         "Finish_Cap-Bind",
	CapUnbind:             "Cap_Unbind",
	FailPointedShrinkATP:  "Fail_Pointed_Shrink_ATP",
	FailPointedShrinkADP:  "Fail_Pointed_Shrink_ADP",
	FailBarbedShrinkATP:   "Fail_Barbed_Shrink_ATP",
	FailBarbedShrinkADP:   "Fail_Barbed_Shrink_ADP",
	FailHydrolysisActin:   "Fail_Hydrolysis_Actin",
	FailHydrolysisArp:     "Fail_Hydrolysis_Arp",
	FailArpUnbindATP:      "Fail_Arp_Unbind_ATP",
	FailArpUnbindADP:      "Fail_Arp_Unbind_ADP",
	FailDebranchATP:       "Fail_Debranch_ATP",
	FailDebranchADP:       "Fail_Debranch_ADP",
	FailCapUnbind:         "Fail_Cap_Unbind",
}

// resets maps each failure reset reaction to the sub-state it clears.
var resets = []struct {
	kind  reaction.Kind
	state string
}{
	{FailPointedShrinkATP, "Fail-Pointed-Shrink-ATP"},
	{FailPointedShrinkADP, "Fail-Pointed-Shrink-ADP"},
	{FailBarbedShrinkATP, "Fail-Barbed-Shrink-ATP"},
	{FailBarbedShrinkADP, "Fail-Barbed-Shrink-ADP"},
	{FailHydrolysisActin, "Fail-Hydrolysis-Actin"},
	{FailHydrolysisArp, "Fail-Hydrolysis-Arp"},
	{FailArpUnbindATP, "Fail-Arp-Unbind-ATP"},
	{FailArpUnbindADP, "Fail-Arp-Unbind-ADP"},
	{FailDebranchATP, "Fail-Debranch-ATP"},
	{FailDebranchADP, "Fail-Debranch-ADP"},
	{FailCapUnbind, "Fail-Cap-Unbind"},
}

// Registry builds the actin reaction catalog.
func (m *Model) Registry() (*reaction.Registry, error) {
	b := reaction.NewBuilder(Name)
	for k, name := range kindNames {
		b.Kind(k, name)
	}
	m.spatial(b)
	m.structural(b)
	return b.Build()
}

func (m *Model) spatial(b *reaction.Builder) {
	p, d := m.p, m.p.ReactionDistance
	b.Spatial(Dimerize, "Dimerize: Actin-Monomer(actin#free_ATP) + Actin-Monomer(actin#free_ATP) -> Actin-Dimer(actin#pointed_ATP_1--actin#barbed_ATP_2)", p.DimerizeRate, d)
	for i := 1; i <= 3; i++ {
		b.Spatial(Trimerize, fmt.Sprintf("Trimerize%d: Actin-Dimer(actin#barbed_ATP_%d) + Actin-Monomer(actin#free_ATP) -> Actin-Trimer#Growing(actin#ATP_%d--actin#new_ATP)", i, i, i), p.TrimerizeRate, d)
		b.Spatial(NucleateATP, fmt.Sprintf("Barbed_Growth_Nucleate_ATP%d: Actin-Trimer(actin#barbed_ATP_%d) + Actin-Monomer(actin#free_ATP) -> Actin-Polymer#GrowingBarbed(actin#ATP_%d--actin#new_ATP)", i, i, i), p.NucleateATPRate, d)
		b.Spatial(NucleateADP, fmt.Sprintf("Barbed_Growth_Nucleate_ADP%d: Actin-Trimer(actin#barbed_ATP_%d) + Actin-Monomer(actin#free) -> Actin-Polymer#GrowingBarbed(actin#ATP_%d--actin#new)", i, i, i), p.NucleateADPRate, d)
		for j, atp := range []string{"", "ATP_"} {
			for _, g := range []struct {
				kind         reaction.Kind
				nuc, free    string
				rate         float64
				end, product string
			}{
				{PointedGrowthATP, "ATP", "actin#free_ATP", p.PointedGrowthATPRate, "pointed", "Actin-Polymer#GrowingPointed"},
				{PointedGrowthADP, "ADP", "actin#free", p.PointedGrowthADPRate, "pointed", "Actin-Polymer#GrowingPointed"},
				{BarbedGrowthATP, "ATP", "actin#free_ATP", p.BarbedGrowthATPRate, "barbed", "Actin-Polymer#GrowingBarbed"},
				{BarbedGrowthADP, "ADP", "actin#free", p.BarbedGrowthADPRate, "barbed", "Actin-Polymer#GrowingBarbed"},
			} {
				newType := "actin#new"
				if g.nuc == "ATP" {
					newType = "actin#new_ATP"
				}
				name := "Pointed_Growth_"
				if g.end == "barbed" {
					name = "Barbed_Growth_"
				}
				b.Spatial(g.kind, fmt.Sprintf("%s%s%d%d: Actin-Polymer(actin#%s_%s%d) + Actin-Monomer(%s) -> %s(actin#%s%d--%s)",
					name, g.nuc, j+1, i, g.end, atp, i, g.free, g.product, atp, i, newType), g.rate, d)
			}
			arp3 := []string{"arp3", "arp3#ATP"}[j]
			newArp3 := []string{"arp3#new", "arp3#new_ATP"}[j]
			b.Spatial(ArpBindATP, fmt.Sprintf("Arp_Bind_ATP%d%d: Actin-Polymer(actin#ATP_%d) + Arp23-Dimer(%s) -> Actin-Polymer#Branching(actin#ATP_%d--%s)", j+1, i, i, arp3, i, newArp3), p.ArpBindATPRate, d)
			b.Spatial(ArpBindADP, fmt.Sprintf("Arp_Bind_ADP%d%d: Actin-Polymer(actin#%d) + Arp23-Dimer(%s) -> Actin-Polymer#Branching(actin#%d--%s)", j+1, i, i, arp3, i, newArp3), p.ArpBindADPRate, d)
			b.Spatial(CapBind, fmt.Sprintf("Cap_Bind%d%d: Actin-Polymer(actin#barbed_%s%d) + Cap(cap) -> Actin-Polymer#Capping(actin#%s%d--cap#new)", j+1, i, atp, i, atp, i), p.CapBindRate, d)
		}
	}
	for j, atp := range []string{"", "ATP_"} {
		b.Spatial(BarbedGrowthATP, fmt.Sprintf("Branch_Barbed_Growth_ATP%d: Actin-Polymer(actin#branch_barbed_%s1) + Actin-Monomer(actin#free_ATP) -> Actin-Polymer#GrowingBarbed(actin#branch_%s1--actin#new_ATP)", j+1, atp, atp), p.BarbedGrowthATPRate, d)
		b.Spatial(BarbedGrowthADP, fmt.Sprintf("Branch_Barbed_Growth_ADP%d: Actin-Polymer(actin#branch_barbed_%s1) + Actin-Monomer(actin#free) -> Actin-Polymer#GrowingBarbed(actin#branch_%s1--actin#new)", j+1, atp, atp), p.BarbedGrowthADPRate, d)
	}
	b.Spatial(BranchGrowthATP, "Barbed_Growth_Branch_ATP: Actin-Polymer(arp2) + Actin-Monomer(actin#free_ATP) -> Actin-Polymer#Branch-Nucleating(arp2#branched--actin#new_ATP)", p.BranchGrowthATPRate, d)
	b.Spatial(BranchGrowthADP, "Barbed_Growth_Branch_ADP: Actin-Polymer(arp2) + Actin-Monomer(actin#free) -> Actin-Polymer#Branch-Nucleating(arp2#branched--actin#new)", p.BranchGrowthADPRate, d)
}

func (m *Model) structural(b *reaction.Builder) {
	p := m.p
	add := func(name string, k reaction.Kind, topType string, rate reaction.RateFunc, react reaction.ReactFunc) {
		b.Structural(reaction.Structural{Name: name, Kind: k, TopologyType: topType, Rate: rate, React: react})
	}
	hasBarbed := exists(barbedEnd)
	add("Reverse_Dimerize", ReverseDimerize, TopDimer, reaction.Guarded(hasBarbed, p.DimerizeReverseRate), m.reverseDimerize)
	b.Pending("Finish_Trimerize", FinishTrimerize, TopTrimerGrowing, m.finishTrimerize)
	add("Reverse_Trimerize", ReverseTrimerize, TopTrimer, reaction.Guarded(hasBarbed, p.TrimerizeReverseRate), m.reverseTrimerize)

	b.Pending("Finish_Pointed_Growth", FinishPointedGrowth, TopGrowingPointed, m.finishGrowth(false))
	b.Pending("Finish_Barbed_growth", FinishBarbedGrowth, TopGrowingBarbed, m.finishGrowth(true))
	for _, s := range []struct {
		name        string
		kind        reaction.Kind
		barbed, atp bool
	}{
		{"Pointed_Shrink_ATP", PointedShrinkATP, false, true},
		{"Pointed_Shrink_ADP", PointedShrinkADP, false, false},
		{"Barbed_Shrink_ATP", BarbedShrinkATP, true, true},
		{"Barbed_Shrink_ADP", BarbedShrinkADP, true, false},
	} {
		add(s.name, s.kind, TopPolymer, m.shrinkRate(s.barbed, s.atp), m.shrink(s.barbed, s.atp))
	}
	b.Pending("Cleanup_Shrink", CleanupShrink, TopShrinking, m.cleanupShrink)

	add("Hydrolysis_Actin", HydrolysisActin, TopPolymer, reaction.Guarded(exists(atpFilament), p.HydrolysisActinRate), m.hydrolyzeActin)
	add("Hydrolysis_Arp", HydrolysisArp, TopPolymer, reaction.Guarded(exists(topology.Types(Arp3ATP)), p.HydrolysisArpRate), m.hydrolyzeArp)
	add("Nucleotide_Exchange_Actin", ExchangeActin, TopMonomer, reaction.Guarded(exists(topology.Types(FreeActin)), p.ExchangeActinRate), m.exchange(FreeActin))
	add("Nucleotide_Exchange_Arp", ExchangeArp, TopArpDimer, reaction.Guarded(exists(topology.Types(Arp3)), p.ExchangeArpRate), m.exchange(Arp3))

	b.Pending("Finish_Arp_Bind", FinishArpBind, TopBranching, m.finishArpBind)
	b.Pending("Cleanup_Fail_Arp_Bind_ATP", CleanupFailArpBindATP, TopPolymer+"#Fail-Branch-ATP", m.cleanupShrink)
	b.Pending("Cleanup_Fail_Arp_Bind_ADP", CleanupFailArpBindADP, TopPolymer+"#Fail-Branch-ADP", m.cleanupShrink)
	add("Arp_Unbind_ATP", ArpUnbindATP, TopPolymer, m.arpRate(true, false, p.ArpUnbindATPRate), m.arpUnbind(true))
	add("Arp_Unbind_ADP", ArpUnbindADP, TopPolymer, m.arpRate(false, false, p.ArpUnbindADPRate), m.arpUnbind(false))

	b.Pending("Nucleate_Branch", NucleateBranch, TopBranchNucleating, m.nucleateBranch)
	add("Debranch_ATP", DebranchATP, TopPolymer, m.arpRate(true, true, p.DebranchATPRate), m.debranch(true))
	add("Debranch_ADP", DebranchADP, TopPolymer, m.arpRate(false, true, p.DebranchADPRate), m.debranch(false))

	b.Pending("Finish_Cap-Bind", FinishCapBind, TopCapping, m.finishCapBind)
	add("Cap_Unbind", CapUnbind, TopPolymer, reaction.Guarded(exists(topology.Types(CapBound)), p.CapUnbindRate), m.capUnbind)

	for _, r := range resets {
		b.Pending(kindNames[r.kind], r.kind, TopPolymer+"#"+r.state, reaction.ResetState(order))
	}
}
