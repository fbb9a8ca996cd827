package kinesin

import (
	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/topology"
)

// Topology types.
const (
	TopKinesin   = "Kinesin"
	TopTrack     = "Microtubule"
	TopComplex   = "Microtubule-Kinesin"
	TopBinding   = "Microtubule-Kinesin#Binding"
	TopReleasing = "Microtubule-Kinesin#Releasing"
)

// Motor particle types.
const (
	Hips         = "hips"
	HeadADP      = "head#ADP"
	HeadApo      = "head#apo"
	HeadATP      = "head#ATP"
	HeadApoBound = "head#apo_bound"
	HeadATPBound = "head#ATP_bound"
	HeadNew      = "head#ADP_new"
)

// Nucleotide states of a head.
const (
	ADP = "ADP"
	Apo = "apo"
	ATP = "ATP"
)

// Track tubulin prefixes; every track tubulin carries one polymer number.
const (
	spacerPrefix = "tubulinA#"
	freePrefix   = "tubulinB#free_"
	boundPrefix  = "tubulinB#bound_"
)

// Spacing separates neighboring tubulins on the track.
const Spacing = 4.0

const order = topology.Ascending

var failStates = []string{"Fail-Bind-ATP", "Fail-Release-Tubulin"}

func TopologyTypes() []string {
	out := []string{TopKinesin, TopTrack, TopComplex, TopBinding, TopReleasing}
	for _, f := range failStates {
		out = append(out, TopComplex+"#"+f)
	}
	return out
}

var (
	HeadTypes  = []string{HeadADP, HeadApo, HeadATP, HeadApoBound, HeadATPBound, HeadNew}
	boundHeads = []string{HeadApoBound, HeadATPBound, HeadNew}
)

// TrackTypes lists every numbered track tubulin.
func TrackTypes() []string {
	var out []string
	for _, p := range []string{spacerPrefix, freePrefix, boundPrefix} {
		out = append(out, polymer.AllNumbers(p)...)
	}
	return out
}

var (
	anyHead     = topology.Types(HeadTypes...)
	anyTubulin  = topology.Types(TrackTypes()...)
	siteTubulin = topology.Or(topology.Prefix(freePrefix), topology.Prefix(boundPrefix))
	freeSite    = topology.Prefix(freePrefix)
	hips        = topology.Types(Hips)
)

// trackType names the k-th tubulin of a track: spacers on even
// positions, binding sites on odd ones.
func trackType(k int) string {
	n := polymer.Clamp(k + 1)
	if k%2 == 0 {
		return topology.ParticleType{Base: "tubulinA", Numbers: []int{n}}.Format(order)
	}
	return topology.ParticleType{Base: "tubulinB", Flags: []string{"free"}, Numbers: []int{n}}.Format(order)
}

// nucleotide reads the state of a head type.
func nucleotide(typ string) string {
	p := topology.ParseType(typ)
	for _, s := range []string{ATP, ADP, Apo} {
		if p.Has(s) {
			return s
		}
	}
	return ""
}
