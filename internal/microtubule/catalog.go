package microtubule

import (
	"fmt"
	"strings"

	"github.com/san-kum/fibersim/internal/reaction"
)

const (
	GrowGTP reaction.Kind = iota
	GrowGDP
	FinishGrow
	ShrinkGTP
	ShrinkGDP
	CleanupShrink
	Hydrolyze
	AttachGTP
	AttachGDP
	DetachGTP
	DetachGDP
	FailShrinkGTP
	FailShrinkGDP
	FailHydrolyze
	FailAttachGTP
	FailAttachGDP
	FailDetachGTP
	FailDetachGDP
)

var kindNames = map[reaction.Kind]string{
	GrowGTP:       "Grow_GTP",
	GrowGDP:       "Grow_GDP",
	FinishGrow:    "Finish_Grow",
	ShrinkGTP:     "Shrink_GTP",
	ShrinkGDP:     "Shrink_GDP",
	CleanupShrink: "Cleanup_Shrink",
	Hydrolyze:     "Hydrolyze",
	AttachGTP:     "Attach_GTP",
	AttachGDP:     "Attach_GDP",
	DetachGTP:     "Detach_GTP",
	DetachGDP:     "Detach_GDP",
	FailShrinkGTP: "Fail_Shrink_GTP",
	FailShrinkGDP: "Fail_Shrink_GDP",
	FailHydrolyze: "Fail_Hydrolyze",
	FailAttachGTP: "Fail_Attach_GTP",
	FailAttachGDP: "Fail_Attach_GDP",
	FailDetachGTP: "Fail_Detach_GTP",
	FailDetachGDP: "Fail_Detach_GDP",
}

var resets = []struct {
	kind  reaction.Kind
	state string
}{
	{FailShrinkGTP, "Fail-Shrink-GTP"},
	{FailShrinkGDP, "Fail-Shrink-GDP"},
	{FailHydrolyze, "Fail-Hydrolyze"},
	{FailAttachGTP, "Fail-Attach-GTP"},
	{FailAttachGDP, "Fail-Attach-GDP"},
	{FailDetachGTP, "Fail-Detach-GTP"},
	{FailDetachGDP, "Fail-Detach-GDP"},
}

// Registry builds the microtubule reaction catalog.
func (m *Model) Registry() (*reaction.Registry, error) {
	b := reaction.NewBuilder(Name)
	for k, name := range kindNames {
		b.Kind(k, name)
	}
	m.spatial(b)
	m.structural(b)
	return b.Build()
}

// growName names the growth of a plus end of type end by a free tubulin
// carrying nuc, e.g. "Grow_GTP_A-GDP-bent_1_2".
func growName(nuc string, end tubulin) string {
	tag := []string{end.kind, end.nuc}
	if end.bent {
		tag = append(tag, "bent")
	}
	return fmt.Sprintf("Grow_%s_%s_%d_%d", nuc, strings.Join(tag, "-"), end.n1, end.n2)
}

func (m *Model) spatial(b *reaction.Builder) {
	p := m.p
	radius := 2*p.TubulinRadius + p.GrowDistance
	for _, g := range []struct {
		kind reaction.Kind
		nuc  string
		rate float64
	}{
		{GrowGTP, GTP, p.GrowthGTPRate},
		{GrowGDP, GDP, p.GrowthGDPRate},
	} {
		for _, kind := range kinds {
			for _, endNuc := range nucleotides {
				for _, bent := range anyFlag {
					for n1 := 1; n1 <= 3; n1++ {
						for n2 := 1; n2 <= 3; n2++ {
							end := tubulin{kind: kind, nuc: endNuc, bent: bent, end: true, n1: n1, n2: n2}
							prev := end
							prev.end = false
							b.Spatial(g.kind, fmt.Sprintf("%s: %s(%s) + %s(%s) -> %s(%s--%s)",
								growName(g.nuc, end), TopMicrotubule, end, TopFree, FreeType(opposite(kind), g.nuc),
								TopGrowing, prev, NewType(opposite(kind), g.nuc)), g.rate, radius)
						}
					}
				}
			}
		}
	}
}

func (m *Model) structural(b *reaction.Builder) {
	p := m.p
	add := func(name string, k reaction.Kind, rate reaction.RateFunc, react reaction.ReactFunc) {
		b.Structural(reaction.Structural{Name: name, Kind: k, TopologyType: TopMicrotubule, Rate: rate, React: react})
	}
	b.Pending("Finish_Grow", FinishGrow, TopGrowing, m.finishGrow)
	add("Shrink_GTP", ShrinkGTP, reaction.Guarded(exists(bentEnd(GTP)), p.ShrinkGTPRate), m.shrink(GTP))
	add("Shrink_GDP", ShrinkGDP, reaction.Guarded(exists(bentEnd(GDP)), p.ShrinkGDPRate), m.shrink(GDP))
	b.Pending("Cleanup_Shrink", CleanupShrink, TopShrinking, m.cleanupShrink)
	add("Hydrolyze", Hydrolyze, reaction.Guarded(exists(hydrolyzable), p.HydrolyzeRate), m.hydrolyze)
	add("Attach_GTP", AttachGTP, m.attachRate(GTP, p.AttachGTPRate), m.attach(GTP))
	add("Attach_GDP", AttachGDP, m.attachRate(GDP, p.AttachGDPRate), m.attach(GDP))
	add("Detach_GTP", DetachGTP, detachRate(GTP, p.DetachGTPRate), m.detach(GTP))
	add("Detach_GDP", DetachGDP, detachRate(GDP, p.DetachGDPRate), m.detach(GDP))
	for _, r := range resets {
		b.Pending(kindNames[r.kind], r.kind, TopMicrotubule+"#"+r.state, reaction.ResetState(order))
	}
}
