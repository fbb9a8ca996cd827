package kinesin

import (
	"fmt"

	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

const (
	MotorBindTubulin reaction.Kind = iota
	FinishMotorBind
	MotorBindATP
	MotorReleaseTubulin
	CleanupReleaseTubulin
	FailBindATP
	FailReleaseTubulin
)

var kindNames = map[reaction.Kind]string{
	MotorBindTubulin:      "Motor_Bind_Tubulin",
	FinishMotorBind:       "Finish_Motor_Bind",
	MotorBindATP:          "Motor_Bind_ATP",
	MotorReleaseTubulin:   "Motor_Release_Tubulin",
	CleanupReleaseTubulin: "Cleanup_Release_Tubulin",
	FailBindATP:           "Fail_Bind_ATP",
	FailReleaseTubulin:    "Fail_Release_Tubulin",
}

var resets = []struct {
	kind  reaction.Kind
	state string
}{
	{FailBindATP, "Fail-Bind-ATP"},
	{FailReleaseTubulin, "Fail-Release-Tubulin"},
}

// Registry builds the kinesin reaction catalog.
func (m *Model) Registry() (*reaction.Registry, error) {
	b := reaction.NewBuilder(Name)
	for k, name := range kindNames {
		b.Kind(k, name)
	}
	m.spatial(b)
	m.structural(b)
	return b.Build()
}

// spatial lets an ADP head reach a free binding site. The site may sit on
// a bare track or on one already carrying motors, and the head may belong
// to a free motor or to one already standing on a track.
func (m *Model) spatial(b *reaction.Builder) {
	p := m.p
	radius := p.HeadRadius + p.TubulinRadius + p.ReactionDistance
	for _, v := range []struct {
		suffix       string
		track, motor string
	}{
		{"", TopTrack, TopKinesin},
		{"_Crowded", TopComplex, TopKinesin},
		{"_Step", TopComplex, TopComplex},
	} {
		for n := 1; n <= 3; n++ {
			site := freePrefix + fmt.Sprint(n)
			bound := boundPrefix + fmt.Sprint(n)
			b.Spatial(MotorBindTubulin, fmt.Sprintf("Motor_Bind_Tubulin%s_%d: %s(%s) + %s(%s) -> %s(%s--%s)",
				v.suffix, n, v.track, site, v.motor, HeadADP, TopBinding, bound, HeadNew), p.BindTubulinRate, radius)
		}
	}
}

func (m *Model) structural(b *reaction.Builder) {
	p := m.p
	b.Pending("Finish_Motor_Bind", FinishMotorBind, TopBinding, m.finishMotorBind)
	b.Structural(reaction.Structural{
		Name:         "Motor_Bind_ATP",
		Kind:         MotorBindATP,
		TopologyType: TopComplex,
		Rate:         reaction.Guarded(exists(topology.Types(HeadApoBound)), p.BindATPRate),
		React:        m.bindATP,
	})
	b.Structural(reaction.Structural{
		Name:         "Motor_Release_Tubulin",
		Kind:         MotorReleaseTubulin,
		TopologyType: TopComplex,
		Rate:         m.releaseRate,
		React:        m.releaseTubulin,
	})
	b.Pending("Cleanup_Release_Tubulin", CleanupReleaseTubulin, TopReleasing, m.cleanupRelease)
	for _, r := range resets {
		b.Pending(kindNames[r.kind], r.kind, TopComplex+"#"+r.state, reaction.ResetState(order))
	}
}

func exists(m topology.Matcher) func(topology.View) bool {
	return func(v topology.View) bool {
		_, ok := topology.FindFirst(v, m)
		return ok
	}
}
