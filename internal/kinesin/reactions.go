package kinesin

import (
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

// trackTangent is the unit direction toward the plus end at a track
// tubulin.
func (m *Model) trackTangent(v topology.View, id topology.VertexID) (r3.Vec, error) {
	p := v.PositionOf(id)
	from, to := p, p
	if minus, ok := trackStep(v, id, -1); ok {
		from = m.box.NearestImage(p, v.PositionOf(minus))
	}
	if plus, ok := trackStep(v, id, 1); ok {
		to = m.box.NearestImage(p, v.PositionOf(plus))
	}
	return geom.Normalize(r3.Sub(to, from))
}

// above is the spot a head bound to site occupies: off the track on the
// side toward ref.
func (m *Model) above(v topology.View, env reaction.Env, site topology.VertexID, ref r3.Vec) (r3.Vec, error) {
	t, err := m.trackTangent(v, site)
	if err != nil {
		return r3.Vec{}, invariant(v, "track at %d has no direction", site)
	}
	p := v.PositionOf(site)
	d := r3.Sub(m.box.NearestImage(p, ref), p)
	up, err := geom.Normalize(r3.Sub(d, r3.Scale(r3.Dot(d, t), t)))
	if err != nil {
		if up, err = geom.RandomPerpendicular(t, env.Rand); err != nil {
			return r3.Vec{}, err
		}
	}
	return m.box.Wrap(r3.Add(p, r3.Scale(m.p.headSiteDistance(), up))), nil
}

// finishMotorBind settles a head that just reached a free site: it
// releases ADP and sits above the site on the hips side.
func (m *Model) finishMotorBind(v topology.View, env reaction.Env) (*topology.Recipe, error) {
	head, ok := topology.FindFirst(v, topology.Types(HeadNew))
	if !ok {
		return nil, invariant(v, "no binding head")
	}
	site, ok := topology.NeighborOf(v, head, siteTubulin)
	if !ok {
		return nil, invariant(v, "binding head %d has no site", head)
	}
	h, ok := topology.NeighborOf(v, head, hips)
	if !ok {
		return nil, invariant(v, "binding head %d has no hips", head)
	}
	pos, err := m.above(v, env, site, v.PositionOf(h))
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("kinesin: head %d bound tubulin %d", head, site)
	return m.recipe(v).
		ChangeType(head, HeadApoBound).
		ChangePosition(head, pos).
		ChangeTopologyType(TopComplex), nil
}

func (m *Model) bindATP(v topology.View, env reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	head, ok := topology.FindRandom(v, topology.Types(HeadApoBound), env.Rand)
	if !ok {
		return m.fail(r, "Fail-Bind-ATP", "no apo head to bind ATP")
	}
	klog.V(2).Infof("kinesin: head %d bound ATP", head)
	return r.ChangeType(head, HeadATPBound), nil
}

// releasable lists the motors standing on two heads whose trailing head
// holds ATP.
func releasable(v topology.View) ([]Motor, error) {
	motors, err := Motors(v)
	if err != nil {
		return nil, err
	}
	var out []Motor
	for _, mo := range motors {
		if t, _, ok := mo.Stance(); ok && t.Nucleotide == ATP {
			out = append(out, mo)
		}
	}
	return out, nil
}

func (m *Model) releaseRate(v topology.View, _ reaction.Env) float64 {
	ms, err := releasable(v)
	if err != nil || len(ms) == 0 {
		return reaction.Inapplicable
	}
	return m.p.ReleaseTubulinRate
}

// releaseTubulin hydrolyzes ATP in the trailing head of a two-head-bound
// motor. The head lets go of its site and swings past the leading head.
func (m *Model) releaseTubulin(v topology.View, env reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	ms, err := releasable(v)
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return m.fail(r, "Fail-Release-Tubulin", "no motor ready to step")
	}
	trailing, leading, _ := ms[env.Rand.Intn(len(ms))].Stance()
	ps := v.PositionOf(leading.Site)
	next := r3.Add(ps, r3.Sub(ps, m.box.NearestImage(ps, v.PositionOf(trailing.Site))))
	up := r3.Sub(m.box.NearestImage(ps, v.PositionOf(leading.ID)), ps)
	klog.V(2).Infof("kinesin: head %d released tubulin %d", trailing.ID, trailing.Site)
	return r.RemoveEdge(trailing.ID, trailing.Site).
		ChangeType(trailing.ID, HeadADP).
		SetFlags(trailing.Site, []string{"free"}, []string{"bound"}).
		ChangePosition(trailing.ID, m.box.Wrap(r3.Add(next, up))).
		ChangeTopologyType(TopReleasing), nil
}

// cleanupRelease types every piece left after a release.
func (m *Model) cleanupRelease(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
	t := state(v)
	klog.V(2).Infof("kinesin: settled as %s", t)
	return m.recipe(v).ChangeTopologyType(t), nil
}
