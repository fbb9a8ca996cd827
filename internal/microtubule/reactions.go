package microtubule

import (
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

func exists(m topology.Matcher) func(topology.View) bool {
	return func(v topology.View) bool {
		_, ok := topology.FindFirst(v, m)
		return ok
	}
}

// finishGrow numbers and places a tubulin just bonded to a plus end. It
// becomes the new bent plus end of its protofilament.
func (m *Model) finishGrow(v topology.View, env reaction.Env) (*topology.Recipe, error) {
	vNew, ok := topology.FindFirst(v, newTubulin)
	if !ok {
		return nil, invariant(v, "no new tubulin")
	}
	prev, ok := topology.FirstNeighbor(v, vNew)
	if !ok {
		return nil, invariant(v, "new tubulin %d has no neighbor", vNew)
	}
	t, ok := parseTubulin(v.TypeOf(prev))
	if !ok {
		return nil, invariant(v, "new tubulin %d is bonded to %s", vNew, v.TypeOf(prev))
	}
	x, y := polymer.Number2D(t.n1, t.n2, polymer.Offset2D{X: 1})
	r := m.recipe(v)
	r.Retype(vNew, func(p topology.ParticleType) topology.ParticleType {
		return p.With([]string{"bent", "end"}, []string{"new"}).WithNumbers(x, y)
	})
	klog.V(2).Infof("microtubule: grow protofilament at %d", prev)
	return r.ChangePosition(vNew, m.growPosition(v, env, prev, vNew)).
		ChangeTopologyType(TopMicrotubule), nil
}

// growPosition is one spacing beyond prev along its protofilament. A
// protofilament of one tubulin grows toward wherever the new tubulin
// arrived from.
func (m *Model) growPosition(v topology.View, env reaction.Env, prev, vNew topology.VertexID) r3.Vec {
	p := v.PositionOf(prev)
	var dir r3.Vec
	var err error
	if minus, ok := minusNeighbor(v, prev); ok {
		dir, err = geom.Normalize(r3.Sub(p, m.box.NearestImage(p, v.PositionOf(minus))))
	} else {
		dir, err = geom.Normalize(r3.Sub(m.box.NearestImage(p, v.PositionOf(vNew)), p))
	}
	if err != nil {
		dir = geom.RandomUnitVector(env.Rand)
	}
	return m.box.Wrap(r3.Add(p, r3.Scale(Spacing, dir)))
}

func bentEnd(nuc string) topology.Matcher {
	return lattice(func(t tubulin) bool { return t.bent && t.end && t.nuc == nuc })
}

// shrink releases a bent plus-end tubulin into solution; the tubulin
// below it becomes the plus end.
func (m *Model) shrink(nuc string) reaction.ReactFunc {
	return func(v topology.View, env reaction.Env) (*topology.Recipe, error) {
		r := m.recipe(v)
		id, ok := topology.FindRandom(v, bentEnd(nuc), env.Rand)
		if !ok {
			return m.fail(r, "Fail-Shrink-"+nuc, "no bent "+nuc+" end to shrink")
		}
		t, _ := parseTubulin(v.TypeOf(id))
		minus, hasMinus := minusNeighbor(v, id)
		for _, n := range v.Neighbors(id) {
			if !hasMinus || n != minus {
				return nil, invariant(v, "bent end %d is bonded to %d", id, n)
			}
		}
		if hasMinus {
			r.RemoveEdge(id, minus).SetFlags(minus, []string{"end"}, nil)
		}
		klog.V(2).Infof("microtubule: shrink %s end %d", nuc, id)
		return r.ChangeType(id, FreeType(t.kind, t.nuc)).ChangeTopologyType(TopShrinking), nil
	}
}

// cleanupShrink types one piece left by a shrink or detach: a lone
// tubulin goes back into solution.
func (m *Model) cleanupShrink(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	ids := v.Vertices()
	if len(ids) != 1 {
		return r.ChangeTopologyType(TopMicrotubule), nil
	}
	if t, ok := parseTubulin(v.TypeOf(ids[0])); ok {
		r.ChangeType(ids[0], FreeType(t.kind, t.nuc))
	}
	klog.V(2).Infof("microtubule: released tubulin %d", ids[0])
	return r.ChangeTopologyType(TopFree), nil
}

var hydrolyzable = lattice(func(t tubulin) bool { return t.nuc == GTP && !t.end })

func (m *Model) hydrolyze(v topology.View, env reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	id, ok := topology.FindRandom(v, hydrolyzable, env.Rand)
	if !ok {
		return m.fail(r, "Fail-Hydrolyze", "no GTP tubulin to hydrolyze")
	}
	return r.SetFlags(id, []string{GDP}, []string{GTP}), nil
}

// attachPairs lists unbonded ring mates within reach where the first
// tubulin is bent and carries nuc.
func (m *Model) attachPairs(v topology.View, nuc string) [][2]topology.VertexID {
	reach := LateralDistance() + m.p.AttachDistance
	var bent []topology.VertexID
	var all []topology.VertexID
	for _, id := range v.Vertices() {
		t, ok := parseTubulin(v.TypeOf(id))
		if !ok {
			continue
		}
		all = append(all, id)
		if t.bent && t.nuc == nuc {
			bent = append(bent, id)
		}
	}
	var out [][2]topology.VertexID
	for _, a := range bent {
		ta, _ := parseTubulin(v.TypeOf(a))
		pa := v.PositionOf(a)
		for _, b := range all {
			if a == b || topology.AreBonded(v, a, b) {
				continue
			}
			tb, _ := parseTubulin(v.TypeOf(b))
			if !isRingMate(ta, tb) {
				continue
			}
			if geom.Distance(pa, m.box.NearestImage(pa, v.PositionOf(b))) <= reach {
				out = append(out, [2]topology.VertexID{a, b})
			}
		}
	}
	return out
}

func (m *Model) attachRate(nuc string, rate float64) reaction.RateFunc {
	return func(v topology.View, _ reaction.Env) float64 {
		if len(m.attachPairs(v, nuc)) == 0 {
			return reaction.Inapplicable
		}
		return rate
	}
}

// attach bonds a bent tubulin to a ring mate; both straighten.
func (m *Model) attach(nuc string) reaction.ReactFunc {
	return func(v topology.View, env reaction.Env) (*topology.Recipe, error) {
		r := m.recipe(v)
		pairs := m.attachPairs(v, nuc)
		if len(pairs) == 0 {
			return m.fail(r, "Fail-Attach-"+nuc, "no "+nuc+" ring mates to attach")
		}
		p := pairs[env.Rand.Intn(len(pairs))]
		klog.V(2).Infof("microtubule: attach %d--%d", p[0], p[1])
		return r.AddEdge(p[0], p[1]).
			SetFlags(p[0], nil, []string{"bent"}).
			SetFlags(p[1], nil, []string{"bent"}), nil
	}
}

// detachPairs lists lateral bonds at the plus tip: the first tubulin
// carries nuc and is an end or sits below a bent tubulin.
func detachPairs(v topology.View, nuc string) [][2]topology.VertexID {
	var out [][2]topology.VertexID
	for _, id := range v.Vertices() {
		t, ok := parseTubulin(v.TypeOf(id))
		if !ok || t.nuc != nuc {
			continue
		}
		if !t.end {
			plus, ok := plusNeighbor(v, id)
			if !ok {
				continue
			}
			if pt, _ := parseTubulin(v.TypeOf(plus)); !pt.bent {
				continue
			}
		}
		for _, n := range lateralNeighbors(v, id) {
			out = append(out, [2]topology.VertexID{id, n})
		}
	}
	return out
}

func detachRate(nuc string, rate float64) reaction.RateFunc {
	return func(v topology.View, _ reaction.Env) float64 {
		if len(detachPairs(v, nuc)) == 0 {
			return reaction.Inapplicable
		}
		return rate
	}
}

// detach breaks a lateral bond at the tip. A tubulin left without ring
// mates bends.
func (m *Model) detach(nuc string) reaction.ReactFunc {
	return func(v topology.View, env reaction.Env) (*topology.Recipe, error) {
		r := m.recipe(v)
		pairs := detachPairs(v, nuc)
		if len(pairs) == 0 {
			return m.fail(r, "Fail-Detach-"+nuc, "no "+nuc+" lateral bond to detach")
		}
		p := pairs[env.Rand.Intn(len(pairs))]
		r.RemoveEdge(p[0], p[1])
		for _, id := range p {
			if len(lateralNeighbors(v, id)) == 1 {
				r.SetFlags(id, []string{"bent"}, nil)
			}
		}
		klog.V(2).Infof("microtubule: detach %d--%d", p[0], p[1])
		return r.ChangeTopologyType(TopShrinking), nil
	}
}
