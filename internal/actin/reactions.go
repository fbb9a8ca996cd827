package actin

import (
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

var (
	atpFilament = topology.Types(join(
		nums("actin#ATP_", "actin#pointed_ATP_", "actin#barbed_ATP_"),
		[]string{"actin#branch_ATP_1", "actin#branch_barbed_ATP_1"},
	)...)
	// bondedActin is every actin an arp or cap can be bonded to.
	bondedActin = topology.Types(join(plainTypes, pointedTypes, barbedTypes, branchActins)...)
)

func (m *Model) recipe(v topology.View) *topology.Recipe { return topology.NewRecipe(v, order) }

// newVertex finds the single "new" actin a growth reaction left behind and
// the actin it was bonded to.
func newVertex(v topology.View) (topology.VertexID, topology.VertexID, error) {
	vNew, ok := topology.FindFirst(v, newActin)
	if !ok {
		return 0, 0, invariant(v, "no new actin")
	}
	nb, ok := topology.FirstNeighbor(v, vNew)
	if !ok {
		return 0, 0, invariant(v, "new actin %d has no neighbor", vNew)
	}
	return vNew, nb, nil
}

func (m *Model) reverseDimerize(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	barbed, ok := topology.FindFirst(v, barbedEnd)
	if !ok {
		return r, nil
	}
	pointed, ok := topology.FirstNeighbor(v, barbed)
	if !ok {
		return r, nil
	}
	klog.V(2).Infof("actin: reverse dimerize %d--%d", pointed, barbed)
	return r.RemoveEdge(barbed, pointed).
		ChangeType(barbed, freeType(topology.HasFlag(v.TypeOf(barbed), "ATP"))).
		ChangeType(pointed, freeType(topology.HasFlag(v.TypeOf(pointed), "ATP"))).
		ChangeTopologyType(TopMonomer), nil
}

func (m *Model) finishTrimerize(v topology.View, env reaction.Env) (*topology.Recipe, error) {
	vNew, barbed, err := newVertex(v)
	if err != nil {
		return nil, err
	}
	pointed, ok := topology.FirstNeighbor(v, barbed, vNew)
	if !ok {
		return nil, invariant(v, "dimer actin %d has no partner", barbed)
	}
	n, err := number(v, barbed, 1)
	if err != nil {
		return nil, err
	}
	r := m.recipe(v)
	r.Retype(vNew, func(p topology.ParticleType) topology.ParticleType {
		return p.With([]string{"barbed"}, []string{"new"}).WithNumbers(n)
	})
	klog.V(2).Infof("actin: trimerize onto %d", barbed)
	return r.ChangePosition(vNew, m.trimerPosition(v, env, vNew, pointed, barbed)).
		ChangeTopologyType(TopTrimer), nil
}

func (m *Model) reverseTrimerize(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	barbed, ok := topology.FindFirst(v, barbedEnd)
	if !ok {
		return r, nil
	}
	nb, ok := topology.FirstNeighbor(v, barbed)
	if !ok {
		return r, nil
	}
	klog.V(2).Infof("actin: reverse trimerize %d", barbed)
	return r.RemoveEdge(barbed, nb).
		ChangeType(barbed, freeType(topology.HasFlag(v.TypeOf(barbed), "ATP"))).
		SetFlags(nb, []string{"barbed"}, nil).
		ChangeTopologyType(TopShrinking), nil
}

// finishGrowth types a monomer just bonded to an end and places it on the
// helix.
func (m *Model) finishGrowth(barbed bool) reaction.ReactFunc {
	flag, offset := "pointed", -1
	if barbed {
		flag, offset = "barbed", 1
	}
	return func(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
		vNew, nb, err := newVertex(v)
		if err != nil {
			return nil, err
		}
		n, err := number(v, nb, offset)
		if err != nil {
			return nil, err
		}
		pos, err := m.endPosition(v, vNew, barbed)
		if err != nil {
			return nil, err
		}
		r := m.recipe(v)
		r.Retype(vNew, func(p topology.ParticleType) topology.ParticleType {
			return p.With([]string{flag}, []string{"new"}).WithNumbers(n)
		})
		klog.V(2).Infof("actin: grow %s end at %d", flag, nb)
		return r.ChangePosition(vNew, pos).ChangeTopologyType(TopPolymer), nil
	}
}

func (m *Model) nucleateBranch(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
	vNew, ok := topology.FindFirst(v, newActin)
	if !ok {
		return nil, invariant(v, "no new branch actin")
	}
	pos, err := m.endPosition(v, vNew, true)
	if err != nil {
		return nil, err
	}
	r := m.recipe(v)
	r.Retype(vNew, func(p topology.ParticleType) topology.ParticleType {
		return p.With([]string{"barbed", "branch"}, []string{"new"}).WithNumbers(1)
	})
	klog.V(2).Infof("actin: nucleate branch at %d", vNew)
	return r.ChangePosition(vNew, pos).ChangeTopologyType(TopPolymer), nil
}

type shrinkTarget struct {
	end, neighbor topology.VertexID
}

// shrinkTargets lists the ends that can come off: no arp bound to them,
// bonded to a plain or branch actin, and for pointed ends that neighbor
// must not hold an arp2.
func shrinkTargets(v topology.View, barbed, atp bool) []shrinkTarget {
	prefix := "actin#pointed_"
	if barbed {
		prefix = "actin#barbed_"
	}
	if atp {
		prefix += "ATP_"
	}
	var out []shrinkTarget
	for _, end := range topology.FindAll(v, topology.Types(nums(prefix)...)) {
		if _, ok := topology.NeighborOf(v, end, topology.Or(anyArp2, anyArp3)); ok {
			continue
		}
		nb, ok := topology.NeighborOf(v, end, plainOrBranch)
		if !ok {
			continue
		}
		if !barbed {
			if _, ok := topology.NeighborOf(v, nb, anyArp2); ok {
				continue
			}
		}
		out = append(out, shrinkTarget{end, nb})
	}
	return out
}

func shrinkState(barbed, atp bool) string {
	end := "Pointed"
	if barbed {
		end = "Barbed"
	}
	return "Fail-" + end + "-Shrink-" + nucleotide(atp)
}

func (m *Model) shrinkRate(barbed, atp bool) reaction.RateFunc {
	rate := m.p.PointedShrinkADPRate
	switch {
	case barbed && atp:
		rate = m.p.BarbedShrinkATPRate
	case barbed:
		rate = m.p.BarbedShrinkADPRate
	case atp:
		rate = m.p.PointedShrinkATPRate
	}
	return func(v topology.View, _ reaction.Env) float64 {
		if len(shrinkTargets(v, barbed, atp)) == 0 {
			return reaction.Inapplicable
		}
		return rate
	}
}

func (m *Model) shrink(barbed, atp bool) reaction.ReactFunc {
	flag := "pointed"
	if barbed {
		flag = "barbed"
	}
	return func(v topology.View, env reaction.Env) (*topology.Recipe, error) {
		r := m.recipe(v)
		targets := shrinkTargets(v, barbed, atp)
		if len(targets) == 0 {
			return m.fail(r, shrinkState(barbed, atp), "no "+flag+" end to remove")
		}
		t := targets[env.Rand.Intn(len(targets))]
		klog.V(2).Infof("actin: shrink %s end %d", flag, t.end)
		return r.RemoveEdge(t.end, t.neighbor).
			ChangeType(t.end, freeType(atp)).
			SetFlags(t.neighbor, []string{flag}, nil).
			ChangeTopologyType(TopShrinking), nil
	}
}

// cleanupShrink re-types a fragment left by a removal by what is left of
// it.
func (m *Model) cleanupShrink(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	var t string
	switch n := len(v.Vertices()); {
	case n < 2:
		t = TopMonomer
		if _, ok := topology.FindFirst(v, anyCap); ok {
			t = TopCap
		}
	case n < 3:
		t = TopDimer
		if _, ok := topology.FindFirst(v, anyArp2); ok {
			t = TopArpDimer
		}
	case n < 4:
		t = TopTrimer
	default:
		t = TopPolymer
	}
	klog.V(2).Infof("actin: cleaned up %s", t)
	return r.ChangeTopologyType(t), nil
}

func exists(m topology.Matcher) func(topology.View) bool {
	return func(v topology.View) bool {
		_, ok := topology.FindFirst(v, m)
		return ok
	}
}

func (m *Model) hydrolyzeActin(v topology.View, env reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	id, ok := topology.FindRandom(v, atpFilament, env.Rand)
	if !ok {
		return m.fail(r, "Fail-Hydrolysis-Actin", "no ATP actin to hydrolyze")
	}
	return r.SetFlags(id, nil, []string{"ATP"}), nil
}

func (m *Model) hydrolyzeArp(v topology.View, env reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	id, ok := topology.FindRandom(v, topology.Types(Arp3ATP), env.Rand)
	if !ok {
		return m.fail(r, "Fail-Hydrolysis-Arp", "no ATP arp3 to hydrolyze")
	}
	return r.SetFlags(id, nil, []string{"ATP"}), nil
}

// exchange loads ATP onto a free species; there is nothing to record on
// failure since the topology is not a polymer.
func (m *Model) exchange(typ string) reaction.ReactFunc {
	return func(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
		r := m.recipe(v)
		id, ok := topology.FindFirst(v, topology.Types(typ))
		if !ok {
			return r, nil
		}
		return r.SetFlags(id, []string{"ATP"}, nil), nil
	}
}

func (m *Model) finishArpBind(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
	arp3, ok := topology.FindFirst(v, topology.Types(Arp3New, Arp3NewATP))
	if !ok {
		return nil, invariant(v, "no new arp3")
	}
	arp2, ok := topology.NeighborOf(v, arp3, topology.Types(Arp2))
	if !ok {
		return nil, invariant(v, "new arp3 %d has no free arp2", arp3)
	}
	actinArp3, ok := topology.FirstNeighbor(v, arp3, arp2)
	if !ok {
		return nil, invariant(v, "new arp3 %d is not bound to actin", arp3)
	}
	r := m.recipe(v)
	actinArp2, ok, err := pointedNeighbor(v, actinArp3)
	if err != nil {
		return nil, err
	}
	switch {
	case !ok:
		return m.cancelBranch(r, v, actinArp3, arp3, "no mother actin before the bound arp3")
	case topology.HasFlag(v.TypeOf(actinArp2), "pointed") || topology.HasFlag(v.TypeOf(actinArp2), "branch"):
		return m.cancelBranch(r, v, actinArp3, arp3, "branch would start at a pointed end")
	case len(topology.NeighborsOf(v, actinArp2, anyArp2)) > 0 || len(topology.NeighborsOf(v, actinArp3, anyArp3)) > 1:
		return m.cancelBranch(r, v, actinArp3, arp3, "mother actins already hold an arp2/3")
	}
	p2, p3, err := m.arpPositions(v, actinArp2, actinArp3)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("actin: arp2/3 bound at %d--%d", actinArp2, actinArp3)
	return r.SetFlags(arp3, nil, []string{"new"}).
		AddEdge(actinArp2, arp2).
		ChangePosition(arp2, p2).
		ChangePosition(arp3, p3).
		ChangeTopologyType(TopPolymer), nil
}

// cancelBranch undoes an arp2/3 bind whose mother site turned out to be
// invalid. The Fail-Branch state is cleaned up by cleanupShrink once the
// dimer has split off.
func (m *Model) cancelBranch(r *topology.Recipe, v topology.View, actin, arp3 topology.VertexID, why string) (*topology.Recipe, error) {
	klog.V(2).Infof("actin: cancel branch at %d: %s", actin, why)
	state := "Fail-Branch-" + nucleotide(topology.HasFlag(v.TypeOf(actin), "ATP"))
	return r.RemoveEdge(actin, arp3).
		SetFlags(arp3, nil, []string{"new"}).
		ChangeTopologyType(TopPolymer + "#" + state), nil
}

// arp2Candidates lists the bound arp2s whose arp3 has the given
// nucleotide and which have or have not nucleated a branch.
func arp2Candidates(v topology.View, atp, branched bool) []topology.VertexID {
	arp3Type, arp2Type := Arp3, Arp2
	if atp {
		arp3Type = Arp3ATP
	}
	if branched {
		arp2Type = Arp2Branched
	}
	var out []topology.VertexID
	for _, a3 := range topology.FindAll(v, topology.Types(arp3Type)) {
		if a2, ok := topology.NeighborOf(v, a3, topology.Types(arp2Type)); ok {
			out = append(out, a2)
		}
	}
	return out
}

func randomArp2(v topology.View, env reaction.Env, atp, branched bool) (topology.VertexID, bool) {
	c := arp2Candidates(v, atp, branched)
	if len(c) == 0 {
		return 0, false
	}
	return c[env.Rand.Intn(len(c))], true
}

func (m *Model) arpRate(atp, branched bool, rate float64) reaction.RateFunc {
	return func(v topology.View, _ reaction.Env) float64 {
		if len(arp2Candidates(v, atp, branched)) == 0 {
			return reaction.Inapplicable
		}
		return rate
	}
}

func (m *Model) arpUnbind(atp bool) reaction.ReactFunc {
	return func(v topology.View, env reaction.Env) (*topology.Recipe, error) {
		r := m.recipe(v)
		arp2, ok := randomArp2(v, env, atp, false)
		if !ok {
			return m.fail(r, "Fail-Arp-Unbind-"+nucleotide(atp), "no unbranched arp2 to unbind")
		}
		actinArp2, ok := topology.NeighborOf(v, arp2, bondedActin)
		if !ok {
			return nil, invariant(v, "arp2 %d is not bound to actin", arp2)
		}
		arp3, ok := topology.NeighborOf(v, arp2, boundArp3)
		if !ok {
			return nil, invariant(v, "arp2 %d has no arp3", arp2)
		}
		actinArp3, ok := topology.NeighborOf(v, arp3, bondedActin)
		if !ok {
			return nil, invariant(v, "arp3 %d is not bound to actin", arp3)
		}
		klog.V(2).Infof("actin: arp2/3 %d unbound", arp2)
		return r.RemoveEdge(arp2, actinArp2).
			RemoveEdge(arp3, actinArp3).
			ChangeTopologyType(TopShrinking), nil
	}
}

func (m *Model) debranch(atp bool) reaction.ReactFunc {
	return func(v topology.View, env reaction.Env) (*topology.Recipe, error) {
		r := m.recipe(v)
		arp2, ok := randomArp2(v, env, atp, true)
		if !ok {
			return m.fail(r, "Fail-Debranch-"+nucleotide(atp), "no branched arp2")
		}
		first, ok := topology.NeighborOf(v, arp2, branchFirst)
		if !ok {
			return nil, invariant(v, "branched arp2 %d has no daughter", arp2)
		}
		r.RemoveEdge(arp2, first).SetFlags(arp2, nil, []string{"branched"})
		t := v.TypeOf(first)
		if topology.HasFlag(t, "barbed") {
			// a single daughter actin floats off as a monomer
			r.ChangeType(first, freeType(topology.HasFlag(t, "ATP")))
		} else {
			r.SetFlags(first, []string{"pointed"}, []string{"branch"})
		}
		klog.V(2).Infof("actin: debranch at arp2 %d", arp2)
		return r.ChangeTopologyType(TopShrinking), nil
	}
}

func (m *Model) finishCapBind(v topology.View, _ reaction.Env) (*topology.Recipe, error) {
	vCap, ok := topology.FindFirst(v, topology.Types(CapNew))
	if !ok {
		return nil, invariant(v, "no new cap")
	}
	r := m.recipe(v).SetFlags(vCap, []string{"bound"}, []string{"new"})
	// the cap sits where the next barbed actin would, pushed out by capGap
	if actin, ok := topology.NeighborOf(v, vCap, bondedActin); ok {
		if pos, err := m.endPosition(v, vCap, true); err == nil {
			a := v.PositionOf(actin)
			d := r3.Sub(m.box.NearestImage(a, pos), a)
			r.ChangePosition(vCap, m.box.Wrap(r3.Add(a, r3.Scale((BondLength()+capGap)/BondLength(), d))))
		}
	}
	return r.ChangeTopologyType(TopPolymer), nil
}

func (m *Model) capUnbind(v topology.View, env reaction.Env) (*topology.Recipe, error) {
	r := m.recipe(v)
	vCap, ok := topology.FindRandom(v, topology.Types(CapBound), env.Rand)
	if !ok {
		return m.fail(r, "Fail-Cap-Unbind", "no bound cap")
	}
	actin, ok := topology.NeighborOf(v, vCap, bondedActin)
	if !ok {
		return nil, invariant(v, "cap %d is not bound to actin", vCap)
	}
	klog.V(2).Infof("actin: cap %d unbound", vCap)
	return r.RemoveEdge(vCap, actin).
		SetFlags(vCap, nil, []string{"bound"}).
		SetFlags(actin, []string{"barbed"}, nil).
		ChangeTopologyType(TopShrinking), nil
}
