package actin

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

// frame returns the positions of ids as seen from the middle one, so a
// chain straddling a periodic wall stays contiguous.
func (m *Model) frame(v topology.View, ids [3]topology.VertexID) [3]r3.Vec {
	mid := v.PositionOf(ids[1])
	return [3]r3.Vec{
		m.box.NearestImage(mid, v.PositionOf(ids[0])),
		mid,
		m.box.NearestImage(mid, v.PositionOf(ids[2])),
	}
}

func (m *Model) place(v topology.View, ids [3]topology.VertexID, offset r3.Vec) (r3.Vec, error) {
	p, err := geom.PlaceFromFrame(m.frame(v, ids), ideal.orientation, offset)
	if err != nil {
		return r3.Vec{}, errors.Wrapf(err, "placing from %v", ids)
	}
	return m.box.Wrap(p), nil
}

// endPosition places a new actin at the barbed or pointed end it was
// just bonded to, continuing the helix of the three actins behind it.
// Within three actins of a branch junction the frame comes from the mother
// filament instead.
func (m *Model) endPosition(v topology.View, vNew topology.VertexID, barbed bool) (r3.Vec, error) {
	var chain [3]topology.VertexID
	cur, exclude := vNew, []topology.VertexID(nil)
	for i := range chain {
		next, ok := topology.NeighborOf(v, cur, anyActin, exclude...)
		if !ok {
			ids, offset, err := m.branchFrame(v, vNew)
			if err != nil {
				return r3.Vec{}, err
			}
			return m.place(v, ids, offset)
		}
		chain[i] = next
		cur, exclude = next, []topology.VertexID{cur}
	}
	if barbed {
		return m.place(v, [3]topology.VertexID{chain[2], chain[1], chain[0]}, ideal.barbedOffset())
	}
	return m.place(v, chain, ideal.pointedOffset())
}

// branchFrame finds the mother actins under the arp2/3 complex nearest to
// id and the ideal offset of id's position in the daughter.
func (m *Model) branchFrame(v topology.View, id topology.VertexID) ([3]topology.VertexID, r3.Vec, error) {
	var none [3]topology.VertexID
	cur, prev := id, id
	steps := 1
	arp2, found := topology.NeighborOf(v, cur, anyArp2)
	for !found {
		next, ok := topology.NeighborOf(v, cur, anyActin, prev)
		if !ok || steps >= len(ideal.daughter) {
			return none, r3.Vec{}, invariant(v, "no arp2 within %d actins of %d", len(ideal.daughter), id)
		}
		prev, cur = cur, next
		steps++
		arp2, found = topology.NeighborOf(v, cur, anyArp2)
	}
	ids, err := motherFrame(v, arp2)
	if err != nil {
		return none, r3.Vec{}, err
	}
	return ids, ideal.branchOffset(steps - 1), nil
}

// motherFrame returns [actin before actinArp2, actinArp2, actinArp3] for
// a bound arp2.
func motherFrame(v topology.View, arp2 topology.VertexID) ([3]topology.VertexID, error) {
	var none [3]topology.VertexID
	arp3, ok := topology.NeighborOf(v, arp2, anyArp3)
	if !ok {
		return none, invariant(v, "arp2 %d has no arp3", arp2)
	}
	actinArp3, ok := topology.NeighborOf(v, arp3, topology.Or(plainActin, barbedEnd))
	if !ok {
		return none, invariant(v, "arp3 %d is not bound to a mother actin", arp3)
	}
	n, err := number(v, actinArp3, -1)
	if err != nil {
		return none, err
	}
	actinArp2, ok := topology.NeighborOf(v, actinArp3, topology.Types(numbered(n, "actin#", "actin#ATP_")...))
	if !ok {
		return none, invariant(v, "no mother actin %d before %d", n, actinArp3)
	}
	before, ok, err := pointedNeighbor(v, actinArp2, actinArp3)
	if err != nil {
		return none, err
	}
	if !ok {
		return none, invariant(v, "no actin before %d", actinArp2)
	}
	return [3]topology.VertexID{before, actinArp2, actinArp3}, nil
}

// pointedNeighbor finds the actin one step toward the pointed end of id.
func pointedNeighbor(v topology.View, id topology.VertexID, exclude ...topology.VertexID) (topology.VertexID, bool, error) {
	n, err := number(v, id, -1)
	if err != nil {
		return 0, false, err
	}
	p, ok := topology.NeighborOf(v, id, pointedNeighborTypes(n), exclude...)
	return p, ok, nil
}

// arpPositions places a freshly bound arp2 and arp3 against the mother
// actins they bridge.
func (m *Model) arpPositions(v topology.View, actinArp2, actinArp3 topology.VertexID) (r3.Vec, r3.Vec, error) {
	before, ok, err := pointedNeighbor(v, actinArp2, actinArp3)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	if !ok {
		return r3.Vec{}, r3.Vec{}, invariant(v, "no actin before %d", actinArp2)
	}
	ids := [3]topology.VertexID{before, actinArp2, actinArp3}
	p2, err := m.place(v, ids, ideal.arp2Offset())
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	p3, err := m.place(v, ids, ideal.arp3Offset())
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	return p2, p3, nil
}

// trimerPosition swings a monomer just bonded to a dimer's barbed end
// onto the ideal actin angle at the ideal bond length.
func (m *Model) trimerPosition(v topology.View, env reaction.Env, vNew, pointed, barbed topology.VertexID) r3.Vec {
	pb := v.PositionOf(barbed)
	toPointed := r3.Sub(m.box.NearestImage(pb, v.PositionOf(pointed)), pb)
	toNew := r3.Sub(m.box.NearestImage(pb, v.PositionOf(vNew)), pb)
	p, err := swing(toPointed, toNew)
	if err != nil {
		// collinear or coincident
		axis, aerr := geom.Normalize(toPointed)
		if aerr != nil {
			axis = geom.RandomUnitVector(env.Rand)
		}
		perp, _ := geom.RandomPerpendicular(axis, env.Rand)
		a := ActinAngle()
		p = r3.Scale(BondLength(), r3.Add(r3.Scale(math.Cos(a), axis), r3.Scale(math.Sin(a), perp)))
	}
	return m.box.Wrap(r3.Add(pb, p))
}

func swing(toPointed, toNew r3.Vec) (r3.Vec, error) {
	current, err := geom.AngleBetween(toPointed, toNew)
	if err != nil {
		return r3.Vec{}, err
	}
	dir, err := geom.Normalize(toNew)
	if err != nil {
		return r3.Vec{}, err
	}
	return geom.Rotate(r3.Scale(BondLength(), dir), r3.Cross(toPointed, toNew), ActinAngle()-current)
}
