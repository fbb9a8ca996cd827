package actin

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/fiber"
	"github.com/san-kum/fibersim/internal/topology"
)

var fiberStart = topology.MatchFunc(func(t string) bool {
	return filament.Match(t) && (topology.HasFlag(t, "pointed") || topology.HasFlag(t, "branch"))
})

// Fibers walks every filament of v from its pointed end and attaches the
// arp2/3 complexes bound along it. Positions are unwrapped across periodic
// walls so each fiber is a contiguous curve.
func (m *Model) Fibers(v topology.View) ([]*fiber.Fiber, error) {
	var fibers []*fiber.Fiber
	owner := make(map[topology.VertexID]int)
	for _, start := range topology.FindAll(v, fiberStart) {
		chain, err := fiber.Walk(v, start, filament)
		if err != nil {
			return nil, errors.Wrapf(err, "actin fiber from %d", start)
		}
		pos := make([]r3.Vec, len(chain))
		for i, id := range chain {
			pos[i] = v.PositionOf(id)
			if i > 0 {
				pos[i] = m.box.NearestImage(pos[i-1], pos[i])
			}
		}
		f, err := fiber.New(len(fibers), chain, pos)
		if err != nil {
			return nil, errors.Wrapf(err, "actin fiber from %d", start)
		}
		for _, id := range chain {
			owner[id] = f.ID
		}
		fibers = append(fibers, f)
	}

	for _, arp2 := range topology.FindAll(v, anyArp2) {
		rec, err := m.arpRecord(v, arp2, fibers, owner)
		if err != nil {
			return nil, err
		}
		if rec.MotherFiber < 0 {
			continue
		}
		mother := fibers[rec.MotherFiber]
		if rec.State == fiber.ArpNucleated {
			mother.NucleatedArps = append(mother.NucleatedArps, rec)
			if rec.DaughterFiber >= 0 {
				fibers[rec.DaughterFiber].MotherArp = arp2
			}
		} else {
			mother.BoundArps = append(mother.BoundArps, rec)
		}
	}
	return fibers, nil
}

func (m *Model) arpRecord(v topology.View, arp2 topology.VertexID, fibers []*fiber.Fiber, owner map[topology.VertexID]int) (fiber.ArpRecord, error) {
	rec := fiber.ArpRecord{
		ID:            arp2,
		Arp3:          fiber.NoVertex,
		MotherActin:   fiber.NoVertex,
		Position:      v.PositionOf(arp2),
		State:         fiber.ArpBound,
		MotherFiber:   -1,
		DaughterFiber: -1,
	}
	if arp3, ok := topology.NeighborOf(v, arp2, anyArp3); ok {
		rec.Arp3 = arp3
		t := v.TypeOf(arp3)
		rec.ATP = topology.HasFlag(t, "ATP")
		if topology.HasFlag(t, "new") {
			rec.State = fiber.ArpAssigned
		}
	}
	mother, ok := topology.NeighborOf(v, arp2, motherActin)
	if !ok {
		// a free arp2/3 dimer
		return rec, nil
	}
	rec.MotherActin = mother
	fid, ok := owner[mother]
	if !ok {
		return rec, invariant(v, "arp2 %d bound to actin %d outside every fiber", arp2, mother)
	}
	rec.MotherFiber = fid
	if i, ok := fibers[fid].IndexOf(mother); ok {
		rec.DistanceFromMotherPointed = fibers[fid].Points[i].ArcLength
	}
	if v.TypeOf(arp2) == Arp2Branched {
		rec.State = fiber.ArpNucleated
		if d, ok := topology.NeighborOf(v, arp2, branchFirst); ok {
			if did, ok := owner[d]; ok {
				rec.DaughterFiber = did
			}
		}
	}
	return rec, nil
}
