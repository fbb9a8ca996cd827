package microtubule

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/fiber"
	"github.com/san-kum/fibersim/internal/topology"
)

// Site places a tubulin in its microtubule: the protofilament it belongs
// to and its ring counted from that protofilament's minus end.
type Site struct {
	Protofilament int
	Ring          int
}

// Protofilaments walks every protofilament from its minus end to its plus
// end. Positions are unwrapped across periodic walls.
func (m *Model) Protofilaments(v topology.View) ([]*fiber.Fiber, map[topology.VertexID]Site, error) {
	var out []*fiber.Fiber
	sites := make(map[topology.VertexID]Site)
	for _, start := range topology.FindAll(v, anyLattice) {
		if _, ok := minusNeighbor(v, start); ok {
			continue
		}
		var ids []topology.VertexID
		var pos []r3.Vec
		for id, ok := start, true; ok; id, ok = plusNeighbor(v, id) {
			if _, seen := sites[id]; seen {
				return nil, nil, invariant(v, "tubulin %d is on two protofilaments", id)
			}
			p := v.PositionOf(id)
			if len(pos) > 0 {
				p = m.box.NearestImage(pos[len(pos)-1], p)
			}
			sites[id] = Site{Protofilament: len(out), Ring: len(ids)}
			ids = append(ids, id)
			pos = append(pos, p)
		}
		f, err := fiber.New(len(out), ids, pos)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, f)
	}
	return out, sites, nil
}
