package fiber

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/topology"
)

type ArpState int

const (
	// ArpAssigned: the complex has reached the filament but its binding
	// has not been finished.
	ArpAssigned ArpState = iota
	ArpBound
	ArpNucleated
)

func (s ArpState) String() string {
	switch s {
	case ArpAssigned:
		return "assigned"
	case ArpBound:
		return "bound"
	case ArpNucleated:
		return "nucleated"
	}
	return "unknown"
}

// ArpRecord is a branch point derived from the graph. IDs refer to live
// vertices and fibers of the same snapshot.
type ArpRecord struct {
	ID          topology.VertexID
	Arp3        topology.VertexID
	MotherActin topology.VertexID
	Position    r3.Vec
	State       ArpState
	ATP         bool
	// MotherFiber and DaughterFiber are fiber ids, -1 when absent.
	MotherFiber   int
	DaughterFiber int
	// DistanceFromMotherPointed is the arc length of the mother actin.
	DistanceFromMotherPointed float64
}
