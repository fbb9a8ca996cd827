package topology

import "gonum.org/v1/gonum/spatial/r3"

// VertexID identifies a particle. IDs are unique across all topologies
// owned by one driver so topologies can be merged and split freely.
type VertexID int

// View is the read-only topology surface passed to rate and reaction
// functions.
type View interface {
	TopologyType() string
	// Vertices returns ids in ascending order.
	Vertices() []VertexID
	Has(id VertexID) bool
	TypeOf(id VertexID) string
	PositionOf(id VertexID) r3.Vec
	// Neighbors returns bonded ids in ascending order.
	Neighbors(id VertexID) []VertexID
}
