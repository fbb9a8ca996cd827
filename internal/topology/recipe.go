package topology

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

type OpKind int

const (
	OpAddEdge OpKind = iota
	OpRemoveEdge
	OpChangeType
	OpChangePosition
	OpChangeTopologyType
)

func (k OpKind) String() string {
	switch k {
	case OpAddEdge:
		return "add_edge"
	case OpRemoveEdge:
		return "remove_edge"
	case OpChangeType:
		return "change_type"
	case OpChangePosition:
		return "change_position"
	case OpChangeTopologyType:
		return "change_topology_type"
	}
	return "unknown"
}

type Op struct {
	Kind     OpKind
	A, B     VertexID
	Type     string
	Position r3.Vec
}

// Recipe is an ordered list of edits against one topology. An empty recipe
// is a no-op. Type lookups through the recipe see its own pending changes.
type Recipe struct {
	view    View
	order   FlagOrder
	ops     []Op
	pending map[VertexID]string
	topType string
}

func NewRecipe(v View, order FlagOrder) *Recipe {
	return &Recipe{view: v, order: order, pending: make(map[VertexID]string)}
}

func (r *Recipe) AddEdge(a, b VertexID) *Recipe {
	r.ops = append(r.ops, Op{Kind: OpAddEdge, A: a, B: b})
	return r
}

func (r *Recipe) RemoveEdge(a, b VertexID) *Recipe {
	r.ops = append(r.ops, Op{Kind: OpRemoveEdge, A: a, B: b})
	return r
}

func (r *Recipe) ChangeType(id VertexID, typ string) *Recipe {
	r.pending[id] = typ
	r.ops = append(r.ops, Op{Kind: OpChangeType, A: id, Type: typ})
	return r
}

func (r *Recipe) ChangePosition(id VertexID, p r3.Vec) *Recipe {
	r.ops = append(r.ops, Op{Kind: OpChangePosition, A: id, Position: p})
	return r
}

func (r *Recipe) ChangeTopologyType(typ string) *Recipe {
	r.topType = typ
	r.ops = append(r.ops, Op{Kind: OpChangeTopologyType, Type: typ})
	return r
}

// TypeOf returns the type of id after the edits queued so far.
func (r *Recipe) TypeOf(id VertexID) string {
	if t, ok := r.pending[id]; ok {
		return t
	}
	return r.view.TypeOf(id)
}

// TopologyType returns the topology type after the edits queued so far.
func (r *Recipe) TopologyType() string {
	if r.topType != "" {
		return r.topType
	}
	return r.view.TopologyType()
}

func (r *Recipe) SetFlags(id VertexID, add, remove []string) *Recipe {
	return r.ChangeType(id, SetFlags(r.TypeOf(id), add, remove, r.order))
}

// Retype rewrites the parsed type of id with fn.
func (r *Recipe) Retype(id VertexID, fn func(ParticleType) ParticleType) *Recipe {
	return r.ChangeType(id, fn(ParseType(r.TypeOf(id))).Format(r.order))
}

func (r *Recipe) Ops() []Op   { return r.ops }
func (r *Recipe) Len() int    { return len(r.ops) }
func (r *Recipe) Empty() bool { return len(r.ops) == 0 }

// ChangesConnectivity reports whether the recipe adds or removes a bond.
func (r *Recipe) ChangesConnectivity() bool {
	for _, op := range r.ops {
		if op.Kind == OpAddEdge || op.Kind == OpRemoveEdge {
			return true
		}
	}
	return false
}

func (r *Recipe) String() string {
	var b strings.Builder
	for _, op := range r.ops {
		switch op.Kind {
		case OpAddEdge, OpRemoveEdge:
			fmt.Fprintf(&b, "%s %d--%d; ", op.Kind, op.A, op.B)
		case OpChangeType:
			fmt.Fprintf(&b, "%s %d=%s; ", op.Kind, op.A, op.Type)
		case OpChangePosition:
			fmt.Fprintf(&b, "%s %d=(%.2f, %.2f, %.2f); ", op.Kind, op.A, op.Position.X, op.Position.Y, op.Position.Z)
		case OpChangeTopologyType:
			fmt.Fprintf(&b, "%s %s; ", op.Kind, op.Type)
		}
	}
	return strings.TrimSuffix(b.String(), "; ")
}
