package topology

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// Graph is an in-memory topology: typed, positioned vertices and
// undirected bonds. It implements View.
type Graph struct {
	typ   string
	types map[VertexID]string
	pos   map[VertexID]r3.Vec
	adj   map[VertexID]map[VertexID]struct{}
}

func NewGraph(topologyType string) *Graph {
	return &Graph{
		typ:   topologyType,
		types: make(map[VertexID]string),
		pos:   make(map[VertexID]r3.Vec),
		adj:   make(map[VertexID]map[VertexID]struct{}),
	}
}

func (g *Graph) TopologyType() string              { return g.typ }
func (g *Graph) SetTopologyType(t string)          { g.typ = t }
func (g *Graph) Has(id VertexID) bool              { _, ok := g.types[id]; return ok }
func (g *Graph) TypeOf(id VertexID) string         { return g.types[id] }
func (g *Graph) PositionOf(id VertexID) r3.Vec     { return g.pos[id] }
func (g *Graph) Len() int                          { return len(g.types) }
func (g *Graph) Degree(id VertexID) int            { return len(g.adj[id]) }
func (g *Graph) SetPosition(id VertexID, p r3.Vec) { g.pos[id] = p }

func (g *Graph) Vertices() []VertexID {
	ids := make([]VertexID, 0, len(g.types))
	for id := range g.types {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *Graph) Neighbors(id VertexID) []VertexID {
	ns := make([]VertexID, 0, len(g.adj[id]))
	for n := range g.adj[id] {
		ns = append(ns, n)
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
	return ns
}

func (g *Graph) AddVertex(id VertexID, typ string, p r3.Vec) error {
	if g.Has(id) {
		return errors.Wrapf(ErrDuplicateID, "vertex %d", id)
	}
	if typ == "" {
		return errors.Wrapf(ErrBadType, "vertex %d has empty type", id)
	}
	g.types[id] = typ
	g.pos[id] = p
	g.adj[id] = make(map[VertexID]struct{})
	return nil
}

func (g *Graph) SetType(id VertexID, typ string) error {
	if !g.Has(id) {
		return errors.Wrapf(ErrUnknownVertex, "vertex %d", id)
	}
	if typ == "" {
		return errors.Wrapf(ErrBadType, "vertex %d", id)
	}
	g.types[id] = typ
	return nil
}

func (g *Graph) AddEdge(a, b VertexID) error {
	if !g.Has(a) || !g.Has(b) {
		return errors.Wrapf(ErrUnknownVertex, "edge %d--%d", a, b)
	}
	if a == b {
		return errors.Wrapf(ErrSelfEdge, "vertex %d", a)
	}
	if _, ok := g.adj[a][b]; ok {
		return errors.Wrapf(ErrDuplicateEdge, "edge %d--%d", a, b)
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
	return nil
}

func (g *Graph) RemoveEdge(a, b VertexID) error {
	if _, ok := g.adj[a][b]; !ok {
		return errors.Wrapf(ErrMissingEdge, "edge %d--%d", a, b)
	}
	delete(g.adj[a], b)
	delete(g.adj[b], a)
	return nil
}

// Edges lists every bond once as (low, high), sorted.
func (g *Graph) Edges() [][2]VertexID {
	var out [][2]VertexID
	for _, a := range g.Vertices() {
		for _, b := range g.Neighbors(a) {
			if a < b {
				out = append(out, [2]VertexID{a, b})
			}
		}
	}
	return out
}

func (g *Graph) Clone() *Graph {
	c := NewGraph(g.typ)
	for id, t := range g.types {
		c.types[id] = t
		c.pos[id] = g.pos[id]
		c.adj[id] = make(map[VertexID]struct{}, len(g.adj[id]))
		for n := range g.adj[id] {
			c.adj[id][n] = struct{}{}
		}
	}
	return c
}

// Apply performs every operation of r or none of them.
func (g *Graph) Apply(r *Recipe) error {
	if r == nil || r.Empty() {
		return nil
	}
	next := g.Clone()
	for i, op := range r.Ops() {
		var err error
		switch op.Kind {
		case OpAddEdge:
			err = next.AddEdge(op.A, op.B)
		case OpRemoveEdge:
			err = next.RemoveEdge(op.A, op.B)
		case OpChangeType:
			err = next.SetType(op.A, op.Type)
		case OpChangePosition:
			if !next.Has(op.A) {
				err = errors.Wrapf(ErrUnknownVertex, "vertex %d", op.A)
			} else {
				next.pos[op.A] = op.Position
			}
		case OpChangeTopologyType:
			next.typ = op.Type
		}
		if err != nil {
			return errors.Wrapf(err, "recipe op %d (%s)", i, op.Kind)
		}
	}
	*g = *next
	return nil
}

// Components splits g into its connected components, lowest id first.
// Every component keeps g's topology type.
func (g *Graph) Components() []*Graph {
	seen := make(map[VertexID]bool, len(g.types))
	var out []*Graph
	for _, start := range g.Vertices() {
		if seen[start] {
			continue
		}
		c := NewGraph(g.typ)
		stack := []VertexID{start}
		seen[start] = true
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			c.types[id] = g.types[id]
			c.pos[id] = g.pos[id]
			c.adj[id] = make(map[VertexID]struct{}, len(g.adj[id]))
			for n := range g.adj[id] {
				c.adj[id][n] = struct{}{}
				if !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
		out = append(out, c)
	}
	return out
}

// Merge joins two topologies into a new one of the given type.
func Merge(a, b *Graph, topologyType string) (*Graph, error) {
	m := a.Clone()
	m.typ = topologyType
	for id, t := range b.types {
		if m.Has(id) {
			return nil, errors.Wrapf(ErrDuplicateID, "merging vertex %d", id)
		}
		m.types[id] = t
		m.pos[id] = b.pos[id]
		m.adj[id] = make(map[VertexID]struct{}, len(b.adj[id]))
		for n := range b.adj[id] {
			m.adj[id][n] = struct{}{}
		}
	}
	return m, nil
}
