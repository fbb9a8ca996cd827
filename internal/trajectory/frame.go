// Package trajectory holds per-step snapshots of every topology and the
// sinks that store them.
package trajectory

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/topology"
)

type Particle struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Position r3.Vec `json:"position"`
	Topology int    `json:"topology"`
}

// Topology is one connected graph of a frame.
type Topology struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Size  int    `json:"size"`
}

type Frame struct {
	Step       int        `json:"step"`
	Time       float64    `json:"time"` // ns
	Particles  []Particle `json:"particles"`
	Topologies []Topology `json:"topologies"`
	Edges      [][2]int   `json:"edges"`
}

// Snapshot copies the graphs into a frame. Particles are sorted by id
// within each topology.
func Snapshot(step int, time float64, graphs []*topology.Graph) Frame {
	f := Frame{Step: step, Time: time}
	for i, g := range graphs {
		f.Topologies = append(f.Topologies, Topology{Index: i, Type: g.TopologyType(), Size: g.Len()})
		for _, id := range g.Vertices() {
			f.Particles = append(f.Particles, Particle{ID: int(id), Type: g.TypeOf(id), Position: g.PositionOf(id), Topology: i})
		}
		for _, e := range g.Edges() {
			f.Edges = append(f.Edges, [2]int{int(e[0]), int(e[1])})
		}
	}
	sort.Slice(f.Edges, func(i, j int) bool {
		if f.Edges[i][0] != f.Edges[j][0] {
			return f.Edges[i][0] < f.Edges[j][0]
		}
		return f.Edges[i][1] < f.Edges[j][1]
	})
	return f
}

// CountTopologies returns how many topologies of each type the frame
// holds.
func (f Frame) CountTopologies() map[string]int {
	out := make(map[string]int)
	for _, t := range f.Topologies {
		out[t.Type]++
	}
	return out
}

// ParticlesOf lists the particles of topology i.
func (f Frame) ParticlesOf(i int) []Particle {
	var out []Particle
	for _, p := range f.Particles {
		if p.Topology == i {
			out = append(out, p)
		}
	}
	return out
}
