package engine

import (
	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

// site is one particle that can take part in a spatial reaction.
type site struct {
	g  *topology.Graph
	id topology.VertexID
}

type siteKey struct{ topology, particle string }

// candidates indexes every particle by its topology and particle type.
func (s *Simulation) candidates() map[siteKey][]site {
	out := make(map[siteKey][]site)
	for _, g := range s.graphs {
		t := g.TopologyType()
		for _, id := range g.Vertices() {
			k := siteKey{t, g.TypeOf(id)}
			out[k] = append(out[k], site{g, id})
		}
	}
	return out
}

// pairs lists the reactant pairs of r within its radius. Two particles
// of one topology react only when both reactants name the same topology
// type and the particles are not already bonded.
func (s *Simulation) pairs(r reaction.Spatial, index map[siteKey][]site) [][2]site {
	p := r.Pattern
	firsts := index[siteKey{p.First.Topology, p.First.Particle}]
	seconds := index[siteKey{p.Second.Topology, p.Second.Particle}]
	if len(firsts) == 0 || len(seconds) == 0 {
		return nil
	}
	grid := geom.NewGrid(s.sys.Box, r.Radius)
	for i, b := range seconds {
		grid.Insert(i, b.g.PositionOf(b.id))
	}
	var out [][2]site
	for _, a := range firsts {
		pa := a.g.PositionOf(a.id)
		grid.Near(pa, func(i int) {
			b := seconds[i]
			if a.g == b.g {
				if p.First.Topology != p.Second.Topology || a.id == b.id || topology.AreBonded(a.g, a.id, b.id) {
					return
				}
			}
			pb := s.sys.Box.NearestImage(pa, b.g.PositionOf(b.id))
			if geom.Distance(pa, pb) <= r.Radius {
				out = append(out, [2]site{a, b})
			}
		})
	}
	return out
}

// spatialStep samples every spatial reaction over the current pairs. A
// topology takes part in at most one spatial event per step.
func (s *Simulation) spatialStep() error {
	index := s.candidates()
	used := make(map[*topology.Graph]bool)
	for _, r := range s.sys.Reactions.Spatial() {
		if r.Rate <= 0 {
			continue
		}
		prob := s.probability(r.Rate)
		for _, pr := range s.pairs(r, index) {
			a, b := pr[0], pr[1]
			if used[a.g] || used[b.g] || s.rng.Float64() >= prob {
				continue
			}
			merged, err := s.fuse(r, a, b)
			if err != nil {
				return err
			}
			used[a.g], used[b.g], used[merged] = true, true, true
		}
	}
	if len(used) == 0 {
		return nil
	}
	return s.resolvePending()
}

// fuse joins the topologies of a and b, bonds the two particles and
// applies the product types.
func (s *Simulation) fuse(r reaction.Spatial, a, b site) (*topology.Graph, error) {
	p := r.Pattern
	g := a.g
	if a.g != b.g {
		m, err := topology.Merge(a.g, b.g, a.g.TopologyType())
		if err != nil {
			return nil, s.fail(r.Name, err)
		}
		g = m
	}
	recipe := topology.NewRecipe(g, s.sys.Order).
		ChangeType(a.id, p.Product.First).
		ChangeType(b.id, p.Product.Second).
		AddEdge(a.id, b.id).
		ChangeTopologyType(p.Product.Topology)
	if err := g.Apply(recipe); err != nil {
		return nil, s.fail(r.Name, errors.Wrap(err, "fuse"))
	}
	if err := s.validate(g); err != nil {
		return nil, s.fail(r.Name, err)
	}
	var next []*topology.Graph
	for _, h := range s.graphs {
		if h != a.g && h != b.g {
			next = append(next, h)
		}
	}
	s.graphs = append(next, g)
	s.fired[r.Name]++
	return g, nil
}
