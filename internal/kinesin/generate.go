package kinesin

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/topology"
)

// Generator builds initial kinesin topologies from a shared id allocator.
type Generator struct {
	m   *Model
	ids *topology.IDs
	rng *rand.Rand
}

func (m *Model) Generator(ids *topology.IDs, rng *rand.Rand) *Generator {
	return &Generator{m: m, ids: ids, rng: rng}
}

// layTrack adds n track tubulins from start along dir to gr.
func (g *Generator) layTrack(gr *topology.Graph, start, dir r3.Vec, n int) ([]topology.VertexID, error) {
	u, err := geom.Normalize(dir)
	if err != nil {
		return nil, errors.Wrap(err, "track direction")
	}
	ids := make([]topology.VertexID, n)
	for k := 0; k < n; k++ {
		ids[k] = g.ids.Next()
		pos := g.m.box.Wrap(r3.Add(start, r3.Scale(float64(k)*Spacing, u)))
		if err := gr.AddVertex(ids[k], trackType(k), pos); err != nil {
			return nil, err
		}
		if k > 0 {
			if err := gr.AddEdge(ids[k-1], ids[k]); err != nil {
				return nil, err
			}
		}
	}
	return ids, nil
}

// Track is a bare straight track of n tubulins, minus end at start.
func (g *Generator) Track(start, dir r3.Vec, n int) (*topology.Graph, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrBadParams, "track of %d tubulins", n)
	}
	gr := topology.NewGraph(TopTrack)
	if _, err := g.layTrack(gr, start, dir, n); err != nil {
		return nil, errors.Wrap(err, "kinesin track")
	}
	return gr, nil
}

// Motor is a free kinesin with two ADP heads on either side of its hips.
func (g *Generator) Motor(pos r3.Vec) (*topology.Graph, error) {
	gr := topology.NewGraph(TopKinesin)
	u := geom.RandomUnitVector(g.rng)
	h := g.ids.Next()
	if err := gr.AddVertex(h, Hips, g.m.box.Wrap(pos)); err != nil {
		return nil, errors.Wrap(err, "kinesin motor")
	}
	for _, s := range []float64{1, -1} {
		id := g.ids.Next()
		if err := gr.AddVertex(id, HeadADP, g.m.box.Wrap(r3.Add(pos, r3.Scale(s*g.m.p.NeckLength, u)))); err != nil {
			return nil, errors.Wrap(err, "kinesin motor")
		}
		if err := gr.AddEdge(h, id); err != nil {
			return nil, errors.Wrap(err, "kinesin motor")
		}
	}
	return gr, nil
}

// Docked lays a track of n tubulins along X from the origin with one
// motor standing on it. sites are the track positions the heads are bound
// to (odd, one or two of them) and nucs the nucleotide of each bound head
// (Apo or ATP). A motor on one site keeps its second head unbound.
func (g *Generator) Docked(n int, sites []int, nucs []string) (*topology.Graph, error) {
	if len(sites) < 1 || len(sites) > 2 || len(nucs) != len(sites) {
		return nil, errors.Wrapf(ErrBadParams, "%d sites with %d nucleotides", len(sites), len(nucs))
	}
	for i, s := range sites {
		if s < 0 || s >= n || s%2 == 0 {
			return nil, errors.Wrapf(ErrBadParams, "position %d of %d is not a binding site", s, n)
		}
		if nucs[i] != Apo && nucs[i] != ATP {
			return nil, errors.Wrapf(ErrBadParams, "bound head with %s", nucs[i])
		}
	}
	p := g.m.p
	gr := topology.NewGraph(TopComplex)
	track, err := g.layTrack(gr, r3.Vec{}, r3.Vec{X: 1}, n)
	if err != nil {
		return nil, errors.Wrap(err, "docked motor")
	}
	z := r3.Vec{Z: 1}
	var heads []topology.VertexID
	var mid r3.Vec
	for i, s := range sites {
		if err := gr.SetType(track[s], topology.SetFlags(gr.TypeOf(track[s]), []string{"bound"}, []string{"free"}, order)); err != nil {
			return nil, err
		}
		pos := r3.Add(gr.PositionOf(track[s]), r3.Scale(p.headSiteDistance(), z))
		typ := topology.ParticleType{Base: "head", Flags: []string{nucs[i], "bound"}}.Format(order)
		id := g.ids.Next()
		if err := gr.AddVertex(id, typ, g.m.box.Wrap(pos)); err != nil {
			return nil, err
		}
		if err := gr.AddEdge(id, track[s]); err != nil {
			return nil, err
		}
		heads = append(heads, id)
		mid = r3.Add(mid, r3.Scale(1/float64(len(sites)), pos))
	}
	half := 0.0
	if len(sites) == 2 {
		half = math.Abs(float64(sites[1]-sites[0])) * Spacing / 2
	}
	rise := p.NeckLength
	if half < p.NeckLength {
		rise = math.Sqrt(p.NeckLength*p.NeckLength - half*half)
	}
	hipsPos := r3.Add(mid, r3.Scale(rise, z))
	h := g.ids.Next()
	if err := gr.AddVertex(h, Hips, g.m.box.Wrap(hipsPos)); err != nil {
		return nil, err
	}
	if len(sites) == 1 {
		id := g.ids.Next()
		if err := gr.AddVertex(id, HeadADP, g.m.box.Wrap(r3.Add(hipsPos, r3.Vec{X: p.NeckLength}))); err != nil {
			return nil, err
		}
		heads = append(heads, id)
	}
	for _, id := range heads {
		if err := gr.AddEdge(h, id); err != nil {
			return nil, err
		}
	}
	return gr, nil
}

// Initial builds one track through the box center and the free motors.
func (g *Generator) Initial() ([]*topology.Graph, error) {
	p := g.m.p
	var out []*topology.Graph
	if p.TrackLength > 0 {
		start := r3.Vec{X: -float64(p.TrackLength-1) * Spacing / 2}
		t, err := g.Track(start, r3.Vec{X: 1}, p.TrackLength)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	for i := 0; i < p.Motors; i++ {
		mo, err := g.Motor(g.m.box.RandomPoint(g.rng, p.NeckLength+p.HeadRadius))
		if err != nil {
			return nil, err
		}
		out = append(out, mo)
	}
	klog.Infof("kinesin: track of %d tubulins, %d motors", p.TrackLength, p.Motors)
	return out, nil
}
