package microtubule

import (
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

func TestMicrotubuleReactions(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Microtubule reactions")
}

type world struct {
	m   *Model
	reg *reaction.Registry
	gen *Generator
	ids *topology.IDs
	env reaction.Env
}

func newWorld(p Params) *world {
	m, err := New(p)
	Expect(err).NotTo(HaveOccurred())
	reg, err := m.Registry()
	Expect(err).NotTo(HaveOccurred())
	ids := &topology.IDs{}
	rng := rand.New(rand.NewSource(3))
	return &world{m: m, reg: reg, gen: m.Generator(ids, rng), ids: ids, env: reaction.Env{Rand: rng}}
}

func (w *world) patch(p Patch) *topology.Graph {
	g, err := w.gen.Patch(p)
	Expect(err).NotTo(HaveOccurred())
	return g
}

func (w *world) structural(name string) reaction.Structural {
	s, ok := w.reg.LookupStructural(name)
	Expect(ok).To(BeTrue(), "reaction %s", name)
	return s
}

func (w *world) fire(name string, g *topology.Graph) *topology.Recipe {
	r, err := w.structural(name).React(g, w.env)
	Expect(err).NotTo(HaveOccurred())
	Expect(g.Apply(r)).To(Succeed())
	return r
}

func (w *world) rate(name string, g *topology.Graph) float64 {
	return w.structural(name).Rate(g, w.env)
}

// attach imitates the product side of a growth reaction.
func (w *world) attach(g *topology.Graph, to topology.VertexID, toType, newType string) topology.VertexID {
	id := w.ids.Next()
	Expect(g.AddVertex(id, newType, r3.Add(g.PositionOf(to), r3.Vec{X: 1, Y: 2}))).To(Succeed())
	Expect(g.SetType(to, toType)).To(Succeed())
	Expect(g.AddEdge(to, id)).To(Succeed())
	g.SetTopologyType(TopGrowing)
	return id
}

// cleanup splits g and runs the pending cleanup on every piece.
func (w *world) cleanup(g *topology.Graph) []*topology.Graph {
	parts := g.Components()
	for _, p := range parts {
		w.fire("Cleanup_Shrink", p)
	}
	return parts
}

func bentIDs(g *topology.Graph) []topology.VertexID {
	return topology.FindAll(g, lattice(func(t tubulin) bool { return t.bent }))
}
