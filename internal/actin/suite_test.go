package actin

import (
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

func TestActinReactions(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Actin reactions")
}

// world bundles a model, its registry and a deterministic generator.
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
	rng := rand.New(rand.NewSource(7))
	return &world{m: m, reg: reg, gen: m.Generator(ids, rng), ids: ids, env: reaction.Env{Rand: rng}}
}

func (w *world) structural(name string) reaction.Structural {
	s, ok := w.reg.LookupStructural(name)
	Expect(ok).To(BeTrue(), "reaction %s", name)
	return s
}

// fire runs a structural reaction on g and applies its recipe.
func (w *world) fire(name string, g *topology.Graph) *topology.Recipe {
	r, err := w.structural(name).React(g, w.env)
	Expect(err).NotTo(HaveOccurred())
	Expect(g.Apply(r)).To(Succeed())
	return r
}

func (w *world) rate(name string, g *topology.Graph) float64 {
	return w.structural(name).Rate(g, w.env)
}

// attach imitates the product side of a spatial reaction: the reactant
// particle is retyped and bonded to a fresh particle of newType.
func (w *world) attach(g *topology.Graph, to topology.VertexID, toType, newType, topologyType string) topology.VertexID {
	id := w.ids.Next()
	Expect(g.AddVertex(id, newType, r3.Add(g.PositionOf(to), r3.Vec{X: 0.5, Y: 0.5}))).To(Succeed())
	Expect(g.SetType(to, toType)).To(Succeed())
	Expect(g.AddEdge(to, id)).To(Succeed())
	g.SetTopologyType(topologyType)
	return id
}

func typesOf(g *topology.Graph) map[topology.VertexID]string {
	out := make(map[topology.VertexID]string)
	for _, id := range g.Vertices() {
		out[id] = g.TypeOf(id)
	}
	return out
}
