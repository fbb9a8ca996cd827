package kinesin

import (
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

func TestKinesinReactions(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Kinesin reactions")
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
	rng := rand.New(rand.NewSource(5))
	return &world{m: m, reg: reg, gen: m.Generator(ids, rng), ids: ids, env: reaction.Env{Rand: rng}}
}

func (w *world) docked(sites []int, nucs []string) *topology.Graph {
	g, err := w.gen.Docked(8, sites, nucs)
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

// bind imitates the product side of a binding reaction: head reaches the
// free site and g becomes a binding complex.
func bind(g *topology.Graph, site, head topology.VertexID) {
	Expect(g.SetType(site, topology.SetFlags(g.TypeOf(site), []string{"bound"}, []string{"free"}, order))).To(Succeed())
	Expect(g.SetType(head, HeadNew)).To(Succeed())
	Expect(g.AddEdge(site, head)).To(Succeed())
	g.SetTopologyType(TopBinding)
}

func stance(g *topology.Graph) (Head, Head) {
	ms, err := Motors(g)
	Expect(err).NotTo(HaveOccurred())
	Expect(ms).To(HaveLen(1))
	t, l, ok := ms[0].Stance()
	Expect(ok).To(BeTrue(), "motor is not standing on two heads")
	return t, l
}
