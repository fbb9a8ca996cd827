package microtubule

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

// id returns the vertex id of a lattice site in a patch built first in
// a fresh world.
func id(ring, filament, filaments int) topology.VertexID {
	return topology.VertexID(ring*filaments + filament)
}

var _ = Describe("Lattice patch", func() {
	It("numbers rings with the helical carry and flags the frayed plus end", func() {
		w := newWorld(DefaultParams())
		g := w.patch(Patch{Rings: 4, Filaments: 3, Connections: Frayed(4, 3, 1), GTPRings: 2})

		Expect(g.Len()).To(Equal(12))
		Expect(g.TypeOf(id(0, 0, 3))).To(Equal("tubulinA#GDP_1_1"))
		Expect(g.TypeOf(id(1, 2, 3))).To(Equal("tubulinB#GDP_2_3"))
		Expect(g.TypeOf(id(2, 1, 3))).To(Equal("tubulinA#GTP_3_2"))
		Expect(g.TypeOf(id(3, 0, 3))).To(Equal("tubulinB#GTP_bent_end_1_2"))
		Expect(g.TypeOf(id(3, 2, 3))).To(Equal("tubulinB#GTP_bent_end_1_1"))

		Expect(g.Neighbors(id(0, 0, 3))).To(ConsistOf(id(0, 1, 3), id(1, 0, 3)))
		Expect(g.Neighbors(id(3, 1, 3))).To(ConsistOf(id(2, 1, 3)))
		Expect(bentIDs(g)).To(ConsistOf(id(3, 0, 3), id(3, 1, 3), id(3, 2, 3)))

		plus, ok := plusNeighbor(g, id(2, 0, 3))
		Expect(ok).To(BeTrue())
		Expect(plus).To(Equal(id(3, 0, 3)))
		Expect(lateralNeighbors(g, id(1, 1, 3))).To(ConsistOf(id(1, 0, 3), id(1, 2, 3)))
	})

	It("rejects a connection matrix of the wrong shape", func() {
		w := newWorld(DefaultParams())
		_, err := w.gen.Patch(Patch{Rings: 2, Filaments: 3, Connections: Frayed(3, 3, 0)})
		Expect(err).To(MatchError(ErrBadParams))
	})
})

var _ = Describe("Protofilament growth", func() {
	var (
		w *world
		g *topology.Graph
	)

	BeforeEach(func() {
		w = newWorld(DefaultParams())
		g = w.patch(Patch{Rings: 3, Filaments: 3, Connections: Frayed(3, 3, 1), GTPRings: 1})
	})

	It("registers growth onto every plus-end type", func() {
		Expect(w.reg.Spatial()).To(HaveLen(2 * 2 * 2 * 2 * 9))
		s, ok := w.reg.LookupSpatial("Grow_GTP_A-GTP-bent_3_1")
		Expect(ok).To(BeTrue())
		Expect(s.Pattern.First.Particle).To(Equal("tubulinA#GTP_bent_end_3_1"))
		Expect(s.Pattern.Second.Particle).To(Equal("tubulinB#GTP_free"))
		Expect(s.Pattern.Product.Topology).To(Equal(TopGrowing))
		Expect(s.Pattern.Product.First).To(Equal("tubulinA#GTP_bent_3_1"))
		Expect(s.Pattern.Product.Second).To(Equal("tubulinB#GTP_new"))
	})

	It("adds a bent end one spacing along the protofilament with carry", func() {
		end := id(2, 0, 3)
		Expect(g.TypeOf(end)).To(Equal("tubulinA#GTP_bent_end_3_1"))

		vNew := w.attach(g, end, "tubulinA#GTP_bent_3_1", NewType("B", GTP))
		Expect(w.rate("Finish_Grow", g)).To(Equal(reaction.Infinite))
		w.fire("Finish_Grow", g)

		Expect(g.TopologyType()).To(Equal(TopMicrotubule))
		Expect(g.TypeOf(vNew)).To(Equal("tubulinB#GTP_bent_end_1_2"))
		n1, n2 := polymer.LatticeNumbers(3, 0)
		Expect([]int{n1, n2}).To(Equal([]int{1, 2}))
		Expect(g.Neighbors(vNew)).To(ConsistOf(end))
		Expect(r3.Norm(r3.Sub(g.PositionOf(vNew), idealPosition(3, 0)))).To(BeNumerically("<", 1e-9))

		plus, ok := plusNeighbor(g, end)
		Expect(ok).To(BeTrue())
		Expect(plus).To(Equal(vNew))
	})

	It("releases a bent plus end and hands the end flag down", func() {
		Expect(w.rate("Shrink_GTP", g)).To(Equal(DefaultParams().ShrinkGTPRate))
		Expect(w.rate("Shrink_GDP", g)).To(Equal(reaction.Inapplicable))

		w.fire("Shrink_GTP", g)
		Expect(g.TopologyType()).To(Equal(TopShrinking))
		freed := topology.FindAll(g, topology.Types(FreeType("A", GTP)))
		Expect(freed).To(HaveLen(1))
		f := int(freed[0] - id(2, 0, 3))
		Expect(g.Neighbors(freed[0])).To(BeEmpty())
		Expect(g.TypeOf(id(1, f, 3))).To(Equal(tubulinType("B", GDP, false, true, 2, f+1)))

		parts := w.cleanup(g)
		Expect(parts).To(HaveLen(2))
		var tops []string
		for _, p := range parts {
			tops = append(tops, p.TopologyType())
		}
		Expect(tops).To(ConsistOf(TopMicrotubule, TopFree))
	})

	It("hydrolyzes only tubulins below the plus end", func() {
		Expect(w.rate("Hydrolyze", g)).To(Equal(reaction.Inapplicable))

		g = w.patch(Patch{Rings: 3, Filaments: 3, GTPRings: 2})
		before := g.Clone()
		w.fire("Hydrolyze", g)
		var changed []topology.VertexID
		for _, v := range g.Vertices() {
			if g.TypeOf(v) != before.TypeOf(v) {
				changed = append(changed, v)
			}
		}
		Expect(changed).To(HaveLen(1))
		t, ok := parseTubulin(g.TypeOf(changed[0]))
		Expect(ok).To(BeTrue())
		Expect(t.nuc).To(Equal(GDP))
		Expect(t.end).To(BeFalse())
		Expect(g.Edges()).To(Equal(before.Edges()))
	})
})

var _ = Describe("Ring bonds", func() {
	It("zips bent ring mates that are within reach", func() {
		w := newWorld(DefaultParams())
		g := w.patch(Patch{Rings: 3, Filaments: 3, Connections: Frayed(3, 3, 1), GTPRings: 1})
		a, b, c := id(2, 0, 3), id(2, 1, 3), id(2, 2, 3)
		// a and c share numbers with ring mates but sit two protofilaments apart.
		Expect(w.m.attachPairs(g, GTP)).To(HaveLen(4))

		w.fire("Attach_GTP", g)
		Expect(bentIDs(g)).To(HaveLen(1))
		w.fire("Attach_GTP", g)

		Expect(topology.AreBonded(g, a, b)).To(BeTrue())
		Expect(topology.AreBonded(g, b, c)).To(BeTrue())
		Expect(topology.AreBonded(g, a, c)).To(BeFalse())
		Expect(bentIDs(g)).To(BeEmpty())
		Expect(w.rate("Attach_GTP", g)).To(Equal(reaction.Inapplicable))
	})

	It("unzips a lateral bond at the plus end and bends the loose tubulin", func() {
		w := newWorld(DefaultParams())
		g := w.patch(Patch{Rings: 3, Filaments: 3, GTPRings: 3})
		Expect(w.rate("Detach_GTP", g)).To(Equal(DefaultParams().DetachGTPRate))
		Expect(w.rate("Detach_GDP", g)).To(Equal(reaction.Inapplicable))

		w.fire("Detach_GTP", g)
		Expect(g.TopologyType()).To(Equal(TopShrinking))
		ends := []topology.VertexID{id(2, 0, 3), id(2, 1, 3), id(2, 2, 3)}
		lateral := 0
		for _, e := range ends {
			lateral += len(lateralNeighbors(g, e))
		}
		Expect(lateral).To(Equal(2))
		bent := bentIDs(g)
		Expect(bent).To(HaveLen(1))
		Expect(bent[0]).To(BeElementOf(ends[0], ends[2]))

		parts := w.cleanup(g)
		Expect(parts).To(HaveLen(1))
		Expect(parts[0].TopologyType()).To(Equal(TopMicrotubule))
	})
})

var _ = Describe("Failures", func() {
	It("leaves the lattice alone when nothing can shrink", func() {
		w := newWorld(DefaultParams())
		g := w.patch(Patch{Rings: 2, Filaments: 2})
		before := topology.String(g)
		r := w.fire("Shrink_GDP", g)
		Expect(r.Empty()).To(BeTrue())
		Expect(topology.String(g)).To(Equal(before))
	})

	It("records and resets a failure sub-state", func() {
		p := DefaultParams()
		p.RecordFailures = true
		w := newWorld(p)
		g := w.patch(Patch{Rings: 2, Filaments: 2})
		w.fire("Shrink_GDP", g)
		Expect(g.TopologyType()).To(Equal("Microtubule#Fail-Shrink-GDP"))
		Expect(w.reg.IsPending(g.TopologyType())).To(BeTrue())
		w.fire("Fail_Shrink_GDP", g)
		Expect(g.TopologyType()).To(Equal(TopMicrotubule))
	})
})
