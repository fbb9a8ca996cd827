package actin

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/fiber"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

var xAxis = r3.Vec{X: 1}

var _ = Describe("Filament growth", func() {
	var (
		w *world
		g *topology.Graph
	)

	BeforeEach(func() {
		w = newWorld(DefaultParams())
		var err error
		g, err = w.gen.LinearFiber(r3.Vec{}, xAxis, 4, true)
		Expect(err).NotTo(HaveOccurred())
	})

	It("grows the barbed end by one actin on the helix", func() {
		end, ok := topology.FindFirst(g, barbedEnd)
		Expect(ok).To(BeTrue())
		Expect(g.TypeOf(end)).To(Equal("actin#barbed_ATP_1"))

		vNew := w.attach(g, end, "actin#ATP_1", NewActinATP, TopGrowingBarbed)
		Expect(w.rate("Finish_Barbed_growth", g)).To(Equal(reaction.Infinite))
		w.fire("Finish_Barbed_growth", g)

		Expect(g.Len()).To(Equal(5))
		Expect(g.TopologyType()).To(Equal(TopPolymer))
		Expect(g.TypeOf(vNew)).To(Equal("actin#barbed_ATP_2"))
		Expect(g.Neighbors(vNew)).To(ConsistOf(end))

		d := r3.Sub(g.PositionOf(vNew), g.PositionOf(end))
		Expect(r3.Norm(d)).To(BeNumerically("~", BondLength(), 1e-6))
		Expect(r3.Dot(d, xAxis)).To(BeNumerically("~", helixRise, 1e-6))
	})

	It("grows the pointed end toward -x", func() {
		end, ok := topology.FindFirst(g, topology.Types(pointedTypes...))
		Expect(ok).To(BeTrue())

		vNew := w.attach(g, end, "actin#ATP_1", NewActinATP, TopGrowingPointed)
		w.fire("Finish_Pointed_Growth", g)

		Expect(g.TypeOf(vNew)).To(Equal("actin#pointed_ATP_3"))
		d := r3.Sub(g.PositionOf(vNew), g.PositionOf(end))
		Expect(r3.Norm(d)).To(BeNumerically("~", BondLength(), 1e-6))
		Expect(r3.Dot(d, xAxis)).To(BeNumerically("~", -helixRise, 1e-6))
	})

	It("releases the pointed end and re-types both fragments", func() {
		Expect(w.rate("Pointed_Shrink_ATP", g)).To(Equal(DefaultParams().PointedShrinkATPRate))
		Expect(w.rate("Pointed_Shrink_ADP", g)).To(Equal(reaction.Inapplicable))
		w.fire("Pointed_Shrink_ATP", g)
		Expect(g.TopologyType()).To(Equal(TopShrinking))

		parts := g.Components()
		Expect(parts).To(HaveLen(2))
		var kinds []string
		for _, p := range parts {
			w.fire("Cleanup_Shrink", p)
			kinds = append(kinds, p.TopologyType())
		}
		Expect(kinds).To(ConsistOf(TopMonomer, TopTrimer))
		for _, p := range parts {
			if p.TopologyType() == TopTrimer {
				_, ok := topology.FindFirst(p, topology.Types("actin#pointed_ATP_2"))
				Expect(ok).To(BeTrue(), topology.String(p))
			}
		}
	})
})

var _ = Describe("Hydrolysis", func() {
	It("only drops the ATP flag of one actin", func() {
		w := newWorld(DefaultParams())
		g, err := w.gen.LinearFiber(r3.Vec{}, xAxis, 5, true)
		Expect(err).NotTo(HaveOccurred())
		before, edges := typesOf(g), g.Edges()
		positions := make(map[topology.VertexID]r3.Vec)
		for _, id := range g.Vertices() {
			positions[id] = g.PositionOf(id)
		}

		w.fire("Hydrolysis_Actin", g)

		changed := 0
		for id, t := range typesOf(g) {
			if t != before[id] {
				changed++
				Expect(t).To(Equal(topology.SetFlags(before[id], nil, []string{"ATP"}, order)))
			}
		}
		Expect(changed).To(Equal(1))
		Expect(g.Edges()).To(Equal(edges))
		for id, p := range positions {
			Expect(g.PositionOf(id)).To(Equal(p))
		}
	})
})

var _ = Describe("Branches", func() {
	var w *world

	BeforeEach(func() {
		w = newWorld(DefaultParams())
	})

	It("debranches a single daughter actin and keeps the mother intact", func() {
		g, err := w.gen.BranchedFiber(r3.Vec{}, xAxis, 9, 1)
		Expect(err).NotTo(HaveOccurred())
		fibers, err := w.m.Fibers(g)
		Expect(err).NotTo(HaveOccurred())
		Expect(fibers).To(HaveLen(2))
		Expect(fibers[0].NucleatedArps).To(HaveLen(1))
		Expect(fibers[0].NucleatedArps[0].DaughterFiber).To(Equal(1))
		Expect(fibers[1].MotherArp).To(Equal(fibers[0].NucleatedArps[0].ID))

		Expect(w.rate("Debranch_ATP", g)).To(Equal(reaction.Inapplicable))
		Expect(w.rate("Debranch_ADP", g)).To(Equal(DefaultParams().DebranchADPRate))
		w.fire("Debranch_ADP", g)

		parts := g.Components()
		Expect(parts).To(HaveLen(2))
		var mother *topology.Graph
		for _, p := range parts {
			w.fire("Cleanup_Shrink", p)
			if p.TopologyType() == TopPolymer {
				mother = p
			} else {
				Expect(p.TopologyType()).To(Equal(TopMonomer))
				Expect(typesOf(p)).To(ConsistOf(FreeActin))
			}
		}
		Expect(mother).NotTo(BeNil())
		fibers, err = w.m.Fibers(mother)
		Expect(err).NotTo(HaveOccurred())
		Expect(fibers).To(HaveLen(1))
		Expect(fibers[0].Len()).To(Equal(9))
		Expect(fibers[0].NucleatedArps).To(BeEmpty())
		Expect(fibers[0].BoundArps).To(HaveLen(1))
		Expect(fibers[0].BoundArps[0].State).To(Equal(fiber.ArpBound))

		By("unbinding the arp2/3 left behind")
		w.fire("Arp_Unbind_ADP", mother)
		parts = mother.Components()
		Expect(parts).To(HaveLen(2))
		var kinds []string
		for _, p := range parts {
			w.fire("Cleanup_Shrink", p)
			kinds = append(kinds, p.TopologyType())
			switch p.TopologyType() {
			case TopPolymer:
				Expect(p.Len()).To(Equal(9))
				fibers, err := w.m.Fibers(p)
				Expect(err).NotTo(HaveOccurred())
				Expect(fibers).To(HaveLen(1))
				Expect(fibers[0].Len()).To(Equal(9))
				Expect(fibers[0].BoundArps).To(BeEmpty())
			case TopArpDimer:
				Expect(p.Len()).To(Equal(2))
			}
		}
		Expect(kinds).To(ConsistOf(TopPolymer, TopArpDimer))
	})

	It("keeps a multi-actin daughter as a new pointed end", func() {
		g, err := w.gen.BranchedFiber(r3.Vec{}, xAxis, 9, 4)
		Expect(err).NotTo(HaveOccurred())
		w.fire("Debranch_ADP", g)
		parts := g.Components()
		Expect(parts).To(HaveLen(2))
		var sizes []int
		for _, p := range parts {
			sizes = append(sizes, p.Len())
			if p.Len() == 4 {
				_, ok := topology.FindFirst(p, topology.Types("actin#pointed_1"))
				Expect(ok).To(BeTrue(), topology.String(p))
				_, ok = topology.FindFirst(p, branchFirst)
				Expect(ok).To(BeFalse())
			}
		}
		Expect(sizes).To(ConsistOf(11, 4))
	})

	bind := func(g *topology.Graph, actin topology.VertexID) *topology.Graph {
		dimer, err := w.gen.ArpDimer(r3.Vec{Y: 5})
		Expect(err).NotTo(HaveOccurred())
		arp3, ok := topology.FindFirst(dimer, topology.Types(Arp3ATP))
		Expect(ok).To(BeTrue())
		merged, err := topology.Merge(g, dimer, TopBranching)
		Expect(err).NotTo(HaveOccurred())
		Expect(merged.SetType(arp3, Arp3NewATP)).To(Succeed())
		Expect(merged.AddEdge(actin, arp3)).To(Succeed())
		return merged
	}

	It("binds an arp2/3 across two mother actins", func() {
		g, err := w.gen.LinearFiber(r3.Vec{}, xAxis, 6, false)
		Expect(err).NotTo(HaveOccurred())
		ids := g.Vertices()
		g = bind(g, ids[2])
		w.fire("Finish_Arp_Bind", g)

		Expect(g.TopologyType()).To(Equal(TopPolymer))
		arp2, ok := topology.FindFirst(g, topology.Types(Arp2))
		Expect(ok).To(BeTrue())
		Expect(g.Neighbors(arp2)).To(ContainElement(ids[1]))
		_, ok = topology.FindFirst(g, topology.Types(Arp3ATP))
		Expect(ok).To(BeTrue())

		fibers, err := w.m.Fibers(g)
		Expect(err).NotTo(HaveOccurred())
		Expect(fibers).To(HaveLen(1))
		Expect(fibers[0].BoundArps).To(HaveLen(1))
		rec := fibers[0].BoundArps[0]
		Expect(rec.MotherActin).To(Equal(ids[1]))
		Expect(rec.ATP).To(BeTrue())
		Expect(rec.DistanceFromMotherPointed).To(BeNumerically("~", BondLength(), 1e-6))
	})

	It("cancels a bind that would start at the pointed end", func() {
		g, err := w.gen.LinearFiber(r3.Vec{}, xAxis, 6, false)
		Expect(err).NotTo(HaveOccurred())
		g = bind(g, g.Vertices()[1])
		w.fire("Finish_Arp_Bind", g)
		Expect(g.TopologyType()).To(Equal(TopPolymer + "#Fail-Branch-ADP"))

		parts := g.Components()
		Expect(parts).To(HaveLen(2))
		var kinds []string
		for _, p := range parts {
			w.fire("Cleanup_Fail_Arp_Bind_ADP", p)
			kinds = append(kinds, p.TopologyType())
		}
		Expect(kinds).To(ConsistOf(TopPolymer, TopArpDimer))
	})
})

var _ = Describe("Races and failures", func() {
	It("reports inapplicable rates when the structure is absent", func() {
		w := newWorld(DefaultParams())
		g, err := w.gen.LinearFiber(r3.Vec{}, xAxis, 5, false)
		Expect(err).NotTo(HaveOccurred())
		for _, name := range []string{"Debranch_ADP", "Arp_Unbind_ADP", "Cap_Unbind", "Hydrolysis_Actin", "Barbed_Shrink_ATP"} {
			Expect(w.rate(name, g)).To(Equal(reaction.Inapplicable), name)
		}
		Expect(reaction.IsApplicable(w.rate("Barbed_Shrink_ADP", g))).To(BeTrue())
	})

	It("leaves the topology untouched when a reaction loses a race", func() {
		w := newWorld(DefaultParams())
		g, err := w.gen.LinearFiber(r3.Vec{}, xAxis, 5, false)
		Expect(err).NotTo(HaveOccurred())
		before := topology.String(g)
		r := w.fire("Debranch_ADP", g)
		Expect(r.Empty()).To(BeTrue())
		Expect(topology.String(g)).To(Equal(before))
	})

	It("records and then resets the failure state", func() {
		p := DefaultParams()
		p.RecordFailures = true
		w := newWorld(p)
		g, err := w.gen.LinearFiber(r3.Vec{}, xAxis, 5, false)
		Expect(err).NotTo(HaveOccurred())
		w.fire("Debranch_ADP", g)
		Expect(g.TopologyType()).To(Equal(TopPolymer + "#Fail-Debranch-ADP"))
		Expect(w.reg.IsPending(g.TopologyType())).To(BeTrue())
		w.fire("Fail_Debranch_ADP", g)
		Expect(g.TopologyType()).To(Equal(TopPolymer))
	})
})

var _ = Describe("Caps", func() {
	It("binds beyond the barbed end and unbinds again", func() {
		w := newWorld(DefaultParams())
		g, err := w.gen.LinearFiber(r3.Vec{}, xAxis, 5, false)
		Expect(err).NotTo(HaveOccurred())
		end, ok := topology.FindFirst(g, barbedEnd)
		Expect(ok).To(BeTrue())
		endType := g.TypeOf(end)
		vCap := w.attach(g, end, topology.SetFlags(endType, nil, []string{"barbed"}, order), CapNew, TopCapping)
		w.fire("Finish_Cap-Bind", g)

		Expect(g.TypeOf(vCap)).To(Equal(CapBound))
		Expect(g.TopologyType()).To(Equal(TopPolymer))
		d := r3.Sub(g.PositionOf(vCap), g.PositionOf(end))
		Expect(r3.Norm(d)).To(BeNumerically("~", BondLength()+capGap, 1e-6))
		Expect(w.rate("Barbed_Shrink_ADP", g)).To(Equal(reaction.Inapplicable))

		w.fire("Cap_Unbind", g)
		Expect(g.TypeOf(end)).To(Equal(endType))
		Expect(g.Components()).To(HaveLen(2))
	})
})
