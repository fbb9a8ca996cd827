package kinesin

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

// Vertex ids of a docked motor built first in a fresh world: the track
// is 0..7, then one head per site, then the hips.
const (
	trailingHead topology.VertexID = 8
	leadingHead  topology.VertexID = 9
	dockedHips   topology.VertexID = 10
)

var _ = Describe("Binding catalog", func() {
	It("registers binding from bare tracks, crowded tracks and stepping motors", func() {
		w := newWorld(DefaultParams())
		Expect(w.reg.Spatial()).To(HaveLen(9))
		s, ok := w.reg.LookupSpatial("Motor_Bind_Tubulin_Step_2")
		Expect(ok).To(BeTrue())
		Expect(s.Pattern.First.Topology).To(Equal(TopComplex))
		Expect(s.Pattern.First.Particle).To(Equal("tubulinB#free_2"))
		Expect(s.Pattern.Second.Topology).To(Equal(TopComplex))
		Expect(s.Pattern.Second.Particle).To(Equal(HeadADP))
		Expect(s.Pattern.Product.Topology).To(Equal(TopBinding))
		Expect(s.Pattern.Product.First).To(Equal("tubulinB#bound_2"))
		Expect(s.Pattern.Product.Second).To(Equal(HeadNew))
		p := DefaultParams()
		Expect(s.Radius).To(BeNumerically("~", p.HeadRadius+p.TubulinRadius+p.ReactionDistance))
		Expect(w.reg.IsPending(TopBinding)).To(BeTrue())
		Expect(w.reg.IsPending(TopReleasing)).To(BeTrue())
	})
})

var _ = Describe("Motor binding", func() {
	It("docks a free motor head above its site on the hips side", func() {
		w := newWorld(DefaultParams())
		track, err := w.gen.Track(r3.Vec{}, r3.Vec{X: 1}, 8)
		Expect(err).NotTo(HaveOccurred())
		motor, err := w.gen.Motor(r3.Vec{X: 12, Y: 9})
		Expect(err).NotTo(HaveOccurred())
		g, err := topology.Merge(track, motor, TopBinding)
		Expect(err).NotTo(HaveOccurred())

		site := topology.VertexID(3)
		Expect(g.TypeOf(site)).To(Equal("tubulinB#free_1"))
		head := topology.FindAll(g, topology.Types(HeadADP))[0]
		bind(g, site, head)

		Expect(w.rate("Finish_Motor_Bind", g)).To(Equal(reaction.Infinite))
		w.fire("Finish_Motor_Bind", g)

		Expect(g.TopologyType()).To(Equal(TopComplex))
		Expect(g.TypeOf(head)).To(Equal(HeadApoBound))
		Expect(g.TypeOf(site)).To(Equal("tubulinB#bound_1"))
		d := r3.Sub(g.PositionOf(head), g.PositionOf(site))
		Expect(r3.Norm(d)).To(BeNumerically("~", DefaultParams().headSiteDistance(), 1e-9))
		Expect(d.X).To(BeNumerically("~", 0, 1e-9))
		Expect(d.Y).To(BeNumerically(">", 0))

		ms, err := Motors(g)
		Expect(err).NotTo(HaveOccurred())
		Expect(ms).To(HaveLen(1))
		Expect(ms[0].BoundHeads()).To(Equal(1))
	})

	It("binds ATP in one apo head at a time", func() {
		w := newWorld(DefaultParams())
		g := w.docked([]int{1, 3}, []string{Apo, Apo})
		Expect(w.rate("Motor_Bind_ATP", g)).To(Equal(DefaultParams().BindATPRate))

		w.fire("Motor_Bind_ATP", g)
		Expect(topology.FindAll(g, topology.Types(HeadATPBound))).To(HaveLen(1))
		w.fire("Motor_Bind_ATP", g)
		Expect(topology.FindAll(g, topology.Types(HeadATPBound))).To(ConsistOf(trailingHead, leadingHead))
		Expect(w.rate("Motor_Bind_ATP", g)).To(Equal(reaction.Inapplicable))
	})
})

var _ = Describe("Stepping", func() {
	var (
		w *world
		g *topology.Graph
	)

	BeforeEach(func() {
		w = newWorld(DefaultParams())
		g = w.docked([]int{1, 3}, []string{ATP, Apo})
	})

	It("needs ATP in the trailing head", func() {
		other := newWorld(DefaultParams())
		h := other.docked([]int{1, 3}, []string{Apo, ATP})
		Expect(other.rate("Motor_Release_Tubulin", h)).To(Equal(reaction.Inapplicable))
		Expect(w.rate("Motor_Release_Tubulin", g)).To(Equal(DefaultParams().ReleaseTubulinRate))
	})

	It("releases the trailing head and swings it past the leading one", func() {
		t, l := stance(g)
		Expect(t.ID).To(Equal(trailingHead))
		Expect(l.Index).To(Equal(3))

		w.fire("Motor_Release_Tubulin", g)
		Expect(g.TopologyType()).To(Equal(TopReleasing))
		Expect(g.TypeOf(trailingHead)).To(Equal(HeadADP))
		Expect(g.TypeOf(1)).To(Equal("tubulinB#free_2"))
		Expect(g.Neighbors(trailingHead)).To(ConsistOf(dockedHips))
		d := geom.Distance(g.PositionOf(trailingHead), g.PositionOf(5))
		Expect(d).To(BeNumerically("~", DefaultParams().headSiteDistance(), 1e-9))

		Expect(w.rate("Cleanup_Release_Tubulin", g)).To(Equal(reaction.Infinite))
		w.fire("Cleanup_Release_Tubulin", g)
		Expect(g.TopologyType()).To(Equal(TopComplex))
	})

	It("walks one step toward the plus end", func() {
		w.fire("Motor_Release_Tubulin", g)
		w.fire("Cleanup_Release_Tubulin", g)
		bind(g, 5, trailingHead)
		w.fire("Finish_Motor_Bind", g)

		t, l := stance(g)
		Expect(t.ID).To(Equal(leadingHead))
		Expect(t.Index).To(Equal(3))
		Expect(l.ID).To(Equal(trailingHead))
		Expect(l.Index).To(Equal(5))
		Expect(l.Nucleotide).To(Equal(Apo))
		c, err := w.m.Potentials()
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Check(g)).To(Succeed())
	})
})

var _ = Describe("Failures", func() {
	It("leaves the complex untouched unless failures are recorded", func() {
		w := newWorld(DefaultParams())
		g := w.docked([]int{1, 3}, []string{ATP, ATP})
		Expect(w.fire("Motor_Bind_ATP", g).Empty()).To(BeTrue())
		Expect(g.TopologyType()).To(Equal(TopComplex))
	})

	It("records a failed release and resets it", func() {
		p := DefaultParams()
		p.RecordFailures = true
		w := newWorld(p)
		g := w.docked([]int{3}, []string{ATP})
		w.fire("Motor_Release_Tubulin", g)
		Expect(g.TopologyType()).To(Equal(TopComplex + "#Fail-Release-Tubulin"))
		Expect(w.reg.IsPending(g.TopologyType())).To(BeTrue())
		w.fire("Fail_Release_Tubulin", g)
		Expect(g.TopologyType()).To(Equal(TopComplex))
	})
})

var _ = Describe("Settled states", func() {
	It("types pieces by what they hold", func() {
		w := newWorld(DefaultParams())
		track, err := w.gen.Track(r3.Vec{}, r3.Vec{Y: 1}, 5)
		Expect(err).NotTo(HaveOccurred())
		motor, err := w.gen.Motor(r3.Vec{X: 30})
		Expect(err).NotTo(HaveOccurred())
		Expect(state(track)).To(Equal(TopTrack))
		Expect(state(motor)).To(Equal(TopKinesin))
		Expect(state(w.docked([]int{1}, []string{Apo}))).To(Equal(TopComplex))
	})
})
