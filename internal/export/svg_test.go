package export

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/trajectory"
	"github.com/san-kum/fibersim/internal/viz"
)

func testFrame() trajectory.Frame {
	return trajectory.Frame{
		Step: 20,
		Time: 2,
		Particles: []trajectory.Particle{
			{ID: 1, Type: "actin#pointed_ATP_1", Position: r3.Vec{X: -2}},
			{ID: 2, Type: "actin#barbed_ATP_2", Position: r3.Vec{X: 2}},
			{ID: 3, Type: "arp2", Position: r3.Vec{X: 60}},
		},
		Topologies: []trajectory.Topology{{Index: 0, Type: "Actin-Polymer", Size: 2}, {Index: 1, Type: "Arp23-Dimer", Size: 1}},
		Edges:      [][2]int{{1, 2}, {2, 3}},
	}
}

func TestFrameToSVG(t *testing.T) {
	f := testFrame()
	theme := viz.GetTheme("ocean")
	svg := FrameToSVG(f, viz.NewCamera(100), viz.SpeciesOf(f), theme, 400, 2)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("%d circles, want 3", n)
	}
	// the second bond spans more than half the box
	if n := strings.Count(svg, "<line"); n != 1 {
		t.Errorf("%d lines, want 1", n)
	}
	if !strings.Contains(svg, "step 20") || !strings.Contains(svg, "arp2") {
		t.Error("missing label or particle title")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0, 0)
	c.Set(1, 3, 1)
	c.Set(7, 7, 2)
	svg := CanvasToSVG(c, 2, viz.GetTheme("ocean"))
	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("%d dots, want 3", n)
	}
	if CanvasToSVG(nil, 1, viz.GetTheme("ocean")) != "" {
		t.Error("nil canvas should give no svg")
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{5, 5, 5}, 100, 50, "#fff")
	if !strings.Contains(svg, "M0.0,25.0 L50.0,25.0 L100.0,25.0") {
		t.Errorf("path = %s", svg)
	}
	if SeriesToSVG([]float64{0}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("one sample should give no svg")
	}
}
