package tui

import (
	"bytes"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/trajectory"
)

func TestDraw(t *testing.T) {
	r := NewLiveRenderer(&bytes.Buffer{}, "actin", geom.NewCubicBox(100, false), 10)
	f := trajectory.Frame{
		Particles: []trajectory.Particle{
			{ID: 0, Type: "actin#ATP_1", Position: r3.Vec{X: -20}},
			{ID: 1, Type: "actin#ATP_2", Position: r3.Vec{X: 20}},
			{ID: 2, Type: "cap", Position: r3.Vec{X: -49, Y: 49}},
		},
		Edges: [][2]int{{0, 1}},
	}
	r.Draw(f)
	rows := r.Canvas()
	mid := rows[height/2-1]
	if strings.Count(mid, "a") != 2 || !strings.Contains(mid, "a....") {
		t.Errorf("middle row %q", mid)
	}
	if rows[0][0] != 'c' {
		t.Errorf("top row %q", rows[0])
	}
}

func TestOnStepWritesSummary(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "kinesin", geom.NewCubicBox(50, true), 1000)
	r.OnStep(trajectory.Frame{
		Step: 7,
		Topologies: []trajectory.Topology{
			{Index: 0, Type: "Kinesin", Size: 3},
			{Index: 1, Type: "Microtubule", Size: 8},
			{Index: 2, Type: "Kinesin", Size: 3},
		},
	})
	s := out.String()
	if !strings.Contains(s, "step=7") || !strings.Contains(s, "Kinesin=2 Microtubule=1") {
		t.Errorf("output %q", s)
	}
}
