package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/fibersim/internal/topology"
	"github.com/san-kum/fibersim/internal/trajectory"
)

func frame(step int, particles ...trajectory.Particle) trajectory.Frame {
	f := trajectory.Frame{Step: step, Time: float64(step) / 10, Particles: particles}
	sizes := make(map[int]int)
	for _, p := range particles {
		sizes[p.Topology]++
	}
	types := []string{"Actin-Polymer", "Actin-Monomer", "Actin-Polymer#Shrinking"}
	for i, typ := range types {
		if n, ok := sizes[i]; ok {
			f.Topologies = append(f.Topologies, trajectory.Topology{Index: i, Type: typ, Size: n})
		}
	}
	return f
}

func particles() []trajectory.Particle {
	return []trajectory.Particle{
		{ID: 0, Type: "actin#pointed_ATP_1", Topology: 0},
		{ID: 1, Type: "actin#2", Topology: 0},
		{ID: 2, Type: "actin#barbed_ATP_3", Topology: 0},
		{ID: 3, Type: "actin#free_ATP", Topology: 1},
		{ID: 4, Type: "actin#pointed_1", Topology: 2},
		{ID: 5, Type: "actin#barbed_2", Topology: 2},
		{ID: 6, Type: "cap#bound", Topology: 2},
	}
}

func TestProbes(t *testing.T) {
	f := frame(0, particles()...)
	tests := []struct {
		probe Probe
		want  float64
	}{
		{TopologyCount("filaments", "Actin-Polymer"), 2},
		{TopologyCount("monomers", "Actin-Monomer"), 1},
		{MeanSize("filament_size", "Actin-Polymer"), 3},
		{MeanSize("nothing", "Arp23-Dimer"), 0},
		{FlagFraction("atp", "ATP", "actin"), 0.5},
		{FlagFraction("gtp", "GTP", "tubulinA"), 0},
		{ParticleCount("caps", topology.Types("cap#bound")), 1},
		{ParticleCount("pointed", topology.Prefix("actin#pointed")), 2},
	}
	for _, tt := range tests {
		t.Run(tt.probe.Name(), func(t *testing.T) {
			if got := tt.probe.At(f); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("At = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestReducers(t *testing.T) {
	count := TopologyCount("topologies", "Actin-Polymer")
	last, mean, peak := NewLast(count), NewMean(count), NewPeak(count)
	if !math.IsNaN(peak.Value()) {
		t.Error("peak without samples")
	}
	ps := particles()
	for _, f := range []trajectory.Frame{frame(0, ps...), frame(1, ps[:4]...), frame(2, ps[3:4]...)} {
		last.Observe(f)
		mean.Observe(f)
		peak.Observe(f)
	}
	if last.Value() != 0 || mean.Value() != 1 || peak.Value() != 2 {
		t.Errorf("last %g mean %g peak %g", last.Value(), mean.Value(), peak.Value())
	}
	if mean.Name() != "mean_topologies" || peak.Name() != "peak_topologies" || last.Name() != "topologies" {
		t.Errorf("names %s %s %s", last.Name(), mean.Name(), peak.Name())
	}
	mean.Reset()
	if mean.Value() != 0 {
		t.Error("reset mean")
	}
}

func TestSeries(t *testing.T) {
	s := NewSeries(TopologyCount("filaments", "Actin-Polymer"), FlagFraction("atp", "ATP", "actin"))
	s.OnStep(frame(0, particles()...))
	s.OnStep(frame(10, particles()[:3]...))
	if cols := s.Columns(); len(cols) != 2 || cols[1] != "atp" {
		t.Errorf("columns = %v", cols)
	}
	steps, times, rows := s.Rows()
	if len(rows) != 2 || steps[1] != 10 || times[1] != 1 || rows[1][0] != 1 || rows[1][1] != 2.0/3 {
		t.Errorf("rows = %v %v %v", steps, times, rows)
	}
	if col := s.Column("filaments"); len(col) != 2 || col[0] != 2 {
		t.Errorf("column = %v", col)
	}
	if s.Column("missing") != nil {
		t.Error("unknown column")
	}
}
