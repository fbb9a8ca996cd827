package metrics

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fibersim/internal/topology"
	"github.com/san-kum/fibersim/internal/trajectory"
)

// Probe reads one observable off a frame.
type Probe interface {
	Name() string
	At(f trajectory.Frame) float64
}

type probeFunc struct {
	name string
	fn   func(trajectory.Frame) float64
}

func (p probeFunc) Name() string                  { return p.name }
func (p probeFunc) At(f trajectory.Frame) float64 { return p.fn(f) }

func baseOf(topologyType string) string {
	base, _, _ := strings.Cut(topologyType, "#")
	return base
}

// TopologyCount counts the topologies whose type, sub-state stripped, is
// base.
func TopologyCount(name, base string) Probe {
	return probeFunc{name, func(f trajectory.Frame) float64 {
		n := 0
		for _, t := range f.Topologies {
			if baseOf(t.Type) == base {
				n++
			}
		}
		return float64(n)
	}}
}

// MeanSize is the mean particle count of the topologies counted by
// TopologyCount, or 0 without any.
func MeanSize(name, base string) Probe {
	return probeFunc{name, func(f trajectory.Frame) float64 {
		var sizes []float64
		for _, t := range f.Topologies {
			if baseOf(t.Type) == base {
				sizes = append(sizes, float64(t.Size))
			}
		}
		if len(sizes) == 0 {
			return 0
		}
		return floats.Sum(sizes) / float64(len(sizes))
	}}
}

// FlagFraction is the share of particles with one of bases that carry
// flag, or 0 without any such particle.
func FlagFraction(name, flag string, bases ...string) Probe {
	want := make(map[string]bool, len(bases))
	for _, b := range bases {
		want[b] = true
	}
	return probeFunc{name, func(f trajectory.Frame) float64 {
		total, flagged := 0, 0
		for _, p := range f.Particles {
			t := topology.ParseType(p.Type)
			if !want[t.Base] {
				continue
			}
			total++
			if t.Has(flag) {
				flagged++
			}
		}
		if total == 0 {
			return 0
		}
		return float64(flagged) / float64(total)
	}}
}

// ParticleCount counts the particles whose type m accepts.
func ParticleCount(name string, m topology.Matcher) Probe {
	return probeFunc{name, func(f trajectory.Frame) float64 {
		n := 0
		for _, p := range f.Particles {
			if m.Match(p.Type) {
				n++
			}
		}
		return float64(n)
	}}
}
