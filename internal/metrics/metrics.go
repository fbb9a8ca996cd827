// Package metrics reduces recorded frames to run observables.
package metrics

import (
	"math"

	"github.com/san-kum/fibersim/internal/trajectory"
)

// Last reports the value of its probe at the latest observed frame.
type Last struct {
	probe Probe
	value float64
}

func NewLast(p Probe) *Last { return &Last{probe: p} }

func (l *Last) Name() string               { return l.probe.Name() }
func (l *Last) Observe(f trajectory.Frame) { l.value = l.probe.At(f) }
func (l *Last) Value() float64             { return l.value }
func (l *Last) Reset()                     { l.value = 0 }

// Mean averages its probe over every observed frame.
type Mean struct {
	probe   Probe
	total   float64
	samples int
}

func NewMean(p Probe) *Mean { return &Mean{probe: p} }

func (m *Mean) Name() string { return "mean_" + m.probe.Name() }

func (m *Mean) Observe(f trajectory.Frame) {
	m.total += m.probe.At(f)
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Mean) Reset() {
	m.total = 0
	m.samples = 0
}

// Peak is the largest value its probe reached.
type Peak struct {
	probe Probe
	max   float64
	seen  bool
}

func NewPeak(p Probe) *Peak { return &Peak{probe: p} }

func (p *Peak) Name() string { return "peak_" + p.probe.Name() }

func (p *Peak) Observe(f trajectory.Frame) {
	v := p.probe.At(f)
	if !p.seen || v > p.max {
		p.max, p.seen = v, true
	}
}

func (p *Peak) Value() float64 {
	if !p.seen {
		return math.NaN()
	}
	return p.max
}

func (p *Peak) Reset() {
	p.max = 0
	p.seen = false
}
