package metrics

import (
	"sync"

	"github.com/san-kum/fibersim/internal/trajectory"
)

// Series samples every probe at each observed frame.
type Series struct {
	mu     sync.Mutex
	probes []Probe
	steps  []int
	times  []float64
	rows   [][]float64
}

func NewSeries(probes ...Probe) *Series { return &Series{probes: probes} }

func (s *Series) OnStep(f trajectory.Frame) {
	row := make([]float64, len(s.probes))
	for i, p := range s.probes {
		row[i] = p.At(f)
	}
	s.mu.Lock()
	s.steps = append(s.steps, f.Step)
	s.times = append(s.times, f.Time)
	s.rows = append(s.rows, row)
	s.mu.Unlock()
}

func (s *Series) Columns() []string {
	out := make([]string, len(s.probes))
	for i, p := range s.probes {
		out[i] = p.Name()
	}
	return out
}

// Rows returns copies of the sampled steps, times and values.
func (s *Series) Rows() ([]int, []float64, [][]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([][]float64, len(s.rows))
	for i, r := range s.rows {
		rows[i] = append([]float64(nil), r...)
	}
	return append([]int(nil), s.steps...), append([]float64(nil), s.times...), rows
}

// Column returns the samples of one probe, or nil for an unknown name.
func (s *Series) Column(name string) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.probes {
		if p.Name() != name {
			continue
		}
		out := make([]float64, len(s.rows))
		for j, r := range s.rows {
			out[j] = r[i]
		}
		return out
	}
	return nil
}

func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
