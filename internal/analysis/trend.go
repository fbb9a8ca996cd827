package analysis

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrShortSeries = errors.New("analysis: series too short")

// Trend fits values = intercept + slope*times by least squares. r2 is NaN
// for a constant series.
func Trend(times, values []float64) (slope, intercept, r2 float64, err error) {
	if len(times) != len(values) {
		return 0, 0, 0, errors.Errorf("analysis: %d times, %d values", len(times), len(values))
	}
	if len(values) < 2 {
		return 0, 0, 0, ErrShortSeries
	}
	intercept, slope = stat.LinearRegression(times, values, nil, false)
	if floats.Min(values) == floats.Max(values) {
		return slope, intercept, math.NaN(), nil
	}
	return slope, intercept, stat.RSquared(times, values, nil, intercept, slope), nil
}

// Summary describes one observable over a run.
type Summary struct {
	Name      string
	Mean, Std float64
	Min, Max  float64
	// Slope is the fitted rate of change per ns.
	Slope float64
	R2    float64
	// Period is the dominant period in ns, 0 when there is none.
	Period float64
}

func Summarize(name string, times, values []float64) (Summary, error) {
	s := Summary{Name: name}
	var err error
	if s.Slope, _, s.R2, err = Trend(times, values); err != nil {
		return s, errors.Wrap(err, name)
	}
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	s.Min, s.Max = floats.Min(values), floats.Max(values)
	if p, ok := DominantPeriod(values, times[1]-times[0]); ok {
		s.Period = p
	}
	return s, nil
}
