package engine

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/trajectory"
)

var (
	ErrBadConfig         = errors.New("engine: invalid config")
	ErrPendingUnresolved = errors.New("engine: pending reactions did not settle")
)

// Config drives one run. Dt is in ns.
type Config struct {
	Dt           float64 `yaml:"dt"`
	Steps        int     `yaml:"steps"`
	RecordStride int     `yaml:"record_stride"`
	// MaxPending bounds the rounds of pending reactions resolved between
	// two steps.
	MaxPending int   `yaml:"max_pending"`
	Seed       int64 `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{Dt: 0.1, Steps: 1000, RecordStride: 10, MaxPending: 64, Seed: 1}
}

func (c Config) validate() error {
	switch {
	case !(c.Dt > 0):
		return errors.Wrapf(ErrBadConfig, "dt must be positive, got %g", c.Dt)
	case c.Steps < 0:
		return errors.Wrapf(ErrBadConfig, "steps must not be negative, got %d", c.Steps)
	case c.RecordStride < 0:
		return errors.Wrapf(ErrBadConfig, "record stride must not be negative, got %d", c.RecordStride)
	case c.MaxPending < 1:
		return errors.Wrapf(ErrBadConfig, "max pending must be positive, got %d", c.MaxPending)
	}
	return nil
}

// Metric reduces frames to one observable.
type Metric interface {
	Name() string
	Observe(f trajectory.Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f trajectory.Frame)
}

// Result summarizes a run.
type Result struct {
	Seed       int64
	StepsTaken int
	Time       float64
	// Fired counts reactions by name.
	Fired   map[string]int
	Metrics map[string]float64
	Final   trajectory.Frame
}

// SimulationError aborts a run: a reaction broke an invariant or left the
// system in a state the setup never declared.
type SimulationError struct {
	Step     int
	Time     float64
	Reaction string
	Wrapped  error
}

func (e *SimulationError) Error() string {
	if e.Reaction == "" {
		return fmt.Sprintf("step %d (t=%.4g ns): %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4g ns): %s: %v", e.Step, e.Time, e.Reaction, e.Wrapped)
}

func (e *SimulationError) Unwrap() error { return e.Wrapped }
