package experiment

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/engine"
	"github.com/san-kum/fibersim/internal/metrics"
	"github.com/san-kum/fibersim/internal/system"
	"github.com/san-kum/fibersim/internal/trajectory"
)

var ErrNotSetup = errors.New("experiment: not set up")

// Experiment ties a config to one simulation and the time series of its
// model's probes.
type Experiment struct {
	cfg        *config.Config
	model      Model
	system     *system.System
	simulation *engine.Simulation
	series     *metrics.Series
}

func New(reg *Registry, cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := reg.GetModel(cfg)
	if err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, model: m}, nil
}

// Setup builds the system and the initial topologies. Frames go to every
// recorder given.
func (e *Experiment) Setup(reg *Registry, recorders ...trajectory.Recorder) error {
	sys, err := e.model.System()
	if err != nil {
		return errors.Wrapf(err, "%s system", e.model.Name())
	}
	graphs, err := e.model.Initial(rand.New(rand.NewSource(e.cfg.Engine.Seed)))
	if err != nil {
		return errors.Wrapf(err, "%s initial state", e.model.Name())
	}
	s, err := engine.New(sys, graphs, e.cfg.Engine)
	if err != nil {
		return err
	}
	for _, m := range reg.DefaultMetrics(e.model) {
		s.AddMetric(m)
	}
	e.series = metrics.NewSeries(e.model.Probes()...)
	s.AddObserver(e.series)
	switch len(recorders) {
	case 0:
	case 1:
		s.SetRecorder(recorders[0])
	default:
		s.SetRecorder(trajectory.Multi(recorders))
	}
	e.system, e.simulation = sys, s
	klog.V(1).Infof("experiment: %s set up with %d topologies", e.model.Name(), len(graphs))
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*engine.Result, error) {
	if e.simulation == nil {
		return nil, ErrNotSetup
	}
	return e.simulation.Run(ctx)
}

func (e *Experiment) Config() *config.Config         { return e.cfg }
func (e *Experiment) Model() Model                   { return e.model }
func (e *Experiment) Series() *metrics.Series        { return e.series }
func (e *Experiment) System() *system.System         { return e.system }
func (e *Experiment) Simulation() *engine.Simulation { return e.simulation }

// Ensemble runs runs copies of cfg, seeded from cfg.Engine.Seed upward.
func Ensemble(reg *Registry, cfg *config.Config, runs int) *engine.Ensemble {
	build := func(seed int64) (*engine.Simulation, error) {
		c := *cfg
		c.Engine.Seed = seed
		e, err := New(reg, &c)
		if err != nil {
			return nil, err
		}
		if err := e.Setup(reg); err != nil {
			return nil, err
		}
		return e.Simulation(), nil
	}
	return engine.NewEnsemble(build, runs, cfg.Engine.Seed)
}
