// Package engine is a reference driver for the reaction catalogs: it
// samples structural and spatial reactions, resolves pending states,
// diffuses free particles and free complexes and records frames.
package engine

import (
	"context"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/system"
	"github.com/san-kum/fibersim/internal/topology"
	"github.com/san-kum/fibersim/internal/trajectory"
)

// Simulation owns every topology of one run.
type Simulation struct {
	sys    *system.System
	cfg    Config
	graphs []*topology.Graph
	ids    *topology.IDs
	rng    *rand.Rand

	step  int
	time  float64
	fired map[string]int

	recorder  trajectory.Recorder
	metrics   []Metric
	observers []Observer
}

// New validates the initial topologies against sys and takes ownership of
// them.
func New(sys *system.System, graphs []*topology.Graph, cfg Config) (*Simulation, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		sys:   sys,
		cfg:   cfg,
		ids:   &topology.IDs{},
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		fired: make(map[string]int),
	}
	for i, g := range graphs {
		if err := sys.ValidateGraph(g); err != nil {
			return nil, errors.Wrapf(err, "initial topology %d", i)
		}
		if err := sys.ValidateBonds(g); err != nil {
			return nil, errors.Wrapf(err, "initial topology %d", i)
		}
		s.ids.Reserve(g)
		s.graphs = append(s.graphs, g)
	}
	return s, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetRecorder sends every RecordStride-th frame to r.
func (s *Simulation) SetRecorder(r trajectory.Recorder) { s.recorder = r }

func (s *Simulation) Graphs() []*topology.Graph { return s.graphs }
func (s *Simulation) Step() int                 { return s.step }
func (s *Simulation) Time() float64             { return s.time }
func (s *Simulation) Frame() trajectory.Frame   { return trajectory.Snapshot(s.step, s.time, s.graphs) }

func (s *Simulation) env() reaction.Env { return reaction.Env{Time: s.time, Rand: s.rng} }

func (s *Simulation) fail(name string, err error) error {
	return &SimulationError{Step: s.step, Time: s.time, Reaction: name, Wrapped: err}
}

// Run advances the simulation cfg.Steps steps or until ctx is done.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	klog.Infof("engine: %s run, %d topologies, %d steps of %g ns", s.sys.Model, len(s.graphs), s.cfg.Steps, s.cfg.Dt)
	if err := s.Start(); err != nil {
		return s.result(), err
	}
	for i := 0; i < s.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return s.result(), ctx.Err()
		default:
		}
		if err := s.Advance(); err != nil {
			klog.Errorf("engine: %v", err)
			return s.result(), err
		}
	}
	klog.Infof("engine: %s run finished at t=%g ns, %d topologies", s.sys.Model, s.time, len(s.graphs))
	return s.result(), nil
}

// Start resets the metrics, settles pending states of the initial
// topologies and observes step 0. Run calls it; drivers that call
// Advance themselves call it once first.
func (s *Simulation) Start() error {
	for _, m := range s.metrics {
		m.Reset()
	}
	if err := s.resolvePending(); err != nil {
		return err
	}
	return s.observe()
}

// Done reports whether the configured number of steps has been taken.
func (s *Simulation) Done() bool { return s.step >= s.cfg.Steps }

// Fired counts the reactions fired so far by name.
func (s *Simulation) Fired() map[string]int {
	out := make(map[string]int, len(s.fired))
	for k, v := range s.fired {
		out[k] = v
	}
	return out
}

// Advance performs one step.
func (s *Simulation) Advance() error {
	if err := s.structuralStep(); err != nil {
		return err
	}
	if err := s.spatialStep(); err != nil {
		return err
	}
	s.diffuse()
	s.step++
	s.time += s.cfg.Dt
	return s.observe()
}

func (s *Simulation) observe() error {
	stride := s.cfg.RecordStride
	if stride == 0 || s.step%stride != 0 {
		return nil
	}
	f := s.Frame()
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnStep(f)
	}
	if s.recorder != nil {
		if err := s.recorder.Record(f); err != nil {
			return s.fail("", errors.Wrap(err, "record frame"))
		}
	}
	return nil
}

func (s *Simulation) result() *Result {
	r := &Result{
		Seed:       s.cfg.Seed,
		StepsTaken: s.step,
		Time:       s.time,
		Fired:      s.Fired(),
		Metrics:    make(map[string]float64, len(s.metrics)),
		Final:      s.Frame(),
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	return r
}

// probability is the chance that an event with rate fires within one
// step.
func (s *Simulation) probability(rate float64) float64 {
	return 1 - math.Exp(-rate*s.cfg.Dt)
}

// apply runs a recipe on graph i and replaces it by its components.
func (s *Simulation) apply(i int, name string, r *topology.Recipe) error {
	if r.Empty() {
		klog.Warningf("engine: %s had nothing to do", name)
		return nil
	}
	g := s.graphs[i]
	if err := g.Apply(r); err != nil {
		return s.fail(name, err)
	}
	s.fired[name]++
	klog.V(2).Infof("engine: step %d %s -> %s", s.step, name, g.TopologyType())
	parts := []*topology.Graph{g}
	if r.ChangesConnectivity() {
		parts = g.Components()
	}
	for _, p := range parts {
		if err := s.validate(p); err != nil {
			return s.fail(name, err)
		}
	}
	s.graphs = append(append(s.graphs[:i:i], parts...), s.graphs[i+1:]...)
	return nil
}

// validate checks a topology a reaction just produced.
func (s *Simulation) validate(g *topology.Graph) error {
	if err := s.sys.ValidateGraph(g); err != nil {
		return err
	}
	return s.sys.ValidateBonds(g)
}

// resolvePending fires the infinite-rate reactions of every pending
// topology until none is left.
func (s *Simulation) resolvePending() error {
	for round := 0; ; round++ {
		found := false
		for i := 0; i < len(s.graphs); i++ {
			t := s.graphs[i].TopologyType()
			if !s.sys.Reactions.IsPending(t) {
				continue
			}
			if round >= s.cfg.MaxPending {
				return s.fail("", errors.Wrapf(ErrPendingUnresolved, "%s after %d rounds", t, round))
			}
			found = true
			if err := s.firePending(i); err != nil {
				return err
			}
		}
		if !found {
			return nil
		}
	}
}

func (s *Simulation) firePending(i int) error {
	g := s.graphs[i]
	env := s.env()
	for _, r := range s.sys.Reactions.ForTopologyType(g.TopologyType()) {
		if r.Rate(g, env) != reaction.Infinite {
			continue
		}
		recipe, err := r.React(g, env)
		if err != nil {
			return s.fail(r.Name, err)
		}
		return s.apply(i, r.Name, recipe)
	}
	return s.fail("", errors.Wrapf(reaction.ErrInvariant, "no pending reaction fires for %s\n%s",
		g.TopologyType(), topology.String(g)))
}

// structuralStep samples at most one structural reaction per topology.
func (s *Simulation) structuralStep() error {
	env := s.env()
	for _, g := range append([]*topology.Graph(nil), s.graphs...) {
		for _, r := range s.sys.Reactions.ForTopologyType(g.TopologyType()) {
			rate := r.Rate(g, env)
			if !reaction.IsApplicable(rate) || rate == 0 || s.rng.Float64() >= s.probability(rate) {
				continue
			}
			recipe, err := r.React(g, env)
			if err != nil {
				return s.fail(r.Name, err)
			}
			if err := s.apply(s.index(g), r.Name, recipe); err != nil {
				return err
			}
			if err := s.resolvePending(); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func (s *Simulation) index(g *topology.Graph) int {
	for i, h := range s.graphs {
		if h == g {
			return i
		}
	}
	return -1
}

// diffuse moves every single particle by a Brownian step and every
// mobile topology by one rigid displacement. In a closed box a rigid
// step that would push a particle through a wall is dropped.
func (s *Simulation) diffuse() {
	for _, g := range s.graphs {
		switch {
		case g.Len() == 1:
			id := g.Vertices()[0]
			pt, ok := s.sys.ParticleType(g.TypeOf(id))
			if !ok || pt.Diffusion <= 0 {
				continue
			}
			g.SetPosition(id, s.sys.Box.Wrap(r3.Add(g.PositionOf(id), s.displacement(pt.Diffusion))))
		case s.sys.IsMobile(g.TopologyType()):
			s.translate(g)
		}
	}
}

func (s *Simulation) displacement(diffusion float64) r3.Vec {
	sigma := math.Sqrt(2 * diffusion * s.cfg.Dt)
	return r3.Scale(sigma, r3.Vec{X: s.rng.NormFloat64(), Y: s.rng.NormFloat64(), Z: s.rng.NormFloat64()})
}

func (s *Simulation) translate(g *topology.Graph) {
	d := s.sys.DiffusionOf(g)
	if d <= 0 {
		return
	}
	step := s.displacement(d)
	ids := g.Vertices()
	moved := make([]r3.Vec, len(ids))
	for i, id := range ids {
		moved[i] = r3.Add(g.PositionOf(id), step)
		if !s.sys.Box.Periodic && !s.sys.Box.Contains(moved[i]) {
			return
		}
	}
	for i, id := range ids {
		g.SetPosition(id, s.sys.Box.Wrap(moved[i]))
	}
}
