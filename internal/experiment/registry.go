package experiment

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/actin"
	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/engine"
	"github.com/san-kum/fibersim/internal/kinesin"
	"github.com/san-kum/fibersim/internal/metrics"
	"github.com/san-kum/fibersim/internal/microtubule"
	"github.com/san-kum/fibersim/internal/system"
	"github.com/san-kum/fibersim/internal/topology"
)

// Model is one reaction catalog with its initial conditions and the
// observables worth tracking.
type Model interface {
	Name() string
	System() (*system.System, error)
	Initial(rng *rand.Rand) ([]*topology.Graph, error)
	Probes() []metrics.Probe
}

type actinModel struct{ *actin.Model }

func (actinModel) Name() string { return actin.Name }

func (m actinModel) Initial(rng *rand.Rand) ([]*topology.Graph, error) {
	var ids topology.IDs
	return m.Generator(&ids, rng).Initial()
}

func (actinModel) Probes() []metrics.Probe {
	return []metrics.Probe{
		metrics.TopologyCount("filaments", "Actin-Polymer"),
		metrics.MeanSize("filament_size", "Actin-Polymer"),
		metrics.TopologyCount("monomers", "Actin-Monomer"),
		metrics.FlagFraction("atp_fraction", "ATP", "actin"),
		metrics.ParticleCount("branches", topology.Types(actin.Arp2Branched)),
		metrics.ParticleCount("bound_caps", topology.Types(actin.CapBound)),
	}
}

type microtubuleModel struct{ *microtubule.Model }

func (microtubuleModel) Name() string { return microtubule.Name }

func (m microtubuleModel) Initial(rng *rand.Rand) ([]*topology.Graph, error) {
	var ids topology.IDs
	return m.Generator(&ids, rng).Initial()
}

func (microtubuleModel) Probes() []metrics.Probe {
	return []metrics.Probe{
		metrics.TopologyCount("microtubules", "Microtubule"),
		metrics.MeanSize("microtubule_size", "Microtubule"),
		metrics.TopologyCount("free_tubulins", microtubule.TopFree),
		metrics.FlagFraction("gtp_fraction", microtubule.GTP, "tubulinA", "tubulinB"),
	}
}

type kinesinModel struct{ *kinesin.Model }

func (kinesinModel) Name() string { return kinesin.Name }

func (m kinesinModel) Initial(rng *rand.Rand) ([]*topology.Graph, error) {
	var ids topology.IDs
	return m.Generator(&ids, rng).Initial()
}

func (kinesinModel) Probes() []metrics.Probe {
	return []metrics.Probe{
		metrics.TopologyCount("complexes", "Microtubule-Kinesin"),
		metrics.TopologyCount("free_motors", kinesin.TopKinesin),
		metrics.ParticleCount("bound_heads", topology.Types(kinesin.HeadApoBound, kinesin.HeadATPBound)),
		metrics.ParticleCount("atp_heads", topology.Types(kinesin.HeadATP, kinesin.HeadATPBound)),
	}
}

type Registry struct {
	models map[string]func(*config.Config) (Model, error)
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]func(*config.Config) (Model, error))}

	r.models[actin.Name] = func(c *config.Config) (Model, error) {
		m, err := actin.New(c.Actin)
		if err != nil {
			return nil, err
		}
		return actinModel{m}, nil
	}
	r.models[microtubule.Name] = func(c *config.Config) (Model, error) {
		m, err := microtubule.New(c.Microtubule)
		if err != nil {
			return nil, err
		}
		return microtubuleModel{m}, nil
	}
	r.models[kinesin.Name] = func(c *config.Config) (Model, error) {
		m, err := kinesin.New(c.Kinesin)
		if err != nil {
			return nil, err
		}
		return kinesinModel{m}, nil
	}

	return r
}

// GetModel builds the model cfg selects from its parameter section.
func (r *Registry) GetModel(cfg *config.Config) (Model, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, errors.Wrap(config.ErrUnknownModel, cfg.Model)
	}
	return fn(cfg)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics reports the final value and the time average of every
// probe of m.
func (r *Registry) DefaultMetrics(m Model) []engine.Metric {
	var out []engine.Metric
	for _, p := range m.Probes() {
		out = append(out, metrics.NewLast(p), metrics.NewMean(p))
	}
	return out
}
