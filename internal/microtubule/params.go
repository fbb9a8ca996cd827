package microtubule

import (
	"math"

	"github.com/pkg/errors"
)

var ErrBadParams = errors.New("microtubule: invalid parameters")

// Params holds the rates (1/ns), distances (nm) and seed shape of the
// microtubule catalog.
type Params struct {
	GrowthGTPRate float64 `yaml:"protofilament_growth_GTP_rate"`
	GrowthGDPRate float64 `yaml:"protofilament_growth_GDP_rate"`
	ShrinkGTPRate float64 `yaml:"protofilament_shrink_GTP_rate"`
	ShrinkGDPRate float64 `yaml:"protofilament_shrink_GDP_rate"`
	AttachGTPRate float64 `yaml:"ring_attach_GTP_rate"`
	AttachGDPRate float64 `yaml:"ring_attach_GDP_rate"`
	DetachGTPRate float64 `yaml:"ring_detach_GTP_rate"`
	DetachGDPRate float64 `yaml:"ring_detach_GDP_rate"`
	HydrolyzeRate float64 `yaml:"hydrolyze_rate"`

	BoxSize          float64 `yaml:"box_size"`
	PeriodicBoundary bool    `yaml:"periodic_boundary"`
	TemperatureC     float64 `yaml:"temperature_C"`
	Viscosity        float64 `yaml:"viscosity"` // cP
	ForceConstant    float64 `yaml:"force_constant"`
	TubulinRadius    float64 `yaml:"tubulin_radius"`
	// Reaction distances are measured between particle surfaces.
	GrowDistance   float64 `yaml:"grow_reaction_distance"`
	AttachDistance float64 `yaml:"attach_reaction_distance"`
	// FrayAngle is how far, in radians, a bent tubulin deflects its
	// protofilament from straight.
	FrayAngle float64 `yaml:"frayed_angle"`

	TubulinConcentration float64 `yaml:"tubulin_concentration"` // uM
	SeedRings            int     `yaml:"seed_n_rings"`
	SeedFilaments        int     `yaml:"n_filaments"`
	SeedFrayedRings      int     `yaml:"seed_n_frayed_rings_plus"`
	SeedGTPRings         int     `yaml:"seed_n_GTP_rings"`

	RecordFailures bool `yaml:"record_failures"`
}

func DefaultParams() Params {
	return Params{
		GrowthGTPRate: 1e-3,
		GrowthGDPRate: 1e-4,
		ShrinkGTPRate: 1e-5,
		ShrinkGDPRate: 1e-3,
		AttachGTPRate: 1e-1,
		AttachGDPRate: 1e-2,
		DetachGTPRate: 1e-4,
		DetachGDPRate: 1e-2,
		HydrolyzeRate: 1e-4,

		BoxSize:        300,
		TemperatureC:   37,
		Viscosity:      8.1,
		ForceConstant:  75,
		TubulinRadius:  2,
		GrowDistance:   1,
		AttachDistance: 1,
		FrayAngle:      10 * math.Pi / 180,

		TubulinConcentration: 20,
		SeedRings:            10,
		SeedFilaments:        Protofilaments,
		SeedFrayedRings:      2,
		SeedGTPRings:         3,
	}
}

func (p Params) rates() map[string]float64 {
	return map[string]float64{
		"protofilament_growth_GTP_rate": p.GrowthGTPRate,
		"protofilament_growth_GDP_rate": p.GrowthGDPRate,
		"protofilament_shrink_GTP_rate": p.ShrinkGTPRate,
		"protofilament_shrink_GDP_rate": p.ShrinkGDPRate,
		"ring_attach_GTP_rate":          p.AttachGTPRate,
		"ring_attach_GDP_rate":          p.AttachGDPRate,
		"ring_detach_GTP_rate":          p.DetachGTPRate,
		"ring_detach_GDP_rate":          p.DetachGDPRate,
		"hydrolyze_rate":                p.HydrolyzeRate,
	}
}

func (p Params) Validate() error {
	for name, r := range p.rates() {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return errors.Wrapf(ErrBadParams, "%s = %g", name, r)
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"box_size", p.BoxSize},
		{"viscosity", p.Viscosity},
		{"force_constant", p.ForceConstant},
		{"tubulin_radius", p.TubulinRadius},
	} {
		if !(f.v > 0) {
			return errors.Wrapf(ErrBadParams, "%s = %g, want > 0", f.name, f.v)
		}
	}
	if p.GrowDistance < 0 || p.AttachDistance < 0 {
		return errors.Wrap(ErrBadParams, "negative reaction distance")
	}
	if p.FrayAngle < 0 || p.FrayAngle >= math.Pi/2 {
		return errors.Wrapf(ErrBadParams, "frayed_angle = %g", p.FrayAngle)
	}
	if p.TemperatureC <= -273.15 {
		return errors.Wrapf(ErrBadParams, "temperature_C = %g", p.TemperatureC)
	}
	if p.TubulinConcentration < 0 {
		return errors.Wrap(ErrBadParams, "negative concentration")
	}
	if p.SeedRings < 0 || p.SeedFilaments < 0 || p.SeedFilaments > Protofilaments {
		return errors.Wrapf(ErrBadParams, "seed of %d rings x %d filaments", p.SeedRings, p.SeedFilaments)
	}
	if p.SeedFrayedRings < 0 || (p.SeedRings > 0 && p.SeedFrayedRings >= p.SeedRings) || p.SeedGTPRings < 0 {
		return errors.Wrapf(ErrBadParams, "seed has %d frayed and %d GTP rings", p.SeedFrayedRings, p.SeedGTPRings)
	}
	return nil
}
