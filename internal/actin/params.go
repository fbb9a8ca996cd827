package actin

import (
	"math"

	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/system"
)

var ErrBadParams = errors.New("actin: invalid parameters")

// Params holds every rate (1/ns), distance (nm) and count the actin
// catalog reads. It is a value; the model keeps its own copy.
type Params struct {
	DimerizeRate         float64 `yaml:"dimerize_rate"`
	DimerizeReverseRate  float64 `yaml:"dimerize_reverse_rate"`
	TrimerizeRate        float64 `yaml:"trimerize_rate"`
	TrimerizeReverseRate float64 `yaml:"trimerize_reverse_rate"`
	PointedGrowthATPRate float64 `yaml:"pointed_growth_ATP_rate"`
	PointedGrowthADPRate float64 `yaml:"pointed_growth_ADP_rate"`
	PointedShrinkATPRate float64 `yaml:"pointed_shrink_ATP_rate"`
	PointedShrinkADPRate float64 `yaml:"pointed_shrink_ADP_rate"`
	BarbedGrowthATPRate  float64 `yaml:"barbed_growth_ATP_rate"`
	BarbedGrowthADPRate  float64 `yaml:"barbed_growth_ADP_rate"`
	NucleateATPRate      float64 `yaml:"nucleate_ATP_rate"`
	NucleateADPRate      float64 `yaml:"nucleate_ADP_rate"`
	BarbedShrinkATPRate  float64 `yaml:"barbed_shrink_ATP_rate"`
	BarbedShrinkADPRate  float64 `yaml:"barbed_shrink_ADP_rate"`
	ArpBindATPRate       float64 `yaml:"arp_bind_ATP_rate"`
	ArpBindADPRate       float64 `yaml:"arp_bind_ADP_rate"`
	ArpUnbindATPRate     float64 `yaml:"arp_unbind_ATP_rate"`
	ArpUnbindADPRate     float64 `yaml:"arp_unbind_ADP_rate"`
	BranchGrowthATPRate  float64 `yaml:"barbed_growth_branch_ATP_rate"`
	BranchGrowthADPRate  float64 `yaml:"barbed_growth_branch_ADP_rate"`
	DebranchATPRate      float64 `yaml:"debranching_ATP_rate"`
	DebranchADPRate      float64 `yaml:"debranching_ADP_rate"`
	CapBindRate          float64 `yaml:"cap_bind_rate"`
	CapUnbindRate        float64 `yaml:"cap_unbind_rate"`
	HydrolysisActinRate  float64 `yaml:"hydrolysis_actin_rate"`
	HydrolysisArpRate    float64 `yaml:"hydrolysis_arp_rate"`
	ExchangeActinRate    float64 `yaml:"nucleotide_exchange_actin_rate"`
	ExchangeArpRate      float64 `yaml:"nucleotide_exchange_arp_rate"`

	BoxSize          float64 `yaml:"box_size"`
	PeriodicBoundary bool    `yaml:"periodic_boundary"`
	TemperatureC     float64 `yaml:"temperature_C"`
	Viscosity        float64 `yaml:"viscosity"` // cP
	ForceConstant    float64 `yaml:"force_constant"`
	ReactionDistance float64 `yaml:"reaction_distance"`

	ActinConcentration float64 `yaml:"actin_concentration"` // uM
	ArpConcentration   float64 `yaml:"arp23_concentration"`
	CapConcentration   float64 `yaml:"cap_concentration"`
	SeedFibers         int     `yaml:"n_fibers"`
	SeedFiberLength    float64 `yaml:"fiber_length"`

	ActinRadius    float64 `yaml:"actin_radius"`
	ArpRadius      float64 `yaml:"arp23_radius"`
	CapRadius      float64 `yaml:"cap_radius"`
	ObstacleRadius float64 `yaml:"obstacle_radius"`

	AnglePotentials    bool `yaml:"actin_actin_angle_potentials"`
	DihedralPotentials bool `yaml:"actin_actin_dihedral_potentials"`
	// LinearOnly skips branch and cap geometry potentials.
	LinearOnly bool `yaml:"only_linear_actin_constraints"`

	// RecordFailures tags a topology with its "#Fail-*" sub-state when a
	// structural reaction finds nothing to do, instead of returning an
	// empty recipe. The pending reset reactions clear the tag.
	RecordFailures bool `yaml:"record_failures"`
}

func DefaultParams() Params {
	return Params{
		DimerizeRate:         2.1e-2,
		DimerizeReverseRate:  1.4e-9,
		TrimerizeRate:        2.1e-2,
		TrimerizeReverseRate: 1.4e-9,
		PointedGrowthATPRate: 2.4e-2,
		PointedGrowthADPRate: 2.95e-3,
		PointedShrinkATPRate: 8.0e-10,
		PointedShrinkADPRate: 3.0e-10,
		BarbedGrowthATPRate:  2.1e-1,
		BarbedGrowthADPRate:  2.8e-2,
		NucleateATPRate:      2.1e-1,
		NucleateADPRate:      2.8e-2,
		BarbedShrinkATPRate:  1.4e-9,
		BarbedShrinkADPRate:  8.0e-9,
		ArpBindATPRate:       2.1e-2,
		ArpBindADPRate:       2.1e-2,
		ArpUnbindATPRate:     1.2e-9,
		ArpUnbindADPRate:     1.2e-9,
		BranchGrowthATPRate:  2.1e-1,
		BranchGrowthADPRate:  2.8e-2,
		DebranchATPRate:      1.4e-9,
		DebranchADPRate:      7.0e-9,
		CapBindRate:          2.1e-2,
		CapUnbindRate:        1.2e-9,
		HydrolysisActinRate:  3.5e-11,
		HydrolysisArpRate:    3.5e-11,
		ExchangeActinRate:    1.0e-10,
		ExchangeArpRate:      1.0e-10,

		BoxSize:          250,
		TemperatureC:     22,
		Viscosity:        8.1,
		ForceConstant:    250,
		ReactionDistance: 1,

		ActinConcentration: 100,
		ArpConcentration:   10,
		CapConcentration:   0,
		SeedFibers:         3,
		SeedFiberLength:    100,

		ActinRadius:    2,
		ArpRadius:      2,
		CapRadius:      3,
		ObstacleRadius: 35,

		AnglePotentials:    true,
		DihedralPotentials: true,
	}
}

func (p Params) rates() map[string]float64 {
	return map[string]float64{
		"dimerize_rate":                  p.DimerizeRate,
		"dimerize_reverse_rate":          p.DimerizeReverseRate,
		"trimerize_rate":                 p.TrimerizeRate,
		"trimerize_reverse_rate":         p.TrimerizeReverseRate,
		"pointed_growth_ATP_rate":        p.PointedGrowthATPRate,
		"pointed_growth_ADP_rate":        p.PointedGrowthADPRate,
		"pointed_shrink_ATP_rate":        p.PointedShrinkATPRate,
		"pointed_shrink_ADP_rate":        p.PointedShrinkADPRate,
		"barbed_growth_ATP_rate":         p.BarbedGrowthATPRate,
		"barbed_growth_ADP_rate":         p.BarbedGrowthADPRate,
		"nucleate_ATP_rate":              p.NucleateATPRate,
		"nucleate_ADP_rate":              p.NucleateADPRate,
		"barbed_shrink_ATP_rate":         p.BarbedShrinkATPRate,
		"barbed_shrink_ADP_rate":         p.BarbedShrinkADPRate,
		"arp_bind_ATP_rate":              p.ArpBindATPRate,
		"arp_bind_ADP_rate":              p.ArpBindADPRate,
		"arp_unbind_ATP_rate":            p.ArpUnbindATPRate,
		"arp_unbind_ADP_rate":            p.ArpUnbindADPRate,
		"barbed_growth_branch_ATP_rate":  p.BranchGrowthATPRate,
		"barbed_growth_branch_ADP_rate":  p.BranchGrowthADPRate,
		"debranching_ATP_rate":           p.DebranchATPRate,
		"debranching_ADP_rate":           p.DebranchADPRate,
		"cap_bind_rate":                  p.CapBindRate,
		"cap_unbind_rate":                p.CapUnbindRate,
		"hydrolysis_actin_rate":          p.HydrolysisActinRate,
		"hydrolysis_arp_rate":            p.HydrolysisArpRate,
		"nucleotide_exchange_actin_rate": p.ExchangeActinRate,
		"nucleotide_exchange_arp_rate":   p.ExchangeArpRate,
	}
}

// Validate reports the first unusable value.
func (p Params) Validate() error {
	for name, r := range p.rates() {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return errors.Wrapf(ErrBadParams, "%s = %g", name, r)
		}
	}
	positive := []struct {
		name string
		v    float64
	}{
		{"box_size", p.BoxSize},
		{"viscosity", p.Viscosity},
		{"force_constant", p.ForceConstant},
		{"reaction_distance", p.ReactionDistance},
		{"actin_radius", p.ActinRadius},
		{"arp23_radius", p.ArpRadius},
		{"cap_radius", p.CapRadius},
		{"obstacle_radius", p.ObstacleRadius},
	}
	for _, f := range positive {
		if !(f.v > 0) {
			return errors.Wrapf(ErrBadParams, "%s = %g, want > 0", f.name, f.v)
		}
	}
	if p.TemperatureC <= -273.15 {
		return errors.Wrapf(ErrBadParams, "temperature_C = %g", p.TemperatureC)
	}
	if p.ActinConcentration < 0 || p.ArpConcentration < 0 || p.CapConcentration < 0 {
		return errors.Wrap(ErrBadParams, "negative concentration")
	}
	if p.SeedFibers < 0 {
		return errors.Wrapf(ErrBadParams, "n_fibers = %d", p.SeedFibers)
	}
	if p.SeedFibers > 0 && p.SeedFiberLength < 3*BondLength() {
		return errors.Wrapf(ErrBadParams, "fiber_length = %g is shorter than a trimer", p.SeedFiberLength)
	}
	if p.SeedFibers > 0 && 2*(p.SeedFiberLength+helixRadius) >= p.BoxSize {
		return errors.Wrapf(ErrBadParams, "fiber_length = %g does not fit box_size %g", p.SeedFiberLength, p.BoxSize)
	}
	return nil
}

// ParticleCount converts a concentration in uM to a particle count in a
// cubic box of the given edge in nm.
func ParticleCount(concentration, boxSize float64) int {
	return system.ParticleCount(concentration, boxSize)
}
