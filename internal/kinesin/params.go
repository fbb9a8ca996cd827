package kinesin

import (
	"math"

	"github.com/pkg/errors"
)

var ErrBadParams = errors.New("kinesin: invalid parameters")

// Params holds the motor cycle rates (1/ns), geometry (nm) and initial
// counts.
type Params struct {
	BindTubulinRate    float64 `yaml:"motor_bind_tubulin_rate"`
	BindATPRate        float64 `yaml:"motor_bind_ATP_rate"`
	ReleaseTubulinRate float64 `yaml:"motor_release_tubulin_rate"`

	BoxSize          float64 `yaml:"box_size"`
	PeriodicBoundary bool    `yaml:"periodic_boundary"`
	TemperatureC     float64 `yaml:"temperature_C"`
	Viscosity        float64 `yaml:"viscosity"` // cP
	ForceConstant    float64 `yaml:"force_constant"`
	ReactionDistance float64 `yaml:"motor_bind_distance"`

	TubulinRadius float64 `yaml:"tubulin_radius"`
	HeadRadius    float64 `yaml:"motor_head_radius"`
	HipsRadius    float64 `yaml:"hips_radius"`
	// NeckLength is the hips to head bond length.
	NeckLength float64 `yaml:"neck_length"`

	TrackLength int `yaml:"n_tubulins"`
	Motors      int `yaml:"n_motors"`

	RecordFailures bool `yaml:"record_failures"`
}

func DefaultParams() Params {
	return Params{
		BindTubulinRate:    1e-1,
		BindATPRate:        1e-3,
		ReleaseTubulinRate: 5e-4,

		BoxSize:          200,
		TemperatureC:     22,
		Viscosity:        8.1,
		ForceConstant:    90,
		ReactionDistance: 1,

		TubulinRadius: 2,
		HeadRadius:    2.5,
		HipsRadius:    1.5,
		NeckLength:    6,

		TrackLength: 40,
		Motors:      3,
	}
}

func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"motor_bind_tubulin_rate", p.BindTubulinRate},
		{"motor_bind_ATP_rate", p.BindATPRate},
		{"motor_release_tubulin_rate", p.ReleaseTubulinRate},
		{"motor_bind_distance", p.ReactionDistance},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.Wrapf(ErrBadParams, "%s = %g", f.name, f.v)
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
		{"motor_head_radius", p.HeadRadius},
		{"hips_radius", p.HipsRadius},
		{"neck_length", p.NeckLength},
	} {
		if !(f.v > 0) {
			return errors.Wrapf(ErrBadParams, "%s = %g, want > 0", f.name, f.v)
		}
	}
	if p.TemperatureC <= -273.15 {
		return errors.Wrapf(ErrBadParams, "temperature_C = %g", p.TemperatureC)
	}
	if p.TrackLength < 0 || p.Motors < 0 {
		return errors.Wrapf(ErrBadParams, "%d tubulins, %d motors", p.TrackLength, p.Motors)
	}
	if p.TrackLength > 0 && p.TrackLength < 4 {
		return errors.Wrapf(ErrBadParams, "track of %d tubulins has fewer than two sites", p.TrackLength)
	}
	if l := float64(p.TrackLength-1) * Spacing; p.TrackLength > 0 && l >= p.BoxSize {
		return errors.Wrapf(ErrBadParams, "track of %g nm does not fit box_size %g", l, p.BoxSize)
	}
	return nil
}

// headSiteDistance is the bond length of a bound head to its tubulin.
func (p Params) headSiteDistance() float64 { return p.HeadRadius + p.TubulinRadius }
