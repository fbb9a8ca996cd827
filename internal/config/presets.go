package config

import "sort"

// Presets adjust the default config of a model.
var Presets = map[string]map[string]func(*Config){
	"actin": {
		"default": func(*Config) {},
		"fast_growth": func(c *Config) {
			c.Actin.BarbedGrowthATPRate *= 10
			c.Actin.ActinConcentration = 500
			c.Actin.BoxSize = 200
			c.Actin.SeedFiberLength = 60
		},
		"branching": func(c *Config) {
			c.Actin.ArpConcentration = 20
			c.Actin.ArpBindATPRate *= 10
			c.Actin.BranchGrowthATPRate *= 10
			c.Actin.SeedFibers = 3
		},
		"capped": func(c *Config) {
			c.Actin.CapConcentration = 10
			c.Actin.CapBindRate *= 5
		},
		"linear": func(c *Config) {
			c.Actin.ArpConcentration = 0
			c.Actin.CapConcentration = 0
			c.Actin.LinearOnly = true
		},
	},
	"microtubule": {
		"default": func(*Config) {},
		"catastrophe": func(c *Config) {
			c.Microtubule.HydrolyzeRate *= 100
			c.Microtubule.SeedGTPRings = 1
		},
		"stable": func(c *Config) {
			c.Microtubule.HydrolyzeRate = 0
			c.Microtubule.TubulinConcentration = 40
		},
	},
	"kinesin": {
		"default": func(*Config) {},
		"crowded": func(c *Config) {
			c.Kinesin.Motors = 12
			c.Kinesin.TrackLength = 48
		},
		"walking": func(c *Config) {
			c.Kinesin.Motors = 1
			c.Kinesin.BoxSize = 60
			c.Kinesin.TrackLength = 12
			c.Kinesin.BindATPRate *= 10
			c.Kinesin.ReleaseTubulinRate *= 10
		},
	},
}

// GetPreset returns a fresh config for model with preset applied, or nil
// if either is unknown.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	adjust, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Model = model
	adjust(cfg)
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
