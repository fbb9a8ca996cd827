package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/actin"
	"github.com/san-kum/fibersim/internal/kinesin"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != actin.Name {
		t.Errorf("expected model actin, got %s", cfg.Model)
	}
	if cfg.Engine.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Engine.Steps <= 0 {
		t.Error("steps should be positive")
	}
	for _, model := range Models {
		cfg.Model = model
		if err := cfg.Validate(); err != nil {
			t.Errorf("default %s config: %v", model, err)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "myosin"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("err = %v, want ErrUnknownModel", err)
	}

	cfg = DefaultConfig()
	cfg.Model = kinesin.Name
	cfg.Kinesin.NeckLength = 0
	if err := cfg.Validate(); !errors.Is(err, kinesin.ErrBadParams) {
		t.Errorf("err = %v, want kinesin.ErrBadParams", err)
	}
	cfg.Model = actin.Name
	if err := cfg.Validate(); err != nil {
		t.Errorf("only the selected model is checked: %v", err)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := "model: kinesin\nengine:\n  steps: 50\nkinesin:\n  n_motors: 7\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Model != kinesin.Name || cfg.Engine.Steps != 50 || cfg.Kinesin.Motors != 7 {
		t.Errorf("loaded %+v", cfg)
	}
	if cfg.Engine.Dt != def.Engine.Dt || cfg.Kinesin.NeckLength != def.Kinesin.NeckLength {
		t.Error("unset fields lost their defaults")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("actin", "branching")
	cfg.Engine.Seed = 42
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Engine.Seed != 42 || got.Actin.SeedFibers != cfg.Actin.SeedFibers || got.Actin.ArpConcentration != cfg.Actin.ArpConcentration {
		t.Errorf("round trip changed config: %+v", got.Actin)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("engine: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("actin", "fast_growth")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	def := DefaultConfig()
	if cfg.Actin.BarbedGrowthATPRate != 10*def.Actin.BarbedGrowthATPRate {
		t.Errorf("barbed growth rate %g", cfg.Actin.BarbedGrowthATPRate)
	}
	if other := GetPreset("actin", "default"); other.Actin.BarbedGrowthATPRate != def.Actin.BarbedGrowthATPRate {
		t.Error("presets share state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("actin", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "default")
	if cfg != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestEveryPresetValidates(t *testing.T) {
	for _, model := range Models {
		names := ListPresets(model)
		if len(names) == 0 {
			t.Errorf("expected presets for %s", model)
		}
		for _, name := range names {
			cfg := GetPreset(model, name)
			if cfg.Model != model {
				t.Errorf("%s/%s selects model %s", model, name, cfg.Model)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", model, name, err)
			}
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Apply(map[string]string{
		"actin.box_size":            "80",
		"engine.steps":              "7",
		"kinesin.periodic_boundary": "true",
		"model":                     "kinesin",
		"output.dir":                "123",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Actin.BoxSize != 80 || cfg.Engine.Steps != 7 || !cfg.Kinesin.PeriodicBoundary {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Model != kinesin.Name || cfg.Output.Dir != "123" {
		t.Errorf("model %q, dir %q", cfg.Model, cfg.Output.Dir)
	}
	if cfg.Actin.ActinRadius != actin.DefaultParams().ActinRadius {
		t.Error("untouched field changed")
	}
}

func TestSetErrors(t *testing.T) {
	tests := []struct {
		key, value string
		unknown    bool
	}{
		{"actin.no_such_rate", "1", true},
		{"actin", "1", true},
		{"engine.steps.more", "1", true},
		{"engine.steps", "many", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, ErrUnknownKey) != tt.unknown {
				t.Errorf("err = %v", err)
			}
			if cfg.Engine.Steps != DefaultConfig().Engine.Steps {
				t.Error("failed set changed the config")
			}
		})
	}
}
