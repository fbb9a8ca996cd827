// Package automation runs scripted sequences of simulations described in
// YAML.
package automation

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/engine"
	"github.com/san-kum/fibersim/internal/experiment"
	"github.com/san-kum/fibersim/internal/metrics"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Preset and Set are applied in that order over
// the defaults; Set keys are dotted config paths.
type ScenarioStep struct {
	Name   string            `yaml:"name"`
	Model  string            `yaml:"model"`
	Preset string            `yaml:"preset"`
	Steps  int               `yaml:"steps"`
	Dt     float64           `yaml:"dt"`
	Seed   int64             `yaml:"seed"`
	Set    map[string]string `yaml:"set"`
}

// Saver stores a finished run; *storage.Store is one.
type Saver interface {
	NewRun(model string) (string, error)
	Save(runID string, cfg *config.Config, result *engine.Result, series *metrics.Series) error
}

// StepResult pairs a step with its run.
type StepResult struct {
	Step   string
	RunID  string
	Result *engine.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if len(scenario.Steps) == 0 {
		return nil, errors.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Config builds the config of one step.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Model, s.Preset); cfg == nil {
			return nil, errors.Errorf("unknown preset %s/%s", s.Model, s.Preset)
		}
	}
	cfg.Model = s.Model
	if s.Steps > 0 {
		cfg.Engine.Steps = s.Steps
	}
	if s.Dt > 0 {
		cfg.Engine.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Engine.Seed = s.Seed
	}
	if err := cfg.Apply(s.Set); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order and stores each run with saver
// when it is not nil. It stops at the first failing step.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, saver Saver) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = step.Model
		}
		klog.Infof("automation: step %d/%d: %s", i+1, len(scenario.Steps), name)

		cfg, err := step.Config()
		if err != nil {
			return results, errors.Wrapf(err, "step %d", i+1)
		}
		exp, err := experiment.New(registry, cfg)
		if err != nil {
			return results, errors.Wrapf(err, "step %d", i+1)
		}
		if err := exp.Setup(registry); err != nil {
			return results, errors.Wrapf(err, "step %d setup", i+1)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, errors.Wrapf(err, "step %d run", i+1)
		}

		sr := StepResult{Step: name, Result: result}
		if saver != nil {
			if sr.RunID, err = saver.NewRun(cfg.Model); err != nil {
				return results, err
			}
			if err := saver.Save(sr.RunID, cfg, result, exp.Series()); err != nil {
				return results, errors.Wrapf(err, "step %d save", i+1)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
