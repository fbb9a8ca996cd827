package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fibersim/internal/actin"
	"github.com/san-kum/fibersim/internal/engine"
	"github.com/san-kum/fibersim/internal/kinesin"
	"github.com/san-kum/fibersim/internal/microtubule"
)

var ErrUnknownModel = errors.New("config: unknown model")

// Models lists the model sections a config carries.
var Models = []string{actin.Name, microtubule.Name, kinesin.Name}

// Config is one run: the model to simulate, the engine settings and one
// parameter section per model.
type Config struct {
	Model       string             `yaml:"model"`
	Engine      engine.Config      `yaml:"engine"`
	Output      OutputConfig       `yaml:"output"`
	Actin       actin.Params       `yaml:"actin"`
	Microtubule microtubule.Params `yaml:"microtubule"`
	Kinesin     kinesin.Params     `yaml:"kinesin"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
	// Frames stores every recorded frame next to the run metadata.
	Frames bool `yaml:"frames"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:       actin.Name,
		Engine:      engine.DefaultConfig(),
		Output:      OutputConfig{Dir: "runs"},
		Actin:       actin.DefaultParams(),
		Microtubule: microtubule.DefaultParams(),
		Kinesin:     kinesin.DefaultParams(),
	}
}

// Validate checks the selected model's section.
func (c *Config) Validate() error {
	switch c.Model {
	case actin.Name:
		return c.Actin.Validate()
	case microtubule.Name:
		return c.Microtubule.Validate()
	case kinesin.Name:
		return c.Kinesin.Validate()
	}
	return errors.Wrap(ErrUnknownModel, c.Model)
}

// Load reads a YAML config over the defaults, so a file only names what
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
