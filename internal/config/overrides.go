package config

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrUnknownKey = errors.New("config: unknown key")

// Set assigns value to the scalar at a dotted YAML path such as
// "actin.box_size" or "engine.steps". The value is parsed as if it had
// been written in a config file.
func (c *Config) Set(key, value string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	node := doc.Content[0]
	for _, part := range strings.Split(key, ".") {
		if node = field(node, part); node == nil {
			return errors.Wrap(ErrUnknownKey, key)
		}
	}
	if node.Kind != yaml.ScalarNode {
		return errors.Wrapf(ErrUnknownKey, "%s is a section", key)
	}
	node.Value = value
	if node.Tag != "!!str" {
		node.Tag = ""
	}

	var out Config
	if err := doc.Decode(&out); err != nil {
		return errors.Wrapf(err, "set %s=%s", key, value)
	}
	*c = out
	return nil
}

// Apply sets every key of overrides in sorted order.
func (c *Config) Apply(overrides map[string]string) error {
	for _, k := range sortedKeys(overrides) {
		if err := c.Set(k, overrides[k]); err != nil {
			return err
		}
	}
	return nil
}

func field(n *yaml.Node, name string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == name {
			return n.Content[i+1]
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
