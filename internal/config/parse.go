package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse parses YAML configuration data over the built-in defaults. Fields
// absent from the data keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config YAML: %w", err)
	}
	return cfg, nil
}
