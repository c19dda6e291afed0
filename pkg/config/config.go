package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Load parses the YAML config file at path. A missing file propagates the
// os.IsNotExist error so callers can treat it as "no config file".
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
