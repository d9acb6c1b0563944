package config

import (
	"errors"
	"fmt"
	"os"

	"piccolo/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Load reads configPath and merges it over Default(). A missing file is
// not an error: the process simply runs on defaults.
func Load(configPath string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "no config file at %s, using defaults", configPath)
			return cfg, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configPath, err)
	}
	logging.Info("ConfigLoader", "loaded configuration from %s", configPath)
	return cfg, nil
}
