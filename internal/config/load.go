//go:build linux

package config

import (
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads, validates and normalizes the file at path. A missing file is
// not an error: the defaults are used. When the file has no installation id
// one is generated and the file is rewritten.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "read %s", path)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrapf(err, "validate %s", path)
	}
	Normalize(cfg)

	if cfg.InstallationID == "" {
		cfg.InstallationID = uuid.New().String()
		if err := Save(path, cfg); err != nil {
			return cfg, errors.Wrap(err, "save installation id")
		}
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}
