// Package config loads quellogidx's optional YAML configuration file:
// registry ordering overrides and the auto-detect line cap. Uses
// gopkg.in/yaml.v3 for parsing and github.com/spf13/afero so
// config-loading tests can run against an in-memory filesystem instead of
// touching the real one.
package config

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config holds user overrides for indexer defaults.
type Config struct {
	// RegistryOrder overrides the default recognizer priority order.
	// Names must match a registry.Format's Name() ("json", "csv",
	// "stderr"); unknown names are ignored.
	RegistryOrder []string `yaml:"registry_order"`

	// AutoDetectCap overrides the 1000-unmatched-line auto-detection cap.
	// Zero means "use the built-in default".
	AutoDetectCap int `yaml:"auto_detect_cap"`

	// DetectionCacheSize bounds the LRU detection-result cache.
	DetectionCacheSize int `yaml:"detection_cache_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RegistryOrder:      []string{"json", "csv", "stderr"},
		AutoDetectCap:      1000,
		DetectionCacheSize: 256,
	}
}

// Load reads and parses path from fs, applying Default() for any field the
// file leaves unset.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(override.RegistryOrder) > 0 {
		cfg.RegistryOrder = override.RegistryOrder
	}
	if override.AutoDetectCap > 0 {
		cfg.AutoDetectCap = override.AutoDetectCap
	}
	if override.DetectionCacheSize > 0 {
		cfg.DetectionCacheSize = override.DetectionCacheSize
	}
	return cfg, nil
}

// LoadOptional behaves like Load but returns Default() with a nil error
// when path does not exist, since the config file is optional.
func LoadOptional(fs afero.Fs, path string) (Config, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return Config{}, err
	}
	if !exists {
		return Default(), nil
	}
	return Load(fs, path)
}
