package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BSchoolland/excalibur-v3/pkg/paths"
)

// Load reads the config at path. A missing file is not an error: the overlay
// runs fine on defaults, so it returns a fully defaulted config instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to the specified path
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Files.State == "" {
		cfg.Files.State = paths.StatePath()
	}
	if cfg.Files.Command == "" {
		cfg.Files.Command = paths.CommandPath()
	}
	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = 100
	}
	if cfg.Poll.GraceMs == 0 {
		cfg.Poll.GraceMs = 1000
	}
	if cfg.Timing.HideDelayMs == 0 {
		cfg.Timing.HideDelayMs = 2000
	}
	if cfg.Timing.ResetDelayMs == 0 {
		cfg.Timing.ResetDelayMs = 2500
	}
	if cfg.Timing.PulseMs == 0 {
		cfg.Timing.PulseMs = 2000
	}
	if cfg.Timing.FlashMs == 0 {
		cfg.Timing.FlashMs = 300
	}
	if cfg.Render.Theme == "" {
		cfg.Render.Theme = "midnight"
	}
	if cfg.Render.Width == 0 {
		cfg.Render.Width = 44
	}
}
