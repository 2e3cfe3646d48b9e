package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/NadirGo/internal/logic/geometry"
	"github.com/cjeanneret/NadirGo/internal/logic/plan"
)

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	AllowedMotionPx float64 `yaml:"allowed_motion_px"` // motion blur budget during exposure (default: 1 px)
	DebugLevel      int     `yaml:"debug_level"`       // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
}

// WebConfig holds settings of the HTTP planning service.
type WebConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"` // plan requests allowed per second (default: 2)
	Burst             int     `yaml:"burst"`               // burst size (default: 4)
}

// Config aggregates all application configuration.
type Config struct {
	Camera   geometry.Camera  `yaml:"camera"`
	Dataset  plan.DatasetSpec `yaml:"dataset"`
	Defaults DefaultsConfig   `yaml:"defaults"`
	Web      WebConfig        `yaml:"web"`
}

// ValidateConfigPath checks that path points to a .yaml file located
// directly inside a configs/ directory.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config file must have a .yaml extension, got %q", filepath.Ext(clean))
	}
	if filepath.Base(filepath.Dir(clean)) != "configs" {
		return fmt.Errorf("config file must be inside a configs/ directory, got %q", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if cfg.Defaults.AllowedMotionPx <= 0 {
		cfg.Defaults.AllowedMotionPx = plan.DefaultAllowedMotionPx
	}
	if cfg.Web.RequestsPerSecond <= 0 {
		cfg.Web.RequestsPerSecond = 2
	}
	if cfg.Web.Burst <= 0 {
		cfg.Web.Burst = 4
	}
	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return nil, fmt.Errorf("debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}

	if err := cfg.Camera.Validate(); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	if err := cfg.Dataset.Validate(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	return &cfg, nil
}
