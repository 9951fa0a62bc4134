// internal/settings/settings.go
package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are operator-side knobs, outside the platform's config.json
// contract. Loaded from an optional YAML file.
type Settings struct {
	// OutDir receives the segmented data and auxiliary copies.
	OutDir string `yaml:"out_dir"`

	// Product is where the status document is written.
	Product string `yaml:"product"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// FixedLengthDuration is the spacing in seconds of synthesized
	// events when the configuration names no events file.
	FixedLengthDuration float64 `yaml:"fixed_length_duration"`
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		OutDir:              "out_dir",
		Product:             "product.json",
		LogLevel:            "info",
		FixedLengthDuration: 10,
	}
}

// Load reads a settings file and fills unset fields with defaults.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings: %s: %w", path, err)
	}

	if s.OutDir == "" {
		s.OutDir = "out_dir"
	}
	if s.Product == "" {
		s.Product = "product.json"
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.FixedLengthDuration <= 0 {
		s.FixedLengthDuration = 10
	}

	return s, nil
}
