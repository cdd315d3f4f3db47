// Package config loads and persists user settings as YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config is the complete user configuration.
type Config struct {
	// Theme selects the color palette: dark or light.
	Theme string `yaml:"theme"`

	// Colors maps body names to hex colors for the orrery and plots.
	Colors map[string]string `yaml:"colors"`

	Events EventsConfig `yaml:"events"`
	Range  RangeConfig  `yaml:"range"`
	Ephem  EphemConfig  `yaml:"ephem"`
	Chat   ChatConfig   `yaml:"chat"`
}

// EventsConfig configures alignment detection.
type EventsConfig struct {
	// ToleranceDeg is the angular tolerance for "currently aligned"
	// checks, in degrees.
	ToleranceDeg float64 `yaml:"tolerance_deg"`
}

// RangeConfig sets the default sampling window.
type RangeConfig struct {
	// SpanDays is the default scan length in days.
	SpanDays int `yaml:"span_days"`
	// Step is the default sampling step.
	Step time.Duration `yaml:"step"`
}

// EphemConfig selects the ephemeris source.
type EphemConfig struct {
	// Mode is kepler, horizons, or auto.
	Mode string `yaml:"mode"`
}

// ChatConfig configures the assistant.
type ChatConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeDark,
		Colors: map[string]string{
			"Mercury": "#9e9e9e",
			"Venus":   "#e8c468",
			"Earth":   "#5fafff",
			"Mars":    "#e06c4f",
			"Jupiter": "#d4a36a",
			"Saturn":  "#e5d9a8",
			"Uranus":  "#8fd8d8",
			"Neptune": "#5f87d7",
			"Moon":    "#c0c0c0",
		},
		Events: EventsConfig{
			ToleranceDeg: 1.0,
		},
		Range: RangeConfig{
			SpanDays: 365,
			Step:     24 * time.Hour,
		},
		Ephem: EphemConfig{
			Mode: "kepler",
		},
		Chat: ChatConfig{
			Provider: "groq",
			Model:    "llama-3.1-8b-instant",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ls-orrery", "config.yaml")
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("theme must be %q or %q, got %q", ThemeDark, ThemeLight, c.Theme)
	}
	for body, color := range c.Colors {
		if !hexColorRe.MatchString(color) {
			return fmt.Errorf("colors.%s: %q is not a hex color", body, color)
		}
	}
	if c.Events.ToleranceDeg <= 0 || c.Events.ToleranceDeg > 90 {
		return fmt.Errorf("events.tolerance_deg must be in (0, 90], got %v", c.Events.ToleranceDeg)
	}
	if c.Range.SpanDays <= 0 {
		return fmt.Errorf("range.span_days must be positive, got %d", c.Range.SpanDays)
	}
	if c.Range.Step <= 0 {
		return fmt.Errorf("range.step must be positive, got %v", c.Range.Step)
	}
	switch c.Ephem.Mode {
	case "kepler", "horizons", "auto":
	default:
		return fmt.Errorf("ephem.mode must be kepler, horizons, or auto, got %q", c.Ephem.Mode)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. Values missing from
// the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Load returns the configuration at path, falling back to defaults when the
// file is absent, malformed, or invalid. Settings problems are never fatal.
func Load(path string, log *zap.Logger) *Config {
	if log == nil {
		log = zap.NewNop()
	}
	if path == "" {
		return DefaultConfig()
	}

	config, err := LoadFromFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("using default settings",
				zap.String("path", path),
				zap.Error(err))
		}
		return DefaultConfig()
	}
	return config
}

// SaveToFile persists the configuration as YAML, creating parent
// directories as needed.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BodyColor returns the configured color for a body, or a neutral gray.
func (c *Config) BodyColor(name string) string {
	if color, ok := c.Colors[name]; ok {
		return color
	}
	return "#8a8a8a"
}
