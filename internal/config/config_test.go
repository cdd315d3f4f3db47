package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.InDelta(t, 1.0, cfg.Events.ToleranceDeg, 1e-9)
	assert.Equal(t, 365, cfg.Range.SpanDays)
	assert.Equal(t, 24*time.Hour, cfg.Range.Step)
	assert.Equal(t, "kepler", cfg.Ephem.Mode)
	assert.Equal(t, "groq", cfg.Chat.Provider)

	for _, body := range []string{"Mercury", "Venus", "Earth", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune", "Moon"} {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, cfg.Colors[body], "color for %s", body)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad theme", func(c *Config) { c.Theme = "solarized" }, "theme"},
		{"bad color", func(c *Config) { c.Colors["Mars"] = "red" }, "hex color"},
		{"zero tolerance", func(c *Config) { c.Events.ToleranceDeg = 0 }, "tolerance"},
		{"huge tolerance", func(c *Config) { c.Events.ToleranceDeg = 120 }, "tolerance"},
		{"zero span", func(c *Config) { c.Range.SpanDays = 0 }, "span_days"},
		{"negative step", func(c *Config) { c.Range.Step = -time.Hour }, "step"},
		{"bad mode", func(c *Config) { c.Ephem.Mode = "vsop87" }, "mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Theme = ThemeLight
	cfg.Colors["Mars"] = "#ff0000"
	cfg.Events.ToleranceDeg = 2.5
	cfg.Range.SpanDays = 90
	cfg.Range.Step = 6 * time.Hour
	cfg.Ephem.Mode = "auto"

	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: light\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, cfg.Theme)
	// unspecified values keep their defaults
	assert.InDelta(t, 1.0, cfg.Events.ToleranceDeg, 1e-9)
	assert.Equal(t, 365, cfg.Range.SpanDays)
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	log := zap.NewNop()

	t.Run("missing file", func(t *testing.T) {
		cfg := Load(filepath.Join(t.TempDir(), "absent.yaml"), log)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("theme: [unterminated\n"), 0o644))
		cfg := Load(path, log)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("events:\n  tolerance_deg: -3\n"), 0o644))
		cfg := Load(path, log)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("empty path", func(t *testing.T) {
		assert.Equal(t, DefaultConfig(), Load("", log))
	})
}

func TestBodyColor(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, cfg.Colors["Mars"], cfg.BodyColor("Mars"))
	assert.Equal(t, "#8a8a8a", cfg.BodyColor("Pluto"))
}
