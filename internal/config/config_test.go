package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcwingduck/solar-map/internal/pixel"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 54, cfg.Frame.Cols)
	assert.Equal(t, 36, cfg.Frame.Rows)
	assert.Equal(t, 89.5, cfg.Frame.WidthCm)
	assert.Equal(t, 60.5, cfg.Frame.HeightCm)
	assert.Equal(t, 0.6, cfg.Frame.LEDsPerCm)
	assert.Equal(t, -1, cfg.Frame.IndexOffset)

	assert.InDelta(t, 48.860536, cfg.Location.Latitude, 1e-9)
	assert.InDelta(t, 2.332237, cfg.Location.Longitude, 1e-9)

	assert.Equal(t, pixel.Color{0, 0, 0, 5}, cfg.Scene.Ambient)
	assert.Equal(t, pixel.Color{127, 255, 0, 0}, cfg.Scene.SunPrimary)
	assert.Equal(t, pixel.Color{0, 0, 200, 0}, cfg.Scene.MoonPrimary)
	assert.Len(t, cfg.Scene.Rivers, 3)
	assert.Equal(t, 7, cfg.Scene.MarkerSize)
	assert.Equal(t, 1, cfg.Scene.HourOffset)
	assert.Equal(t, 60*time.Second, cfg.Scene.RefreshInterval)
	assert.Equal(t, 10, cfg.Scene.TransitionSteps)

	assert.Equal(t, "spi", cfg.LED.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
http:
  addr: ":9090"

led:
  driver: "null"

frame:
  cols: 40
  rows: 30
  width_cm: 66.7
  height_cm: 50.0
  index_offset: 0

location:
  latitude: 52.520008
  longitude: 13.404954

scene:
  marker_size: 5
  hour_offset: 2
  refresh_interval: 30s
  transition_steps: 20
  sun_primary: [255, 200, 0, 0]
  rivers:
    - center: 10
      size: 4

logging:
  level: "debug"
`

	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "null", cfg.LED.Driver)
	assert.Equal(t, 40, cfg.Frame.Cols)
	assert.Equal(t, 30, cfg.Frame.Rows)
	assert.Equal(t, 66.7, cfg.Frame.WidthCm)
	assert.Equal(t, 0, cfg.Frame.IndexOffset)
	assert.InDelta(t, 52.520008, cfg.Location.Latitude, 1e-9)
	assert.Equal(t, 5, cfg.Scene.MarkerSize)
	assert.Equal(t, 2, cfg.Scene.HourOffset)
	assert.Equal(t, 30*time.Second, cfg.Scene.RefreshInterval)
	assert.Equal(t, 20, cfg.Scene.TransitionSteps)
	assert.Equal(t, pixel.Color{255, 200, 0, 0}, cfg.Scene.SunPrimary)
	assert.Equal(t, []RiverConfig{{Center: 10, Size: 4}}, cfg.Scene.Rivers)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, 0.6, cfg.Frame.LEDsPerCm)
	assert.Equal(t, pixel.Color{0, 0, 0, 5}, cfg.Scene.Ambient)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
frame:
  cols: not a number
  invalid syntax here
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidYAML), 0o644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.LED.Driver = "uart" }},
		{"zero cols", func(c *Config) { c.Frame.Cols = 0 }},
		{"negative width", func(c *Config) { c.Frame.WidthCm = -1 }},
		{"zero density", func(c *Config) { c.Frame.LEDsPerCm = 0 }},
		{"latitude out of range", func(c *Config) { c.Location.Latitude = 91 }},
		{"longitude out of range", func(c *Config) { c.Location.Longitude = -181 }},
		{"zero marker size", func(c *Config) { c.Scene.MarkerSize = 0 }},
		{"zero transition steps", func(c *Config) { c.Scene.TransitionSteps = 0 }},
		{"zero refresh interval", func(c *Config) { c.Scene.RefreshInterval = 0 }},
		{"auth without token", func(c *Config) { c.Auth.Enabled = true; c.Auth.Token = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
