// Package config handles solar frame configuration loading.
package config

import (
	"fmt"
	"time"

	"github.com/marcwingduck/solar-map/internal/pixel"
)

// Config holds all solar frame settings.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	LED      LEDConfig      `yaml:"led"`
	Frame    FrameConfig    `yaml:"frame"`
	Location LocationConfig `yaml:"location"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

// LEDConfig holds the strip driver settings.
type LEDConfig struct {
	// Driver selects the output backend: "spi" or "null".
	Driver string `yaml:"driver"`
	// SPIPort is the periph.io port name, e.g. "/dev/spidev0.0".
	SPIPort string `yaml:"spi_port"`
}

// FrameConfig holds the physical frame geometry.
type FrameConfig struct {
	Cols        int     `yaml:"cols"`
	Rows        int     `yaml:"rows"`
	WidthCm     float64 `yaml:"width_cm"`
	HeightCm    float64 `yaml:"height_cm"`
	LEDsPerCm   float64 `yaml:"leds_per_cm"`
	IndexOffset int     `yaml:"index_offset"`
}

// LocationConfig holds the observer position.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// RiverConfig places one static river segment on the ring.
type RiverConfig struct {
	Center int `yaml:"center"`
	Size   int `yaml:"size"`
}

// SceneConfig holds the palette and animation timing.
type SceneConfig struct {
	Ambient       pixel.Color   `yaml:"ambient"`
	RiverColor    pixel.Color   `yaml:"river_color"`
	Rivers        []RiverConfig `yaml:"rivers"`
	SunPrimary    pixel.Color   `yaml:"sun_primary"`
	SunSecondary  pixel.Color   `yaml:"sun_secondary"`
	MoonPrimary   pixel.Color   `yaml:"moon_primary"`
	MoonSecondary pixel.Color   `yaml:"moon_secondary"`
	MarkerSize    int           `yaml:"marker_size"`
	HourHandColor pixel.Color   `yaml:"hour_hand_color"`
	// HourOffset shifts the clock's hour hand, e.g. 1 for UTC+1.
	HourOffset      int           `yaml:"hour_offset"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	TransitionSteps int           `yaml:"transition_steps"`
	TransitionDelay time.Duration `yaml:"transition_delay"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config matching the Paris frame build.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Auth: AuthConfig{
			Enabled: false,
		},
		LED: LEDConfig{
			Driver:  "spi",
			SPIPort: "/dev/spidev0.0",
		},
		Frame: FrameConfig{
			Cols:        54,
			Rows:        36,
			WidthCm:     89.5,
			HeightCm:    60.5,
			LEDsPerCm:   0.6,
			IndexOffset: -1,
		},
		Location: LocationConfig{
			Latitude:  48.860536,
			Longitude: 2.332237,
		},
		Scene: SceneConfig{
			Ambient:    pixel.Color{0, 0, 0, 5},
			RiverColor: pixel.Color{10, 0, 15, 0},
			Rivers: []RiverConfig{
				{Center: 1, Size: 5},
				{Center: 65, Size: 5},
				{Center: 142, Size: 3},
			},
			SunPrimary:      pixel.Color{127, 255, 0, 0},
			SunSecondary:    pixel.Color{50, 255, 0, 0},
			MoonPrimary:     pixel.Color{0, 0, 200, 0},
			MoonSecondary:   pixel.Color{0, 0, 0, 10},
			MarkerSize:      7,
			HourHandColor:   pixel.Color{0, 0, 0, 128},
			HourOffset:      1,
			RefreshInterval: 60 * time.Second,
			TransitionSteps: 10,
			TransitionDelay: time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values the runtime cannot use.
func (c *Config) Validate() error {
	switch c.LED.Driver {
	case "spi", "null":
	default:
		return fmt.Errorf("unknown led driver %q", c.LED.Driver)
	}
	if c.Frame.Cols <= 0 || c.Frame.Rows <= 0 {
		return fmt.Errorf("frame dimensions must be positive, got %dx%d", c.Frame.Cols, c.Frame.Rows)
	}
	if c.Frame.WidthCm <= 0 || c.Frame.HeightCm <= 0 {
		return fmt.Errorf("frame size must be positive, got %gx%g cm", c.Frame.WidthCm, c.Frame.HeightCm)
	}
	if c.Frame.LEDsPerCm <= 0 {
		return fmt.Errorf("leds_per_cm must be positive, got %g", c.Frame.LEDsPerCm)
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %g", c.Location.Latitude)
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %g", c.Location.Longitude)
	}
	if c.Scene.MarkerSize <= 0 {
		return fmt.Errorf("marker_size must be positive, got %d", c.Scene.MarkerSize)
	}
	if c.Scene.TransitionSteps <= 0 {
		return fmt.Errorf("transition_steps must be positive, got %d", c.Scene.TransitionSteps)
	}
	if c.Scene.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.Scene.RefreshInterval)
	}
	if c.Auth.Enabled && c.Auth.Token == "" {
		return fmt.Errorf("auth enabled but no token configured")
	}
	return nil
}
