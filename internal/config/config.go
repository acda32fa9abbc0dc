// Package config holds the tunables shared by the viewer and the headless report.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the YAML document accepted by -config.
type Config struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
	ExportDir  string `yaml:"export_dir"`
	LogLevel   string `yaml:"log_level"`
	Verbose    bool   `yaml:"verbose"`

	Window  WindowConfig  `yaml:"window"`
	Density DensityConfig `yaml:"density"`
	Layout  LayoutConfig  `yaml:"layout"`
	Zoom    ZoomConfig    `yaml:"zoom"`
}

// WindowConfig sizes the viewer window and the plot surfaces inside it.
type WindowConfig struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	OverviewW     int `yaml:"overview_width"`
	OverviewH     int `yaml:"overview_height"`
	ScatterW      int `yaml:"scatter_width"`
	ScatterH      int `yaml:"scatter_height"`
	ComparisonW   int `yaml:"comparison_width"`
	ComparisonH   int `yaml:"comparison_height"`
	IntroFrames   int `yaml:"intro_frames"` // ridgeline grow-in animation length
	TicksPerFrame int `yaml:"ticks_per_frame"`
}

// DensityConfig controls the KDE pass.
type DensityConfig struct {
	Bandwidth float64 `yaml:"bandwidth"`
	GridSize  int     `yaml:"grid_size"`
	Scale     float64 `yaml:"scale"` // pixels per unit density
}

// LayoutConfig controls the force simulation.
type LayoutConfig struct {
	Strength      float64 `yaml:"strength"`
	Radius        float64 `yaml:"radius"`
	AlphaMin      float64 `yaml:"alpha_min"`
	VelocityDecay float64 `yaml:"velocity_decay"`
	RetargetAlpha float64 `yaml:"retarget_alpha"`
	Seed          int64   `yaml:"seed"` // 0 = time-based
}

// ZoomConfig bounds the view transform.
type ZoomConfig struct {
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	WheelStep float64 `yaml:"wheel_step"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DataDir:   "data",
		ExportDir: "exports",
		LogLevel:  "info",
		Window: WindowConfig{
			Width:         1600,
			Height:        900,
			OverviewW:     800,
			OverviewH:     600,
			ScatterW:      1000,
			ScatterH:      760,
			ComparisonW:   560,
			ComparisonH:   520,
			IntroFrames:   60,
			TicksPerFrame: 1,
		},
		Density: DensityConfig{
			Bandwidth: 7,
			GridSize:  40,
			Scale:     1000,
		},
		Layout: LayoutConfig{
			Strength:      0.7,
			Radius:        5,
			AlphaMin:      0.001,
			VelocityDecay: 0.4,
			RetargetAlpha: 0.1,
		},
		Zoom: ZoomConfig{
			Min:       1,
			Max:       10,
			WheelStep: 1.12,
		},
	}
}

// Load reads a YAML file on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Density.Bandwidth <= 0:
		return fmt.Errorf("%w: density.bandwidth must be > 0, got %g", ErrInvalid, c.Density.Bandwidth)
	case c.Density.GridSize < 2:
		return fmt.Errorf("%w: density.grid_size must be >= 2, got %d", ErrInvalid, c.Density.GridSize)
	case c.Layout.Strength <= 0 || c.Layout.Strength > 1:
		return fmt.Errorf("%w: layout.strength must be in (0,1], got %g", ErrInvalid, c.Layout.Strength)
	case c.Layout.Radius < 0:
		return fmt.Errorf("%w: layout.radius must be >= 0, got %g", ErrInvalid, c.Layout.Radius)
	case c.Layout.AlphaMin <= 0 || c.Layout.AlphaMin >= 1:
		return fmt.Errorf("%w: layout.alpha_min must be in (0,1), got %g", ErrInvalid, c.Layout.AlphaMin)
	case c.Layout.RetargetAlpha <= 0 || c.Layout.RetargetAlpha > 1:
		return fmt.Errorf("%w: layout.retarget_alpha must be in (0,1], got %g", ErrInvalid, c.Layout.RetargetAlpha)
	case c.Layout.RetargetAlpha <= c.Layout.AlphaMin:
		return fmt.Errorf("%w: layout.retarget_alpha %g must exceed layout.alpha_min %g", ErrInvalid, c.Layout.RetargetAlpha, c.Layout.AlphaMin)
	case c.Layout.VelocityDecay < 0 || c.Layout.VelocityDecay >= 1:
		return fmt.Errorf("%w: layout.velocity_decay must be in [0,1), got %g", ErrInvalid, c.Layout.VelocityDecay)
	case c.Zoom.Min <= 0 || c.Zoom.Max < c.Zoom.Min:
		return fmt.Errorf("%w: zoom range [%g,%g] is empty", ErrInvalid, c.Zoom.Min, c.Zoom.Max)
	case c.Window.ScatterW <= 0 || c.Window.ScatterH <= 0:
		return fmt.Errorf("%w: scatter surface must have a positive size", ErrInvalid)
	}
	return nil
}
