// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Picking PickingConfig `yaml:"picking"`
	Sleeve  SleeveConfig  `yaml:"sleeve"`
	Camera  CameraConfig  `yaml:"camera"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// PickingConfig holds ray picking settings.
type PickingConfig struct {
	EdgeBuffer float64 `yaml:"edge_buffer"` // accept hits this close to a boundary
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"` // 0 means unbounded
}

// FarLimit returns Far, or +Inf when Far is unset.
func (p PickingConfig) FarLimit() float64 {
	if p.Far <= 0 {
		return math.Inf(1)
	}
	return p.Far
}

// SleeveConfig holds highlight sleeve settings.
type SleeveConfig struct {
	WallThickness float64 `yaml:"wall_thickness"`
	Height        float64 `yaml:"height"`
	Opacity       float64 `yaml:"opacity"`
	Color         string  `yaml:"color"`
	HoverColor    string  `yaml:"hover_color"`
	CurveLift     float64 `yaml:"curve_lift"`
}

// CameraConfig holds camera framing settings.
type CameraConfig struct {
	FOVDegrees float64 `yaml:"fov_degrees"`
	Padding    float64 `yaml:"padding"`
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Picking: PickingConfig{
			EdgeBuffer: 1.0,
		},
		Sleeve: SleeveConfig{
			WallThickness: 0.4,
			Height:        2.0,
			Opacity:       0.5,
			Color:         "#ff5a5a",
			HoverColor:    "#ffd75a",
			CurveLift:     0.05,
		},
		Camera: CameraConfig{
			FOVDegrees: 45,
			Padding:    1.2,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Picking.EdgeBuffer < 0:
		return fmt.Errorf("%w: picking.edge_buffer must not be negative", ErrInvalidConfig)
	case c.Picking.Far > 0 && c.Picking.Far < c.Picking.Near:
		return fmt.Errorf("%w: picking.far is before picking.near", ErrInvalidConfig)
	case c.Sleeve.WallThickness < 0:
		return fmt.Errorf("%w: sleeve.wall_thickness must not be negative", ErrInvalidConfig)
	case c.Sleeve.Height < 0:
		return fmt.Errorf("%w: sleeve.height must not be negative", ErrInvalidConfig)
	case c.Sleeve.Opacity < 0 || c.Sleeve.Opacity > 1:
		return fmt.Errorf("%w: sleeve.opacity must be within [0, 1]", ErrInvalidConfig)
	case c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180:
		return fmt.Errorf("%w: camera.fov_degrees must be within (0, 180)", ErrInvalidConfig)
	case c.Watch.Debounce < 0:
		return fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalidConfig)
	}
	return nil
}
