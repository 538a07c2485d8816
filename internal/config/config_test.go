package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test picking defaults
	if cfg.Picking.EdgeBuffer != 1.0 {
		t.Errorf("expected edge buffer 1.0, got %f", cfg.Picking.EdgeBuffer)
	}
	if !math.IsInf(cfg.Picking.FarLimit(), 1) {
		t.Errorf("expected unbounded far limit, got %f", cfg.Picking.FarLimit())
	}

	// Test sleeve defaults
	if cfg.Sleeve.WallThickness != 0.4 {
		t.Errorf("expected wall thickness 0.4, got %f", cfg.Sleeve.WallThickness)
	}
	if cfg.Sleeve.Height != 2.0 {
		t.Errorf("expected height 2.0, got %f", cfg.Sleeve.Height)
	}
	if cfg.Sleeve.Color != "#ff5a5a" {
		t.Errorf("expected color #ff5a5a, got %s", cfg.Sleeve.Color)
	}

	// Test camera and watch defaults
	if cfg.Camera.FOVDegrees != 45 {
		t.Errorf("expected fov 45, got %f", cfg.Camera.FOVDegrees)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %v", cfg.Watch.Debounce)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "prepview.yaml")

	yamlContent := `
picking:
  edge_buffer: 0.25
  far: 500

sleeve:
  wall_thickness: 0.8
  hover_color: "#00ff00"

watch:
  debounce: 1s

logging:
  level: "debug"
  log_file: "/tmp/prepview.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Picking.EdgeBuffer != 0.25 {
		t.Errorf("expected edge buffer 0.25, got %f", cfg.Picking.EdgeBuffer)
	}
	if cfg.Picking.FarLimit() != 500 {
		t.Errorf("expected far 500, got %f", cfg.Picking.FarLimit())
	}
	if cfg.Sleeve.WallThickness != 0.8 {
		t.Errorf("expected wall thickness 0.8, got %f", cfg.Sleeve.WallThickness)
	}
	if cfg.Sleeve.HoverColor != "#00ff00" {
		t.Errorf("expected hover color #00ff00, got %s", cfg.Sleeve.HoverColor)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Logging.LogFile != "/tmp/prepview.log" {
		t.Errorf("expected log file /tmp/prepview.log, got %s", cfg.Logging.LogFile)
	}

	// Values absent from the file keep their defaults
	if cfg.Sleeve.Height != 2.0 {
		t.Errorf("expected default height 2.0, got %f", cfg.Sleeve.Height)
	}
	if cfg.Camera.Padding != 1.2 {
		t.Errorf("expected default padding 1.2, got %f", cfg.Camera.Padding)
	}
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "prepview.yaml")
	if err := os.WriteFile(configPath, []byte("picking:\n  edge_buffer: 0.25\nsleeve:\n  height: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"--config", configPath, "--edge-buffer", "0.5", "--debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Picking.EdgeBuffer != 0.5 {
		t.Errorf("expected flag edge buffer 0.5, got %f", cfg.Picking.EdgeBuffer)
	}
	if cfg.Sleeve.Height != 3 {
		t.Errorf("expected file height 3, got %f", cfg.Sleeve.Height)
	}
	if cfg.Sleeve.WallThickness != 0.4 {
		t.Errorf("unset --wall should keep default 0.4, got %f", cfg.Sleeve.WallThickness)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "prepview.yaml")
	if err := os.WriteFile(configPath, []byte("sleeve:\n  opacity: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	flags.ConfigPath = configPath

	if _, err := Load(flags); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "prepview.yaml")
	if err := os.WriteFile(configPath, []byte("picking: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(&Flags{ConfigPath: configPath}); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prepview.yaml")
	cfg := Default()
	cfg.Picking.EdgeBuffer = 0.75

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Picking.EdgeBuffer != 0.75 {
		t.Errorf("expected edge buffer 0.75, got %f", loaded.Picking.EdgeBuffer)
	}
	if loaded.Watch.Debounce != cfg.Watch.Debounce {
		t.Errorf("expected debounce %v, got %v", cfg.Watch.Debounce, loaded.Watch.Debounce)
	}
}

func TestConfigDir(t *testing.T) {
	if dir := ConfigDir(); dir == "" {
		t.Error("ConfigDir returned empty path")
	}
}
