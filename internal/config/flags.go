package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides bound to a flag set.
type Flags struct {
	ConfigPath string
	Debug      bool
	EdgeBuffer float64
	Wall       float64
	Height     float64

	set *pflag.FlagSet
}

// BindFlags registers the config overrides on fs, typically a cobra
// command's persistent flags.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{set: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Float64Var(&f.EdgeBuffer, "edge-buffer", 0, "Pick tolerance around tooth boundaries")
	fs.Float64Var(&f.Wall, "wall", 0, "Sleeve wall thickness")
	fs.Float64Var(&f.Height, "height", 0, "Sleeve extrusion height")
	return f
}

// apply applies flags the user actually set.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.changed("edge-buffer") {
		cfg.Picking.EdgeBuffer = f.EdgeBuffer
	}
	if f.changed("wall") {
		cfg.Sleeve.WallThickness = f.Wall
	}
	if f.changed("height") {
		cfg.Sleeve.Height = f.Height
	}
}

func (f *Flags) changed(name string) bool {
	return f.set != nil && f.set.Changed(name)
}
