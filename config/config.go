// Package config loads device, solver, mesh and logging settings from a
// YAML file, CLEMENTS_* environment variables and built-in defaults, and
// maps them onto the units, mesh and drive APIs.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/katalvlaran/clements/mesh"
	"github.com/katalvlaran/clements/units"
)

// EnvPrefix is prepended to every environment override, e.g.
// CLEMENTS_DEVICE_RESOLUTION=16.
const EnvPrefix = "CLEMENTS"

// ErrInvalid is returned when a loaded setting cannot be used.
var ErrInvalid = errors.New("config: invalid setting")

// Config is the root of the configuration tree.
type Config struct {
	Device DeviceConfig `mapstructure:"device" yaml:"device"`
	Solver SolverConfig `mapstructure:"solver" yaml:"solver"`
	Mesh   MeshConfig   `mapstructure:"mesh" yaml:"mesh"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// DeviceConfig describes one thermo-optic channel and its DAC.
// MaxVoltage 0 selects the full-turn voltage √(2·R·Pπ).
type DeviceConfig struct {
	Resistance float64 `mapstructure:"resistance" yaml:"resistance"`
	PPi        float64 `mapstructure:"p_pi" yaml:"p_pi"`
	Resolution int     `mapstructure:"resolution" yaml:"resolution"`
	MaxVoltage float64 `mapstructure:"max_voltage" yaml:"max_voltage"`
	Rounding   string  `mapstructure:"rounding" yaml:"rounding"`
}

// SolverConfig carries the numeric policy of the element solver.
type SolverConfig struct {
	Tolerance         float64 `mapstructure:"tolerance" yaml:"tolerance"`
	MaxIterations     int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	SingularTolerance float64 `mapstructure:"singular_tolerance" yaml:"singular_tolerance"`
}

// MeshConfig selects flattening and batch parallelism.
type MeshConfig struct {
	Addressing string `mapstructure:"addressing" yaml:"addressing"`
	Workers    int    `mapstructure:"workers" yaml:"workers"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SetDefaults registers every key with its default. Keys unknown to viper
// are invisible to environment overrides, so all of them are listed here.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("device.resistance", units.DefaultResistance)
	v.SetDefault("device.p_pi", units.DefaultPPi)
	v.SetDefault("device.resolution", units.DefaultResolution)
	v.SetDefault("device.max_voltage", 0.0)
	v.SetDefault("device.rounding", units.Truncate.String())

	v.SetDefault("solver.tolerance", mesh.DefaultTolerance)
	v.SetDefault("solver.max_iterations", mesh.DefaultMaxIterations)
	v.SetDefault("solver.singular_tolerance", mesh.DefaultSingularTolerance)

	v.SetDefault("mesh.addressing", mesh.HeaterPhase.String())
	v.SetDefault("mesh.workers", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads path (YAML; empty means defaults and environment only) into a
// validated Config. A nil v uses a fresh viper instance.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every section against the API it feeds.
func (c *Config) Validate() error {
	if _, err := c.UnitsDevice(); err != nil {
		return err
	}
	if _, err := c.Addressing(); err != nil {
		return err
	}
	if !(c.Solver.Tolerance > 0) || math.IsInf(c.Solver.Tolerance, 0) {
		return fmt.Errorf("solver.tolerance %g: %w", c.Solver.Tolerance, ErrInvalid)
	}
	if c.Solver.MaxIterations < 1 {
		return fmt.Errorf("solver.max_iterations %d: %w", c.Solver.MaxIterations, ErrInvalid)
	}
	if !(c.Solver.SingularTolerance >= 0) || math.IsInf(c.Solver.SingularTolerance, 0) {
		return fmt.Errorf("solver.singular_tolerance %g: %w", c.Solver.SingularTolerance, ErrInvalid)
	}
	if c.Mesh.Workers < 0 {
		return fmt.Errorf("mesh.workers %d: %w", c.Mesh.Workers, ErrInvalid)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w: %w", err, ErrInvalid)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format %q: %w", c.Log.Format, ErrInvalid)
	}

	return nil
}

// UnitsDevice builds the validated units.Device.
func (c *Config) UnitsDevice() (units.Device, error) {
	r, err := units.ParseRounding(c.Device.Rounding)
	if err != nil {
		return units.Device{}, fmt.Errorf("device.rounding: %w: %w", err, ErrInvalid)
	}
	d := units.Device{
		Resistance: c.Device.Resistance,
		PPi:        c.Device.PPi,
		Resolution: c.Device.Resolution,
		MaxVoltage: c.Device.MaxVoltage,
		Rounding:   r,
	}
	if d.MaxVoltage == 0 {
		d.MaxVoltage = units.FullTurnVoltage(d.Resistance, d.PPi)
	}
	if err = d.Validate(); err != nil {
		return units.Device{}, fmt.Errorf("device: %w: %w", err, ErrInvalid)
	}

	return d, nil
}

// Addressing parses mesh.addressing.
func (c *Config) Addressing() (mesh.Addressing, error) {
	a, err := mesh.ParseAddressing(c.Mesh.Addressing)
	if err != nil {
		return 0, fmt.Errorf("mesh.addressing: %w: %w", err, ErrInvalid)
	}

	return a, nil
}

// MeshOptions returns the decomposer options for this configuration.
// Call only on a validated Config.
func (c *Config) MeshOptions(log logrus.FieldLogger) []mesh.Option {
	return []mesh.Option{
		mesh.WithTolerance(c.Solver.Tolerance),
		mesh.WithMaxIterations(c.Solver.MaxIterations),
		mesh.WithSingularTolerance(c.Solver.SingularTolerance),
		mesh.WithLogger(log),
	}
}

// NewLogger builds a logrus logger writing to out with the configured level
// and format.
func (c *Config) NewLogger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w: %w", err, ErrInvalid)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return l, nil
}
