// Package config loads racer settings from defaults, an optional config file,
// RACER_* environment variables and command-line flags, in rising priority.
package config

import (
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"racer/internal/geom"
	"racer/internal/race"
	"racer/internal/track"
	"racer/internal/vehicle"
)

const (
	CircuitClassic    = "classic"
	CircuitProcedural = "procedural"

	envPrefix = "RACER"
)

type DriftSettings struct {
	Enabled bool    `mapstructure:"enabled"`
	Jitter  float64 `mapstructure:"jitter"`
}

type WindowSettings struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Settings is the resolved configuration.
type Settings struct {
	MaxSpeed        float64 `mapstructure:"maxSpeed"`
	MaxReverseSpeed float64 `mapstructure:"maxReverseSpeed"`
	Acceleration    float64 `mapstructure:"acceleration"`
	Braking         float64 `mapstructure:"braking"`
	Deceleration    float64 `mapstructure:"deceleration"`
	TurnSpeed       float64 `mapstructure:"turnSpeed"`
	TrackWidth      float64 `mapstructure:"trackWidth"`
	TotalLaps       int     `mapstructure:"totalLaps"`

	Circuit       string  `mapstructure:"circuit"`
	Seed          uint64  `mapstructure:"seed"`
	ControlPoints int     `mapstructure:"controlPoints"`
	CircuitRadius float64 `mapstructure:"circuitRadius"`
	MaxTickDelta  float64 `mapstructure:"maxTickDelta"`

	Drift     DriftSettings  `mapstructure:"drift"`
	Audio     bool           `mapstructure:"audio"`
	LogLevel  string         `mapstructure:"logLevel"`
	LogFile   string         `mapstructure:"logFile"`
	Graylog   string         `mapstructure:"graylog"`
	Window    WindowSettings `mapstructure:"window"`
	LoadDelay time.Duration  `mapstructure:"loadDelay"`

	// Command-line only.
	Headless   bool   `mapstructure:"headless"`
	MapPath    string `mapstructure:"map"`
	ConfigFile string `mapstructure:"config"`
}

func setDefaults(v *viper.Viper) {
	vp := vehicle.DefaultParams()
	rc := race.DefaultConfig()

	v.SetDefault("maxSpeed", vp.MaxSpeed)
	v.SetDefault("maxReverseSpeed", vp.MaxReverseSpeed)
	v.SetDefault("acceleration", vp.Acceleration)
	v.SetDefault("braking", vp.Braking)
	v.SetDefault("deceleration", vp.Deceleration)
	v.SetDefault("turnSpeed", vp.TurnSpeed)
	v.SetDefault("trackWidth", 12.0)
	v.SetDefault("totalLaps", rc.TotalLaps)

	v.SetDefault("circuit", CircuitClassic)
	v.SetDefault("seed", 1)
	v.SetDefault("controlPoints", 14)
	v.SetDefault("circuitRadius", 110.0)
	v.SetDefault("maxTickDelta", rc.MaxTickDelta)

	v.SetDefault("drift.enabled", vp.DriftEnabled)
	v.SetDefault("drift.jitter", vp.DriftJitter)
	v.SetDefault("audio", true)
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")
	v.SetDefault("graylog", "")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("loadDelay", rc.LoadDelay)

	v.SetDefault("headless", false)
	v.SetDefault("map", "")
	v.SetDefault("config", "")
}

// Flags registers the command-line flags Load understands.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "config file (default: racer.{yaml,json,toml} in the working directory)")
	fs.Bool("headless", false, "run the race with the autopilot and print the results")
	fs.String("map", "", "write a PNG map of the circuit to this path and exit")
	fs.Int("laps", 0, "laps to race")
	fs.String("circuit", "", "circuit layout: classic or procedural")
	fs.Uint64("seed", 0, "seed for the procedural circuit and scenery")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("log-file", "", "also write logs to this file")
	fs.String("graylog", "", "also send logs to a Graylog GELF UDP input (host:port)")
	fs.Bool("audio", true, "play engine and event sounds")
	return fs
}

var flagKeys = map[string]string{
	"config":    "config",
	"headless":  "headless",
	"map":       "map",
	"laps":      "totalLaps",
	"circuit":   "circuit",
	"seed":      "seed",
	"log-level": "logLevel",
	"log-file":  "logFile",
	"graylog":   "graylog",
	"audio":     "audio",
}

// Load resolves settings. fs may be nil; only flags that were set on the
// command line override the file and environment.
func Load(fs *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for flag, key := range flagKeys {
			if f := fs.Lookup(flag); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, errors.Wrapf(err, "bind flag %s", flag)
				}
			}
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		v.SetConfigName("racer")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, errors.Wrap(err, "read config")
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Wrap(err, "decode config")
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the simulation cannot run with.
func (s Settings) Validate() error {
	type field struct {
		key string
		val float64
	}
	positive := []field{
		{"maxSpeed", s.MaxSpeed},
		{"acceleration", s.Acceleration},
		{"braking", s.Braking},
		{"turnSpeed", s.TurnSpeed},
		{"trackWidth", s.TrackWidth},
		{"maxTickDelta", s.MaxTickDelta},
	}
	for _, f := range positive {
		if !(f.val > 0) {
			return errors.Errorf("config: %s must be positive, got %v", f.key, f.val)
		}
	}
	nonNegative := []field{
		{"maxReverseSpeed", s.MaxReverseSpeed},
		{"deceleration", s.Deceleration},
		{"drift.jitter", s.Drift.Jitter},
	}
	for _, f := range nonNegative {
		if f.val < 0 || math.IsNaN(f.val) {
			return errors.Errorf("config: %s must not be negative, got %v", f.key, f.val)
		}
	}
	if s.TotalLaps < 1 {
		return errors.Errorf("config: totalLaps must be at least 1, got %d", s.TotalLaps)
	}
	switch s.Circuit {
	case CircuitClassic:
	case CircuitProcedural:
		if s.ControlPoints < 3 {
			return errors.Errorf("config: controlPoints must be at least 3, got %d", s.ControlPoints)
		}
		if !(s.CircuitRadius > 0) {
			return errors.Errorf("config: circuitRadius must be positive, got %v", s.CircuitRadius)
		}
	default:
		return errors.Errorf("config: unknown circuit %q", s.Circuit)
	}
	if s.LoadDelay < 0 {
		return errors.Errorf("config: loadDelay must not be negative, got %v", s.LoadDelay)
	}
	return nil
}

// VehicleParams applies the settings to the default car.
func (s Settings) VehicleParams() vehicle.Params {
	p := vehicle.DefaultParams()
	p.MaxSpeed = s.MaxSpeed
	p.MaxReverseSpeed = s.MaxReverseSpeed
	p.Acceleration = s.Acceleration
	p.Braking = s.Braking
	p.Deceleration = s.Deceleration
	p.TurnSpeed = s.TurnSpeed
	p.DriftEnabled = s.Drift.Enabled
	p.DriftJitter = s.Drift.Jitter
	return p
}

// RaceConfig applies the settings to the default session rules.
func (s Settings) RaceConfig() race.Config {
	c := race.DefaultConfig()
	c.TotalLaps = s.TotalLaps
	c.MaxTickDelta = s.MaxTickDelta
	c.LoadDelay = s.LoadDelay
	return c
}

// BuildTrack generates the configured circuit.
func (s Settings) BuildTrack() (*track.Track, error) {
	var pts []geom.Vec3
	switch s.Circuit {
	case CircuitProcedural:
		var err error
		pts, err = track.ProceduralCircuit(s.Seed, s.ControlPoints, s.CircuitRadius, 0.3)
		if err != nil {
			return nil, err
		}
	default:
		pts = track.ClassicCircuit()
	}
	t, err := track.New(pts, track.DefaultParams(s.TrackWidth))
	if err != nil {
		return nil, errors.Wrapf(err, "build %s circuit", s.Circuit)
	}
	return t, nil
}
