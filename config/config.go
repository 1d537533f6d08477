// Package config loads the linkroute configuration. Files are YAML or TOML
// (chosen by extension); environment variables override file values at
// runtime and are never written back.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"linkroute/core"
	"linkroute/log"
	"linkroute/obstacles"
	"linkroute/pathfinding"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML
// nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// RouterConfig is the file form of the router options. Directions and link
// ends are names ("top", "left", "source", ...) and penalty keys are angles
// in degrees.
type RouterConfig struct {
	Step               float64            `yaml:"step" toml:"step"`
	MaximumLoops       int                `yaml:"maximum_loops" toml:"maximum_loops"`
	Precision          int                `yaml:"precision" toml:"precision"`
	MaxDirectionChange float64            `yaml:"max_direction_change" toml:"max_direction_change"`
	Perpendicular      bool               `yaml:"perpendicular" toml:"perpendicular"`
	StartDirections    []string           `yaml:"start_directions,omitempty" toml:"start_directions,omitempty"`
	EndDirections      []string           `yaml:"end_directions,omitempty" toml:"end_directions,omitempty"`
	Penalties          map[string]float64 `yaml:"penalties,omitempty" toml:"penalties,omitempty"`
	Padding            *float64           `yaml:"padding,omitempty" toml:"padding,omitempty"` // uniform; unset means one step
	ExcludeEnds        []string           `yaml:"exclude_ends,omitempty" toml:"exclude_ends,omitempty"`
	ExcludeTypes       []string           `yaml:"exclude_types,omitempty" toml:"exclude_types,omitempty"`

	Workers   int     `yaml:"workers" toml:"workers"`       // 0 means GOMAXPROCS
	CellSize  float64 `yaml:"cell_size" toml:"cell_size"`   // obstacle map bucket size
	CacheSize int     `yaml:"cache_size" toml:"cache_size"` // 0 disables the route cache
}

// RenderConfig controls the text and image outputs.
type RenderConfig struct {
	// Scale is the number of scene units per text cell.
	Scale float64 `yaml:"scale" toml:"scale"`
	// PixelScale multiplies scene units for PNG output.
	PixelScale float64 `yaml:"pixel_scale" toml:"pixel_scale"`
	// Margin is added around the scene in scene units.
	Margin float64 `yaml:"margin" toml:"margin"`
	// Obstacles draws the padded obstacle boxes.
	Obstacles bool `yaml:"obstacles" toml:"obstacles"`
}

// Config is the complete configuration file.
type Config struct {
	ConfigVersion int          `yaml:"config_version" toml:"config_version"`
	Router        RouterConfig `yaml:"router" toml:"router"`
	Logging       log.Options  `yaml:"logging" toml:"logging"`
	Render        RenderConfig `yaml:"render" toml:"render"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ConfigVersion: 1,
		Router: RouterConfig{
			Step:               pathfinding.DefaultStep,
			MaximumLoops:       pathfinding.DefaultMaximumLoops,
			Precision:          pathfinding.DefaultPrecision,
			MaxDirectionChange: pathfinding.DefaultMaxAllowedDirectionChange,
			CellSize:           obstacles.DefaultCellSize,
		},
		Logging: log.Options{Level: "warn", Format: "console"},
		Render:  RenderConfig{Scale: 10, PixelScale: 1, Margin: 20},
	}
}

// Env var names used as overrides.
const (
	EnvStep      = "LINKROUTE_STEP"
	EnvMaxLoops  = "LINKROUTE_MAX_LOOPS"
	EnvPrecision = "LINKROUTE_PRECISION"
	EnvWorkers   = "LINKROUTE_WORKERS"
	EnvLogLevel  = "LINKROUTE_LOG_LEVEL"
	EnvLogFormat = "LINKROUTE_LOG_FORMAT"
	EnvLogSource = "LINKROUTE_LOG_SOURCE"
	EnvLogFile   = "LINKROUTE_LOG_FILE"
)

// Load reads the config file at path over the defaults and applies the
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decode(path, data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes cfg to path in the format selected by its extension.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	switch format(path) {
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

func decode(path string, data []byte, cfg *Config) error {
	switch format(path) {
	case "yaml":
		return yaml.Unmarshal(data, cfg)
	case "toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := lookup(EnvStep); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Router.Step = f
		}
	}
	if v, ok := lookup(EnvMaxLoops); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Router.MaximumLoops = n
		}
	}
	if v, ok := lookup(EnvPrecision); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Router.Precision = n
		}
	}
	if v, ok := lookup(EnvWorkers); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Router.Workers = n
		}
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogSource); ok {
		lv := strings.ToLower(v)
		cfg.Logging.AddSource = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.Logging.File = v
	}
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// EnvOverrideFor returns the env var that overrides the dotted config key,
// if it is set.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"router.step":          EnvStep,
		"router.maximum_loops": EnvMaxLoops,
		"router.precision":     EnvPrecision,
		"router.workers":       EnvWorkers,
		"logging.level":        EnvLogLevel,
		"logging.format":       EnvLogFormat,
		"logging.source":       EnvLogSource,
		"logging.file":         EnvLogFile,
	}[key]
	if env == "" || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// Options converts the router section to validated router options.
func (c RouterConfig) Options() (pathfinding.Options, error) {
	opts := pathfinding.DefaultOptions()
	opts.Step = c.Step
	opts.MaximumLoops = c.MaximumLoops
	opts.Precision = c.Precision
	opts.MaxAllowedDirectionChange = c.MaxDirectionChange
	opts.Perpendicular = c.Perpendicular
	opts.ExcludeTypes = slices.Clone(c.ExcludeTypes)

	var errs []error
	if len(c.StartDirections) > 0 {
		dirs, err := parseDirections(c.StartDirections)
		errs = append(errs, err)
		opts.StartDirections = dirs
	}
	if len(c.EndDirections) > 0 {
		dirs, err := parseDirections(c.EndDirections)
		errs = append(errs, err)
		opts.EndDirections = dirs
	}
	for _, name := range c.ExcludeEnds {
		end, err := obstacles.ParseEnd(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		opts.ExcludeEnds = append(opts.ExcludeEnds, end)
	}
	if len(c.Penalties) > 0 {
		opts.Penalties = make(map[float64]float64, len(c.Penalties))
		for key, cost := range c.Penalties {
			angle, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("penalty angle %q: %w", key, err))
				continue
			}
			opts.Penalties[angle] = cost
		}
	}
	if c.Padding != nil {
		sides := pathfinding.UniformSides(*c.Padding)
		opts.Padding = &sides
	}

	if err := errors.Join(errs...); err != nil {
		return opts, fmt.Errorf("%w: %w", pathfinding.ErrInvalidOptions, err)
	}
	return opts, opts.Validate()
}

func parseDirections(names []string) ([]core.Direction, error) {
	var (
		dirs []core.Direction
		errs []error
	)
	for _, name := range names {
		d, err := core.ParseDirection(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		dirs = append(dirs, d)
	}
	return dirs, errors.Join(errs...)
}
