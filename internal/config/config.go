package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/speedlab/internal/tabulate"
	"github.com/san-kum/speedlab/internal/validators"
)

const (
	DefaultScale     = 1.0
	DefaultWarmup    = 10
	DefaultParallel  = 4
	DefaultOutputDir = ".speedlab"
	DefaultFormat    = "simple"
	DefaultTheme     = "cyberpunk"
	DefaultLogLevel  = "info"
	DefaultLabel     = "run"

	// EnvPrefix marks environment variables that override file values.
	EnvPrefix = "SPEEDLAB_"
)

type Config struct {
	Label  string       `yaml:"label"`
	Suites []string     `yaml:"suites,omitempty"`
	Bench  BenchConfig  `yaml:"bench"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

type BenchConfig struct {
	Scale      float64 `yaml:"scale"`
	Warmup     int     `yaml:"warmup"`
	Parallel   int     `yaml:"parallel"`
	Iterations int     `yaml:"iterations,omitempty"`
	Rounds     int     `yaml:"rounds,omitempty"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
	Theme  string `yaml:"theme"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func DefaultConfig() *Config {
	return &Config{
		Label: DefaultLabel,
		Bench: BenchConfig{
			Scale:    DefaultScale,
			Warmup:   DefaultWarmup,
			Parallel: DefaultParallel,
			Rounds:   1,
		},
		Output: OutputConfig{
			Dir:    DefaultOutputDir,
			Format: DefaultFormat,
			Theme:  DefaultTheme,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from SPEEDLAB_* variables such as
// SPEEDLAB_SCALE or SPEEDLAB_SUITES=toml,dotenv. Unknown keys are ignored.
func (c *Config) ApplyEnv(env map[string]string) error {
	for key, val := range env {
		name, ok := strings.CutPrefix(key, EnvPrefix)
		if !ok {
			continue
		}
		var err error
		switch strings.ToLower(name) {
		case "label":
			c.Label = val
		case "suites":
			c.Suites = lo.Compact(lo.Map(strings.Split(val, ","), func(s string, _ int) string {
				return strings.TrimSpace(s)
			}))
		case "scale":
			c.Bench.Scale, err = strconv.ParseFloat(val, 64)
		case "warmup":
			c.Bench.Warmup, err = strconv.Atoi(val)
		case "parallel":
			c.Bench.Parallel, err = strconv.Atoi(val)
		case "iterations":
			c.Bench.Iterations, err = strconv.Atoi(val)
		case "rounds":
			c.Bench.Rounds, err = strconv.Atoi(val)
		case "output_dir":
			c.Output.Dir = val
		case "format":
			c.Output.Format = val
		case "theme":
			c.Output.Theme = val
		case "log_level":
			c.Log.Level = val
		case "log_json":
			c.Log.JSON, err = strconv.ParseBool(val)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// Validate reports the first invalid field. Suite and theme names are
// checked by their registries, not here.
func (c *Config) Validate() error {
	switch {
	case c.Bench.Scale <= 0 && c.Bench.Iterations <= 0:
		return fmt.Errorf("bench.scale must be positive, got %g", c.Bench.Scale)
	case c.Bench.Warmup < 0:
		return fmt.Errorf("bench.warmup must not be negative, got %d", c.Bench.Warmup)
	case c.Bench.Parallel < 1:
		return fmt.Errorf("bench.parallel must be at least 1, got %d", c.Bench.Parallel)
	case c.Bench.Rounds < 0:
		return fmt.Errorf("bench.rounds must not be negative, got %d", c.Bench.Rounds)
	case !validators.Slug(c.Label):
		return fmt.Errorf("label %q may only hold letters, digits, dashes and underscores", c.Label)
	case !lo.Contains(tabulate.Formats(), c.Output.Format):
		return fmt.Errorf("unknown format: %s", c.Output.Format)
	}
	return nil
}
