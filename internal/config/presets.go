package config

import (
	"slices"

	"github.com/samber/lo"
)

var Presets = map[string]*Config{
	"quick": {
		Label:  "quick",
		Bench:  BenchConfig{Scale: 0.1, Warmup: 1, Parallel: DefaultParallel, Rounds: 1},
		Output: OutputConfig{Dir: DefaultOutputDir, Format: DefaultFormat, Theme: DefaultTheme},
		Log:    LogConfig{Level: "warn"},
	},
	"standard": {
		Label:  "standard",
		Bench:  BenchConfig{Scale: 1, Warmup: DefaultWarmup, Parallel: DefaultParallel, Rounds: 1},
		Output: OutputConfig{Dir: DefaultOutputDir, Format: DefaultFormat, Theme: DefaultTheme},
		Log:    LogConfig{Level: DefaultLogLevel},
	},
	"thorough": {
		Label:  "thorough",
		Bench:  BenchConfig{Scale: 10, Warmup: 100, Parallel: DefaultParallel, Rounds: 5},
		Output: OutputConfig{Dir: DefaultOutputDir, Format: "grid", Theme: DefaultTheme},
		Log:    LogConfig{Level: DefaultLogLevel},
	},
	"ci": {
		Label:  "ci",
		Bench:  BenchConfig{Scale: 0.5, Warmup: 5, Parallel: 1, Rounds: 3},
		Output: OutputConfig{Dir: DefaultOutputDir, Format: "github", Theme: "minimal"},
		Log:    LogConfig{Level: DefaultLogLevel, JSON: true},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Suites = slices.Clone(p.Suites)
	return &cfg
}

func ListPresets() []string {
	names := lo.Keys(Presets)
	slices.Sort(names)
	return names
}
