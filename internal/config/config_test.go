package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Bench.Scale <= 0 {
		t.Error("scale should be positive")
	}
	if cfg.Output.Dir != DefaultOutputDir {
		t.Errorf("expected output dir %s, got %s", DefaultOutputDir, cfg.Output.Dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speedlab.yaml")
	cfg := DefaultConfig()
	cfg.Suites = []string{"toml", "version"}
	cfg.Bench.Scale = 0.25
	cfg.Log.JSON = true

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("bench:\n  scale: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bench.Scale != 2 {
		t.Errorf("expected scale 2, got %g", cfg.Bench.Scale)
	}
	if cfg.Bench.Warmup != DefaultWarmup || cfg.Label != DefaultLabel {
		t.Errorf("unset keys should keep defaults, got %+v", cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(map[string]string{
		"SPEEDLAB_SCALE":    "0.5",
		"SPEEDLAB_SUITES":   "toml, dotenv,,",
		"SPEEDLAB_LOG_JSON": "true",
		"SPEEDLAB_THEME":    "ocean",
		"HOME":              "/root",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bench.Scale != 0.5 {
		t.Errorf("expected scale 0.5, got %g", cfg.Bench.Scale)
	}
	if diff := cmp.Diff([]string{"toml", "dotenv"}, cfg.Suites); diff != "" {
		t.Errorf("suites mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Log.JSON || cfg.Output.Theme != "ocean" {
		t.Errorf("unexpected config %+v", cfg)
	}

	err = cfg.ApplyEnv(map[string]string{"SPEEDLAB_WARMUP": "lots"})
	if err == nil || !strings.Contains(err.Error(), "SPEEDLAB_WARMUP") {
		t.Errorf("expected error naming the variable, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero scale", func(c *Config) { c.Bench.Scale = 0 }},
		{"negative warmup", func(c *Config) { c.Bench.Warmup = -1 }},
		{"no parallelism", func(c *Config) { c.Bench.Parallel = 0 }},
		{"label with spaces", func(c *Config) { c.Label = "my run" }},
		{"unknown format", func(c *Config) { c.Output.Format = "fancy" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Bench.Scale = 0
	cfg.Bench.Iterations = 10
	if err := cfg.Validate(); err != nil {
		t.Errorf("fixed iterations should not need a scale: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("quick")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Bench.Scale != 0.1 {
		t.Errorf("expected scale 0.1, got %g", cfg.Bench.Scale)
	}

	cfg.Bench.Scale = 99
	if GetPreset("quick").Bench.Scale != 0.1 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"ci", "quick", "standard", "thorough"}
	if diff := cmp.Diff(want, ListPresets()); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
