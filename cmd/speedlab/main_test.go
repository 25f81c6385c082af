package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCmd(t *testing.T, env string) *cobra.Command {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(env), 0644); err != nil {
		t.Fatal(err)
	}
	envFile, preset, configFile = path, "", ""
	t.Cleanup(func() { envFile, preset, configFile = "", "", "" })

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&dataDir, "data", ".speedlab", "")
	addBenchFlags(cmd)
	return cmd
}

func TestLoadConfigPrecedence(t *testing.T) {
	cmd := newTestCmd(t, "SPEEDLAB_SCALE=2\nSPEEDLAB_WARMUP=3\nOTHER=ignored\n")
	t.Setenv("SPEEDLAB_WARMUP", "7")
	preset = "quick"
	if err := cmd.Flags().Parse([]string{"--label", "nightly"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bench.Scale != 2 {
		t.Errorf("expected scale from env file, got %g", cfg.Bench.Scale)
	}
	if cfg.Bench.Warmup != 7 {
		t.Errorf("expected process env to beat env file, got %d", cfg.Bench.Warmup)
	}
	if cfg.Label != "nightly" {
		t.Errorf("expected label from flag, got %s", cfg.Label)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected quick preset log level, got %s", cfg.Log.Level)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		preset string
		args   []string
		want   string
	}{
		{"unknown preset", "turbo", nil, "unknown preset: turbo"},
		{"bad scale", "", []string{"--scale=-1"}, "scale"},
		{"bad theme", "", []string{"--theme", "neon"}, "unknown theme: neon"},
		{"bad format", "", []string{"--format", "fancy"}, "unknown format: fancy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCmd(t, "")
			preset = tt.preset
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			_, err := loadConfig(cmd)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
