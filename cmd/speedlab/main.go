package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/speedlab/internal/bench"
	"github.com/san-kum/speedlab/internal/config"
	"github.com/san-kum/speedlab/internal/dotenv"
	"github.com/san-kum/speedlab/internal/logging"
	"github.com/san-kum/speedlab/internal/storage"
	"github.com/san-kum/speedlab/internal/suite"
	"github.com/san-kum/speedlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	envFile    string
	logLevel   string
	logJSON    bool
	noColor    bool

	label      string
	cases      []string
	scale      float64
	warmup     int
	parallel   int
	iterations int
	rounds     int
	format     string
	theme      string
	live       bool
	noSave     bool
)

// main registers the speedlab commands and runs the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "speedlab",
		Short:         "benchmark accelerated utility libraries against their references",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := logging.Setup(logging.Config{Level: logLevel, JSON: logJSON})
			return err
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultOutputDir, "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&envFile, "env-file", "", "read SPEEDLAB_* overrides from this .env file (default: search upward for .env)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")

	runCmd := &cobra.Command{
		Use:   "run [suite...]",
		Short: "run benchmark suites (all by default)",
		RunE:  runBench,
	}
	addBenchFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "show live progress")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	compatCmd := &cobra.Command{
		Use:   "compat [suite...]",
		Short: "check accelerated output against references without timing",
		RunE:  runCompat,
	}
	compatCmd.Flags().IntVar(&parallel, "parallel", config.DefaultParallel, "parallel checks")
	compatCmd.Flags().StringSliceVar(&cases, "case", nil, "only run these cases")

	planCmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "run a YAML benchmark plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}
	addBenchFlags(planCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [suite]",
		Short: "rerun a suite across iteration counts",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepMin, "min", 10, "smallest iteration count")
	sweepCmd.Flags().IntVar(&sweepMax, "max", 1000, "largest iteration count")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of points")
	sweepCmd.Flags().IntVar(&parallel, "parallel", config.DefaultParallel, "parallel compatibility checks")

	watchCmd := &cobra.Command{
		Use:   "watch [suite...]",
		Short: "rerun suites on an interval and chart the speedup trend",
		RunE:  runWatch,
	}
	addBenchFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", defaultWatchInterval, "time between runs")
	watchCmd.Flags().IntVar(&watchCount, "count", 0, "stop after this many runs (0 runs until interrupted)")
	watchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&format, "format", config.DefaultFormat, "table format")
	showCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot speedups of a stored run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&plotOps, "throughput", false, "plot ops/sec instead of speedup")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format ("+strings.Join(storage.Formats(), ", ")+")")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "-", "output path, - for stdout")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	suitesCmd := &cobra.Command{
		Use:   "suites",
		Short: "list benchmark suites and their cases",
		RunE:  listSuites,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE:  listPresets,
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list color themes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range viz.ThemeNames() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, compatCmd, planCmd, sweepCmd, watchCmd,
		listCmd, showCmd, plotCmd, exportCmd, deleteCmd,
		suitesCmd, presetsCmd, themesCmd)
	rootCmd.AddCommand(toolCommands()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addBenchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&label, "label", config.DefaultLabel, "run label")
	f.StringSliceVar(&cases, "case", nil, "only run these cases")
	f.Float64Var(&scale, "scale", config.DefaultScale, "iteration scale factor")
	f.IntVar(&warmup, "warmup", config.DefaultWarmup, "warmup calls per case")
	f.IntVar(&parallel, "parallel", config.DefaultParallel, "parallel compatibility checks")
	f.IntVar(&iterations, "iterations", 0, "fixed iteration count for every case")
	f.IntVar(&rounds, "rounds", 1, "repeat each suite and keep the median")
	f.StringVar(&format, "format", config.DefaultFormat, "table format")
	f.StringVar(&theme, "theme", config.DefaultTheme, "color theme")
}

// loadConfig resolves settings in order: defaults, preset, config file,
// .env and environment, then flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	env, err := readEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("label") {
		cfg.Label = label
	}
	if flags.Changed("scale") {
		cfg.Bench.Scale = scale
	}
	if flags.Changed("warmup") {
		cfg.Bench.Warmup = warmup
	}
	if flags.Changed("parallel") {
		cfg.Bench.Parallel = parallel
	}
	if flags.Changed("iterations") {
		cfg.Bench.Iterations = iterations
	}
	if flags.Changed("rounds") {
		cfg.Bench.Rounds = rounds
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("theme") {
		cfg.Output.Theme = theme
	}
	if flags.Changed("data") {
		cfg.Output.Dir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = logJSON
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := logging.Setup(logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON}); err != nil {
		return nil, err
	}
	if _, err := viz.LookupTheme(cfg.Output.Theme); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readEnv merges SPEEDLAB_* keys from the .env file with the process
// environment, which wins.
func readEnv() (map[string]string, error) {
	env := map[string]string{}

	path := envFile
	if path == "" {
		found, err := dotenv.Find("")
		if err != nil && !errors.Is(err, dotenv.ErrNotFound) {
			return nil, err
		}
		path = found
	}
	if path != "" {
		values, err := dotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("env file: %w", err)
		}
		for k, v := range values {
			if strings.HasPrefix(k, config.EnvPrefix) {
				env[k] = v
			}
		}
		log.Debug().Str("path", path).Int("keys", len(env)).Msg("loaded env file")
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, config.EnvPrefix) {
			env[k] = v
		}
	}
	return env, nil
}

func resolveSuites(cfg *config.Config, args []string) ([]suite.Suite, error) {
	names := args
	if len(names) == 0 {
		names = cfg.Suites
	}
	registry := suite.Default()
	if len(names) == 0 {
		names = registry.List()
	}
	resolved, err := registry.Resolve(names)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return resolved, nil
	}
	out := make([]suite.Suite, 0, len(resolved))
	for _, s := range resolved {
		if f := s.Filter(cases...); len(f.Cases) > 0 {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no cases match %v", cases)
	}
	return out, nil
}

func benchConfig(cfg *config.Config) bench.Config {
	return bench.Config{
		Scale:      cfg.Bench.Scale,
		Warmup:     cfg.Bench.Warmup,
		Parallel:   cfg.Bench.Parallel,
		Iterations: cfg.Bench.Iterations,
	}
}

func newStyles(cfg *config.Config) viz.Styles {
	return viz.NewStyles(viz.NewRenderer(os.Stdout, noColor), viz.GetTheme(cfg.Output.Theme))
}
