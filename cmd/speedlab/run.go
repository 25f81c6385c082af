package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/speedlab/internal/bench"
	"github.com/san-kum/speedlab/internal/compat"
	"github.com/san-kum/speedlab/internal/config"
	"github.com/san-kum/speedlab/internal/humanize"
	"github.com/san-kum/speedlab/internal/logging"
	"github.com/san-kum/speedlab/internal/plan"
	"github.com/san-kum/speedlab/internal/storage"
	"github.com/san-kum/speedlab/internal/suite"
	"github.com/san-kum/speedlab/internal/viz"
)

const defaultWatchInterval = 5 * time.Minute

var (
	sweepMin, sweepMax, sweepSteps int

	watchInterval time.Duration
	watchCount    int
)

// execute runs every suite, repeating each one when rounds > 1 and keeping
// the per-case median.
func execute(ctx context.Context, runner *bench.Runner, suites []suite.Suite, cfg *config.Config) (*bench.Report, error) {
	if cfg.Bench.Rounds <= 1 {
		return runner.RunAll(ctx, suites, cfg.Label)
	}
	report := &bench.Report{Label: cfg.Label, Started: time.Now()}
	for _, s := range suites {
		rounds, err := runner.Repeat(ctx, s, cfg.Bench.Rounds)
		report.Results = append(report.Results, bench.Median(rounds)...)
		if err != nil {
			report.Finished = time.Now()
			return report, fmt.Errorf("suite %s: %w", s.Name, err)
		}
	}
	report.Finished = time.Now()
	return report, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	suites, err := resolveSuites(cfg, args)
	if err != nil {
		return err
	}
	styles := newStyles(cfg)

	var report *bench.Report
	if live {
		report, err = runLive(cmd.Context(), cfg, suites, styles)
	} else {
		runner := bench.NewRunner(benchConfig(cfg), log.Logger)
		log.Info().
			Str("label", cfg.Label).
			Int("suites", len(suites)).
			Int("cases", bench.Total(suites)).
			Float64("scale", cfg.Bench.Scale).
			Msg("starting run")
		report, err = execute(cmd.Context(), runner, suites, cfg)
	}
	if err != nil && (report == nil || len(report.Results) == 0) {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Int("completed", len(report.Results)).Msg("run interrupted, keeping partial results")
	}

	fmt.Println(viz.RenderReport(report, styles, cfg.Output.Format))

	if !noSave {
		store := storage.New(cfg.Output.Dir)
		runID, serr := store.Save(report, benchConfig(cfg))
		if serr != nil {
			return fmt.Errorf("failed to save: %w", serr)
		}
		fmt.Printf("\nrun saved: %s\n", runID)
	}

	if sum := report.Summary(); sum.Failed > 0 {
		return fmt.Errorf("%d of %d cases failed", sum.Failed, sum.Cases)
	}
	return err
}

// runLive drives the run from a goroutine while a bubbletea program renders
// progress. Quitting the program cancels the run.
func runLive(ctx context.Context, cfg *config.Config, suites []suite.Suite, styles viz.Styles) (*bench.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logging.Quiet()
	runner := bench.NewRunner(benchConfig(cfg), zerolog.Nop())
	p := tea.NewProgram(viz.NewLive(bench.Total(suites), styles, cancel))
	runner.AddObserver(viz.Observer(p))

	go func() {
		report, err := execute(ctx, runner, suites, cfg)
		p.Send(viz.DoneMsg{Report: report, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("live view: %w", err)
	}
	done, ok := final.(viz.Live).Done()
	if !ok {
		return nil, context.Canceled
	}
	return done.Report, done.Err
}

func runCompat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	suites, err := resolveSuites(cfg, args)
	if err != nil {
		return err
	}

	var total, matched, failed, skipped int
	for _, s := range suites {
		outcomes := compat.CheckAll(cmd.Context(), s.Cases, cfg.Bench.Parallel)
		m, f, sk := compat.Summary(outcomes)
		matched, failed, skipped = matched+m, failed+f, skipped+sk
		total += len(outcomes)
		for _, o := range outcomes {
			if err := o.AsError(); err != nil {
				fmt.Printf("FAIL %s/%v\n", s.Name, err)
			}
		}
	}

	fmt.Printf("%d cases: %d compatible, %d incompatible, %d without reference\n", total, matched, failed, skipped)
	if failed > 0 {
		return fmt.Errorf("%d incompatible cases", failed)
	}
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := plan.LoadPlan(args[0])
	if err != nil {
		return err
	}

	log.Info().Str("plan", p.Name).Int("steps", len(p.Steps)).Msg("running plan")
	runner := bench.NewRunner(benchConfig(cfg), log.Logger)
	results, err := plan.RunPlan(cmd.Context(), p, suite.Default(), runner)

	styles := newStyles(cfg)
	for i, sr := range results {
		report := &bench.Report{Label: fmt.Sprintf("%s step %d: %s", p.Name, i+1, sr.Step.Suite), Started: time.Now(), Results: sr.Results}
		report.Finished = report.Started
		fmt.Println(viz.RenderReport(report, styles, cfg.Output.Format))
		fmt.Println()
	}
	switch {
	case errors.Is(err, plan.ErrSpeedupNotMet), errors.Is(err, plan.ErrIncompatible):
		return fmt.Errorf("plan %s failed: %w", p.Name, err)
	case err != nil:
		return err
	}
	fmt.Printf("plan %s: %d steps passed\n", p.Name, len(results))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sw := &plan.Sweep{Suite: args[0], MinIters: sweepMin, MaxIters: sweepMax, NumSteps: sweepSteps}
	runner := bench.NewRunner(benchConfig(cfg), log.Logger)
	points, err := plan.RunSweep(cmd.Context(), sw, suite.Default(), runner)
	if err != nil {
		return err
	}

	w := newTabWriter()
	fmt.Fprintln(w, "ITERATIONS\tSPEEDUP\tOPS/SEC")
	speedups := make([]float64, 0, len(points))
	for _, pt := range points {
		fmt.Fprintf(w, "%d\t%s\t%s\n", pt.Iterations, bench.FormatSpeedup(pt.Speedup), humanize.Intcomma(pt.OpsPerSec, 0))
		speedups = append(speedups, pt.Speedup)
	}
	w.Flush()

	fmt.Println()
	fmt.Println(viz.PlotSeries(speedups, fmt.Sprintf("%s speedup over %d..%d iterations", sw.Suite, sw.MinIters, sw.MaxIters)))
	return nil
}

// runWatch reruns the selected suites on a fixed interval, saving each run
// and charting the geometric-mean speedup over time.
func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	suites, err := resolveSuites(cfg, args)
	if err != nil {
		return err
	}
	if watchInterval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", watchInterval)
	}

	ctx := cmd.Context()
	runner := bench.NewRunner(benchConfig(cfg), log.Logger)
	store := storage.New(cfg.Output.Dir)
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	var trend []float64
	for n := 1; ; n++ {
		report, err := execute(ctx, runner, suites, cfg)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		if !noSave {
			if _, err := store.Save(report, benchConfig(cfg)); err != nil {
				return fmt.Errorf("failed to save: %w", err)
			}
		}

		sum := report.Summary()
		trend = append(trend, sum.GeoMeanSpeedup)
		fmt.Fprintf(os.Stdout, "run %d: %d/%d compatible, geomean %s\n", n, sum.Passed, sum.Cases, bench.FormatSpeedup(sum.GeoMeanSpeedup))
		if len(trend) > 1 {
			fmt.Println(viz.PlotSeries(trend, "geomean speedup per run"))
		}

		if watchCount > 0 && n >= watchCount {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
