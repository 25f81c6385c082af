package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/speedlab/internal/bench"
	"github.com/san-kum/speedlab/internal/config"
	"github.com/san-kum/speedlab/internal/humanize"
	"github.com/san-kum/speedlab/internal/storage"
	"github.com/san-kum/speedlab/internal/suite"
	"github.com/san-kum/speedlab/internal/viz"
)

var (
	plotOps      bool
	exportFormat string
	exportOut    string
)

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// loadRun loads the named run, or the latest one when args is empty.
func loadRun(args []string) (*bench.Report, string, error) {
	store := storage.New(dataDir)
	var runID string
	if len(args) > 0 {
		runID = args[0]
	} else {
		meta, err := store.Latest()
		if err != nil {
			return nil, "", err
		}
		runID = meta.ID
	}
	report, err := store.LoadReport(runID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return report, runID, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := newTabWriter()
	fmt.Fprintln(w, "ID\tLABEL\tWHEN\tCASES\tPASSED\tFAILED\tGEOMEAN")
	now := time.Now()
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.Label, humanize.NaturalTime(r.Timestamp, now),
			r.Cases, r.Passed, r.Failed, bench.FormatSpeedup(r.Metrics["geomean_speedup"]))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	report, runID, err := loadRun(args)
	if err != nil {
		return err
	}
	if _, err := viz.LookupTheme(theme); err != nil {
		return err
	}
	styles := viz.NewStyles(viz.NewRenderer(os.Stdout, noColor), viz.GetTheme(theme))
	fmt.Printf("run %s\n\n", runID)
	fmt.Println(viz.RenderReport(report, styles, format))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	report, runID, err := loadRun(args)
	if err != nil {
		return err
	}
	fmt.Printf("run %s\n\n", runID)
	if plotOps {
		fmt.Println(viz.PlotThroughput(report))
	} else {
		fmt.Println(viz.PlotSpeedups(report))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	report, runID, err := loadRun(args)
	if err != nil {
		return err
	}
	if err := storage.ExportFile(exportOut, exportFormat, report); err != nil {
		return err
	}
	if exportOut != "-" {
		fmt.Printf("exported %s to %s\n", runID, exportOut)
	}
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func listSuites(cmd *cobra.Command, args []string) error {
	registry := suite.Default()
	w := newTabWriter()
	fmt.Fprintln(w, "SUITE\tLIBRARY\tCASES\tDESCRIPTION")
	for _, name := range registry.List() {
		s, err := registry.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Name, s.Library, len(s.Cases), s.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := newTabWriter()
	fmt.Fprintln(w, "PRESET\tSCALE\tWARMUP\tPARALLEL\tROUNDS\tFORMAT")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%d\t%d\t%d\t%s\n", name, p.Bench.Scale, p.Bench.Warmup, p.Bench.Parallel, p.Bench.Rounds, p.Output.Format)
	}
	return w.Flush()
}
