package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/san-kum/speedlab/internal/bench"
	"github.com/san-kum/speedlab/internal/humanize"
	"github.com/san-kum/speedlab/internal/tabulate"
)

// Exporter writes a report in one output format.
type Exporter func(w io.Writer, report *bench.Report) error

var exporters = map[string]Exporter{
	"json":     ExportJSON,
	"csv":      func(w io.Writer, r *bench.Report) error { return WriteCSV(w, r.Results) },
	"bson":     ExportBSON,
	"markdown": ExportMarkdown,
	"svg":      ExportSVG,
}

func Formats() []string {
	names := lo.Keys(exporters)
	slices.Sort(names)
	return names
}

func Export(w io.Writer, format string, report *bench.Report) error {
	exp, ok := exporters[format]
	if !ok {
		return fmt.Errorf("unknown format: %s", format)
	}
	return exp(w, report)
}

// ExportFile writes report to path. "-" means stdout.
func ExportFile(path, format string, report *bench.Report) error {
	if path == "-" {
		return Export(os.Stdout, format, report)
	}
	if _, ok := exporters[format]; !ok {
		return fmt.Errorf("unknown format: %s", format)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(file, format, report); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func ExportJSON(w io.Writer, report *bench.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func ExportBSON(w io.Writer, report *bench.Report) error {
	data, err := bson.Marshal(report)
	if err != nil {
		return fmt.Errorf("bson: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// DecodeBSON reads a report written by ExportBSON.
func DecodeBSON(data []byte) (*bench.Report, error) {
	var report bench.Report
	if err := bson.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("bson: %w", err)
	}
	for i := range report.Results {
		r := &report.Results[i]
		r.Fast = bench.NewTiming(r.Fast.Elapsed, r.Fast.Iterations)
		if r.Reference != nil {
			t := bench.NewTiming(r.Reference.Elapsed, r.Reference.Iterations)
			r.Reference = &t
		}
	}
	return &report, nil
}

func formatElapsed(t bench.Timing) string {
	if t.Iterations == 0 {
		return ""
	}
	per := t.Elapsed / time.Duration(t.Iterations)
	return per.String() + "/op"
}

func formatOps(ops float64) string {
	if math.IsInf(ops, 0) || math.IsNaN(ops) {
		return "∞"
	}
	return humanize.Intcomma(ops, 0)
}

// Rows flattens a report for tabular output.
func Rows(report *bench.Report) ([][]any, []string) {
	headers := []string{"Suite", "Case", "Iterations", "Accelerated", "Reference", "Ops/sec", "Speedup", "Compatible"}
	rows := make([][]any, 0, len(report.Results))
	for _, r := range report.Results {
		ref, speedup := "", "timing only"
		if r.Reference != nil {
			ref = formatElapsed(*r.Reference)
			speedup = bench.FormatSpeedup(r.Speedup())
		}
		compatible := "yes"
		switch {
		case r.Error != "":
			compatible = "error"
		case r.Skipped:
			compatible = "n/a"
		case !r.Match:
			compatible = "NO"
		}
		rows = append(rows, []any{
			r.Suite,
			r.Case,
			humanize.Intcomma(r.Fast.Iterations, -1),
			formatElapsed(r.Fast),
			ref,
			formatOps(r.Fast.OpsPerSec),
			speedup,
			compatible,
		})
	}
	return rows, headers
}

func ExportMarkdown(w io.Writer, report *bench.Report) error {
	rows, headers := Rows(report)
	sum := report.Summary()
	_, err := fmt.Fprintf(w, "# %s\n\n%s\n\n%d cases: %d compatible, %d failed, %d timing only. Geometric mean speedup: %s.\n",
		report.Label,
		tabulate.Tabulate(rows, tabulate.WithHeaders(headers), tabulate.WithFormat("github")),
		sum.Cases, sum.Passed, sum.Failed, sum.Skipped,
		bench.FormatSpeedup(sum.GeoMeanSpeedup))
	return err
}
