package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/speedlab/internal/bench"
	"github.com/san-kum/speedlab/internal/humanize"
	"github.com/san-kum/speedlab/internal/storage"
	"github.com/san-kum/speedlab/internal/tabulate"
)

const (
	plotHeight = 10
	plotWidth  = 60
	// maxPlotted caps infinite and huge ratios so one case does not flatten
	// the rest of the chart.
	maxPlotted = 100.0
)

// RenderReport draws report as a table in the given tabulate format, followed
// by a summary line.
func RenderReport(report *bench.Report, s Styles, format string) string {
	rows, headers := storage.Rows(report)
	for i, r := range report.Results {
		if r.Reference != nil {
			rows[i][6] = s.Speedup(r.Speedup())
		} else {
			rows[i][6] = s.Muted.Render(rows[i][6].(string))
		}
		switch rows[i][7] {
		case "NO", "error":
			rows[i][7] = s.Mismatch.Render(rows[i][7].(string))
		case "yes":
			rows[i][7] = s.Faster.Render("yes")
		}
	}
	for i, h := range headers {
		headers[i] = s.Header.Render(h)
	}

	var sb strings.Builder
	sb.WriteString(s.Title.Render(report.Label))
	if !report.Started.IsZero() {
		sb.WriteString(s.Muted.Render(" · " + report.Started.Format("2006-01-02 15:04:05")))
	}
	sb.WriteString("\n\n")
	sb.WriteString(tabulate.Tabulate(rows, tabulate.WithHeaders(headers), tabulate.WithFormat(format)))
	sb.WriteString("\n\n")
	sb.WriteString(RenderSummary(report, s))
	return sb.String()
}

func RenderSummary(report *bench.Report, s Styles) string {
	sum := report.Summary()
	parts := []string{
		fmt.Sprintf("%d cases", sum.Cases),
		s.Faster.Render(fmt.Sprintf("%d compatible", sum.Passed)),
	}
	if sum.Failed > 0 {
		parts = append(parts, s.Mismatch.Render(fmt.Sprintf("%d failed", sum.Failed)))
	} else {
		parts = append(parts, "0 failed")
	}
	parts = append(parts, fmt.Sprintf("%d timing only", sum.Skipped))
	if sum.GeoMeanSpeedup > 0 {
		parts = append(parts, "geomean "+s.Speedup(sum.GeoMeanSpeedup))
	}
	if !report.Started.IsZero() && report.Finished.After(report.Started) {
		parts = append(parts, "took "+humanize.NaturalDelta(report.Finished.Sub(report.Started)))
	}
	return strings.Join(parts, s.Muted.Render(" · "))
}

func speedups(report *bench.Report) []float64 {
	var out []float64
	for _, r := range report.Results {
		if r.Reference == nil {
			continue
		}
		sp := r.Speedup()
		if math.IsNaN(sp) {
			continue
		}
		out = append(out, math.Min(sp, maxPlotted))
	}
	return out
}

// PlotSpeedups charts the speedup of every case that has a reference, in
// report order.
func PlotSpeedups(report *bench.Report) string {
	values := speedups(report)
	if len(values) == 0 {
		return "no cases with a reference implementation"
	}
	return asciigraph.Plot(values,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("%s: speedup per case (reference time / accelerated time)", report.Label)))
}

// PlotThroughput charts accelerated and reference ops/sec side by side.
func PlotThroughput(report *bench.Report) string {
	var fast, ref []float64
	for _, r := range report.Results {
		if r.Reference == nil || math.IsInf(r.Fast.OpsPerSec, 0) || math.IsInf(r.Reference.OpsPerSec, 0) {
			continue
		}
		fast = append(fast, r.Fast.OpsPerSec)
		ref = append(ref, r.Reference.OpsPerSec)
	}
	if len(fast) == 0 {
		return "no cases with a reference implementation"
	}
	return asciigraph.PlotMany([][]float64{fast, ref},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption("ops/sec: accelerated (green) vs reference (red)"))
}

// PlotSeries charts any series, for sweeps and history.
func PlotSeries(values []float64, caption string) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption))
}
