package storage

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/speedlab/internal/bench"
	"github.com/san-kum/speedlab/internal/markup"
)

const (
	svgWidth    = 720
	svgBarH     = 22
	svgGap      = 6
	svgLabelW   = 240
	svgMaxRatio = 100.0
)

// svgBar returns the bar colour: green when faster, red when slower, grey
// for timing-only or incompatible cases.
func svgBar(r bench.CaseResult) string {
	switch {
	case r.Reference == nil || !r.Passed():
		return "#666666"
	case r.Speedup() >= 1:
		return "#00ff9f"
	}
	return "#ff3860"
}

// ExportSVG draws one horizontal bar per case on a log scale, with the 1x
// line marked.
func ExportSVG(w io.Writer, report *bench.Report) error {
	n := len(report.Results)
	height := svgGap + n*(svgBarH+svgGap) + 30

	maxLog := 1.0
	for _, r := range report.Results {
		if sp := r.Speedup(); sp > 0 {
			maxLog = math.Max(maxLog, math.Abs(math.Log10(math.Min(sp, svgMaxRatio))))
		}
	}
	plotW := float64(svgWidth - svgLabelW - 80)
	mid := float64(svgLabelW) + plotW/2
	scale := plotW / 2 / maxLog

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="12">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="%d" y="18" fill="#cccccc">%s</text>
`, svgWidth, height, svgWidth, height, svgGap, markup.EscapeString(report.Label)))

	for i, r := range report.Results {
		y := float64(30 + i*(svgBarH+svgGap))
		label := markup.EscapeString(r.Suite + "/" + r.Case)
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" fill="#cccccc">%s</text>
`, svgGap, y+svgBarH*0.7, label))

		sp := r.Speedup()
		if sp <= 0 {
			continue
		}
		v := math.Log10(math.Min(math.Max(sp, 1/svgMaxRatio), svgMaxRatio)) * scale
		x, width := mid, v
		if v < 0 {
			x, width = mid+v, -v
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%d" fill="%s"/>
<text x="%.1f" y="%.1f" fill="#cccccc">%s</text>
`, x, y, math.Max(width, 1), svgBarH, svgBar(r),
			mid+math.Max(v, 0)+4, y+svgBarH*0.7, markup.EscapeString(bench.FormatSpeedup(sp))))
	}

	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="24" x2="%.1f" y2="%d" stroke="#888888" stroke-dasharray="4 2"/>
</svg>
`, mid, mid, height-6))

	_, err := io.WriteString(w, sb.String())
	return err
}
