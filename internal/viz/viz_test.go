package viz

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/san-kum/speedlab/internal/bench"
)

func plainStyles(t Theme) Styles {
	r := NewRenderer(io.Discard, true)
	r.SetColorProfile(termenv.Ascii)
	return NewStyles(r, t)
}

func testReport() *bench.Report {
	ref := bench.NewTiming(3*time.Millisecond, 100)
	slowRef := bench.NewTiming(time.Millisecond, 100)
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &bench.Report{
		Label:    "nightly",
		Started:  start,
		Finished: start.Add(3 * time.Second),
		Results: []bench.CaseResult{
			{Suite: "toml", Case: "loads", Fast: bench.NewTiming(time.Millisecond, 100), Reference: &ref, Match: true},
			{Suite: "tabulate", Case: "grid", Fast: bench.NewTiming(time.Millisecond, 100), Match: true, Skipped: true},
			{Suite: "version", Case: "sort", Fast: bench.NewTiming(2*time.Millisecond, 100), Reference: &slowRef, Diff: "x"},
		},
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("expected ocean theme")
	}
	if GetTheme("nope").Name != "cyberpunk" {
		t.Error("unknown theme should fall back to cyberpunk")
	}
	if _, err := LookupTheme("nope"); err == nil || err.Error() != "unknown theme: nope" {
		t.Errorf("unexpected error %v", err)
	}
	if len(ThemeNames()) != 5 {
		t.Errorf("expected 5 themes, got %d", len(ThemeNames()))
	}

	seen := map[string]bool{}
	th := ThemeCyberpunk
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != ThemeCyberpunk.Name {
		t.Errorf("NextTheme should visit every theme and wrap, saw %v", seen)
	}
}

func TestRenderReport(t *testing.T) {
	out := RenderReport(testReport(), plainStyles(ThemeMinimal), "simple")

	for _, want := range []string{
		"nightly", "2024-01-02 03:04:05",
		"Suite", "loads", "3.0x faster", "timing only", "2.0x slower", "NO",
		"3 cases", "1 compatible", "1 failed", "1 timing only", "took 3 seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("ascii profile should not emit escape sequences")
	}
}

func TestRenderSummaryNoFailures(t *testing.T) {
	report := testReport()
	report.Results = report.Results[:2]
	out := RenderSummary(report, plainStyles(ThemeCyberpunk))
	if !strings.Contains(out, "0 failed") || !strings.Contains(out, "geomean 3.0x faster") {
		t.Errorf("unexpected summary %q", out)
	}
}

func TestStylesSpeedup(t *testing.T) {
	s := plainStyles(ThemeCyberpunk)
	tests := []struct {
		ratio float64
		want  string
	}{
		{2, "2.0x faster"},
		{0.25, "4.0x slower"},
		{math.Inf(1), "∞x faster"},
		{0, "n/a"},
	}
	for _, tt := range tests {
		if got := s.Speedup(tt.ratio); got != tt.want {
			t.Errorf("Speedup(%v): expected %q, got %q", tt.ratio, tt.want, got)
		}
	}
}

func TestProgressBarAndSparkline(t *testing.T) {
	s := plainStyles(ThemeCyberpunk)
	if got := s.ProgressBar(0.5, 10); got != "█████░░░░░" {
		t.Errorf("unexpected bar %q", got)
	}
	if got := s.ProgressBar(2, 4); got != "████" {
		t.Errorf("bar should clamp, got %q", got)
	}
	if got := s.Sparkline(nil, 5); got != "─────" {
		t.Errorf("empty sparkline %q", got)
	}
	got := []rune(s.Sparkline([]float64{0.1, 1, 10}, 10))
	if len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Errorf("unexpected sparkline %q", string(got))
	}
	if n := len([]rune(s.Sparkline(make([]float64, 50), 10))); n != 10 {
		t.Errorf("sparkline should keep the last 10 values, got %d", n)
	}
}

func TestPlots(t *testing.T) {
	report := testReport()
	if out := PlotSpeedups(report); !strings.Contains(out, "nightly: speedup per case") {
		t.Errorf("unexpected plot:\n%s", out)
	}
	if out := PlotThroughput(report); !strings.Contains(out, "ops/sec") {
		t.Errorf("unexpected plot:\n%s", out)
	}
	empty := &bench.Report{Label: "empty"}
	if out := PlotSpeedups(empty); out != "no cases with a reference implementation" {
		t.Errorf("unexpected empty plot %q", out)
	}
	if PlotSeries(nil, "x") != "" {
		t.Error("expected empty series plot")
	}
	if out := PlotSeries([]float64{1, 2, 3}, "sweep"); !strings.Contains(out, "sweep") {
		t.Errorf("unexpected series plot:\n%s", out)
	}
}

func TestLiveUpdate(t *testing.T) {
	cancelled := false
	m := NewLive(3, plainStyles(ThemeCyberpunk), func() { cancelled = true })
	if m.Init() == nil {
		t.Fatal("expected tick command")
	}

	report := testReport()
	var model tea.Model = m
	for _, r := range report.Results {
		model, _ = model.Update(CaseMsg(r))
	}
	live := model.(Live)
	if len(live.results) != 3 || live.failed != 1 || len(live.speedups) != 2 {
		t.Errorf("unexpected state: %d results, %d failed, %d speedups", len(live.results), live.failed, len(live.speedups))
	}
	view := live.View()
	for _, want := range []string{"3/3", "loads", "mismatch", "timing only", "1 failing"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if model.(Live).styles.Theme.Name != "retro" {
		t.Errorf("expected theme to cycle to retro, got %s", model.(Live).styles.Theme.Name)
	}

	model, cmd := model.Update(DoneMsg{Report: report})
	if cmd == nil {
		t.Error("expected quit command after done")
	}
	if done, ok := model.(Live).Done(); !ok || done.Report != report {
		t.Error("expected run to be done")
	}

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cancelled {
		t.Error("quitting after the run finished should not cancel")
	}
}

func TestLiveQuitCancels(t *testing.T) {
	cancelled := false
	m := NewLive(5, plainStyles(ThemeCyberpunk), func() { cancelled = true })
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !cancelled || cmd == nil {
		t.Error("quitting mid-run should cancel and quit")
	}
	if !strings.Contains(model.View(), "stopping") {
		t.Error("expected stopping status")
	}

	model, _ = model.Update(DoneMsg{Err: errors.New("context canceled")})
	if !strings.Contains(model.View(), "context canceled") {
		t.Error("expected error in view")
	}
}
