package viz

import (
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/san-kum/speedlab/internal/bench"
)

// Styles are a Theme bound to a renderer.
type Styles struct {
	Theme    Theme
	Title    lipgloss.Style
	Header   lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Faster   lipgloss.Style
	Slower   lipgloss.Style
	Mismatch lipgloss.Style
	Accent   lipgloss.Style
	Panel    lipgloss.Style

	renderer *lipgloss.Renderer
}

// NewRenderer returns a renderer for w. Color is dropped when noColor is
// set or NO_COLOR is in the environment.
func NewRenderer(w io.Writer, noColor bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if noColor || termenv.EnvNoColor() {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func NewStyles(r *lipgloss.Renderer, t Theme) Styles {
	return Styles{
		Theme:    t,
		Title:    r.NewStyle().Bold(true).Foreground(t.Title),
		Header:   r.NewStyle().Bold(true).Foreground(t.Header),
		Text:     r.NewStyle().Foreground(t.Text),
		Muted:    r.NewStyle().Foreground(t.Muted),
		Faster:   r.NewStyle().Bold(true).Foreground(t.Faster),
		Slower:   r.NewStyle().Foreground(t.Slower),
		Mismatch: r.NewStyle().Bold(true).Foreground(t.Mismatch),
		Accent:   r.NewStyle().Foreground(t.Accent),
		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		renderer: r,
	}
}

// WithTheme rebuilds s for another theme on the same renderer.
func (s Styles) WithTheme(t Theme) Styles {
	return NewStyles(s.renderer, t)
}

// Speedup renders a speedup ratio colored by direction.
func (s Styles) Speedup(ratio float64) string {
	text := bench.FormatSpeedup(ratio)
	switch {
	case math.IsNaN(ratio) || ratio <= 0:
		return s.Muted.Render(text)
	case ratio >= 1:
		return s.Faster.Render(text)
	}
	return s.Slower.Render(text)
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func Spinner(frame int) string {
	return spinnerFrames[frame%len(spinnerFrames)]
}

func (s Styles) ProgressBar(percent float64, width int) string {
	filled := min(width, max(0, int(percent*float64(width))))
	return s.Accent.Render(strings.Repeat("█", filled)) + s.Muted.Render(strings.Repeat("░", width-filled))
}

// Sparkline draws values on a log scale, one cell per value from the most
// recent, colored faster or slower against 1.
func (s Styles) Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return s.Muted.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	logs := make([]float64, len(values))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range values {
		logs[i] = math.Log10(math.Min(math.Max(v, 1e-3), 1e3))
		lo, hi = math.Min(lo, logs[i]), math.Max(hi, logs[i])
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var sb strings.Builder
	for i, l := range logs {
		idx := min(len(chars)-1, max(0, int((l-lo)/rng*float64(len(chars)-1))))
		c := string(chars[idx])
		if values[i] >= 1 {
			sb.WriteString(s.Faster.Render(c))
		} else {
			sb.WriteString(s.Slower.Render(c))
		}
	}
	return sb.String()
}

func (s Styles) Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(0, mid-3))
	right := strings.Repeat("─", max(0, width-mid-3))
	return s.Muted.Render(left + " ◆ " + right)
}
