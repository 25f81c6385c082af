package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/speedlab/internal/bench"
)

const (
	liveWidth   = 72
	recentCases = 8
)

// CaseMsg carries one finished case into the live view.
type CaseMsg bench.CaseResult

// DoneMsg ends the run. Report may be partial when Err is set.
type DoneMsg struct {
	Report *bench.Report
	Err    error
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Live shows a progress bar, the most recent cases and a speedup sparkline
// while a run is in progress.
type Live struct {
	styles   Styles
	total    int
	results  []bench.CaseResult
	speedups []float64
	failed   int
	frame    int
	started  time.Time
	done     *DoneMsg
	quitting bool
	showHelp bool
	cancel   func()
}

// NewLive builds the model. cancel is called when the user quits before the
// run finishes.
func NewLive(total int, styles Styles, cancel func()) Live {
	return Live{
		styles:  styles,
		total:   total,
		started: time.Now(),
		cancel:  cancel,
	}
}

// Observer forwards finished cases to a running program.
func Observer(p *tea.Program) bench.Observer {
	return bench.ObserverFunc(func(r bench.CaseResult) { p.Send(CaseMsg(r)) })
}

func (m Live) Init() tea.Cmd {
	return tick()
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			if m.done == nil && m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "t":
			m.styles = m.styles.WithTheme(NextTheme(m.styles.Theme))
		case "?":
			m.showHelp = !m.showHelp
		}
	case CaseMsg:
		r := bench.CaseResult(msg)
		m.results = append(m.results, r)
		if !r.Passed() {
			m.failed++
		}
		if r.Reference != nil {
			m.speedups = append(m.speedups, r.Speedup())
		}
	case DoneMsg:
		m.done = &msg
		return m, tea.Quit
	case TickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

// Done reports whether the run finished, and its outcome.
func (m Live) Done() (*DoneMsg, bool) {
	return m.done, m.done != nil
}

func (m Live) View() string {
	s := m.styles
	var sb strings.Builder

	status := s.Accent.Render(Spinner(m.frame) + " running")
	switch {
	case m.done != nil && m.done.Err != nil:
		status = s.Mismatch.Render("✗ " + m.done.Err.Error())
	case m.done != nil:
		status = s.Faster.Render("✓ done")
	case m.quitting:
		status = s.Slower.Render("stopping")
	}
	sb.WriteString(s.Title.Render("speedlab") + "  " + status + "\n\n")

	pct := 0.0
	if m.total > 0 {
		pct = float64(len(m.results)) / float64(m.total)
	}
	sb.WriteString(fmt.Sprintf("%s %d/%d  %s\n\n",
		s.ProgressBar(pct, 40), len(m.results), m.total,
		s.Muted.Render(time.Since(m.started).Round(100*time.Millisecond).String())))

	start := max(0, len(m.results)-recentCases)
	for _, r := range m.results[start:] {
		name := fmt.Sprintf("%-14s %-20s", r.Suite, r.Case)
		verdict := s.Speedup(r.Speedup())
		switch {
		case r.Error != "":
			verdict = s.Mismatch.Render("error")
		case !r.Match:
			verdict = s.Mismatch.Render("mismatch")
		case r.Reference == nil:
			verdict = s.Muted.Render("timing only")
		}
		sb.WriteString(s.Text.Render(name) + " " + verdict + "\n")
	}

	sb.WriteString("\n" + s.Muted.Render("speedups ") + s.Sparkline(m.speedups, 40) + "\n")
	if m.failed > 0 {
		sb.WriteString(s.Mismatch.Render(fmt.Sprintf("%d failing", m.failed)) + "\n")
	}
	sb.WriteString(s.Separator(liveWidth-4) + "\n")
	sb.WriteString(s.Muted.Render("Q:Quit  T:Theme (" + s.Theme.Name + ")  ?:Help"))

	view := s.Panel.Width(liveWidth).Render(sb.String())
	if m.showHelp {
		help := s.Panel.Render(strings.Join([]string{
			s.Header.Render("KEYBOARD SHORTCUTS"),
			"Q  stop the run and quit",
			"T  cycle color themes",
			"?  toggle this help",
		}, "\n"))
		return lipgloss.JoinVertical(lipgloss.Left, help, view)
	}
	return view
}
