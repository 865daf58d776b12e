package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"uk.ac.bris.cs/relaxation/relax"
)

type eventMsg struct {
	event relax.Event
}

type eventsClosedMsg struct{}

// waitForEvent reads the next event of a run as a tea message.
func waitForEvent(events <-chan relax.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: e}
	}
}

// Progress is a bubbletea model following one run through its events.
type Progress struct {
	title     string
	precision float64
	events    <-chan relax.Event

	spinner spinner.Model
	bar     progress.Model

	iteration  int
	delta      float64
	firstDelta float64
	state      relax.State
	final      *relax.Grid
	done       bool
}

// NewProgress watches events until the run closes the channel.
func NewProgress(title string, precision float64, events <-chan relax.Event) Progress {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle
	return Progress{
		title:     title,
		precision: precision,
		events:    events,
		spinner:   s,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m Progress) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m = m.apply(msg.event)
		return m, waitForEvent(m.events)
	case eventsClosedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Progress) apply(e relax.Event) Progress {
	switch e := e.(type) {
	case relax.StateChange:
		m.state = e.NewState
	case relax.IterationComplete:
		m.iteration = e.Iteration
		m.delta = e.Delta
		if m.firstDelta == 0 {
			m.firstDelta = e.Delta
		}
	case relax.FinalIterationComplete:
		m.iteration = e.Iterations
		m.final = e.Grid
		m.state = relax.Converged
	}
	return m
}

func (m Progress) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	if m.state == relax.Converged {
		b.WriteString(okStyle.Render("✓ "))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteByte(' ')
	}
	b.WriteString(field("iteration", fmt.Sprintf("%d", m.iteration)))
	b.WriteString("  ")
	b.WriteString(field("delta", fmt.Sprintf("%.3g", m.delta)))
	b.WriteString("\n\n")
	ratio := ConvergenceRatio(m.firstDelta, m.delta, m.precision)
	if m.state == relax.Converged {
		ratio = 1
	}
	b.WriteString(m.bar.ViewAs(ratio))
	b.WriteString("\n")
	if !m.done {
		b.WriteString(labelStyle.Render("q to stop watching"))
		b.WriteString("\n")
	}
	return b.String()
}

// Final is the converged grid, or nil if the run never reported one.
func (m Progress) Final() *relax.Grid {
	return m.final
}

// ConvergenceRatio estimates how far a run is towards precision. Jacobi
// deltas shrink roughly geometrically, so progress is measured on a log scale
// from the first delta seen.
func ConvergenceRatio(first, delta, precision float64) float64 {
	if first <= 0 || delta <= 0 {
		return 0
	}
	if delta <= precision || first <= precision {
		return 1
	}
	r := math.Log(first/delta) / math.Log(first/precision)
	return math.Max(0, math.Min(1, r))
}

// Watch shows a live view of a run until its events channel closes and
// returns the final grid. If the viewer quits early the remaining events are
// drained so the run is never blocked.
func Watch(title string, precision float64, events <-chan relax.Event) (*relax.Grid, error) {
	final, err := tea.NewProgram(NewProgress(title, precision, events)).Run()
	var grid *relax.Grid
	if m, ok := final.(Progress); ok {
		grid = m.final
	}
	for e := range events {
		if f, ok := e.(relax.FinalIterationComplete); ok {
			grid = f.Grid
		}
	}
	return grid, err
}
