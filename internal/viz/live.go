package viz

import (
	"fmt"
	"iter"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stepsim/internal/experiment"
	"github.com/san-kum/stepsim/internal/models"
)

const (
	canvasWidth     = 40
	canvasHeight    = 16
	historyCapacity = 300
	tickRate        = time.Second / 30
)

type TickMsg time.Time

// Model pulls one frame per tick from a frame sequence. Quitting stops the
// pull, which drops whatever the sequence owns.
type Model struct {
	name     string
	next     func() (experiment.Frame, bool)
	stop     func()
	limit    int
	frame    experiment.Frame
	history  []float64
	trail    [][2]float64
	canvas   *Canvas
	running  bool
	diverged bool
	done     bool
}

// NewModel shows frames for the model called name. A positive limit
// stops pulling after that many steps.
func NewModel(name string, frames iter.Seq[experiment.Frame], limit int) Model {
	next, stop := iter.Pull(frames)
	return Model{
		name:    name,
		next:    next,
		stop:    stop,
		limit:   limit,
		history: make([]float64, 0, historyCapacity),
		trail:   make([][2]float64, 0, historyCapacity),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		running: true,
	}
}

// Close stops the underlying sequence. It is safe to call more than once.
func (m Model) Close() { m.stop() }

func (m Model) Frame() experiment.Frame { return m.frame }

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.stop()
			return m, tea.Quit
		case " ":
			if !m.done && !m.diverged {
				m.running = !m.running
			}
		case "n":
			if !m.running {
				m.advance()
			}
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	if m.done || m.diverged {
		return
	}
	f, ok := m.next()
	if !ok {
		m.done, m.running = true, false
		return
	}
	m.frame = f
	if !f.Valid {
		m.diverged, m.running = true, false
		return
	}

	if len(f.Values) > 0 {
		m.history = appendCapped(m.history, f.Values[0])
	}
	if len(f.Values) > 1 {
		m.trail = appendCapped(m.trail, [2]float64{f.Values[0], f.Values[1]})
	}
	if m.limit > 0 && f.Step >= m.limit {
		m.done, m.running = true, false
		m.stop()
	}
}

func appendCapped[T any](s []T, v T) []T {
	if len(s) == historyCapacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

func (m Model) status() string {
	switch {
	case m.diverged:
		return statusDiverged.Render("DIVERGED")
	case m.done:
		return statusPaused.Render("DONE")
	case !m.running:
		return statusPaused.Render("PAUSED")
	default:
		return statusRunning.Render("RUNNING")
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.frame.Step)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f", m.frame.Time)) + "\n")
	for i, v := range m.frame.Values {
		if i == 6 {
			s.WriteString(labelStyle.Render("...") + "\n")
			break
		}
		s.WriteString(labelStyle.Render(fmt.Sprintf("x%d", i)) + valueStyle.Render(fmt.Sprintf("%.4f", v)) + "\n")
	}
	if m.limit > 0 {
		s.WriteString("\n" + ProgressBar(float64(m.frame.Step)/float64(m.limit), 20) + "\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("x0"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("SPACE:pause  N:step  Q:quit"))

	stats := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.picture()), stats)
}

// picture is the Life board when there is one, otherwise the x0/x1
// phase trail.
func (m Model) picture() string {
	if m.frame.Grid != nil {
		return renderGrid(*m.frame.Grid)
	}
	m.canvas.Clear()
	m.canvas.Trace(m.trail)
	return m.canvas.String()
}

func renderGrid(g models.Grid) string {
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.Alive(x, y) {
				b.WriteString(aliveStyle.Render("█"))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
