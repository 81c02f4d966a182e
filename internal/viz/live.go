package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/zetafield/internal/dynamo"
)

const (
	width           = 60
	height          = 30
	historyCapacity = 600
	tickRate        = time.Second / 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Model steps a simulator once per tick and draws the particle cloud.
type Model struct {
	sim      *dynamo.Simulator
	params   dynamo.Params
	title    string
	initial  *dynamo.State
	state    *dynamo.State
	step     int
	running  bool
	showRing bool
	nodes    []float64
	canvas   *Canvas

	radiusHistory []float64
	speedHistory  []float64
}

// NewModel takes ownership of a copy of x0; nodes are drawn as rings when
// the overlay is on.
func NewModel(sim *dynamo.Simulator, x0 *dynamo.State, nodes []float64, title string) Model {
	m := Model{
		sim:      sim,
		params:   sim.Params(),
		title:    title,
		initial:  x0.Clone(),
		running:  true,
		showRing: true,
		nodes:    nodes,
		canvas:   NewCanvas(width, height),
	}
	m.reset()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "s", "right":
			if !m.running {
				m.advance()
			}
		case "o":
			m.showRing = !m.showRing
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// Settled reports whether the configured step count has been reached.
func (m Model) Settled() bool { return m.step >= m.params.Steps }

func (m Model) Step() int { return m.step }

func (m Model) State() *dynamo.State { return m.state }

func (m *Model) advance() {
	if m.Settled() {
		return
	}
	m.sim.Step(m.state)
	m.step++
	m.record()
}

func (m *Model) record() {
	m.radiusHistory = appendCapped(m.radiusHistory, m.state.MeanRadius())
	m.speedHistory = appendCapped(m.speedHistory, m.state.MaxSpeed())
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) reset() {
	m.state = m.initial.Clone()
	m.step = 0
	m.radiusHistory = make([]float64, 0, historyCapacity)
	m.speedHistory = make([]float64, 0, historyCapacity)
	m.record()
}

func (m *Model) draw() {
	m.canvas.Clear()
	bound := m.params.Bound
	if m.showRing {
		for _, r := range m.nodes {
			m.canvas.DrawCircle(r, bound)
		}
	}
	for _, p := range m.state.Positions {
		m.canvas.Plot(p.X, p.Y, bound)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(ParticleStyle.Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n\n")

	switch {
	case m.Settled():
		s.WriteString(StatusSettled.Render("SETTLED"))
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING"))
	default:
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n")

	progress := 1.0
	if m.params.Steps > 0 {
		progress = float64(m.step) / float64(m.params.Steps)
	}
	s.WriteString(ProgressBar(progress, 30) + "\n")

	if len(m.radiusHistory) > 1 {
		chart := asciigraph.Plot(m.radiusHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("mean radius"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(MetricLabel.Render("step") + MetricValue.Render(fmt.Sprintf("%d/%d", m.step, m.params.Steps)) + "\n")
	s.WriteString(MetricLabel.Render("particles") + MetricValue.Render(fmt.Sprintf("%d", m.state.Len())) + "\n")
	s.WriteString(MetricLabel.Render("mean radius") + MetricValue.Render(fmt.Sprintf("%.4f", m.state.MeanRadius())) + "\n")
	s.WriteString(MetricLabel.Render("max speed") + MetricValue.Render(fmt.Sprintf("%.4g", m.state.MaxSpeed())) + "\n")
	s.WriteString(MetricLabel.Render("speed") + Subtle.Render(Sparkline(m.speedHistory, 24)) + "\n")
	s.WriteString(MetricLabel.Render("friction") + MetricValue.Render(fmt.Sprintf("%.3f", m.params.Friction)) + "\n")
	s.WriteString(MetricLabel.Render("dt") + MetricValue.Render(fmt.Sprintf("%g", m.params.Dt)) + "\n")

	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SPACE pause  R reset  S step\nO rings  Q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
