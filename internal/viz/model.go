package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/xrgrab/internal/interact"
	"github.com/san-kum/xrgrab/internal/sim"
)

const (
	canvasWidth  = 60
	canvasHeight = 15
	eventLogSize = 8
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a simulator on a timer and shows the latest frame.
type Model struct {
	sim      *sim.Simulator
	frame    sim.Frame
	stepped  bool
	paused   bool
	done     bool
	events   []interact.Event
	canvas   *Canvas
	viewport Viewport
	theme    int
	interval time.Duration
}

// NewModel plays s back at its own tick rate.
func NewModel(s *sim.Simulator) Model {
	interval := time.Duration(s.Config().Dt * float64(time.Second))
	if interval <= 0 {
		interval = time.Second / 60
	}
	return Model{
		sim:      s,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		viewport: DefaultViewport(),
		interval: interval,
		done:     s.Done(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
			if !m.paused && !m.done {
				return m, m.tick()
			}
		case "n", "right":
			if m.paused {
				m.step()
			}
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case TickMsg:
		if m.paused || m.done {
			return m, nil
		}
		m.step()
		if m.done {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.done {
		return
	}
	m.frame = m.sim.Step()
	m.stepped = true
	m.events = append(m.events, m.frame.Events...)
	if n := len(m.events); n > eventLogSize {
		m.events = m.events[n-eventLogSize:]
	}
	m.done = m.sim.Done()
}

// Frame returns the most recent frame, if any tick has run.
func (m Model) Frame() (sim.Frame, bool) { return m.frame, m.stepped }

func (m Model) draw() {
	m.canvas.Clear()
	m.viewport.Ground(m.canvas)
	w := m.sim.World()
	for _, b := range m.frame.Bodies {
		body, ok := w.Body(b.ID)
		if !ok {
			continue
		}
		m.viewport.Box(m.canvas, b.Position, body.HalfExtents)
	}
	for _, h := range m.frame.Hands {
		if h.Tracked {
			m.viewport.Cross(m.canvas, h.Position)
		}
	}
}

func (m Model) View() string {
	theme := Themes[m.theme]
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	sc := m.sim.Scenario()
	var b strings.Builder
	b.WriteString(title.Render(strings.ToUpper(sc.Name)) + "  " + muted.Render(sc.Description) + "\n")

	status := "running"
	switch {
	case m.done:
		status = "finished"
	case m.paused:
		status = "paused"
	}
	b.WriteString(muted.Render(fmt.Sprintf("t=%.3fs  step %d/%d  %s", m.frame.Time, m.frame.Step, m.sim.Steps(), status)) + "\n")

	m.draw()
	left := canvasStyle.Render(m.canvas.String())
	right := statsStyle.Render(m.stats(theme))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))

	b.WriteString(helpStyle.Render("space/p pause  n step  t theme  q quit"))
	return b.String()
}

func (m Model) stats(theme Theme) string {
	var b strings.Builder
	for _, body := range m.frame.Bodies {
		name := body.Name
		if body.State == interact.Targeted {
			name = "▸ " + name
		}
		b.WriteString(labelStyle.Render(name) + theme.Badge(body.State) + "\n")
		b.WriteString(valueStyle.Render(fmt.Sprintf("  pos %6.2f %6.2f %6.2f", body.Position[0], body.Position[1], body.Position[2])) + "\n")
		b.WriteString(valueStyle.Render(fmt.Sprintf("  vel %6.2f %6.2f %6.2f", body.Velocity[0], body.Velocity[1], body.Velocity[2])) + "\n")
	}

	b.WriteString("\n")
	for _, h := range m.frame.Hands {
		if !h.Tracked {
			b.WriteString(labelStyle.Render(string(h.Side)) + valueStyle.Render("lost") + "\n")
			continue
		}
		b.WriteString(labelStyle.Render(string(h.Side)) +
			valueStyle.Render(fmt.Sprintf("speed %.2f m/s", h.Velocity.Len())) + "\n")
	}

	b.WriteString("\n")
	for _, e := range m.events {
		b.WriteString(valueStyle.Render(e.String()) + "\n")
	}
	return b.String()
}

// Run plays s in the alternate screen until it finishes or the user quits.
func Run(s *sim.Simulator) error {
	_, err := tea.NewProgram(NewModel(s), tea.WithAltScreen()).Run()
	return err
}
