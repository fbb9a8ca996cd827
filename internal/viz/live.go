package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fibersim/internal/engine"
	"github.com/san-kum/fibersim/internal/experiment"
	"github.com/san-kum/fibersim/internal/trajectory"
)

const (
	width      = 60
	height     = 22
	maxPerTick = 1 << 12
	sparkWidth = 24
	topFired   = 6
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(56)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps one experiment on every tick and draws its current frame.
type Model struct {
	exp      *experiment.Experiment
	sim      *engine.Simulation
	canvas   *Canvas
	camera   *Camera
	species  *Species
	frame    trajectory.Frame
	running  bool
	started  bool
	perTick  int
	err      error
	showHelp bool
}

// NewModel wraps an experiment that has been set up.
func NewModel(e *experiment.Experiment) Model {
	s := e.Simulation()
	f := s.Frame()
	return Model{
		exp:     e,
		sim:     s,
		canvas:  NewCanvas(width, height),
		camera:  NewCamera(e.System().Box.Size.X),
		species: SpeciesOf(f),
		frame:   f,
		running: true,
		perTick: 1,
	}
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
		case "]":
			if m.perTick < maxPerTick {
				m.perTick *= 2
			}
		case "[":
			if m.perTick > 1 {
				m.perTick /= 2
			}
		case "t":
			NextTheme()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	if !m.started {
		m.started = true
		if m.err = m.sim.Start(); m.err != nil {
			return
		}
	}
	for i := 0; i < m.perTick && !m.sim.Done(); i++ {
		if m.err = m.sim.Advance(); m.err != nil {
			break
		}
	}
	m.frame = m.sim.Frame()
}

func (m Model) status(p Palette) string {
	switch {
	case m.err != nil:
		return p.Failed.Render("FAILED")
	case m.sim.Done():
		return p.Running.Render("DONE")
	case !m.running:
		return p.Paused.Render("PAUSED")
	}
	return p.Running.Render(fmt.Sprintf("RUNNING x%d", m.perTick))
}

func (m Model) View() string {
	m.canvas.Clear()
	RenderFrame(m.canvas, m.frame, m.camera, m.species.ClassOf)
	canvasView := canvasStyle.Render(m.canvas.Render(m.species.Styles(CurrentTheme)))

	cfg := m.exp.Config()
	p := NewPalette(CurrentTheme)
	var s strings.Builder
	s.WriteString(headerStyle.Foreground(CurrentTheme.Primary).Render(strings.ToUpper(m.exp.Model().Name())) + "\n")
	s.WriteString(m.status(p) + "\n\n")
	progress := 1.0
	if cfg.Engine.Steps > 0 {
		progress = float64(m.sim.Step()) / float64(cfg.Engine.Steps)
	}
	s.WriteString(p.ProgressBar(progress, 30) + "\n")
	s.WriteString(p.Label.Render("step") + p.Value.Render(fmt.Sprintf("%d / %d", m.sim.Step(), cfg.Engine.Steps)) + "\n")
	s.WriteString(p.Label.Render("time") + p.Value.Render(fmt.Sprintf("%.4g ns", m.sim.Time())) + "\n")
	s.WriteString(p.Label.Render("topologies") + p.Value.Render(fmt.Sprint(len(m.frame.Topologies))) + "\n")
	s.WriteString(p.Label.Render("particles") + p.Value.Render(fmt.Sprint(len(m.frame.Particles))) + "\n\n")

	if series := m.exp.Series(); series != nil {
		for _, name := range series.Columns() {
			values := series.Column(name)
			last := 0.0
			if len(values) > 0 {
				last = values[len(values)-1]
			}
			s.WriteString(p.Label.Render(name) + p.Value.Render(fmt.Sprintf("%8.3g ", last)) + p.Sparkline(values, sparkWidth) + "\n")
		}
	}

	s.WriteString("\n" + p.Separator(40) + "\n")
	for _, r := range topReactions(m.sim.Fired(), topFired) {
		s.WriteString(p.Label.Width(34).Render(r.name) + p.Value.Render(fmt.Sprint(r.count)) + "\n")
	}

	styles := m.species.Styles(CurrentTheme)
	var legend []string
	for i, name := range m.species.Names() {
		legend = append(legend, styles[i].Render("⣿ "+name))
	}
	s.WriteString("\n" + strings.Join(legend, "  ") + "\n")

	if m.err != nil {
		s.WriteString("\n" + p.Failed.Width(50).Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause [ ]:Speed T:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  ] / [    - Double/halve steps/frame ║
║  x y z    - Rotate (shift reverses)  ║
║  + / -    - Zoom                     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

type firedCount struct {
	name  string
	count int
}

// topReactions lists the n most fired reactions, most first.
func topReactions(fired map[string]int, n int) []firedCount {
	out := make([]firedCount, 0, len(fired))
	for name, c := range fired {
		out = append(out, firedCount{name, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RunLive opens the live view of a set up experiment.
func RunLive(e *experiment.Experiment) error {
	_, err := tea.NewProgram(NewModel(e), tea.WithAltScreen()).Run()
	return err
}
