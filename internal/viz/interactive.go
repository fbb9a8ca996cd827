package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fibersim/internal/config"
	"github.com/san-kum/fibersim/internal/experiment"
)

var modelInfo = map[string]string{
	"actin":       "filaments, arp2/3 branches, caps",
	"microtubule": "13-protofilament lattice",
	"kinesin":     "dimeric motor stepping on a track",
}

const (
	stateMenu = iota
	statePresets
	stateSim
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

type app struct {
	reg      *experiment.Registry
	state    int
	cursor   int
	models   []string
	presets  []string
	selected string
	err      error
	live     Model
}

func NewInteractiveApp(reg *experiment.Registry) *app {
	return &app{reg: reg, models: reg.ListModels()}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	items := m.items()
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.state == statePresets {
			m.state, m.cursor, m.err = stateMenu, 0, nil
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(items) == 0 {
			return m, nil
		}
		if m.state == stateMenu {
			m.selected = items[m.cursor]
			m.presets = config.ListPresets(m.selected)
			m.state, m.cursor = statePresets, 0
			return m, nil
		}
		return m.start(items[m.cursor])
	}
	return m, nil
}

func (m app) items() []string {
	if m.state == statePresets {
		return m.presets
	}
	return m.models
}

func (m app) start(preset string) (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(m.selected, preset)
	e, err := experiment.New(m.reg, cfg)
	if err == nil {
		err = e.Setup(m.reg)
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live = NewModel(e)
	m.state = stateSim
	return m, m.live.Init()
}

func (m app) View() string {
	if m.state == stateSim {
		return m.live.View()
	}
	var b strings.Builder
	title, sub := "FIBERSIM", "polymer reaction simulator"
	if m.state == statePresets {
		title, sub = strings.ToUpper(m.selected), modelInfo[m.selected]
	}
	b.WriteString("\n\n    " + titleStyle.Render(title) + "\n    " + subStyle.Render(sub) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.items() {
		desc := ""
		if m.state == stateMenu {
			desc = modelInfo[name]
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-16s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", idleStyle.Render(fmt.Sprintf("%-16s", name)), idleStyle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + NewPalette(CurrentTheme).Failed.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") + keyStyle.Render("enter") + idleStyle.Render(" select  "))
	if m.state == statePresets {
		b.WriteString(keyStyle.Render("esc") + idleStyle.Render(" back  "))
	}
	b.WriteString(keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}

func RunInteractive(reg *experiment.Registry) error {
	_, err := tea.NewProgram(NewInteractiveApp(reg), tea.WithAltScreen()).Run()
	return err
}
