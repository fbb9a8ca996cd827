package viz

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fibersim/internal/topology"
	"github.com/san-kum/fibersim/internal/trajectory"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Error   lipgloss.Color
	// Species colors particles by base type, cycling when there are more
	// species than colors.
	Species []lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#00ffff"),
		Muted:   lipgloss.Color("#666688"),
		Accent:  lipgloss.Color("#ff00ff"),
		Error:   lipgloss.Color("#ff0000"),
		Species: []lipgloss.Color{"#ff00ff", "#00ffff", "#ffff00", "#00ff88", "#ff8800", "#8888ff"},
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Accent:  lipgloss.Color("#88ff88"),
		Error:   lipgloss.Color("#ff0000"),
		Species: []lipgloss.Color{"#00ff00", "#88ff88", "#00cc00", "#ccff66", "#66cc99"},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#00a8cc"),
		Muted:   lipgloss.Color("#4488aa"),
		Accent:  lipgloss.Color("#ffd700"),
		Error:   lipgloss.Color("#ff4444"),
		Species: []lipgloss.Color{"#0077be", "#ffd700", "#00ff88", "#e0f0ff", "#ff6b6b"},
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeOcean}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Species assigns a color class to every particle base type in sorted
// order.
type Species struct {
	names []string
	class map[string]int
}

func NewSpecies(bases ...string) *Species {
	s := &Species{class: make(map[string]int)}
	sorted := append([]string(nil), bases...)
	sort.Strings(sorted)
	for _, b := range sorted {
		if _, ok := s.class[b]; !ok {
			s.class[b] = len(s.names)
			s.names = append(s.names, b)
		}
	}
	return s
}

// SpeciesOf collects the particle bases of f.
func SpeciesOf(f trajectory.Frame) *Species {
	var bases []string
	for _, p := range f.Particles {
		bases = append(bases, topology.Base(p.Type))
	}
	return NewSpecies(bases...)
}

func (s *Species) Names() []string { return s.names }

// ClassOf returns the class of p's base type, adding unseen ones.
func (s *Species) ClassOf(p trajectory.Particle) int {
	b := topology.Base(p.Type)
	k, ok := s.class[b]
	if !ok {
		k = len(s.names)
		s.class[b] = k
		s.names = append(s.names, b)
	}
	return k
}

// Styles renders one style per known species in theme t.
func (s *Species) Styles(t Theme) []lipgloss.Style {
	out := make([]lipgloss.Style, len(s.names))
	for i := range out {
		out[i] = lipgloss.NewStyle().Foreground(t.Species[i%len(t.Species)])
	}
	return out
}
