package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var sparkChars = []rune("▁▂▃▄▅▆▇█")

// Palette holds the text styles of the views, derived from a theme so
// that cycling themes recolors the whole screen.
type Palette struct {
	Subtle  lipgloss.Style
	Running lipgloss.Style
	Paused  lipgloss.Style
	Failed  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Hint    lipgloss.Style
	// levels color sparklines and bars from low to high.
	levels [3]lipgloss.Style
}

func NewPalette(t Theme) Palette {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Palette{
		Subtle:  fg(t.Muted),
		Running: fg(t.Primary).Bold(true),
		Paused:  fg(t.Accent).Bold(true),
		Failed:  fg(t.Error).Bold(true),
		Label:   fg(t.Muted).Width(16),
		Value:   fg(t.Primary).Bold(true),
		Hint:    fg(t.Muted).Italic(true),
		levels:  [3]lipgloss.Style{fg(t.Muted), fg(t.Accent), fg(t.Primary)},
	}
}

func (p Palette) level(norm float64) lipgloss.Style {
	switch {
	case norm > 0.7:
		return p.levels[2]
	case norm > 0.3:
		return p.levels[1]
	}
	return p.levels[0]
}

// ProgressBar renders a bar filled to frac of width.
func (p Palette) ProgressBar(frac float64, width int) string {
	filled := int(math.Round(math.Max(0, math.Min(1, frac)) * float64(width)))
	return p.levels[2].Render(strings.Repeat("█", filled)) + p.Subtle.Render(strings.Repeat("░", width-filled))
}

// Sparkline renders the last width values scaled between their minimum
// and maximum.
func (p Palette) Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return p.Subtle.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / span
		idx := int(norm * float64(len(sparkChars)-1))
		idx = int(math.Max(0, math.Min(float64(len(sparkChars)-1), float64(idx))))
		b.WriteString(p.level(norm).Render(string(sparkChars[idx])))
	}
	return b.String()
}

func (p Palette) Separator(width int) string {
	side := (width - 3) / 2
	return p.Subtle.Render(strings.Repeat("─", side) + " ◆ " + strings.Repeat("─", width-3-side))
}
