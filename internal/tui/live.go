// Package tui prints a plain-text live view of a running simulation.
package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/topology"
	"github.com/san-kum/fibersim/internal/trajectory"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws the XY projection of every observed frame, at most
// frameRate times a second. Particles show as the first letter of their
// base type and bonds as dots.
type LiveRenderer struct {
	out       io.Writer
	model     string
	box       geom.Box
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
}

func NewLiveRenderer(out io.Writer, model string, box geom.Box, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	if frameRate <= 0 {
		frameRate = 10
	}
	return &LiveRenderer{out: out, model: model, box: box, frameRate: frameRate, canvas: canvas}
}

func (r *LiveRenderer) OnStep(f trajectory.Frame) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.Draw(f)
	fmt.Fprint(r.out, r.render(f))
}

// Draw projects f onto the canvas.
func (r *LiveRenderer) Draw(f trajectory.Frame) {
	r.clear()
	pos := make(map[int][2]int, len(f.Particles))
	for _, p := range f.Particles {
		x, y := r.project(p.Position.X, p.Position.Y)
		pos[p.ID] = [2]int{x, y}
	}
	for _, e := range f.Edges {
		a, b := pos[e[0]], pos[e[1]]
		if abs(a[0]-b[0]) > width/2 || abs(a[1]-b[1]) > height/2 {
			continue
		}
		r.line(a[0], a[1], b[0], b[1], '.')
	}
	for _, p := range f.Particles {
		c := pos[p.ID]
		r.set(c[0], c[1], glyph(p.Type))
	}
}

func glyph(typ string) rune {
	base := topology.Base(typ)
	if base == "" {
		return '?'
	}
	return []rune(base)[0]
}

func (r *LiveRenderer) project(x, y float64) (int, int) {
	sx := int((x/r.box.Size.X + 0.5) * float64(width-1))
	sy := int((0.5 - y/r.box.Size.Y) * float64(height-1))
	return sx, sy
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Canvas returns the rows drawn by the last Draw.
func (r *LiveRenderer) Canvas() []string {
	rows := make([]string, len(r.canvas))
	for i, row := range r.canvas {
		rows[i] = string(row)
	}
	return rows
}

func (r *LiveRenderer) render(f trajectory.Frame) string {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  step=%d  t=%.4g ns\n", r.model, f.Step, f.Time))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString("  " + summary(f) + "\n")
	return b.String()
}

// summary counts topologies by type.
func summary(f trajectory.Frame) string {
	counts := make(map[string]int)
	for _, t := range f.Topologies {
		counts[t.Type]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = fmt.Sprintf("%s=%d", t, counts[t])
	}
	return strings.Join(parts, " ")
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
