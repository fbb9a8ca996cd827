// Package export writes frames, canvases and observable series as SVG.
package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/trajectory"
	"github.com/san-kum/fibersim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func color(t viz.Theme, class int) string {
	if len(t.Species) == 0 {
		return string(t.Primary)
	}
	return string(t.Species[class%len(t.Species)])
}

// CanvasToSVG converts a Braille canvas to SVG, one dot per set pixel,
// colored by the cell's class.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	header(&sb, width, height)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := color(theme, canvas.Class[row][col])

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill)
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

type shape struct {
	depth float64
	svg   string
}

// FrameToSVG draws f seen through cam on a size by size picture: bonds as
// lines and particles as circles of the given radius (nm), colored by
// species. Far shapes are drawn first.
func FrameToSVG(f trajectory.Frame, cam *viz.Camera, species *viz.Species, theme viz.Theme, size int, radius float64) string {
	extent := cam.Extent
	if extent <= 0 {
		extent = 1
	}
	half := float64(size) / 2
	scale := cam.Zoom * float64(size) / extent
	project := func(p r3.Vec) (float64, float64, float64) {
		rot := cam.RotatePoint(p)
		return half + rot.X*scale, half - rot.Y*scale, rot.Z
	}

	index := make(map[int]int, len(f.Particles))
	for i, p := range f.Particles {
		index[p.ID] = i
	}
	var shapes []shape
	for _, e := range f.Edges {
		a, okA := index[e[0]]
		b, okB := index[e[1]]
		if !okA || !okB {
			continue
		}
		pa, pb := f.Particles[a], f.Particles[b]
		if r3.Norm(r3.Sub(pa.Position, pb.Position)) > extent/2 {
			continue
		}
		x1, y1, d1 := project(pa.Position)
		x2, y2, d2 := project(pb.Position)
		shapes = append(shapes, shape{(d1 + d2) / 2, fmt.Sprintf(
			`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`,
			x1, y1, x2, y2, string(theme.Muted))})
	}
	r := math.Max(0.5, radius*scale)
	for _, p := range f.Particles {
		x, y, d := project(p.Position)
		shapes = append(shapes, shape{d, fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%d %s</title></circle>`,
			x, y, r, color(theme, species.ClassOf(p)), p.ID, p.Type)})
	}
	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].depth < shapes[j].depth })

	var sb strings.Builder
	header(&sb, float64(size), float64(size))
	for _, s := range shapes {
		sb.WriteString(s.svg)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, `<text x="8" y="16" fill="%s" font-family="monospace" font-size="12">step %d  t=%.4g ns</text>
</svg>`, string(theme.Primary), f.Step, f.Time)
	return sb.String()
}

// SeriesToSVG draws an observable against time as one polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i := range times {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
