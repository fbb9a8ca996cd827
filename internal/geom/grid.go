package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grid bins points of a box into cells at least as wide as a search
// radius, so every point within that radius of p lies in a cell next to
// p's own.
type Grid struct {
	box   Box
	n     [3]int
	width [3]float64
	cells map[[3]int][]int
}

func NewGrid(b Box, radius float64) *Grid {
	g := &Grid{box: b, cells: make(map[[3]int][]int)}
	for i, l := range [3]float64{b.Size.X, b.Size.Y, b.Size.Z} {
		n := 1
		if radius > 0 {
			n = int(math.Max(1, math.Floor(l/radius)))
		}
		g.n[i] = n
		g.width[i] = l / float64(n)
	}
	return g
}

func (g *Grid) key(p r3.Vec) [3]int {
	var k [3]int
	for i, x := range [3]float64{p.X, p.Y, p.Z} {
		l := g.width[i] * float64(g.n[i])
		c := int(math.Floor((x + l/2) / g.width[i]))
		k[i] = int(clamp(float64(c), 0, float64(g.n[i]-1)))
	}
	return k
}

// Insert files the point with index i at p.
func (g *Grid) Insert(i int, p r3.Vec) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], i)
}

// Near calls fn once with every index filed in p's cell or the cells
// around it.
func (g *Grid) Near(p r3.Vec, fn func(i int)) {
	k := g.key(p)
	seen := make(map[[3]int]bool, 27)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				c, ok := g.shift(k, [3]int{dx, dy, dz})
				if !ok || seen[c] {
					continue
				}
				seen[c] = true
				for _, i := range g.cells[c] {
					fn(i)
				}
			}
		}
	}
}

func (g *Grid) shift(k, d [3]int) ([3]int, bool) {
	var out [3]int
	for i := range k {
		c := k[i] + d[i]
		if c < 0 || c >= g.n[i] {
			if !g.box.Periodic {
				return out, false
			}
			c = (c + g.n[i]) % g.n[i]
		}
		out[i] = c
	}
	return out, true
}
