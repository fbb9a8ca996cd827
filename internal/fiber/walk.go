package fiber

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/fibersim/internal/topology"
)

// Walk follows bonded vertices matching m from start until the chain
// ends. start must have at most one matching neighbor, and every vertex on
// the way at most two.
func Walk(v topology.View, start topology.VertexID, m topology.Matcher) ([]topology.VertexID, error) {
	if !v.Has(start) {
		return nil, errors.Wrapf(topology.ErrUnknownVertex, "walk start %d", start)
	}
	if n := len(topology.NeighborsOf(v, start, m)); n > 1 {
		return nil, errors.Wrapf(ErrNotFreeEnd, "%s has %d chain neighbors", topology.VertexString(v, start), n)
	}
	chain := []topology.VertexID{start}
	seen := map[topology.VertexID]bool{start: true}
	prev, cur := NoVertex, start
	for {
		next := topology.NeighborsOf(v, cur, m, prev)
		if len(next) == 0 {
			return chain, nil
		}
		if len(next) > 1 {
			return nil, errors.Wrapf(ErrBrokenChain, "fork at %s", topology.VertexString(v, cur))
		}
		if seen[next[0]] {
			return nil, errors.Wrapf(ErrBrokenChain, "cycle through %s", topology.VertexString(v, next[0]))
		}
		seen[next[0]] = true
		prev, cur = cur, next[0]
		chain = append(chain, cur)
	}
}

// FromChain builds a fiber through the positions of a walked chain.
func FromChain(id int, v topology.View, chain []topology.VertexID) (*Fiber, error) {
	pos := make([]r3.Vec, len(chain))
	for i, c := range chain {
		pos[i] = v.PositionOf(c)
	}
	return New(id, chain, pos)
}
