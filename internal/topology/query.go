package topology

import (
	"fmt"
	"math/rand"
	"strings"
)

// Matcher selects particle types.
type Matcher interface {
	Match(typ string) bool
}

type typeSet map[string]struct{}

func (s typeSet) Match(typ string) bool {
	_, ok := s[typ]
	return ok
}

// Types matches any of the exact type names.
func Types(names ...string) Matcher {
	s := make(typeSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

type prefixMatcher struct {
	prefix string
	except typeSet
}

func (p prefixMatcher) Match(typ string) bool {
	return strings.HasPrefix(typ, p.prefix) && !p.except.Match(typ)
}

// Prefix matches type names starting with prefix, minus the excluded names.
func Prefix(prefix string, except ...string) Matcher {
	return prefixMatcher{prefix: prefix, except: Types(except...).(typeSet)}
}

// MatchFunc adapts a predicate to a Matcher.
type MatchFunc func(typ string) bool

func (f MatchFunc) Match(typ string) bool { return f(typ) }

// Any matches every type.
func Any() Matcher { return MatchFunc(func(string) bool { return true }) }

// Or matches when any of ms matches.
func Or(ms ...Matcher) Matcher {
	return MatchFunc(func(typ string) bool {
		for _, m := range ms {
			if m.Match(typ) {
				return true
			}
		}
		return false
	})
}

func FindAll(v View, m Matcher) []VertexID {
	var out []VertexID
	for _, id := range v.Vertices() {
		if m.Match(v.TypeOf(id)) {
			out = append(out, id)
		}
	}
	return out
}

// FindFirst returns the lowest id whose type matches.
func FindFirst(v View, m Matcher) (VertexID, bool) {
	for _, id := range v.Vertices() {
		if m.Match(v.TypeOf(id)) {
			return id, true
		}
	}
	return 0, false
}

func FindRandom(v View, m Matcher, rng *rand.Rand) (VertexID, bool) {
	ids := FindAll(v, m)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[rng.Intn(len(ids))], true
}

// FindNearest does a breadth-first search from start and returns the
// closest (in bonds) matching vertex other than start.
func FindNearest(v View, start VertexID, m Matcher) (VertexID, bool) {
	if !v.Has(start) {
		return 0, false
	}
	seen := map[VertexID]bool{start: true}
	queue := []VertexID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, n := range v.Neighbors(id) {
			if seen[n] {
				continue
			}
			if m.Match(v.TypeOf(n)) {
				return n, true
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return 0, false
}

// NeighborsOf returns the bonded neighbors of id whose type matches,
// skipping exclude.
func NeighborsOf(v View, id VertexID, m Matcher, exclude ...VertexID) []VertexID {
	var out []VertexID
	for _, n := range v.Neighbors(id) {
		if contains(exclude, n) {
			continue
		}
		if m.Match(v.TypeOf(n)) {
			out = append(out, n)
		}
	}
	return out
}

func NeighborOf(v View, id VertexID, m Matcher, exclude ...VertexID) (VertexID, bool) {
	ns := NeighborsOf(v, id, m, exclude...)
	if len(ns) == 0 {
		return 0, false
	}
	return ns[0], true
}

func FirstNeighbor(v View, id VertexID, exclude ...VertexID) (VertexID, bool) {
	return NeighborOf(v, id, Any(), exclude...)
}

func AreBonded(v View, a, b VertexID) bool {
	for _, n := range v.Neighbors(a) {
		if n == b {
			return true
		}
	}
	return false
}

// Chain looks for a simple path start, n1, n2, ... whose i-th step matches
// steps[i]. The first path found in ascending id order is returned.
func Chain(v View, start VertexID, steps ...Matcher) ([]VertexID, bool) {
	if !v.Has(start) {
		return nil, false
	}
	path := []VertexID{start}
	var walk func(depth int) bool
	walk = func(depth int) bool {
		if depth == len(steps) {
			return true
		}
		last := path[len(path)-1]
		for _, n := range v.Neighbors(last) {
			if contains(path, n) || !steps[depth].Match(v.TypeOf(n)) {
				continue
			}
			path = append(path, n)
			if walk(depth + 1) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if !walk(0) {
		return nil, false
	}
	return path, true
}

func HasChain(v View, start VertexID, steps ...Matcher) bool {
	_, ok := Chain(v, start, steps...)
	return ok
}

// VertexString describes one vertex for diagnostics.
func VertexString(v View, id VertexID) string {
	if !v.Has(id) {
		return fmt.Sprintf("<missing vertex %d>", id)
	}
	p := v.PositionOf(id)
	return fmt.Sprintf("%d %s (%.2f, %.2f, %.2f) -> %v", id, v.TypeOf(id), p.X, p.Y, p.Z, v.Neighbors(id))
}

// String describes a whole topology for diagnostics.
func String(v View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "topology %s\n", v.TopologyType())
	for _, id := range v.Vertices() {
		b.WriteString("  ")
		b.WriteString(VertexString(v, id))
		b.WriteString("\n")
	}
	return b.String()
}

func contains(ids []VertexID, id VertexID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
