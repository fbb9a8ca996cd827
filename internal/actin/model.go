package actin

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

// Name is the model name used by the registries and the CLI.
const Name = "actin"

// Model carries the immutable parameters every actin rate and reaction
// function reads.
type Model struct {
	p   Params
	box geom.Box
}

func New(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{p: p, box: geom.NewCubicBox(p.BoxSize, p.PeriodicBoundary)}, nil
}

func (m *Model) Params() Params { return m.p }
func (m *Model) Box() geom.Box  { return m.box }

// numbered lists prefix+n for every prefix.
func numbered(n int, prefixes ...string) []string {
	out := make([]string, len(prefixes))
	s := strconv.Itoa(n)
	for i, p := range prefixes {
		out[i] = p + s
	}
	return out
}

// pointedNeighborTypes are the types the actin one step toward the pointed
// end may have when its number is n.
func pointedNeighborTypes(n int) topology.Matcher {
	names := numbered(n, "actin#", "actin#ATP_", "actin#pointed_", "actin#pointed_ATP_")
	if n == 1 {
		names = append(names, branchActins...)
	}
	return topology.Types(names...)
}

func invariant(v topology.View, format string, args ...interface{}) error {
	return errors.Wrapf(reaction.ErrInvariant, format+"\n%s", append(args, topology.String(v))...)
}

// fail handles a reaction that found nothing to act on: an empty recipe,
// or the "#Fail-*" sub-state when failures are recorded.
func (m *Model) fail(r *topology.Recipe, state, msg string) (*topology.Recipe, error) {
	klog.V(2).Infof("actin: %s", msg)
	if m.p.RecordFailures {
		return r.ChangeTopologyType(TopPolymer + "#" + state), nil
	}
	return r, nil
}
