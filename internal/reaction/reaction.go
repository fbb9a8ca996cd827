// Package reaction defines named stochastic events as pairs of a rate
// function and a reaction function, and the immutable registry a model
// builds them into.
//
// A rate function returns a finite non-negative propensity (1/ns),
// Infinite for pending follow-up reactions, or Inapplicable when the local
// structure the event needs is absent. A reaction function returns a
// recipe; an empty recipe means the event found nothing to do (a race) and
// leaves the topology untouched. Errors are reserved for invariant
// violations and abort the run.
package reaction

import (
	"math/rand"
	"strings"

	"github.com/san-kum/fibersim/internal/topology"
)

const (
	// Infinite is the rate of pending reactions; they fire before the
	// next integration step.
	Infinite = 1e30
	// Inapplicable marks an event that cannot currently happen.
	Inapplicable = -1.0
)

// IsApplicable reports whether rate is a usable propensity.
func IsApplicable(rate float64) bool { return rate >= 0 }

// Env is the per-call context the engine hands to rate and reaction
// functions.
type Env struct {
	Time float64
	Rand *rand.Rand
}

type (
	RateFunc  func(topology.View, Env) float64
	ReactFunc func(topology.View, Env) (*topology.Recipe, error)
)

// Kind tags an event within a model's closed set of reactions.
type Kind int

// Structural is a unimolecular topology reaction.
type Structural struct {
	Name         string
	Kind         Kind
	TopologyType string
	Rate         RateFunc
	React        ReactFunc
	Pending      bool
}

// Spatial is a bimolecular fusion between two topologies within Radius.
type Spatial struct {
	Name    string
	Kind    Kind
	Pattern Pattern
	Rate    float64
	Radius  float64
}

// Constant returns a rate function with a fixed propensity.
func Constant(rate float64) RateFunc {
	return func(topology.View, Env) float64 { return rate }
}

// RateInfinity is the rate function of every pending reaction.
func RateInfinity(topology.View, Env) float64 { return Infinite }

// BaseState strips the "#..." sub-state from a topology type.
func BaseState(topologyType string) string {
	base, _, _ := strings.Cut(topologyType, "#")
	return base
}

// ResetState returns a reaction function that restores the base topology
// type, used to clear "#Fail-*" sub-states.
func ResetState(order topology.FlagOrder) ReactFunc {
	return func(v topology.View, _ Env) (*topology.Recipe, error) {
		r := topology.NewRecipe(v, order)
		return r.ChangeTopologyType(BaseState(v.TopologyType())), nil
	}
}

// Guarded wraps rate so that it reports Inapplicable whenever ok fails.
func Guarded(ok func(topology.View) bool, rate float64) RateFunc {
	return func(v topology.View, _ Env) float64 {
		if !ok(v) {
			return Inapplicable
		}
		return rate
	}
}
