// Package system collects the setup-time declarations of a model (particle
// types, topology types, potentials and reactions) and validates them as a
// whole before any simulation step runs.
package system

import (
	"fmt"
	"math"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/geom"
	"github.com/san-kum/fibersim/internal/polymer"
	"github.com/san-kum/fibersim/internal/potential"
	"github.com/san-kum/fibersim/internal/reaction"
	"github.com/san-kum/fibersim/internal/topology"
)

// ParticleType is a registered species. Diffusion is in nm^2/ns, Radius
// in nm.
type ParticleType struct {
	Name      string
	Diffusion float64
	Radius    float64
}

type System struct {
	Model      string
	Box        geom.Box
	Order      topology.FlagOrder
	Potentials *potential.Catalog
	Reactions  *reaction.Registry

	particles  *treemap.Map
	topologies *treeset.Set
	mobile     *treeset.Set
}

func (s *System) ParticleType(name string) (ParticleType, bool) {
	v, ok := s.particles.Get(name)
	if !ok {
		return ParticleType{}, false
	}
	return v.(ParticleType), true
}

// ParticleTypes lists the registered species sorted by name.
func (s *System) ParticleTypes() []ParticleType {
	out := make([]ParticleType, 0, s.particles.Size())
	for _, v := range s.particles.Values() {
		out = append(out, v.(ParticleType))
	}
	return out
}

func (s *System) TopologyTypes() []string {
	out := make([]string, 0, s.topologies.Size())
	for _, v := range s.topologies.Values() {
		out = append(out, v.(string))
	}
	return out
}

func (s *System) HasTopologyType(t string) bool { return s.topologies.Contains(t) }

// IsMobile reports whether topologies of type t diffuse as rigid bodies.
// Single particles always diffuse.
func (s *System) IsMobile(t string) bool { return s.mobile.Contains(t) }

// DiffusionOf is the diffusion coefficient of v moving as one rigid body:
// the Stokes-Einstein coefficient of a sphere whose radius is the sum of
// the particle radii. It is zero when any particle is immobile.
func (s *System) DiffusionOf(v topology.View) float64 {
	inv := 0.0
	for _, id := range v.Vertices() {
		pt, ok := s.ParticleType(v.TypeOf(id))
		if !ok || pt.Diffusion <= 0 {
			return 0
		}
		inv += 1 / pt.Diffusion
	}
	if inv == 0 {
		return 0
	}
	return 1 / inv
}

// ValidateBonds fails with potential.ErrMissingPotential when a bond of v
// has no catalog entry.
func (s *System) ValidateBonds(v topology.View) error {
	return s.Potentials.Check(v)
}

// ValidateGraph checks that every type in v is registered and that every
// polymer number is canonical. A failure here means a reaction produced a
// state the setup never declared.
func (s *System) ValidateGraph(v topology.View) error {
	if !s.HasTopologyType(v.TopologyType()) {
		return errors.Wrapf(ErrUnknownType, "topology type %q", v.TopologyType())
	}
	for _, id := range v.Vertices() {
		t := v.TypeOf(id)
		if _, ok := s.ParticleType(t); !ok {
			return errors.Wrapf(ErrUnknownType, "particle %s", topology.VertexString(v, id))
		}
		if err := polymer.Validate(topology.ParseType(t).Numbers); err != nil {
			return errors.Wrapf(err, "particle %s", topology.VertexString(v, id))
		}
	}
	return nil
}

func (s *System) String() string {
	return fmt.Sprintf("%s: %d particle types, %d topology types, %s, %d reactions",
		s.Model, s.particles.Size(), s.topologies.Size(), s.Potentials, s.Reactions.Len())
}

type Builder struct {
	model      string
	box        geom.Box
	order      topology.FlagOrder
	particles  *treemap.Map
	topologies *treeset.Set
	mobile     *treeset.Set
	potentials *potential.Catalog
	reactions  *reaction.Registry
	samples    []topology.View
	problems   []string
}

func NewBuilder(model string) *Builder {
	return &Builder{
		model:      model,
		particles:  treemap.NewWithStringComparator(),
		topologies: treeset.NewWithStringComparator(),
		mobile:     treeset.NewWithStringComparator(),
	}
}

func (b *Builder) Box(box geom.Box) *Builder {
	b.box = box
	return b
}

func (b *Builder) Order(o topology.FlagOrder) *Builder {
	b.order = o
	return b
}

func (b *Builder) problem(format string, args ...interface{}) {
	b.problems = append(b.problems, fmt.Sprintf(format, args...))
}

// ParticleType registers a species; re-registering with other parameters
// is a setup error.
func (b *Builder) ParticleType(name string, diffusion, radius float64) *Builder {
	switch {
	case name == "":
		b.problem("empty particle type name")
		return b
	case diffusion < 0 || math.IsNaN(diffusion) || math.IsInf(diffusion, 0):
		b.problem("particle type %q has diffusion %g", name, diffusion)
		return b
	case radius < 0 || math.IsNaN(radius):
		b.problem("particle type %q has radius %g", name, radius)
		return b
	}
	pt := ParticleType{Name: name, Diffusion: diffusion, Radius: radius}
	if old, ok := b.particles.Get(name); ok && old.(ParticleType) != pt {
		b.problem("particle type %q registered twice with different parameters", name)
		return b
	}
	b.particles.Put(name, pt)
	return b
}

func (b *Builder) ParticleTypes(names []string, diffusion, radius float64) *Builder {
	for _, n := range names {
		b.ParticleType(n, diffusion, radius)
	}
	return b
}

func (b *Builder) TopologyTypes(names ...string) *Builder {
	for _, n := range names {
		b.topologies.Add(n)
	}
	return b
}

// Mobile marks free multi-particle topology types that diffuse as rigid
// bodies. Fibers and complexes stay put.
func (b *Builder) Mobile(names ...string) *Builder {
	for _, n := range names {
		b.mobile.Add(n)
	}
	return b
}

func (b *Builder) Potentials(c *potential.Catalog) *Builder {
	b.potentials = c
	return b
}

func (b *Builder) Reactions(r *reaction.Registry) *Builder {
	b.reactions = r
	return b
}

// Sample adds a representative topology whose bonds must all be covered
// by the potential catalog.
func (b *Builder) Sample(v ...topology.View) *Builder {
	b.samples = append(b.samples, v...)
	return b
}

// Build validates the declarations and fails with ErrInvalidSetup listing
// every problem found.
func (b *Builder) Build() (*System, error) {
	if b.potentials == nil {
		b.potentials = potential.NewCatalog()
	}
	if b.reactions == nil {
		b.problem("no reaction registry")
	}
	for _, v := range b.particles.Keys() {
		name := v.(string)
		if err := polymer.Validate(topology.ParseType(name).Numbers); err != nil {
			b.problem("particle type %q: %v", name, err)
		}
	}
	for _, t := range b.potentials.Types() {
		if _, ok := b.particles.Get(t); !ok {
			b.problem("potential refers to unregistered particle type %q", t)
		}
	}
	if b.reactions != nil {
		for _, t := range b.reactions.ParticleTypes() {
			if _, ok := b.particles.Get(t); !ok {
				b.problem("reaction refers to unregistered particle type %q", t)
			}
		}
		for _, t := range b.reactions.TopologyTypes() {
			if !b.topologies.Contains(t) {
				b.problem("reaction refers to unregistered topology type %q", t)
			}
		}
	}
	for _, v := range b.mobile.Values() {
		if !b.topologies.Contains(v.(string)) {
			b.problem("mobile topology type %q is not registered", v.(string))
		}
	}
	for _, v := range b.samples {
		if !b.topologies.Contains(v.TopologyType()) {
			b.problem("sample has unregistered topology type %q", v.TopologyType())
		}
		for _, id := range v.Vertices() {
			if _, ok := b.particles.Get(v.TypeOf(id)); !ok {
				b.problem("sample has unregistered particle type %q", v.TypeOf(id))
			}
		}
		if err := b.potentials.Check(v); err != nil {
			b.problem("%v", err)
		}
	}
	if len(b.problems) > 0 {
		return nil, errors.Wrapf(ErrInvalidSetup, "%s: %d problems: %s",
			b.model, len(b.problems), strings.Join(b.problems, "; "))
	}
	return &System{
		Model:      b.model,
		Box:        b.box,
		Order:      b.order,
		Potentials: b.potentials,
		Reactions:  b.reactions,
		particles:  b.particles,
		topologies: b.topologies,
		mobile:     b.mobile,
	}, nil
}
