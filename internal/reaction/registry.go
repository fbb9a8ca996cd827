package reaction

import (
	"sort"

	"github.com/pkg/errors"
)

// Registry is the immutable reaction catalog of one model.
type Registry struct {
	model      string
	structural []Structural
	spatial    []Spatial
	byName     map[string]int
	byTopology map[string][]int
	kinds      map[Kind]string
}

// Builder collects reactions and validates them into a Registry.
type Builder struct {
	model      string
	structural []Structural
	spatial    []Spatial
	kinds      map[Kind]string
	errs       []error
}

func NewBuilder(model string) *Builder {
	return &Builder{model: model, kinds: make(map[Kind]string)}
}

// Kind declares a reaction kind and its display name.
func (b *Builder) Kind(k Kind, name string) *Builder {
	if old, ok := b.kinds[k]; ok && old != name {
		b.errs = append(b.errs, errors.Wrapf(ErrDuplicateReaction, "kind %d declared as %q and %q", k, old, name))
		return b
	}
	b.kinds[k] = name
	return b
}

func (b *Builder) Structural(s Structural) *Builder {
	b.structural = append(b.structural, s)
	return b
}

// Pending adds a structural reaction that fires at Infinite rate.
func (b *Builder) Pending(name string, k Kind, topologyType string, react ReactFunc) *Builder {
	return b.Structural(Structural{
		Name:         name,
		Kind:         k,
		TopologyType: topologyType,
		Rate:         RateInfinity,
		React:        react,
		Pending:      true,
	})
}

// Spatial adds a fusion reaction from its "Name: pattern" descriptor.
func (b *Builder) Spatial(k Kind, descriptor string, rate, radius float64) *Builder {
	p, err := ParsePattern(descriptor)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.spatial = append(b.spatial, Spatial{Name: p.Name, Kind: k, Pattern: p, Rate: rate, Radius: radius})
	return b
}

// Build validates the collected reactions: names are unique, structural
// kinds are unique and declared, and every entry is complete.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	r := &Registry{
		model:      b.model,
		structural: append([]Structural(nil), b.structural...),
		spatial:    append([]Spatial(nil), b.spatial...),
		byName:     make(map[string]int),
		byTopology: make(map[string][]int),
		kinds:      make(map[Kind]string, len(b.kinds)),
	}
	for k, v := range b.kinds {
		r.kinds[k] = v
	}
	structKinds := make(map[Kind]string)
	for i, s := range r.structural {
		switch {
		case s.Name == "":
			return nil, errors.Wrapf(ErrIncomplete, "structural reaction %d has no name", i)
		case s.TopologyType == "" || s.Rate == nil || s.React == nil:
			return nil, errors.Wrapf(ErrIncomplete, "structural reaction %q", s.Name)
		}
		if _, ok := r.kinds[s.Kind]; !ok {
			return nil, errors.Wrapf(ErrUnknownKind, "%q uses kind %d", s.Name, s.Kind)
		}
		if other, ok := structKinds[s.Kind]; ok {
			return nil, errors.Wrapf(ErrDuplicateReaction, "%q and %q share kind %s", other, s.Name, r.kinds[s.Kind])
		}
		structKinds[s.Kind] = s.Name
		if _, ok := r.byName[s.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateReaction, s.Name)
		}
		r.byName[s.Name] = i
		r.byTopology[s.TopologyType] = append(r.byTopology[s.TopologyType], i)
	}
	for i, s := range r.spatial {
		if s.Name == "" {
			return nil, errors.Wrapf(ErrIncomplete, "spatial reaction %s has no name", s.Pattern)
		}
		if _, ok := r.kinds[s.Kind]; !ok {
			return nil, errors.Wrapf(ErrUnknownKind, "%q uses kind %d", s.Name, s.Kind)
		}
		if s.Rate < 0 || s.Radius <= 0 {
			return nil, errors.Wrapf(ErrIncomplete, "%q has rate %g radius %g", s.Name, s.Rate, s.Radius)
		}
		if _, ok := r.byName[s.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateReaction, s.Name)
		}
		r.byName[s.Name] = -1 - i
	}
	return r, nil
}

func (r *Registry) Model() string { return r.model }

func (r *Registry) Structural() []Structural { return r.structural }

func (r *Registry) Spatial() []Spatial { return r.spatial }

func (r *Registry) Len() int { return len(r.structural) + len(r.spatial) }

// ForTopologyType returns the structural reactions of a topology type in
// registration order.
func (r *Registry) ForTopologyType(t string) []Structural {
	idx := r.byTopology[t]
	out := make([]Structural, len(idx))
	for i, j := range idx {
		out[i] = r.structural[j]
	}
	return out
}

// IsPending reports whether t has a pending reaction registered.
func (r *Registry) IsPending(t string) bool {
	for _, j := range r.byTopology[t] {
		if r.structural[j].Pending {
			return true
		}
	}
	return false
}

func (r *Registry) LookupStructural(name string) (Structural, bool) {
	i, ok := r.byName[name]
	if !ok || i < 0 {
		return Structural{}, false
	}
	return r.structural[i], true
}

func (r *Registry) LookupSpatial(name string) (Spatial, bool) {
	i, ok := r.byName[name]
	if !ok || i >= 0 {
		return Spatial{}, false
	}
	return r.spatial[-1-i], true
}

func (r *Registry) KindName(k Kind) string { return r.kinds[k] }

// TopologyTypes lists every topology type the catalog refers to, sorted.
func (r *Registry) TopologyTypes() []string {
	set := make(map[string]struct{})
	for _, s := range r.structural {
		set[s.TopologyType] = struct{}{}
	}
	for _, s := range r.spatial {
		for _, t := range s.Pattern.TopologyTypes() {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// ParticleTypes lists every particle type named by a spatial pattern.
func (r *Registry) ParticleTypes() []string {
	set := make(map[string]struct{})
	for _, s := range r.spatial {
		for _, t := range s.Pattern.ParticleTypes() {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
