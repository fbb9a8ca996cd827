package topology

import (
	"sort"
	"strconv"
	"strings"
)

// FlagOrder selects how flags are sorted when a type name is formatted.
// Actin names sort descending ("pointed_ATP"), tubulin names ascending
// ("GTP_bent").
type FlagOrder int

const (
	Descending FlagOrder = iota
	Ascending
)

// ParticleType is the parsed form of a particle type name.
type ParticleType struct {
	Base    string
	Flags   []string
	Numbers []int
}

// ParseType splits name into base, flags and polymer numbers. Purely
// numeric tokens are numbers and keep their order.
func ParseType(name string) ParticleType {
	base, rest, found := strings.Cut(name, "#")
	p := ParticleType{Base: base}
	if !found || rest == "" {
		return p
	}
	for _, tok := range strings.Split(rest, "_") {
		if tok == "" {
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			p.Numbers = append(p.Numbers, n)
			continue
		}
		p.Flags = append(p.Flags, tok)
	}
	return p
}

func (p ParticleType) Has(flag string) bool {
	for _, f := range p.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// With returns a copy with the flags in remove dropped and those in add
// inserted once.
func (p ParticleType) With(add, remove []string) ParticleType {
	out := ParticleType{Base: p.Base, Numbers: append([]int(nil), p.Numbers...)}
	drop := make(map[string]bool, len(remove))
	for _, f := range remove {
		drop[f] = true
	}
	seen := make(map[string]bool)
	for _, f := range append(append([]string(nil), p.Flags...), add...) {
		if drop[f] || seen[f] {
			continue
		}
		seen[f] = true
		out.Flags = append(out.Flags, f)
	}
	return out
}

func (p ParticleType) WithNumbers(numbers ...int) ParticleType {
	out := ParticleType{Base: p.Base, Flags: append([]string(nil), p.Flags...)}
	out.Numbers = append(out.Numbers, numbers...)
	return out
}

// Format renders the canonical name: base, then sorted flags, then numbers.
func (p ParticleType) Format(order FlagOrder) string {
	flags := append([]string(nil), p.Flags...)
	if order == Descending {
		sort.Sort(sort.Reverse(sort.StringSlice(flags)))
	} else {
		sort.Strings(flags)
	}
	toks := flags
	for _, n := range p.Numbers {
		toks = append(toks, strconv.Itoa(n))
	}
	if len(toks) == 0 {
		return p.Base
	}
	return p.Base + "#" + strings.Join(toks, "_")
}

// SetFlags rewrites a type name with flags added and removed.
func SetFlags(name string, add, remove []string, order FlagOrder) string {
	return ParseType(name).With(add, remove).Format(order)
}

// Number returns the polymer number on the given axis (0 or 1).
func Number(name string, axis int) (int, bool) {
	p := ParseType(name)
	if axis < 0 || axis >= len(p.Numbers) {
		return 0, false
	}
	return p.Numbers[axis], true
}

func Base(name string) string {
	base, _, _ := strings.Cut(name, "#")
	return base
}

// HasFlag reports whether name carries flag.
func HasFlag(name, flag string) bool {
	return ParseType(name).Has(flag)
}
