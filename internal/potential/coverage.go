package potential

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/fibersim/internal/topology"
)

// MissingBonds lists every bonded pair in v whose types have no bond entry.
func (c *Catalog) MissingBonds(v topology.View) [][2]string {
	var missing [][2]string
	seen := make(map[string]bool)
	for _, a := range v.Vertices() {
		for _, b := range v.Neighbors(a) {
			if b < a {
				continue
			}
			ta, tb := v.TypeOf(a), v.TypeOf(b)
			if _, ok := c.Bond(ta, tb); ok {
				continue
			}
			if k := key(ta, tb); !seen[k] {
				seen[k] = true
				missing = append(missing, [2]string{ta, tb})
			}
		}
	}
	return missing
}

// Check fails with ErrMissingPotential when any bond in v is unmatched.
func (c *Catalog) Check(v topology.View) error {
	missing := c.MissingBonds(v)
	if len(missing) == 0 {
		return nil
	}
	parts := make([]string, len(missing))
	for i, m := range missing {
		parts[i] = fmt.Sprintf("%s--%s", m[0], m[1])
	}
	return errors.Wrapf(ErrMissingPotential, "%s: %s", v.TopologyType(), strings.Join(parts, ", "))
}

// AngleCoverage counts the bonded triples of v that have an angle entry.
func (c *Catalog) AngleCoverage(v topology.View) (matched, total int) {
	for _, mid := range v.Vertices() {
		ns := v.Neighbors(mid)
		for i := 0; i < len(ns); i++ {
			for j := i + 1; j < len(ns); j++ {
				total++
				if _, ok := c.Angle(v.TypeOf(ns[i]), v.TypeOf(mid), v.TypeOf(ns[j])); ok {
					matched++
				}
			}
		}
	}
	return matched, total
}
