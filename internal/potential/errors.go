package potential

import "github.com/pkg/errors"

var (
	ErrMissingPotential     = errors.New("potential: bonded pair has no registered bond")
	ErrConflictingPotential = errors.New("potential: type tuple already registered with different parameters")
	ErrBadParameter         = errors.New("potential: invalid parameter")
)
