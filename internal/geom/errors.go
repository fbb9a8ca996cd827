package geom

import "github.com/pkg/errors"

var (
	// ErrDegenerateVector indicates a vector too short to normalize.
	ErrDegenerateVector = errors.New("geom: degenerate vector")

	// ErrIllDefinedAxis indicates collinear or coincident points where a
	// rotation axis or frame was required.
	ErrIllDefinedAxis = errors.New("geom: ill-defined rotation axis")
)
