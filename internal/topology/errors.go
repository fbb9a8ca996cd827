package topology

import "github.com/pkg/errors"

var (
	ErrUnknownVertex = errors.New("topology: unknown vertex")
	ErrDuplicateEdge = errors.New("topology: edge already exists")
	ErrMissingEdge   = errors.New("topology: edge does not exist")
	ErrSelfEdge      = errors.New("topology: vertex bonded to itself")
	ErrBadType       = errors.New("topology: malformed particle type")
	ErrDuplicateID   = errors.New("topology: duplicate vertex id")
)
