package reaction

import "github.com/pkg/errors"

var (
	ErrDuplicateReaction = errors.New("reaction: duplicate reaction")
	ErrUnknownKind       = errors.New("reaction: unknown reaction kind")
	ErrBadPattern        = errors.New("reaction: malformed spatial pattern")
	ErrInvariant         = errors.New("reaction: invariant violated")
	ErrIncomplete        = errors.New("reaction: incomplete declaration")
)
