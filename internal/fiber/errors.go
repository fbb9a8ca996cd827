package fiber

import "github.com/pkg/errors"

var (
	ErrEmptyFiber   = errors.New("fiber: no points")
	ErrBrokenChain  = errors.New("fiber: chain walk is not linear")
	ErrNotFreeEnd   = errors.New("fiber: walk must start at a free end")
	ErrOutOfBounds  = errors.New("fiber: index out of range")
	ErrCoincidental = errors.New("fiber: consecutive points coincide")
)
