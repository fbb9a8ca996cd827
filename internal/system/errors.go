package system

import "github.com/pkg/errors"

var (
	ErrInvalidSetup = errors.New("system: invalid setup")
	ErrUnknownType  = errors.New("system: unregistered type")
)
