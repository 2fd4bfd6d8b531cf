package registry

import "errors"

var (
	ErrUnknownChannel   = errors.New("registry: unknown channel")
	ErrDuplicateChannel = errors.New("registry: duplicate channel")
	ErrUnknownType      = errors.New("registry: unknown element type")
	ErrInvalidConfig    = errors.New("registry: invalid config")
)
