package descriptor

import "errors"

var (
	ErrEmptyDescriptor     = errors.New("descriptor: empty connection string")
	ErrMalformedDescriptor = errors.New("descriptor: malformed connection string")
)
