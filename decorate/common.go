package decorate

import (
	"errors"
)

// ErrValidation is returned when an argument list or a return value does not
// match the expected type tags.
var ErrValidation = errors.New("validation failed")

// ErrUnknownDecorator is returned when decoration is requested under a name
// that has no registered factory.
var ErrUnknownDecorator = errors.New("no decorator factory registered under this name")

// ErrNilCallable is returned when a nil base callable is supplied.
var ErrNilCallable = errors.New("nil callable supplied")

// ErrNilFactory is returned when a nil decorator factory is supplied.
var ErrNilFactory = errors.New("nil decorator factory supplied")
