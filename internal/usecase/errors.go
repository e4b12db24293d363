package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrPreconditionFailed    = errors.New("precondition failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
