package perceptron

import "errors"

var (
	// ErrInvalidInput is returned when a training set, epoch count or option
	// cannot be used to build a model.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch is returned when a vector or matrix does not have
	// the size the model was built for.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
