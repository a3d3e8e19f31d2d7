package types

import "errors"

var (
	// ErrAlreadySatisfied is returned when a value or error is set on a
	// future that has already left the pending state.
	ErrAlreadySatisfied = errors.New("future already satisfied")

	// ErrAlreadyConsumed is returned by Take once the result has been taken.
	ErrAlreadyConsumed = errors.New("future already consumed")

	// ErrNilFailure is stored in place of a nil error passed to SetError.
	ErrNilFailure = errors.New("future failed with a nil error")
)
