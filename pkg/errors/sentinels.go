package errors

import "errors"

// ErrCounterUnderflow is returned by the persistence layer when a
// guarded counter decrement finds the counter already at zero. Callers
// treat it as a benign no-op and log it.
var ErrCounterUnderflow = errors.New("counter already at zero")

// IsCounterUnderflow reports whether err wraps ErrCounterUnderflow.
func IsCounterUnderflow(err error) bool {
	return errors.Is(err, ErrCounterUnderflow)
}
