package etp

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is returned when a cell depends on itself through its declared inputs.
	ErrCycle = errors.New("dependency cycle")
	// ErrTypeMismatch is returned when a stored value does not have the cell's type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// RecomputeError wraps a factory failure with the cell that produced it.
type RecomputeError struct {
	Cell    AnyCell
	Cause   error
	Context string
}

func (e *RecomputeError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("recompute error in %s during %s: %v", NameOf(e.Cell), e.Context, e.Cause)
	}
	return fmt.Sprintf("recompute error in %s: %v", NameOf(e.Cell), e.Cause)
}

func (e *RecomputeError) Unwrap() error {
	return e.Cause
}

// SafeTypeAssertion performs safe type assertion with proper error
func SafeTypeAssertion[T any](value any) (T, error) {
	if value == nil {
		var zero T
		return zero, nil
	}

	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: expected %T, got %T", ErrTypeMismatch, zero, value)
	}

	return typed, nil
}
