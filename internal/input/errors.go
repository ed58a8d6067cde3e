package input

import (
	"errors"
	"fmt"
)

var (
	// ErrActionNotFound indicates the action was never registered.
	ErrActionNotFound = errors.New("input: action not found")

	// ErrActionKindMismatch indicates the caller expected a different value kind
	// than the one the action was registered with.
	ErrActionKindMismatch = errors.New("input: action kind mismatch")

	// ErrDuplicateAction indicates an action name was registered twice.
	ErrDuplicateAction = errors.New("input: action already registered")
)

// ActionError wraps a lookup failure with the action involved.
type ActionError struct {
	Action   string
	Expected Kind
	Actual   Kind
	Wrapped  error
}

func (e *ActionError) Error() string {
	if errors.Is(e.Wrapped, ErrActionKindMismatch) {
		return fmt.Sprintf("%v: %q registered as %s, requested as %s", e.Wrapped, e.Action, e.Actual, e.Expected)
	}
	return fmt.Sprintf("%v: %q", e.Wrapped, e.Action)
}

func (e *ActionError) Unwrap() error {
	return e.Wrapped
}
