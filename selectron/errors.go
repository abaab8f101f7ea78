package selectron

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCaret is returned when a caret name is neither "start" nor "end".
	ErrInvalidCaret = errors.New(`selectron: caret must be "start" or "end"`)
	// ErrNoRange is returned when the selection source has no active range.
	ErrNoRange = errors.New("selectron: selection has no active range")
	// ErrUnreachable is returned when a reference node is outside the root, or
	// inside a subtree the filter skips.
	ErrUnreachable = errors.New("selectron: reference is not reachable from root")
	// ErrNoSection is returned when no section element encloses a boundary.
	ErrNoSection = errors.New("selectron: no enclosing section")
	// ErrNoScope is returned when neither an element nor an active range
	// determine the scope to count from.
	ErrNoScope = errors.New("selectron: no scope element")
	// ErrInvalidPosition is returned for a position without a reference node.
	ErrInvalidPosition = errors.New("selectron: position has no reference node")
	// ErrNotUpdated is wrapped by StateError.
	ErrNotUpdated = errors.New("selectron: cache read before update")
)

// StateError reports a read of cached selection state that has not been
// computed, either because Update never ran since the scope was set or
// because Update was told to skip it.
type StateError struct {
	Field string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("selectron: %s read before update", e.Field)
}

func (e *StateError) Unwrap() error {
	return ErrNotUpdated
}
