package navigator

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound matches every *NotFoundError via errors.Is.
var ErrNodeNotFound = errors.New("node not found")

// NotFoundError is returned when a node id cannot be resolved.
type NotFoundError struct {
	NodeID string
	// Err is the underlying cause, if any.
	Err error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("node '%s' not found: %v", e.NodeID, e.Err)
	}
	return fmt.Sprintf("node '%s' not found", e.NodeID)
}

// Is reports whether target is ErrNodeNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNodeNotFound
}

// Unwrap returns the underlying cause.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func notFound(id string, err error) error {
	return &NotFoundError{NodeID: id, Err: err}
}
