package datatransfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapnav/internal/navigator"
)

// ErrorKind classifies a resolver failure.
type ErrorKind int

// Error kinds raised by the resolver itself.
const (
	KindNotDatabaseNode ErrorKind = iota + 1
	KindUnsupportedOperation
)

// Sentinels matched by *Error via errors.Is.
var (
	ErrNotDatabaseNode      = errors.New("not a database node")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Error is a classification failure of a node.
type Error struct {
	Kind ErrorKind
	// NodeID is the lookup id for KindNotDatabaseNode and the node's own
	// id for KindUnsupportedOperation.
	NodeID string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotDatabaseNode:
		return fmt.Sprintf("node '%s' is not database node", e.NodeID)
	case KindUnsupportedOperation:
		return fmt.Sprintf("object '%s' doesn't support DDL", e.NodeID)
	default:
		return fmt.Sprintf("node '%s': unknown error", e.NodeID)
	}
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindNotDatabaseNode:
		return target == ErrNotDatabaseNode
	case KindUnsupportedOperation:
		return target == ErrUnsupportedOperation
	}
	return false
}

// Error codes reported to API clients.
const (
	CodeNodeNotFound         = "NODE_NOT_FOUND"
	CodeNotDatabaseNode      = "NOT_DATABASE_NODE"
	CodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
	CodeCancelled            = "CANCELLED"
	CodeInternal             = "INTERNAL"
)

// ErrorCode maps an error returned by Resolve to a client-facing code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, navigator.ErrNodeNotFound):
		return CodeNodeNotFound
	case errors.Is(err, ErrNotDatabaseNode):
		return CodeNotDatabaseNode
	case errors.Is(err, ErrUnsupportedOperation):
		return CodeUnsupportedOperation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancelled
	default:
		return CodeInternal
	}
}
