package board

import (
	"errors"
	"fmt"
)

// Sentinel errors for existence and ownership failures. Ownership is a
// courtesy check on the self-declared display name, not a security
// boundary.
var (
	ErrNotFound     = errors.New("message not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a missing or empty required field. It is
// user-correctable and maps to a 400 at the API boundary.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// StorageError wraps a failed adapter read or write. It maps to a 500 at
// the API boundary and is never retried automatically.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
