package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no item exists at the requested key.
	ErrNotFound = errors.New("store: item not found")

	// ErrDuplicateKey is returned when a create targets an occupied primary
	// key.
	ErrDuplicateKey = errors.New("store: duplicate key")

	// ErrSchemaMismatch is returned by EnsureTable when the table's schema
	// marker carries an incompatible format.
	ErrSchemaMismatch = errors.New("store: table schema format mismatch")
)

// ConditionFailedError reports which item of a write transaction failed its
// condition check. Index is the position in the TransactPut argument list.
type ConditionFailedError struct {
	Index int
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("store: transaction condition failed on item %d", e.Index)
}
