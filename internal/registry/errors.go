package registry

import (
	"fmt"
	"strings"
)

// InvalidCategoryError is returned when a caller requests categories outside
// the closed set.
type InvalidCategoryError struct {
	Invalid []string // offending values, sorted
	Valid   []string // the closed set, sorted
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid module types: [%s]; valid types: [%s]",
		strings.Join(e.Invalid, ", "), strings.Join(e.Valid, ", "))
}

// PersistenceError is returned when the catalog cannot be written to durable
// storage. The in-memory catalog is unaffected.
type PersistenceError struct {
	Path string
	Op   string // e.g., "create directory", "write", "rename"
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting registry to %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
