package storage

import "errors"

// ErrNotFound is returned when a lookup matches no row. Callers map it
// to their own domain faults instead of branching on sql.ErrNoRows.
var ErrNotFound = errors.New("storage: not found")
