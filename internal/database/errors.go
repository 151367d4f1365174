package database

import "errors"

// Persistence errors
var (
	// ErrNotFound indicates the requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the transaction lost a race with a concurrent
	// writer (lock timeout, serialization failure or duplicate rank) and can
	// be retried from the start.
	ErrConflict = errors.New("concurrent write conflict")

	// ErrUnknownDriver indicates an unsupported database driver name
	ErrUnknownDriver = errors.New("unknown database driver")
)
