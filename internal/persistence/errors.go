package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested partition does not exist.
	ErrNotFound = errors.New("persistence: partition not found")
	// ErrUnavailable is returned when the backing store cannot be reached or
	// refuses the operation for reasons other than a missing partition.
	ErrUnavailable = errors.New("persistence: store unavailable")
)
