package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrMissingName = errors.New("name must not be empty")
	ErrCorrupt     = errors.New("stored data is corrupt")
)
