package core

import "errors"

// Common errors.
var (
	ErrNotFound = errors.New("key not found")
	ErrReadOnly = errors.New("store is in read-only mode")
)
