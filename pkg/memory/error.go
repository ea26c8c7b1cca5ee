package memory

import "errors"

var (
	// ErrNotFound is returned when a record is not found in the store.
	ErrNotFound = errors.New("memory record not found")

	// ErrConnection is returned when the store connection fails.
	ErrConnection = errors.New("memory store connection failed")

	// ErrDimensionMismatch is returned when an embedding's length does not
	// match the store's configured dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
