package llm

import "errors"

var (
	// ErrGeneration is returned when a chat completion call fails.
	ErrGeneration = errors.New("chat completion failed")

	// ErrEmptyCompletion is returned when the provider returns no choices.
	ErrEmptyCompletion = errors.New("empty completion")
)
