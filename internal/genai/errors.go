package genai

import "errors"

var (
	// ErrService indicates a transport-level or provider-side failure.
	ErrService = errors.New("model service error")
	// ErrSchema indicates the model output does not conform to the
	// requested response schema.
	ErrSchema = errors.New("model output violates schema")
)
