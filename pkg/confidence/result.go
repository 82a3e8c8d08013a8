// Package confidence pairs structured model output with per-field and
// overall confidence scores derived from token log-probabilities.
package confidence

import (
	"encoding/json"
	"errors"
	"fmt"
)

// OverallKey is the reserved confidence_scores key holding the aggregate
// score, duplicated in OverallConfidence.
const OverallKey = "_overall"

// ErrUnknownModel is returned when a serialized result carries a payload
// type tag that is not in the caller's dispatch table.
var ErrUnknownModel = errors.New("unknown payload model tag")

// Result wraps a structured payload extracted or classified by a model
// together with its confidence scores. The Model field is a payload type
// tag used to recover the concrete data type on deserialization; it is
// set by the producing service and dispatched on by DecodeTagged callers.
// A Result is immutable once created.
type Result[T any] struct {
	Data              *T                 `json:"data"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	OverallConfidence float64            `json:"overall_confidence"`
	Model             string             `json:"_data_model,omitempty"`
}

// New creates a Result from a payload, its field scores, and the payload
// type tag. The overall confidence is read from the OverallKey entry.
func New[T any](data *T, scores map[string]float64, model string) *Result[T] {
	return &Result[T]{
		Data:              data,
		ConfidenceScores:  scores,
		OverallConfidence: scores[OverallKey],
		Model:             model,
	}
}

// Encode serializes the result to JSON, including the payload type tag.
func Encode[T any](r *Result[T]) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode confidence result: %w", err)
	}
	return data, nil
}

// Decode reconstructs a typed result from its JSON form.
func Decode[T any](data []byte) (*Result[T], error) {
	var r Result[T]
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode confidence result: %w", err)
	}
	return &r, nil
}

// ModelTag reads the payload type tag from a serialized result without
// decoding the payload, so callers can dispatch to the right Decode[T].
func ModelTag(data []byte) (string, error) {
	var probe struct {
		Model string `json:"_data_model"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("read payload model tag: %w", err)
	}
	return probe.Model, nil
}
