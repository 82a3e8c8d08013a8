// Package results provides the mergeable success/error accumulators that
// every workflow and activity step reports through.
package results

import "strings"

// ValidationResult accumulates the outcome of a validation operation:
// a validity flag and an ordered list of messages.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Messages []string `json:"messages"`
}

// NewValidationResult creates a ValidationResult that is valid until an
// error is recorded.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

// AddMessage appends a message without affecting validity.
func (r *ValidationResult) AddMessage(message string) {
	r.Messages = append(r.Messages, message)
}

// AddError appends a message and marks the result invalid.
func (r *ValidationResult) AddError(message string) {
	r.IsValid = false
	r.Messages = append(r.Messages, message)
}

// Merge ANDs validity with the other result and appends its messages in order.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.IsValid = r.IsValid && other.IsValid
	r.Messages = append(r.Messages, other.Messages...)
}

// String returns the messages as a comma-separated list.
func (r *ValidationResult) String() string {
	return strings.Join(r.Messages, ", ")
}
