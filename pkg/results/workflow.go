package results

import "fmt"

// WorkflowResult extends ValidationResult with the workflow operation name
// and the ordered results of nested activity or sub-workflow invocations.
// Messages recorded through it are prefixed "{name}::{action} - ".
type WorkflowResult struct {
	ValidationResult
	Name            string            `json:"name"`
	ActivityResults []*WorkflowResult `json:"activity_results"`
}

// NewWorkflowResult creates a valid WorkflowResult for the named operation.
func NewWorkflowResult(name string) *WorkflowResult {
	return &WorkflowResult{
		ValidationResult: ValidationResult{IsValid: true},
		Name:             name,
	}
}

// AddMessage appends a structured message without affecting validity.
// The action identifies what generated the message, e.g. an activity name.
func (r *WorkflowResult) AddMessage(action, message string) {
	r.ValidationResult.AddMessage(r.format(action, message))
}

// AddError appends a structured error message and marks the result invalid.
func (r *WorkflowResult) AddError(action, message string) {
	r.ValidationResult.AddError(r.format(action, message))
}

// AddActivityResult appends a child result without altering validity.
func (r *WorkflowResult) AddActivityResult(result *WorkflowResult) {
	r.ActivityResults = append(r.ActivityResults, result)
}

func (r *WorkflowResult) format(action, message string) string {
	return fmt.Sprintf("%s::%s - %s", r.Name, action, message)
}
