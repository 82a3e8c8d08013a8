package results_test

import (
	"slices"
	"testing"

	"github.com/banerRana/docpipe/pkg/results"
)

func TestValidationResultAccumulation(t *testing.T) {
	result := results.NewValidationResult()
	if !result.IsValid {
		t.Fatal("new result should be valid")
	}

	result.AddMessage("first")
	if !result.IsValid {
		t.Error("AddMessage should not affect validity")
	}

	result.AddError("second")
	if result.IsValid {
		t.Error("AddError should mark the result invalid")
	}

	want := []string{"first", "second"}
	if !slices.Equal(result.Messages, want) {
		t.Errorf("messages = %v, want %v", result.Messages, want)
	}
}

func TestValidationResultMerge(t *testing.T) {
	tests := []struct {
		name      string
		left      func() *results.ValidationResult
		right     func() *results.ValidationResult
		wantValid bool
		wantMsgs  []string
	}{
		{
			name: "valid into valid",
			left: func() *results.ValidationResult {
				r := results.NewValidationResult()
				r.AddMessage("a")
				return r
			},
			right: func() *results.ValidationResult {
				r := results.NewValidationResult()
				r.AddMessage("b")
				return r
			},
			wantValid: true,
			wantMsgs:  []string{"a", "b"},
		},
		{
			name: "invalid into valid",
			left: func() *results.ValidationResult {
				return results.NewValidationResult()
			},
			right: func() *results.ValidationResult {
				r := results.NewValidationResult()
				r.AddError("broken")
				return r
			},
			wantValid: false,
			wantMsgs:  []string{"broken"},
		},
		{
			name: "valid into invalid stays invalid",
			left: func() *results.ValidationResult {
				r := results.NewValidationResult()
				r.AddError("broken")
				return r
			},
			right: func() *results.ValidationResult {
				return results.NewValidationResult()
			},
			wantValid: false,
			wantMsgs:  []string{"broken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := tt.left()
			left.Merge(tt.right())

			if left.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v", left.IsValid, tt.wantValid)
			}
			if !slices.Equal(left.Messages, tt.wantMsgs) {
				t.Errorf("messages = %v, want %v", left.Messages, tt.wantMsgs)
			}
		})
	}
}

func TestValidationResultMergeNil(t *testing.T) {
	result := results.NewValidationResult()
	result.Merge(nil)
	if !result.IsValid {
		t.Error("merging nil should be a no-op")
	}
}

func TestWorkflowResultMessageFormat(t *testing.T) {
	result := results.NewWorkflowResult("ProcessDocumentWorkflow")
	result.AddMessage("ClassifyDocument", "Document a.pdf classified with confidence 0.95.")
	result.AddError("ExtractInvoice", "Failed to extract invoice data for a.pdf from page 1 to 2.")

	want := []string{
		"ProcessDocumentWorkflow::ClassifyDocument - Document a.pdf classified with confidence 0.95.",
		"ProcessDocumentWorkflow::ExtractInvoice - Failed to extract invoice data for a.pdf from page 1 to 2.",
	}
	if !slices.Equal(result.Messages, want) {
		t.Errorf("messages = %v, want %v", result.Messages, want)
	}
	if result.IsValid {
		t.Error("AddError should mark the workflow result invalid")
	}
}

func TestWorkflowResultActivityResults(t *testing.T) {
	parent := results.NewWorkflowResult("batch")

	child := results.NewWorkflowResult("folder1")
	child.AddError("ClassifyDocument", "Failed to classify document a.pdf.")
	parent.AddActivityResult(child)

	if !parent.IsValid {
		t.Error("child failures should not invalidate the parent")
	}
	if len(parent.ActivityResults) != 1 || parent.ActivityResults[0].Name != "folder1" {
		t.Errorf("unexpected activity results: %+v", parent.ActivityResults)
	}
}
