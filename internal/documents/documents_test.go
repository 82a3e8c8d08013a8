package documents_test

import (
	"testing"

	"github.com/banerRana/docpipe/internal/documents"
)

func ptr[T any](v T) *T { return &v }

func TestClassificationPageRange(t *testing.T) {
	tests := []struct {
		name      string
		c         documents.Classification
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{
			name:      "valid range",
			c:         documents.Classification{ImageRangeStart: ptr(1), ImageRangeEnd: ptr(3)},
			wantStart: 1,
			wantEnd:   3,
			wantOK:    true,
		},
		{
			name:      "single page",
			c:         documents.Classification{ImageRangeStart: ptr(2), ImageRangeEnd: ptr(2)},
			wantStart: 2,
			wantEnd:   2,
			wantOK:    true,
		},
		{
			name: "missing start",
			c:    documents.Classification{ImageRangeEnd: ptr(3)},
		},
		{
			name: "missing end",
			c:    documents.Classification{ImageRangeStart: ptr(1)},
		},
		{
			name: "inverted",
			c:    documents.Classification{ImageRangeStart: ptr(3), ImageRangeEnd: ptr(1)},
		},
		{
			name: "below one",
			c:    documents.Classification{ImageRangeStart: ptr(0), ImageRangeEnd: ptr(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.c.PageRange()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("range = (%d, %d), want (%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestClassificationLabel(t *testing.T) {
	unset := documents.Classification{}
	if unset.Label() != "" {
		t.Errorf("unset label = %q, want empty", unset.Label())
	}

	set := documents.Classification{Classification: ptr("Invoice")}
	if set.Label() != "Invoice" {
		t.Errorf("label = %q, want Invoice", set.Label())
	}
}

func TestDocumentFolderValidate(t *testing.T) {
	tests := []struct {
		name     string
		folder   documents.DocumentFolder
		wantMsgs []string
	}{
		{
			name: "valid",
			folder: documents.DocumentFolder{
				ContainerName:     "invoices",
				Name:              "folder1",
				DocumentFileNames: []string{"folder1/a.pdf"},
			},
		},
		{
			name:   "empty folder",
			folder: documents.DocumentFolder{},
			wantMsgs: []string{
				"container_name is required",
				"name is required",
				"document_file_names is required",
			},
		},
		{
			name: "no documents",
			folder: documents.DocumentFolder{
				ContainerName: "invoices",
				Name:          "folder1",
			},
			wantMsgs: []string{"document_file_names is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.folder.Validate()

			wantValid := len(tt.wantMsgs) == 0
			if result.IsValid != wantValid {
				t.Errorf("IsValid = %v, want %v", result.IsValid, wantValid)
			}
			if len(result.Messages) != len(tt.wantMsgs) {
				t.Fatalf("messages = %v, want %v", result.Messages, tt.wantMsgs)
			}
			for i, want := range tt.wantMsgs {
				if result.Messages[i] != want {
					t.Errorf("message %d = %q, want %q", i, result.Messages[i], want)
				}
			}
		})
	}
}

func TestBatchRequestValidate(t *testing.T) {
	valid := documents.BatchRequest{ContainerName: "invoices"}
	if result := valid.Validate(); !result.IsValid {
		t.Errorf("expected valid request, got %v", result.Messages)
	}

	invalid := documents.BatchRequest{}
	result := invalid.Validate()
	if result.IsValid {
		t.Error("expected invalid request")
	}
	if len(result.Messages) != 1 || result.Messages[0] != "container_name is required" {
		t.Errorf("messages = %v", result.Messages)
	}
}
