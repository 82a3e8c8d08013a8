package reports_test

import (
	"bytes"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/banerRana/docpipe/internal/reports"
	"github.com/banerRana/docpipe/pkg/results"
)

func TestBuild(t *testing.T) {
	batch := results.NewWorkflowResult("ProcessDocumentBatchWorkflow")
	batch.AddMessage("GetDocumentFolders", "Retrieved 2 document folders.")

	good := results.NewWorkflowResult("folder-a")
	good.AddMessage("ClassifyDocument", "Document folder-a/invoice.pdf classified with confidence 0.95.")
	batch.AddActivityResult(good)

	bad := results.NewWorkflowResult("folder-b")
	bad.AddError("ClassifyDocument", "Failed to classify document folder-b/scan.pdf.")
	batch.AddActivityResult(bad)

	data, err := reports.Build(batch)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{"Summary", "Folders", "Messages"} {
		if !slices.Contains(sheets, want) {
			t.Errorf("missing sheet %q in %v", want, sheets)
		}
	}

	succeeded, err := f.GetCellValue("Summary", "B4")
	if err != nil || succeeded != "1" {
		t.Errorf("folders succeeded = %q (%v), want 1", succeeded, err)
	}
	failed, err := f.GetCellValue("Summary", "B5")
	if err != nil || failed != "1" {
		t.Errorf("folders failed = %q (%v), want 1", failed, err)
	}

	folder, err := f.GetCellValue("Folders", "A2")
	if err != nil || folder != "folder-a" {
		t.Errorf("first folder = %q (%v), want folder-a", folder, err)
	}
}

func TestBuildEmptyBatch(t *testing.T) {
	batch := results.NewWorkflowResult("ProcessDocumentBatchWorkflow")

	data, err := reports.Build(batch)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty batch should still produce a workbook")
	}
}
