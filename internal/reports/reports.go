// Package reports renders batch workflow results as Excel workbooks for
// review outside the pipeline.
package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/banerRana/docpipe/pkg/results"
)

const (
	summarySheet  = "Summary"
	foldersSheet  = "Folders"
	messagesSheet = "Messages"
)

// Build renders a batch result as an XLSX workbook: a summary sheet with
// batch-level counts, a folder sheet with one row per processed folder,
// and a message sheet with every recorded message in order.
func Build(result *results.WorkflowResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	if err := writeSummary(f, result); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	if err := writeFolders(f, result); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	if err := writeMessages(f, result); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, result *results.WorkflowResult) error {
	succeeded := 0
	for _, child := range result.ActivityResults {
		if child.IsValid {
			succeeded++
		}
	}

	rows := [][]any{
		{"Workflow", result.Name},
		{"Completed", result.IsValid},
		{"Folders", len(result.ActivityResults)},
		{"Folders Succeeded", succeeded},
		{"Folders Failed", len(result.ActivityResults) - succeeded},
	}

	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	return nil
}

func writeFolders(f *excelize.File, result *results.WorkflowResult) error {
	if _, err := f.NewSheet(foldersSheet); err != nil {
		return err
	}

	header := []any{"Folder", "Valid", "Messages"}
	if err := f.SetSheetRow(foldersSheet, "A1", &header); err != nil {
		return err
	}

	for i, child := range result.ActivityResults {
		row := []any{child.Name, child.IsValid, len(child.Messages)}
		if err := f.SetSheetRow(foldersSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	return nil
}

func writeMessages(f *excelize.File, result *results.WorkflowResult) error {
	if _, err := f.NewSheet(messagesSheet); err != nil {
		return err
	}

	header := []any{"Source", "Message"}
	if err := f.SetSheetRow(messagesSheet, "A1", &header); err != nil {
		return err
	}

	line := 2
	for _, message := range result.Messages {
		row := []any{result.Name, message}
		if err := f.SetSheetRow(messagesSheet, fmt.Sprintf("A%d", line), &row); err != nil {
			return err
		}
		line++
	}

	for _, child := range result.ActivityResults {
		for _, message := range child.Messages {
			row := []any{child.Name, message}
			if err := f.SetSheetRow(messagesSheet, fmt.Sprintf("A%d", line), &row); err != nil {
				return err
			}
			line++
		}
	}

	return nil
}
