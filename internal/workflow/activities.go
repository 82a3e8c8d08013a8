package workflow

import (
	"context"

	"github.com/banerRana/docpipe/internal/documents"
	"github.com/banerRana/docpipe/internal/imaging"
	"github.com/banerRana/docpipe/internal/invoices"
	"github.com/banerRana/docpipe/pkg/confidence"
)

// Activity names used in workflow result messages.
const (
	ActivityGetDocumentFolders = "GetDocumentFolders"
	ActivityClassifyDocument   = "ClassifyDocument"
	ActivityExtractInvoice     = "ExtractInvoice"
	ActivityWriteBlob          = "WriteBytesToBlob"
)

// getDocumentFolders groups the container's matching documents by their
// top-level folder.
func (rt *Runtime) getDocumentFolders(ctx context.Context, container string) (*documents.DocumentFolders, error) {
	grouped, err := rt.Storage.GroupByTopLevelFolder(ctx, container, rt.Config.FilePattern)
	if err != nil {
		return nil, err
	}

	folders := make([]documents.DocumentFolder, 0, len(grouped))
	for _, folder := range grouped {
		folders = append(folders, documents.DocumentFolder{
			ContainerName:     container,
			Name:              folder.Name,
			DocumentFileNames: folder.Blobs,
		})
	}

	return &documents.DocumentFolders{Folders: folders}, nil
}

// classifyDocument fetches a document and classifies its pages against
// the configured taxonomy. Failures are logged and reported as nil so the
// caller records an error message and moves on.
func (rt *Runtime) classifyDocument(ctx context.Context, container, name string) *confidence.Result[documents.Classifications] {
	if container == "" || name == "" {
		rt.Logger.Error("classify activity input invalid", "container", container, "name", name)
		return nil
	}

	content, err := rt.Storage.GetBlobContent(ctx, container, name)
	if err != nil {
		rt.Logger.Error("classify activity failed to fetch document", "container", container, "name", name, "error", err)
		return nil
	}

	result, err := rt.Classifier.Classify(ctx, content, rt.Config.Taxonomy)
	if err != nil {
		rt.Logger.Error("classify activity failed", "container", container, "name", name, "error", err)
		return nil
	}

	return result
}

// extractInvoice fetches a document and extracts invoice data from the
// given page range. Failures are logged and reported as nil.
func (rt *Runtime) extractInvoice(ctx context.Context, container, name string, pages imaging.Range) *confidence.Result[invoices.Invoice] {
	if container == "" || name == "" {
		rt.Logger.Error("extract activity input invalid", "container", container, "name", name)
		return nil
	}

	content, err := rt.Storage.GetBlobContent(ctx, container, name)
	if err != nil {
		rt.Logger.Error("extract activity failed to fetch document", "container", container, "name", name, "error", err)
		return nil
	}

	result, err := rt.Extractor.Extract(ctx, content, &pages)
	if err != nil {
		rt.Logger.Error("extract activity failed", "container", container, "name", name, "pages", pages, "error", err)
		return nil
	}

	return result
}

// writeBlob stores an artifact beside its source document, overwriting
// any prior run's artifact. Failures are logged and reported as false.
func (rt *Runtime) writeBlob(ctx context.Context, container, name string, data []byte) bool {
	if err := rt.Storage.Write(ctx, container, name, data, true); err != nil {
		rt.Logger.Error("write activity failed", "container", container, "name", name, "error", err)
		return false
	}
	return true
}
