package invoices

import (
	"context"

	"github.com/banerRana/docpipe/internal/extractor"
	"github.com/banerRana/docpipe/internal/imaging"
	"github.com/banerRana/docpipe/pkg/confidence"
)

// ModelTag is the payload type tag recorded on serialized invoice
// confidence results.
const ModelTag = "Invoice"

// Extractor binds the generic extraction service to the invoice schema
// and prompt.
type Extractor struct {
	svc *extractor.Service
}

// NewExtractor creates an invoice-targeted extractor.
func NewExtractor(svc *extractor.Service) *Extractor {
	return &Extractor{svc: svc}
}

// Extract pulls invoice data from the given page range of the document.
func (e *Extractor) Extract(ctx context.Context, doc []byte, pages *imaging.Range) (*confidence.Result[Invoice], error) {
	return extractor.Extract[Invoice](ctx, e.svc, doc, extractor.Options{
		Prompt:     ExtractionPrompt,
		SchemaName: "invoice",
		Schema:     Schema(),
		ModelTag:   ModelTag,
		Pages:      pages,
	})
}
