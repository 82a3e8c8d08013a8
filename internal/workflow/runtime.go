// Package workflow orchestrates document batch processing as explicit,
// checkpointed state machines. Each workflow advances step by step,
// persisting a snapshot after every transition so a restarted driver
// resumes at the last completed step instead of replaying. All I/O
// happens inside activities; step-local failures are absorbed into the
// accumulating WorkflowResult rather than aborting the run.
package workflow

import (
	"context"
	"log/slog"

	"github.com/banerRana/docpipe/internal/checkpoints"
	"github.com/banerRana/docpipe/internal/classifier"
	"github.com/banerRana/docpipe/internal/documents"
	"github.com/banerRana/docpipe/internal/imaging"
	"github.com/banerRana/docpipe/internal/invoices"
	"github.com/banerRana/docpipe/pkg/confidence"
	"github.com/banerRana/docpipe/pkg/storage"
)

// InvoiceExtractor extracts invoice data from a page range of a document.
type InvoiceExtractor interface {
	Extract(ctx context.Context, doc []byte, pages *imaging.Range) (*confidence.Result[invoices.Invoice], error)
}

// Runtime bundles the collaborators that workflow steps require.
type Runtime struct {
	Storage     storage.System
	Classifier  classifier.System
	Extractor   InvoiceExtractor
	Checkpoints checkpoints.Store
	Logger      *slog.Logger
	Config      Config
}

// Config holds the orchestration parameters of the pipeline.
type Config struct {
	// ConfidenceThreshold gates progression after classification and
	// extraction. Results below it are persisted but not processed
	// further.
	ConfidenceThreshold float64
	// TargetClassification is the segment label that triggers extraction.
	TargetClassification string
	// FilePattern restricts folder discovery to matching blob names.
	FilePattern string
	// MaxConcurrency bounds the number of document workflows a batch
	// runs at once.
	MaxConcurrency int
	// Taxonomy is the classification category set presented to the model.
	Taxonomy documents.ClassificationDefinitions
}

// DefaultConfig returns the pipeline's standard invoice-processing
// configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold:  0.8,
		TargetClassification: "Invoice",
		FilePattern:          `.*\.(pdf)$`,
		MaxConcurrency:       4,
		Taxonomy: documents.ClassificationDefinitions{
			Classifications: []documents.ClassificationDefinition{
				{
					Classification: "Invoice",
					Description:    "A document that serves as a bill for goods or services provided, often used for payment processing and record-keeping.",
				},
				{
					Classification: "Email",
					Description:    "A digital message sent electronically, typically containing text, images, or attachments.",
				},
				{
					Classification: "None",
					Description:    "No classification available for the document.",
				},
			},
		},
	}
}
