// Package extractor pulls structured data out of a document page range
// using a vision model constrained to a caller-supplied schema. The
// target schema varies by document type, so extraction is generic where
// classification is fixed.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/banerRana/docpipe/internal/classifier"
	"github.com/banerRana/docpipe/internal/genai"
	"github.com/banerRana/docpipe/internal/imaging"
	"github.com/banerRana/docpipe/pkg/confidence"
)

const (
	maxTokens   = 4096
	temperature = 0.1
	topP        = 0.1
)

// Options configures one extraction call.
type Options struct {
	// Prompt is the extraction instruction sent as the system prompt.
	Prompt string
	// SchemaName labels the structured output constraint.
	SchemaName string
	// Schema constrains the model output and validates it locally.
	Schema map[string]any
	// ModelTag is the payload type tag recorded on the confidence result.
	ModelTag string
	// Pages restricts the images sent to the model to an inclusive,
	// 1-indexed range. Nil sends the full document.
	Pages *imaging.Range
}

// Service renders page images and issues schema-constrained extraction
// calls.
type Service struct {
	client genai.Client
	imager imaging.System
	logger *slog.Logger
}

// New creates an extractor service.
func New(client genai.Client, imager imaging.System, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		imager: imager,
		logger: logger.With("system", "extractor"),
	}
}

// Extract renders the requested page range of the document and asks the
// model for structured data conforming to the target schema T. Service
// and schema failures surface as errors; retry policy belongs to the
// orchestration layer, not here.
func Extract[T any](ctx context.Context, s *Service, doc []byte, opts Options) (*confidence.Result[T], error) {
	pages, err := s.imager.ToPageImages(ctx, doc, opts.Pages)
	if err != nil {
		return nil, fmt.Errorf("render pages: %w", err)
	}

	content, err := classifier.PageContent(pages)
	if err != nil {
		return nil, err
	}

	completion, err := s.client.Complete(ctx, genai.Request{
		SystemPrompt: opts.Prompt,
		UserContent:  content,
		SchemaName:   opts.SchemaName,
		Schema:       opts.Schema,
		MaxTokens:    maxTokens,
		Temperature:  temperature,
		TopP:         topP,
	})
	if err != nil {
		return nil, fmt.Errorf("extract completion: %w", err)
	}

	var data T
	if err := json.Unmarshal([]byte(completion.Content), &data); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}

	scores := confidence.Evaluate(completion.Fields, completion.Tokens)

	s.logger.Info(
		"data extracted",
		"schema", opts.SchemaName,
		"pages", len(pages),
		"confidence", scores[confidence.OverallKey],
	)

	return confidence.New(&data, scores, opts.ModelTag), nil
}
