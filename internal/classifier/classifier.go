// Package classifier partitions a document's pages into labeled,
// page-ranged segments using a vision model constrained to a
// classification taxonomy.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/banerRana/docpipe/internal/documents"
	"github.com/banerRana/docpipe/internal/genai"
	"github.com/banerRana/docpipe/internal/imaging"
	"github.com/banerRana/docpipe/pkg/confidence"
)

// ModelTag is the payload type tag recorded on serialized classification
// confidence results.
const ModelTag = "Classifications"

// Generation parameters are fixed low-temperature values: classification
// is literal extraction, not creative generation, and reproducibility
// matters more than variety.
const (
	maxTokens   = 4096
	temperature = 0.1
	topP        = 0.1
)

const systemPromptFormat = `You are an AI assistant that helps detect the boundaries of sub-section or sub-documents using the provided classifications.

- A single classification may span multiple page images.
- A single page image may contain multiple classifications.
- If a page image does not contain a classification, ignore it.

## Classifications
%s
`

// System classifies documents against a caller-supplied taxonomy.
type System interface {
	// Classify renders the document's pages and asks the model to
	// partition them into labeled segments. Service and schema failures
	// surface as errors; callers decide whether to retry or record and
	// continue.
	Classify(ctx context.Context, doc []byte, defs documents.ClassificationDefinitions) (*confidence.Result[documents.Classifications], error)
}

type service struct {
	client genai.Client
	imager imaging.System
	logger *slog.Logger
}

// New creates a classifier service.
func New(client genai.Client, imager imaging.System, logger *slog.Logger) System {
	return &service{
		client: client,
		imager: imager,
		logger: logger.With("system", "classifier"),
	}
}

func (s *service) Classify(ctx context.Context, doc []byte, defs documents.ClassificationDefinitions) (*confidence.Result[documents.Classifications], error) {
	pages, err := s.imager.ToPageImages(ctx, doc, nil)
	if err != nil {
		return nil, fmt.Errorf("render pages: %w", err)
	}

	content, err := PageContent(pages)
	if err != nil {
		return nil, err
	}

	taxonomy, err := json.Marshal(defs)
	if err != nil {
		return nil, fmt.Errorf("marshal classification definitions: %w", err)
	}

	completion, err := s.client.Complete(ctx, genai.Request{
		SystemPrompt: fmt.Sprintf(systemPromptFormat, taxonomy),
		UserContent:  content,
		SchemaName:   "classifications",
		Schema:       Schema(),
		MaxTokens:    maxTokens,
		Temperature:  temperature,
		TopP:         topP,
	})
	if err != nil {
		return nil, fmt.Errorf("classify completion: %w", err)
	}

	var data documents.Classifications
	if err := json.Unmarshal([]byte(completion.Content), &data); err != nil {
		return nil, fmt.Errorf("decode classifications: %w", err)
	}

	scores := confidence.Evaluate(completion.Fields, completion.Tokens)

	s.logger.Info(
		"document classified",
		"pages", len(pages),
		"segments", len(data.PageClassifications),
		"confidence", scores[confidence.OverallKey],
	)

	return confidence.New(&data, scores, ModelTag), nil
}

// PageContent interleaves "Page N:" labels with the corresponding page
// images, in document order, as multimodal message content.
func PageContent(pages []imaging.Page) ([]genai.Content, error) {
	content := make([]genai.Content, 0, len(pages)*2)
	for _, page := range pages {
		uri, err := imaging.DataURI(page)
		if err != nil {
			return nil, err
		}
		content = append(content,
			genai.TextContent(fmt.Sprintf("Page %d:", page.Number)),
			genai.ImageContent(uri),
		)
	}
	return content, nil
}

// Schema returns the JSON-Schema constraining classification output.
func Schema() map[string]any {
	segment := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"classification":    map[string]any{"type": []string{"string", "null"}},
			"image_range_start": map[string]any{"type": []string{"integer", "null"}, "minimum": 1},
			"image_range_end":   map[string]any{"type": []string{"integer", "null"}, "minimum": 1},
		},
		"required": []string{"classification", "image_range_start", "image_range_end"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"page_classifications": map[string]any{"type": "array", "items": segment},
		},
		"required": []string{"page_classifications"},
	}
}
