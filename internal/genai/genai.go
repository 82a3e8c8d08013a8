// Package genai calls an OpenAI-compatible chat completions endpoint with
// multimodal content, a structured output schema, and token
// log-probabilities enabled. The log-probability trace is what downstream
// confidence scoring consumes; any provider that speaks the chat
// completions wire format (OpenAI, Azure OpenAI) works.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/banerRana/docpipe/pkg/confidence"
)

// ImageURL references an image by URL or data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// Content is one part of a multimodal user message: either text or an
// image reference, matching the chat completions content part format.
type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// TextContent builds a text content part.
func TextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// ImageContent builds an image content part from a URL or data URI.
func ImageContent(url string) Content {
	return Content{Type: "image_url", ImageURL: &ImageURL{URL: url}}
}

// Request describes one structured completion call.
type Request struct {
	SystemPrompt string
	UserContent  []Content
	SchemaName   string
	Schema       map[string]any
	MaxTokens    int
	Temperature  float64
	TopP         float64
}

// Completion holds the parsed result of a structured completion call:
// the raw JSON content, its decoded form, and the token-level
// log-probability trace in emission order.
type Completion struct {
	Content string
	Fields  any
	Tokens  []confidence.Token
}

// Client issues structured completion calls against a generative model.
type Client interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

type client struct {
	cfg    *Config
	http   *http.Client
	logger *slog.Logger
}

// New creates a chat completions client from the given configuration.
func New(cfg *Config, logger *slog.Logger) Client {
	return &client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.TimeoutDuration()},
		logger: logger.With("system", "genai"),
	}
}

func (c *client) Complete(ctx context.Context, req Request) (*Completion, error) {
	body := map[string]any{
		"model":       c.cfg.Model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"top_p":       req.TopP,
		"logprobs":    true,
		"messages": []map[string]any{
			{"role": "system", "content": req.SystemPrompt},
			{"role": "user", "content": req.UserContent},
		},
	}

	if req.Schema != nil {
		body["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   req.SchemaName,
				"strict": true,
				"schema": req.Schema,
			},
		}
	}

	start := time.Now()
	raw, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}

	completion, err := decodeCompletion(raw)
	if err != nil {
		return nil, err
	}

	if req.Schema != nil {
		if err := ValidateSchema(req.Schema, completion.Fields); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchema, err)
		}
	}

	c.logger.Info(
		"completion ok",
		"model", c.cfg.Model,
		"tokens", len(completion.Tokens),
		"elapsed", time.Since(start),
	)

	return completion, nil
}

func (c *client) post(ctx context.Context, body map[string]any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrService, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrService, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrService, resp.StatusCode, raw)
	}

	return raw, nil
}

// decodeCompletion parses a chat completions response body into the
// structured content, its decoded fields, and the logprob trace.
func decodeCompletion(raw []byte) (*Completion, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			LogProbs struct {
				Content []confidence.Token `json:"content"`
			} `json:"logprobs"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrService, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrService)
	}

	choice := resp.Choices[0]
	content := stripFence(choice.Message.Content)

	var fields any
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, fmt.Errorf("%w: content is not valid JSON: %w", ErrSchema, err)
	}

	return &Completion{
		Content: content,
		Fields:  fields,
		Tokens:  choice.LogProbs.Content,
	}, nil
}
