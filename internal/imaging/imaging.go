// Package imaging converts document bytes into ordered page images
// suitable for vision-model input.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	dcconfig "github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// Page is one rendered document page. Number is 1-indexed and matches the
// page's position in the source document.
type Page struct {
	Number int
	PNG    []byte
}

// Range is an inclusive, 1-indexed page range.
type Range struct {
	Start int
	End   int
}

// Contains reports whether the 1-indexed page number falls in the range.
func (r *Range) Contains(page int) bool {
	return page >= r.Start && page <= r.End
}

// System renders documents to page images.
type System interface {
	// ToPageImages renders the document's pages to PNG in document order.
	// A non-nil pages range restricts rendering to that inclusive,
	// 1-indexed subset. Returns ErrUnsupportedFormat if the bytes are not
	// a readable PDF; that condition is terminal for the document.
	ToPageImages(ctx context.Context, doc []byte, pages *Range) ([]Page, error)
}

type imager struct {
	logger *slog.Logger
}

// New creates an imaging system.
func New(logger *slog.Logger) System {
	return &imager{logger: logger.With("system", "imaging")}
}

func (m *imager) ToPageImages(ctx context.Context, doc []byte, pages *Range) ([]Page, error) {
	count, err := api.PageCount(bytes.NewReader(doc), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrUnsupportedFormat)
	}

	tempDir, err := os.MkdirTemp("", "docpipe-render-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(pdfPath, doc, 0600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	rendered, err := renderPages(ctx, pdfPath, pages)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("document rendered", "pages", len(rendered), "total", count)
	return rendered, nil
}

func renderPages(ctx context.Context, pdfPath string, pages *Range) ([]Page, error) {
	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %w", ErrUnsupportedFormat, err)
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(dcconfig.DefaultImageConfig())
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	allPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("%w: extract pages: %w", ErrUnsupportedFormat, err)
	}

	selected := make([]Page, 0, len(allPages))
	for i := range allPages {
		number := i + 1
		if pages != nil && !pages.Contains(number) {
			continue
		}
		selected = append(selected, Page{Number: number})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(selected)))

	for i := range selected {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := allPages[selected[i].Number-1].ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", selected[i].Number, err)
			}

			selected[i].PNG = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return selected, nil
}

// DataURI encodes a rendered page as a base64 PNG data URI for inclusion
// in multimodal model content.
func DataURI(p Page) (string, error) {
	uri, err := encoding.EncodeImageDataURI(p.PNG, document.PNG)
	if err != nil {
		return "", fmt.Errorf("encode page %d: %w", p.Number, err)
	}
	return uri, nil
}

func workerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
