// Package pdftext turns a statement PDF into plain text, falling back to OCR
// for pages without a usable text layer.
package pdftext

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gen2brain/go-fitz"
)

// MinPageTextChars is the OCR trigger threshold: a page whose direct text
// layer has fewer non-whitespace characters than this is treated as
// image-only and rasterized for OCR. The heuristic is approximate — a
// mostly-blank cover page may trigger an unnecessary OCR pass, which costs
// time but not correctness.
const MinPageTextChars = 20

// DefaultRasterDPI is the resolution pages are rendered at for OCR.
const DefaultRasterDPI = 300

// Result is the extracted text of a whole document.
type Result struct {
	// Text is all page texts joined in page order, line breaks preserved.
	Text string

	// Pages is the page count of the document.
	Pages int

	// UsedOCR reports whether any page needed the OCR fallback. Callers use
	// it for diagnostics and confidence reporting; it does not change parsing.
	UsedOCR bool
}

// document is the slice of go-fitz the extractor needs; *fitz.Document
// satisfies it, and tests substitute page fixtures.
type document interface {
	NumPage() int
	Text(page int) (string, error)
	ImagePNG(page int, dpi float64) ([]byte, error)
	Close() error
}

// Extractor extracts the best-available text from PDFs. An Extractor is
// reusable and safe for concurrent use: every Extract call opens its own
// document handle and OCR engine and releases both on all exit paths.
type Extractor struct {
	newEngine EngineFactory
	openDoc   func(path string) (document, error)
	minChars  int
	dpi       float64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithEngineFactory replaces the default Tesseract factory.
func WithEngineFactory(f EngineFactory) Option {
	return func(e *Extractor) { e.newEngine = f }
}

// WithMinPageText overrides the MinPageTextChars threshold.
func WithMinPageText(chars int) Option {
	return func(e *Extractor) { e.minChars = chars }
}

// WithRasterDPI overrides the OCR rendering resolution.
func WithRasterDPI(dpi float64) Option {
	return func(e *Extractor) { e.dpi = dpi }
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		newEngine: TesseractFactory(),
		openDoc:   openFitz,
		minChars:  MinPageTextChars,
		dpi:       DefaultRasterDPI,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func openFitz(path string) (document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Extract produces the text of the PDF at path.
//
// Extraction is all-or-nothing per file: any page-level failure aborts the
// whole call with no partial result. No retries happen here — re-running OCR
// on the same input cannot change the outcome.
func (e *Extractor) Extract(path string) (*Result, error) {
	doc, err := e.openDoc(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrUnreadablePDF, path, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", ErrUnreadablePDF, path)
	}

	var engine Engine
	defer func() {
		if engine != nil {
			_ = engine.Close()
		}
	}()

	texts := make([]string, 0, pages)
	usedOCR := false

	for i := 0; i < pages; i++ {
		text, err := doc.Text(i)
		if err == nil && nonSpaceCount(text) >= e.minChars {
			texts = append(texts, text)
			continue
		}

		// Image-only (or unreadable-text-layer) page: rasterize and recognize.
		if engine == nil {
			engine, err = e.newEngine()
			if err != nil {
				return nil, ocrErr(err)
			}
		}

		png, err := doc.ImagePNG(i, e.dpi)
		if err != nil {
			return nil, fmt.Errorf("%w: rasterizing page %d: %v", ErrUnreadablePDF, i+1, err)
		}

		text, err = engine.Recognize(png)
		if err != nil {
			return nil, ocrErr(err)
		}

		texts = append(texts, text)
		usedOCR = true
	}

	return &Result{
		Text:    strings.Join(texts, "\n"),
		Pages:   pages,
		UsedOCR: usedOCR,
	}, nil
}

func nonSpaceCount(s string) int {
	n := 0

	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}

	return n
}

// ocrErr keeps already-classified OCR errors intact and classifies the rest.
func ocrErr(err error) error {
	if errors.Is(err, ErrOCRUnavailable) {
		return err
	}

	return fmt.Errorf("%w: %v", ErrOCRUnavailable, err)
}
