package pdftext

//go:generate mockgen -source=ocr.go -destination=ocr_mock.go -package=pdftext

// Engine recognizes text in a rendered page image.
//
// Engine handles are not safe for concurrent use; Extract acquires a fresh
// one per call through an EngineFactory and closes it before returning.
type Engine interface {
	// Recognize returns the text found in a PNG-encoded page image.
	Recognize(png []byte) (string, error)
	Close() error
}

// EngineFactory produces an Engine for the duration of one extraction.
type EngineFactory func() (Engine, error)
