package pdftext

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// DefaultOCRLanguage covers the Spanish-language statements this project
// handles. Tesseract needs the matching traineddata installed.
const DefaultOCRLanguage = "spa"

// Tesseract is the production Engine, backed by a gosseract client.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract configures a Tesseract engine for the given languages.
// Configuration failures (missing traineddata, broken install) surface as
// ErrOCRUnavailable.
func NewTesseract(languages ...string) (*Tesseract, error) {
	if len(languages) == 0 {
		languages = []string{DefaultOCRLanguage}
	}

	client := gosseract.NewClient()

	if err := client.SetLanguage(languages...); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: setting languages %v: %v", ErrOCRUnavailable, languages, err)
	}

	// Statements are a single uniform block of text per page; PSM 6 keeps
	// Tesseract from trying to find columns that the rasterized table no
	// longer has.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: setting page segmentation mode: %v", ErrOCRUnavailable, err)
	}

	return &Tesseract{client: client}, nil
}

// TesseractFactory returns an EngineFactory for the given languages.
func TesseractFactory(languages ...string) EngineFactory {
	return func() (Engine, error) {
		return NewTesseract(languages...)
	}
}

func (t *Tesseract) Recognize(png []byte) (string, error) {
	if err := t.client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("%w: loading page image: %v", ErrOCRUnavailable, err)
	}

	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: recognizing page: %v", ErrOCRUnavailable, err)
	}

	return text, nil
}

func (t *Tesseract) Close() error {
	return t.client.Close()
}
