package pdftext

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeDoc struct {
	texts   []string
	textErr map[int]error
	pngErr  map[int]error
	closed  bool
}

func (d *fakeDoc) NumPage() int { return len(d.texts) }

func (d *fakeDoc) Text(page int) (string, error) {
	if err := d.textErr[page]; err != nil {
		return "", err
	}

	return d.texts[page], nil
}

func (d *fakeDoc) ImagePNG(page int, dpi float64) ([]byte, error) {
	if err := d.pngErr[page]; err != nil {
		return nil, err
	}

	return []byte("png-page"), nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

func extractorFor(doc *fakeDoc, factory EngineFactory) *Extractor {
	e := NewExtractor(WithEngineFactory(factory))
	e.openDoc = func(string) (document, error) { return doc, nil }

	return e
}

func noEngine(t *testing.T) EngineFactory {
	return func() (Engine, error) {
		t.Fatal("OCR engine acquired for a document with a full text layer")
		return nil, nil
	}
}

func TestExtract_DirectTextOnly(t *testing.T) {
	doc := &fakeDoc{texts: []string{
		"01/03/2024 1001 SUPERMERCADO LA TORRE 125.50 1,200.00",
		"02/03/2024 1002 PAGO PLANILLA 5,000.00 6,200.00",
	}}

	e := extractorFor(doc, noEngine(t))

	res, err := e.Extract("statement.pdf")
	require.NoError(t, err)

	assert.False(t, res.UsedOCR)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, doc.texts[0]+"\n"+doc.texts[1], res.Text)
	assert.True(t, doc.closed)
}

func TestExtract_OCRFallbackForNearEmptyPage(t *testing.T) {
	ctrl := gomock.NewController(t)

	doc := &fakeDoc{texts: []string{
		"01/03/2024 1001 SUPERMERCADO LA TORRE 125.50 1,200.00",
		"   \n  ", // image-only page
	}}

	engine := NewMockEngine(ctrl)
	engine.EXPECT().Recognize([]byte("png-page")).Return("04/03/2024 04/03/2024 RESTAURANTE KACAO Q.450.00", nil).Times(1)
	engine.EXPECT().Close().Return(nil).Times(1)

	e := extractorFor(doc, func() (Engine, error) { return engine, nil })

	res, err := e.Extract("statement.pdf")
	require.NoError(t, err)

	assert.True(t, res.UsedOCR)
	assert.Contains(t, res.Text, "SUPERMERCADO LA TORRE")
	assert.Contains(t, res.Text, "RESTAURANTE KACAO")
	assert.True(t, doc.closed)
}

func TestExtract_ThresholdBoundary(t *testing.T) {
	ample := strings.Repeat("x", MinPageTextChars)
	thin := strings.Repeat("x", MinPageTextChars-1)

	t.Run("at threshold stays direct", func(t *testing.T) {
		doc := &fakeDoc{texts: []string{ample}}
		e := extractorFor(doc, noEngine(t))

		res, err := e.Extract("statement.pdf")
		require.NoError(t, err)
		assert.False(t, res.UsedOCR)
	})

	t.Run("below threshold triggers ocr", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		engine := NewMockEngine(ctrl)
		engine.EXPECT().Recognize(gomock.Any()).Return("recognized", nil)
		engine.EXPECT().Close().Return(nil)

		doc := &fakeDoc{texts: []string{thin}}
		e := extractorFor(doc, func() (Engine, error) { return engine, nil })

		res, err := e.Extract("statement.pdf")
		require.NoError(t, err)
		assert.True(t, res.UsedOCR)
		assert.Equal(t, "recognized", res.Text)
	})
}

func TestExtract_UnreadableFile(t *testing.T) {
	e := NewExtractor(WithEngineFactory(noEngine(t)))
	e.openDoc = func(string) (document, error) { return nil, errors.New("not a pdf") }

	_, err := e.Extract("corrupted.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadablePDF)
}

func TestExtract_ZeroPages(t *testing.T) {
	doc := &fakeDoc{}
	e := extractorFor(doc, noEngine(t))

	_, err := e.Extract("empty.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadablePDF)
	assert.True(t, doc.closed)
}

func TestExtract_EngineUnavailable(t *testing.T) {
	doc := &fakeDoc{texts: []string{"  "}}
	e := extractorFor(doc, func() (Engine, error) {
		return nil, errors.New("tesseract not installed")
	})

	_, err := e.Extract("scan.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOCRUnavailable)
	assert.NotErrorIs(t, err, ErrUnreadablePDF)
	assert.True(t, doc.closed)
}

func TestExtract_RecognizeFailureClosesEngine(t *testing.T) {
	ctrl := gomock.NewController(t)

	engine := NewMockEngine(ctrl)
	engine.EXPECT().Recognize(gomock.Any()).Return("", errors.New("tessdata missing"))
	engine.EXPECT().Close().Return(nil).Times(1)

	doc := &fakeDoc{texts: []string{""}}
	e := extractorFor(doc, func() (Engine, error) { return engine, nil })

	_, err := e.Extract("scan.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOCRUnavailable)
	assert.True(t, doc.closed)
}

func TestExtract_RasterizeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	engine := NewMockEngine(ctrl)
	engine.EXPECT().Close().Return(nil).Times(1)

	doc := &fakeDoc{
		texts:  []string{""},
		pngErr: map[int]error{0: errors.New("render failed")},
	}

	e := extractorFor(doc, func() (Engine, error) { return engine, nil })

	_, err := e.Extract("scan.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadablePDF)
	assert.True(t, doc.closed)
}
