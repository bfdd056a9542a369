package label

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
)

type fakeDigital struct {
	text string
	err  error
}

func (f fakeDigital) ExtractDigitalText(context.Context, []byte) (string, error) {
	return f.text, f.err
}

var errUnreadable = pdferrors.Wrap(pdferrors.ErrorTypeUnreadable, "failed to open PDF", errors.New("malformed xref"))

// fakeOCR answers per region and counts calls
type fakeOCR struct {
	results map[Region]OCRResult
	err     error
	calls   []Region
}

func (f *fakeOCR) RunOCR(_ context.Context, _ []byte, region Region) (OCRResult, error) {
	f.calls = append(f.calls, region)
	if f.err != nil {
		return OCRResult{}, f.err
	}
	return f.results[region], nil
}

func TestReconstructLines(t *testing.T) {
	tokens := []PositionedToken{
		{Text: "Second", X: 5, Y: 30},
		{Text: "World", X: 50, Y: 10.5},
		{Text: "Hello", X: 10, Y: 10},
		{Text: "   ", X: 70, Y: 10},
		{Text: "line", X: 40, Y: 33},
	}

	lines := ReconstructLines(tokens, LineTolerance)
	assert.Equal(t, []string{"Hello World", "Second line"}, lines)
}

func TestReconstructLinesEmpty(t *testing.T) {
	assert.Nil(t, ReconstructLines(nil, LineTolerance))
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("  Ship To: Rahul \r\n\n   \nDelhivery\n")
	assert.Equal(t, []string{"Ship To: Rahul", "Delhivery"}, lines)
}

func TestOCRLinesFallsBackToText(t *testing.T) {
	lines := OCRLines(OCRResult{Text: "Valmo\nAWB 123456789"})
	assert.Equal(t, []string{"Valmo", "AWB 123456789"}, lines)
}

func TestFallbackLineSource(t *testing.T) {
	longText := "Ordered From: Shopperskart\nShip To: Rahul Sharma\nDelhivery 15123456789012"
	require.GreaterOrEqual(t, len(longText), MinDigitalTextLength)

	ocrResult := OCRResult{Tokens: []PositionedToken{
		{Text: "Valmo", X: 1, Y: 1},
		{Text: "Meena", X: 1, Y: 20},
		{Text: "Devi", X: 30, Y: 21},
	}}

	t.Run("digital text long enough", func(t *testing.T) {
		ocr := &fakeOCR{results: map[Region]OCRResult{FullPage: ocrResult}}
		src := FallbackLineSource{Digital: fakeDigital{text: longText}, OCR: ocr}

		lines, err := src.Lines(context.Background(), []byte("page"))
		require.NoError(t, err)
		assert.Equal(t, strings.Split(longText, "\n"), lines)
		assert.Empty(t, ocr.calls)
	})

	t.Run("short text triggers full page ocr", func(t *testing.T) {
		ocr := &fakeOCR{results: map[Region]OCRResult{FullPage: ocrResult}}
		src := FallbackLineSource{Digital: fakeDigital{text: "Valmo"}, OCR: ocr}

		lines, err := src.Lines(context.Background(), []byte("page"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Valmo", "Meena Devi"}, lines)
		assert.Equal(t, []Region{FullPage}, ocr.calls)
	})

	t.Run("ocr failure degrades to digital text", func(t *testing.T) {
		ocr := &fakeOCR{err: errors.New("engine crashed")}
		src := FallbackLineSource{Digital: fakeDigital{text: "Valmo"}, OCR: ocr}

		lines, err := src.Lines(context.Background(), []byte("page"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Valmo"}, lines)
	})

	t.Run("unreadable input is reported", func(t *testing.T) {
		ocr := &fakeOCR{}
		src := FallbackLineSource{Digital: fakeDigital{err: errUnreadable}, OCR: ocr}

		_, err := src.Lines(context.Background(), []byte("junk"))
		assert.ErrorIs(t, err, errUnreadable)
		assert.Equal(t, []Region{FullPage}, ocr.calls)
	})

	t.Run("unreadable text layer recovered by ocr", func(t *testing.T) {
		ocr := &fakeOCR{results: map[Region]OCRResult{FullPage: {Text: "Delhivery\nShip To: Meena Devi\nAWB: 15123456789012"}}}
		src := FallbackLineSource{Digital: fakeDigital{err: errUnreadable}, OCR: ocr}

		lines, err := src.Lines(context.Background(), []byte("page"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Delhivery", "Ship To: Meena Devi", "AWB: 15123456789012"}, lines)
	})

	t.Run("unreadable text layer and failing ocr", func(t *testing.T) {
		src := FallbackLineSource{Digital: fakeDigital{err: errUnreadable}, OCR: &fakeOCR{err: errors.New("engine crashed")}}

		_, err := src.Lines(context.Background(), []byte("page"))
		assert.ErrorIs(t, err, errUnreadable)
	})

	t.Run("unreadable text layer without ocr", func(t *testing.T) {
		src := FallbackLineSource{Digital: fakeDigital{err: errUnreadable}}

		_, err := src.Lines(context.Background(), []byte("page"))
		assert.ErrorIs(t, err, errUnreadable)
	})

	t.Run("cancellation skips ocr", func(t *testing.T) {
		ocr := &fakeOCR{}
		src := FallbackLineSource{Digital: fakeDigital{err: context.Canceled}, OCR: ocr}

		_, err := src.Lines(context.Background(), []byte("page"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, ocr.calls)
	})

	t.Run("no ocr provider", func(t *testing.T) {
		src := FallbackLineSource{Digital: fakeDigital{text: "Valmo"}}

		lines, err := src.Lines(context.Background(), []byte("page"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Valmo"}, lines)
	})
}

func TestOCRLineSource(t *testing.T) {
	ocr := &fakeOCR{results: map[Region]OCRResult{FullPage: {Text: "Ekart\nShip To: Anil"}}}

	lines, err := OCRLineSource{Provider: ocr}.Lines(context.Background(), []byte("page"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ekart", "Ship To: Anil"}, lines)
}
