package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/a3tai/mcp-label-reader/internal/label"
	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
)

// Tesseract runs the local tesseract engine through gosseract. A fresh client
// is created per call because gosseract clients are not goroutine safe.
type Tesseract struct {
	images        ImageSource
	languages     []string
	enhancement   Enhancement
	clientFactory func() *gosseract.Client
}

// NewTesseract creates a tesseract backed provider
func NewTesseract(images ImageSource, languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{
		images:        images,
		languages:     languages,
		enhancement:   DefaultEnhancement,
		clientFactory: gosseract.NewClient,
	}
}

// Name identifies the provider in error context
func (t *Tesseract) Name() string { return "tesseract" }

// RunOCR implements label.OCRProvider
func (t *Tesseract) RunOCR(ctx context.Context, page []byte, region label.Region) (label.OCRResult, error) {
	prepared, err := prepareRegion(ctx, t.images, page, region, t.enhancement)
	if err != nil {
		return label.OCRResult{}, fmt.Errorf("%s: %w", t.Name(), err)
	}

	c := t.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(t.languages...); err != nil {
		return label.OCRResult{}, pdferrors.Wrap(pdferrors.ErrorTypeOCR, "set languages", err).WithContext(t.Name())
	}
	// Labels are sparse blocks of text rather than paragraphs
	if err := c.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return label.OCRResult{}, pdferrors.Wrap(pdferrors.ErrorTypeOCR, "set page segmentation", err).WithContext(t.Name())
	}
	if err := c.SetImageFromBytes(prepared.PNG); err != nil {
		return label.OCRResult{}, pdferrors.Wrap(pdferrors.ErrorTypeOCR, "set image", err).WithContext(t.Name())
	}
	if err := ctx.Err(); err != nil {
		return label.OCRResult{}, err
	}

	text, err := c.Text()
	if err != nil {
		return label.OCRResult{}, pdferrors.Wrap(pdferrors.ErrorTypeOCR, "recognize text", err).WithContext(t.Name())
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// The plain text is still usable without positions
		return label.OCRResult{Text: strings.TrimSpace(text)}, nil
	}
	tokens := make([]label.PositionedToken, 0, len(boxes))
	for _, b := range boxes {
		word := strings.TrimSpace(b.Word)
		if word == "" {
			continue
		}
		tokens = append(tokens, prepared.Token(word,
			float64(b.Box.Min.X), float64(b.Box.Min.Y),
			float64(b.Box.Dx()), float64(b.Box.Dy())))
	}
	return label.OCRResult{Text: strings.TrimSpace(text), Tokens: tokens}, nil
}

// prepareRegion pulls the page raster and crops it to region
func prepareRegion(ctx context.Context, images ImageSource, page []byte, region label.Region, enh Enhancement) (Prepared, error) {
	if images == nil {
		return Prepared{}, fmt.Errorf("no image source configured")
	}
	img, err := images.PageImage(ctx, page)
	if err != nil {
		return Prepared{}, fmt.Errorf("page image: %w", err)
	}
	return Prepare(img.Data, region, enh)
}
