package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	// CCITT and LZW scans come out of pdfcpu as TIFF
	_ "golang.org/x/image/tiff"

	"github.com/a3tai/mcp-label-reader/internal/label"
	"github.com/a3tai/mcp-label-reader/internal/pdf"
	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
)

// ImageSource returns a raster of the whole page of a single-page label PDF.
// Regions are percentages of that raster.
type ImageSource interface {
	PageImage(ctx context.Context, page []byte) (pdf.PageImage, error)
}

// Prepared is a cropped, enhanced region ready for an OCR engine
type Prepared struct {
	PNG    []byte
	Offset image.Point
	Scale  float64
}

// Token maps a box reported in the prepared image back to page pixels
func (p Prepared) Token(text string, x, y, w, h float64) label.PositionedToken {
	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}
	return label.PositionedToken{
		Text:   text,
		X:      x/scale + float64(p.Offset.X),
		Y:      y/scale + float64(p.Offset.Y),
		Width:  w / scale,
		Height: h / scale,
	}
}

// Enhancement controls the clean-up applied before recognition
type Enhancement struct {
	Contrast float64
	Sharpen  float64
	// MinWidth upsamples small crops; tesseract reads poorly below ~1000px
	MinWidth int
}

// DefaultEnhancement works for thermal-printer labels scanned at 150-300 dpi
var DefaultEnhancement = Enhancement{Contrast: 30, Sharpen: 1.5, MinWidth: 1200}

// RegionRect converts a percent region into pixel bounds of an image
func RegionRect(bounds image.Rectangle, r label.Region) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	rect := image.Rect(
		bounds.Min.X+int(math.Floor(w*r.Left/100)),
		bounds.Min.Y+int(math.Floor(h*r.Top/100)),
		bounds.Min.X+int(math.Ceil(w*r.Right/100)),
		bounds.Min.Y+int(math.Ceil(h*r.Bottom/100)),
	)
	return rect.Intersect(bounds)
}

// Prepare decodes a page image, crops it to region and applies enh
func Prepare(data []byte, region label.Region, enh Enhancement) (Prepared, error) {
	if !region.Valid() {
		return Prepared{}, pdferrors.New(pdferrors.ErrorTypeOCR, fmt.Sprintf("invalid region %+v", region))
	}
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Prepared{}, pdferrors.Wrap(pdferrors.ErrorTypeImageDecode, "failed to decode page image", err)
	}

	img := image.Image(src)
	offset := image.Point{}
	if !region.IsFull() {
		rect := RegionRect(src.Bounds(), region)
		if rect.Empty() {
			return Prepared{}, pdferrors.New(pdferrors.ErrorTypeOCR, "region outside image bounds")
		}
		img = imaging.Crop(src, rect)
		offset = rect.Min.Sub(src.Bounds().Min)
	}

	scale := 1.0
	if enh.MinWidth > 0 && img.Bounds().Dx() < enh.MinWidth {
		scale = float64(enh.MinWidth) / float64(img.Bounds().Dx())
		img = imaging.Resize(img, enh.MinWidth, 0, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)
	out := imaging.AdjustContrast(gray, enh.Contrast)
	if enh.Sharpen > 0 {
		out = imaging.Sharpen(out, enh.Sharpen)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return Prepared{}, pdferrors.Wrap(pdferrors.ErrorTypeImageDecode, "failed to encode region", err)
	}
	return Prepared{PNG: buf.Bytes(), Offset: offset, Scale: scale}, nil
}
