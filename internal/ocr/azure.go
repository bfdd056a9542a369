package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"

	"github.com/a3tai/mcp-label-reader/internal/label"
	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
)

// printedTextRecognizer is the part of the computer vision client we use
type printedTextRecognizer interface {
	RecognizePrintedTextInStream(ctx context.Context, detectOrientation bool, image io.ReadCloser, language computervision.OcrLanguages) (computervision.OcrResult, error)
}

// Azure sends regions to the Azure Computer Vision OCR endpoint
type Azure struct {
	images      ImageSource
	client      printedTextRecognizer
	enhancement Enhancement
}

// NewAzure creates an Azure provider for endpoint authenticated with key
func NewAzure(images ImageSource, endpoint, key string) *Azure {
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(key)
	return &Azure{
		images: images,
		client: client,
		// the service does its own binarisation
		enhancement: Enhancement{Contrast: 20, Sharpen: 1.0},
	}
}

// Name identifies the provider in error context
func (a *Azure) Name() string { return "azure" }

// RunOCR implements label.OCRProvider
func (a *Azure) RunOCR(ctx context.Context, page []byte, region label.Region) (label.OCRResult, error) {
	prepared, err := prepareRegion(ctx, a.images, page, region, a.enhancement)
	if err != nil {
		return label.OCRResult{}, fmt.Errorf("%s: %w", a.Name(), err)
	}

	result, err := a.client.RecognizePrintedTextInStream(ctx, true,
		io.NopCloser(bytes.NewReader(prepared.PNG)), computervision.En)
	if err != nil {
		return label.OCRResult{}, pdferrors.Wrap(pdferrors.ErrorTypeOCR, "failed to extract text", err).WithContext(a.Name())
	}
	return convertResult(result, prepared), nil
}

// convertResult flattens regions into word tokens and newline separated text
func convertResult(result computervision.OcrResult, prepared Prepared) label.OCRResult {
	var out label.OCRResult
	if result.Regions == nil {
		return out
	}

	var lines []string
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			var words []string
			for _, word := range *line.Words {
				if word.Text == nil || strings.TrimSpace(*word.Text) == "" {
					continue
				}
				text := strings.TrimSpace(*word.Text)
				words = append(words, text)
				if word.BoundingBox == nil {
					continue
				}
				box, err := parseBoundingBox(*word.BoundingBox)
				if err != nil {
					continue
				}
				out.Tokens = append(out.Tokens, prepared.Token(text, box[0], box[1], box[2], box[3]))
			}
			if len(words) > 0 {
				lines = append(lines, strings.Join(words, " "))
			}
		}
	}
	out.Text = strings.Join(lines, "\n")
	return out
}

// parseBoundingBox parses the service's "left,top,width,height" form
func parseBoundingBox(s string) ([4]float64, error) {
	var box [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return box, fmt.Errorf("bounding box %q: want 4 values, got %d", s, len(parts))
	}
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return box, fmt.Errorf("bounding box %q: %w", s, err)
		}
		box[i] = float64(v)
	}
	return box, nil
}
