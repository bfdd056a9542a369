package ocr

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-label-reader/internal/label"
)

// Provider names accepted by New
const (
	ProviderTesseract = "tesseract"
	ProviderAzure     = "azure"
	ProviderNone      = "none"
)

// Options selects and configures an OCR provider
type Options struct {
	Provider      string
	TesseractLang string
	AzureEndpoint string
	AzureKey      string
}

// New builds the configured provider. It returns nil, nil for ProviderNone so
// the engine runs on the text layer only.
func New(opts Options, images ImageSource) (label.OCRProvider, error) {
	switch strings.ToLower(opts.Provider) {
	case ProviderNone, "":
		return nil, nil
	case ProviderTesseract:
		var langs []string
		for _, l := range strings.Split(opts.TesseractLang, "+") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		return NewTesseract(images, langs...), nil
	case ProviderAzure:
		if opts.AzureEndpoint == "" || opts.AzureKey == "" {
			return nil, fmt.Errorf("azure ocr requires endpoint and key")
		}
		return NewAzure(images, opts.AzureEndpoint, opts.AzureKey), nil
	default:
		return nil, fmt.Errorf("unknown ocr provider: %s", opts.Provider)
	}
}
