package label

import (
	"context"
	"strings"
)

// ProductLine is one purchased item printed on a label
type ProductLine struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// LabelRecord is the structured result of one extraction pass over a label page.
// String fields are empty, never missing, when a resolver found nothing.
type LabelRecord struct {
	BrandName    string        `json:"brand_name"`
	CourierName  string        `json:"courier_name"`
	Products     []ProductLine `json:"products"`
	OrderNumber  string        `json:"order_number"`
	CustomerName string        `json:"customer_name"`
}

// EmptyRecord returns a record with every field unresolved
func EmptyRecord() LabelRecord {
	return LabelRecord{Products: []ProductLine{}}
}

// IsEmpty reports whether nothing at all was resolved. Callers treat an empty
// record as a soft failure that needs human review.
func (r LabelRecord) IsEmpty() bool {
	return r.BrandName == "" && r.CourierName == "" && len(r.Products) == 0 &&
		r.OrderNumber == "" && r.CustomerName == ""
}

// Region is a rectangle on the page expressed in percent (0-100) of the page size
type Region struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Regions used by the OCR passes
var (
	FullPage       = Region{Left: 0, Top: 0, Right: 100, Bottom: 100}
	LogoRegion     = Region{Left: 0, Top: 0, Right: 100, Bottom: 18}
	CourierRegion  = Region{Left: 0, Top: 0, Right: 100, Bottom: 30}
	ProductsRegion = Region{Left: 0, Top: 35, Right: 100, Bottom: 85}
)

// IsFull reports whether the region covers the whole page
func (r Region) IsFull() bool {
	return r.Left <= 0 && r.Top <= 0 && r.Right >= 100 && r.Bottom >= 100
}

// Valid reports whether the region describes a non-empty rectangle inside the page
func (r Region) Valid() bool {
	return r.Left >= 0 && r.Top >= 0 && r.Right <= 100 && r.Bottom <= 100 &&
		r.Left < r.Right && r.Top < r.Bottom
}

// PositionedToken is one recognized word with its bounding box
type PositionedToken struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// OCRResult holds the plain text of an OCR pass and, when the provider
// supports it, the per-word boxes used for line reconstruction.
type OCRResult struct {
	Text   string            `json:"text"`
	Tokens []PositionedToken `json:"tokens,omitempty"`
}

// DigitalTextExtractor reads the embedded text layer of a single-page PDF
type DigitalTextExtractor interface {
	ExtractDigitalText(ctx context.Context, page []byte) (string, error)
}

// OCRProvider recognizes text inside a region of a single-page PDF
type OCRProvider interface {
	RunOCR(ctx context.Context, page []byte, region Region) (OCRResult, error)
}

// LineSource turns one page into ordered, trimmed, non-empty lines
type LineSource interface {
	Lines(ctx context.Context, page []byte) ([]string, error)
}

// Document is the read-only view resolvers work on
type Document struct {
	Lines []string
	Text  string
	lower string
}

// NewDocument builds a document from acquired lines, dropping blanks
func NewDocument(lines []string) *Document {
	clean := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			clean = append(clean, l)
		}
	}
	text := strings.Join(clean, "\n")
	return &Document{Lines: clean, Text: text, lower: strings.ToLower(text)}
}

// Lower returns the lowercased full text
func (d *Document) Lower() string {
	return d.lower
}

// IsGarbage reports whether no line is long enough to carry a field
func (d *Document) IsGarbage() bool {
	for _, l := range d.Lines {
		if len([]rune(l)) >= minUsefulLineLength {
			return false
		}
	}
	return true
}

const minUsefulLineLength = 4
