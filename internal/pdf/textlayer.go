package pdf

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
)

const (
	// wordGap is the horizontal gap, in multiples of the font size, above which
	// two text runs on a row are separate words.
	wordGap = 0.15
	// columnGap separates table columns; rows keep it as three spaces so
	// column-aware parsers can split on it.
	columnGap = 2.0
)

// TextLayer reads the embedded text of a single-page PDF, row by row
type TextLayer struct {
	maxTextSize int
}

// NewTextLayer creates a text layer reader
func NewTextLayer() *TextLayer {
	return &TextLayer{
		maxTextSize: 1024 * 1024, // 1MB text limit per page
	}
}

// ExtractDigitalText returns the first page's text with one line per row.
// Malformed input is reported as an unreadable AcquisitionError; a page
// without a text layer yields an empty string.
func (t *TextLayer) ExtractDigitalText(ctx context.Context, page []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(page) == 0 {
		return "", pdferrors.New(pdferrors.ErrorTypeInvalidFile, "empty input")
	}

	// ledongthuc/pdf panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = pdferrors.New(pdferrors.ErrorTypeUnreadable, "text layer parser panicked").
				WithContext(fmt.Sprint(r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(page), int64(len(page)))
	if err != nil {
		return "", pdferrors.Wrap(pdferrors.ErrorTypeUnreadable, "failed to open PDF", err)
	}
	if reader.NumPage() < 1 {
		return "", pdferrors.New(pdferrors.ErrorTypeNoPages, "document has no pages")
	}

	p := reader.Page(1)
	if p.V.IsNull() {
		return "", nil
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		// A page whose content stream cannot be decoded still has pixels
		return "", nil
	}

	text = rowsToText(rows)
	if len(text) > t.maxTextSize {
		text = text[:t.maxTextSize]
	}
	return text, nil
}

// rowsToText orders rows top to bottom and runs left to right, inserting a
// space between words and a wider gap between columns.
func rowsToText(rows pdf.Rows) string {
	sorted := make(pdf.Rows, len(rows))
	copy(sorted, rows)
	// PDF user space grows upwards
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })

	var builder strings.Builder
	for _, row := range sorted {
		line := rowText(row.Content)
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	return builder.String()
}

func rowText(content pdf.TextHorizontal) string {
	runs := make([]pdf.Text, len(content))
	copy(runs, content)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var builder strings.Builder
	var lastEnd float64
	for i, run := range runs {
		if i > 0 {
			size := math.Max(run.FontSize, 1)
			gap := run.X - lastEnd
			switch {
			case gap > columnGap*size:
				builder.WriteString("   ")
			case gap > wordGap*size:
				builder.WriteByte(' ')
			}
		}
		builder.WriteString(run.S)
		lastEnd = run.X + run.W
	}
	return builder.String()
}
