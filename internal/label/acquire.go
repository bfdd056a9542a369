package label

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
)

const (
	// MinDigitalTextLength is the shortest text layer still trusted; below it the
	// page is treated as image-only.
	MinDigitalTextLength = 50

	// LineTolerance is the vertical distance within which tokens share a line
	LineTolerance = 5.0
)

// ReconstructLines groups positioned tokens into reading-order lines: tokens
// whose Y lies within tolerance of a bucket's first token join that bucket,
// buckets are ordered top to bottom and tokens left to right.
func ReconstructLines(tokens []PositionedToken, tolerance float64) []string {
	if len(tokens) == 0 {
		return nil
	}
	sorted := make([]PositionedToken, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	type bucket struct {
		y      float64
		tokens []PositionedToken
	}
	var buckets []*bucket
	for _, tok := range sorted {
		if strings.TrimSpace(tok.Text) == "" {
			continue
		}
		var target *bucket
		for _, b := range buckets {
			if abs(tok.Y-b.y) <= tolerance {
				target = b
				break
			}
		}
		if target == nil {
			target = &bucket{y: tok.Y}
			buckets = append(buckets, target)
		}
		target.tokens = append(target.tokens, tok)
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].y < buckets[j].y })

	lines := make([]string, 0, len(buckets))
	for _, b := range buckets {
		sort.SliceStable(b.tokens, func(i, j int) bool { return b.tokens[i].X < b.tokens[j].X })
		words := make([]string, 0, len(b.tokens))
		for _, t := range b.tokens {
			words = append(words, strings.TrimSpace(t.Text))
		}
		if line := NormalizeLine(strings.Join(words, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// SplitLines turns a text blob into trimmed, non-empty lines
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = NormalizeLine(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// OCRLines converts an OCR result into lines, preferring token positions
func OCRLines(res OCRResult) []string {
	if len(res.Tokens) > 0 {
		return ReconstructLines(res.Tokens, LineTolerance)
	}
	return SplitLines(res.Text)
}

// DigitalLineSource reads lines from the embedded text layer
type DigitalLineSource struct {
	Extractor DigitalTextExtractor
}

// Lines implements LineSource
func (s DigitalLineSource) Lines(ctx context.Context, page []byte) ([]string, error) {
	text, err := s.Extractor.ExtractDigitalText(ctx, page)
	if err != nil {
		return nil, err
	}
	return SplitLines(text), nil
}

// OCRLineSource recognizes the full page and rebuilds lines from token positions
type OCRLineSource struct {
	Provider OCRProvider
}

// Lines implements LineSource
func (s OCRLineSource) Lines(ctx context.Context, page []byte) ([]string, error) {
	res, err := s.Provider.RunOCR(ctx, page, FullPage)
	if err != nil {
		return nil, err
	}
	return OCRLines(res), nil
}

// FallbackLineSource prefers the text layer and switches to OCR when the
// layer is too short to be a real label or cannot be parsed at all. OCR
// failures degrade to whatever the text layer produced.
type FallbackLineSource struct {
	Digital DigitalTextExtractor
	OCR     OCRProvider
	Logger  *slog.Logger
}

// Lines implements LineSource. An unreadable text layer is retried through
// OCR; its error is only returned when OCR cannot recover any lines.
func (s FallbackLineSource) Lines(ctx context.Context, page []byte) ([]string, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var text string
	var digitalErr error
	if s.Digital != nil {
		text, digitalErr = s.Digital.ExtractDigitalText(ctx, page)
		if digitalErr != nil && !pdferrors.IsUnreadable(digitalErr) {
			return nil, digitalErr
		}
	}
	if digitalErr == nil && (len(strings.TrimSpace(text)) >= MinDigitalTextLength || s.OCR == nil) {
		return SplitLines(text), nil
	}
	if s.OCR == nil {
		return nil, digitalErr
	}

	if digitalErr != nil {
		logger.Warn("text layer unreadable, running ocr",
			"error_type", pdferrors.TypeOf(digitalErr), "error", digitalErr)
	} else {
		logger.Debug("text layer too short, running ocr", "chars", len(strings.TrimSpace(text)))
	}
	res, err := s.OCR.RunOCR(ctx, page, FullPage)
	if err != nil {
		logger.Warn("full page ocr failed", "recoverable", pdferrors.IsRecoverable(err), "error", err)
		if digitalErr != nil {
			return nil, digitalErr
		}
		return SplitLines(text), nil
	}
	lines := OCRLines(res)
	if len(lines) == 0 && digitalErr != nil {
		return nil, digitalErr
	}
	return lines, nil
}
