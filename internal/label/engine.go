package label

import (
	"context"
	"log/slog"
	"strings"

	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
)

// Engine sequences the resolvers over one label page. It holds no state
// between calls and is safe for concurrent use when its collaborators are.
type Engine struct {
	source LineSource
	ocr    OCRProvider
	logger *slog.Logger
}

// NewEngine creates an engine. ocr may be nil, in which case the logo and
// region projection passes are skipped.
func NewEngine(source LineSource, ocr OCRProvider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, ocr: ocr, logger: logger}
}

// Extract acquires the page's lines and resolves a record. It never fails:
// unreadable input produces an all-empty record.
func (e *Engine) Extract(ctx context.Context, page []byte) LabelRecord {
	if e.source == nil {
		return EmptyRecord()
	}
	lines, err := e.source.Lines(ctx, page)
	if err != nil {
		e.logger.Warn("text acquisition failed",
			"error_type", pdferrors.TypeOf(err), "unreadable", pdferrors.IsUnreadable(err), "error", err)
		return EmptyRecord()
	}
	return e.extract(ctx, page, lines)
}

// ExtractLines resolves a record from lines that were already acquired.
// OCR-dependent passes do not run because there is no page to look at.
func (e *Engine) ExtractLines(ctx context.Context, lines []string) LabelRecord {
	return e.extract(ctx, nil, lines)
}

func (e *Engine) extract(ctx context.Context, page []byte, lines []string) LabelRecord {
	rec := EmptyRecord()
	doc := NewDocument(lines)
	if doc.IsGarbage() {
		e.logger.Debug("no usable lines on page", "lines", len(doc.Lines))
		return rec
	}

	pass := &ocrPass{provider: e.ocr, page: page, logger: e.logger}

	courier, courierStrategy, _ := RunChain(doc, CourierChain)
	brand, brandStrategy, _ := RunChain(doc, BrandChain)
	if brand == "" {
		brand = logoBrand(pass.lines(ctx, LogoRegion))
		brandStrategy = strategyIf(brand != "", "logo_ocr")
	}
	if courier == "" {
		courier = matchCourier(strings.Join(pass.lines(ctx, CourierRegion), "\n"))
		courierStrategy = strategyIf(courier != "", "logo_ocr")
	}
	if isCanonicalCourier(brand) {
		e.logger.Debug("discarding brand equal to courier", "brand", brand)
		brand = ""
	}

	var products []ProductLine
	layout := ""
	if courier == ImageHeavyCourier {
		products, _ = projectProducts(pass.lines(ctx, ProductsRegion), "")
		layout = strategyIf(len(products) > 0, "ocr_projection")
	}
	if len(products) == 0 {
		products, layout = ParseProducts(doc.Lines)
	}
	if len(products) == 0 && courier != ImageHeavyCourier {
		var backfill string
		products, backfill = projectProducts(pass.lines(ctx, ProductsRegion), courier)
		layout = strategyIf(len(products) > 0, "ocr_projection")
		if courier == "" && backfill != "" {
			courier, courierStrategy = backfill, "ocr_projection"
		}
	}

	rec.BrandName = brand
	rec.CourierName = courier
	if len(products) > 0 {
		rec.Products = products
	}
	rec.OrderNumber = ResolveOrderNumber(doc, courier)
	rec.CustomerName = ResolveCustomer(doc)

	e.logger.Debug("label resolved",
		"brand", rec.BrandName, "brand_strategy", brandStrategy,
		"courier", rec.CourierName, "courier_strategy", courierStrategy,
		"products", len(rec.Products), "layout", layout,
		"order_number", rec.OrderNumber)
	return rec
}

// projectProducts runs the table parser over lines rebuilt from an OCR pass of
// the products region. The courier is backfilled from the same lines when
// still unknown.
func projectProducts(lines []string, courier string) ([]ProductLine, string) {
	if len(lines) == 0 {
		return nil, courier
	}
	products, _ := ParseProducts(lines)
	if courier == "" {
		courier = matchCourier(strings.Join(lines, "\n"))
	}
	return products, courier
}

// logoBrand accepts the first readable line of the logo region
func logoBrand(lines []string) string {
	for _, line := range lines {
		if name := brandKeywordIn(strings.ToLower(line)); name != "" {
			return name
		}
	}
	for _, line := range lines {
		if !isBrandLine(line) {
			continue
		}
		if v, ok := cleanBrand(line); ok {
			return v
		}
	}
	return ""
}

func strategyIf(ok bool, name string) string {
	if !ok {
		return ""
	}
	return name
}

// ocrPass memoizes region OCR for one page so each region is recognized once
type ocrPass struct {
	provider OCRProvider
	page     []byte
	logger   *slog.Logger
	done     map[Region][]string
}

func (p *ocrPass) enabled() bool {
	return p.provider != nil && len(p.page) > 0
}

// lines returns the reconstructed lines of region; failures degrade to nil
func (p *ocrPass) lines(ctx context.Context, region Region) []string {
	if !p.enabled() {
		return nil
	}
	if lines, ok := p.done[region]; ok {
		return lines
	}
	if p.done == nil {
		p.done = make(map[Region][]string)
	}
	res, err := p.provider.RunOCR(ctx, p.page, region)
	if err != nil {
		p.logger.Warn("region ocr failed", "region", region, "error", err)
		p.done[region] = nil
		return nil
	}
	lines := OCRLines(res)
	p.done[region] = lines
	return lines
}
