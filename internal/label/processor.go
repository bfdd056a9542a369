package label

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of pages extracted concurrently
const DefaultWorkers = 3

// PageSplitter cuts a multi-page PDF into single-page PDFs in page order
type PageSplitter interface {
	SplitPages(ctx context.Context, pdf []byte) ([][]byte, error)
}

// Processor runs the engine over every page of an upload
type Processor struct {
	engine   *Engine
	splitter PageSplitter
	workers  int
	logger   *slog.Logger
}

// NewProcessor creates a processor. workers below 1 fall back to DefaultWorkers.
func NewProcessor(engine *Engine, splitter PageSplitter, workers int, logger *slog.Logger) *Processor {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{engine: engine, splitter: splitter, workers: workers, logger: logger}
}

// ProcessDocument splits pdf into pages and extracts one record per page.
// Records are returned in page order.
func (p *Processor) ProcessDocument(ctx context.Context, pdf []byte) ([]LabelRecord, error) {
	pages, err := p.splitter.SplitPages(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("split pages: %w", err)
	}
	return p.ProcessPages(ctx, pages)
}

// ProcessPages extracts already split pages with at most p.workers in flight.
// A page that cannot be read yields an all-empty record; only cancellation of
// ctx fails the batch.
func (p *Processor) ProcessPages(ctx context.Context, pages [][]byte) ([]LabelRecord, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	logger.Info("processing document", "pages", len(pages), "workers", p.workers)

	records := make([]LabelRecord, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, page := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = p.extractPage(gctx, logger.With("page", i+1), page)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process pages: %w", err)
	}

	empty := 0
	for _, r := range records {
		if r.IsEmpty() {
			empty++
		}
	}
	logger.Info("document processed", "pages", len(records), "empty", empty)
	return records, nil
}

func (p *Processor) extractPage(ctx context.Context, logger *slog.Logger, page []byte) (rec LabelRecord) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("page extraction panicked", "panic", r)
			rec = EmptyRecord()
		}
	}()
	rec = p.engine.Extract(ctx, page)
	if rec.IsEmpty() {
		logger.Warn("nothing resolved on page, needs review")
	}
	return rec
}
