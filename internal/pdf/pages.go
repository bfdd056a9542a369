package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
)

// PageImage is a raster of a whole label page, either rendered or embedded
type PageImage struct {
	Data     []byte
	FileType string
	Width    int
	Height   int
}

// Pages splits uploads with pdfcpu and produces page rasters
type Pages struct {
	renderer *Renderer
}

// NewPages creates a pdfcpu backed page tool. Without a renderer, page
// rasters come from embedded images only.
func NewPages() *Pages {
	return &Pages{}
}

// WithRenderer makes PageImage rasterize pages with r before falling back
// to embedded images
func (p *Pages) WithRenderer(r *Renderer) *Pages {
	p.renderer = r
	return p
}

// coverageTolerance is the relative aspect ratio difference still treated as
// the same shape
const coverageTolerance = 0.08

func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func readContext(data []byte) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), relaxedConfig())
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeUnreadable, "failed to read PDF context", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeUnreadable, "failed to ensure page count", err)
	}
	if ctx.PageCount < 1 {
		return nil, pdferrors.New(pdferrors.ErrorTypeNoPages, "document has no pages")
	}
	return ctx, nil
}

// SplitPages cuts a multi-page upload into single-page PDFs in page order.
// Each label is one page.
func (p *Pages) SplitPages(ctx context.Context, data []byte) ([][]byte, error) {
	pdfCtx, err := readContext(data)
	if err != nil {
		return nil, err
	}

	pages := make([][]byte, 0, pdfCtx.PageCount)
	for nr := 1; nr <= pdfCtx.PageCount; nr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := api.ExtractPage(pdfCtx, nr)
		if err != nil {
			return nil, pdferrors.Wrap(pdferrors.ErrorTypeUnreadable, "failed to extract page", err).WithPage(nr)
		}
		page, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", nr, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// PageImage returns a raster of the whole first page. The page is rendered
// when a renderer is configured; otherwise, or when rendering fails, the
// largest embedded image is used if it covers the page.
func (p *Pages) PageImage(ctx context.Context, page []byte) (PageImage, error) {
	if p.renderer != nil {
		img, err := p.renderer.RenderPage(ctx, page)
		if err == nil {
			return img, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PageImage{}, ctxErr
		}
		p.renderer.logger.Debug("page render failed, using embedded image", "error", err)
	}
	return p.LargestImage(ctx, page)
}

// LargestImage returns the biggest raster on the first page of a single-page
// PDF. Label scans embed the whole page as one image; a logo or barcode does
// not share the page's shape and is rejected.
func (p *Pages) LargestImage(ctx context.Context, page []byte) (PageImage, error) {
	if err := ctx.Err(); err != nil {
		return PageImage{}, err
	}
	pageMaps, err := api.ExtractImagesRaw(bytes.NewReader(page), []string{"1"}, relaxedConfig())
	if err != nil {
		return PageImage{}, pdferrors.Wrap(pdferrors.ErrorTypeUnreadable, "failed to extract images", err).WithPage(1)
	}

	var best model.Image
	found := false
	for _, images := range pageMaps {
		for _, img := range images {
			if !found || img.Width*img.Height > best.Width*best.Height {
				best, found = img, true
			}
		}
	}
	if !found || best.Reader == nil {
		return PageImage{}, pdferrors.New(pdferrors.ErrorTypeNoImage, "page has no embedded image").WithPage(1)
	}

	dims, err := api.PageDims(bytes.NewReader(page), relaxedConfig())
	if err != nil || len(dims) == 0 {
		return PageImage{}, pdferrors.Wrap(pdferrors.ErrorTypeUnreadable, "failed to read page size", err).WithPage(1)
	}
	if !coversPage(best.Width, best.Height, dims[0]) {
		return PageImage{}, pdferrors.New(pdferrors.ErrorTypeNoImage, "largest image does not cover the page").
			WithContext(fmt.Sprintf("image %dx%d, page %.0fx%.0f", best.Width, best.Height, dims[0].Width, dims[0].Height)).
			WithPage(1)
	}

	data, err := io.ReadAll(best)
	if err != nil {
		return PageImage{}, pdferrors.Wrap(pdferrors.ErrorTypeImageDecode, "failed to read image stream", err).WithPage(1)
	}
	return PageImage{Data: data, FileType: best.FileType, Width: best.Width, Height: best.Height}, nil
}

// coversPage reports whether a w x h raster has the page's shape. Rotated
// scans are accepted in either orientation.
func coversPage(w, h int, page types.Dim) bool {
	if w <= 0 || h <= 0 || page.Width <= 0 || page.Height <= 0 {
		return false
	}
	want := page.Width / page.Height
	got := float64(w) / float64(h)
	return math.Abs(got-want)/want <= coverageTolerance ||
		math.Abs(1/got-want)/want <= coverageTolerance
}
