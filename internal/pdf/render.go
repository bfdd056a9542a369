package pdf

import (
	"bytes"
	"context"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	pdferrors "github.com/a3tai/mcp-label-reader/internal/pdf/errors"
)

// DefaultRenderDPI is enough for thermal labels without producing huge PNGs
const DefaultRenderDPI = 200

// Renderer rasterizes the first page of a single-page PDF with poppler's
// pdftoppm, so region crops are taken from what a reader actually sees.
type Renderer struct {
	bin    string
	dpi    int
	runner Runner
	logger *slog.Logger
}

// NewRenderer creates a renderer that runs bin (usually "pdftoppm")
func NewRenderer(bin string, dpi int, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if dpi <= 0 {
		dpi = DefaultRenderDPI
	}
	return &Renderer{bin: bin, dpi: dpi, runner: execRunner{logger: logger}, logger: logger}
}

// RenderPage returns page 1 as a PNG
func (r *Renderer) RenderPage(ctx context.Context, page []byte) (PageImage, error) {
	if err := ctx.Err(); err != nil {
		return PageImage{}, err
	}

	tmpDir, err := os.MkdirTemp("", "label-render-*")
	if err != nil {
		return PageImage{}, pdferrors.Wrap(pdferrors.ErrorTypeNoImage, "failed to create render dir", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			r.logger.Warn("failed to remove render dir", "dir", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "page.pdf")
	if err := os.WriteFile(in, page, 0o600); err != nil {
		return PageImage{}, pdferrors.Wrap(pdferrors.ErrorTypeNoImage, "failed to stage page", err)
	}

	// pdftoppm -r 200 -png -f 1 -l 1 -singlefile <in.pdf> <tmp/page>
	prefix := filepath.Join(tmpDir, "page")
	_, stderr, err := r.runner.Run(ctx, r.bin,
		"-r", strconv.Itoa(r.dpi), "-png", "-f", "1", "-l", "1", "-singlefile", in, prefix)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PageImage{}, ctxErr
		}
		return PageImage{}, pdferrors.Wrap(pdferrors.ErrorTypeNoImage, "pdftoppm failed", err).
			WithContext(truncate(string(stderr), 512)).WithPage(1)
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return PageImage{}, pdferrors.Wrap(pdferrors.ErrorTypeNoImage, "pdftoppm produced no image", err).WithPage(1)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return PageImage{}, pdferrors.Wrap(pdferrors.ErrorTypeImageDecode, "failed to decode rendered page", err).WithPage(1)
	}
	return PageImage{Data: data, FileType: "png", Width: cfg.Width, Height: cfg.Height}, nil
}
