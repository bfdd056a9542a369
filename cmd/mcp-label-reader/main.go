package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/a3tai/mcp-label-reader/internal/config"
	"github.com/a3tai/mcp-label-reader/internal/export"
	"github.com/a3tai/mcp-label-reader/internal/label"
	"github.com/a3tai/mcp-label-reader/internal/mcp"
	"github.com/a3tai/mcp-label-reader/internal/ocr"
	"github.com/a3tai/mcp-label-reader/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// pipeline is the wired extraction stack shared by both modes
type pipeline struct {
	engine    *label.Engine
	processor *label.Processor
}

// newLogger writes to w, which must not be stdout in stdio mode. Debug
// logging also records the source position.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(cfg.LogLevel))
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, AddSource: cfg.IsDebug()}))
}

func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	pages := pdf.NewPages()
	if cfg.Pdftoppm != "" {
		pages.WithRenderer(pdf.NewRenderer(cfg.Pdftoppm, cfg.RenderDPI, logger))
	}

	provider, err := ocr.New(ocr.Options{
		Provider:      cfg.OCRProvider,
		TesseractLang: cfg.TesseractLang,
		AzureEndpoint: cfg.AzureEndpoint,
		AzureKey:      cfg.AzureKey,
	}, pages)
	if err != nil {
		return nil, fmt.Errorf("configure ocr: %w", err)
	}

	source := label.FallbackLineSource{
		Digital: pdf.NewTextLayer(),
		OCR:     provider,
		Logger:  logger,
	}
	engine := label.NewEngine(source, provider, logger)
	return &pipeline{
		engine:    engine,
		processor: label.NewProcessor(engine, pages, cfg.Workers, logger),
	}, nil
}

// runCLI extracts every file and writes all pages, in argument order, to out
func runCLI(ctx context.Context, cfg *config.Config, p *pipeline, out io.Writer, logger *slog.Logger) error {
	var all []label.LabelRecord
	for _, file := range cfg.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", file, err)
		}
		loader, err := pdf.NewLoader(cfg.MaxFileSize, filepath.Dir(abs))
		if err != nil {
			return err
		}
		data, err := loader.Load(abs)
		if err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
		records, err := p.processor.ProcessDocument(ctx, data)
		if err != nil {
			return fmt.Errorf("process %s: %w", file, err)
		}
		logger.Info("extracted labels", "file", file, "pages", len(records))
		all = append(all, records...)
	}

	if cfg.OutputPath == "" {
		return export.Write(out, cfg.OutputFormat, all)
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.Write(f, cfg.OutputFormat, all); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}
	if version != "dev" {
		cfg.Version = version
	}

	// stdout carries the MCP protocol or the CLI output
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("starting", "config", cfg.String())

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsCLIMode() {
		if err := runCLI(ctx, cfg, p, os.Stdout, logger); err != nil {
			logger.Error("extraction failed", "error", err)
			os.Exit(1)
		}
		return
	}
	if !cfg.IsStdioMode() {
		logger.Error("unsupported mode", "mode", cfg.Mode)
		os.Exit(2)
	}

	loader, err := pdf.NewLoader(cfg.MaxFileSize, cfg.Directory)
	if err != nil {
		logger.Error("failed to create loader", "error", err)
		os.Exit(1)
	}
	server, err := mcp.NewServer(cfg, loader, p.processor, p.engine, logger)
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	// The parent process controls our lifecycle; stdin closing ends the run
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Label Reader\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
