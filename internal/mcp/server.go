package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-label-reader/internal/config"
	"github.com/a3tai/mcp-label-reader/internal/descriptions"
	"github.com/a3tai/mcp-label-reader/internal/export"
	"github.com/a3tai/mcp-label-reader/internal/label"
)

// FileLoader reads a validated upload from the label directory
type FileLoader interface {
	Load(path string) ([]byte, error)
	Directory() string
}

// DocumentProcessor turns a multi-page PDF into one record per page
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, pdf []byte) ([]label.LabelRecord, error)
}

// TextExtractor resolves a record from raw label lines
type TextExtractor interface {
	ExtractLines(ctx context.Context, lines []string) label.LabelRecord
}

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	loader    FileLoader
	processor DocumentProcessor
	extractor TextExtractor
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, loader FileLoader, processor DocumentProcessor, extractor TextExtractor, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if loader == nil || processor == nil || extractor == nil {
		return nil, fmt.Errorf("loader, processor and extractor are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		loader:    loader,
		processor: processor,
		extractor: extractor,
		mcpServer: mcpServer,
		logger:    logger,
	}
	s.registerTools()
	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.LabelExtractFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.LabelExtractFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the label PDF, absolute or relative to the label directory"),
		),
	), s.handleExtractFile)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.LabelExtractText,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.LabelExtractText)),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw label text"),
		),
	), s.handleExtractText)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.LabelServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.LabelServerInfo)),
	), s.handleServerInfo)
}

func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := s.loader.Load(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, err := s.processor.ProcessDocument(ctx, data)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to process %s: %v", path, err)), nil
	}
	s.logger.Info("extracted labels", "path", path, "pages", len(records))

	return s.jsonResult(export.Pages(records), records...)
}

func (s *Server) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text cannot be empty"), nil
	}

	rec := s.extractor.ExtractLines(ctx, label.SplitLines(text))
	return s.jsonResult(rec, rec)
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Server: %s %s\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&b, "Label directory: %s\n", s.loader.Directory())
	fmt.Fprintf(&b, "OCR provider: %s\n", s.config.OCRProvider)
	fmt.Fprintf(&b, "Workers: %d\n", s.config.Workers)
	fmt.Fprintf(&b, "Max file size: %d bytes\n", s.config.MaxFileSize)
	b.WriteString("\nTools:\n")
	for _, name := range descriptions.GetAllToolNames() {
		fmt.Fprintf(&b, "  %s\n", name)
	}
	b.WriteString("\nUnreadable pages come back as empty records; review them by hand.\n")
	return mcp.NewToolResultText(b.String()), nil
}

// jsonResult validates records and renders v as indented JSON
func (s *Server) jsonResult(v any, records ...label.LabelRecord) (*mcp.CallToolResult, error) {
	for i, rec := range records {
		if err := export.Validate(rec); err != nil {
			s.logger.Error("record failed validation", "page", i+1, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// Run serves MCP over stdio until the client disconnects
func (s *Server) Run(_ context.Context) error {
	s.logger.Debug("starting label MCP server in stdio mode", "directory", s.loader.Directory())

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
