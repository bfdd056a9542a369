package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-label-reader/internal/config"
	"github.com/a3tai/mcp-label-reader/internal/export"
	"github.com/a3tai/mcp-label-reader/internal/label"
	"github.com/a3tai/mcp-label-reader/internal/pdf"
)

type fakeProcessor struct {
	records []label.LabelRecord
	err     error
}

func (f fakeProcessor) ProcessDocument(context.Context, []byte) ([]label.LabelRecord, error) {
	return f.records, f.err
}

var sampleRecord = label.LabelRecord{
	BrandName:    "Shopperskart",
	CourierName:  label.CourierDelhivery,
	Products:     []label.ProductLine{{ProductName: "Widget", Quantity: 2, Price: 199}},
	OrderNumber:  "15123456789012",
	CustomerName: "Rahul Sharma",
}

func testConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Directory = dir
	cfg.ServerName = "test-server"
	cfg.MaxFileSize = 1024 * 1024
	return cfg
}

func newTestServer(t *testing.T, processor DocumentProcessor) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := testConfig(dir)

	loader, err := pdf.NewLoader(cfg.MaxFileSize, dir)
	require.NoError(t, err)

	s, err := NewServer(cfg, loader, processor, label.NewEngine(nil, nil, nil), nil)
	require.NoError(t, err)
	return s, dir
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("expected text content, got %T", result.Content[0])
	return ""
}

func TestNewServer(t *testing.T) {
	dir := t.TempDir()
	loader, err := pdf.NewLoader(1024, dir)
	require.NoError(t, err)
	engine := label.NewEngine(nil, nil, nil)

	_, err = NewServer(nil, loader, fakeProcessor{}, engine, nil)
	assert.Error(t, err)

	_, err = NewServer(testConfig(dir), nil, fakeProcessor{}, engine, nil)
	assert.Error(t, err)

	s, err := NewServer(testConfig(dir), loader, fakeProcessor{}, engine, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.mcpServer)
	assert.NotNil(t, s.logger)
}

func TestHandleExtractFile(t *testing.T) {
	s, dir := newTestServer(t, fakeProcessor{records: []label.LabelRecord{sampleRecord, label.EmptyRecord()}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels.pdf"), []byte("%PDF-1.4\n%stub"), 0o600))

	result, err := s.handleExtractFile(context.Background(), callRequest(map[string]any{"path": "labels.pdf"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var got []export.PageRecord
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	require.Len(t, got, 2)
	assert.Equal(t, export.PageRecord{Page: 1, LabelRecord: sampleRecord}, got[0])
	assert.Equal(t, 2, got[1].Page)
	assert.True(t, got[1].IsEmpty())
}

func TestHandleExtractFileErrors(t *testing.T) {
	tests := []struct {
		name      string
		processor fakeProcessor
		args      map[string]any
		file      string
		wantText  string
	}{
		{name: "missing path", args: map[string]any{}, wantText: "path"},
		{name: "file does not exist", args: map[string]any{"path": "nope.pdf"}, wantText: "does not exist"},
		{name: "not a pdf", args: map[string]any{"path": "label.pdf"}, file: "plain text", wantText: "invalid upload"},
		{
			name:      "processor failure",
			processor: fakeProcessor{err: errors.New("bad xref")},
			args:      map[string]any{"path": "label.pdf"},
			file:      "%PDF-1.4",
			wantText:  "bad xref",
		},
		{
			name:      "invalid record",
			processor: fakeProcessor{records: []label.LabelRecord{{Products: []label.ProductLine{{ProductName: "Cap"}}}}},
			args:      map[string]any{"path": "label.pdf"},
			file:      "%PDF-1.4",
			wantText:  "schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dir := newTestServer(t, tt.processor)
			if tt.file != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "label.pdf"), []byte(tt.file), 0o600))
			}

			result, err := s.handleExtractFile(context.Background(), callRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.wantText)
		})
	}
}

func TestHandleExtractFileCancelled(t *testing.T) {
	s, dir := newTestServer(t, fakeProcessor{err: context.Canceled})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "label.pdf"), []byte("%PDF-1.4"), 0o600))

	_, err := s.handleExtractFile(context.Background(), callRequest(map[string]any{"path": "label.pdf"}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandleExtractText(t *testing.T) {
	s, _ := newTestServer(t, fakeProcessor{})

	text := strings.Join([]string{
		"Ordered From: Shopperskart pi -",
		"Delhivery",
		"Ship To: Rahul Sharma, House 12, MG Road",
		"AWB: 15123456789012",
		"Product Name SKU Qty Price",
		"Widget ABC-GST-18-HSN1234 2 199.00",
		"Total 398.00",
	}, "\n")

	result, err := s.handleExtractText(context.Background(), callRequest(map[string]any{"text": text}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var got label.LabelRecord
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	assert.Equal(t, sampleRecord, got)
}

func TestHandleExtractTextEmpty(t *testing.T) {
	s, _ := newTestServer(t, fakeProcessor{})

	for _, args := range []map[string]any{{}, {"text": "  \n "}} {
		result, err := s.handleExtractText(context.Background(), callRequest(args))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	}
}

func TestHandleServerInfo(t *testing.T) {
	s, dir := newTestServer(t, fakeProcessor{})

	result, err := s.handleServerInfo(context.Background(), callRequest(nil))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "test-server")
	assert.Contains(t, text, "OCR provider: tesseract")
	assert.Contains(t, text, "label_extract_file")

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, dir) || strings.Contains(text, resolved))
}
