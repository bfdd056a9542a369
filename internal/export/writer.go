package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-label-reader/internal/label"
)

// Output formats
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

const sheetName = "Labels"

// PageRecord is a record tagged with the 1-based page it came from
type PageRecord struct {
	Page int `json:"page"`
	label.LabelRecord
}

// Pages tags records with their page numbers
func Pages(records []label.LabelRecord) []PageRecord {
	out := make([]PageRecord, len(records))
	for i, rec := range records {
		out[i] = PageRecord{Page: i + 1, LabelRecord: rec}
	}
	return out
}

// Write encodes records to w in format
func Write(w io.Writer, format string, records []label.LabelRecord) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return WriteJSON(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteJSON writes records as an indented JSON array of page records.
// Records failing the schema are rejected before anything is written.
func WriteJSON(w io.Writer, records []label.LabelRecord) error {
	for i, rec := range records {
		if err := Validate(rec); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Pages(records)); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// WriteXLSX writes one row per product, repeating the label fields. Labels
// without products still get a single row so no page disappears.
func WriteXLSX(w io.Writer, records []label.LabelRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headers := []string{"Page", "Brand", "Courier", "Order Number", "Customer", "Product", "Quantity", "Price"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	write := func(col int, v any) error {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		return f.SetCellValue(sheetName, cell, v)
	}
	for i, rec := range records {
		if err := Validate(rec); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		products := rec.Products
		if len(products) == 0 {
			products = []label.ProductLine{{}}
		}
		for _, p := range products {
			values := []any{i + 1, rec.BrandName, rec.CourierName, rec.OrderNumber, rec.CustomerName, p.ProductName, nil, nil}
			if p.ProductName != "" {
				values[6] = p.Quantity
				values[7] = p.Price
			}
			for col, v := range values {
				if v == nil || v == "" {
					continue
				}
				if err := write(col+1, v); err != nil {
					return fmt.Errorf("write row %d: %w", row, err)
				}
			}
			row++
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 6)
	_ = f.SetColWidth(sheetName, "B", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "E", 24)
	_ = f.SetColWidth(sheetName, "F", "F", 40)
	_ = f.SetColWidth(sheetName, "G", "H", 10)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
