package descriptions

import "sort"

// Tool names exposed by the MCP server
const (
	LabelExtractFile = "label_extract_file"
	LabelExtractText = "label_extract_text"
	LabelServerInfo  = "label_server_info"
)

const (
	LabelExtractFileDescription = `Extract order data from every page of a shipping label PDF.

**When to use:** A marketplace or courier label PDF needs turning into structured records: brand, courier, products, order/AWB number and customer name.

**Output:** A JSON array with one record per page, in page order. Each record has brand_name, courier_name, products (product_name, quantity, price), order_number and customer_name. Fields that could not be found are empty strings; products is always an array.

**Examples:**
• Bulk dispatch sheet: "Extract every label in meesho-batch-0412.pdf"
• Reconciliation: "Read labels.pdf and list the AWB numbers by courier"

**Notes:** Scanned pages are read with OCR. A page that cannot be read at all comes back as an all-empty record rather than failing the whole file; treat those as needing manual review.`

	LabelExtractTextDescription = `Extract one label record from text already read off a single label.

**When to use:** The label text came from somewhere else (copied from a portal, an email, another OCR pass) and only needs resolving into fields.

**Input:** The raw text, one printed row per line, top to bottom.

**Output:** A single JSON record with the same fields as label_extract_file. Logo and region OCR are skipped because there is no page image.`

	LabelServerInfoDescription = `Report the label directory, the configured OCR provider, worker count and the available tools.

**When to use:** First call in a session, or when a relative path is not being found.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	LabelExtractFile: LabelExtractFileDescription,
	LabelExtractText: LabelExtractTextDescription,
	LabelServerInfo:  LabelServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
