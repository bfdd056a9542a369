package label

import (
	"regexp"
	"strings"
)

// ProductLayout is one table layout the parser knows about
type ProductLayout struct {
	Name  string
	Parse func(lines []string) []ProductLine
}

// ProductLayouts are tried in order; the first producing an item wins.
var ProductLayouts = []ProductLayout{
	{Name: "item_description", Parse: parseItemDescription},
	{Name: "product_price_qty", Parse: parseProductPriceQty},
	{Name: "product_sku_qty_price", Parse: parseProductSKUQtyPrice},
}

// ParseProducts runs the table layouts and then the legacy single-product
// extraction. It returns the layout name that produced the items.
func ParseProducts(lines []string) ([]ProductLine, string) {
	for _, layout := range ProductLayouts {
		if items := layout.Parse(lines); len(items) > 0 {
			return items, layout.Name
		}
	}
	if item, ok := parseLegacyProduct(lines); ok {
		return []ProductLine{item}, "legacy"
	}
	return nil, ""
}

func newProduct(name string, qty int, price float64) (ProductLine, bool) {
	clean, ok := cleanProductName(name)
	if !ok {
		return ProductLine{}, false
	}
	if qty < 1 {
		qty = 1
	}
	if price < 0 {
		price = 0
	}
	return ProductLine{ProductName: clean, Quantity: qty, Price: price}, true
}

var (
	reItemHeader = regexp.MustCompile(`(?i)\bitem\s*desc(ription)?\b`)
	// row numbers are only stripped when whitespace follows, so "1.5L" survives
	reItemIndex = regexp.MustCompile(`^[\s|#*•.)\-]*(?:\d{1,3}[.):|-]?\s+)?[\s|#*•]*`)
	reItemRow   = regexp.MustCompile(`(?i)^(.*?)\s*\bQTY\s*[-–—:.]?\s*(\d+)\b`)
)

// parseItemDescription handles marketplace labels that print one row per item
// as "<index> <name> QTY-<n>" below an "Item description" header.
func parseItemDescription(lines []string) []ProductLine {
	start := indexOf(lines, reItemHeader)
	if start < 0 {
		return nil
	}
	var items []ProductLine
	for _, line := range lines[start+1:] {
		if reSeparator.MatchString(line) || itemFooter.MatchString(line) {
			break
		}
		m := reItemRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := reItemIndex.ReplaceAllString(m[1], "")
		if item, ok := newProduct(name, parseQuantity(m[2]), 0); ok {
			items = append(items, item)
		}
	}
	return items
}

var (
	rePriceQtyHeader = regexp.MustCompile(`(?i)\bproduct\b.*\bprice\b.*\bqty\b`)
	rePriceQtyTail   = regexp.MustCompile(`(?i)^(.*?)\s*(?:rs\.?|₹|inr)?\s*(\d{1,3}(?:,\d{2,3})+|\d+)(\.\d{1,2})?\s+(\d{1,3})\s*$`)
	reTotalLine      = regexp.MustCompile(`(?i)^\s*(sub\s*-?\s*total|total|grand\s*total|net\s*amount)\b`)
	reTaxLine        = regexp.MustCompile(`(?i)^\s*([csi]?gst|gstin|hsn|tax)\b`)
)

// parseProductPriceQty handles "Product | Price | Qty" columns where long
// names wrap over several lines and only the last one carries the numbers.
func parseProductPriceQty(lines []string) []ProductLine {
	start := indexOf(lines, rePriceQtyHeader)
	if start < 0 {
		return nil
	}
	var items []ProductLine
	var name []string
	for _, line := range lines[start+1:] {
		if reTotalLine.MatchString(line) || reTaxLine.MatchString(line) || itemFooter.MatchString(line) {
			break
		}
		m := rePriceQtyTail.FindStringSubmatch(line)
		if m == nil {
			name = append(name, strings.Trim(line, "| "))
			continue
		}
		name = append(name, strings.Trim(m[1], "| "))
		price := parsePrice(m[2] + m[3])
		if item, ok := newProduct(strings.Join(name, " "), parseQuantity(m[4]), price); ok {
			items = append(items, item)
		}
		name = nil
	}
	return items
}

var (
	reSKUHeader      = regexp.MustCompile(`(?i)\bproduct\s*(name|description)?\b.*\b(sku|qty|quantity)\b.*\b(price|amount|total)\b`)
	reSKUHeaderFirst = regexp.MustCompile(`(?i)^\s*product\s*(name|description)?\s*$`)
	reSKUHeaderRest  = regexp.MustCompile(`(?i)\b(sku|qty|quantity)\b.*\b(price|amount)\b`)
	reBareHeader     = regexp.MustCompile(`(?i)^\s*(products?|items?|description)\s*:?\s*$`)
	reQtyPriceTail   = regexp.MustCompile(`(?i)^(.*?)\s+(\d{1,3})\s+(?:rs\.?\s*|₹\s*|inr\s*)?(\d{1,3}(?:,\d{2,3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)\s*$`)
)

// findSKUHeader locates the generic "Product Name ... SKU Qty Price" header in
// its same-line, two-line or bare form and returns the index of the first row.
func findSKUHeader(lines []string) int {
	for i, line := range lines {
		if reSKUHeader.MatchString(line) {
			return i + 1
		}
		if reSKUHeaderFirst.MatchString(line) && i+1 < len(lines) && reSKUHeaderRest.MatchString(lines[i+1]) {
			return i + 2
		}
	}
	for i, line := range lines {
		if reBareHeader.MatchString(line) {
			return i + 1
		}
	}
	return -1
}

// parseProductSKUQtyPrice handles generic invoices-on-label tables. Words are
// accumulated across lines until one ends in "<qty> <price>".
func parseProductSKUQtyPrice(lines []string) []ProductLine {
	start := findSKUHeader(lines)
	if start < 0 {
		return nil
	}
	var items []ProductLine
	var words []string
	for _, line := range lines[start:] {
		if reTotalLine.MatchString(line) || reTaxLine.MatchString(line) {
			break
		}
		m := reQtyPriceTail.FindStringSubmatch(line)
		if m == nil {
			if part := stripLeadingSKUs(strings.Trim(line, "| ")); part != "" {
				words = append(words, part)
			}
			continue
		}
		words = append(words, stripLeadingSKUs(strings.Trim(m[1], "| ")))
		if item, ok := newProduct(strings.Join(words, " "), parseQuantity(m[2]), parsePrice(m[3])); ok {
			items = append(items, item)
		}
		words = nil
	}
	return items
}

var (
	reLegacyHeader = regexp.MustCompile(`(?i)\b(product\s*name|item\s*name|product\s*details|product|description)\b`)
	reLegacyQty    = regexp.MustCompile(`(?i)\b(?:qty|quantity)\s*[:\-–.]?\s*(\d{1,3})\b`)
	reLegacyPrice  = regexp.MustCompile(`(?i)(?:rs\.?|₹|inr|price\s*:?)\s*(\d{1,3}(?:,\d{2,3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)
)

const legacyLookahead = 3

// parseLegacyProduct picks the first plausible line near a product header
func parseLegacyProduct(lines []string) (ProductLine, bool) {
	text := strings.Join(lines, "\n")
	qty := 1
	if m := reLegacyQty.FindStringSubmatch(text); m != nil {
		qty = parseQuantity(m[1])
	}
	var price float64
	if m := reLegacyPrice.FindStringSubmatch(text); m != nil {
		price = parsePrice(m[1])
	}

	for i, line := range lines {
		loc := reLegacyHeader.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if rest := strings.TrimLeft(line[loc[1]:], " :-–|"); plausibleProduct(rest) {
			if item, ok := newProduct(rest, qty, price); ok {
				return item, true
			}
		}
		for j := i + 1; j < len(lines) && j <= i+legacyLookahead; j++ {
			if !plausibleProduct(lines[j]) {
				continue
			}
			if item, ok := newProduct(lines[j], qty, price); ok {
				return item, true
			}
		}
	}
	return ProductLine{}, false
}

func plausibleProduct(line string) bool {
	if len([]rune(line)) < minUsefulLineLength || letterCount(line) < 3 {
		return false
	}
	if reLongDigits.MatchString(line) {
		return false
	}
	return !containsAny(strings.ToLower(line), productGarbage)
}

func indexOf(lines []string, re *regexp.Regexp) int {
	for i, l := range lines {
		if re.MatchString(l) {
			return i
		}
	}
	return -1
}
