package label

import (
	"regexp"
	"strings"
)

var (
	reShipMarker = regexp.MustCompile(`(?i)^\s*(?:ship(?:ping)?\s*to|deliver(?:y)?\s*to|consignee(?:\s*name)?|customer\s*(?:name|address|details))\b\s*[:\-–]?\s*(.*)$`)
	reToMarker   = regexp.MustCompile(`(?i)^\s*to\s*(?:[:\-–]\s*(.*))?$`)
)

const (
	customerLookahead  = 2
	minCustomerLength  = 2
	maxCustomerLength  = 60
	customerNameLetter = 2
)

// ResolveCustomer finds the recipient name in the shipping block. Every
// marker is tried in reading order; the first valid candidate wins.
func ResolveCustomer(doc *Document) string {
	for i, line := range doc.Lines {
		inline, ok := customerMarker(line)
		if !ok {
			continue
		}
		if name, ok := validCustomer(inline); ok {
			return name
		}
		for j := i + 1; j < len(doc.Lines) && j <= i+customerLookahead; j++ {
			if _, marker := customerMarker(doc.Lines[j]); marker {
				break
			}
			if name, ok := validCustomer(doc.Lines[j]); ok {
				return name
			}
		}
	}
	return ""
}

// customerMarker reports whether line opens a shipping block and returns the
// text after the marker, if any.
func customerMarker(line string) (string, bool) {
	if m := reShipMarker.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := reToMarker.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// validCustomer validates and trims a candidate recipient name
func validCustomer(s string) (string, bool) {
	s = collapseSpaces(s)
	n := len([]rune(s))
	if n < minCustomerLength || n > maxCustomerLength {
		return "", false
	}
	if reFiveDigits.MatchString(s) || containsAny(strings.ToLower(s), nonNameKeywords) {
		return "", false
	}

	if i := strings.IndexAny(s, ",\n"); i >= 0 {
		s = s[:i]
	}
	s = truncateAtAddress(s)
	s = strings.Trim(s, " .:-–|")
	if letterCount(s) < customerNameLetter || len([]rune(s)) < minCustomerLength {
		return "", false
	}
	return titleCase(s), true
}

// truncateAtAddress cuts s before the first address keyword
func truncateAtAddress(s string) string {
	lower := strings.ToLower(s)
	cut := len(s)
	for _, kw := range addressKeywords {
		if i := wordIndex(lower, kw); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(s[:cut])
}
