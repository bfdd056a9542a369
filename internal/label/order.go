package label

import (
	"regexp"
	"strings"
)

var (
	reMarketplaceAWB  = regexp.MustCompile(`(?i)\bAWB\s*(?:no\.?|number|#)?\s*[:\-]?\s*(\d{8,20})\b`)
	reGenericAWB      = regexp.MustCompile(`(?i)\b(?:awb|tracking\s*(?:id|no\.?|number)|waybill)\s*(?:no\.?|number|#)?\s*[:\-#]?\s*([A-Z0-9]{8,})\b`)
	reLongNumber      = regexp.MustCompile(`\b\d{12,20}\b`)
	reOrderLabel      = regexp.MustCompile(`(?i)\border\s*(?:id|no\.?|number|#)\s*[:\-#]?\s*([A-Z0-9][A-Z0-9\-_/]{4,})`)
	reRefInvoiceLabel = regexp.MustCompile(`(?i)\bref\.?\s*/\s*invoice\s*(?:no\.?|number|#)?\s*[:\-#]?\s*([A-Z0-9][A-Z0-9\-_/]{2,})`)
)

// orderStrategy sees the courier already resolved for the page
type orderStrategy struct {
	name    string
	resolve func(doc *Document, courier string) (string, bool)
}

var orderChain = []orderStrategy{
	{name: "tracking_literal", resolve: orderFromTrackingLiteral},
	{name: "courier_awb", resolve: orderFromCourierAWB},
	{name: "generic_awb", resolve: orderFromGenericAWB},
	{name: "long_number", resolve: orderFromLongNumber},
	{name: "order_label", resolve: orderFromOrderLabel},
	{name: "ref_invoice", resolve: orderFromRefInvoice},
}

// ResolveOrderNumber returns the best-effort tracking or order key. It is a
// duplicate-detection hint, not a unique identifier.
func ResolveOrderNumber(doc *Document, courier string) string {
	for _, s := range orderChain {
		if v, ok := s.resolve(doc, courier); ok && v != "" {
			return v
		}
	}
	return ""
}

func orderFromTrackingLiteral(doc *Document, _ string) (string, bool) {
	v := reEkartTracking.FindString(doc.Text)
	return v, v != ""
}

func orderFromCourierAWB(doc *Document, courier string) (string, bool) {
	switch courier {
	case "":
		return "", false
	case CourierValmo:
		if m := reMarketplaceAWB.FindStringSubmatch(doc.Text); m != nil {
			return m[1], true
		}
	case CourierDelhivery:
		for _, awb := range reFourteenDigits.FindAllString(doc.Text, -1) {
			if delhiveryAWBPrefixes[awb[:2]] {
				return awb, true
			}
		}
	}
	return "", false
}

func orderFromGenericAWB(doc *Document, _ string) (string, bool) {
	for _, m := range reGenericAWB.FindAllStringSubmatch(doc.Text, -1) {
		code := strings.ToUpper(m[1])
		if nonOrderKeywords[code] || !strings.ContainsAny(code, "0123456789") {
			continue
		}
		return code, true
	}
	return "", false
}

// isMobileNumber reports whether a long digit run is a phone number with a
// country prefix rather than an AWB.
func isMobileNumber(digits string) bool {
	switch {
	case strings.HasPrefix(digits, "0091"):
		return true
	case strings.HasPrefix(digits, "91") && len(digits) == 12 && strings.ContainsRune("6789", rune(digits[2])):
		return true
	}
	return false
}

func orderFromLongNumber(doc *Document, _ string) (string, bool) {
	for _, n := range reLongNumber.FindAllString(doc.Text, -1) {
		if !isMobileNumber(n) {
			return n, true
		}
	}
	return "", false
}

func orderFromOrderLabel(doc *Document, _ string) (string, bool) {
	for _, m := range reOrderLabel.FindAllStringSubmatch(doc.Text, -1) {
		code := strings.ToUpper(m[1])
		if nonOrderKeywords[code] {
			continue
		}
		return m[1], true
	}
	return "", false
}

func orderFromRefInvoice(doc *Document, _ string) (string, bool) {
	m := reRefInvoiceLabel.FindStringSubmatch(doc.Text)
	if m == nil || nonOrderKeywords[strings.ToUpper(m[1])] {
		return "", false
	}
	return m[1], true
}
