package label

import (
	"regexp"
	"strings"
)

var (
	reEkartTracking  = regexp.MustCompile(`\bFMP[A-Z]\d{9,}\b`)
	reFourteenDigits = regexp.MustCompile(`\b\d{14}\b`)
	reRefInvoice     = regexp.MustCompile(`(?i)\bref\.?\s*/\s*invoice\b|\border\s*number\b`)
	reCapsToken      = regexp.MustCompile(`\b[A-Z][A-Z0-9]{2,19}\b`)
)

// CourierChain is the ordered set of text-only courier strategies. Logo OCR
// is the Engine's last resort when all of these miss.
var CourierChain = []Strategy{
	{Name: "pattern_table", Resolve: courierFromPatterns},
	{Name: "tracking_number", Resolve: courierFromTracking},
	{Name: "positional", Resolve: courierFromPosition},
}

// ResolveCourier runs the text courier chain
func ResolveCourier(doc *Document) string {
	v, _, _ := RunChain(doc, CourierChain)
	return v
}

// matchCourier tests s against the courier pattern table
func matchCourier(s string) string {
	for _, rule := range courierRules {
		if rule.Match(s) {
			return rule.Name
		}
	}
	return ""
}

func isCanonicalCourier(s string) bool {
	for _, rule := range courierRules {
		if strings.EqualFold(rule.Name, s) {
			return true
		}
	}
	return false
}

func courierFromPatterns(doc *Document) (string, bool) {
	name := matchCourier(doc.Text)
	return name, name != ""
}

func courierFromTracking(doc *Document) (string, bool) {
	if reEkartTracking.MatchString(doc.Text) {
		return CourierEkart, true
	}
	for _, awb := range reFourteenDigits.FindAllString(doc.Text, -1) {
		if delhiveryAWBPrefixes[awb[:2]] {
			return CourierDelhivery, true
		}
	}
	if reRefInvoice.MatchString(doc.Text) {
		return CourierShadowfax, true
	}
	return "", false
}

const courierScanLines = 5

func courierFromPosition(doc *Document) (string, bool) {
	limit := min(courierScanLines, len(doc.Lines))
	for i := 0; i < limit; i++ {
		for _, tok := range reCapsToken.FindAllString(doc.Lines[i], -1) {
			if courierCapsStoplist[tok] || brandSuffixes[tok] || letterCount(tok) < 3 || brandKeywordIn(strings.ToLower(tok)) != "" {
				continue
			}
			return tok, true
		}
	}
	return "", false
}
