package label

import (
	"regexp"
	"strings"
)

// Strategy is one step of a resolver chain. It returns false when it has no
// opinion so the next strategy gets a turn.
type Strategy struct {
	Name    string
	Resolve func(*Document) (string, bool)
}

// RunChain evaluates strategies in order and returns the first hit together
// with the name of the strategy that produced it.
func RunChain(doc *Document, chain []Strategy) (value, strategy string, ok bool) {
	for _, s := range chain {
		if v, ok := s.Resolve(doc); ok && v != "" {
			return v, s.Name, true
		}
	}
	return "", "", false
}

const minBrandLength = 3

var (
	reOrderedFrom   = regexp.MustCompile(`(?i)\bordered\s*fr[o0]m\b\s*[:\-–]?\s*(.*)$`)
	reEmail         = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@([a-z0-9\-]+)\.[a-z.]{2,}`)
	reInvoicePrefix = regexp.MustCompile(`(?i)\binvoice\s*(?:no|number|num|#)?\.?\s*[:\-#]?\s*([a-z]{2,4})[-/]?\d+`)
	reParenCode     = regexp.MustCompile(`^\(.*\)$|\([A-Z0-9_\-]{2,}\)`)
)

// BrandChain is the ordered set of text-only brand strategies. The logo OCR
// step needs page bytes and is run by the Engine after this chain.
var BrandChain = []Strategy{
	{Name: "ordered_from", Resolve: brandFromMarker},
	{Name: "keyword", Resolve: brandFromKeywords},
	{Name: "email_domain", Resolve: brandFromEmail},
	{Name: "invoice_prefix", Resolve: brandFromInvoicePrefix},
	{Name: "positional", Resolve: brandFromPosition},
}

// ResolveBrand runs the text brand chain
func ResolveBrand(doc *Document) string {
	v, _, _ := RunChain(doc, BrandChain)
	return v
}

func cleanBrand(s string) (string, bool) {
	s = stripTrailingNoise(collapseSpaces(s))
	s = strings.TrimLeft(s, ":-–|# ")
	if len([]rune(s)) < minBrandLength || letterCount(s) == 0 {
		return "", false
	}
	return s, true
}

func brandFromMarker(doc *Document) (string, bool) {
	for i, line := range doc.Lines {
		m := reOrderedFrom.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if v, ok := cleanBrand(m[1]); ok {
			return v, true
		}
		if i+1 < len(doc.Lines) {
			if v, ok := cleanBrand(doc.Lines[i+1]); ok {
				return v, true
			}
		}
	}
	return "", false
}

func brandFromKeywords(doc *Document) (string, bool) {
	name := brandKeywordIn(doc.Lower())
	return name, name != ""
}

// brandKeywordIn returns the canonical brand of the first keyword found in lower
func brandKeywordIn(lower string) string {
	for _, rule := range brandKeywords {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Name
			}
		}
	}
	return ""
}

func brandFromEmail(doc *Document) (string, bool) {
	for _, m := range reEmail.FindAllStringSubmatch(doc.Text, -1) {
		domain := strings.ToLower(m[1])
		if webmailDomains[domain] {
			continue
		}
		if v, ok := cleanBrand(titleCase(domain)); ok {
			return v, true
		}
	}
	return "", false
}

func brandFromInvoicePrefix(doc *Document) (string, bool) {
	m := reInvoicePrefix.FindStringSubmatch(doc.Text)
	if m == nil {
		return "", false
	}
	name, ok := invoicePrefixes[strings.ToUpper(m[1])]
	return name, ok
}

const (
	positionalScanLines = 6
	positionalMaxJoin   = 4
)

func brandFromPosition(doc *Document) (string, bool) {
	limit := min(positionalScanLines, len(doc.Lines))
	var parts []string
	for i := 0; i < limit; i++ {
		line := doc.Lines[i]
		if !isBrandLine(line) {
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, line)
		if len(parts) == positionalMaxJoin || endsWithBrandSuffix(line) {
			break
		}
		if i+1 < len(doc.Lines) && looksLikeBarcodeOrKeywordRow(doc.Lines[i+1]) {
			break
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return cleanBrand(strings.Join(parts, " "))
}

// isBrandLine rejects lines that cannot be part of a store name
func isBrandLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case len([]rune(line)) < minUsefulLineLength, letterCount(line) < minBrandLength:
		return false
	case reParenCode.MatchString(line):
		return false
	case !strings.Contains(line, " ") && isSKUToken(line):
		return false
	case reLongDigits.MatchString(strings.ReplaceAll(line, " ", "")):
		return false
	case rePinCode.MatchString(line):
		return false
	case matchCourier(line) != "":
		return false
	case containsAny(lower, locationWords), containsAny(lower, addressKeywords):
		return false
	case containsAny(lower, brandStopwords):
		return false
	case strings.Contains(line, "@"):
		return false
	}
	return true
}

func endsWithBrandSuffix(line string) bool {
	fields := strings.Fields(strings.ToUpper(line))
	if len(fields) == 0 {
		return false
	}
	last := strings.Trim(fields[len(fields)-1], ".,:-")
	return brandSuffixes[last]
}

func looksLikeBarcodeOrKeywordRow(line string) bool {
	compact := strings.ReplaceAll(line, " ", "")
	if reLongDigits.MatchString(compact) {
		return true
	}
	return containsAny(strings.ToLower(line), brandStopwords)
}
