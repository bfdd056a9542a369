package label

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	reSpaces      = regexp.MustCompile(`\s+`)
	reSeparator   = regexp.MustCompile(`^[-_=*.~\s]+$`)
	reLeadingJunk = regexp.MustCompile(`^[\s|#*•]+`)
	reLongDigits  = regexp.MustCompile(`\d{8,}`)
	reFiveDigits  = regexp.MustCompile(`\d{5,}`)
	rePinCode     = regexp.MustCompile(`\b\d{6}\b`)
	reGSTSuffix   = regexp.MustCompile(`(?i)\s*\b[A-Z0-9]+(?:[-_][A-Z0-9]+)*-GST\b.*$`)
	reGSTToken    = regexp.MustCompile(`(?i)\S*(gst|hsn)\S*`)
)

// NormalizeLine applies NFC normalization and trims surrounding whitespace
func NormalizeLine(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(collapseSpaces(s)))
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if containsWord(lower, w) {
			return true
		}
	}
	return false
}

// containsWord reports whether w occurs in lower on word boundaries
func containsWord(lower, w string) bool {
	return wordIndex(lower, w) >= 0
}

// wordIndex is the byte offset of the first whole-word occurrence of w, or -1
func wordIndex(lower, w string) int {
	idx := 0
	for {
		i := strings.Index(lower[idx:], w)
		if i < 0 {
			return -1
		}
		start := idx + i
		if boundary(lower, start-1) && boundary(lower, start+len(w)) {
			return start
		}
		idx = start + 1
	}
}

func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := rune(s[i])
	return !unicode.IsLetter(c) && !unicode.IsDigit(c)
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func isAllCaps(tok string) bool {
	hasLetter := false
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isSKUToken reports whether tok looks like a seller code such as "GRD-SPR-01"
func isSKUToken(tok string) bool {
	if len(tok) < 4 {
		return false
	}
	hasMarker := false
	for _, r := range tok {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9', r == '-', r == '_', r == '/':
			hasMarker = true
		default:
			return false
		}
	}
	return hasMarker
}

// stripTrailingNoise drops stray one- or two-letter tokens and dangling
// punctuation that OCR leaves after a value. The first token is always kept.
func stripTrailingNoise(s string) string {
	fields := strings.Fields(s)
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		if letterCount(last) == 0 || (len([]rune(last)) <= 2 && isAlpha(last)) {
			fields = fields[:len(fields)-1]
			continue
		}
		break
	}
	out := strings.Join(fields, " ")
	return strings.TrimRightFunc(out, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// dedupeCapsEchoes collapses immediately repeated ALL-CAPS tokens
func dedupeCapsEchoes(s string) string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for i, f := range fields {
		if i > 0 && isAllCaps(f) && f == fields[i-1] {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// stripLeadingSKUs removes seller codes in front of a name, unless nothing
// readable would be left.
func stripLeadingSKUs(s string) string {
	fields := strings.Fields(s)
	i := 0
	for i < len(fields) && isSKUToken(fields[i]) {
		i++
	}
	rest := strings.Join(fields[i:], " ")
	if letterCount(rest) == 0 {
		return s
	}
	return rest
}

// cleanProductName applies the post-cleaning every emitted name goes through.
// It returns false when the result is not a usable name.
func cleanProductName(s string) (string, bool) {
	s = reLeadingJunk.ReplaceAllString(s, "")
	s = reGSTSuffix.ReplaceAllString(s, "")
	s = reGSTToken.ReplaceAllString(s, "")
	s = dedupeCapsEchoes(collapseSpaces(s))
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) && r != ')' || unicode.IsSpace(r)
	})
	if len([]rune(s)) <= 2 || letterCount(s) == 0 {
		return "", false
	}
	return s, true
}

func parsePrice(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseQuantity(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return 1
	}
	return v
}
