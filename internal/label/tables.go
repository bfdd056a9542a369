package label

import "regexp"

// Canonical courier names
const (
	CourierDelhivery   = "Delhivery"
	CourierEkart       = "Ekart"
	CourierXpressbees  = "Xpressbees"
	CourierShadowfax   = "Shadowfax"
	CourierEcomExpress = "Ecom Express"
	CourierValmo       = "Valmo"
	CourierBlueDart    = "Blue Dart"
	CourierDTDC        = "DTDC"
	CourierIndiaPost   = "India Post"
	CourierAmazon      = "Amazon Shipping"
)

// ImageHeavyCourier prints labels whose text layer cannot be trusted, so the
// OCR projection pass runs before any text table layout.
const ImageHeavyCourier = CourierValmo

// PatternRule maps a regex onto a canonical display name. Variants observed in
// OCR output are appended to the pattern list rather than handled in code.
type PatternRule struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Match reports whether any pattern of the rule matches s
func (r PatternRule) Match(s string) bool {
	for _, p := range r.Patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

// courierRules is ordered by priority; the first match wins.
var courierRules = []PatternRule{
	{Name: CourierDelhivery, Patterns: patterns(
		`\bd[e3][l1]h[i1l]v[e3]r[yv]\b`,
		`\bdelhi\s?very\b`,
		`\bde[l1]hiv[ae]ry\b`,
	)},
	{Name: CourierEkart, Patterns: patterns(
		`\be[-\s]?kart\b`,
		`\bekar[tl]\s*logistics\b`,
		`\bflipkart\s*logistics\b`,
		`\bekrt\b`,
	)},
	{Name: CourierXpressbees, Patterns: patterns(
		`\bx[-\s]?pres{1,2}\s*b[e3]{1,2}s{1,2}\b`,
		`\bxpress\s*bee\b`,
		`\bexpressbees\b`,
	)},
	{Name: CourierShadowfax, Patterns: patterns(
		`\bshad[o0]w\s*f[a4]x\b`,
		`\bshad[o0]wfa\b`,
	)},
	{Name: CourierEcomExpress, Patterns: patterns(
		`\be[-\s]?c[o0]m\s*expr[e3]ss\b`,
		`\becomexpress\b`,
	)},
	{Name: CourierValmo, Patterns: patterns(
		`\bva[l1i]m[o0]\b`,
		`\bvaimo\b`,
	)},
	{Name: CourierBlueDart, Patterns: patterns(
		`\bblue\s*d[a4]rt\b`,
		`\bbluedar\b`,
	)},
	{Name: CourierDTDC, Patterns: patterns(
		`\bdtdc\b`,
		`\bd\.t\.d\.c\.?`,
		`\bdtoc\b`,
	)},
	{Name: CourierIndiaPost, Patterns: patterns(
		`\bindia\s*p[o0]st\b`,
		`\bspeed\s*p[o0]st\b`,
	)},
	{Name: CourierAmazon, Patterns: patterns(
		`\bamazon\s*(shipping|transportation|logistics)\b`,
		`\bamzl\b`,
	)},
}

// KeywordRule maps lowercase keyword variants onto one canonical name
type KeywordRule struct {
	Name     string
	Keywords []string
}

// brandKeywords is ordered by priority and includes misspellings seen in scans.
var brandKeywords = []KeywordRule{
	{Name: "Shopperskart", Keywords: []string{"shopperskart", "shoppers kart", "shopperkart", "shoperskart", "shopperskar t"}},
	{Name: "Kuber Industries", Keywords: []string{"kuber industries", "kuberindustries", "kuber industrie", "kuber indusries"}},
	{Name: "Trendy Goods", Keywords: []string{"trendy goods", "trendygoods", "trendy g00ds", "trendy qoods"}},
	{Name: "Greenmart", Keywords: []string{"greenmart", "green mart", "greenrnart", "gren mart"}},
	{Name: "Urban Kart", Keywords: []string{"urban kart", "urbankart", "urban karl", "urbn kart"}},
	{Name: "Desi Bazaar", Keywords: []string{"desi bazaar", "desibazaar", "desi bazar", "desi bazzar"}},
	{Name: "Homeglow", Keywords: []string{"homeglow", "home glow", "horneglow"}},
}

// invoicePrefixes maps the alphabetic invoice prefix printed by a seller onto the brand
var invoicePrefixes = map[string]string{
	"SK":   "Shopperskart",
	"SKRT": "Shopperskart",
	"KI":   "Kuber Industries",
	"TG":   "Trendy Goods",
	"GRM":  "Greenmart",
	"UK":   "Urban Kart",
	"DB":   "Desi Bazaar",
	"HG":   "Homeglow",
}

var webmailDomains = map[string]bool{
	"gmail":      true,
	"googlemail": true,
	"yahoo":      true,
	"ymail":      true,
	"outlook":    true,
	"hotmail":    true,
	"live":       true,
	"rediffmail": true,
}

// brandSuffixes end a positional brand candidate
var brandSuffixes = map[string]bool{
	"GOODS": true, "MART": true, "KART": true, "STORE": true, "STORES": true,
	"SHOP": true, "MALL": true, "BAZAAR": true, "TRADERS": true, "ENTERPRISES": true,
	"FASHION": true, "INDUSTRIES": true, "CREATIONS": true,
}

// brandStopwords mark form labels and boilerplate that never carry a store name
var brandStopwords = []string{
	"ship to", "deliver to", "bill to", "invoice", "order", "prepaid", "cod", "tax",
	"awb", "tracking", "date", "label", "product", "qty", "sku", "price", "amount",
	"weight", "dimension", "return", "sold by", "ordered from", "undelivered",
	"customer", "mobile", "phone", "pincode", "pin code", "courier", "dispatch",
	"shipment", "surface", "standard", "collect", "routing", "destination", "origin",
	"description",
}

var locationWords = []string{
	"delhi", "mumbai", "bangalore", "bengaluru", "kolkata", "chennai", "hyderabad",
	"pune", "jaipur", "ahmedabad", "surat", "lucknow", "noida", "gurgaon", "gurugram",
	"maharashtra", "karnataka", "gujarat", "rajasthan", "tamil nadu", "uttar pradesh",
	"west bengal", "haryana", "kerala", "telangana", "india",
}

// addressKeywords end a customer name and disqualify positional brand lines
var addressKeywords = []string{
	"house", "h.no", "h no", "flat", "floor", "street", "road", "sector", "block",
	"near", "opp", "village", "plot", "apartment", "colony", "lane", "nagar",
	"district", "tehsil", "landmark", "building", "phase",
}

// courierCapsStoplist rejects bare ALL-CAPS tokens that are form words or brand suffixes
var courierCapsStoplist = map[string]bool{
	"PREPAID": true, "COD": true, "SURFACE": true, "EXPRESS": true, "AIR": true,
	"STANDARD": true, "INVOICE": true, "ORDER": true, "SHIP": true, "FROM": true,
	"RETURN": true, "ADDRESS": true, "PRODUCT": true, "QTY": true, "SKU": true,
	"PRICE": true, "TOTAL": true, "AMOUNT": true, "GST": true, "HSN": true, "TAX": true,
	"DATE": true, "AWB": true, "PIN": true, "INDIA": true, "NAME": true, "MOBILE": true,
	"PHONE": true, "WEIGHT": true, "SOLD": true, "DELIVERY": true, "DELIVER": true,
	"PICKUP": true, "DESTINATION": true, "ORIGIN": true, "ROUTE": true, "CODE": true,
	"NOT": true, "FOR": true, "RESALE": true, "THIS": true, "COMPUTER": true,
	"GENERATED": true, "LABEL": true, "TRACKING": true, "REF": true, "ITEM": true,
	"DESCRIPTION": true, "BILL": true, "CUSTOMER": true, "DETAILS": true, "COLLECT": true,
	"GOODS": true, "MART": true, "KART": true, "STORE": true, "SHOP": true, "MRP": true,
	"IGST": true, "CGST": true, "SGST": true, "GSTIN": true, "NET": true, "PCS": true,
}

// productGarbage lists tokens that disqualify a line as a product name
var productGarbage = []string{
	"qty", "sku", "price", "amount", "total", "hsn", "gst", "tax", "invoice", "order",
	"awb", "mrp", "discount", "weight", "return", "ship to", "customer", "courier",
	"barcode", "prepaid", "cod", "pincode", "mobile",
}

// itemFooter ends an "Item description" block
var itemFooter = regexp.MustCompile(`(?i)^(stvm\w*|tax\s*invoice|order\s*(no|id|number)|invoice|pickup|return|if\s+undelivered|powered\s+by|this\s+is\s+a\s+computer|total|gstin|sold\s+by|awb|destination)\b`)

// nonNameKeywords are values that follow a ship-to marker but are not names
var nonNameKeywords = []string{
	"customer address", "address", "mobile", "phone", "contact", "pincode", "pin code",
	"order", "invoice", "details", "awb", "qty", "tracking",
}

// nonOrderKeywords are values that follow an order label but are column headers
var nonOrderKeywords = map[string]bool{
	"SKU": true, "QTY": true, "DATE": true, "INVOICE": true, "NUMBER": true, "DETAILS": true,
}

// delhiveryAWBPrefixes are the leading digit pairs of 14-digit numeric AWBs
var delhiveryAWBPrefixes = map[string]bool{
	"14": true, "15": true, "16": true, "19": true, "28": true,
}
