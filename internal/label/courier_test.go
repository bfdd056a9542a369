package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchCourierVariants(t *testing.T) {
	variants := map[string][]string{
		CourierDelhivery:   {"Delhivery", "DELHIVERY", "De1hivery", "d3lhivery", "Delhi very", "delhiverv"},
		CourierEkart:       {"Ekart", "E-Kart", "EKART LOGISTICS", "Flipkart Logistics", "ekrt"},
		CourierXpressbees:  {"Xpressbees", "XPRESS BEES", "X-pressbees", "Expressbees"},
		CourierShadowfax:   {"Shadowfax", "SHADOW FAX", "Shad0wfax"},
		CourierEcomExpress: {"Ecom Express", "ECOMEXPRESS", "E-com Express", "Ec0m Expr3ss"},
		CourierValmo:       {"Valmo", "VALMO", "Va1mo", "Vaimo"},
		CourierBlueDart:    {"Blue Dart", "BLUEDART", "Blue D4rt"},
		CourierDTDC:        {"DTDC", "D.T.D.C.", "dtoc"},
		CourierIndiaPost:   {"India Post", "Speed Post", "INDIA P0ST"},
		CourierAmazon:      {"Amazon Shipping", "AMAZON TRANSPORTATION", "AMZL"},
	}

	for canonical, names := range variants {
		for _, name := range names {
			t.Run(name, func(t *testing.T) {
				assert.Equal(t, canonical, matchCourier(name))
				assert.Equal(t, canonical, ResolveCourier(NewDocument([]string{"Courier: " + name})))
			})
		}
	}
}

func TestResolveCourier(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "pattern table",
			lines: []string{"Prepaid", "Shipped via Xpress Bees Surface"},
			want:  CourierXpressbees,
		},
		{
			name:  "ekart tracking number",
			lines: []string{"Tracking FMPC1234567890"},
			want:  CourierEkart,
		},
		{
			name:  "delhivery numeric awb",
			lines: []string{"Waybill 15123456789012"},
			want:  CourierDelhivery,
		},
		{
			name:  "unknown numeric awb prefix",
			lines: []string{"Waybill 99123456789012"},
			want:  "",
		},
		{
			name:  "ref invoice weak signal",
			lines: []string{"Ref/Invoice: SFX998"},
			want:  CourierShadowfax,
		},
		{
			name:  "positional caps token",
			lines: []string{"PREPAID", "SWIFTSHIP", "Ship To: Rahul"},
			want:  "SWIFTSHIP",
		},
		{
			name:  "positional skips stoplisted columns",
			lines: []string{"PREPAID     SWIFTSHIP     COD", "Ship To: Rahul"},
			want:  "SWIFTSHIP",
		},
		{
			name:  "positional ignores brand keywords",
			lines: []string{"SHOPPERSKART", "Ship To: Rahul"},
			want:  "",
		},
		{
			name:  "nothing",
			lines: []string{"Ship To: Rahul Sharma"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCourier(NewDocument(tt.lines)))
		})
	}
}

func TestCourierPatternTableComesFirst(t *testing.T) {
	doc := NewDocument([]string{"Delhivery", "Tracking FMPC1234567890"})

	value, strategy, ok := RunChain(doc, CourierChain)
	assert.True(t, ok)
	assert.Equal(t, CourierDelhivery, value)
	assert.Equal(t, "pattern_table", strategy)
}
