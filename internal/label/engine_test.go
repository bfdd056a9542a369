package label

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves fixed lines, or an error
type fakeSource struct {
	lines []string
	err   error
}

func (f fakeSource) Lines(context.Context, []byte) ([]string, error) {
	return f.lines, f.err
}

var deliveryLabel = []string{
	"Ordered From: Shopperskart pi -",
	"Delhivery",
	"Ship To: Rahul Sharma, House 12, MG Road",
	"AWB: 15123456789012",
	"Product Name SKU Qty Price",
	"Widget ABC-GST-18-HSN1234 2 199.00",
	"Total 398.00",
}

func TestEngineExtractLines(t *testing.T) {
	engine := NewEngine(nil, nil, nil)

	rec := engine.ExtractLines(context.Background(), deliveryLabel)
	assert.Equal(t, LabelRecord{
		BrandName:    "Shopperskart",
		CourierName:  CourierDelhivery,
		Products:     []ProductLine{{ProductName: "Widget", Quantity: 2, Price: 199}},
		OrderNumber:  "15123456789012",
		CustomerName: "Rahul Sharma",
	}, rec)
}

func TestEngineGarbagePage(t *testing.T) {
	ocr := &fakeOCR{}
	engine := NewEngine(fakeSource{lines: []string{"ab", "", "x", "..."}}, ocr, nil)

	rec := engine.Extract(context.Background(), []byte("page"))
	assert.Equal(t, EmptyRecord(), rec)
	assert.NotNil(t, rec.Products)
	assert.Empty(t, rec.Products)
	assert.True(t, rec.IsEmpty())
	assert.Empty(t, ocr.calls)
}

func TestEngineUnreadableInput(t *testing.T) {
	engine := NewEngine(fakeSource{err: errors.New("not a pdf")}, nil, nil)

	rec := engine.Extract(context.Background(), []byte("junk"))
	assert.Equal(t, EmptyRecord(), rec)
}

func TestEngineRecoversUnreadableTextLayerWithOCR(t *testing.T) {
	ocr := &fakeOCR{results: map[Region]OCRResult{
		FullPage: {Text: "Delhivery\nShip To: Meena Devi\nAWB: 15123456789012"},
	}}
	source := FallbackLineSource{Digital: fakeDigital{err: errUnreadable}, OCR: ocr}

	rec := NewEngine(source, ocr, nil).Extract(context.Background(), []byte("page"))
	assert.Equal(t, CourierDelhivery, rec.CourierName)
	assert.Equal(t, "Meena Devi", rec.CustomerName)
	assert.Equal(t, "15123456789012", rec.OrderNumber)
}

func TestEngineDiscardsBrandEqualToCourier(t *testing.T) {
	engine := NewEngine(nil, nil, nil)

	rec := engine.ExtractLines(context.Background(), []string{"Ordered From: Ekart", "Ship To: Anil Kapoor"})
	assert.Empty(t, rec.BrandName)
	assert.Equal(t, CourierEkart, rec.CourierName)
	assert.Equal(t, "Anil Kapoor", rec.CustomerName)
}

func TestEngineImageHeavyCourierPrefersProjection(t *testing.T) {
	ocr := &fakeOCR{results: map[Region]OCRResult{
		ProductsRegion: {Text: "Item description\n1 Floral Kurti QTY-2\nSTVM9"},
	}}
	source := fakeSource{lines: []string{
		"Valmo",
		"AWB 987654321012",
		"Ship To: Meena Devi",
		"Item description",
		"1 Wrong Item QTY-1",
		"STVM9",
	}}
	engine := NewEngine(source, ocr, nil)

	rec := engine.Extract(context.Background(), []byte("page"))
	assert.Equal(t, CourierValmo, rec.CourierName)
	assert.Equal(t, []ProductLine{{ProductName: "Floral Kurti", Quantity: 2}}, rec.Products)
	assert.Equal(t, "987654321012", rec.OrderNumber)
	assert.Equal(t, "Meena Devi", rec.CustomerName)
	assert.Empty(t, rec.BrandName)
	assert.Contains(t, ocr.calls, ProductsRegion)
}

func TestEngineProjectionBackfillsCourier(t *testing.T) {
	ocr := &fakeOCR{results: map[Region]OCRResult{
		ProductsRegion: {Text: "Xpressbees\nProduct Price Qty\nSteel Bottle 250 1"},
	}}
	source := fakeSource{lines: []string{"Ship To: Kavita Rao", "Order ID: KR20931"}}
	engine := NewEngine(source, ocr, nil)

	rec := engine.Extract(context.Background(), []byte("page"))
	assert.Equal(t, CourierXpressbees, rec.CourierName)
	assert.Equal(t, []ProductLine{{ProductName: "Steel Bottle", Quantity: 1, Price: 250}}, rec.Products)
	assert.Equal(t, "KR20931", rec.OrderNumber)
	assert.Equal(t, "Kavita Rao", rec.CustomerName)
}

func TestEngineLogoOCR(t *testing.T) {
	ocr := &fakeOCR{results: map[Region]OCRResult{
		LogoRegion:    {Text: "HOMEGLOW"},
		CourierRegion: {Text: "HOMEGLOW\nShad0wfax"},
	}}
	source := fakeSource{lines: []string{"Ship To: Kavita Rao", "Order ID: KR20931"}}
	engine := NewEngine(source, ocr, nil)

	rec := engine.Extract(context.Background(), []byte("page"))
	assert.Equal(t, "Homeglow", rec.BrandName)
	assert.Equal(t, CourierShadowfax, rec.CourierName)

	count := 0
	for _, r := range ocr.calls {
		if r == CourierRegion {
			count++
		}
	}
	assert.Equal(t, 1, count, "region ocr should be memoized per page")
}

func TestEngineOCRFailureDegrades(t *testing.T) {
	ocr := &fakeOCR{err: errors.New("ocr unavailable")}
	source := fakeSource{lines: []string{"Ship To: Kavita Rao", "Order ID: KR20931"}}
	engine := NewEngine(source, ocr, nil)

	rec := engine.Extract(context.Background(), []byte("page"))
	assert.Empty(t, rec.BrandName)
	assert.Empty(t, rec.CourierName)
	assert.Empty(t, rec.Products)
	assert.Equal(t, "KR20931", rec.OrderNumber)
	assert.Equal(t, "Kavita Rao", rec.CustomerName)
}

func TestEngineIdempotent(t *testing.T) {
	ocr := &fakeOCR{results: map[Region]OCRResult{
		ProductsRegion: {Text: "Item description\n1 Floral Kurti QTY-2\nSTVM9"},
	}}
	engine := NewEngine(fakeSource{lines: deliveryLabel}, ocr, nil)

	first := engine.Extract(context.Background(), []byte("page"))
	second := engine.Extract(context.Background(), []byte("page"))
	require.False(t, first.IsEmpty())
	assert.Equal(t, first, second)
}
