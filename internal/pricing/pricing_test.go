package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ShipPack/internal/catalog"
	"github.com/piwi3910/ShipPack/internal/model"
)

func yen(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func tier(size int, maxWeight float64, price int64) catalog.RateTier {
	return catalog.RateTier{
		Size:      size,
		MaxWeight: maxWeight,
		Prices:    map[string]decimal.Decimal{"kanto": yen(price)},
	}
}

// layoutWith builds a layout holding one placed item of the given weight.
func layoutWith(box model.Box, weight float64) model.Layout {
	return model.Layout{
		Box: box,
		Placements: []model.Placement{
			{
				Item:   model.Item{ID: "x", Length: 10, Width: 10, Height: 10, Weight: weight, Stackable: true},
				Length: 10, Width: 10, Height: 10,
			},
		},
	}
}

func TestQuote_PicksCheapestCarrier(t *testing.T) {
	carriers := []catalog.Carrier{
		{
			ID: "pricey", VolumetricDivisor: 5000, MaxWeight: 30, MaxSize: 200, DeliveryDays: 1,
			Tiers: []catalog.RateTier{tier(100, 10, 900)},
		},
		{
			ID: "cheap", VolumetricDivisor: 5000, MaxWeight: 30, MaxSize: 200, DeliveryDays: 2,
			Tiers: []catalog.RateTier{tier(100, 10, 700)},
		},
	}
	box := model.NewBox("No.1", 37.5, 37.0, 24.0, 10.0, yen(120))
	layouts := []model.Layout{layoutWith(box, 2)}

	quote, norates, ok := New(carriers, nil).Quote(layouts, "kanto")

	require.True(t, ok)
	assert.Empty(t, norates)
	assert.Equal(t, "cheap", quote.Carrier)
	assert.Equal(t, "700", quote.Shipping.String())
	assert.Equal(t, "120", quote.BoxCost.String())
	assert.Equal(t, "820", quote.Total.String())
	assert.Equal(t, 2, quote.DeliveryDays)
}

func TestQuote_TieKeepsFirstCarrier(t *testing.T) {
	carriers := []catalog.Carrier{
		{ID: "a", VolumetricDivisor: 5000, MaxWeight: 30, MaxSize: 200, Tiers: []catalog.RateTier{tier(100, 10, 800)}},
		{ID: "b", VolumetricDivisor: 5000, MaxWeight: 30, MaxSize: 200, Tiers: []catalog.RateTier{tier(100, 10, 800)}},
	}
	box := model.NewBox("No.1", 37.5, 37.0, 24.0, 10.0, yen(120))

	quote, _, ok := New(carriers, nil).Quote([]model.Layout{layoutWith(box, 2)}, "kanto")

	require.True(t, ok)
	assert.Equal(t, "a", quote.Carrier)
}

func TestQuote_VolumetricWeightFlipsWinner(t *testing.T) {
	// A light but bulky parcel: actual 1 kg, outer volume 60000 cm³.
	// Divisor 5000 bills 12 kg and lands in the heavier tier; divisor
	// 10000 bills 6 kg and stays in the light tier, so the nominally
	// pricier carrier wins.
	carriers := []catalog.Carrier{
		{
			ID: "harsh", VolumetricDivisor: 5000, MaxWeight: 30, MaxSize: 200,
			Tiers: []catalog.RateTier{tier(120, 10, 600), tier(160, 20, 1400)},
		},
		{
			ID: "lenient", VolumetricDivisor: 10000, MaxWeight: 30, MaxSize: 200,
			Tiers: []catalog.RateTier{tier(120, 10, 800), tier(160, 20, 1600)},
		},
	}
	box := model.Box{
		ID: "bulky", Length: 48, Width: 38, Height: 31,
		OuterLength: 50, OuterWidth: 40, OuterHeight: 30,
		MaxWeight: 15, UnitCost: yen(0),
	}
	layouts := []model.Layout{layoutWith(box, 1)}

	quote, _, ok := New(carriers, nil).Quote(layouts, "kanto")

	require.True(t, ok)
	assert.Equal(t, "lenient", quote.Carrier)
	require.Len(t, quote.Boxes, 1)
	assert.InDelta(t, 6.0, quote.Boxes[0].BillableWeight, 1e-9)
	assert.Equal(t, 120, quote.Boxes[0].SizeTier)
}

func TestQuote_CarrierLimitsExcludeNotFail(t *testing.T) {
	carriers := []catalog.Carrier{
		{
			ID: "small-only", VolumetricDivisor: 5000, MaxWeight: 5, MaxSize: 80,
			Tiers: []catalog.RateTier{tier(80, 5, 500)},
		},
		{
			ID: "big", VolumetricDivisor: 5000, MaxWeight: 30, MaxSize: 200,
			Tiers: []catalog.RateTier{tier(200, 30, 1800)},
		},
	}
	box := model.NewBox("No.6", 50.2, 40.2, 50.8, 25.0, yen(300))
	layouts := []model.Layout{layoutWith(box, 12)}

	quote, norates, ok := New(carriers, nil).Quote(layouts, "kanto")

	require.True(t, ok)
	assert.Equal(t, "big", quote.Carrier)
	require.Len(t, norates, 1)
	assert.Equal(t, "small-only", norates[0].Carrier)
	assert.Contains(t, norates[0].Detail, "size")
}

func TestQuote_UnservedZone(t *testing.T) {
	carriers := []catalog.Carrier{
		{
			ID: "domestic", VolumetricDivisor: 5000, MaxWeight: 30, MaxSize: 200,
			Tiers: []catalog.RateTier{tier(100, 10, 700)},
		},
	}
	box := model.NewBox("No.1", 37.5, 37.0, 24.0, 10.0, yen(120))

	_, norates, ok := New(carriers, nil).Quote([]model.Layout{layoutWith(box, 2)}, "mars")

	assert.False(t, ok)
	require.Len(t, norates, 1)
	assert.Contains(t, norates[0].Detail, "zone")
}

func TestQuote_MultiBoxSumsPerBoxPrices(t *testing.T) {
	carriers := []catalog.Carrier{
		{
			ID: "only", VolumetricDivisor: 5000, MaxWeight: 30, MaxSize: 200,
			Tiers: []catalog.RateTier{tier(100, 10, 700), tier(140, 20, 1100)},
		},
	}
	small := model.NewBox("No.1", 37.5, 37.0, 24.0, 10.0, yen(120))
	big := model.NewBox("No.5", 53.2, 40.2, 33.8, 20.0, yen(220))
	layouts := []model.Layout{layoutWith(small, 2), layoutWith(big, 8)}

	quote, _, ok := New(carriers, nil).Quote(layouts, "kanto")

	require.True(t, ok)
	require.Len(t, quote.Boxes, 2)
	assert.Equal(t, "1800", quote.Shipping.String())
	assert.Equal(t, "340", quote.BoxCost.String())
	assert.Equal(t, "2140", quote.Total.String())
}

func TestQuoteAll_DefaultCatalog(t *testing.T) {
	cat := catalog.Default()
	box := cat.Boxes[0] // No.1, size sum 98.5
	layouts := []model.Layout{layoutWith(box, 1.5)}

	quotes, norates := New(cat.Carriers, nil).QuoteAll(layouts, catalog.ZoneKanto)

	assert.Empty(t, norates)
	require.Len(t, quotes, 3)
	// Catalog order is preserved.
	assert.Equal(t, "yamato", quotes[0].Carrier)
	assert.Equal(t, "sagawa", quotes[1].Carrier)
	assert.Equal(t, "japanpost", quotes[2].Carrier)
	for _, q := range quotes {
		assert.True(t, q.Total.GreaterThan(decimal.Zero))
	}
}
