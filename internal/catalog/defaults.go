package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/piwi3910/ShipPack/internal/model"
)

// Destination zones used by the built-in rate tables.
const (
	ZoneKanto    = "kanto"
	ZoneKansai   = "kansai"
	ZoneHokkaido = "hokkaido"
	ZoneOkinawa  = "okinawa"
)

// Default returns the built-in reference catalog: the display cube product
// line, the five stocked transport boxes, and three carriers with per-zone
// tier tables.
func Default() Catalog {
	return Catalog{
		Products: defaultProducts(),
		Boxes:    defaultBoxes(),
		Carriers: defaultCarriers(),
	}
}

func defaultProducts() []Product {
	return []Product{
		{Code: "S", Name: "Cube S", Length: 15, Width: 10, Height: 8, Weight: 0.5, Stackable: true},
		{Code: "S-LONG", Name: "Cube S Long", Length: 25, Width: 10, Height: 8, Weight: 0.7, Stackable: true},
		{Code: "L", Name: "Cube L", Length: 20, Width: 15, Height: 12, Weight: 1.2, Stackable: true},
		{Code: "L-LONG", Name: "Cube L Long", Length: 30, Width: 15, Height: 12, Weight: 1.5, Stackable: true},
		{Code: "LL", Name: "Cube LL", Length: 25, Width: 20, Height: 15, Weight: 2.0, Stackable: true},
	}
}

func defaultBoxes() []model.Box {
	yen := decimal.NewFromInt
	return []model.Box{
		model.NewBox("No.1", 37.5, 37.0, 24.0, 10.0, yen(120)),
		model.NewBox("No.2", 50.2, 40.2, 31.0, 15.0, yen(180)),
		model.NewBox("No.5", 53.2, 40.2, 33.8, 20.0, yen(220)),
		model.NewBox("No.15", 57.5, 40.2, 34.0, 25.0, yen(260)),
		model.NewBox("No.6", 50.2, 40.2, 50.8, 25.0, yen(300)),
	}
}

// tier builds one rate tier with zone prices derived from the Kanto base:
// Kansai, Hokkaido and Okinawa carry fixed surcharges.
func tier(size int, maxWeight float64, kantoBase, kansaiAdd, hokkaidoAdd, okinawaAdd int64) RateTier {
	yen := decimal.NewFromInt
	return RateTier{
		Size:      size,
		MaxWeight: maxWeight,
		Prices: map[string]decimal.Decimal{
			ZoneKanto:    yen(kantoBase),
			ZoneKansai:   yen(kantoBase + kansaiAdd),
			ZoneHokkaido: yen(kantoBase + hokkaidoAdd),
			ZoneOkinawa:  yen(kantoBase + okinawaAdd),
		},
	}
}

func defaultCarriers() []Carrier {
	return []Carrier{
		{
			ID:                "yamato",
			Name:              "Yamato Transport",
			VolumetricDivisor: 5000,
			MaxWeight:         30,
			MaxSize:           200,
			DeliveryDays:      1,
			Tiers: []RateTier{
				tier(60, 2, 650, 120, 350, 600),
				tier(80, 5, 720, 120, 350, 600),
				tier(100, 10, 800, 120, 350, 600),
				tier(120, 15, 950, 120, 350, 600),
				tier(140, 20, 1150, 120, 350, 600),
				tier(160, 25, 1400, 120, 350, 600),
				tier(180, 30, 1700, 120, 350, 600),
				tier(200, 30, 2000, 120, 350, 600),
			},
		},
		{
			ID:                "sagawa",
			Name:              "Sagawa Express",
			VolumetricDivisor: 5000,
			MaxWeight:         30,
			MaxSize:           260,
			DeliveryDays:      1,
			Tiers: []RateTier{
				tier(60, 2, 620, 110, 330, 580),
				tier(80, 5, 690, 110, 330, 580),
				tier(100, 10, 750, 110, 330, 580),
				tier(120, 15, 900, 110, 330, 580),
				tier(140, 20, 1100, 110, 330, 580),
				tier(160, 25, 1350, 110, 330, 580),
				tier(180, 30, 1650, 110, 330, 580),
				tier(200, 30, 1950, 110, 330, 580),
				tier(220, 30, 2300, 110, 330, 580),
				tier(260, 30, 2900, 110, 330, 580),
			},
		},
		{
			ID:                "japanpost",
			Name:              "Japan Post",
			VolumetricDivisor: 6000,
			MaxWeight:         25,
			MaxSize:           170,
			DeliveryDays:      2,
			Tiers: []RateTier{
				tier(60, 2, 700, 100, 300, 450),
				tier(80, 5, 760, 100, 300, 450),
				tier(100, 10, 850, 100, 300, 450),
				tier(120, 15, 1000, 100, 300, 450),
				tier(140, 20, 1200, 100, 300, 450),
				tier(170, 25, 1450, 100, 300, 450),
			},
		},
	}
}
