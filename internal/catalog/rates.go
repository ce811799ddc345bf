package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RateTier is one row of a carrier's price table: parcels up to Size
// (sum of outer dimensions, cm) and MaxWeight (kg billable) ship at the
// zone-specific price.
type RateTier struct {
	Size      int                        `json:"size"`       // tier label and size ceiling, cm
	MaxWeight float64                    `json:"max_weight"` // billable weight ceiling, kg
	Prices    map[string]decimal.Decimal `json:"prices"`     // zone -> price
}

// Carrier describes one shipping carrier: its volumetric divisor, service
// limits, and the discrete size/weight tier table.
type Carrier struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// VolumetricDivisor converts outer volume (cm³) to volumetric weight
	// (kg). Billable weight is the greater of actual and volumetric.
	VolumetricDivisor float64 `json:"volumetric_divisor"`

	// Service limits; parcels beyond these are not accepted at all.
	MaxWeight float64 `json:"max_weight"` // kg
	MaxSize   float64 `json:"max_size"`   // sum of outer dims, cm

	DeliveryDays int        `json:"delivery_days"`
	Tiers        []RateTier `json:"tiers"` // ascending by Size
}

// VolumetricWeight returns the dimensional weight in kg for an outer
// volume in cm³.
func (c Carrier) VolumetricWeight(outerVolume float64) float64 {
	if c.VolumetricDivisor <= 0 {
		return 0
	}
	return outerVolume / c.VolumetricDivisor
}

// BillableWeight returns the weight the carrier charges for: the greater
// of the actual weight and the volumetric weight.
func (c Carrier) BillableWeight(actual, outerVolume float64) float64 {
	vol := c.VolumetricWeight(outerVolume)
	if vol > actual {
		return vol
	}
	return actual
}

// TierFor returns the smallest tier admitting the given size sum and
// billable weight, or false when the parcel exceeds every tier.
func (c Carrier) TierFor(sizeSum, billable float64) (RateTier, bool) {
	for _, t := range c.Tiers {
		if sizeSum <= float64(t.Size) && billable <= t.MaxWeight {
			return t, true
		}
	}
	return RateTier{}, false
}

// Zones lists the zones the carrier serves, sorted for determinism.
func (c Carrier) Zones() []string {
	seen := map[string]bool{}
	for _, t := range c.Tiers {
		for zone := range t.Prices {
			seen[zone] = true
		}
	}
	zones := make([]string, 0, len(seen))
	for zone := range seen {
		zones = append(zones, zone)
	}
	sort.Strings(zones)
	return zones
}
