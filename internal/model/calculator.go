package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// PurchaseEstimate holds the results of a box purchasing calculation for a
// fulfillment batch: how many boxes of one type to order, with a safety
// margin for damaged or misfolded boxes.
type PurchaseEstimate struct {
	Shipments      int             `json:"shipments"`        // expected shipments in the batch
	BoxesPerShip   float64         `json:"boxes_per_ship"`   // average boxes per shipment
	BoxesExact     float64         `json:"boxes_exact"`      // exact fractional box count
	BoxesMin       int             `json:"boxes_min"`        // minimum boxes (ceiling of exact)
	BoxesWithWaste int             `json:"boxes_with_waste"` // recommended order including waste factor
	WastePercent   float64         `json:"waste_percent"`    // waste factor applied (e.g. 5 for 5%)
	UnitCost       decimal.Decimal `json:"unit_cost"`        // price per box used for estimation
	EstimatedCost  decimal.Decimal `json:"estimated_cost"`   // total cost of the recommended order
}

// CalculatePurchaseEstimate computes how many boxes of the given type to buy
// for an expected number of shipments. boxesPerShipment is the average box
// count per shipment (above 1.0 when multi-box splits are common).
func CalculatePurchaseEstimate(box Box, shipments int, boxesPerShipment, wastePercent float64) PurchaseEstimate {
	if boxesPerShipment <= 0 {
		boxesPerShipment = 1.0
	}

	exact := float64(shipments) * boxesPerShipment
	minBoxes := int(math.Ceil(exact))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minBoxes {
		withWaste = minBoxes
	}

	cost := box.UnitCost.Mul(decimal.NewFromInt(int64(withWaste)))

	return PurchaseEstimate{
		Shipments:      shipments,
		BoxesPerShip:   boxesPerShipment,
		BoxesExact:     exact,
		BoxesMin:       minBoxes,
		BoxesWithWaste: withWaste,
		WastePercent:   wastePercent,
		UnitCost:       box.UnitCost,
		EstimatedCost:  cost,
	}
}
